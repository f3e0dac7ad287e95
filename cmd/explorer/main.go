package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"country_explorer/internal/app/config"
	"country_explorer/internal/app/di"
	"country_explorer/internal/client/apiclient"
	"country_explorer/internal/client/cli"
	"country_explorer/internal/client/state"
	infrahttp "country_explorer/internal/platform/http"
	"country_explorer/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	// 対話出力と混ざらないようログは標準エラーへ
	logging.Setup(os.Stderr, "warn", "text")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := apiclient.New(cfg.APIBaseURL, infrahttp.NewHTTPClient(cfg.HTTPClientTimeout))
	st := state.New(client)
	if cfg.ExplorerToken != "" {
		if err := st.Restore(ctx, cfg.ExplorerToken); err != nil {
			slog.Warn("stored session rejected", "error", err)
		}
	}

	app := cli.NewApp(st, di.NewCountryClient(cfg), os.Stdin, os.Stdout)
	app.Run(ctx)
}
