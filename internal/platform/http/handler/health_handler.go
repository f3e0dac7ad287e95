// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"country_explorer/internal/api"
)

// Health はサービスヘルスチェック用の /healthz エンドポイントを処理します。
// HTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
func Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// Welcome は GET / のレスポンスを返します。
func Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, api.WelcomeResponse{Message: "Welcome to Country Explorer API"})
}

// Check は依存先（DB、Redisなど）への疎通確認関数です。
type Check func(ctx context.Context) error

// ReadinessHandler は登録された依存先をすべて確認する /readyz を提供します。
type ReadinessHandler struct {
	checks  map[string]Check
	timeout time.Duration
}

// NewReadinessHandler は新しい ReadinessHandler を生成します。nil の Check は無視します。
func NewReadinessHandler(timeout time.Duration, checks map[string]Check) *ReadinessHandler {
	filtered := make(map[string]Check, len(checks))
	for name, fn := range checks {
		if fn != nil {
			filtered[name] = fn
		}
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &ReadinessHandler{checks: filtered, timeout: timeout}
}

// Ready はすべての依存先が応答すれば200、ひとつでも失敗すれば503を返します。
// 失敗した依存先の名前のみを返し、エラー詳細はログにのみ出力します。
func (h *ReadinessHandler) Ready(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	failed := make([]string, 0)
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			slog.Warn("readiness check failed", "dependency", name, "error", err)
			failed = append(failed, name)
		}
	}
	sort.Strings(failed)

	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "failed": failed})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
