package redis

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options は Redis 接続設定です。
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient は Redis クライアントを生成して疎通確認を行います。
// Addr が空の場合はキャッシュ無効として (nil, nil) を返します。
func NewRedisClient(ctx context.Context, opts Options) (*redis.Client, error) {
	if opts.Addr == "" {
		slog.Info("Redis not configured, favorites cache disabled")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	// 接続確認
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", opts.Addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", opts.Addr)
	return rdb, nil
}
