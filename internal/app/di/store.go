// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"country_explorer/internal/app/config"
	authadapters "country_explorer/internal/feature/auth/adapters"
	authusecase "country_explorer/internal/feature/auth/usecase"
	favadapters "country_explorer/internal/feature/favorites/adapters"
	favusecase "country_explorer/internal/feature/favorites/usecase"
	"country_explorer/internal/platform/cache"
	"country_explorer/internal/platform/db"
	"country_explorer/internal/platform/http/handler"
	platformmongo "country_explorer/internal/platform/mongo"
)

// Stores groups the repositories selected by DB_DRIVER.
type Stores struct {
	Users     authusecase.UserRepository
	Favorites favusecase.FavoriteRepository

	// Checks は /readyz で使う依存先ごとの疎通確認です。
	Checks map[string]handler.Check

	closers []func(context.Context) error
}

// Close releases every connection opened by NewStores.
func (s *Stores) Close(ctx context.Context) error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// NewStores opens the configured store and builds the repositories.
// The favorites repository is wrapped by the Redis cache when rdb is non-nil.
func NewStores(ctx context.Context, cfg *config.Config, rdb *redis.Client) (*Stores, error) {
	var (
		s   *Stores
		err error
	)
	switch cfg.DBDriver {
	case config.DriverMongo:
		s, err = newMongoStores(ctx, cfg)
	case config.DriverPostgres, config.DriverSQLite:
		s, err = newSQLStores(cfg)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
	if err != nil {
		return nil, err
	}

	if rdb != nil {
		s.Favorites = NewFavoriteRepository(rdb, cfg.FavoritesCacheTTL, s.Favorites)
		s.Checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return s, nil
}

// NewFavoriteRepository wraps inner with the Redis list cache.
// A nil client returns a pass-through decorator.
func NewFavoriteRepository(rdb *redis.Client, ttl time.Duration, inner favusecase.FavoriteRepository) favusecase.FavoriteRepository {
	return cache.NewCachingFavoriteRepository(rdb, ttl, inner, "favorites")
}

func newSQLStores(cfg *config.Config) (*Stores, error) {
	dsn := cfg.DatabaseDSN
	if cfg.DBDriver == config.DriverSQLite {
		dsn = cfg.SQLitePath
	}
	conn, err := db.Open(db.Config{
		Driver: cfg.DBDriver,
		DSN:    dsn,
		Debug:  cfg.IsDevelopment(),
	})
	if err != nil {
		return nil, err
	}
	if cfg.RunMigrations {
		if err := db.Migrate(conn, &authadapters.UserModel{}, &favadapters.FavoriteModel{}); err != nil {
			return nil, err
		}
	}
	slog.Info("SQL store ready", "driver", cfg.DBDriver)

	return &Stores{
		Users:     authadapters.NewUserGorm(conn),
		Favorites: favadapters.NewFavoriteGorm(conn),
		Checks: map[string]handler.Check{
			"database": func(context.Context) error { return db.Ping(conn) },
		},
		closers: []func(context.Context) error{
			func(context.Context) error {
				sqlDB, err := conn.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		},
	}, nil
}

func newMongoStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	client, database, err := platformmongo.Connect(ctx, platformmongo.Config{
		URI:      cfg.MongoURI,
		Database: cfg.MongoDatabase,
	})
	if err != nil {
		return nil, err
	}

	users := authadapters.NewUserMongo(database)
	favorites := favadapters.NewFavoriteMongo(database)
	if cfg.RunMigrations {
		if err := users.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("users indexes: %w", err)
		}
		if err := favorites.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("favorites indexes: %w", err)
		}
	}

	return &Stores{
		Users:     users,
		Favorites: favorites,
		Checks: map[string]handler.Check{
			"database": func(ctx context.Context) error { return platformmongo.Ping(ctx, client) },
		},
		closers: []func(context.Context) error{client.Disconnect},
	}, nil
}
