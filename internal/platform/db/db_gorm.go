// Package db opens the gorm connection used by the SQL-backed stores.
package db

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported SQL drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// retryInterval は接続リトライの間隔です。
var retryInterval = 3 * time.Second

// Config holds the connection settings for a SQL store.
type Config struct {
	Driver         string
	DSN            string // postgres DSN or sqlite file path
	ConnectTimeout time.Duration
	Debug          bool
}

// Opener opens a gorm connection for a DSN.
type Opener func(dsn string) (*gorm.DB, error)

// gormConfig は全ドライバー共通のgorm設定を返します。
// TranslateError により一意制約違反は gorm.ErrDuplicatedKey に変換されます。
func gormConfig(debug bool) *gorm.Config {
	lvl := logger.Warn
	if debug {
		lvl = logger.Info
	}
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(lvl),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}
}

// NewOpener returns the Opener for the configured driver.
func NewOpener(cfg Config) (Opener, error) {
	gc := gormConfig(cfg.Debug)
	switch cfg.Driver {
	case DriverPostgres:
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), gc)
		}, nil
	case DriverSQLite:
		return func(dsn string) (*gorm.DB, error) {
			db, err := gorm.Open(sqlite.Open(dsn), gc)
			if err != nil {
				return nil, err
			}
			// SQLiteは単一ライターのため接続を1本に制限する
			sqlDB, err := db.DB()
			if err != nil {
				return nil, err
			}
			sqlDB.SetMaxOpenConns(1)
			return db, nil
		}, nil
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.Driver)
	}
}

// Open connects to the configured database, retrying until ConnectTimeout elapses.
func Open(cfg Config) (*gorm.DB, error) {
	opener, err := NewOpener(cfg)
	if err != nil {
		return nil, err
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return ConnectWithRetry(cfg.DSN, timeout, opener)
}

// ConnectWithRetry calls opener until it succeeds or timeout elapses.
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("db connect failed, retrying", "error", err, "retry_in", retryInterval)
		time.Sleep(retryInterval)
	}
}

// Migrate creates or updates the tables for the given models.
func Migrate(db *gorm.DB, models ...any) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// Ping checks that the underlying connection is alive.
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
