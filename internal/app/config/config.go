// Package config loads application settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Environment names accepted in APP_ENV.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Store drivers accepted in DB_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// Config holds runtime settings for the API server and the terminal client.
type Config struct {
	Env  string `envconfig:"APP_ENV" default:"development"`
	Port string `envconfig:"PORT" default:"5000"`

	JWTSecret     string        `envconfig:"JWT_SECRET"`
	JWTExpiration time.Duration `envconfig:"JWT_EXPIRATION" default:"720h"`

	DBDriver      string `envconfig:"DB_DRIVER" default:"sqlite"`
	DatabaseDSN   string `envconfig:"DATABASE_DSN"`
	SQLitePath    string `envconfig:"SQLITE_PATH" default:"country_explorer.db"`
	RunMigrations bool   `envconfig:"RUN_MIGRATIONS" default:"true"`

	MongoURI      string `envconfig:"MONGODB_URI"`
	MongoDatabase string `envconfig:"MONGODB_DATABASE" default:"country_explorer"`

	RedisAddr         string        `envconfig:"REDIS_ADDR"`
	RedisPassword     string        `envconfig:"REDIS_PASSWORD"`
	RedisDB           int           `envconfig:"REDIS_DB" default:"0"`
	FavoritesCacheTTL time.Duration `envconfig:"FAVORITES_CACHE_TTL" default:"5m"`

	CORSAllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	AuthRateLimit      int           `envconfig:"AUTH_RATE_LIMIT" default:"20"`
	AuthRateWindow     time.Duration `envconfig:"AUTH_RATE_WINDOW" default:"1m"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	APIBaseURL           string        `envconfig:"API_BASE_URL" default:"http://localhost:5000/api"`
	RESTCountriesBaseURL string        `envconfig:"RESTCOUNTRIES_BASE_URL" default:"https://restcountries.com/v3.1"`
	HTTPClientTimeout    time.Duration `envconfig:"HTTP_CLIENT_TIMEOUT" default:"10s"`
	// ExplorerToken は端末クライアントのセッション復元に使うトークンです。
	ExplorerToken string `envconfig:"EXPLORER_TOKEN"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env not found; using process environment")
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	return &cfg, nil
}

// IsDevelopment reports whether internal error details may be returned to clients.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// ValidateServer checks the settings the API server cannot start without.
func (c *Config) ValidateServer() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWTExpiration <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION must be positive"))
	}
	switch c.Env {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		errs = append(errs, fmt.Errorf("unknown APP_ENV %q", c.Env))
	}
	switch c.DBDriver {
	case DriverPostgres:
		if c.DatabaseDSN == "" {
			errs = append(errs, errors.New("DATABASE_DSN is required for the postgres driver"))
		}
	case DriverMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGODB_URI is required for the mongo driver"))
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver))
	}
	return errors.Join(errs...)
}
