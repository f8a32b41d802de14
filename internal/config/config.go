package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:"127.0.0.1:8080"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR" envDefault:"web/dist"`

	StoreBackend string `env:"STORE_BACKEND" envDefault:"sqlite"`
	DBDriver     string `env:"DB_DRIVER" envDefault:"libsql"`
	DBPath       string `env:"DB_PATH" envDefault:"data/geodash.db"`
	RedisURL     string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RedisPrefix  string `env:"REDIS_PREFIX" envDefault:"geodash:"`

	CaptureRadius         float64       `env:"CAPTURE_RADIUS_METERS" envDefault:"50"`
	AllowUnlocatedCapture bool          `env:"ALLOW_UNLOCATED_CAPTURE" envDefault:"false"`
	POICount              int           `env:"POI_COUNT" envDefault:"15"`
	RunTimeLimit          time.Duration `env:"RUN_TIME_LIMIT" envDefault:"60s"`

	// bcrypt hash of the passcode guarding the reset endpoints. Empty
	// disables the guard.
	ResetPasscodeHash string `env:"RESET_PASSCODE_HASH"`
}

// Load reads the configuration from the environment. Variables in a .env
// file in the working directory are applied first unless already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) validate() error {
	switch c.StoreBackend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("STORE_BACKEND: unknown backend %q", c.StoreBackend)
	}
	if c.StoreBackend == BackendSQLite && c.DBDriver != "libsql" && c.DBDriver != "sqlite" {
		return fmt.Errorf("DB_DRIVER: unknown driver %q", c.DBDriver)
	}
	if c.CaptureRadius <= 0 {
		return fmt.Errorf("CAPTURE_RADIUS_METERS must be positive, got %v", c.CaptureRadius)
	}
	if c.POICount < 1 || c.POICount > 100 {
		return fmt.Errorf("POI_COUNT must be between 1 and 100, got %d", c.POICount)
	}
	if c.RunTimeLimit < 0 {
		return fmt.Errorf("RUN_TIME_LIMIT must not be negative, got %v", c.RunTimeLimit)
	}
	return nil
}
