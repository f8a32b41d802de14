// Package app assembles the progression components on top of a storage
// backend. The HTTP server and the CLI both start from here.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/playperu/geodash/internal/arcade"
	"github.com/playperu/geodash/internal/config"
	"github.com/playperu/geodash/internal/database"
	"github.com/playperu/geodash/internal/exploration"
	"github.com/playperu/geodash/internal/geodash"
	"github.com/playperu/geodash/internal/handler/health"
	"github.com/playperu/geodash/internal/kv"
	"github.com/playperu/geodash/internal/metrics"
	"github.com/playperu/geodash/internal/migrations"
	"github.com/playperu/geodash/internal/minigame"
	"github.com/playperu/geodash/internal/poigen"
)

type Options struct {
	Exploration  exploration.Options
	POICount     int
	RunTimeLimit time.Duration
}

type App struct {
	Store    kv.Store
	Explorer *exploration.Progression
	Arcade   *arcade.Progression
	POIs     *poigen.Generator
	Runs     *minigame.Registry
	Checks   map[string]health.Checker

	RunTimeLimit time.Duration

	logger  *slog.Logger
	closers []func() error

	mu     sync.Mutex
	center *geodash.Coordinate
}

// New builds the components over store. Runs started through the app are
// cancelled when ctx is done.
func New(ctx context.Context, store kv.Store, logger *slog.Logger, opts Options) (*App, error) {
	explorer := exploration.New(ctx, store, logger.With("component", "exploration"), opts.Exploration)

	games, err := arcade.New(ctx, store, logger.With("component", "arcade"))
	if err != nil {
		return nil, fmt.Errorf("loading games: %w", err)
	}

	a := &App{
		Store:        store,
		Explorer:     explorer,
		Arcade:       games,
		POIs:         poigen.New(opts.POICount),
		Checks:       map[string]health.Checker{},
		RunTimeLimit: opts.RunTimeLimit,
		logger:       logger,
	}
	a.Runs = minigame.NewRegistry(ctx, logger.With("component", "minigame"), func(ctx context.Context, gameID string, score int) error {
		_, err := a.ReportScore(ctx, gameID, score)
		return err
	})

	metrics.Seed(explorer.Snapshot(), games.Stats())
	explorer.Observe(metrics.Observe)
	games.Observe(metrics.Observe)

	return a, nil
}

// Open connects the storage backend selected by cfg and builds the app on it.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	var (
		store   kv.Store
		checker health.Checker
		closer  func() error
	)

	switch cfg.StoreBackend {
	case config.BackendSQLite:
		db, err := database.Open(ctx, cfg.DBDriver, cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("connecting to sqlite: %w", err)
		}
		if err := migrations.Run(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
		logger.Info("connected to sqlite", "driver", cfg.DBDriver, "path", cfg.DBPath)
		store, checker, closer = kv.NewSQLiteStore(db), dbChecker{db}, db.Close

	case config.BackendRedis:
		rdb, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		logger.Info("connected to redis", "prefix", cfg.RedisPrefix)
		store, checker, closer = kv.NewRedisStore(rdb, cfg.RedisPrefix), redisChecker{rdb}, rdb.Close

	case config.BackendMemory:
		logger.Warn("using in-memory store, progress will not survive a restart")
		store = kv.NewMemory()

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	a, err := New(ctx, store, logger, Options{
		Exploration: exploration.Options{
			CaptureRadius:         cfg.CaptureRadius,
			AllowUnlocatedCapture: cfg.AllowUnlocatedCapture,
		},
		POICount:     cfg.POICount,
		RunTimeLimit: cfg.RunTimeLimit,
	})
	if err != nil {
		if closer != nil {
			closer()
		}
		return nil, err
	}
	if checker != nil {
		a.Checks["store"] = checker
	}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}
	return a, nil
}

// Close cancels live runs and releases the storage backend.
func (a *App) Close() error {
	a.Runs.CancelAll()
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}

// dbChecker adapts *sql.DB to health.Checker.
type dbChecker struct{ db *sql.DB }

func (d dbChecker) Check(ctx context.Context) error { return d.db.PingContext(ctx) }

// redisChecker adapts *redis.Client to health.Checker.
type redisChecker struct{ client *redis.Client }

func (r redisChecker) Check(ctx context.Context) error { return r.client.Ping(ctx).Err() }
