// Package app assembles the store, the operation registry and the HTTP server
// from configuration.
package app

import (
	"context"
	"database/sql"
	"io"
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/sigesalud/dashboard/internal/config"
	"github.com/sigesalud/dashboard/internal/domain/dashboard"
	"github.com/sigesalud/dashboard/internal/domain/encounter"
	"github.com/sigesalud/dashboard/internal/domain/epi"
	"github.com/sigesalud/dashboard/internal/domain/facility"
	"github.com/sigesalud/dashboard/internal/domain/hr"
	"github.com/sigesalud/dashboard/internal/domain/lab"
	"github.com/sigesalud/dashboard/internal/domain/patient"
	"github.com/sigesalud/dashboard/internal/domain/pharmacy"
	"github.com/sigesalud/dashboard/internal/domain/report"
	"github.com/sigesalud/dashboard/internal/platform/cache"
	"github.com/sigesalud/dashboard/internal/platform/db"
	"github.com/sigesalud/dashboard/internal/platform/middleware"
	"github.com/sigesalud/dashboard/internal/platform/ops"
	"github.com/sigesalud/dashboard/internal/store"
	"github.com/sigesalud/dashboard/internal/store/dataset"
	"github.com/sigesalud/dashboard/internal/store/memstore"
	"github.com/sigesalud/dashboard/internal/store/sqlstore"
)

// NewLogger writes JSON to w, or console output in development.
func NewLogger(cfg *config.Config, w io.Writer) zerolog.Logger {
	logger := zerolog.New(w).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger()
	}
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	return logger.Level(level)
}

type registrar interface {
	RegisterOps(r *ops.Registry)
}

// Register adds every reporting operation over st to reg.
func Register(reg *ops.Registry, st store.Store, now report.Clock, positions facility.PositionLookup) {
	services := []registrar{
		dashboard.NewService(st, now),
		facility.NewService(st, positions),
		epi.NewService(st, now),
		pharmacy.NewService(st),
		lab.NewService(st, now),
		hr.NewService(st, now),
		patient.NewService(st),
		encounter.NewService(st),
	}
	for _, s := range services {
		s.RegisterOps(reg)
	}
}

// App is a configured process: one lazily opened store and the operations
// served from it.
type App struct {
	cfg      *config.Config
	logger   zerolog.Logger
	store    *store.Lazy
	loader   *dataset.Loader
	registry *ops.Registry
	cache    *cache.Redis
}

// New wires the backend selected by cfg. Nothing is opened until the first
// query, except the Redis cache when REDIS_URL is set.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}
	if cfg.DataRoot != "" {
		a.loader = dataset.NewLoader(cfg.DataRoot, cfg.HRRoot, logger)
	}

	if cfg.UsesSQL() {
		a.store = store.NewLazy(sqlstore.Open(sqlstore.Options{
			DSN:      cfg.DatabaseURL,
			MaxConns: cfg.DBMaxConns,
			MinConns: cfg.DBMinConns,
			Migrate:  true,
		}, logger))
	} else {
		a.store = store.NewLazy(memstore.Open(a.loader, cfg.RosterSeed, logger))
	}

	var opts []ops.Option
	if cfg.RedisURL != "" {
		c, err := cache.Open(ctx, cfg.RedisURL, cfg.CacheTTL, logger)
		if err != nil {
			return nil, err
		}
		a.cache = c
		opts = append(opts, ops.WithCache(c))
	}

	a.registry = ops.NewRegistry(logger, opts...)
	var positions facility.PositionLookup
	if a.loader != nil {
		positions = facility.LoaderPositions(a.loader)
	}
	Register(a.registry, a.store, nil, positions)
	return a, nil
}

func (a *App) Store() *store.Lazy { return a.store }

func (a *App) Registry() *ops.Registry { return a.registry }

// Warm opens the store now rather than on the first request.
func (a *App) Warm(ctx context.Context) error {
	_, err := a.store.Get(ctx)
	return err
}

// Server builds the echo server for the operations API.
func (a *App) Server() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(a.logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(a.logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: a.cfg.CORSOrigins,
		AllowMethods: []string{echo.GET, echo.POST, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderContentType, middleware.RequestIDHeader},
	}))
	e.Use(middleware.RequestTimeout(a.cfg.RequestTimeout))

	e.GET("/health", db.HealthHandler(a.probe))
	ops.NewHandler(a.registry).RegisterRoutes(e.Group("/api/v1"))
	return e
}

func (a *App) probe() (string, *sql.DB) {
	if st, ok := a.store.Opened(); ok {
		if s, ok := st.(*sqlstore.Store); ok {
			return s.Backend(), s.DB()
		}
	}
	return a.store.Backend(), nil
}

// Close releases the store and the cache.
func (a *App) Close() error {
	err := a.store.Close()
	if a.cache != nil {
		if cerr := a.cache.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
