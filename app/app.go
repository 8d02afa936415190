// Package app wires the engine together: storage, cache, event bus, command
// dispatcher and the feature modules, all behind one watermill router.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun/migrate"

	"github.com/gridiron-gm/engine/app/cache"
	"github.com/gridiron-gm/engine/app/eventbus"
	"github.com/gridiron-gm/engine/app/gen"
	"github.com/gridiron-gm/engine/app/modules/draft"
	"github.com/gridiron-gm/engine/app/modules/history"
	"github.com/gridiron-gm/engine/app/modules/league"
	"github.com/gridiron-gm/engine/app/modules/roster"
	"github.com/gridiron-gm/engine/app/modules/season"
	"github.com/gridiron-gm/engine/app/shared"
	"github.com/gridiron-gm/engine/app/sim"
	"github.com/gridiron-gm/engine/config"
	"github.com/gridiron-gm/engine/db/bundb"
	"github.com/gridiron-gm/engine/db/bundb/migrations"
)

// App is the assembled engine.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	Bus    eventbus.EventBus
	Router *message.Router
	State  *shared.State

	db         *bundb.DB
	metricsSrv *http.Server
}

// NewApp builds the engine: opens storage, runs migrations, and registers
// every module on the command router.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := bundb.New(cfg.Engine.SavePath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open save storage: %w", err)
	}
	migrator := migrate.NewMigrator(db.Bun(), migrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to init migrations: %w", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to migrate save storage: %w", err)
	}

	bus := eventbus.New(logger)
	state := &shared.State{
		Cache:  cache.New(),
		Store:  db,
		Logger: logger,
	}

	seed := cfg.League.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	generator := gen.New(seed)
	rng := rand.New(rand.NewSource(seed))
	simulator := sim.New(seed)

	router, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create router: %w", err)
	}
	router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metricsBuilder := metrics.NewPrometheusMetricsBuilder(registry, "engine", "commands")
	metricsBuilder.AddPrometheusRouterMetrics(router)

	gate := &CommandGate{}
	dispatcher, err := NewDispatcher(bus, gate, logger,
		league.NewModule(state, bus, cfg, logger),
		season.NewModule(state, bus, simulator, generator, rng, logger),
		roster.NewModule(state, bus, logger),
		draft.NewModule(state, bus, generator, logger),
		history.NewModule(state, bus, logger),
	)
	if err != nil {
		return nil, err
	}
	dispatcher.AddHandlers(router)

	a := &App{
		Config: cfg,
		Logger: logger,
		Bus:    bus,
		Router: router,
		State:  state,
		db:     db,
	}
	if addr := cfg.Engine.MetricsAddress; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		a.metricsSrv = &http.Server{Addr: addr, Handler: mux}
	}
	return a, nil
}

// Run serves the command router until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	if a.metricsSrv != nil {
		go func() {
			a.Logger.Info("metrics listening", slog.String("addr", a.metricsSrv.Addr))
			if err := a.metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				a.Logger.Error("metrics server failed", slog.Any("error", err))
			}
		}()
	}
	a.Logger.Info("engine running",
		slog.String("save_path", a.Config.Engine.SavePath))
	return a.Router.Run(ctx)
}

// Close flushes anything dirty and tears the engine down.
func (a *App) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if a.State.Cache.Loaded() {
		if err := a.State.Flush(ctx); err != nil {
			a.Logger.Error("final flush failed", slog.Any("error", err))
		}
	}
	if a.metricsSrv != nil {
		if err := a.metricsSrv.Shutdown(ctx); err != nil {
			a.Logger.Warn("metrics shutdown failed", slog.Any("error", err))
		}
	}
	if err := a.Bus.Close(); err != nil {
		a.Logger.Warn("event bus close failed", slog.Any("error", err))
	}
	return a.db.Close()
}
