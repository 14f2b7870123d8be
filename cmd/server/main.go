package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gorm.io/gorm"

	"mitsypos/internal/config"
	"mitsypos/internal/costing"
	"mitsypos/internal/db"
	"mitsypos/internal/db/mock"
	"mitsypos/internal/events"
	applog "mitsypos/internal/log"
	"mitsypos/internal/server"
	"mitsypos/internal/store"
)

type serverLifecycle interface {
	Start() error
	Stop() error
}

type closingPublisher interface {
	events.Publisher
	Close() error
}

var (
	loadEnvFileFunc     = config.LoadEnvFile
	loadConfigFunc      = config.Load
	setLogLevelFunc     = applog.SetLevel
	newMockDatabaseFunc = mock.New
	configureDatabase   = db.Configure
	newPublisherFunc    = func(ctx context.Context, cfg config.EventsConfig) (closingPublisher, error) {
		return events.NewRedisPublisher(ctx, cfg.RedisURL, cfg.Channel)
	}
	newServerFunc = func(cfg server.Config) (serverLifecycle, error) {
		return server.New(cfg)
	}
	subscribeShutdownSig = func() (<-chan os.Signal, func()) {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
		return sigCh, func() { signal.Stop(sigCh) }
	}
)

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	if err := loadEnvFileFunc(".env"); err != nil {
		applog.Error(ctx, "failed to load env file", "error", err)
		return 1
	}

	cfg, err := loadConfigFunc()
	if err != nil {
		applog.Error(ctx, "failed to load configuration", "error", err)
		return 1
	}

	if err := setLogLevelFunc(cfg.Logging.Level); err != nil {
		applog.Error(ctx, "invalid log level", "level", cfg.Logging.Level, "error", err)
		return 1
	}

	database, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		applog.Error(ctx, "failed to configure database", "error", err)
		return 1
	}
	defer func() {
		if err := db.Close(database); err != nil {
			applog.Error(ctx, "failed to close database", "error", err)
		}
	}()

	var opts []costing.Option
	if cfg.Events.RedisURL != "" {
		publisher, err := newPublisherFunc(ctx, cfg.Events)
		if err != nil {
			applog.Error(ctx, "failed to connect event publisher", "error", err)
			return 1
		}
		defer publisher.Close()
		opts = append(opts, costing.WithPublisher(publisher))
		applog.Info(ctx, "publishing product changes", "channel", cfg.Events.Channel)
	}

	st := store.New(database)
	engine := costing.New(st, opts...)

	if err := st.EnsureDefaultSettings(ctx); err != nil {
		applog.Error(ctx, "failed to seed default settings", "error", err)
		return 1
	}
	if cfg.Stock.RecomputeOnStart {
		if _, err := engine.RecomputeAllEstimates(ctx); err != nil {
			applog.Error(ctx, "failed to recompute estimated stock", "error", err)
			return 1
		}
	}

	srv, err := newServerFunc(server.Config{Addr: cfg.Server.Addr, Engine: engine})
	if err != nil {
		applog.Error(ctx, "failed to build server", "error", err)
		return 1
	}

	sigCh, stopSignals := subscribeShutdownSig()
	defer stopSignals()

	errCh := make(chan error, 1)
	go func() {
		applog.Info(ctx, "starting http server", "addr", cfg.Server.Addr)
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			applog.Error(ctx, "server encountered an error", "error", err)
			return 1
		}
		return 0
	case sig := <-sigCh:
		applog.Info(ctx, "shutting down http server", "signal", sig.String())
	}

	if err := srv.Stop(); err != nil {
		applog.Error(ctx, "graceful shutdown failed", "error", err)
		return 1
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		applog.Error(ctx, "server encountered an error", "error", err)
		return 1
	}
	return 0
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*gorm.DB, error) {
	if cfg.UseMock {
		applog.Info(ctx, "using in-memory mock database")
		return newMockDatabaseFunc(ctx)
	}
	if cfg.URL == "" {
		return nil, errors.New("DATABASE_URL is required unless DATABASE_USE_MOCK is set")
	}
	return configureDatabase(cfg)
}
