package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NordCoder/CloudCorrect/internal/bootstrap"
	config "github.com/NordCoder/CloudCorrect/internal/config/api-server"
	"github.com/NordCoder/CloudCorrect/internal/engine"
	"github.com/NordCoder/CloudCorrect/internal/obs"
	"github.com/NordCoder/CloudCorrect/internal/outbox"
	pg "github.com/NordCoder/CloudCorrect/internal/repository/postgres"
	"github.com/NordCoder/CloudCorrect/internal/services/api"
	"go.uber.org/zap"
)

type app struct {
	cfg  *config.Config
	log  *zap.Logger
	db   *pg.DB
	agg  *engine.Aggregator
	otel *obs.OTel
}

func newApp(ctx context.Context, path string) (*app, error) {
	cfg, v, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	l, err := bootstrap.Logger("api-server", cfg.Log, v)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	o, err := obs.SetupOTel(ctx, cfg.OTEL.AsOTELConfig(cfg.Log))
	if err != nil {
		return nil, fmt.Errorf("otel init: %w", err)
	}
	db, err := pg.New(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	// alerts go through the outbox; the evaluation-worker relays them
	agg, err := bootstrap.NewAggregator(ctx, bootstrap.EngineConfig{
		Engine: cfg.Engine,
		AWS:    cfg.AWS,
		Probe:  cfg.Probe,
	}, db, outbox.NewAlertDispatcher(pg.NewOutboxRepo(db), l), l)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &app{cfg: cfg, log: l, db: db, agg: agg, otel: o}, nil
}

func (a *app) close() {
	a.db.Close()
	_ = a.otel.Shutdown(context.Background())
	_ = a.log.Sync()
}

func runServe(parent context.Context, path string) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, path)
	if err != nil {
		return err
	}
	defer a.close()

	uc := api.NewUsecase(a.agg, pg.NewGroupRepo(a.db), pg.NewRunRepo(a.db))
	e := api.NewEcho(a.log, api.NewController(a.log, uc), obs.HealthChecks{"db": bootstrap.DBHealth(a.db)})
	srv := api.NewHTTPServer(a.cfg.HTTP.Addr, e, a.cfg.HTTP.ReadTimeout, a.cfg.HTTP.WriteTimeout)

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("http listening", zap.String("addr", a.cfg.HTTP.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		a.log.Info("shutdown signal")
	case err = <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http serve", zap.Error(err))
			return err
		}
	}

	shCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		a.log.Warn("http shutdown", zap.Error(err))
	}
	time.Sleep(100 * time.Millisecond)
	a.log.Info("bye")
	return nil
}
