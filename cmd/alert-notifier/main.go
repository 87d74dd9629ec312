package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NordCoder/CloudCorrect/internal/bootstrap"
	config "github.com/NordCoder/CloudCorrect/internal/config/alert-notifier"
	"github.com/NordCoder/CloudCorrect/internal/engine"
	"github.com/NordCoder/CloudCorrect/internal/obs"
	"github.com/NordCoder/CloudCorrect/internal/repository/kafka"
	pg "github.com/NordCoder/CloudCorrect/internal/repository/postgres"
	notifier "github.com/NordCoder/CloudCorrect/internal/services/alert-notifier"
	"go.uber.org/zap"
)

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config/alert-notifier.yaml"
}

func main() {
	root, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cfg, v, err := config.Load(configPath())
	if err != nil {
		log.Fatal(err)
	}

	l, err := bootstrap.Logger("alert-notifier", cfg.Log, v)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = l.Sync() }()

	otelCloser, err := obs.SetupOTel(root, cfg.OTEL.AsOTELConfig(cfg.Log))
	if err != nil {
		l.Fatal("otel init", zap.Error(err))
	}
	defer func() { _ = otelCloser.Shutdown(context.Background()) }()

	db, err := pg.New(root, cfg.DB)
	if err != nil {
		l.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	ms := obs.BootstrapMetricsServer(cfg.Server.MetricsAddr, l, obs.HealthChecks{"db": bootstrap.DBHealth(db)})

	cons := kafka.BootstrapConsumer(root, &kafka.ConsumerConfig{
		Brokers: cfg.In.Brokers,
		GroupID: cfg.In.GroupID,
		Topic:   cfg.In.Topic,
	}, cfg.In.Partitions, l)
	defer func() { _ = cons.Close() }()

	ctrl := &notifier.Controller{
		Log: l,
		Sub: cons,
		UC: &notifier.Handler{
			Log:    l,
			Store:  pg.NewNotificationRepo(db),
			Out:    notifier.NewMailer(cfg.SMTP).WithLogger(l),
			Clock:  engine.SystemClock{},
			AppURL: cfg.App.URL,
		},
	}

	errCh := make(chan error, 1)
	go func() { errCh <- ctrl.Run(root) }()
	l.Info("alert-notifier started", zap.String("topic", cfg.In.Topic))

	select {
	case <-root.Done():
	case err = <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			l.Error("controller error", zap.Error(err))
		}
	}

	shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = ms.Shutdown(shCtx)
	l.Info("bye")
}
