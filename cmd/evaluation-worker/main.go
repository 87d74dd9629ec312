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
	config "github.com/NordCoder/CloudCorrect/internal/config/evaluation-worker"
	"github.com/NordCoder/CloudCorrect/internal/obs"
	"github.com/NordCoder/CloudCorrect/internal/obs/retry"
	"github.com/NordCoder/CloudCorrect/internal/outbox"
	"github.com/NordCoder/CloudCorrect/internal/repository/kafka"
	pg "github.com/NordCoder/CloudCorrect/internal/repository/postgres"
	worker "github.com/NordCoder/CloudCorrect/internal/services/evaluation-worker"
	"go.uber.org/zap"
)

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config/evaluation-worker.yaml"
}

func wire(ctx context.Context, cfg *config.Config, db *pg.DB, events *kafka.GroupEventsKafka, cons *kafka.Consumer, l *zap.Logger) (*outbox.Runner, *worker.Controller, error) {
	outboxRepo := pg.NewOutboxRepo(db)
	dispatch := outbox.MakeGlobalOutboxHandler(events, retry.AlertRelayPolicy(l))
	outboxRunner := outbox.NewOutboxRunner(l, outboxRepo, dispatch, cfg.Outbox)

	agg, err := bootstrap.NewAggregator(ctx, bootstrap.EngineConfig{
		Engine: cfg.Engine,
		AWS:    cfg.AWS,
		Probe:  cfg.Probe,
	}, db, outbox.NewAlertDispatcher(outboxRepo, l), l)
	if err != nil {
		return nil, nil, err
	}

	uc := &worker.Handler{Log: l, Engine: agg}
	return outboxRunner, &worker.Controller{Log: l, Sub: cons, UC: uc}, nil
}

func main() {
	// init
	root, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cfg, v, err := config.Load(configPath())
	if err != nil {
		log.Fatal(err)
	}

	// logger
	l, err := bootstrap.Logger("evaluation-worker", cfg.Log, v)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = l.Sync() }()

	// otel
	otelCloser, err := obs.SetupOTel(root, cfg.OTEL.AsOTELConfig(cfg.Log))
	if err != nil {
		l.Fatal("otel init", zap.Error(err))
	}
	defer func() { _ = otelCloser.Shutdown(context.Background()) }()

	// db
	db, err := pg.New(root, cfg.DB)
	if err != nil {
		l.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	// metrics
	ms := obs.BootstrapMetricsServer(cfg.Server.MetricsAddr, l, obs.HealthChecks{"db": bootstrap.DBHealth(db)})

	// kafka
	cons := kafka.BootstrapConsumer(root, &kafka.ConsumerConfig{
		Brokers: cfg.In.Brokers,
		GroupID: cfg.In.GroupID,
		Topic:   cfg.In.Topic,
	}, cfg.In.Partitions, l)
	defer func() { _ = cons.Close() }()

	prod := kafka.NewProducer(kafka.ProducerConfig{Brokers: cfg.Out.Brokers, Topic: cfg.Out.Topic, Logger: l})
	defer func() { _ = prod.Close() }()
	events := kafka.NewGroupEventsKafka(nil, prod)

	// wiring
	outboxRunner, ctrl, err := wire(root, cfg, db, events, cons, l)
	if err != nil {
		l.Fatal("wire", zap.Error(err))
	}

	// start
	outboxDone := make(chan struct{})
	go func() {
		defer close(outboxDone)
		outboxRunner.Run(root)
	}()
	errCh := make(chan error, 1)
	go func() { errCh <- ctrl.Run(root) }()
	l.Info("evaluation-worker started", zap.String("topic", cfg.In.Topic))

	select {
	case <-root.Done():
	case err = <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			l.Error("controller error", zap.Error(err))
		}
		stop()
	}
	<-outboxDone

	shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = ms.Shutdown(shCtx)
	l.Info("bye")
}
