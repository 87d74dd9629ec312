package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NordCoder/CloudCorrect/internal/bootstrap"
	config "github.com/NordCoder/CloudCorrect/internal/config/scheduler"
	"github.com/NordCoder/CloudCorrect/internal/obs"
	kafkaRepo "github.com/NordCoder/CloudCorrect/internal/repository/kafka"
	pg "github.com/NordCoder/CloudCorrect/internal/repository/postgres"
	"github.com/NordCoder/CloudCorrect/internal/services/scheduler"
	"github.com/NordCoder/CloudCorrect/internal/services/scheduler/repo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configFile string
	once       bool

	rootCmd = &cobra.Command{
		Use:   "scheduler",
		Short: "Publish evaluation requests for groups that are due",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), configFile, once)
		},
	}
)

func init() {
	def := os.Getenv("CONFIG_PATH")
	if def == "" {
		def = "config/scheduler.yaml"
	}
	rootCmd.Flags().StringVarP(&configFile, "config", "c", def, "config file path")
	rootCmd.Flags().BoolVar(&once, "once", false, "publish one batch and exit")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, path string, once bool) error {
	cfg, v, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	l, err := bootstrap.Logger("scheduler", cfg.Log, v)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	o, err := obs.SetupOTel(ctx, cfg.OTEL.AsOTELConfig(cfg.Log))
	if err != nil {
		return fmt.Errorf("otel init: %w", err)
	}
	defer func() { _ = o.Shutdown(context.Background()) }()

	db, err := pg.New(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer db.Close()

	prod := kafkaRepo.NewProducer(kafkaRepo.ProducerConfig{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic, Logger: l})
	defer func() { _ = prod.Close() }()

	runner := scheduler.New(l, scheduler.NewUC(
		repo.GroupRepo{R: pg.NewGroupRepo(db)},
		repo.Events{P: kafkaRepo.NewGroupEventsKafka(prod, nil)},
	), &cfg.Sched)

	if once {
		return runner.Once(ctx)
	}

	ms := obs.BootstrapMetricsServer(cfg.Server.MetricsAddr, l, obs.HealthChecks{"db": bootstrap.DBHealth(db)})
	defer func() {
		shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = ms.Shutdown(shCtx)
	}()

	l.Info("scheduler started",
		zap.String("topic", cfg.Kafka.Topic),
		zap.Duration("tick", cfg.Sched.Tick),
		zap.String("metrics_addr", cfg.Server.MetricsAddr))

	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	l.Info("scheduler stopped")
	return nil
}
