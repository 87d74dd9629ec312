package kafka

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// BootstrapConsumer makes sure the topic exists before the reader joins the
// group. A topic that is slow to elect leaders is not fatal: the reader
// retries fetches on its own.
func BootstrapConsumer(ctx context.Context, cfg *ConsumerConfig, partitions int, logger *zap.Logger) *Consumer {
	err := EnsureTopic(ctx, cfg.Brokers, TopicSpec{
		Name:          cfg.Topic,
		NumPartitions: partitions,
		MaxWait:       10 * time.Second,
	}, logger)
	if err != nil && !errors.Is(err, ErrTopicNotReady) && logger != nil {
		logger.Warn("topic bootstrap failed, consuming anyway",
			zap.String("topic", cfg.Topic), zap.Error(err))
	}

	if cfg.Logger == nil {
		cfg.Logger = logger
	}
	return NewConsumer(cfg)
}
