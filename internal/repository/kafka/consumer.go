package kafka

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/jpillora/backoff"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var consumed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "kafka_messages_consumed_total",
	Help: "Messages handed to a handler, by topic and result.",
}, []string{"topic", "result"})

type Handler func(ctx context.Context, key, value []byte) error

type ConsumerConfig struct {
	Brokers       []string
	GroupID       string
	Topic         string
	FromBeginning bool
	Logger        *zap.Logger
}

// Consumer reads one topic as part of a consumer group. Offsets are committed
// only after the handler returns nil, so a failing message is redelivered
// after a rebalance or restart.
type Consumer struct {
	reader *kafka.Reader
	topic  string
	log    *zap.Logger
}

func NewConsumer(cfg *ConsumerConfig) *Consumer {
	if cfg.Logger == nil {
		cfg.Logger = zap.L()
	}
	start := kafka.LastOffset
	if cfg.FromBeginning {
		start = kafka.FirstOffset
	}

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:               cfg.Brokers,
		GroupID:               cfg.GroupID,
		Topic:                 cfg.Topic,
		StartOffset:           start,
		WatchPartitionChanges: true,
		MinBytes:              1,
		MaxBytes:              10e6,
		MaxWait:               500 * time.Millisecond,
		SessionTimeout:        10 * time.Second,
		RebalanceTimeout:      15 * time.Second,
		HeartbeatInterval:     3 * time.Second,
	})

	return &Consumer{
		reader: r,
		topic:  cfg.Topic,
		log: cfg.Logger.With(
			zap.String("component", "kafka.consumer"),
			zap.String("topic", cfg.Topic),
			zap.String("group", cfg.GroupID),
		),
	}
}

// Consume blocks until ctx is canceled. Fetch errors are retried with
// backoff; handler errors are logged and the message is left uncommitted.
func (c *Consumer) Consume(ctx context.Context, h Handler) error {
	c.log.Info("consumer started")
	b := &backoff.Backoff{Min: 200 * time.Millisecond, Max: 5 * time.Second, Factor: 2, Jitter: true}

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.log.Info("consumer stopped")
				return ctx.Err()
			}
			wait := b.Duration()
			if errors.Is(err, io.EOF) {
				c.log.Debug("fetch EOF, retrying", zap.Duration("backoff", wait))
			} else {
				c.log.Warn("fetch failed, retrying", zap.Error(err), zap.Duration("backoff", wait))
			}
			select {
			case <-ctx.Done():
				c.log.Info("consumer stopped")
				return ctx.Err()
			case <-time.After(wait):
			}
			continue
		}
		b.Reset()

		if err := c.dispatch(ctx, msg, h); err != nil {
			consumed.WithLabelValues(c.topic, "error").Inc()
			c.log.Error("handler failed",
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.ByteString("key", msg.Key),
				zap.Error(err))
			continue
		}
		consumed.WithLabelValues(c.topic, "ok").Inc()

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.Warn("commit failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, msg kafka.Message, h Handler) error {
	ctx, span := otel.Tracer("kafka.consumer").Start(extractTrace(ctx, &msg), "kafka.consume "+msg.Topic,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			semconv.MessagingSystemKafka,
			semconv.MessagingDestinationName(msg.Topic),
			attribute.Int("messaging.kafka.partition", msg.Partition),
			attribute.Int64("messaging.kafka.offset", msg.Offset),
		),
	)
	defer span.End()

	err := h(ctx, msg.Key, msg.Value)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "handler failed")
	}
	return err
}

func (c *Consumer) Close() error { return c.reader.Close() }
