package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"
)

var published = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "kafka_messages_published_total",
	Help: "Messages written to kafka, by topic and result.",
}, []string{"topic", "result"})

type ProducerConfig struct {
	Brokers []string
	Topic   string
	// BatchTimeout caps how long a single write waits for a batch to fill.
	BatchTimeout time.Duration
	Logger       *zap.Logger
}

// Producer writes structpb payloads keyed by group id, so every event of a
// group lands on the same partition.
type Producer struct {
	w     *kafka.Writer
	topic string
	log   *zap.Logger
}

// NewProducer returns nil when no topic is configured; callers treat a nil
// producer as "this binary does not emit that event".
func NewProducer(cfg ProducerConfig) *Producer {
	if cfg.Topic == "" {
		return nil
	}
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = 50 * time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.L()
	}
	return &Producer{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.Topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			BatchTimeout:           cfg.BatchTimeout,
			AllowAutoTopicCreation: true,
		},
		topic: cfg.Topic,
		log:   cfg.Logger.With(zap.String("component", "kafka.producer"), zap.String("topic", cfg.Topic)),
	}
}

func (p *Producer) Topic() string {
	if p == nil {
		return ""
	}
	return p.topic
}

// PublishJSON wraps v as a structpb.Struct so consumers in any language can
// read it without a shared schema.
func (p *Producer) PublishJSON(ctx context.Context, key []byte, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	s, err := toStruct(raw)
	if err != nil {
		return fmt.Errorf("payload to struct: %w", err)
	}
	return p.PublishProto(ctx, key, s)
}

func (p *Producer) PublishProto(ctx context.Context, key []byte, m proto.Message) error {
	value, err := proto.Marshal(m)
	if err != nil {
		return fmt.Errorf("proto marshal: %w", err)
	}

	ctx, span := otel.Tracer("kafka.producer").Start(ctx, "kafka.produce "+p.topic,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			semconv.MessagingSystemKafka,
			semconv.MessagingDestinationName(p.topic),
			semconv.MessagingOperationPublish,
			semconv.MessagingKafkaMessageKey(string(key)),
		),
	)
	defer span.End()

	msg := kafka.Message{Key: key, Value: value}
	injectTrace(ctx, &msg)

	if err := p.w.WriteMessages(ctx, msg); err != nil {
		published.WithLabelValues(p.topic, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "write failed")
		p.log.Error("kafka write failed", zap.ByteString("key", key), zap.Error(err))
		return fmt.Errorf("write %s: %w", p.topic, err)
	}
	published.WithLabelValues(p.topic, "ok").Inc()
	p.log.Debug("message published", zap.ByteString("key", key), zap.Int("value_len", len(value)))
	return nil
}

func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.w.Close()
}

func KeyFromUUID(id uuid.UUID) []byte { return []byte(id.String()) }
