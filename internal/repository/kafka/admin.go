package kafka

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/jpillora/backoff"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type TopicSpec struct {
	Name              string
	NumPartitions     int
	ReplicationFactor int
	// MaxWait bounds how long EnsureTopic waits for every partition to get
	// a leader.
	MaxWait time.Duration
}

func (s TopicSpec) withDefaults() TopicSpec {
	if s.NumPartitions <= 0 {
		s.NumPartitions = 1
	}
	if s.ReplicationFactor <= 0 {
		s.ReplicationFactor = 1
	}
	if s.MaxWait <= 0 {
		s.MaxWait = 5 * time.Second
	}
	return s
}

var ErrTopicNotReady = errors.New("topic not ready")

// EnsureTopics creates each topic through the cluster controller and waits
// until all of its partitions have a leader.
func EnsureTopics(ctx context.Context, brokers []string, specs []TopicSpec, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	for _, s := range specs {
		if err := EnsureTopic(ctx, brokers, s, log); err != nil {
			return fmt.Errorf("topic %s: %w", s.Name, err)
		}
	}
	return nil
}

func EnsureTopic(ctx context.Context, brokers []string, spec TopicSpec, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	spec = spec.withDefaults()
	log = log.With(zap.String("component", "kafka.admin"), zap.String("topic", spec.Name))

	conn, err := dialAny(ctx, brokers)
	if err != nil {
		log.Warn("kafka dial failed", zap.Error(err))
		return err
	}
	defer conn.Close()

	if err := createTopic(ctx, conn, spec); err != nil {
		log.Warn("create topic failed", zap.Error(err))
		return err
	}

	b := &backoff.Backoff{Min: 100 * time.Millisecond, Max: time.Second, Factor: 2}
	deadline := time.Now().Add(spec.MaxWait)
	for {
		parts, err := conn.ReadPartitions(spec.Name)
		if err == nil && len(parts) > 0 && allHaveLeader(parts) {
			log.Info("topic ready",
				zap.Int("partitions", len(parts)),
				zap.Int("replication_factor", spec.ReplicationFactor))
			return nil
		}
		wait := b.Duration()
		if time.Now().Add(wait).After(deadline) {
			log.Warn("topic not confirmed ready in time", zap.Duration("max_wait", spec.MaxWait))
			return ErrTopicNotReady
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func createTopic(ctx context.Context, conn *kafka.Conn, spec TopicSpec) error {
	ctrl, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("controller: %w", err)
	}
	cc, err := kafka.DialContext(ctx, "tcp", net.JoinHostPort(ctrl.Host, strconv.Itoa(ctrl.Port)))
	if err != nil {
		return fmt.Errorf("dial controller: %w", err)
	}
	defer cc.Close()

	err = cc.CreateTopics(kafka.TopicConfig{
		Topic:             spec.Name,
		NumPartitions:     spec.NumPartitions,
		ReplicationFactor: spec.ReplicationFactor,
	})
	if err != nil && !errors.Is(err, kafka.TopicAlreadyExists) {
		return err
	}
	return nil
}

// dialAny returns the first broker connection that succeeds.
func dialAny(ctx context.Context, brokers []string) (*kafka.Conn, error) {
	if len(brokers) == 0 {
		return nil, errors.New("no kafka brokers configured")
	}
	var errs []error
	for _, b := range brokers {
		conn, err := kafka.DialContext(ctx, "tcp", b)
		if err == nil {
			return conn, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", b, err))
	}
	return nil, errors.Join(errs...)
}

func allHaveLeader(parts []kafka.Partition) bool {
	for _, p := range parts {
		if p.Leader.ID < 0 {
			return false
		}
	}
	return true
}
