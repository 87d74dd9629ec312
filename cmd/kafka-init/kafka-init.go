package main

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	common "github.com/NordCoder/CloudCorrect/internal/config/common"
	"github.com/NordCoder/CloudCorrect/internal/obs"
	kafkainfra "github.com/NordCoder/CloudCorrect/internal/repository/kafka"
	"go.uber.org/zap"
)

// kafka-init creates the CloudCorrect topics once, before the services start.
func main() {
	l, _, err := obs.NewLeveledLogger(obs.LogConfig{Level: env("LOG_LEVEL", "info"), App: "kafka-init"})
	if err != nil {
		panic(err)
	}
	defer l.Sync()

	brokers := splitList(env("KAFKA_BROKERS", "localhost:9094"))
	topics := splitList(env("KAFKA_TOPICS", common.TopicEvaluationRequests+","+common.TopicAlerts))
	partitions := envInt("KAFKA_PARTITIONS", 3)
	rf := envInt("KAFKA_RF", 1)

	specs := make([]kafkainfra.TopicSpec, 0, len(topics))
	for _, t := range topics {
		specs = append(specs, kafkainfra.TopicSpec{
			Name:              t,
			NumPartitions:     partitions,
			ReplicationFactor: rf,
			MaxWait:           30 * time.Second,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := kafkainfra.EnsureTopics(ctx, brokers, specs, l); err != nil {
		l.Fatal("kafka-init failed", zap.Error(err))
	}
	l.Info("kafka-init ok",
		zap.Strings("topics", topics),
		zap.Int("partitions", partitions),
		zap.Int("rf", rf))
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil && n > 0 {
		return n
	}
	return def
}
