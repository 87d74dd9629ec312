package evaluation_worker_config

import (
	common "github.com/NordCoder/CloudCorrect/internal/config/common"
	"github.com/spf13/viper"
)

func Load(path string) (*Config, *viper.Viper, error) {
	v, err := common.NewViper(path)
	if err != nil {
		return nil, nil, err
	}

	common.SetDBDefaults(v, 20, 4)
	common.SetObsDefaults(v, "evaluation-worker", ":8083")

	v.SetDefault("kafka_in.brokers", []string{"localhost:9094"})
	v.SetDefault("kafka_in.topic", common.TopicEvaluationRequests)
	v.SetDefault("kafka_in.group_id", "evaluation-worker")
	v.SetDefault("kafka_in.partitions", 3)

	v.SetDefault("kafka_out.brokers", []string{"localhost:9094"})
	v.SetDefault("kafka_out.topic", common.TopicAlerts)

	common.SetEngineDefaults(v)

	v.SetDefault("outbox.workers", 1)
	v.SetDefault("outbox.batch_size", 100)
	v.SetDefault("outbox.wait_time", "1s")
	v.SetDefault("outbox.in_progress_ttl", "1m")
	v.SetDefault("outbox.max_attempts", 10)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, err
	}
	return &cfg, v, nil
}
