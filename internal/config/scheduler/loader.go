package scheduler_config

import (
	common "github.com/NordCoder/CloudCorrect/internal/config/common"
	"github.com/spf13/viper"
)

func Load(path string) (*Config, *viper.Viper, error) {
	v, err := common.NewViper(path)
	if err != nil {
		return nil, nil, err
	}

	common.SetDBDefaults(v, 10, 2)
	common.SetObsDefaults(v, "scheduler", ":8082")

	v.SetDefault("kafka.brokers", []string{"localhost:9094"})
	v.SetDefault("kafka.topic", common.TopicEvaluationRequests)

	v.SetDefault("sched.tick", "10s")
	v.SetDefault("sched.batch_limit", 100)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, err
	}
	return &cfg, v, nil
}
