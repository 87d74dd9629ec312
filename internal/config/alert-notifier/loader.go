package alert_notifier_config

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
	common.SetObsDefaults(v, "alert-notifier", ":8084")

	v.SetDefault("kafka_in.brokers", []string{"localhost:9094"})
	v.SetDefault("kafka_in.topic", common.TopicAlerts)
	v.SetDefault("kafka_in.group_id", "alert-notifier")
	v.SetDefault("kafka_in.partitions", 1)

	v.SetDefault("smtp.host", "localhost")
	v.SetDefault("smtp.port", 1025)
	v.SetDefault("smtp.from", "alerts@cloudcorrect.dev")
	v.SetDefault("smtp.use_tls", false)
	v.SetDefault("smtp.timeout", "10s")
	v.SetDefault("smtp.subj_prefix", "[CloudCorrect]")

	v.SetDefault("app.url", "http://localhost:8800")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, err
	}
	return &cfg, v, nil
}
