package scheduler_config

import (
	"time"

	common "github.com/NordCoder/CloudCorrect/internal/config/common"
	pginfra "github.com/NordCoder/CloudCorrect/internal/repository/postgres"
)

type SchedCfg struct {
	Tick       time.Duration `mapstructure:"tick"`
	BatchLimit int           `mapstructure:"batch_limit"`
}

type Config struct {
	DB     pginfra.Config  `mapstructure:"db"`
	Kafka  common.KafkaOut `mapstructure:"kafka"`
	Sched  SchedCfg        `mapstructure:"sched"`
	Server common.Server   `mapstructure:"server"`
	Log    common.Log      `mapstructure:"log"`
	OTEL   common.OTEL     `mapstructure:"otel"`
}
