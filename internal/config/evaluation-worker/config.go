package evaluation_worker_config

import (
	common "github.com/NordCoder/CloudCorrect/internal/config/common"
	"github.com/NordCoder/CloudCorrect/internal/outbox"
	pginfra "github.com/NordCoder/CloudCorrect/internal/repository/postgres"
)

type Config struct {
	DB     pginfra.Config  `mapstructure:"db"`
	In     common.KafkaIn  `mapstructure:"kafka_in"`
	Out    common.KafkaOut `mapstructure:"kafka_out"`
	Engine common.Engine   `mapstructure:"engine"`
	AWS    common.AWS      `mapstructure:"aws"`
	Probe  common.Probe    `mapstructure:"probe"`
	Outbox outbox.Config   `mapstructure:"outbox"`
	Server common.Server   `mapstructure:"server"`
	Log    common.Log      `mapstructure:"log"`
	OTEL   common.OTEL     `mapstructure:"otel"`
}
