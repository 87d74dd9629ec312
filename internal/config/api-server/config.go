package api_server_config

import (
	"time"

	common "github.com/NordCoder/CloudCorrect/internal/config/common"
	pginfra "github.com/NordCoder/CloudCorrect/internal/repository/postgres"
)

type HTTP struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type Config struct {
	DB     pginfra.Config `mapstructure:"db"`
	HTTP   HTTP           `mapstructure:"http"`
	Engine common.Engine  `mapstructure:"engine"`
	AWS    common.AWS     `mapstructure:"aws"`
	Probe  common.Probe   `mapstructure:"probe"`
	Server common.Server  `mapstructure:"server"`
	Log    common.Log     `mapstructure:"log"`
	OTEL   common.OTEL    `mapstructure:"otel"`
}
