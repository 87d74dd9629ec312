package alert_notifier_config

import (
	"time"

	common "github.com/NordCoder/CloudCorrect/internal/config/common"
	pginfra "github.com/NordCoder/CloudCorrect/internal/repository/postgres"
)

type SMTP struct {
	Host       string        `mapstructure:"host"`
	Port       int           `mapstructure:"port"`
	From       string        `mapstructure:"from"`
	User       string        `mapstructure:"user"`
	Password   string        `mapstructure:"password"`
	UseTLS     bool          `mapstructure:"use_tls"`
	Timeout    time.Duration `mapstructure:"timeout"`
	SubjPrefix string        `mapstructure:"subj_prefix"`
}

type App struct {
	// URL is the dashboard base used for links in alert emails.
	URL string `mapstructure:"url"`
}

type Config struct {
	DB     pginfra.Config `mapstructure:"db"`
	In     common.KafkaIn `mapstructure:"kafka_in"`
	SMTP   SMTP           `mapstructure:"smtp"`
	App    App            `mapstructure:"app"`
	Server common.Server  `mapstructure:"server"`
	Log    common.Log     `mapstructure:"log"`
	OTEL   common.OTEL    `mapstructure:"otel"`
}
