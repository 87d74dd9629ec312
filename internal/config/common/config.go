package common_config

import (
	"github.com/NordCoder/CloudCorrect/internal/evaluator"
	"github.com/NordCoder/CloudCorrect/internal/obs"
	"github.com/NordCoder/CloudCorrect/internal/probe"
	awsinfra "github.com/NordCoder/CloudCorrect/internal/repository/aws"
	"github.com/spf13/viper"
)

type Log struct {
	Level   string `mapstructure:"level"`
	Pretty  bool   `mapstructure:"pretty"`
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
}

func (l Log) AsLoggerConfig(app string) obs.LogConfig {
	return obs.LogConfig{Level: l.Level, Pretty: l.Pretty, App: app, Env: l.Env, Ver: l.Version}
}

type OTEL struct {
	Enable      bool    `mapstructure:"enable"`
	Endpoint    string  `mapstructure:"otlp_endpoint"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// AsOTELConfig borrows version and env from the log section so traces and
// logs carry the same labels.
func (o OTEL) AsOTELConfig(l Log) *obs.OTELConfig {
	return &obs.OTELConfig{
		Enable:      o.Enable,
		Endpoint:    o.Endpoint,
		ServiceName: o.ServiceName,
		Version:     l.Version,
		Env:         l.Env,
		SampleRatio: o.SampleRatio,
	}
}

type KafkaIn struct {
	Brokers    []string `mapstructure:"brokers"`
	Topic      string   `mapstructure:"topic"`
	GroupID    string   `mapstructure:"group_id"`
	Partitions int      `mapstructure:"partitions"`
}

type KafkaOut struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type Server struct {
	MetricsAddr string `mapstructure:"metrics_addr"`
}

type Probe struct {
	HTTP probe.HTTPConfig `mapstructure:",squash"`
	ICMP probe.ICMPConfig `mapstructure:",squash"`
}

type AWS struct {
	Credentials  awsinfra.CredentialsConfig `mapstructure:",squash"`
	GlobalRegion string                     `mapstructure:"global_region"`
}

type Engine struct {
	Evaluator evaluator.Config `mapstructure:",squash"`
	// Lock is "postgres" for a cluster-wide advisory lock or "memory" for a
	// single worker process.
	Lock string `mapstructure:"lock"`
}

const (
	TopicEvaluationRequests = "cloudcorrect.groups.evaluate"
	TopicAlerts             = "cloudcorrect.groups.failed"
)

// SetEngineDefaults covers everything a process needs to evaluate groups.
func SetEngineDefaults(v *viper.Viper) {
	v.SetDefault("engine.timeout", "10s")
	v.SetDefault("engine.default_region", evaluator.DefaultRegion)
	v.SetDefault("engine.lock", "postgres")

	v.SetDefault("aws.sts_region", "us-east-1")
	v.SetDefault("aws.role_session_name", awsinfra.DefaultSessionName)
	v.SetDefault("aws.global_region", "us-east-1")

	v.SetDefault("probe.http_timeout", "5s")
	v.SetDefault("probe.user_agent", "CloudCorrect/1.0")
	v.SetDefault("probe.follow_redirects", true)
	v.SetDefault("probe.verify_tls", true)
	v.SetDefault("probe.ping_timeout", "2s")
	v.SetDefault("probe.ping_privileged", false)
}
