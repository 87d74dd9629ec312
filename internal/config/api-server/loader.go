package api_server_config

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
	common.SetObsDefaults(v, "api-server", ":8081")
	common.SetEngineDefaults(v)

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", "5s")
	// a synchronous evaluation may run many provider calls
	v.SetDefault("http.write_timeout", "2m")
	v.SetDefault("http.shutdown_timeout", "10s")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, err
	}
	return &cfg, v, nil
}
