package bootstrap

import (
	"context"
	"time"

	common "github.com/NordCoder/CloudCorrect/internal/config/common"
	"github.com/NordCoder/CloudCorrect/internal/obs"
	pg "github.com/NordCoder/CloudCorrect/internal/repository/postgres"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Logger builds the service logger and keeps log.level in sync with the
// config file.
func Logger(app string, cfg common.Log, v *viper.Viper) (*zap.Logger, error) {
	l, lvl, err := obs.NewLeveledLogger(cfg.AsLoggerConfig(app))
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(l)
	obs.WatchLogLevel(v, "log.level", lvl, l)
	return l, nil
}

func DBHealth(db *pg.DB) obs.HealthCheck {
	return func(ctx context.Context) error {
		hctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
		defer cancel()
		return db.Ping(hctx)
	}
}
