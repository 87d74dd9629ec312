package obs

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogConfig struct {
	Level  string
	Pretty bool
	App    string
	Env    string
	Ver    string
}

// NewLeveledLogger returns the logger together with its atomic level, so the
// level can follow config file changes at runtime. Pretty switches to the
// colored console encoder for local runs.
func NewLeveledLogger(c LogConfig) (*zap.Logger, zap.AtomicLevel, error) {
	lvl := zap.NewAtomicLevelAt(parseLevel(c.Level))

	cfg := zap.NewProductionConfig()
	if c.Pretty {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = lvl
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder

	var fields []zap.Field
	for k, v := range map[string]string{"service": c.App, "env": c.Env, "version": c.Ver} {
		if v != "" {
			fields = append(fields, zap.String(k, v))
		}
	}

	l, err := cfg.Build(zap.Fields(fields...))
	if err != nil {
		return nil, lvl, err
	}
	return l, lvl, nil
}

func parseLevel(s string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(s)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
