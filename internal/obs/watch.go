package obs

import (
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// WatchLogLevel re-reads key from the config file on every write and applies
// it to lvl. A file-less viper instance is left alone.
func WatchLogLevel(v *viper.Viper, key string, lvl zap.AtomicLevel, log *zap.Logger) {
	if v == nil || v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		next := parseLevel(v.GetString(key))
		if next == lvl.Level() {
			return
		}
		lvl.SetLevel(next)
		log.Info("log level changed", zap.String("file", e.Name), zap.String("level", next.String()))
	})
	v.WatchConfig()
}
