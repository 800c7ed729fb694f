package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Log is the process-wide sugared logger. It discards everything until Init
// is called, so packages and tests can log without setup.
var Log = zap.NewNop().Sugar()

// Init builds the global logger for the given environment.
func Init(env string) error {
	var cfg zap.Config
	switch strings.ToLower(env) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	l, err := cfg.Build()
	if err != nil {
		return err
	}
	Log = l.Sugar()
	return nil
}

// Named returns a child logger tagged with a component name.
func Named(component string) *zap.SugaredLogger {
	return Log.With("component", component)
}

func Sync() {
	_ = Log.Sync()
}
