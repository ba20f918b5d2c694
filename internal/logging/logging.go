// Package logging builds the process logger.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a development logger when env is "development" and a
// production logger otherwise. A non-empty level ("debug", "warn", ...)
// overrides the environment default.
func New(env, level string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "development" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	return cfg.Build()
}

// Bootstrap returns the logger for failures that happen before the
// configured logger exists. It writes JSON to stderr at info and above.
func Bootstrap() *zap.Logger {
	logger, err := zap.NewProductionConfig().Build()
	if err != nil {
		return zap.NewExample()
	}
	return logger
}
