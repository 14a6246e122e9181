package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"lot-backend/pkg/apperror"
	"lot-backend/pkg/config"
)

// New builds a JSON production logger, or a console development logger when
// cfg.Format is "console".
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, apperror.New(apperror.Config, "invalid log.level %q", cfg.Level)
	}

	var zc zap.Config
	switch cfg.Format {
	case "", "json":
		zc = zap.NewProductionConfig()
	case "console":
		zc = zap.NewDevelopmentConfig()
	default:
		return nil, apperror.New(apperror.Config, "invalid log.format %q", cfg.Format)
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	// stdout carries command output
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}
