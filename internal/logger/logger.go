// Package logger builds the zap loggers used by the command line tools.
package logger

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config describes where and how much to log.
type Config struct {
	Level      string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size" validate:"gte=0"` // megabytes
	MaxBackups int    `yaml:"max_backups" validate:"gte=0"`
	MaxAge     int    `yaml:"max_age" validate:"gte=0"` // days
	Compress   bool   `yaml:"compress"`
}

// New returns a logger writing human readable output to stderr and, when
// cfg.File is set, JSON lines to a rotating file.
func New(cfg Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		l, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, errors.Wrapf(err, "parse log level %q", cfg.Level)
		}
		level = l
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleCfg := encCfg
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stderr), level),
	}

	if cfg.File != "" {
		w := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(w), level))
	}

	return zap.New(zapcore.NewTee(cores...)), nil
}
