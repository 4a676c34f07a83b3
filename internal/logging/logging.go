// Package logging builds the process logger.
package logging

import (
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	Level       string
	Development bool
}

// New returns a JSON logger, or a console logger in development mode.
// An empty level means info.
func New(opts Options) (*zap.SugaredLogger, error) {
	lvl := zapcore.InfoLevel
	if s := strings.TrimSpace(opts.Level); s != "" {
		if err := lvl.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
			return nil, errors.Wrapf(err, "log level %q", opts.Level)
		}
	}

	cfg := zap.NewProductionConfig()
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return l.Sugar(), nil
}

// Named is a nil-safe Named for optional loggers.
func Named(l *zap.SugaredLogger, name string) *zap.SugaredLogger {
	if l == nil {
		return zap.NewNop().Sugar()
	}
	return l.Named(name)
}
