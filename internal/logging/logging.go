// Package logging wraps a zap sugared logger for the CLI.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger = zap.SugaredLogger

// NewLogger builds a console logger. Verbose enables debug output, which
// includes the files skipped for lack of a capture date.
func NewLogger(verbose bool) *Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.TimeKey = ""
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// Nop returns a logger that discards everything. Used by tests and library callers.
func Nop() *Logger {
	return zap.NewNop().Sugar()
}

// WithComponent returns a logger tagged with the component name.
func WithComponent(l *Logger, component string) *Logger {
	return l.With("component", component)
}
