package k2700

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger denotes a generic logging interface
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

// NullLogger denotes a logger that simply discards all messages
type NullLogger struct{}

// Debugf fulfils the Logger interface (no-op)
func (l *NullLogger) Debugf(format string, args ...interface{}) {}

// Infof fulfils the Logger interface (no-op)
func (l *NullLogger) Infof(format string, args ...interface{}) {}

// Warnf fulfils the Logger interface (no-op)
func (l *NullLogger) Warnf(format string, args ...interface{}) {}

// Errorf fulfils the Logger interface (no-op)
func (l *NullLogger) Errorf(format string, args ...interface{}) {}

// Fatalf fulfils the Logger interface (no-op)
func (l *NullLogger) Fatalf(format string, args ...interface{}) {}

// NewDefaultLogger instantiates a console logger based on zap, logging at
// debug level if requested
func NewDefaultLogger(debug bool) Logger {
	cfg := zap.NewDevelopmentConfig()
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}

	return logger.Sugar()
}
