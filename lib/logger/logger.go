package logger

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// --------------------------------------------------------------------------
// Shared logger state
// --------------------------------------------------------------------------

var (
	mu      sync.Mutex
	level   = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	base    *zap.SugaredLogger
	loggers = map[string]*zap.SugaredLogger{}
)

// build creates the shared base logger on first use
func build() *zap.SugaredLogger {
	if base != nil {
		return base
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		// the static production config can not actually fail to build
		panic(fmt.Sprintf("failed to build logger: %v", err))
	}
	base = l.Sugar()
	return base
}

// --------------------------------------------------------------------------
// Logger Factory
// --------------------------------------------------------------------------

// GetLogger returns the named logger, creating it on first use.
// All loggers share one atomic level controlled via SetLevel.
func GetLogger(name string) *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()

	if l, ok := loggers[name]; ok {
		return l
	}
	l := build().Named(name)
	loggers[name] = l
	return l
}

// --------------------------------------------------------------------------
// Level Handling
// --------------------------------------------------------------------------

// SetLevel sets the shared log level for all named loggers.
// Must be one of debug, info, warn, error.
func SetLevel(l string) error {
	parsed, err := parseLevel(l)
	if err != nil {
		return err
	}
	level.SetLevel(parsed)
	return nil
}

// parseLevel converts a string level to a zapcore.Level
func parseLevel(l string) (zapcore.Level, error) {
	switch strings.ToLower(l) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warning", "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("invalid log level: %s. must be one of debug, info, warn, error", l)
	}
}
