package logger

import (
	"os"
	"quizhub/internal/config"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	log *zap.Logger
	mu  sync.RWMutex
)

// Initialize sets up the global logger from the logger section of the config.
func Initialize(loggerCfg config.LoggerConfig) error {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	logLevel := zapcore.InfoLevel
	if err := logLevel.Set(loggerCfg.Level); err != nil && loggerCfg.Level != "" {
		return err
	}

	var encoder zapcore.Encoder
	if loggerCfg.Env == "production" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}
	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), logLevel)

	mu.Lock()
	log = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	mu.Unlock()
	return nil
}

// Get returns the global logger instance. Before Initialize is called it
// returns a no-op logger so packages can log unconditionally.
func Get() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if log == nil {
		return zap.NewNop()
	}
	return log
}

// Replace swaps the global logger, returning a func that restores the previous one.
func Replace(l *zap.Logger) func() {
	mu.Lock()
	prev := log
	log = l
	mu.Unlock()
	return func() {
		mu.Lock()
		log = prev
		mu.Unlock()
	}
}

// Sync flushes any buffered log entries
func Sync() error {
	return Get().Sync()
}
