package utils

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// LoggerOptions configures InitLogger.
type LoggerOptions struct {
	// Level is the minimum level name ("debug", "info", "warn", "error").
	Level string
	// Output receives log lines. Nil means stderr.
	Output io.Writer
	// Prefix is prepended to every line.
	Prefix string
	// ReportTimestamp enables timestamps.
	ReportTimestamp bool
}

// InitLogger builds a structured logger.
func InitLogger(opts LoggerOptions) *log.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	return log.NewWithOptions(out, log.Options{
		Level:           parseLevel(opts.Level),
		Prefix:          opts.Prefix,
		ReportTimestamp: opts.ReportTimestamp,
	})
}

// parseLevel maps a level name to a log level. Unknown names mean info.
func parseLevel(s string) log.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// InitDefaultLogger builds the process-wide logger. The SHELLGPT_LOG_LEVEL
// environment variable overrides the given level.
func InitDefaultLogger(level string) *log.Logger {
	if env := os.Getenv("SHELLGPT_LOG_LEVEL"); env != "" {
		level = env
	}
	return InitLogger(LoggerOptions{
		Level:  level,
		Prefix: "shellgpt",
	})
}

var (
	defaultLoggerMu sync.RWMutex
	defaultLogger   = InitLogger(LoggerOptions{Level: "info", Prefix: "shellgpt"})
)

// SetDefaultLogger replaces the package-level logger.
func SetDefaultLogger(l *log.Logger) {
	defaultLoggerMu.Lock()
	defer defaultLoggerMu.Unlock()
	defaultLogger = l
}

// GetDefaultLogger returns the package-level logger.
func GetDefaultLogger() *log.Logger {
	defaultLoggerMu.RLock()
	defer defaultLoggerMu.RUnlock()
	return defaultLogger
}

// Debug logs at debug level on the default logger.
func Debug(msg any, kv ...any) { GetDefaultLogger().Debug(msg, kv...) }

// Info logs at info level on the default logger.
func Info(msg any, kv ...any) { GetDefaultLogger().Info(msg, kv...) }

// Warn logs at warn level on the default logger.
func Warn(msg any, kv ...any) { GetDefaultLogger().Warn(msg, kv...) }

// Error logs at error level on the default logger.
func Error(msg any, kv ...any) { GetDefaultLogger().Error(msg, kv...) }

// With returns a sub-logger with the given key-value context.
func With(kv ...any) *log.Logger { return GetDefaultLogger().With(kv...) }

// WithPrefix returns a sub-logger with the given prefix.
func WithPrefix(prefix string) *log.Logger { return GetDefaultLogger().WithPrefix(prefix) }
