package logging

import (
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/giygas/pharmacist-api/config"
)

type LoggingService struct {
	Logger   *slog.Logger
	rotating *RotatingLogger
}

var DefaultLoggingService *LoggingService

// InitLogger initializes the global logger and makes it the slog default
func InitLogger(logDir string, env config.Environment, logLevel string, retentionWeeks int, maxFileSize int64) {
	verbose := os.Getenv("LOG_VERBOSE") != ""
	logger, rotating := newLogger(logDir, GetConsoleLogLevel(env, logLevel, verbose), retentionWeeks, maxFileSize)

	DefaultLoggingService = &LoggingService{
		Logger:   logger,
		rotating: rotating,
	}
	slog.SetDefault(logger)
}

// Close releases the log file of the global logger
func Close() error {
	if DefaultLoggingService == nil || DefaultLoggingService.rotating == nil {
		return nil
	}
	return DefaultLoggingService.rotating.Close()
}

// ResetForTest installs a fresh global logger for one test and closes it on cleanup
func ResetForTest(t *testing.T, logDir string, env config.Environment, logLevel string, retentionWeeks int, maxFileSize int64) {
	t.Helper()

	previous := DefaultLoggingService
	InitLogger(logDir, env, logLevel, retentionWeeks, maxFileSize)
	current := DefaultLoggingService

	t.Cleanup(func() {
		if current.rotating != nil {
			_ = current.rotating.Close()
		}
		DefaultLoggingService = previous
	})
}

// parseLogLevel maps a LOG_LEVEL value to a slog level, defaulting to info
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// GetConsoleLogLevel picks the console level. Tests stay quiet unless verbose,
// prod and staging default to warn, and an explicit LOG_LEVEL wins elsewhere.
func GetConsoleLogLevel(env config.Environment, logLevel string, verbose bool) slog.Level {
	if env == config.EnvTest {
		if verbose {
			return slog.LevelInfo
		}
		return slog.LevelError
	}

	if logLevel != "" {
		return parseLogLevel(logLevel)
	}

	switch env {
	case config.EnvProduction, config.EnvStaging:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// GetFileLogLevel returns the level of the file handler; files keep everything
func GetFileLogLevel() slog.Level {
	return slog.LevelDebug
}

func fallbackLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func current() *slog.Logger {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		return nil
	}
	return DefaultLoggingService.Logger
}

// Package-level functions for direct access

func Info(msg string, args ...any) {
	if logger := current(); logger != nil {
		logger.Info(msg, args...)
		return
	}
	fallbackLogger(slog.LevelInfo).Info(msg, args...)
}

func Error(msg string, args ...any) {
	if logger := current(); logger != nil {
		logger.Error(msg, args...)
		return
	}
	fallbackLogger(slog.LevelError).Error(msg, args...)
}

func Warn(msg string, args ...any) {
	if logger := current(); logger != nil {
		logger.Warn(msg, args...)
		return
	}
	fallbackLogger(slog.LevelWarn).Warn(msg, args...)
}

func Debug(msg string, args ...any) {
	if logger := current(); logger != nil {
		logger.Debug(msg, args...)
		return
	}
	fallbackLogger(slog.LevelDebug).Debug(msg, args...)
}
