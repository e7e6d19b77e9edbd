// Package logger configures the process-wide structured logger used across
// the routing engine: a slog.Logger writing JSON (or text) to stdout,
// stderr, or a rotated file.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the process-wide logger, set by Init/InitWithConfig.
var Log *slog.Logger

func init() {
	// Safe default so packages can log before Init runs, e.g. in tests.
	Log = slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

// Config controls logger construction.
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json, text
	Output     string // stdout, stderr, file
	FilePath   string
	MaxSize    int // MB
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// Init initializes the logger with just a level, JSON format, stdout output.
func Init(level string) {
	InitWithConfig(Config{Level: level, Format: "json", Output: "stdout"})
}

// InitWithConfig initializes the logger from a full configuration.
func InitWithConfig(cfg Config) {
	var lvl slog.Level
	switch cfg.Level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	var writer io.Writer
	switch cfg.Output {
	case "stderr":
		writer = os.Stderr
	case "file":
		if cfg.FilePath == "" {
			cfg.FilePath = "logs/freightcore.log"
		}
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			writer = os.Stdout
		} else {
			writer = &lumberjack.Logger{
				Filename:   cfg.FilePath,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   cfg.Compress,
			}
		}
	default:
		writer = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: lvl, AddSource: lvl == slog.LevelDebug}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(writer, opts)
	} else {
		handler = slog.NewJSONHandler(writer, opts)
	}

	Log = slog.New(handler)
}

// WithRequestID returns a logger annotated with a correlation ID, for
// threading through a single Engine.Plan call.
func WithRequestID(requestID string) *slog.Logger {
	return Log.With("request_id", requestID)
}

// WithRoute returns a logger annotated with the source/destination pair
// being planned, useful for correlating the whole pipeline's log lines.
func WithRoute(source, destination string) *slog.Logger {
	return Log.With("source", source, "destination", destination)
}

// Debug logs a debug message on the process-wide logger.
func Debug(msg string, args ...any) { Log.Debug(msg, args...) }

// Info logs an info message on the process-wide logger.
func Info(msg string, args ...any) { Log.Info(msg, args...) }

// Warn logs a warning message on the process-wide logger.
func Warn(msg string, args ...any) { Log.Warn(msg, args...) }

// Error logs an error message on the process-wide logger.
func Error(msg string, args ...any) { Log.Error(msg, args...) }
