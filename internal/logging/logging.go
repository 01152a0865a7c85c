// Package logging configures the process-wide slog logger: console plus a
// size-rotated log file. Components receive *slog.Logger values and never
// touch the sink configuration themselves.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/gewnthar/icd10pipe/internal/config"
)

// Setup builds the logger and installs it as the slog default. Safe to call
// more than once; the last call wins. With an empty file path only the
// console handler is attached.
func Setup(cfg config.LoggingConfig) *slog.Logger {
	var sink io.Writer = os.Stderr
	if cfg.File != "" {
		rotor := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
		sink = io.MultiWriter(os.Stderr, rotor)
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(sink, opts)
	} else {
		handler = slog.NewTextHandler(sink, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
