package app

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sundayezeilo/shortlinks/internal/config"
)

// setupLogger creates a structured JSON logger writing to out. When a log
// file is configured the same records also go to a size-rotated file, whose
// closer is returned.
func setupLogger(cfg config.AppConfig, out io.Writer) (*slog.Logger, io.Closer) {
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var sink io.Closer
	if cfg.LogFile != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAge:     cfg.LogMaxAgeDays,
			Compress:   true,
		}
		out = io.MultiWriter(out, file)
		sink = file
	}

	handler := slog.NewJSONHandler(out, opts)
	return slog.New(handler), sink
}
