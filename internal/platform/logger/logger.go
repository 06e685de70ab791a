package logger

import (
	"log/slog"
	"os"
)

// New returns the process-wide structured logger. Level is controlled by the
// LOG_LEVEL environment variable (debug, info, warn, error); default info.
func New() *slog.Logger {
	level := slog.LevelInfo
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
