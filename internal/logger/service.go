package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Initialize installs the process-wide JSON logger. Logs go to stderr so that stdout
// stays reserved for operator-facing deployment output.
func Initialize(level slog.Level) {
	InitializeTo(os.Stderr, level)
}

// InitializeTo is Initialize with an explicit destination.
func InitializeTo(w io.Writer, level slog.Level) {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))

	slog.SetDefault(logger)
}

func Named(name string) *slog.Logger {
	logger := slog.Default()
	if logger == nil {
		return nil
	}

	return logger.With("name", name)
}

// ParseLevel maps debug, info, warn/warning and error to a slog level.
// An empty value resolves to info.
func ParseLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level '%s'", value)
	}
}
