package logging

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// InitLogger installs a tint handler writing to w as the default logger.
func InitLogger(w io.Writer, level string) {
	handler := tint.NewHandler(w, &tint.Options{
		Level:      ParseLevel(level),
		TimeFormat: time.Kitchen,
		AddSource:  true,
	})

	slog.SetDefault(slog.New(handler))
}

// ParseLevel maps a level name to slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
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
