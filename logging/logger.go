package logging

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
)

const (
	// LevelOff is above every level slog emits
	LevelOff = slog.Level(math.MaxInt32)
)

// InitializeWithLevel installs the plugin logger writing to w at the given level
func InitializeWithLevel(pluginName, level string, w io.Writer) {
	slog.SetDefault(pluginLogger(pluginName, w, ParseLevel(level)))
}

// pluginLogger returns a JSON logger tagged with the plugin name
func pluginLogger(pluginName string, w io.Writer, level slog.Leveler) *slog.Logger {
	if level == LevelOff {
		return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	}

	handlerOptions := &slog.HandlerOptions{
		Level: level,
	}
	pluginLongName := fmt.Sprintf("tailpipe-plugin-%s", pluginName)
	return slog.New(slog.NewJSONHandler(w, handlerOptions)).With("source", pluginLongName)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug", "trace":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return LevelOff
	}
}
