// Package logconf maps the ASDF_LOG_LEVEL environment variable onto a
// log/slog level, the way the rest of this codebase reaches for slog
// rather than a bespoke logging type.
package logconf

import (
	"log/slog"
	"os"
	"strings"
)

// Sentinel levels outside slog's normal Debug..Error range, used so NONE
// and TRACE/FATAL can still round-trip through a plain slog.Level.
const (
	LevelTrace = slog.Level(-8)
	LevelFatal = slog.Level(12)
	LevelNone  = slog.Level(16)
)

// FromEnv reads ASDF_LOG_LEVEL (case-insensitive), defaulting to WARN.
func FromEnv() slog.Level {
	return FromString(os.Getenv("ASDF_LOG_LEVEL"))
}

// FromString parses one of NONE,TRACE,DEBUG,INFO,WARN,ERROR,FATAL.
// An empty or unrecognized value yields WARN, the documented default.
func FromString(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NONE":
		return LevelNone
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	case "FATAL":
		return LevelFatal
	default:
		return slog.LevelWarn
	}
}

// NewLogger builds the default text-handler logger used when the caller
// does not inject one via asdf.WithLogger.
func NewLogger() *slog.Logger {
	level := FromEnv()
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}
