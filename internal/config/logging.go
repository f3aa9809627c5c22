package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/PabloGalante/organizer-agent/internal/observability"
)

// ParseLogLevel converts a case-insensitive level name to an slog.Level.
//
// Accepted values: "trace", "debug", "info" (or empty), "warn"/"warning"
// and "error".
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "trace":
		return observability.LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (valid: trace, debug, info, warn, error)", s)
	}
}
