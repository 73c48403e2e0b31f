package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultTarget       = "sqlite"
	DefaultDatabase     = ":memory:"
	DefaultPageSize     = 20
	DefaultPlanCache    = 256
	DefaultQueryTimeout = 30 * time.Second
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultServerAddr   = ":8080"
	DefaultOutput       = "auto" // Auto-detect: TTY=table, non-TTY=markdown
)

func defaults() map[string]any {
	return map[string]any{
		"target.type":     DefaultTarget,
		"target.database": DefaultDatabase,
		"page.size":       DefaultPageSize,
		"order.nulls":     "DEFAULT",
		"plan_cache.size": DefaultPlanCache,
		"query_timeout":   DefaultQueryTimeout.String(),
		"log.level":       DefaultLogLevel,
		"log.format":      DefaultLogFormat,
		"server.addr":     DefaultServerAddr,
		"server.watch":    false,
		"output":          DefaultOutput,
		"verbose":         false,
	}
}

// ParseLevel parses a log.level value.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log.level %q: %w", s, err)
	}
	return l, nil
}

// NewLogger builds the logger described by the log section. Verbose
// forces debug level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	if c.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
