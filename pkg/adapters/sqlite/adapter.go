// Package sqlite provides a SQLite database adapter for LeapQuery, backed
// by the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"log/slog"
	"net/url"
	"sort"

	"github.com/leapstack-labs/leapquery/pkg/adapter"
	"github.com/leapstack-labs/leapquery/pkg/dialect"
	sqlitedialect "github.com/leapstack-labs/leapquery/pkg/dialects/sqlite"

	_ "modernc.org/sqlite" // sqlite driver
)

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{BaseSQLAdapter: adapter.NewBase(logger)}
}

// Dialect returns the SQLite dialect.
func (a *Adapter) Dialect() *dialect.Dialect {
	return sqlitedialect.SQLite
}

// Connect opens the database file at cfg.Path, or an in-memory database
// when the path is empty or ":memory:".
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	a.Logger.Debug("connecting to sqlite", slog.String("path", cfg.Path))
	if err := a.Open(ctx, "sqlite", buildSQLiteDSN(cfg), cfg); err != nil {
		return err
	}
	if isMemory(cfg.Path) {
		// every pooled connection would see its own empty database
		a.DB.SetMaxOpenConns(1)
	}
	return nil
}

func isMemory(path string) bool {
	return path == "" || path == ":memory:"
}

// buildSQLiteDSN renders the path with options as _pragma parameters,
// e.g. {"busy_timeout": "5000"} becomes _pragma=busy_timeout(5000).
func buildSQLiteDSN(cfg adapter.Config) string {
	path := cfg.Path
	if isMemory(path) {
		path = ":memory:"
	}
	if len(cfg.Options) == 0 {
		return path
	}

	keys := make([]string, 0, len(cfg.Options))
	for k := range cfg.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	q := url.Values{}
	for _, k := range keys {
		q.Add("_pragma", k+"("+cfg.Options[k]+")")
	}
	return "file:" + path + "?" + q.Encode()
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
