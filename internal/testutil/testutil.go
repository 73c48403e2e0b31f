// Package testutil provides loggers and database fixtures for tests.
package testutil

import (
	"context"
	"log/slog"
	"testing"

	"github.com/leapstack-labs/leapquery/pkg/adapter"
	sqliteadapter "github.com/leapstack-labs/leapquery/pkg/adapters/sqlite"
	"github.com/stretchr/testify/require"
)

// NewTestLogger returns a logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// OpenSQLite connects a SQLite adapter to a fresh in-memory database, runs
// each DDL statement and closes the adapter when the test ends.
func OpenSQLite(t testing.TB, ddl ...string) *sqliteadapter.Adapter {
	t.Helper()
	ctx := context.Background()

	adp := sqliteadapter.New(NewTestLogger(t))
	require.NoError(t, adp.Connect(ctx, adapter.Config{}))
	t.Cleanup(func() { _ = adp.Close() })
	for _, stmt := range ddl {
		_, err := adp.Exec(ctx, stmt)
		require.NoError(t, err, "ddl: %s", stmt)
	}
	return adp
}
