package duckdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leapquery/pkg/adapter"
	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter_Connect(t *testing.T) {
	tests := []struct {
		name      string
		setupPath func(t *testing.T) string
		verify    func(t *testing.T, path string)
	}{
		{
			name: "in-memory",
			setupPath: func(_ *testing.T) string {
				return ":memory:"
			},
		},
		{
			name: "file-based",
			setupPath: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "test.duckdb")
			},
			verify: func(t *testing.T, path string) {
				_, err := os.Stat(path)
				assert.False(t, os.IsNotExist(err), "database file was not created")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			adp := New(nil)

			dbPath := tt.setupPath(t)
			require.NoError(t, adp.Connect(ctx, core.AdapterConfig{Path: dbPath}))
			defer func() { _ = adp.Close() }()

			if tt.verify != nil {
				tt.verify(t, dbPath)
			}
		})
	}
}

func TestAdapter_NotConnected(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)

	_, err := adp.Exec(ctx, "select 1")
	assert.ErrorIs(t, err, adapter.ErrNotConnected)

	_, err = adp.Query(ctx, "select 1")
	assert.ErrorIs(t, err, adapter.ErrNotConnected)

	assert.NoError(t, adp.Close())
}

func TestAdapter_QueryWithArgs(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)
	require.NoError(t, adp.Connect(ctx, core.AdapterConfig{}))
	defer func() { _ = adp.Close() }()

	_, err := adp.Exec(ctx, "create table t (id integer, name varchar)")
	require.NoError(t, err)
	n, err := adp.Exec(ctx, "insert into t values (?, ?), (?, ?)", 1, "alice", 2, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	rows, err := adp.Query(ctx, "select name from t where id > ? order by id", 1)
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"bob"}, names)
}

func TestAdapter_Settings(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)
	require.NoError(t, adp.Connect(ctx, core.AdapterConfig{
		Params: map[string]any{"settings": map[string]any{"threads": 2}},
	}))
	defer func() { _ = adp.Close() }()

	rows, err := adp.Query(ctx, "select current_setting('threads')")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	require.True(t, rows.Next())
	var threads int64
	require.NoError(t, rows.Scan(&threads))
	assert.Equal(t, int64(2), threads)
}

func TestParseParams(t *testing.T) {
	p, err := ParseParams(map[string]any{
		"extensions": []any{"json"},
		"settings":   map[string]any{"memory_limit": "1GB", "threads": 4},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"json"}, p.Extensions)
	assert.Equal(t, map[string]string{"memory_limit": "1GB", "threads": "4"}, p.Settings)

	assert.Equal(t, []string{
		"INSTALL json",
		"LOAD json",
		"SET memory_limit = '1GB'",
		"SET threads = '4'",
	}, setupStatements(p))

	_, err = ParseParams(map[string]any{"extension": "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duckdb params")
}

func TestAdapter_Dialect(t *testing.T) {
	assert.Equal(t, "duckdb", New(nil).Dialect().Name)
	assert.True(t, adapter.IsRegistered("duckdb"))
}
