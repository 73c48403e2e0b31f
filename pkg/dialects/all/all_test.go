package all

import (
	"testing"

	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/leapstack-labs/leapquery/pkg/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistered(t *testing.T) {
	assert.Equal(t,
		[]string{"ansi", "databricks", "duckdb", "mysql", "oracle", "postgres", "snowflake", "sqlite", "sqlserver"},
		dialect.List())
}

func TestCapabilityTable(t *testing.T) {
	tests := []struct {
		name        string
		listagg     bool
		percentile  core.SupportMode
		percentRank core.SupportMode
		filter      bool
		nulls       bool
	}{
		{"postgres", true, core.Native, core.Native, true, true},
		{"duckdb", true, core.Native, core.Emulated, true, true},
		{"sqlite", true, core.Emulated, core.Emulated, true, true},
		{"mysql", true, core.Unsupported, core.Unsupported, false, false},
		{"sqlserver", true, core.WindowOnly, core.Emulated, false, false},
		{"oracle", true, core.Native, core.Native, false, true},
		{"ansi", true, core.Native, core.Native, true, true},
		{"snowflake", true, core.Native, core.Emulated, false, true},
		{"databricks", true, core.Native, core.Emulated, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := dialect.Get(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.listagg, d.SupportsStringAggregation())
			assert.Equal(t, tt.percentile, d.Mode(core.AggPercentileDisc))
			assert.Equal(t, tt.percentRank, d.Mode(core.AggPercentRank))
			assert.Equal(t, tt.filter, d.SupportsAggregateFilter())
			assert.Equal(t, tt.nulls, d.SupportsNullsOrdering())
		})
	}
}

func TestPlaceholders(t *testing.T) {
	want := map[string]string{
		"postgres":   "$2",
		"duckdb":     "?",
		"sqlite":     "?",
		"mysql":      "?",
		"sqlserver":  "@p2",
		"oracle":     ":2",
		"ansi":       "?",
		"snowflake":  "?",
		"databricks": "?",
	}
	for name, placeholder := range want {
		d, ok := dialect.Get(name)
		require.True(t, ok, name)
		assert.Equal(t, placeholder, d.FormatPlaceholder(2), name)
	}
}
