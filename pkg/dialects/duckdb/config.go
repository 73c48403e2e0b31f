// Package duckdb provides the DuckDB SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package duckdb

import "github.com/leapstack-labs/leapquery/pkg/core"

// Config is the DuckDB dialect configuration.
var Config = &core.DialectConfig{
	Name:        "duckdb",
	Placeholder: core.PlaceholderQuestion,
	Limit:       core.LimitClause,
	StringAgg:   core.StringAggInline,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormCaseInsensitive,
	},
	// DuckDB sorts NULLs last in both directions by default
	NullOrdering: core.NullsAlwaysLast,
	Capabilities: core.Capabilities{
		StringAggregation:   core.Native,
		InverseDistribution: core.Native,
		// percent_rank exists only as a window function
		HypotheticalSet: core.Emulated,
		AggregateFilter: true,
		NullsOrdering:   true,
	},
	StringType: "varchar",
	DoubleType: "double",
}
