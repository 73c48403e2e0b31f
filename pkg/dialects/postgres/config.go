// Package postgres provides the PostgreSQL SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package postgres

import "github.com/leapstack-labs/leapquery/pkg/core"

// Config is the PostgreSQL dialect configuration.
// This is pure data - accessible by both Adapter and Translator.
var Config = &core.DialectConfig{
	Name:        "postgres",
	Placeholder: core.PlaceholderDollar,
	Limit:       core.LimitClause,
	StringAgg:   core.StringAggInline,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormLowercase, // Postgres normalizes unquoted to lowercase
	},
	// NULL is larger than any value
	NullOrdering: core.NullsHigh,
	Capabilities: core.Capabilities{
		StringAggregation:   core.Native,
		InverseDistribution: core.Native,
		HypotheticalSet:     core.Native,
		AggregateFilter:     true,
		NullsOrdering:       true,
	},
	StringType: "text",
	DoubleType: "double precision",
}
