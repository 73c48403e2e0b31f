// Package sqlite provides the SQLite SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package sqlite

import "github.com/leapstack-labs/leapquery/pkg/core"

// Config is the SQLite dialect configuration.
var Config = &core.DialectConfig{
	Name:        "sqlite",
	Placeholder: core.PlaceholderQuestion,
	Limit:       core.LimitClause,
	StringAgg:   core.StringAggGroupConcatInline,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormCaseInsensitive,
	},
	// NULL is smaller than any value
	NullOrdering: core.NullsLow,
	Capabilities: core.Capabilities{
		StringAggregation:   core.Native,
		InverseDistribution: core.Emulated,
		HypotheticalSet:     core.Emulated,
		AggregateFilter:     true,
		NullsOrdering:       true, // since 3.30
	},
	StringType: "text",
	DoubleType: "real",
}
