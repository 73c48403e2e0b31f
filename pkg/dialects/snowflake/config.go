// Package snowflake provides the Snowflake SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package snowflake

import "github.com/leapstack-labs/leapquery/pkg/core"

// Config is the Snowflake dialect configuration.
var Config = &core.DialectConfig{
	Name:        "snowflake",
	Placeholder: core.PlaceholderQuestion,
	Limit:       core.LimitClause,
	StringAgg:   core.StringAggListagg,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormUppercase, // Snowflake normalizes to uppercase
	},
	NullOrdering: core.NullsHigh,
	Capabilities: core.Capabilities{
		StringAggregation:   core.Native,
		InverseDistribution: core.Native,
		// PERCENT_RANK is a window function only
		HypotheticalSet: core.Emulated,
		NullsOrdering:   true,
	},
	StringType: "varchar",
	DoubleType: "double",
}
