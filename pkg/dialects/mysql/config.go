// Package mysql provides the MySQL SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package mysql

import "github.com/leapstack-labs/leapquery/pkg/core"

// Config is the MySQL dialect configuration.
var Config = &core.DialectConfig{
	Name:        "mysql",
	Placeholder: core.PlaceholderQuestion,
	Limit:       core.LimitClause,
	StringAgg:   core.StringAggGroupConcat,
	Identifiers: core.IdentifierConfig{
		Quote:         "`",
		QuoteEnd:      "`",
		Escape:        "``",
		Normalization: core.NormCaseInsensitive,
	},
	NullOrdering: core.NullsLow,
	Capabilities: core.Capabilities{
		StringAggregation: core.Native,
		// no ordered-set aggregates and no FILTER clause
		InverseDistribution: core.Unsupported,
		HypotheticalSet:     core.Unsupported,
	},
	StringType: "char",
	DoubleType: "double",

	// || is logical OR unless PIPES_AS_CONCAT is set
	ConcatFunction: true,
}
