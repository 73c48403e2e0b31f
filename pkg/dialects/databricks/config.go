// Package databricks provides the Databricks SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package databricks

import "github.com/leapstack-labs/leapquery/pkg/core"

// Config is the Databricks SQL dialect configuration.
var Config = &core.DialectConfig{
	Name:        "databricks",
	Placeholder: core.PlaceholderQuestion,
	Limit:       core.LimitClause,
	StringAgg:   core.StringAggListagg,
	Identifiers: core.IdentifierConfig{
		Quote:         "`",
		QuoteEnd:      "`",
		Escape:        "``",
		Normalization: core.NormCaseInsensitive,
	},
	// NULLS FIRST for ascending sorts
	NullOrdering: core.NullsLow,
	Capabilities: core.Capabilities{
		StringAggregation:   core.Native,
		InverseDistribution: core.Native,
		HypotheticalSet:     core.Emulated,
		AggregateFilter:     true,
		NullsOrdering:       true,
	},
	StringType: "string",
	DoubleType: "double",
}
