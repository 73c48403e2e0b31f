// Package sqlserver provides the Microsoft SQL Server dialect definition.
// This package is pure Go with no database driver dependencies.
package sqlserver

import "github.com/leapstack-labs/leapquery/pkg/core"

// Config is the SQL Server dialect configuration.
var Config = &core.DialectConfig{
	Name:        "sqlserver",
	Placeholder: core.PlaceholderAtP,
	Limit:       core.LimitOffsetFetch,
	StringAgg:   core.StringAggWithinGroup,
	Identifiers: core.IdentifierConfig{
		Quote:         "[",
		QuoteEnd:      "]",
		Escape:        "]]",
		Normalization: core.NormCaseInsensitive,
	},
	NullOrdering: core.NullsLow,
	Capabilities: core.Capabilities{
		StringAggregation: core.Native,
		// PERCENTILE_DISC requires OVER
		InverseDistribution: core.WindowOnly,
		HypotheticalSet:     core.Emulated,
	},
	StringType:     "nvarchar(max)",
	DoubleType:     "float",
	BoolAsInt:      true,
	ConcatFunction: true,
}
