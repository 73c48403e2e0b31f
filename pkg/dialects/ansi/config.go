// Package ansi provides the base SQL:2016 dialect. It describes an engine
// that implements the standard aggregate forms directly and is the record
// other dialects are compared against.
package ansi

import "github.com/leapstack-labs/leapquery/pkg/core"

// Config is the ANSI dialect configuration.
var Config = &core.DialectConfig{
	Name:        "ansi",
	Placeholder: core.PlaceholderQuestion,
	Limit:       core.LimitFetchFirst,
	StringAgg:   core.StringAggListagg,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormUppercase,
	},
	// the standard leaves it to the implementation
	NullOrdering: core.NullsHigh,
	Capabilities: core.Capabilities{
		StringAggregation:   core.Native,
		InverseDistribution: core.Native,
		HypotheticalSet:     core.Native,
		AggregateFilter:     true,
		NullsOrdering:       true,
	},
	StringType: "varchar(4000)",
	DoubleType: "double precision",
}
