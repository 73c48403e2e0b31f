// Package oracle provides the Oracle Database dialect definition.
// This package is pure Go with no database driver dependencies.
package oracle

import "github.com/leapstack-labs/leapquery/pkg/core"

// Config is the Oracle dialect configuration.
var Config = &core.DialectConfig{
	Name:        "oracle",
	Placeholder: core.PlaceholderColon,
	Limit:       core.LimitFetchFirst,
	StringAgg:   core.StringAggListagg,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormUppercase, // Oracle folds unquoted to uppercase
	},
	NullOrdering: core.NullsHigh,
	Capabilities: core.Capabilities{
		StringAggregation:   core.Native,
		InverseDistribution: core.Native,
		HypotheticalSet:     core.Native,
		NullsOrdering:       true,
	},
	StringType: "varchar2(4000)",
	DoubleType: "binary_double",
	BoolAsInt:  true,
}
