package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Feature names understood by Capabilities.Supports and the
// dialect.capabilities configuration map.
const (
	FeatureStringAggregation           = "string_aggregation"
	FeatureInverseDistributionFunctions = "inverse_distribution_functions"
	FeatureHypotheticalSetFunctions     = "hypothetical_set_functions"
	FeatureAggregateFilter              = "aggregate_filter"
	FeatureNullsOrdering                = "nulls_ordering"
)

// Aggregate kinds reported in UnsupportedAggregateError.
const (
	AggListagg        = "listagg"
	AggPercentileDisc = "percentile_disc"
	AggPercentRank    = "percent_rank"
)

// SupportMode says how a dialect can express a function family.
type SupportMode int

const (
	// Unsupported means the function cannot be expressed.
	Unsupported SupportMode = iota
	// Native means the dialect has the ordered-set aggregate itself.
	Native
	// WindowOnly means the function exists only as a window function.
	WindowOnly
	// Emulated means the translator rewrites it into portable SQL.
	Emulated
)

// String returns the configuration spelling of the mode.
func (m SupportMode) String() string {
	switch m {
	case Native:
		return "native"
	case WindowOnly:
		return "window_only"
	case Emulated:
		return "emulated"
	default:
		return "unsupported"
	}
}

// ParseSupportMode parses a mode name or a boolean ("true" means native).
func ParseSupportMode(s string) (SupportMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "native":
		return Native, nil
	case "window_only", "window":
		return WindowOnly, nil
	case "emulated":
		return Emulated, nil
	case "unsupported", "none":
		return Unsupported, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return Unsupported, fmt.Errorf("invalid support mode %q", s)
	}
	if b {
		return Native, nil
	}
	return Unsupported, nil
}

// Capabilities is a dialect's capability record.
type Capabilities struct {
	StringAggregation   SupportMode
	InverseDistribution SupportMode // percentile_disc
	HypotheticalSet     SupportMode // percent_rank
	AggregateFilter     bool        // native FILTER (WHERE ...)
	NullsOrdering       bool        // NULLS FIRST / NULLS LAST syntax
}

// Supports answers a capability query by feature name. Unknown features
// are unsupported.
func (c Capabilities) Supports(feature string) bool {
	switch feature {
	case FeatureStringAggregation:
		return c.StringAggregation != Unsupported
	case FeatureInverseDistributionFunctions:
		return c.InverseDistribution != Unsupported
	case FeatureHypotheticalSetFunctions:
		return c.HypotheticalSet != Unsupported
	case FeatureAggregateFilter:
		return c.AggregateFilter
	case FeatureNullsOrdering:
		return c.NullsOrdering
	default:
		return false
	}
}

// ModeFor returns the support mode for an aggregate kind.
func (c Capabilities) ModeFor(kind string) SupportMode {
	switch kind {
	case AggListagg:
		return c.StringAggregation
	case AggPercentileDisc:
		return c.InverseDistribution
	case AggPercentRank:
		return c.HypotheticalSet
	default:
		return Unsupported
	}
}

// Override returns a copy with the named features overridden. Values are
// mode names for function families and booleans for syntax features.
func (c Capabilities) Override(overrides map[string]string) (Capabilities, error) {
	out := c
	for name, raw := range overrides {
		switch strings.ToLower(name) {
		case FeatureStringAggregation:
			m, err := ParseSupportMode(raw)
			if err != nil {
				return c, err
			}
			out.StringAggregation = m
		case FeatureInverseDistributionFunctions:
			m, err := ParseSupportMode(raw)
			if err != nil {
				return c, err
			}
			out.InverseDistribution = m
		case FeatureHypotheticalSetFunctions:
			m, err := ParseSupportMode(raw)
			if err != nil {
				return c, err
			}
			out.HypotheticalSet = m
		case FeatureAggregateFilter:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return c, fmt.Errorf("capability %s: %w", name, err)
			}
			out.AggregateFilter = b
		case FeatureNullsOrdering:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return c, fmt.Errorf("capability %s: %w", name, err)
			}
			out.NullsOrdering = b
		default:
			return c, fmt.Errorf("unknown capability %q", name)
		}
	}
	if err := out.Validate(); err != nil {
		return c, err
	}
	return out, nil
}

// Validate rejects modes that have no lowering: string aggregation is
// native or unsupported, and a hypothetical-set function cannot be
// evaluated through its window form.
func (c Capabilities) Validate() error {
	switch c.StringAggregation {
	case WindowOnly, Emulated:
		return fmt.Errorf("capability %s: mode %s is not available", FeatureStringAggregation, c.StringAggregation)
	}
	if c.HypotheticalSet == WindowOnly {
		return fmt.Errorf("capability %s: mode %s is not available", FeatureHypotheticalSetFunctions, c.HypotheticalSet)
	}
	return nil
}
