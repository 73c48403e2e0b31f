// Package dialect provides the runtime view of a SQL dialect: its
// capability record, placeholder and identifier rules, and default null
// ordering.
//
// Concrete dialects are declared as pure data in pkg/dialects/*/ packages
// and registered here from their init() functions. The translator only
// ever asks a Dialect questions; it never switches on the dialect name.
package dialect

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapquery/pkg/core"
)

// Dialect represents a SQL dialect configuration.
type Dialect struct {
	Name        string
	Identifiers core.IdentifierConfig

	Placeholder  core.PlaceholderStyle // How to format query parameters
	Limit        core.LimitStyle       // How to render a row limit
	StringAgg    core.StringAggStyle   // How listagg is lowered
	NullOrdering core.NullOrdering     // Default NULL placement

	StringType string
	DoubleType string
	BoolAsInt  bool
	// ConcatFunction renders || as CONCAT(a, b)
	ConcatFunction bool

	capabilities  core.Capabilities
	reservedWords map[string]struct{}
}

// Config returns the pure data configuration for this dialect.
func (d *Dialect) Config() *core.DialectConfig {
	words := make([]string, 0, len(d.reservedWords))
	for w := range d.reservedWords {
		words = append(words, w)
	}
	return &core.DialectConfig{
		Name:           d.Name,
		Identifiers:    d.Identifiers,
		Placeholder:    d.Placeholder,
		Limit:          d.Limit,
		StringAgg:      d.StringAgg,
		NullOrdering:   d.NullOrdering,
		Capabilities:   d.capabilities,
		StringType:     d.StringType,
		DoubleType:     d.DoubleType,
		BoolAsInt:      d.BoolAsInt,
		ConcatFunction: d.ConcatFunction,
		ReservedWords:  words,
	}
}

// GetName returns the dialect name.
func (d *Dialect) GetName() string {
	return d.Name
}

// ---------- Capability Oracle ----------

// Capabilities returns the dialect's capability record.
func (d *Dialect) Capabilities() core.Capabilities {
	return d.capabilities
}

// Supports answers a capability query by feature name.
func (d *Dialect) Supports(feature string) bool {
	return d.capabilities.Supports(feature)
}

// SupportsStringAggregation reports whether listagg can be translated.
func (d *Dialect) SupportsStringAggregation() bool {
	return d.Supports(core.FeatureStringAggregation)
}

// SupportsInverseDistributionFunctions reports whether percentile_disc can be translated.
func (d *Dialect) SupportsInverseDistributionFunctions() bool {
	return d.Supports(core.FeatureInverseDistributionFunctions)
}

// SupportsHypotheticalSetFunctions reports whether percent_rank can be translated.
func (d *Dialect) SupportsHypotheticalSetFunctions() bool {
	return d.Supports(core.FeatureHypotheticalSetFunctions)
}

// SupportsAggregateFilter reports native FILTER (WHERE ...) support.
func (d *Dialect) SupportsAggregateFilter() bool {
	return d.Supports(core.FeatureAggregateFilter)
}

// SupportsNullsOrdering reports NULLS FIRST / NULLS LAST support.
func (d *Dialect) SupportsNullsOrdering() bool {
	return d.Supports(core.FeatureNullsOrdering)
}

// Mode returns how the dialect expresses an aggregate kind.
func (d *Dialect) Mode(kind string) core.SupportMode {
	return d.capabilities.ModeFor(kind)
}

// NullsFirstFor reports whether the database puts NULLs first for the
// given direction when no explicit precedence is rendered.
func (d *Dialect) NullsFirstFor(desc bool) bool {
	return d.NullOrdering.NullsFirstFor(desc)
}

// WithCapabilities returns a copy of the dialect with the named
// capabilities overridden. The receiver is not modified.
func (d *Dialect) WithCapabilities(overrides map[string]string) (*Dialect, error) {
	if len(overrides) == 0 {
		return d, nil
	}
	caps, err := d.capabilities.Override(overrides)
	if err != nil {
		return nil, core.NewInvalidArgument("dialect "+d.Name, err.Error())
	}
	clone := *d
	clone.capabilities = caps
	return &clone, nil
}

// ---------- Identifiers and Placeholders ----------

// NormalizeName normalizes an identifier according to dialect rules.
func (d *Dialect) NormalizeName(name string) string {
	switch d.Identifiers.Normalization {
	case core.NormUppercase:
		return strings.ToUpper(name)
	default:
		return strings.ToLower(name)
	}
}

// FormatPlaceholder returns the placeholder for the 1-based parameter index.
func (d *Dialect) FormatPlaceholder(index int) string {
	switch d.Placeholder {
	case core.PlaceholderDollar:
		return "$" + strconv.Itoa(index)
	case core.PlaceholderAtP:
		return "@p" + strconv.Itoa(index)
	case core.PlaceholderColon:
		return ":" + strconv.Itoa(index)
	default: // PlaceholderQuestion
		return "?"
	}
}

// IsReservedWord returns true if the word needs quoting when used as an identifier.
func (d *Dialect) IsReservedWord(word string) bool {
	_, ok := d.reservedWords[strings.ToLower(word)]
	return ok
}

// QuoteIdentifier quotes an identifier using the dialect's quote characters.
func (d *Dialect) QuoteIdentifier(name string) string {
	// Escape any existing quote end characters in the name (e.g., ] -> ]])
	escaped := strings.ReplaceAll(name, d.Identifiers.QuoteEnd, d.Identifiers.Escape)
	return d.Identifiers.Quote + escaped + d.Identifiers.QuoteEnd
}

// QuoteIdentifierIfNeeded quotes an identifier only if it's a reserved word
// or not a plain identifier.
func (d *Dialect) QuoteIdentifierIfNeeded(name string) string {
	if d.IsReservedWord(name) || !isPlainIdentifier(name) {
		return d.QuoteIdentifier(name)
	}
	return name
}

func isPlainIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// ---------- Builder ----------

// Builder provides a fluent API for constructing dialects.
type Builder struct {
	dialect *Dialect
}

// NewDialect starts a dialect with ANSI defaults and no capabilities.
func NewDialect(name string) *Builder {
	return New(&core.DialectConfig{
		Name: name,
		Identifiers: core.IdentifierConfig{
			Quote:    `"`,
			QuoteEnd: `"`,
			Escape:   `""`,
		},
		StringType: "varchar",
		DoubleType: "double precision",
	})
}

// New starts a dialect from its data configuration.
func New(cfg *core.DialectConfig) *Builder {
	b := &Builder{
		dialect: &Dialect{
			Name:           cfg.Name,
			Identifiers:    cfg.Identifiers,
			Placeholder:    cfg.Placeholder,
			Limit:          cfg.Limit,
			StringAgg:      cfg.StringAgg,
			NullOrdering:   cfg.NullOrdering,
			StringType:     cfg.StringType,
			DoubleType:     cfg.DoubleType,
			BoolAsInt:      cfg.BoolAsInt,
			ConcatFunction: cfg.ConcatFunction,
			capabilities:   cfg.Capabilities,
			reservedWords:  make(map[string]struct{}),
		},
	}
	return b.WithReservedWords(cfg.ReservedWords...)
}

// Identifiers configures identifier quoting and normalization.
func (b *Builder) Identifiers(quote, quoteEnd, escape string, norm core.NormalizationStrategy) *Builder {
	b.dialect.Identifiers = core.IdentifierConfig{
		Quote:         quote,
		QuoteEnd:      quoteEnd,
		Escape:        escape,
		Normalization: norm,
	}
	return b
}

// PlaceholderStyle sets the parameter placeholder style.
func (b *Builder) PlaceholderStyle(style core.PlaceholderStyle) *Builder {
	b.dialect.Placeholder = style
	return b
}

// LimitStyle sets how row limits are rendered.
func (b *Builder) LimitStyle(style core.LimitStyle) *Builder {
	b.dialect.Limit = style
	return b
}

// StringAggStyle sets the listagg lowering.
func (b *Builder) StringAggStyle(style core.StringAggStyle) *Builder {
	b.dialect.StringAgg = style
	return b
}

// DefaultNullOrdering sets where NULLs sort without an explicit precedence.
func (b *Builder) DefaultNullOrdering(o core.NullOrdering) *Builder {
	b.dialect.NullOrdering = o
	return b
}

// Capabilities replaces the capability record.
func (b *Builder) Capabilities(c core.Capabilities) *Builder {
	b.dialect.capabilities = c
	return b
}

// WithReservedWords adds words that must be quoted as identifiers.
func (b *Builder) WithReservedWords(words ...string) *Builder {
	for _, w := range words {
		b.dialect.reservedWords[strings.ToLower(w)] = struct{}{}
	}
	return b
}

// Build returns the constructed dialect.
func (b *Builder) Build() *Dialect {
	return b.dialect
}
