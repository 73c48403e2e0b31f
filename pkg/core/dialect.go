package core

// DialectConfig holds the static configuration for a SQL dialect.
// This is pure data; the runtime behaviour (capability lookups, placeholder
// formatting, quoting) lives in pkg/dialect.Dialect, which is built from it.
type DialectConfig struct {
	// Name is the dialect identifier (e.g., "postgres", "sqlite")
	Name string

	// Identifiers defines quoting and normalization rules
	Identifiers IdentifierConfig

	// Placeholder defines how query parameters are formatted
	Placeholder PlaceholderStyle

	// Limit defines how row limits are rendered
	Limit LimitStyle

	// StringAgg selects the lowering of listagg
	StringAgg StringAggStyle

	// NullOrdering is where the database sorts NULLs when no NULLS
	// FIRST/LAST is given
	NullOrdering NullOrdering

	// Capabilities is the capability record consulted by the translator
	Capabilities Capabilities

	// StringType and DoubleType are the cast targets used by lowerings
	StringType string
	DoubleType string

	// BoolAsInt renders TRUE/FALSE literals as 1/0
	BoolAsInt bool

	// ConcatFunction renders a || b as CONCAT(a, b)
	ConcatFunction bool

	// ReservedWords need quoting when used as identifiers
	ReservedWords []string
}

// NormalizationStrategy defines how unquoted identifiers are normalized.
type NormalizationStrategy int

const (
	// NormLowercase normalizes unquoted identifiers to lowercase (default SQL behavior).
	NormLowercase NormalizationStrategy = iota
	// NormUppercase normalizes unquoted identifiers to uppercase (Oracle).
	NormUppercase
	// NormCaseInsensitive compares identifiers without regard to case (SQLite, MySQL, SQL Server).
	NormCaseInsensitive
)

// IdentifierConfig defines how identifiers are quoted and normalized.
type IdentifierConfig struct {
	Quote         string                // Quote character: ", `, [
	QuoteEnd      string                // End quote character (usually same as Quote, ] for [)
	Escape        string                // Escape sequence: "", ``, ]]
	Normalization NormalizationStrategy // How to normalize unquoted identifiers
}

// PlaceholderStyle defines how query parameters are formatted.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for all parameters (DuckDB, MySQL, SQLite).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, etc. (PostgreSQL).
	PlaceholderDollar
	// PlaceholderAtP uses @p1, @p2, etc. (SQL Server).
	PlaceholderAtP
	// PlaceholderColon uses :1, :2, etc. (Oracle).
	PlaceholderColon
)

// LimitStyle defines how a row limit is appended to a query.
type LimitStyle int

const (
	// LimitClause appends LIMIT n.
	LimitClause LimitStyle = iota
	// LimitFetchFirst appends FETCH FIRST n ROWS ONLY.
	LimitFetchFirst
	// LimitOffsetFetch appends OFFSET m ROWS FETCH NEXT n ROWS ONLY; the
	// OFFSET part is mandatory.
	LimitOffsetFetch
)

// StringAggStyle selects how listagg is rendered.
type StringAggStyle int

const (
	// StringAggListagg renders LISTAGG(e, sep) WITHIN GROUP (ORDER BY ...).
	StringAggListagg StringAggStyle = iota
	// StringAggInline renders STRING_AGG(e, sep ORDER BY ...).
	StringAggInline
	// StringAggWithinGroup renders STRING_AGG(e, sep) WITHIN GROUP (ORDER BY ...).
	StringAggWithinGroup
	// StringAggGroupConcat renders GROUP_CONCAT(e ORDER BY ... SEPARATOR sep).
	StringAggGroupConcat
	// StringAggGroupConcatInline renders GROUP_CONCAT(e, sep ORDER BY ...).
	StringAggGroupConcatInline
)

// NullOrdering describes where a database sorts NULLs by default.
type NullOrdering int

const (
	// NullsHigh sorts NULL as larger than any value: last ascending, first descending.
	NullsHigh NullOrdering = iota
	// NullsLow sorts NULL as smaller than any value: first ascending, last descending.
	NullsLow
	// NullsAlwaysFirst sorts NULLs first in both directions.
	NullsAlwaysFirst
	// NullsAlwaysLast sorts NULLs last in both directions.
	NullsAlwaysLast
)

// NullsFirstFor reports whether NULLs come first for the given direction.
func (o NullOrdering) NullsFirstFor(desc bool) bool {
	switch o {
	case NullsHigh:
		return desc
	case NullsLow:
		return !desc
	case NullsAlwaysFirst:
		return true
	default:
		return false
	}
}

// String returns a short description used by the dialects listing.
func (o NullOrdering) String() string {
	switch o {
	case NullsHigh:
		return "high"
	case NullsLow:
		return "low"
	case NullsAlwaysFirst:
		return "first"
	case NullsAlwaysLast:
		return "last"
	default:
		return "unknown"
	}
}
