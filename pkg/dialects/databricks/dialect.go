package databricks

import (
	"github.com/leapstack-labs/leapquery/pkg/dialect"
)

func init() {
	dialect.Register(Databricks)
}

var databricksReservedWords = []string{
	"all", "alter", "and", "anti", "any", "as", "authorization", "between",
	"both", "by", "case", "cast", "check", "collate", "column", "constraint",
	"create", "cross", "cube", "current", "current_date", "current_time",
	"current_timestamp", "current_user", "delete", "describe", "distinct",
	"drop", "else", "end", "escape", "except", "exists", "external",
	"false", "fetch", "filter", "for", "foreign", "from", "full", "function",
	"global", "grant", "group", "grouping", "having", "in", "inner",
	"insert", "intersect", "interval", "into", "is", "join", "lateral",
	"leading", "left", "like", "local", "minus", "natural", "not", "null",
	"of", "on", "only", "or", "order", "outer", "overlaps", "partition",
	"primary", "qualify", "range", "references", "revoke", "right",
	"rollup", "row", "rows", "select", "semi", "set", "some", "table",
	"then", "to", "trailing", "true", "union", "unique", "unknown",
	"update", "user", "using", "values", "when", "where", "window", "with",
}

// Databricks is the Databricks SQL dialect.
var Databricks = dialect.New(Config).
	WithReservedWords(databricksReservedWords...).
	Build()
