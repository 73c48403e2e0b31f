package sqlite

import (
	"github.com/leapstack-labs/leapquery/pkg/dialect"
)

func init() {
	dialect.Register(SQLite)
}

var sqliteReservedWords = []string{
	"abort", "add", "all", "alter", "and", "as", "asc", "between", "by",
	"case", "cast", "check", "collate", "column", "commit", "constraint",
	"create", "cross", "default", "delete", "desc", "distinct", "drop",
	"else", "end", "escape", "except", "exists", "filter", "foreign", "from",
	"full", "glob", "group", "having", "in", "index", "inner", "insert",
	"intersect", "into", "is", "isnull", "join", "left", "like", "limit",
	"match", "natural", "not", "notnull", "null", "offset", "on", "or",
	"order", "outer", "over", "primary", "references", "regexp", "right",
	"select", "set", "table", "then", "to", "union", "unique", "update",
	"using", "values", "when", "where", "window", "with",
}

// SQLite is the SQLite dialect.
var SQLite = dialect.New(Config).
	WithReservedWords(sqliteReservedWords...).
	Build()
