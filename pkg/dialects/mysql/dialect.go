package mysql

import (
	"github.com/leapstack-labs/leapquery/pkg/dialect"
)

func init() {
	dialect.Register(MySQL)
}

var mysqlReservedWords = []string{
	"add", "all", "alter", "and", "as", "asc", "between", "by", "case",
	"change", "check", "column", "condition", "constraint", "create",
	"cross", "database", "default", "delete", "desc", "describe", "distinct",
	"div", "drop", "else", "exists", "false", "fetch", "for", "foreign",
	"from", "group", "having", "in", "index", "inner", "insert", "interval",
	"into", "is", "join", "key", "keys", "left", "like", "limit", "lock",
	"match", "mod", "natural", "not", "null", "on", "or", "order", "outer",
	"primary", "rank", "references", "regexp", "right", "rows", "schema",
	"select", "separator", "set", "show", "table", "then", "to", "true",
	"union", "unique", "update", "use", "using", "values", "when", "where",
	"window", "with",
}

// MySQL is the MySQL dialect.
var MySQL = dialect.New(Config).
	WithReservedWords(mysqlReservedWords...).
	Build()
