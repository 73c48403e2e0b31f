package sqlserver

import (
	"github.com/leapstack-labs/leapquery/pkg/dialect"
)

func init() {
	dialect.Register(SQLServer)
}

var sqlserverReservedWords = []string{
	"add", "all", "alter", "and", "any", "as", "asc", "authorization",
	"backup", "begin", "between", "break", "browse", "bulk", "by", "cascade",
	"case", "check", "checkpoint", "close", "clustered", "coalesce",
	"collate", "column", "commit", "compute", "constraint", "contains",
	"continue", "convert", "create", "cross", "current", "cursor",
	"database", "default", "delete", "deny", "desc", "distinct", "drop",
	"else", "end", "escape", "except", "exec", "execute", "exists", "fetch",
	"file", "for", "foreign", "from", "full", "function", "goto", "grant",
	"group", "having", "identity", "if", "in", "index", "inner", "insert",
	"intersect", "into", "is", "join", "key", "kill", "left", "like",
	"merge", "national", "not", "null", "nullif", "of", "off", "offsets",
	"on", "open", "option", "or", "order", "outer", "over", "percent",
	"pivot", "plan", "primary", "print", "proc", "procedure", "public",
	"read", "references", "return", "revoke", "right", "rollback", "rule",
	"save", "schema", "select", "set", "some", "table", "then", "to", "top",
	"tran", "transaction", "trigger", "union", "unique", "unpivot", "update",
	"use", "user", "values", "view", "when", "where", "while", "with",
}

// SQLServer is the SQL Server dialect.
var SQLServer = dialect.New(Config).
	WithReservedWords(sqlserverReservedWords...).
	Build()
