package ansi

import (
	"github.com/leapstack-labs/leapquery/pkg/dialect"
)

func init() {
	dialect.Register(ANSI)
}

var ansiReservedWords = []string{
	"all", "allocate", "alter", "and", "any", "are", "array", "as",
	"asymmetric", "at", "authorization", "between", "both", "by", "call",
	"called", "cascaded", "case", "cast", "check", "close", "collate",
	"column", "commit", "connect", "constraint", "create", "cross", "cube",
	"current", "cursor", "cycle", "day", "deallocate", "declare", "default",
	"delete", "describe", "deterministic", "disconnect", "distinct", "drop",
	"else", "end", "escape", "except", "exec", "execute", "exists",
	"external", "false", "fetch", "filter", "for", "foreign", "from",
	"full", "function", "get", "global", "grant", "group", "grouping",
	"having", "hold", "hour", "in", "inner", "insert", "intersect",
	"interval", "into", "is", "join", "lateral", "leading", "left", "like",
	"local", "match", "merge", "minute", "month", "natural", "new", "no",
	"none", "not", "null", "of", "offset", "old", "on", "only", "open",
	"or", "order", "outer", "over", "overlaps", "partition", "primary",
	"range", "references", "revoke", "right", "rollback", "rollup", "row",
	"rows", "second", "select", "set", "similar", "some", "start", "table",
	"then", "to", "trailing", "trigger", "true", "union", "unique",
	"unknown", "update", "user", "using", "values", "when", "where",
	"window", "with", "within", "without", "year",
}

// ANSI is the base SQL dialect.
var ANSI = dialect.New(Config).
	WithReservedWords(ansiReservedWords...).
	Build()
