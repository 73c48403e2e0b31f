package postgres

import (
	"github.com/leapstack-labs/leapquery/pkg/dialect"
)

func init() {
	dialect.Register(Postgres)
}

// postgresReservedWords contains common PostgreSQL reserved words.
// This is a manually maintained list of frequently problematic identifiers.
var postgresReservedWords = []string{
	"user", "order", "group", "table", "select", "from", "where", "index",
	"all", "and", "any", "array", "as", "asc", "authorization", "between",
	"binary", "both", "case", "cast", "check", "collate", "column",
	"constraint", "create", "cross", "current_date", "current_role",
	"current_time", "current_timestamp", "current_user", "default", "desc",
	"distinct", "do", "else", "end", "except", "false", "fetch", "for",
	"foreign", "full", "grant", "having", "ilike", "in", "inner", "intersect",
	"into", "is", "join", "lateral", "leading", "left", "like", "limit",
	"natural", "not", "null", "offset", "on", "only", "or", "outer",
	"primary", "references", "returning", "right", "some", "then", "to",
	"trailing", "true", "union", "unique", "using", "when", "window", "with",
}

// Postgres is the PostgreSQL dialect.
var Postgres = dialect.New(Config).
	WithReservedWords(postgresReservedWords...).
	Build()
