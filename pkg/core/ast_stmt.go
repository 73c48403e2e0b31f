package core

import (
	"fmt"
	"strings"
)

// ---------- Statement Types ----------

// Query is a parsed entity query:
//
//	[SELECT [DISTINCT] items] FROM Entity [[AS] alias] [WHERE expr]
//	[GROUP BY exprs] [HAVING expr] [ORDER BY items] [LIMIT n] [OFFSET n]
//
// A query without a SELECT clause projects the root entity.
type Query struct {
	NodeInfo
	Distinct bool
	Select   []SelectItem // nil means entity projection
	From     EntityRef
	Where    Expr
	GroupBy  []Expr
	Having   Expr
	OrderBy  []OrderByItem
	Limit    Expr
	Offset   Expr
}

// EntityRef names the root entity of a query.
type EntityRef struct {
	NodeInfo
	Entity string
	Alias  string
}

// SelectItem represents an item in the SELECT list.
type SelectItem struct {
	Expr  Expr
	Alias string
}

// OrderByItem represents an item in an ORDER BY or WITHIN GROUP list.
type OrderByItem struct {
	Expr  Expr
	Desc  bool
	Nulls NullPrecedence
}

// NullPrecedence selects where NULLs sort relative to non-null values.
type NullPrecedence int

// NullPrecedence values.
const (
	NullsDefault NullPrecedence = iota
	NullsFirst
	NullsLast
)

// String returns the configuration spelling of the precedence.
func (n NullPrecedence) String() string {
	switch n {
	case NullsFirst:
		return "NULLS_FIRST"
	case NullsLast:
		return "NULLS_LAST"
	default:
		return "DEFAULT"
	}
}

// ParseNullPrecedence parses NULLS_FIRST, NULLS_LAST or DEFAULT, ignoring
// case and accepting a space for the underscore. Empty means DEFAULT.
func ParseNullPrecedence(s string) (NullPrecedence, error) {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", "_")) {
	case "", "DEFAULT":
		return NullsDefault, nil
	case "NULLS_FIRST", "FIRST":
		return NullsFirst, nil
	case "NULLS_LAST", "LAST":
		return NullsLast, nil
	}
	return NullsDefault, fmt.Errorf("unknown null precedence %q", s)
}

// Reverse swaps FIRST and LAST.
func (n NullPrecedence) Reverse() NullPrecedence {
	switch n {
	case NullsFirst:
		return NullsLast
	case NullsLast:
		return NullsFirst
	default:
		return NullsDefault
	}
}

// IsEntityProjection reports whether the query selects the root entity
// itself rather than scalar values.
func (q *Query) IsEntityProjection() bool {
	if len(q.Select) == 0 {
		return true
	}
	if len(q.Select) != 1 {
		return false
	}
	switch e := q.Select[0].Expr.(type) {
	case *AttributeRef:
		return e.Qualifier == "" && e.Name == q.From.Alias
	case *StarExpr:
		return e.Qualifier == "" || e.Qualifier == q.From.Alias
	}
	return false
}

// Clone returns a shallow copy of the query whose clause slices can be
// replaced without affecting the original. Expressions are shared and must
// be treated as immutable.
func (q *Query) Clone() *Query {
	c := *q
	c.Select = append([]SelectItem(nil), q.Select...)
	c.GroupBy = append([]Expr(nil), q.GroupBy...)
	c.OrderBy = append([]OrderByItem(nil), q.OrderBy...)
	return &c
}
