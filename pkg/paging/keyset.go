package paging

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/leapstack-labs/leapquery/pkg/token"
)

// KeyParamPrefix prefixes the names of synthetic key parameters. User
// parameters must not use it.
const KeyParamPrefix = "__key"

// KeyParam returns the synthetic parameter name of key position i.
func KeyParam(i int) string {
	return KeyParamPrefix + strconv.Itoa(i)
}

// IsKeyParam reports whether name is reserved for key parameters.
func IsKeyParam(name string) bool {
	return strings.HasPrefix(name, KeyParamPrefix)
}

// Term is an order term resolved against the root entity, with its null
// precedence made explicit.
type Term struct {
	Attribute  *core.Attribute
	Expr       core.Expr
	Desc       bool
	NullsFirst bool
	Nullable   bool
}

// Predicate builds the lexicographic keyset predicate selecting the rows
// that strictly follow key under terms:
//
//	(x1 > k1) OR (x1 = k1 AND x2 > k2) OR ... OR (x1 = k1 AND ... AND xn ⊳ kn)
//
// with > for ascending and < for descending terms. Nullable terms use
// null-aware forms that agree with the term's null precedence. Key values
// are referenced through KeyParam(i) parameters whose values are returned.
// A nil predicate means no row can follow.
func Predicate(terms []Term, key []any) (core.Expr, map[string]any) {
	params := make(map[string]any, len(key))
	var disjuncts []core.Expr

	for i := range terms {
		parts := make([]core.Expr, 0, i+1)
		for j := 0; j < i; j++ {
			parts = append(parts, equal(terms[j], key[j], j, params))
		}
		follow, ok := strictlyFollows(terms[i], key[i], i, params)
		if !ok {
			continue
		}
		parts = append(parts, follow)

		conj := core.And(parts...)
		if _, isParen := conj.(*core.ParenExpr); !isParen {
			conj = &core.ParenExpr{Expr: conj}
		}
		disjuncts = append(disjuncts, conj)
	}

	return core.Or(disjuncts...), params
}

func keyRef(i int, v any, params map[string]any) core.Expr {
	name := KeyParam(i)
	params[name] = v
	return &core.ParamRef{Name: name}
}

// equal matches rows whose term value equals the anchor value.
func equal(t Term, v any, i int, params map[string]any) core.Expr {
	if v == nil {
		return &core.IsNullExpr{Expr: t.Expr}
	}
	return &core.BinaryExpr{Left: t.Expr, Op: token.EQ, Right: keyRef(i, v, params)}
}

// strictlyFollows matches rows whose term value sorts strictly after the
// anchor value. It reports false when no value can follow.
func strictlyFollows(t Term, v any, i int, params map[string]any) (core.Expr, bool) {
	op := token.GT
	if t.Desc {
		op = token.LT
	}

	if v == nil {
		if t.NullsFirst {
			// every non-null value follows a leading NULL
			return &core.IsNullExpr{Expr: t.Expr, Not: true}, true
		}
		return nil, false
	}

	cmp := &core.BinaryExpr{Left: t.Expr, Op: op, Right: keyRef(i, v, params)}
	if t.Nullable && !t.NullsFirst {
		return core.Or(cmp, &core.IsNullExpr{Expr: t.Expr}), true
	}
	return cmp, true
}

// NullsResolver makes the null precedence of an order item explicit.
type NullsResolver interface {
	ResolveNulls(item core.OrderByItem) core.NullPrecedence
}

// Plan is the executable form of a keyed page request.
type Plan struct {
	// Query is the base query with the keyset predicate, ORDER BY and
	// lookahead limit applied. The base query is not modified.
	Query *core.Query
	// Params holds the synthetic key parameters.
	Params map[string]any
	Terms  []Term
	// Backward is set for previous-page requests; the fetched rows are in
	// reverse order.
	Backward bool
	// Fetch is the number of rows requested: page size plus one.
	Fetch int
}

// BuildPlan validates a keyed page request against the base query and
// produces the bounded follow-on query.
func BuildPlan(q *core.Query, entity *core.Entity, page KeyedPage, nulls NullsResolver) (*Plan, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	if len(q.OrderBy) > 0 {
		return nil, core.NewInvalidArgument("keyed page", "query must not contain ORDER BY; the order specification owns it")
	}
	if q.Limit != nil || q.Offset != nil {
		return nil, core.NewInvalidArgument("keyed page", "query must not contain LIMIT or OFFSET")
	}
	if !q.IsEntityProjection() {
		return nil, core.NewInvalidArgument("keyed page", "query must select the root entity")
	}

	backward := page.kind == KeyPrevious
	terms := make([]Term, 0, len(page.orders))
	items := make([]core.OrderByItem, 0, len(page.orders))

	for _, o := range page.orders {
		if o.entity != "" && !strings.EqualFold(o.entity, entity.Name) {
			return nil, &core.SchemaError{Entity: o.entity}
		}
		attr, ok := entity.Attribute(o.attribute)
		if !ok {
			return nil, &core.SchemaError{Entity: entity.Name, Attribute: o.attribute}
		}

		ref := &core.AttributeRef{Qualifier: q.From.Alias, Name: attr.Name}
		resolved := nulls.ResolveNulls(core.OrderByItem{Expr: ref, Desc: o.desc, Nulls: o.nulls})
		item := core.OrderByItem{Expr: ref, Desc: o.desc, Nulls: resolved}
		if backward {
			item.Desc = !item.Desc
			item.Nulls = item.Nulls.Reverse()
		}

		items = append(items, item)
		terms = append(terms, Term{
			Attribute:  attr,
			Expr:       ref,
			Desc:       item.Desc,
			NullsFirst: item.Nulls == core.NullsFirst,
			Nullable:   entity.Nullable(attr),
		})
	}

	plan := &Plan{
		Query:    q.Clone(),
		Params:   map[string]any{},
		Terms:    terms,
		Backward: backward,
		Fetch:    page.page.size + 1,
	}
	plan.Query.OrderBy = items
	plan.Query.Limit = &core.Literal{Type: core.LiteralNumber, Value: strconv.Itoa(plan.Fetch)}

	if page.kind != KeyFirst {
		pred, params := Predicate(terms, page.key)
		if pred == nil {
			// nothing can follow the anchor
			pred = &core.BinaryExpr{
				Left:  &core.Literal{Type: core.LiteralNumber, Value: "1"},
				Op:    token.EQ,
				Right: &core.Literal{Type: core.LiteralNumber, Value: "0"},
			}
		}
		plan.Query.Where = core.And(q.Where, pred)
		plan.Params = params
	}

	return plan, nil
}

// Key projects a row's attribute values onto the plan's terms.
func (p *Plan) Key(get func(attr *core.Attribute) (any, error)) ([]any, error) {
	key := make([]any, len(p.Terms))
	for i, t := range p.Terms {
		v, err := get(t.Attribute)
		if err != nil {
			return nil, fmt.Errorf("reading key attribute %s: %w", t.Attribute.Name, err)
		}
		key[i] = v
	}
	return key, nil
}
