package session

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/leapstack-labs/leapquery/pkg/paging"
	"github.com/leapstack-labs/leapquery/pkg/translate"
)

// SelectionQuery is a query whose results are read as T: a mapped entity
// type, mapping.Record, a scalar (string, int, int64, float64, bool,
// time.Time, any) or []any for tuples.
type SelectionQuery[T any] struct {
	s      *Session
	hql    string
	query  *core.Query
	params map[string]any
	err    error
}

// Select creates a query. Parse errors surface when it runs.
func Select[T any](s *Session, hql string) *SelectionQuery[T] {
	q := &SelectionQuery[T]{s: s, hql: hql, params: map[string]any{}}
	q.query, q.err = s.f.Parse(hql)
	return q
}

// SetParameter binds a named parameter. The name may carry its leading
// colon. Names that the query does not use are rejected, as are names in
// the reserved key-parameter namespace.
func (q *SelectionQuery[T]) SetParameter(name string, value any) *SelectionQuery[T] {
	if q.err != nil {
		return q
	}
	name = strings.TrimPrefix(name, ":")
	if paging.IsKeyParam(name) {
		q.err = core.NewInvalidArgument("parameter",
			fmt.Sprintf("parameter :%s uses the reserved prefix %s", name, paging.KeyParamPrefix))
		return q
	}
	found := false
	for _, p := range core.ParamNames(q.query) {
		if p == name {
			found = true
			break
		}
	}
	if !found {
		q.err = core.NewInvalidArgument("parameter", fmt.Sprintf("query has no parameter :%s", name))
		return q
	}
	q.params[name] = value
	return q
}

// Statement translates the query without running it.
func (q *SelectionQuery[T]) Statement() (*translate.Statement, error) {
	if q.err != nil {
		return nil, q.err
	}
	return q.s.f.translator.Translate(q.query)
}

// List runs the query and returns every row.
func (q *SelectionQuery[T]) List(ctx context.Context) ([]T, error) {
	stmt, err := q.Statement()
	if err != nil {
		return nil, err
	}
	return q.run(ctx, stmt, q.params, nil)
}

// SingleResult runs the query and returns its only row. No row, or more
// than one, is an error.
func (q *SelectionQuery[T]) SingleResult(ctx context.Context) (T, error) {
	var zero T
	rows, err := q.List(ctx)
	if err != nil {
		return zero, err
	}
	if len(rows) != 1 {
		return zero, core.NewInvalidArgument("single result", fmt.Sprintf("query returned %d rows", len(rows)))
	}
	return rows[0], nil
}

// KeyedResultList runs one keyed page of the query. The query must select
// its root entity and must not carry ORDER BY, LIMIT or OFFSET: the page's
// order specification and size own those. A continuation token resumes
// strictly after (or, for previous pages, before) the key it carries.
func (q *SelectionQuery[T]) KeyedResultList(ctx context.Context, page paging.KeyedPage) (*paging.KeyedResultList[T], error) {
	if q.err != nil {
		return nil, q.err
	}
	f := q.s.f
	entity, ok := f.models.Entity(q.query.From.Entity)
	if !ok {
		return nil, &core.SchemaError{Entity: q.query.From.Entity}
	}
	plan, err := paging.BuildPlan(q.query, entity, page, f.translator)
	if err != nil {
		return nil, err
	}
	stmt, err := f.translator.Translate(plan.Query)
	if err != nil {
		return nil, err
	}

	params := maps.Clone(q.params)
	maps.Copy(params, plan.Params)

	var keys [][]any
	kr := newKeyReader(stmt)
	rows, err := q.run(ctx, stmt, params, func(raw []any) error {
		key, err := plan.Key(func(a *core.Attribute) (any, error) { return kr.value(raw, a) })
		if err != nil {
			return err
		}
		keys = append(keys, key)
		return nil
	})
	if err != nil {
		return nil, err
	}

	q.s.logger.Debug("keyed page",
		"entity", entity.Name,
		"page", page.Page().Number(),
		"kind", page.Kind().String(),
		"fetched", len(rows))
	return paging.NewKeyedResultList(page, plan, rows, keys), nil
}

// run executes stmt and materializes each row; onRow sees the raw values.
func (q *SelectionQuery[T]) run(ctx context.Context, stmt *translate.Statement, params map[string]any, onRow func([]any) error) ([]T, error) {
	mat, err := newMaterializer[T](q.s.f.models, stmt)
	if err != nil {
		return nil, err
	}
	rs, err := q.s.fetch(ctx, stmt, params)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(rs.rows))
	for _, raw := range rs.rows {
		v, err := mat.row(raw)
		if err != nil {
			return nil, err
		}
		if onRow != nil {
			if err := onRow(raw); err != nil {
				return nil, err
			}
		}
		out = append(out, v)
	}
	return out, nil
}
