// Package browse runs ad-hoc entity queries for the CLI and the HTTP
// server. Results come back as column-ordered rows so callers can render
// them without knowing the entity up front.
package browse

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/leapstack-labs/leapquery/pkg/mapping"
	"github.com/leapstack-labs/leapquery/pkg/paging"
	"github.com/leapstack-labs/leapquery/pkg/session"
)

// Result is a query result ready for rendering.
type Result struct {
	Columns []string
	Rows    [][]any
}

// Records keys each row by column name.
func (r *Result) Records() []map[string]any {
	out := make([]map[string]any, len(r.Rows))
	for i, row := range r.Rows {
		m := make(map[string]any, len(r.Columns))
		for j, c := range r.Columns {
			m[c] = row[j]
		}
		out[i] = m
	}
	return out
}

// Run executes hql in s. Entity projections read configured entities as
// records; other projections read tuples.
func Run(ctx context.Context, s *session.Session, hql string, params map[string]any) (*Result, error) {
	stmt, err := s.Factory().Translate(hql)
	if err != nil {
		return nil, err
	}

	if stmt.EntityProjection {
		q := session.Select[mapping.Record](s, hql)
		bind(q, params)
		recs, err := q.List(ctx)
		if err != nil {
			return nil, err
		}
		return recordRows(stmt.Entity, recs), nil
	}

	q := session.Select[[]any](s, hql)
	bind(q, params)
	tuples, err := q.List(ctx)
	if err != nil {
		return nil, err
	}
	res := &Result{Rows: tuples}
	for _, c := range stmt.Columns {
		res.Columns = append(res.Columns, c.Name)
	}
	return res, nil
}

func bind[T any](q *session.SelectionQuery[T], params map[string]any) {
	for k, v := range params {
		q.SetParameter(k, v)
	}
}

// recordRows lays records out in attribute order.
func recordRows(e *core.Entity, recs []mapping.Record) *Result {
	res := &Result{Columns: make([]string, len(e.Attributes)), Rows: make([][]any, len(recs))}
	for i, a := range e.Attributes {
		res.Columns[i] = a.Name
	}
	for i, r := range recs {
		row := make([]any, len(e.Attributes))
		for j, a := range e.Attributes {
			row[j] = r[a.Name]
		}
		res.Rows[i] = row
	}
	return res
}

// PageRequest selects one keyset page of an entity query.
type PageRequest struct {
	HQL    string
	Params map[string]any
	// Order is a ParseOrders spec; ignored when Cursor is set.
	Order  string
	Size   int
	Cursor string
	// MaxSize, when positive, bounds the page size, including the size a
	// cursor carries.
	MaxSize int
}

// PageResult is one page plus the cursors around it. Empty cursors mean
// there is no page in that direction.
type PageResult struct {
	Result
	Number         int    `json:"page"`
	NextCursor     string `json:"next_cursor,omitempty"`
	PreviousCursor string `json:"previous_cursor,omitempty"`
}

// Page runs a keyset-paginated entity query. Without a cursor the first
// page of req.Size rows is read; the factory page size applies when Size
// is zero.
func Page(ctx context.Context, s *session.Session, req PageRequest) (*PageResult, error) {
	var page paging.KeyedPage
	if req.Cursor != "" {
		p, err := paging.DecodeKeyedPage(req.Cursor)
		if err != nil {
			return nil, err
		}
		page = p
	} else {
		q, err := s.Factory().Parse(req.HQL)
		if err != nil {
			return nil, err
		}
		spec := req.Order
		if spec == "" {
			// Default to the identifier so every page is deterministic.
			e, ok := s.Entity(q.From.Entity)
			if !ok {
				return nil, &core.SchemaError{Entity: q.From.Entity}
			}
			spec = e.ID
		}
		orders, err := paging.ParseOrders(q.From.Entity, spec)
		if err != nil {
			return nil, err
		}
		size := req.Size
		if size == 0 {
			size = s.Factory().PageSize()
		}
		page = paging.First(size).KeyedBy(orders...)
	}
	if req.MaxSize > 0 && page.Page().Size() > req.MaxSize {
		return nil, core.NewInvalidArgument("size", fmt.Sprintf("must be between 1 and %d", req.MaxSize))
	}

	q := session.Select[mapping.Record](s, req.HQL)
	bind(q, req.Params)
	stmt, err := q.Statement()
	if err != nil {
		return nil, err
	}
	if !stmt.EntityProjection {
		return nil, core.NewInvalidArgument("page", "keyset pages need an entity projection")
	}
	list, err := q.KeyedResultList(ctx, page)
	if err != nil {
		return nil, err
	}

	res := &PageResult{
		Result: *recordRows(stmt.Entity, list.Rows()),
		Number: list.Page().Page().Number(),
	}
	if next := list.NextPage(); next != nil {
		if res.NextCursor, err = next.Encode(); err != nil {
			return nil, err
		}
	}
	if prev := list.PreviousPage(); prev != nil {
		if res.PreviousCursor, err = prev.Encode(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// ParseParam types a textual parameter value: integers, floats, booleans
// and ISO dates are recognized, anything else stays a string. Quoting the
// value ('42') forces a string.
func ParseParam(s string) any {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return s[1 : len(s)-1]
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return s
}

// ParseParams types every value of a name=value map.
func ParseParams(raw map[string]string) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		out[strings.TrimPrefix(k, ":")] = ParseParam(v)
	}
	return out
}
