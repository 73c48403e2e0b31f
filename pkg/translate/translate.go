// Package translate lowers parsed entity queries to dialect SQL.
//
// The translator resolves entity and attribute references against an
// entity resolver, maps named parameters to the dialect's positional
// placeholders and lowers the ordered-set aggregates (listagg,
// percentile_disc, percent_rank) according to the dialect's capability
// record. It never switches on the dialect name.
package translate

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/leapstack-labs/leapquery/pkg/dialect"
)

// Translator turns queries into Statements for one dialect.
// It is immutable and safe for concurrent use.
type Translator struct {
	dialect  *dialect.Dialect
	entities core.EntityResolver
	nulls    core.NullPrecedence
	logger   *slog.Logger
}

// Option configures a Translator.
type Option func(*Translator)

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(t *Translator) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithDefaultNulls sets the null precedence applied to ORDER BY items
// that do not specify one (the order.nulls option).
func WithDefaultNulls(n core.NullPrecedence) Option {
	return func(t *Translator) {
		t.nulls = n
	}
}

// New creates a Translator.
func New(d *dialect.Dialect, entities core.EntityResolver, opts ...Option) *Translator {
	t := &Translator{
		dialect:  d,
		entities: entities,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Dialect returns the target dialect.
func (t *Translator) Dialect() *dialect.Dialect {
	return t.dialect
}

// ResolveNulls returns the effective null precedence of an order item:
// its own setting, then the configured default, then the dialect's
// intrinsic ordering. The result is always NullsFirst or NullsLast.
func (t *Translator) ResolveNulls(item core.OrderByItem) core.NullPrecedence {
	if n := t.preferredNulls(item); n != core.NullsDefault {
		return n
	}
	if t.dialect.NullsFirstFor(item.Desc) {
		return core.NullsFirst
	}
	return core.NullsLast
}

func (t *Translator) preferredNulls(item core.OrderByItem) core.NullPrecedence {
	if item.Nulls != core.NullsDefault {
		return item.Nulls
	}
	return t.nulls
}

// Translate lowers a query. Invalid references and unsupported
// aggregates are returned as errors before any SQL is produced.
func (t *Translator) Translate(q *core.Query) (*Statement, error) {
	entity, ok := t.entities.Entity(q.From.Entity)
	if !ok {
		return nil, &core.SchemaError{Entity: q.From.Entity}
	}

	p := newPrinter(t, entity, q)
	p.formatQuery()
	if p.err != nil {
		return nil, p.err
	}

	stmt := &Statement{
		SQL:              p.String(),
		Params:           p.params,
		Entity:           entity,
		EntityProjection: q.IsEntityProjection(),
		Columns:          p.columns,
		boolAsInt:        t.dialect.BoolAsInt,
	}
	t.logger.Debug("translated query",
		slog.String("dialect", t.dialect.Name),
		slog.String("entity", entity.Name),
		slog.String("sql", stmt.SQL))
	return stmt, nil
}

// Statement is a translated query.
type Statement struct {
	SQL string

	// Params holds the parameter name of every placeholder, in order.
	// A name appears once per occurrence.
	Params []string

	Entity           *core.Entity
	EntityProjection bool
	Columns          []Column

	boolAsInt bool
}

// Column describes one projected column.
type Column struct {
	Name string
	// Attribute is set when the column is a plain attribute reference.
	Attribute *core.Attribute
}

// Bind resolves the named values into positional arguments.
func (s *Statement) Bind(values map[string]any) ([]any, error) {
	args := make([]any, len(s.Params))
	for i, name := range s.Params {
		v, ok := values[name]
		if !ok {
			return nil, core.NewInvalidArgument("bind", fmt.Sprintf("parameter :%s is not bound", name))
		}
		if b, isBool := v.(bool); isBool && s.boolAsInt {
			v = boolInt(b)
		}
		args[i] = v
	}
	return args, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
