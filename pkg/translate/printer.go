package translate

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/leapstack-labs/leapquery/pkg/dialect"
)

// maxLimit stands in for "no limit" where OFFSET requires a LIMIT.
const maxLimit = "9223372036854775807"

// scope binds the root entity to its query alias and SQL alias.
type scope struct {
	entity   *core.Entity
	hqlAlias string
	sqlAlias string
}

// printer renders one query. Errors are recorded and the first one wins;
// rendering continues so that callers need not check after every call.
type printer struct {
	t       *Translator
	d       *dialect.Dialect
	query   *core.Query
	out     strings.Builder
	scope   scope
	params  []string
	columns []Column
	err     error
}

func newPrinter(t *Translator, entity *core.Entity, q *core.Query) *printer {
	return &printer{
		t:     t,
		d:     t.dialect,
		query: q,
		scope: scope{
			entity:   entity,
			hqlAlias: q.From.Alias,
			sqlAlias: sqlAlias(entity.Name, 1),
		},
	}
}

// sqlAlias derives the generated table alias, e.g. Person -> p1_0.
func sqlAlias(entityName string, n int) string {
	prefix := "t"
	for _, r := range entityName {
		if unicode.IsLetter(r) {
			prefix = string(unicode.ToLower(r))
		}
		break
	}
	return fmt.Sprintf("%s%d_0", prefix, n)
}

func (p *printer) String() string {
	return p.out.String()
}

func (p *printer) write(s string) {
	p.out.WriteString(s)
}

func (p *printer) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *printer) invalid(reason string) {
	p.fail(core.NewInvalidArgument("translate", reason))
}

// formatList prints count items separated by sep.
func (p *printer) formatList(count int, format func(i int), sep string) {
	for i := 0; i < count; i++ {
		if i > 0 {
			p.write(sep)
		}
		format(i)
	}
}

func (p *printer) quote(name string) string {
	return p.d.QuoteIdentifierIfNeeded(name)
}

func (p *printer) column(a *core.Attribute) {
	p.write(p.scope.sqlAlias)
	p.write(".")
	p.write(p.quote(a.Column))
}

func (p *printer) table() {
	p.write(p.quote(p.scope.entity.Table))
	p.write(" ")
	p.write(p.scope.sqlAlias)
}

func (p *printer) param(name string) {
	p.params = append(p.params, name)
	p.write(p.d.FormatPlaceholder(len(p.params)))
}

// ---------- Clauses ----------

func (p *printer) formatQuery() {
	q := p.query
	if p.needsSingleRowProjection() {
		p.formatWindowedQuery()
		return
	}

	p.write("select ")
	if q.Distinct {
		p.write("distinct ")
	}
	p.formatSelectList()

	p.write(" from ")
	p.table()

	if q.Where != nil {
		p.write(" where ")
		p.formatExpr(q.Where)
	}

	if len(q.GroupBy) > 0 {
		p.write(" group by ")
		p.formatList(len(q.GroupBy), func(i int) { p.formatExpr(q.GroupBy[i]) }, ", ")
	}

	if q.Having != nil {
		p.write(" having ")
		p.formatExpr(q.Having)
	}

	if len(q.OrderBy) > 0 {
		p.write(" order by ")
		p.formatOrderItems(q.OrderBy)
	} else if p.d.Limit == core.LimitOffsetFetch && (q.Limit != nil || q.Offset != nil) {
		// OFFSET/FETCH is part of ORDER BY
		p.write(" order by (select null)")
	}

	p.formatLimit(q.Limit, q.Offset)
}

// formatWindowedQuery renders a query whose select list holds window-only
// aggregates. The window form repeats its value on every source row, so
// the rows are reduced to one by DISTINCT and an outer MAX keeps a single
// row of NULLs when the source is empty:
//
//	select max(w.c1), ... from (select distinct <item> as c1, ... from t where f) w
func (p *printer) formatWindowedQuery() {
	q := p.query
	if q.Distinct || q.Having != nil || len(q.OrderBy) > 0 || q.Limit != nil || q.Offset != nil {
		p.unsupported(core.AggPercentileDisc, "the window form cannot be combined with DISTINCT, HAVING, ORDER BY, LIMIT or OFFSET")
		return
	}

	p.write("select ")
	p.formatList(len(q.Select), func(i int) {
		p.write(fmt.Sprintf("max(w.c%d)", i+1))
		if a := q.Select[i].Alias; a != "" {
			p.write(" as ")
			p.write(p.quote(a))
		}
	}, ", ")

	p.write(" from (select distinct ")
	for i, item := range q.Select {
		if i > 0 {
			p.write(", ")
		}
		if p.isEntityRef(item.Expr) {
			p.invalid("an entity can only be selected on its own")
			return
		}
		p.formatExpr(item.Expr)
		p.write(fmt.Sprintf(" as c%d", i+1))
		p.columns = append(p.columns, p.describeColumn(i, item))
	}
	p.write(" from ")
	p.table()
	if q.Where != nil {
		p.write(" where ")
		p.formatExpr(q.Where)
	}
	p.write(") w")
}

func (p *printer) formatSelectList() {
	q := p.query
	if q.IsEntityProjection() {
		p.formatEntityColumns()
		return
	}

	for i, item := range q.Select {
		if i > 0 {
			p.write(", ")
		}
		if p.isEntityRef(item.Expr) {
			p.invalid("an entity can only be selected on its own")
			return
		}
		p.formatExpr(item.Expr)
		if item.Alias != "" {
			p.write(" as ")
			p.write(p.quote(item.Alias))
		}
		p.columns = append(p.columns, p.describeColumn(i, item))
	}
}

// formatEntityColumns projects the identifier followed by every other
// attribute in declaration order.
func (p *printer) formatEntityColumns() {
	e := p.scope.entity
	id := e.IDAttribute()
	attrs := make([]*core.Attribute, 0, len(e.Attributes))
	attrs = append(attrs, id)
	for i := range e.Attributes {
		if &e.Attributes[i] != id {
			attrs = append(attrs, &e.Attributes[i])
		}
	}

	p.formatList(len(attrs), func(i int) { p.column(attrs[i]) }, ", ")
	for _, a := range attrs {
		p.columns = append(p.columns, Column{Name: a.Name, Attribute: a})
	}
}

func (p *printer) describeColumn(i int, item core.SelectItem) Column {
	col := Column{Name: item.Alias}
	switch e := item.Expr.(type) {
	case *core.AttributeRef:
		if a, ok := p.lookup(e); ok {
			col.Attribute = a
			if col.Name == "" {
				col.Name = a.Name
			}
		}
	case *core.FuncCall:
		if col.Name == "" {
			col.Name = e.Name
		}
	}
	if col.Name == "" {
		col.Name = fmt.Sprintf("col_%d", i)
	}
	return col
}

// formatLimit renders LIMIT/OFFSET in the dialect's style.
func (p *printer) formatLimit(limit, offset core.Expr) {
	if limit == nil && offset == nil {
		return
	}

	switch p.d.Limit {
	case core.LimitFetchFirst:
		if offset != nil {
			p.write(" offset ")
			p.formatExpr(offset)
			p.write(" rows")
		}
		if limit != nil {
			p.write(" fetch first ")
			p.formatExpr(limit)
			p.write(" rows only")
		}

	case core.LimitOffsetFetch:
		p.write(" offset ")
		if offset != nil {
			p.formatExpr(offset)
		} else {
			p.write("0")
		}
		p.write(" rows")
		if limit != nil {
			p.write(" fetch next ")
			p.formatExpr(limit)
			p.write(" rows only")
		}

	default: // LimitClause
		p.write(" limit ")
		if limit != nil {
			p.formatExpr(limit)
		} else {
			p.write(maxLimit)
		}
		if offset != nil {
			p.write(" offset ")
			p.formatExpr(offset)
		}
	}
}

// ---------- References ----------

// isEntityRef reports whether e names the root entity itself (select p).
func (p *printer) isEntityRef(e core.Expr) bool {
	ref, ok := e.(*core.AttributeRef)
	return ok && ref.Qualifier == "" && p.scope.hqlAlias != "" && ref.Name == p.scope.hqlAlias
}

// lookup resolves an attribute reference without recording errors.
func (p *printer) lookup(ref *core.AttributeRef) (*core.Attribute, bool) {
	if ref.Qualifier != "" && !strings.EqualFold(ref.Qualifier, p.scope.hqlAlias) {
		return nil, false
	}
	return p.scope.entity.Attribute(ref.Name)
}

// resolve maps an attribute reference to its attribute. An entity
// reference resolves to the identifier.
func (p *printer) resolve(ref *core.AttributeRef) *core.Attribute {
	if p.isEntityRef(ref) {
		return p.scope.entity.IDAttribute()
	}
	if ref.Qualifier != "" && !strings.EqualFold(ref.Qualifier, p.scope.hqlAlias) {
		p.invalid(fmt.Sprintf("unknown alias %q at line %d, column %d",
			ref.Qualifier, ref.Pos().Line, ref.Pos().Column))
		return nil
	}
	a, ok := p.scope.entity.Attribute(ref.Name)
	if !ok {
		p.fail(&core.SchemaError{Entity: p.scope.entity.Name, Attribute: ref.Name})
		return nil
	}
	return a
}
