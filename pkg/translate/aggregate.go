package translate

import (
	"github.com/leapstack-labs/leapquery/pkg/core"
)

// Ordered-set aggregate lowering.
//
//	listagg(e, sep) [WITHIN GROUP (ORDER BY ...)] [FILTER (WHERE f)]
//	percentile_disc(p) WITHIN GROUP (ORDER BY x [ASC|DESC])
//	percent_rank(v) WITHIN GROUP (ORDER BY x [ASC|DESC])
//
// The capability record decides between native, window-only and
// emulated forms. FILTER without native support becomes
// CASE WHEN f THEN e END inside the aggregate.

func (p *printer) formatFuncCall(fn *core.FuncCall) {
	switch fn.Name {
	case core.AggListagg:
		p.formatListagg(fn)
	case core.AggPercentileDisc:
		p.formatPercentileDisc(fn)
	case core.AggPercentRank:
		if fn.Window != nil {
			// the window function, not the hypothetical-set aggregate
			p.formatGenericCall(fn)
			return
		}
		p.formatPercentRank(fn)
	default:
		p.formatGenericCall(fn)
	}
}

// formatGenericCall renders any other function, passing WITHIN GROUP,
// FILTER and OVER through.
func (p *printer) formatGenericCall(fn *core.FuncCall) {
	nativeFilter := fn.Filter != nil && p.d.SupportsAggregateFilter()

	p.write(fn.Name)
	p.write("(")
	if fn.Distinct {
		p.write("distinct ")
	}
	switch {
	case fn.Star && fn.Filter != nil && !nativeFilter:
		// count(*) filter (where f) -> count(case when f then 1 end)
		p.formatExpr(caseWhen(fn.Filter, &core.Literal{Type: core.LiteralNumber, Value: "1"}))
	case fn.Star:
		p.write("*")
	default:
		args := fn.Args
		if fn.Filter != nil && !nativeFilter && len(args) > 0 {
			args = append([]core.Expr{caseWhen(fn.Filter, args[0])}, args[1:]...)
		}
		p.formatList(len(args), func(i int) { p.formatExpr(args[i]) }, ", ")
	}
	p.write(")")

	if len(fn.WithinGroup) > 0 {
		p.write(" within group (order by ")
		p.formatOrderItems(fn.WithinGroup)
		p.write(")")
	}
	if nativeFilter {
		p.formatFilter(fn.Filter)
	}
	if fn.Window != nil {
		p.formatWindow(fn.Window)
	}
}

func (p *printer) formatFilter(f core.Expr) {
	p.write(" filter (where ")
	p.formatExpr(f)
	p.write(")")
}

func (p *printer) formatWindow(w *core.WindowSpec) {
	p.write(" over (")
	if len(w.PartitionBy) > 0 {
		p.write("partition by ")
		p.formatList(len(w.PartitionBy), func(i int) { p.formatExpr(w.PartitionBy[i]) }, ", ")
	}
	if len(w.OrderBy) > 0 {
		if len(w.PartitionBy) > 0 {
			p.write(" ")
		}
		p.write("order by ")
		p.formatOrderItems(w.OrderBy)
	}
	p.write(")")
}

// caseWhen builds CASE WHEN cond THEN result END as a new node.
func caseWhen(cond, result core.Expr) core.Expr {
	return &core.CaseExpr{
		NodeInfo: core.NodeInfo{Start: cond.Pos()},
		Whens:    []core.WhenClause{{Condition: cond, Result: result}},
	}
}

// mode returns the support mode for kind, recording an
// UnsupportedAggregateError when there is none.
func (p *printer) mode(kind string) core.SupportMode {
	m := p.d.Mode(kind)
	if m == core.Unsupported {
		p.fail(&core.UnsupportedAggregateError{Kind: kind, Dialect: p.d.Name})
	}
	return m
}

func (p *printer) unsupported(kind, reason string) {
	p.fail(&core.UnsupportedAggregateError{Kind: kind, Dialect: p.d.Name, Reason: reason})
}

// checkOrderedSet validates the single-argument, single-key shape of
// percentile_disc and percent_rank.
func (p *printer) checkOrderedSet(fn *core.FuncCall) bool {
	if len(fn.WithinGroup) != 1 {
		p.invalid(fn.Name + " requires WITHIN GROUP (ORDER BY ...) with exactly one sort key")
		return false
	}
	if len(fn.Args) != 1 || fn.Star || fn.Distinct {
		p.invalid(fn.Name + " takes exactly one argument")
		return false
	}
	if fn.Window != nil {
		p.invalid(fn.Name + " WITHIN GROUP cannot be combined with OVER")
		return false
	}
	return true
}

// ---------- listagg ----------

func (p *printer) formatListagg(fn *core.FuncCall) {
	switch p.mode(core.AggListagg) {
	case core.Unsupported:
		return
	case core.WindowOnly, core.Emulated:
		p.unsupported(core.AggListagg, "only the aggregate form can be rendered")
		return
	}
	if len(fn.Args) != 2 {
		p.invalid("listagg takes an expression and a separator")
		return
	}

	value := fn.Args[0]
	sep := fn.Args[1]
	nativeFilter := fn.Filter != nil && p.d.SupportsAggregateFilter()
	if fn.Filter != nil && !nativeFilter {
		value = caseWhen(fn.Filter, value)
	}

	switch p.d.StringAgg {
	case core.StringAggListagg:
		p.write("listagg(")
		p.formatStringArg(value)
		p.write(", ")
		p.formatExpr(sep)
		p.write(") within group (order by ")
		if len(fn.WithinGroup) == 0 {
			p.write("null")
		} else {
			p.formatOrderItems(fn.WithinGroup)
		}
		p.write(")")

	case core.StringAggWithinGroup:
		p.write("string_agg(")
		p.formatStringArg(value)
		p.write(", ")
		p.formatExpr(sep)
		p.write(")")
		if len(fn.WithinGroup) > 0 {
			p.write(" within group (order by ")
			p.formatOrderItems(fn.WithinGroup)
			p.write(")")
		}

	case core.StringAggGroupConcat:
		lit, ok := sep.(*core.Literal)
		if !ok || lit.Type != core.LiteralString {
			p.unsupported(core.AggListagg, "the separator must be a string literal")
			return
		}
		p.write("group_concat(")
		p.formatStringArg(value)
		if len(fn.WithinGroup) > 0 {
			p.write(" order by ")
			p.formatOrderItems(fn.WithinGroup)
		}
		p.write(" separator ")
		p.formatLiteral(lit)
		p.write(")")

	default: // StringAggInline, StringAggGroupConcatInline
		if p.d.StringAgg == core.StringAggGroupConcatInline {
			p.write("group_concat(")
		} else {
			p.write("string_agg(")
		}
		p.formatStringArg(value)
		p.write(", ")
		p.formatExpr(sep)
		if len(fn.WithinGroup) > 0 {
			p.write(" order by ")
			p.formatOrderItems(fn.WithinGroup)
		}
		p.write(")")
	}

	if nativeFilter {
		p.formatFilter(fn.Filter)
	}
}

// formatStringArg renders e, cast to the dialect's string type unless it
// is evidently a string already.
func (p *printer) formatStringArg(e core.Expr) {
	if t, ok := p.exprType(e); ok && t == core.TypeString {
		p.formatExpr(e)
		return
	}
	p.write("cast(")
	p.formatExpr(e)
	p.write(" as ")
	p.write(p.d.StringType)
	p.write(")")
}

// ---------- percentile_disc ----------

func (p *printer) formatPercentileDisc(fn *core.FuncCall) {
	m := p.mode(core.AggPercentileDisc)
	if m == core.Unsupported || !p.checkOrderedSet(fn) {
		return
	}
	key := fn.WithinGroup[0]

	switch m {
	case core.WindowOnly:
		if len(p.query.GroupBy) > 0 {
			p.unsupported(core.AggPercentileDisc, "the window form cannot be used with GROUP BY")
			return
		}
		// collapsed to one row by formatWindowedQuery
		p.formatNativePercentile(fn, key, false)
		p.write(" over ()")

	case core.Emulated:
		if len(p.query.GroupBy) > 0 {
			p.unsupported(core.AggPercentileDisc, "the emulation cannot be used with GROUP BY")
			return
		}
		p.formatPercentileEmulation(fn, key)

	default:
		p.formatNativePercentile(fn, key, p.d.SupportsAggregateFilter())
	}
}

func (p *printer) formatNativePercentile(fn *core.FuncCall, key core.OrderByItem, nativeFilter bool) {
	if fn.Filter != nil && !nativeFilter {
		// NULL sort keys do not take part
		key.Expr = caseWhen(fn.Filter, key.Expr)
	}
	p.write("percentile_disc(")
	p.formatExpr(fn.Args[0])
	p.write(") within group (order by ")
	p.formatOrderItem(key)
	p.write(")")
	if fn.Filter != nil && nativeFilter {
		p.formatFilter(fn.Filter)
	}
}

// formatPercentileEmulation picks the first value whose cumulative
// distribution reaches p, from an uncorrelated CUME_DIST subquery over the
// same source and filter. The outer MIN makes the projection an aggregate.
func (p *printer) formatPercentileEmulation(fn *core.FuncCall, key core.OrderByItem) {
	outer := p.scope.sqlAlias
	p.scope.sqlAlias = sqlAlias(p.scope.entity.Name, 2)
	defer func() { p.scope.sqlAlias = outer }()

	p.write("min((select pd.v from (select ")
	p.formatExpr(key.Expr)
	p.write(" as v, cume_dist() over (order by ")
	p.formatExpr(key.Expr)
	if key.Desc {
		p.write(" desc")
	}
	p.write(") as cd from ")
	p.table()
	p.write(" where ")
	p.formatExpr(key.Expr)
	p.write(" is not null")
	if p.query.Where != nil {
		p.write(" and (")
		p.formatExpr(p.query.Where)
		p.write(")")
	}
	if fn.Filter != nil {
		p.write(" and (")
		p.formatExpr(fn.Filter)
		p.write(")")
	}
	p.write(") pd where pd.cd >= ")
	p.formatExpr(fn.Args[0])
	p.write(" order by pd.cd")
	p.formatLimit(&core.Literal{Type: core.LiteralNumber, Value: "1"}, nil)
	p.write("))")
}

// needsSingleRowProjection reports whether a window-only lowering in the
// select list requires the query to be collapsed to one row.
func (p *printer) needsSingleRowProjection() bool {
	if p.d.Mode(core.AggPercentileDisc) != core.WindowOnly {
		return false
	}
	found := false
	for _, item := range p.query.Select {
		core.Inspect(item.Expr, func(e core.Expr) bool {
			if fn, ok := e.(*core.FuncCall); ok && fn.Name == core.AggPercentileDisc && fn.Window == nil {
				found = true
			}
			return !found
		})
	}
	return found
}

// ---------- percent_rank ----------

func (p *printer) formatPercentRank(fn *core.FuncCall) {
	m := p.mode(core.AggPercentRank)
	if m == core.Unsupported || !p.checkOrderedSet(fn) {
		return
	}
	if m == core.WindowOnly {
		p.unsupported(core.AggPercentRank, "the window function cannot rank a hypothetical value")
		return
	}
	key := fn.WithinGroup[0]

	// Rewriting FILTER as CASE would rank the filtered rows as NULLs,
	// so the native form is only used with native FILTER.
	if m == core.Native && (fn.Filter == nil || p.d.SupportsAggregateFilter()) {
		p.write("percent_rank(")
		p.formatExpr(fn.Args[0])
		p.write(") within group (order by ")
		p.formatOrderItem(key)
		p.write(")")
		if fn.Filter != nil {
			p.formatFilter(fn.Filter)
		}
		return
	}

	p.formatPercentRankEmulation(fn, key)
}

// formatPercentRankEmulation counts the rows that sort before v and
// divides by the group size:
//
//	coalesce(cast(sum(case when [f and] (x < v [or x is null]) then 1 else 0 end) as double)
//	    / nullif(count(*), 0), 0.0)
func (p *printer) formatPercentRankEmulation(fn *core.FuncCall, key core.OrderByItem) {
	v := fn.Args[0]
	nullsFirst := p.t.ResolveNulls(key) == core.NullsFirst

	p.write("coalesce(cast(sum(case when ")
	if fn.Filter != nil {
		p.write("(")
		p.formatExpr(fn.Filter)
		p.write(") and ")
	}
	p.write("(")
	p.formatExpr(key.Expr)
	if key.Desc {
		p.write(" > ")
	} else {
		p.write(" < ")
	}
	p.formatExpr(v)
	if nullsFirst {
		p.write(" or ")
		p.formatExpr(key.Expr)
		p.write(" is null")
	}
	p.write(") then 1 else 0 end) as ")
	p.write(p.d.DoubleType)
	p.write(") / nullif(")
	if fn.Filter != nil {
		p.write("count(case when ")
		p.formatExpr(fn.Filter)
		p.write(" then 1 end)")
	} else {
		p.write("count(*)")
	}
	p.write(", 0), 0.0)")
}
