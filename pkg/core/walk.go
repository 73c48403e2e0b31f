package core

// Inspect traverses an expression tree in depth-first order, calling fn for
// each node. If fn returns false, the children of that node are skipped.
func Inspect(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	switch n := e.(type) {
	case *BinaryExpr:
		Inspect(n.Left, fn)
		Inspect(n.Right, fn)
	case *UnaryExpr:
		Inspect(n.Expr, fn)
	case *FuncCall:
		for _, a := range n.Args {
			Inspect(a, fn)
		}
		for _, o := range n.WithinGroup {
			Inspect(o.Expr, fn)
		}
		Inspect(n.Filter, fn)
		if n.Window != nil {
			for _, p := range n.Window.PartitionBy {
				Inspect(p, fn)
			}
			for _, o := range n.Window.OrderBy {
				Inspect(o.Expr, fn)
			}
		}
	case *CaseExpr:
		Inspect(n.Operand, fn)
		for _, w := range n.Whens {
			Inspect(w.Condition, fn)
			Inspect(w.Result, fn)
		}
		Inspect(n.Else, fn)
	case *CastExpr:
		Inspect(n.Expr, fn)
	case *InExpr:
		Inspect(n.Expr, fn)
		for _, v := range n.Values {
			Inspect(v, fn)
		}
	case *BetweenExpr:
		Inspect(n.Expr, fn)
		Inspect(n.Low, fn)
		Inspect(n.High, fn)
	case *IsNullExpr:
		Inspect(n.Expr, fn)
	case *LikeExpr:
		Inspect(n.Expr, fn)
		Inspect(n.Pattern, fn)
	case *ParenExpr:
		Inspect(n.Expr, fn)
	}
}

// QueryExprs returns every top-level expression of the query in clause order.
func QueryExprs(q *Query) []Expr {
	var out []Expr
	for _, s := range q.Select {
		out = append(out, s.Expr)
	}
	if q.Where != nil {
		out = append(out, q.Where)
	}
	out = append(out, q.GroupBy...)
	if q.Having != nil {
		out = append(out, q.Having)
	}
	for _, o := range q.OrderBy {
		out = append(out, o.Expr)
	}
	if q.Limit != nil {
		out = append(out, q.Limit)
	}
	if q.Offset != nil {
		out = append(out, q.Offset)
	}
	return out
}

// ParamNames returns the distinct named parameters of the query in first-use order.
func ParamNames(q *Query) []string {
	seen := make(map[string]bool)
	var names []string
	for _, e := range QueryExprs(q) {
		Inspect(e, func(n Expr) bool {
			if p, ok := n.(*ParamRef); ok && !seen[p.Name] {
				seen[p.Name] = true
				names = append(names, p.Name)
			}
			return true
		})
	}
	return names
}
