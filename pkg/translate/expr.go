package translate

import (
	"strings"

	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/leapstack-labs/leapquery/pkg/token"
)

func (p *printer) formatExpr(e core.Expr) {
	if e == nil {
		return
	}

	switch expr := e.(type) {
	case *core.Literal:
		p.formatLiteral(expr)
	case *core.AttributeRef:
		if a := p.resolve(expr); a != nil {
			p.column(a)
		}
	case *core.ParamRef:
		p.param(expr.Name)
	case *core.BinaryExpr:
		p.formatBinaryExpr(expr)
	case *core.UnaryExpr:
		p.formatUnaryExpr(expr)
	case *core.FuncCall:
		p.formatFuncCall(expr)
	case *core.CaseExpr:
		p.formatCaseExpr(expr)
	case *core.CastExpr:
		p.formatCastExpr(expr)
	case *core.InExpr:
		p.formatInExpr(expr)
	case *core.BetweenExpr:
		p.formatBetweenExpr(expr)
	case *core.IsNullExpr:
		p.formatExpr(expr.Expr)
		if expr.Not {
			p.write(" is not null")
		} else {
			p.write(" is null")
		}
	case *core.LikeExpr:
		p.formatExpr(expr.Expr)
		if expr.Not {
			p.write(" not")
		}
		p.write(" like ")
		p.formatExpr(expr.Pattern)
	case *core.ParenExpr:
		p.write("(")
		p.formatExpr(expr.Expr)
		p.write(")")
	case *core.StarExpr:
		p.invalid("* is only allowed in count(*) or as the whole select list")
	default:
		panic(&core.TranslationFailure{Node: e, Reason: "no lowering for expression"})
	}
}

func (p *printer) formatLiteral(lit *core.Literal) {
	switch lit.Type {
	case core.LiteralString:
		p.write("'")
		p.write(strings.ReplaceAll(lit.Value, "'", "''"))
		p.write("'")
	case core.LiteralBool:
		b := strings.EqualFold(lit.Value, "true")
		switch {
		case p.d.BoolAsInt && b:
			p.write("1")
		case p.d.BoolAsInt:
			p.write("0")
		case b:
			p.write("true")
		default:
			p.write("false")
		}
	case core.LiteralNull:
		p.write("null")
	default:
		p.write(lit.Value)
	}
}

func binaryOp(op token.TokenType) string {
	switch op {
	case token.AND:
		return "and"
	case token.OR:
		return "or"
	case token.EQ:
		return "="
	case token.NE:
		return "<>"
	case token.LT:
		return "<"
	case token.GT:
		return ">"
	case token.LE:
		return "<="
	case token.GE:
		return ">="
	case token.PLUS:
		return "+"
	case token.MINUS:
		return "-"
	case token.STAR:
		return "*"
	case token.SLASH:
		return "/"
	case token.PERCENT:
		return "%"
	case token.DPIPE:
		return "||"
	default:
		return ""
	}
}

func (p *printer) formatBinaryExpr(expr *core.BinaryExpr) {
	if expr.Op == token.DPIPE && p.d.ConcatFunction {
		p.write("concat(")
		p.formatExpr(expr.Left)
		p.write(", ")
		p.formatExpr(expr.Right)
		p.write(")")
		return
	}

	op := binaryOp(expr.Op)
	if op == "" {
		panic(&core.TranslationFailure{Node: expr, Reason: "unknown operator " + expr.Op.String()})
	}
	p.formatExpr(expr.Left)
	p.write(" ")
	p.write(op)
	p.write(" ")
	p.formatExpr(expr.Right)
}

func (p *printer) formatUnaryExpr(expr *core.UnaryExpr) {
	switch expr.Op {
	case token.NOT:
		p.write("not ")
	case token.MINUS:
		p.write("-")
	default:
		panic(&core.TranslationFailure{Node: expr, Reason: "unknown unary operator " + expr.Op.String()})
	}
	p.formatExpr(expr.Expr)
}

func (p *printer) formatCaseExpr(expr *core.CaseExpr) {
	p.write("case")
	if expr.Operand != nil {
		p.write(" ")
		p.formatExpr(expr.Operand)
	}
	for _, w := range expr.Whens {
		p.write(" when ")
		p.formatExpr(w.Condition)
		p.write(" then ")
		p.formatExpr(w.Result)
	}
	if expr.Else != nil {
		p.write(" else ")
		p.formatExpr(expr.Else)
	}
	p.write(" end")
}

func (p *printer) formatCastExpr(expr *core.CastExpr) {
	p.write("cast(")
	p.formatExpr(expr.Expr)
	p.write(" as ")
	p.write(p.castType(expr.TypeName))
	p.write(")")
}

// castType maps query-language type names to the dialect's types.
func (p *printer) castType(name string) string {
	t, err := core.ParseAttrType(name)
	if err != nil {
		return name
	}
	switch t {
	case core.TypeString:
		return p.d.StringType
	case core.TypeFloat:
		return p.d.DoubleType
	case core.TypeInteger:
		return "integer"
	case core.TypeDate:
		return "date"
	default:
		return name
	}
}

func (p *printer) formatInExpr(expr *core.InExpr) {
	p.formatExpr(expr.Expr)
	if expr.Not {
		p.write(" not")
	}
	p.write(" in (")
	p.formatList(len(expr.Values), func(i int) { p.formatExpr(expr.Values[i]) }, ", ")
	p.write(")")
}

func (p *printer) formatBetweenExpr(expr *core.BetweenExpr) {
	p.formatExpr(expr.Expr)
	if expr.Not {
		p.write(" not")
	}
	p.write(" between ")
	p.formatExpr(expr.Low)
	p.write(" and ")
	p.formatExpr(expr.High)
}

// exprType infers the semantic type of e where it is evident.
func (p *printer) exprType(e core.Expr) (core.AttrType, bool) {
	switch expr := e.(type) {
	case *core.AttributeRef:
		if p.isEntityRef(expr) {
			return p.scope.entity.IDAttribute().Type, true
		}
		if a, ok := p.lookup(expr); ok {
			return a.Type, true
		}
	case *core.Literal:
		if expr.Type == core.LiteralString {
			return core.TypeString, true
		}
	case *core.ParenExpr:
		return p.exprType(expr.Expr)
	case *core.CastExpr:
		if t, err := core.ParseAttrType(expr.TypeName); err == nil {
			return t, true
		}
	case *core.CaseExpr:
		if len(expr.Whens) > 0 {
			return p.exprType(expr.Whens[0].Result)
		}
	case *core.BinaryExpr:
		if expr.Op == token.DPIPE {
			return core.TypeString, true
		}
	}
	return 0, false
}

// ---------- Order By ----------

func (p *printer) formatOrderItems(items []core.OrderByItem) {
	p.formatList(len(items), func(i int) { p.formatOrderItem(items[i]) }, ", ")
}

// formatOrderItem renders one sort key. An explicit null precedence is
// rendered as NULLS FIRST/LAST where the dialect has the syntax, and as
// a leading CASE sort key where it lacks it and the intrinsic ordering
// disagrees.
func (p *printer) formatOrderItem(item core.OrderByItem) {
	nulls := p.t.preferredNulls(item)

	if nulls != core.NullsDefault && !p.d.SupportsNullsOrdering() {
		wantFirst := nulls == core.NullsFirst
		if p.d.NullsFirstFor(item.Desc) != wantFirst {
			p.write("case when ")
			p.formatExpr(item.Expr)
			if wantFirst {
				p.write(" is null then 0 else 1 end, ")
			} else {
				p.write(" is null then 1 else 0 end, ")
			}
		}
	}

	p.formatExpr(item.Expr)
	if item.Desc {
		p.write(" desc")
	}

	if nulls != core.NullsDefault && p.d.SupportsNullsOrdering() {
		if nulls == core.NullsFirst {
			p.write(" nulls first")
		} else {
			p.write(" nulls last")
		}
	}
}
