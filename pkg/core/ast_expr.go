package core

import "github.com/leapstack-labs/leapquery/pkg/token"

// ---------- Expression Types ----------

// AttributeRef references a persistent attribute, optionally qualified by
// an entity alias: p.ssn or ssn.
type AttributeRef struct {
	NodeInfo
	Qualifier string
	Name      string
}

func (*AttributeRef) exprNode() {}

// ParamRef is a named parameter (:name).
type ParamRef struct {
	NodeInfo
	Name string
}

func (*ParamRef) exprNode() {}

// Literal represents a literal value.
type Literal struct {
	NodeInfo
	Type  LiteralType
	Value string
}

func (*Literal) exprNode() {}

// LiteralType represents the type of a literal.
type LiteralType int

// LiteralType constants for literal value types.
const (
	LiteralNumber LiteralType = iota
	LiteralString
	LiteralBool
	LiteralNull
)

// BinaryExpr represents a binary expression.
type BinaryExpr struct {
	Left  Expr
	Op    token.TokenType
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// Pos implements Node.
func (b *BinaryExpr) Pos() token.Position {
	if b.Left != nil {
		return b.Left.Pos()
	}
	return token.Position{}
}

// UnaryExpr represents a unary expression.
type UnaryExpr struct {
	NodeInfo
	Op   token.TokenType
	Expr Expr
}

func (*UnaryExpr) exprNode() {}

// FuncCall represents a function call, including the ordered-set forms
// listagg(e, sep) WITHIN GROUP (ORDER BY ...) FILTER (WHERE ...).
type FuncCall struct {
	NodeInfo
	Name        string // lowercase
	Distinct    bool
	Args        []Expr
	Star        bool          // count(*)
	WithinGroup []OrderByItem // WITHIN GROUP (ORDER BY ...)
	Filter      Expr          // FILTER (WHERE ...)
	Window      *WindowSpec   // OVER (...)
}

func (*FuncCall) exprNode() {}

// WindowSpec represents an OVER clause.
type WindowSpec struct {
	PartitionBy []Expr
	OrderBy     []OrderByItem
}

// CaseExpr represents a CASE expression.
type CaseExpr struct {
	NodeInfo
	Operand Expr // CASE operand WHEN ... (optional)
	Whens   []WhenClause
	Else    Expr
}

func (*CaseExpr) exprNode() {}

// WhenClause represents a WHEN clause in a CASE expression.
type WhenClause struct {
	Condition Expr
	Result    Expr
}

// CastExpr represents a CAST expression.
type CastExpr struct {
	NodeInfo
	Expr     Expr
	TypeName string
}

func (*CastExpr) exprNode() {}

// InExpr represents an IN list.
type InExpr struct {
	Expr   Expr
	Not    bool
	Values []Expr
}

func (*InExpr) exprNode() {}

// Pos implements Node.
func (i *InExpr) Pos() token.Position { return posOf(i.Expr) }

// BetweenExpr represents a BETWEEN expression.
type BetweenExpr struct {
	Expr Expr
	Not  bool
	Low  Expr
	High Expr
}

func (*BetweenExpr) exprNode() {}

// Pos implements Node.
func (b *BetweenExpr) Pos() token.Position { return posOf(b.Expr) }

// IsNullExpr represents an IS [NOT] NULL expression.
type IsNullExpr struct {
	Expr Expr
	Not  bool
}

func (*IsNullExpr) exprNode() {}

// Pos implements Node.
func (i *IsNullExpr) Pos() token.Position { return posOf(i.Expr) }

// LikeExpr represents a [NOT] LIKE expression.
type LikeExpr struct {
	Expr    Expr
	Not     bool
	Pattern Expr
}

func (*LikeExpr) exprNode() {}

// Pos implements Node.
func (l *LikeExpr) Pos() token.Position { return posOf(l.Expr) }

// ParenExpr represents a parenthesized expression.
type ParenExpr struct {
	NodeInfo
	Expr Expr
}

func (*ParenExpr) exprNode() {}

// StarExpr represents count(*) style stars and select p.* projections.
type StarExpr struct {
	NodeInfo
	Qualifier string
}

func (*StarExpr) exprNode() {}

func posOf(e Expr) token.Position {
	if e == nil {
		return token.Position{}
	}
	return e.Pos()
}

// ---------- Builders for synthesized predicates ----------

// And joins the non-nil expressions with AND. Operands that are themselves
// disjunctions are parenthesized. Returns nil when nothing remains.
func And(exprs ...Expr) Expr {
	return join(token.AND, exprs)
}

// Or joins the non-nil expressions with OR, parenthesizing each operand
// that is a conjunction.
func Or(exprs ...Expr) Expr {
	return join(token.OR, exprs)
}

func join(op token.TokenType, exprs []Expr) Expr {
	var out Expr
	for _, e := range exprs {
		if e == nil {
			continue
		}
		if b, ok := e.(*BinaryExpr); ok && (b.Op == token.OR || (op == token.OR && b.Op == token.AND)) {
			e = &ParenExpr{Expr: e}
		}
		if out == nil {
			out = e
			continue
		}
		out = &BinaryExpr{Left: out, Op: op, Right: e}
	}
	return out
}
