package parser

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/leapstack-labs/leapquery/pkg/token"
)

// Primary expression parsing: literals, parameters, attribute paths,
// function calls.
//
// Grammar:
//
//	primary     → literal | PARAM | path | func_call | "(" expr ")" | case_expr | cast_expr
//	literal     → NUMBER | STRING | TRUE | FALSE | NULL
//	path        → identifier ["." identifier]
//	func_call   → identifier "(" [DISTINCT] [expr_list | "*"] ")"
//	              [WITHIN GROUP "(" ORDER BY order_list ")"]
//	              [FILTER "(" WHERE expr ")"]
//	              [OVER "(" [PARTITION BY expr_list] [ORDER BY order_list] ")"]

func (p *Parser) parsePrimary() core.Expr {
	info := core.NodeInfo{Start: p.token.Pos}

	switch p.token.Type {
	case token.NUMBER:
		lit := &core.Literal{NodeInfo: info, Type: core.LiteralNumber, Value: p.token.Literal}
		p.nextToken()
		return lit

	case token.STRING:
		lit := &core.Literal{NodeInfo: info, Type: core.LiteralString, Value: p.token.Literal}
		p.nextToken()
		return lit

	case token.TRUE:
		p.nextToken()
		return &core.Literal{NodeInfo: info, Type: core.LiteralBool, Value: "true"}

	case token.FALSE:
		p.nextToken()
		return &core.Literal{NodeInfo: info, Type: core.LiteralBool, Value: "false"}

	case token.NULL:
		p.nextToken()
		return &core.Literal{NodeInfo: info, Type: core.LiteralNull, Value: "null"}

	case token.PARAM:
		param := &core.ParamRef{NodeInfo: info, Name: p.token.Literal}
		p.nextToken()
		return param

	case token.QUESTION:
		p.addError(ErrPositionalParam)
		p.nextToken()
		return nil

	case token.CASE:
		return p.parseCaseExpr()

	case token.CAST:
		return p.parseCastExpr()

	case token.IDENT:
		return p.parseIdentifierExpr()

	case token.LPAREN:
		p.nextToken()
		inner := p.parseExpression()
		p.expect(token.RPAREN)
		return &core.ParenExpr{NodeInfo: info, Expr: inner}

	case token.STAR:
		p.nextToken()
		return &core.StarExpr{NodeInfo: info}

	default:
		p.addError(fmt.Sprintf("unexpected %s in expression", describe(p.token)))
		p.nextToken()
		return nil
	}
}

// parseIdentifierExpr parses an identifier which could be a path or a function call.
func (p *Parser) parseIdentifierExpr() core.Expr {
	info := core.NodeInfo{Start: p.token.Pos}
	name := p.token.Literal
	p.nextToken()

	if p.check(token.LPAREN) {
		return p.parseFuncCall(info, name)
	}

	if !p.match(token.DOT) {
		return &core.AttributeRef{NodeInfo: info, Name: name}
	}

	if p.match(token.STAR) {
		return &core.StarExpr{NodeInfo: info, Qualifier: name}
	}
	if !p.check(token.IDENT) {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "attribute name"))
		return nil
	}
	ref := &core.AttributeRef{NodeInfo: info, Qualifier: name, Name: p.token.Literal}
	p.nextToken()

	if p.check(token.DOT) {
		p.addError(fmt.Sprintf(ErrNestedPath, name+"."+ref.Name+".…"))
		return nil
	}
	return ref
}

// parseFuncCall parses a function call after its name.
func (p *Parser) parseFuncCall(info core.NodeInfo, name string) core.Expr {
	fn := &core.FuncCall{NodeInfo: info, Name: strings.ToLower(name)}

	p.expect(token.LPAREN)

	if p.check(token.STAR) {
		fn.Star = true
		p.nextToken()
	} else if !p.check(token.RPAREN) {
		fn.Distinct = p.match(token.DISTINCT)
		fn.Args = p.parseExpressionList()
	}

	p.expect(token.RPAREN)

	// WITHIN GROUP and FILTER may come in either order.
	for {
		switch {
		case p.check(token.WITHIN) && p.checkPeek(token.GROUP):
			p.nextToken()
			p.nextToken()
			p.expect(token.LPAREN)
			p.expect(token.ORDER)
			p.expect(token.BY)
			fn.WithinGroup = p.parseOrderByList()
			p.expect(token.RPAREN)
			continue
		case p.match(token.FILTER):
			p.expect(token.LPAREN)
			p.expect(token.WHERE)
			fn.Filter = p.parseExpression()
			p.expect(token.RPAREN)
			continue
		}
		break
	}

	if p.match(token.OVER) {
		fn.Window = p.parseWindowSpec()
	}

	return fn
}

// parseWindowSpec parses: "(" [PARTITION BY expr_list] [ORDER BY order_list] ")"
func (p *Parser) parseWindowSpec() *core.WindowSpec {
	spec := &core.WindowSpec{}
	p.expect(token.LPAREN)

	if p.match(token.PARTITION) {
		p.expect(token.BY)
		spec.PartitionBy = p.parseExpressionList()
	}
	if p.match(token.ORDER) {
		p.expect(token.BY)
		spec.OrderBy = p.parseOrderByList()
	}

	p.expect(token.RPAREN)
	return spec
}

// parseCaseExpr parses CASE [operand] WHEN ... THEN ... [ELSE ...] END.
func (p *Parser) parseCaseExpr() core.Expr {
	caseExpr := &core.CaseExpr{NodeInfo: core.NodeInfo{Start: p.token.Pos}}
	p.expect(token.CASE)

	if !p.check(token.WHEN) {
		caseExpr.Operand = p.parseExpression()
	}

	for p.match(token.WHEN) {
		when := core.WhenClause{Condition: p.parseExpression()}
		p.expect(token.THEN)
		when.Result = p.parseExpression()
		caseExpr.Whens = append(caseExpr.Whens, when)
	}
	if len(caseExpr.Whens) == 0 {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "WHEN"))
	}

	if p.match(token.ELSE) {
		caseExpr.Else = p.parseExpression()
	}

	p.expect(token.END)
	return caseExpr
}

// parseCastExpr parses CAST(expr AS type).
func (p *Parser) parseCastExpr() core.Expr {
	cast := &core.CastExpr{NodeInfo: core.NodeInfo{Start: p.token.Pos}}
	p.expect(token.CAST)
	p.expect(token.LPAREN)
	cast.Expr = p.parseExpression()
	p.expect(token.AS)

	if !p.check(token.IDENT) {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "type name"))
		return nil
	}
	cast.TypeName = strings.ToLower(p.token.Literal)
	p.nextToken()

	p.expect(token.RPAREN)
	return cast
}
