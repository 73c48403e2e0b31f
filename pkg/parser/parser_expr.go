package parser

import (
	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/leapstack-labs/leapquery/pkg/token"
)

// Expression precedence parsing using a Pratt parser.
//
// Precedence levels:
//
//	precNone       = 0
//	precOr         = 1
//	precAnd        = 2
//	precNot        = 3
//	precComparison = 4  (=, <>, <, >, <=, >=, IS, IN, BETWEEN, LIKE)
//	precAddition   = 5  (+, -, ||)
//	precMultiply   = 6  (*, /, %)
//	precUnary      = 7  (-, +)
const (
	precNone = iota
	precOr
	precAnd
	precNot
	precComparison
	precAddition
	precMultiply
	precUnary
)

func (p *Parser) parseExpression() core.Expr {
	return p.parseExpressionWithPrecedence(precNone + 1)
}

func (p *Parser) parseExpressionWithPrecedence(minPrecedence int) core.Expr {
	left := p.parsePrefixExpr()
	if left == nil {
		return nil
	}

	for {
		prec := infixPrecedence(p.token.Type)
		if prec < minPrecedence {
			break
		}
		left = p.parseInfixExpr(left, prec)
		if left == nil {
			break
		}
	}

	return left
}

// parsePrefixExpr parses unary operators and primary expressions.
func (p *Parser) parsePrefixExpr() core.Expr {
	pos := p.token.Pos
	switch p.token.Type {
	case token.NOT:
		p.nextToken()
		expr := p.parseExpressionWithPrecedence(precNot)
		return &core.UnaryExpr{NodeInfo: core.NodeInfo{Start: pos}, Op: token.NOT, Expr: expr}

	case token.MINUS:
		p.nextToken()
		expr := p.parseExpressionWithPrecedence(precUnary)
		return &core.UnaryExpr{NodeInfo: core.NodeInfo{Start: pos}, Op: token.MINUS, Expr: expr}

	case token.PLUS:
		p.nextToken()
		return p.parseExpressionWithPrecedence(precUnary)

	default:
		return p.parsePrimary()
	}
}

// infixPrecedence returns the precedence of t as an infix operator, or
// precNone if it is not one.
func infixPrecedence(t token.TokenType) int {
	switch t {
	case token.OR:
		return precOr
	case token.AND:
		return precAnd
	case token.EQ, token.NE, token.LT, token.GT, token.LE, token.GE,
		token.IS, token.IN, token.BETWEEN, token.LIKE, token.NOT:
		return precComparison
	case token.PLUS, token.MINUS, token.DPIPE:
		return precAddition
	case token.STAR, token.SLASH, token.PERCENT:
		return precMultiply
	default:
		return precNone
	}
}

func (p *Parser) parseInfixExpr(left core.Expr, prec int) core.Expr {
	switch p.token.Type {
	case token.NOT:
		return p.parseNotInfixExpr(left)

	case token.IS:
		return p.parseIsExpr(left)

	case token.IN:
		p.nextToken()
		return p.parseInExpr(left, false)

	case token.BETWEEN:
		p.nextToken()
		return p.parseBetweenExpr(left, false)

	case token.LIKE:
		p.nextToken()
		return p.parseLikeExpr(left, false)
	}

	op := p.token
	p.nextToken()

	// left-associative
	right := p.parseExpressionWithPrecedence(prec + 1)
	return &core.BinaryExpr{Left: left, Op: op.Type, Right: right}
}

// parseNotInfixExpr handles NOT IN, NOT BETWEEN and NOT LIKE.
func (p *Parser) parseNotInfixExpr(left core.Expr) core.Expr {
	p.nextToken() // consume NOT

	switch p.token.Type {
	case token.IN:
		p.nextToken()
		return p.parseInExpr(left, true)
	case token.BETWEEN:
		p.nextToken()
		return p.parseBetweenExpr(left, true)
	case token.LIKE:
		p.nextToken()
		return p.parseLikeExpr(left, true)
	default:
		p.addError("expected IN, BETWEEN or LIKE after NOT")
		return nil
	}
}

// parseIsExpr parses IS [NOT] NULL.
func (p *Parser) parseIsExpr(left core.Expr) core.Expr {
	p.nextToken() // consume IS

	isNot := p.match(token.NOT)
	if !p.expect(token.NULL) {
		return nil
	}
	return &core.IsNullExpr{Expr: left, Not: isNot}
}

func (p *Parser) parseInExpr(left core.Expr, not bool) core.Expr {
	p.expect(token.LPAREN)
	in := &core.InExpr{Expr: left, Not: not, Values: p.parseExpressionList()}
	p.expect(token.RPAREN)
	return in
}

func (p *Parser) parseBetweenExpr(left core.Expr, not bool) core.Expr {
	between := &core.BetweenExpr{Expr: left, Not: not}
	// Bounds are parsed at addition precedence to avoid capturing AND
	between.Low = p.parseExpressionWithPrecedence(precAddition)
	p.expect(token.AND)
	between.High = p.parseExpressionWithPrecedence(precAddition)
	return between
}

func (p *Parser) parseLikeExpr(left core.Expr, not bool) core.Expr {
	return &core.LikeExpr{Expr: left, Not: not, Pattern: p.parseExpressionWithPrecedence(precAddition)}
}
