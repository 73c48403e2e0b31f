package parser

import (
	"fmt"

	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/leapstack-labs/leapquery/pkg/token"
)

// Statement parsing: the clauses of a query.

func (p *Parser) parseQuery() *core.Query {
	q := &core.Query{NodeInfo: core.NodeInfo{Start: p.token.Pos}}

	if p.match(token.SELECT) {
		q.Distinct = p.match(token.DISTINCT)
		q.Select = p.parseSelectList()
	}

	if !p.expect(token.FROM) {
		return q
	}
	q.From = p.parseEntityRef()

	if p.match(token.WHERE) {
		q.Where = p.parseExpression()
	}

	if p.match(token.GROUP) {
		p.expect(token.BY)
		q.GroupBy = p.parseExpressionList()
	}

	if p.match(token.HAVING) {
		q.Having = p.parseExpression()
	}

	if p.match(token.ORDER) {
		p.expect(token.BY)
		q.OrderBy = p.parseOrderByList()
	}

	if p.match(token.LIMIT) {
		q.Limit = p.parseExpression()
	}

	if p.match(token.OFFSET) {
		q.Offset = p.parseExpression()
	}

	if !p.check(token.EOF) && !p.failed() {
		p.addError(fmt.Sprintf(ErrTrailingInput, describe(p.token)))
	}
	return q
}

// parseSelectList parses: expr [[AS] alias] ("," expr [[AS] alias])*
func (p *Parser) parseSelectList() []core.SelectItem {
	var items []core.SelectItem
	for {
		item := core.SelectItem{Expr: p.parseExpression()}
		if p.match(token.AS) {
			item.Alias = p.parseAlias()
		} else if p.check(token.IDENT) {
			item.Alias = p.parseAlias()
		}
		items = append(items, item)

		if !p.match(token.COMMA) {
			break
		}
	}
	return items
}

// parseEntityRef parses: entity [[AS] alias]
func (p *Parser) parseEntityRef() core.EntityRef {
	ref := core.EntityRef{NodeInfo: core.NodeInfo{Start: p.token.Pos}}
	if !p.check(token.IDENT) {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "entity name"))
		return ref
	}
	ref.Entity = p.token.Literal
	p.nextToken()

	if p.match(token.AS) {
		ref.Alias = p.parseAlias()
	} else if p.check(token.IDENT) && !isClauseKeyword(p.token.Type) {
		ref.Alias = p.parseAlias()
	}
	return ref
}

func (p *Parser) parseAlias() string {
	if !p.check(token.IDENT) {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "alias"))
		return ""
	}
	alias := p.token.Literal
	p.nextToken()
	return alias
}

// parseExpressionList parses a comma-separated list of expressions.
func (p *Parser) parseExpressionList() []core.Expr {
	var exprs []core.Expr
	for {
		exprs = append(exprs, p.parseExpression())
		if !p.match(token.COMMA) {
			break
		}
	}
	return exprs
}

// parseOrderByList parses: order_item ("," order_item)*
func (p *Parser) parseOrderByList() []core.OrderByItem {
	var items []core.OrderByItem
	for {
		items = append(items, p.parseOrderByItem())
		if !p.match(token.COMMA) {
			break
		}
	}
	return items
}

// parseOrderByItem parses: expr [ASC|DESC] [NULLS FIRST|LAST]
func (p *Parser) parseOrderByItem() core.OrderByItem {
	item := core.OrderByItem{Expr: p.parseExpression()}

	if p.match(token.DESC) {
		item.Desc = true
	} else {
		p.match(token.ASC)
	}

	if p.match(token.NULLS) {
		switch {
		case p.match(token.FIRST):
			item.Nulls = core.NullsFirst
		case p.match(token.LAST):
			item.Nulls = core.NullsLast
		default:
			p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "FIRST or LAST"))
		}
	}
	return item
}
