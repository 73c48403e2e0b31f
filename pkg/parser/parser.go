// Package parser parses the entity query language into a core.Query.
//
// # Usage
//
//	q, err := parser.Parse("from Person p where p.dob > :dob")
//	if err != nil {
//	    // errors.Is(err, core.ErrInvalidArgument) holds for every parse error
//	}
//
// # Grammar Overview
//
//	query         → [SELECT [DISTINCT] select_list] FROM entity [[AS] alias]
//	                [WHERE expr] [GROUP BY expr_list] [HAVING expr]
//	                [ORDER BY order_list] [LIMIT expr] [OFFSET expr]
//	select_list   → expr [[AS] alias] ("," expr [[AS] alias])*
//	order_list    → expr [ASC|DESC] [NULLS (FIRST|LAST)] ("," ...)*
//
// Names in the query are entity and attribute names, not tables and columns;
// the translator resolves them against the metamodel.
//
// See each file for detailed grammar rules for that section.
package parser

import (
	"fmt"

	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/leapstack-labs/leapquery/pkg/token"
)

// Parser parses an entity query into an AST.
type Parser struct {
	lexer  *Lexer
	token  token.Token // current token
	peek   token.Token // lookahead token
	errors []error
}

// NewParser creates a new parser for the given query text.
func NewParser(input string) *Parser {
	p := &Parser{lexer: NewLexer(input)}
	// Read two tokens to initialize current and peek
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses the query text and returns the AST.
func Parse(input string) (*core.Query, error) {
	p := NewParser(input)
	q := p.parseQuery()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, errs[0]
	}
	return q, nil
}

// Errors returns lexical and syntax errors in the order they were found.
func (p *Parser) Errors() []error {
	if lexErrs := p.lexer.Errors(); len(lexErrs) > 0 {
		return append(append([]error(nil), lexErrs...), p.errors...)
	}
	return p.errors
}

// ---------- Token Helpers ----------

func (p *Parser) nextToken() {
	p.token = p.peek
	p.peek = p.lexer.NextToken()
}

func (p *Parser) check(t token.TokenType) bool {
	return p.token.Type == t
}

func (p *Parser) checkPeek(t token.TokenType) bool {
	return p.peek.Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise adds an error.
func (p *Parser) expect(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), t))
	return false
}

func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, &ParseError{
		Pos:     p.token.Pos,
		Message: msg,
	})
}

func (p *Parser) failed() bool {
	return len(p.errors) > 0 || len(p.lexer.Errors()) > 0
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.IDENT, token.NUMBER:
		return fmt.Sprintf("%s %q", tok.Type, tok.Literal)
	case token.STRING:
		return fmt.Sprintf("string '%s'", tok.Literal)
	case token.PARAM:
		return ":" + tok.Literal
	default:
		return tok.Type.String()
	}
}

// isClauseKeyword returns true if the token starts a new clause, so it
// can't be taken as an alias.
func isClauseKeyword(t token.TokenType) bool {
	switch t {
	case token.FROM, token.WHERE, token.GROUP, token.HAVING, token.ORDER,
		token.LIMIT, token.OFFSET:
		return true
	}
	return false
}
