// Package token defines the lexical tokens of the entity query language.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENT    // identifier
	NUMBER   // 123, 45.67, 1e10
	STRING   // 'hello'
	PARAM    // :name
	QUESTION // ? (positional, rejected by the parser)

	// Operators
	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	PERCENT // %
	DPIPE   // ||
	EQ      // =
	NE      // != or <>
	LT      // <
	GT      // >
	LE      // <=
	GE      // >=
	DOT     // .
	COMMA   // ,
	LPAREN  // (
	RPAREN  // )

	// Keywords (alphabetical)
	ALL
	AND
	AS
	ASC
	BETWEEN
	BY
	CASE
	CAST
	DESC
	DISTINCT
	ELSE
	END
	FALSE
	FILTER
	FIRST
	FROM
	GROUP
	HAVING
	IN
	IS
	LAST
	LIKE
	LIMIT
	NOT
	NULL
	NULLS
	OFFSET
	OR
	ORDER
	OVER
	PARTITION
	SELECT
	THEN
	TRUE
	WHEN
	WHERE
	WITHIN
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:    "IDENT",
	NUMBER:   "NUMBER",
	STRING:   "STRING",
	PARAM:    "PARAM",
	QUESTION: "?",

	PLUS:    "+",
	MINUS:   "-",
	STAR:    "*",
	SLASH:   "/",
	PERCENT: "%",
	DPIPE:   "||",
	EQ:      "=",
	NE:      "<>",
	LT:      "<",
	GT:      ">",
	LE:      "<=",
	GE:      ">=",
	DOT:     ".",
	COMMA:   ",",
	LPAREN:  "(",
	RPAREN:  ")",

	ALL:       "ALL",
	AND:       "AND",
	AS:        "AS",
	ASC:       "ASC",
	BETWEEN:   "BETWEEN",
	BY:        "BY",
	CASE:      "CASE",
	CAST:      "CAST",
	DESC:      "DESC",
	DISTINCT:  "DISTINCT",
	ELSE:      "ELSE",
	END:       "END",
	FALSE:     "FALSE",
	FILTER:    "FILTER",
	FIRST:     "FIRST",
	FROM:      "FROM",
	GROUP:     "GROUP",
	HAVING:    "HAVING",
	IN:        "IN",
	IS:        "IS",
	LAST:      "LAST",
	LIKE:      "LIKE",
	LIMIT:     "LIMIT",
	NOT:       "NOT",
	NULL:      "NULL",
	NULLS:     "NULLS",
	OFFSET:    "OFFSET",
	OR:        "OR",
	ORDER:     "ORDER",
	OVER:      "OVER",
	PARTITION: "PARTITION",
	SELECT:    "SELECT",
	THEN:      "THEN",
	TRUE:      "TRUE",
	WHEN:      "WHEN",
	WHERE:     "WHERE",
	WITHIN:    "WITHIN",
}

// keywords maps lowercase keyword strings to their token types.
var keywords = map[string]TokenType{
	"all":       ALL,
	"and":       AND,
	"as":        AS,
	"asc":       ASC,
	"between":   BETWEEN,
	"by":        BY,
	"case":      CASE,
	"cast":      CAST,
	"desc":      DESC,
	"distinct":  DISTINCT,
	"else":      ELSE,
	"end":       END,
	"false":     FALSE,
	"filter":    FILTER,
	"first":     FIRST,
	"from":      FROM,
	"group":     GROUP,
	"having":    HAVING,
	"in":        IN,
	"is":        IS,
	"last":      LAST,
	"like":      LIKE,
	"limit":     LIMIT,
	"not":       NOT,
	"null":      NULL,
	"nulls":     NULLS,
	"offset":    OFFSET,
	"or":        OR,
	"order":     ORDER,
	"over":      OVER,
	"partition": PARTITION,
	"select":    SELECT,
	"then":      THEN,
	"true":      TRUE,
	"when":      WHEN,
	"where":     WHERE,
	"within":    WITHIN,
}

// LookupIdent returns the keyword token type for a lowercase identifier,
// or IDENT when it is not a keyword.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token type is a keyword.
func IsKeyword(t TokenType) bool {
	return t >= ALL && t <= WITHIN
}

// IsComparison returns true for the binary comparison operators.
func IsComparison(t TokenType) bool {
	return t >= EQ && t <= GE
}

// Position represents a location in the query text.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
	Offset int // 0-based byte offset
}

// IsValid returns true if the position is valid (line > 0).
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}
