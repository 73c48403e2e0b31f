package parser

import (
	"fmt"

	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/leapstack-labs/leapquery/pkg/token"
)

// ParseError represents a parsing error with position information.
type ParseError struct {
	Pos     token.Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Is matches core.ErrInvalidArgument: a malformed query is bad input.
func (e *ParseError) Is(target error) bool {
	return target == core.ErrInvalidArgument
}

// LexError represents a lexical analysis error.
type LexError struct {
	Pos     token.Position
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Is matches core.ErrInvalidArgument.
func (e *LexError) Is(target error) bool {
	return target == core.ErrInvalidArgument
}

// Common error messages
const (
	ErrUnexpectedToken    = "unexpected token %s, expected %s"
	ErrUnterminatedString = "unterminated string literal"
	ErrPositionalParam    = "positional parameters are not supported, use :name"
	ErrTrailingInput      = "unexpected %s after end of query"
	ErrNestedPath         = "attribute path %q is too deep, only alias.attribute is supported"
)
