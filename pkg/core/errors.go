package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is matching.
var (
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrUnsupportedAggregate = errors.New("unsupported aggregate")
	ErrExecution            = errors.New("execution failed")
)

// InvalidArgumentError reports a rejected input: an empty order spec, a
// non-positive page size, an ORDER BY in a paged query and the like.
type InvalidArgumentError struct {
	Op     string
	Reason string
}

// NewInvalidArgument creates an InvalidArgumentError.
func NewInvalidArgument(op, reason string) *InvalidArgumentError {
	return &InvalidArgumentError{Op: op, Reason: reason}
}

func (e *InvalidArgumentError) Error() string {
	if e.Op == "" {
		return "invalid argument: " + e.Reason
	}
	return fmt.Sprintf("%s: invalid argument: %s", e.Op, e.Reason)
}

// Is matches ErrInvalidArgument.
func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// SchemaError reports a reference to an unknown entity or attribute.
type SchemaError struct {
	Entity    string
	Attribute string
}

func (e *SchemaError) Error() string {
	if e.Attribute == "" {
		return fmt.Sprintf("unknown entity %q", e.Entity)
	}
	return fmt.Sprintf("entity %s has no attribute %q", e.Entity, e.Attribute)
}

// Is matches ErrInvalidArgument.
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// UnsupportedAggregateError reports an aggregate form the active dialect
// cannot express.
type UnsupportedAggregateError struct {
	Kind    string
	Dialect string
	Reason  string
}

func (e *UnsupportedAggregateError) Error() string {
	msg := fmt.Sprintf("aggregate %s is not supported by dialect %s", e.Kind, e.Dialect)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Is matches ErrUnsupportedAggregate.
func (e *UnsupportedAggregateError) Is(target error) bool {
	return target == ErrUnsupportedAggregate
}

// TranslationFailure is an internal lowering error. The translator panics
// with it; it indicates a bug, not bad input.
type TranslationFailure struct {
	Node   Node
	Reason string
}

func (e *TranslationFailure) Error() string {
	if e.Node == nil {
		return "translation failure: " + e.Reason
	}
	return fmt.Sprintf("translation failure at %T (line %d, column %d): %s",
		e.Node, e.Node.Pos().Line, e.Node.Pos().Column, e.Reason)
}

// ExecutionError wraps a failure of the execution port together with the
// generated SQL.
type ExecutionError struct {
	SQL string
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execution failed: %v\nSQL: %s", e.Err, e.SQL)
}

// Unwrap returns the port error.
func (e *ExecutionError) Unwrap() error { return e.Err }

// Is matches ErrExecution.
func (e *ExecutionError) Is(target error) bool {
	return target == ErrExecution
}
