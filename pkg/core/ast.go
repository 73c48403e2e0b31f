package core

import "github.com/leapstack-labs/leapquery/pkg/token"

// Node is the base interface for all AST nodes.
type Node interface {
	// Pos returns the position of the first character of the node.
	// Synthesized nodes report the zero position.
	Pos() token.Position
}

// Expr is a marker interface for expression nodes.
type Expr interface {
	Node
	exprNode()
}

// NodeInfo carries the source position of a parsed node.
type NodeInfo struct {
	Start token.Position
}

// Pos implements Node.
func (n NodeInfo) Pos() token.Position { return n.Start }
