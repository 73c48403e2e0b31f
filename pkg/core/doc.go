// Package core defines the shared language of the LeapQuery system.
//
// This package contains:
//   - The query AST (Node, Expr, Query)
//   - Entity descriptors (Entity, Attribute)
//   - Dialect configuration and capability records
//   - The error taxonomy shared by parser, translator and paginator
//
// The Golden Rule: pkg/core imports ONLY pkg/token and stdlib.
// All other packages depend on core, not the reverse.
package core
