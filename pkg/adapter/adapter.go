// Package adapter provides the execution port: the contract between the
// session layer and a database, and the registry of concrete adapters.
//
// Concrete adapter implementations are in pkg/adapters/ subdirectories and
// register themselves when imported.
package adapter

import (
	"context"

	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/leapstack-labs/leapquery/pkg/dialect"
)

type (
	// Config is an alias for core.AdapterConfig.
	Config = core.AdapterConfig

	// Rows is an alias for core.Rows.
	Rows = core.Rows
)

// Adapter defines the interface that all database adapters must implement.
// Statements carry positional placeholders in the adapter's dialect; args
// are bound in order.
type Adapter interface {
	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Exec executes a statement that doesn't return rows and reports the
	// number of affected rows.
	Exec(ctx context.Context, sql string, args ...any) (int64, error)

	// Query executes a statement that returns rows. The caller closes them.
	Query(ctx context.Context, sql string, args ...any) (*Rows, error)

	// Dialect returns the SQL dialect the adapter's database speaks.
	Dialect() *dialect.Dialect
}
