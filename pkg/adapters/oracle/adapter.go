// Package oracle provides an Oracle database adapter for LeapQuery, backed
// by the pure-Go go-ora driver.
package oracle

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/leapquery/pkg/adapter"
	"github.com/leapstack-labs/leapquery/pkg/dialect"
	oradialect "github.com/leapstack-labs/leapquery/pkg/dialects/oracle"
	goora "github.com/sijms/go-ora/v2"
)

// Adapter implements the adapter.Adapter interface for Oracle.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new Oracle adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{BaseSQLAdapter: adapter.NewBase(logger)}
}

// Dialect returns the Oracle dialect.
func (a *Adapter) Dialect() *dialect.Dialect {
	return oradialect.Oracle
}

// Connect establishes a connection to Oracle. cfg.Database names the
// service.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	a.Logger.Debug("connecting to oracle", slog.String("host", cfg.Host), slog.String("service", cfg.Database))
	return a.Open(ctx, "oracle", buildOracleDSN(cfg), cfg)
}

func buildOracleDSN(cfg adapter.Config) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 1521
	}
	return goora.BuildUrl(host, port, cfg.Database, cfg.Username, cfg.Password, cfg.Options)
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
