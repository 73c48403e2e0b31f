package sqlserver

import (
	"log/slog"

	"github.com/leapstack-labs/leapquery/pkg/adapter"
)

func init() {
	adapter.Register("sqlserver", func(l *slog.Logger) adapter.Adapter { return New(l) })
}
