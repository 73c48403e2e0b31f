package oracle

import (
	"log/slog"

	"github.com/leapstack-labs/leapquery/pkg/adapter"
)

func init() {
	adapter.Register("oracle", func(l *slog.Logger) adapter.Adapter { return New(l) })
}
