package mysql

import (
	"log/slog"

	"github.com/leapstack-labs/leapquery/pkg/adapter"
)

func init() {
	adapter.Register("mysql", func(l *slog.Logger) adapter.Adapter { return New(l) })
}
