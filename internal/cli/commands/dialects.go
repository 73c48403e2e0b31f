package commands

import (
	"github.com/leapstack-labs/leapquery/internal/cli/output"
	"github.com/leapstack-labs/leapquery/pkg/dialect"
	"github.com/spf13/cobra"
)

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List dialects and their capabilities",
		Long: `List the compiled-in SQL dialects with how each expresses ordered-set
aggregates (native, window_only, emulated or unsupported), whether it has
FILTER and NULLS FIRST/LAST syntax, and where it sorts NULLs by default.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			return renderDialects(cmdCtx.Renderer, dialect.Describe())
		},
	}
}

func renderDialects(r *output.Renderer, infos []dialect.Info) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(infos)
	case output.ModeYAML:
		return r.YAML(infos)
	}

	cols := []string{"dialect", "listagg", "percentile_disc", "percent_rank", "filter", "nulls first/last", "default nulls", "placeholder"}
	rows := make([][]any, len(infos))
	for i, d := range infos {
		rows[i] = []any{
			d.Name,
			d.StringAggregation,
			d.InverseDistribution,
			d.HypotheticalSet,
			d.AggregateFilter,
			d.NullsOrdering,
			d.DefaultNulls,
			d.Placeholder,
		}
	}
	return r.Rows(cols, rows)
}
