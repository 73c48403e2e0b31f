package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/leapstack-labs/leapquery/internal/browse"
	"github.com/leapstack-labs/leapquery/internal/cli/output"
	"github.com/leapstack-labs/leapquery/pkg/session"
	"github.com/spf13/cobra"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Input  string
	Params map[string]string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [HQL]",
		Short: "Run an entity query",
		Long: `Run an entity query against the configured target and print the rows.

Entities are declared in leapquery.yaml. A query without a select clause
returns whole entities; otherwise the selected values are printed.

When invoked without arguments on a terminal, enters interactive REPL mode.`,
		Example: `  # Whole entities
  leapquery query "from Person p where p.lastName = :name" --param name=Doe

  # Ordered-set aggregates
  leapquery query "select listagg(p.ssn, ',') within group (order by p.id) from Person p"

  # Output as JSON
  leapquery query "from Person p" -o json

  # Interactive mode
  leapquery query`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read the query from file")
	cmd.Flags().StringToStringVarP(&opts.Params, "param", "p", nil, "Bind a named parameter (name=value)")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	// Determine query source
	var hql string
	switch {
	case len(args) > 0:
		hql = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		hql = string(content)
	case !output.IsTerminal(os.Stdin):
		// Read from stdin (piped input)
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		hql = string(content)
	}

	f, cleanup, err := cmdCtx.OpenFactory(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	s := f.Open()
	defer func() { _ = s.Close() }()

	if strings.TrimSpace(hql) == "" {
		// No input, TTY detected - enter REPL mode
		return runQueryREPL(cmd, cmdCtx, s, opts)
	}
	return executeAndRender(cmd, cmdCtx, s, hql, browse.ParseParams(opts.Params))
}

func executeAndRender(cmd *cobra.Command, cmdCtx *CommandContext, s *session.Session, hql string, params map[string]any) error {
	hql = strings.TrimSuffix(strings.TrimSpace(hql), ";")
	rs, err := browse.Run(cmd.Context(), s, hql, params)
	if err != nil {
		return err
	}
	return cmdCtx.Renderer.Rows(rs.Columns, rs.Rows)
}
