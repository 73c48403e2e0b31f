package commands

import (
	"strings"

	"github.com/leapstack-labs/leapquery/internal/browse"
	"github.com/leapstack-labs/leapquery/internal/cli/output"
	"github.com/spf13/cobra"
)

// PageOptions holds options for the page command.
type PageOptions struct {
	Order  string
	Size   int
	Cursor string
	All    bool
	Params map[string]string
}

// NewPageCommand creates the page command.
func NewPageCommand() *cobra.Command {
	opts := &PageOptions{}

	cmd := &cobra.Command{
		Use:   "page HQL",
		Short: "Read an entity query one keyset page at a time",
		Long: `Read one page of an entity query using keyset pagination.

Pages are ordered by --order (the entity identifier by default). The
cursor printed after each page resumes strictly after its last row, so
rows inserted or deleted between calls never shift the pages.`,
		Example: `  # First page of five, youngest first
  leapquery page "from Person p" --order dob:desc,id --size 5

  # Continue from a cursor
  leapquery page "from Person p" --cursor eyJzIjo1...

  # Every page
  leapquery page "from Person p where p.lastName = :name" --param name=Doe --all`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPage(cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Order, "order", "", "Order terms: attr[:asc|desc][:nulls_first|nulls_last],...")
	cmd.Flags().IntVar(&opts.Size, "size", 0, "Rows per page (default page.size)")
	cmd.Flags().StringVar(&opts.Cursor, "cursor", "", "Continue from a cursor printed by a previous page")
	cmd.Flags().BoolVar(&opts.All, "all", false, "Follow next cursors until the last page")
	cmd.Flags().StringToStringVarP(&opts.Params, "param", "p", nil, "Bind a named parameter (name=value)")

	return cmd
}

func runPage(cmd *cobra.Command, hql string, opts *PageOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	f, cleanup, err := cmdCtx.OpenFactory(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	s := f.Open()
	defer func() { _ = s.Close() }()

	req := browse.PageRequest{
		HQL:    hql,
		Params: browse.ParseParams(opts.Params),
		Order:  opts.Order,
		Size:   opts.Size,
		Cursor: opts.Cursor,
	}
	r := cmdCtx.Renderer
	for {
		res, err := browse.Page(cmd.Context(), s, req)
		if err != nil {
			return err
		}
		if err := renderPage(r, res); err != nil {
			return err
		}
		if !opts.All || res.NextCursor == "" {
			return nil
		}
		req.Cursor = res.NextCursor
	}
}

// renderPage prints a page. Structured modes carry the cursors inline;
// the others print them as status lines so piped rows stay clean.
func renderPage(r *output.Renderer, res *browse.PageResult) error {
	switch r.EffectiveMode() {
	case output.ModeJSON, output.ModeYAML:
		doc := map[string]any{
			"page": res.Number,
			"rows": res.Records(),
		}
		if res.NextCursor != "" {
			doc["next_cursor"] = res.NextCursor
		}
		if res.PreviousCursor != "" {
			doc["previous_cursor"] = res.PreviousCursor
		}
		if r.EffectiveMode() == output.ModeJSON {
			return r.JSON(doc)
		}
		return r.YAML(doc)
	}

	st := r.Styles()
	r.Status(st.Header, "Page %d", res.Number)
	if err := r.Rows(res.Columns, res.Rows); err != nil {
		return err
	}
	if res.PreviousCursor != "" {
		r.Status(st.Muted, "previous: %s", res.PreviousCursor)
	}
	if res.NextCursor != "" {
		r.Status(st.Success, "next: %s", res.NextCursor)
	} else {
		r.Status(st.Muted, "last page (%d rows)", len(res.Rows))
	}
	return nil
}
