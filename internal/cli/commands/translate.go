package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapquery/internal/cli/output"
	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/leapstack-labs/leapquery/pkg/paging"
	"github.com/leapstack-labs/leapquery/pkg/parser"
	"github.com/spf13/cobra"
)

// TranslateOptions holds options for the translate command.
type TranslateOptions struct {
	Order  string
	Size   int
	Cursor string
}

// NewTranslateCommand creates the translate command.
func NewTranslateCommand() *cobra.Command {
	opts := &TranslateOptions{}

	cmd := &cobra.Command{
		Use:   "translate HQL",
		Short: "Print the SQL an entity query translates to",
		Long: `Translate an entity query to the SQL of a dialect without connecting
to a database.

The dialect comes from dialect.name (or --dialect), falling back to the
target type. With --order or --cursor the keyset page query is printed
instead of the base query.`,
		Example: `  leapquery translate "select listagg(p.ssn, ',') within group (order by p.id) from Person p" --dialect mysql
  leapquery translate "from Person p" --order dob:desc,id --size 10 --dialect postgres`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().String("dialect", "", "Dialect to translate for")
	cmd.Flags().String("nulls", "", "Default null precedence (first|last)")
	cmd.Flags().StringVar(&opts.Order, "order", "", "Translate a keyset page with these order terms")
	cmd.Flags().IntVar(&opts.Size, "size", 0, "Page size for --order (default page.size)")
	cmd.Flags().StringVar(&opts.Cursor, "cursor", "", "Translate the page a cursor continues to")

	return cmd
}

func runTranslate(cmd *cobra.Command, hql string, opts *TranslateOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	tr, err := cmdCtx.Translator()
	if err != nil {
		return err
	}

	q, err := parser.Parse(strings.TrimSuffix(strings.TrimSpace(hql), ";"))
	if err != nil {
		return err
	}

	var page *paging.KeyedPage
	switch {
	case opts.Cursor != "":
		p, err := paging.DecodeKeyedPage(opts.Cursor)
		if err != nil {
			return err
		}
		page = &p
	case opts.Order != "":
		orders, err := paging.ParseOrders(q.From.Entity, opts.Order)
		if err != nil {
			return err
		}
		size := opts.Size
		if size == 0 {
			size = cmdCtx.Cfg.Page.Size
		}
		p := paging.First(size).KeyedBy(orders...)
		page = &p
	}

	var keyParams map[string]any
	if page != nil {
		mm, err := cmdCtx.Metamodel()
		if err != nil {
			return err
		}
		entity, ok := mm.Entity(q.From.Entity)
		if !ok {
			return &core.SchemaError{Entity: q.From.Entity}
		}
		plan, err := paging.BuildPlan(q, entity, *page, tr)
		if err != nil {
			return err
		}
		q, keyParams = plan.Query, plan.Params
	}

	stmt, err := tr.Translate(q)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	params := make([]string, len(stmt.Params))
	for i, name := range stmt.Params {
		p := ":" + name
		if v, ok := keyParams[name]; ok {
			p = fmt.Sprintf("%s = %v", p, v)
		}
		params[i] = p
	}
	mode := r.EffectiveMode()
	if mode == output.ModeJSON || mode == output.ModeYAML {
		doc := map[string]any{
			"dialect": tr.Dialect().Name,
			"sql":     stmt.SQL,
			"params":  stmt.Params,
		}
		if mode == output.ModeJSON {
			return r.JSON(doc)
		}
		return r.YAML(doc)
	}

	r.Println(stmt.SQL)
	if len(params) > 0 {
		r.Status(r.Styles().Muted, "-- dialect %s, parameters: %s", tr.Dialect().Name, strings.Join(params, ", "))
	}
	return nil
}
