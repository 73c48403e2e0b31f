package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/leapquery/internal/browse"
	"github.com/leapstack-labs/leapquery/pkg/session"
	"github.com/spf13/cobra"
)

const (
	replPrompt     = "leapquery> "
	replContPrompt = "      ...> "
)

func runQueryREPL(cmd *cobra.Command, cmdCtx *CommandContext, s *session.Session, opts *QueryOptions) error {
	// Setup history file next to the config, or in the home directory
	historyDir := filepath.Dir(cmdCtx.Cfg.File)
	if cmdCtx.Cfg.File == "" {
		historyDir, _ = os.UserHomeDir()
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     filepath.Join(historyDir, ".leapquery_history"),
		AutoComplete:    newEntityCompleter(s),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "LeapQuery REPL (%s, session %s)\n", s.Factory().Dialect().Name, s.ID())
	_, _ = fmt.Fprintln(out, "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(out)

	params := map[string]string{}
	for k, v := range opts.Params {
		params[k] = v
	}

	var multiLineBuffer strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			multiLineBuffer.Reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if multiLineBuffer.Len() == 0 && strings.HasPrefix(line, ".") {
			if quit := handleDotCommand(cmd, cmdCtx, s, line, params); quit {
				break
			}
			continue
		}

		// Accumulate multi-line queries until semicolon
		multiLineBuffer.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			multiLineBuffer.WriteString(" ")
			rl.SetPrompt(replContPrompt)
			continue
		}
		rl.SetPrompt(replPrompt)

		hql := multiLineBuffer.String()
		multiLineBuffer.Reset()

		if err := executeAndRender(cmd, cmdCtx, s, hql, browse.ParseParams(params)); err != nil {
			cmdCtx.Renderer.Status(cmdCtx.Renderer.Styles().Error, "Error: %v", err)
		}
		_, _ = fmt.Fprintln(out)
	}

	return nil
}

// handleDotCommand runs a REPL command and reports whether to quit.
func handleDotCommand(cmd *cobra.Command, cmdCtx *CommandContext, s *session.Session, line string, params map[string]string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])
	r := cmdCtx.Renderer
	styles := r.Styles()

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(cmd.OutOrStdout())

	case ".entities":
		rows := [][]any{}
		for _, e := range s.Factory().Models().Entities() {
			rows = append(rows, []any{e.Name, e.Table, len(e.Attributes)})
		}
		if err := r.Rows([]string{"entity", "table", "attributes"}, rows); err != nil {
			r.Status(styles.Error, "Error: %v", err)
		}

	case ".describe":
		if len(parts) < 2 {
			r.Status(styles.Warning, "Usage: .describe <entity>")
			break
		}
		e, ok := s.Entity(parts[1])
		if !ok {
			r.Status(styles.Error, "Error: unknown entity %q", parts[1])
			break
		}
		rows := make([][]any, len(e.Attributes))
		for i, a := range e.Attributes {
			rows[i] = []any{a.Name, a.Column, a.Type.String(), e.Nullable(&e.Attributes[i]), a.Name == e.ID}
		}
		if err := r.Rows([]string{"attribute", "column", "type", "nullable", "id"}, rows); err != nil {
			r.Status(styles.Error, "Error: %v", err)
		}

	case ".sql":
		if len(parts) < 2 {
			r.Status(styles.Warning, "Usage: .sql <query>")
			break
		}
		stmt, err := s.Factory().Translate(strings.TrimSuffix(strings.TrimSpace(line[len(parts[0]):]), ";"))
		if err != nil {
			r.Status(styles.Error, "Error: %v", err)
			break
		}
		r.Println(stmt.SQL)

	case ".set":
		if len(parts) != 3 {
			r.Status(styles.Warning, "Usage: .set <name> <value>")
			break
		}
		params[strings.TrimPrefix(parts[1], ":")] = parts[2]

	case ".params":
		for k, v := range params {
			r.Printf(":%s = %s\n", k, v)
		}

	case ".clear":
		_, _ = fmt.Fprint(cmd.OutOrStdout(), "\033[H\033[2J")

	default:
		r.Status(styles.Warning, "Unknown command: %s (type .help for commands)", command)
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help               Show this help message
  .entities           List configured entities
  .describe <entity>  Show the attributes of an entity
  .sql <query>        Print the SQL a query translates to
  .set <name> <value> Bind a named parameter for later queries
  .params             Show bound parameters
  .clear              Clear the screen
  .quit / .exit       Exit the REPL

Tips:
  - Queries must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completion works for entity names
`
	_, _ = fmt.Fprintln(w, help)
}

// newEntityCompleter creates a readline completer for entity names.
func newEntityCompleter(s *session.Session) *readline.PrefixCompleter {
	var entities []readline.PrefixCompleterInterface
	for _, e := range s.Factory().Models().Entities() {
		entities = append(entities, readline.PcItem(e.Name))
	}

	items := []readline.PrefixCompleterInterface{
		readline.PcItem("from", entities...),
		readline.PcItem("select"),
		readline.PcItem(".help"),
		readline.PcItem(".entities"),
		readline.PcItem(".describe", entities...),
		readline.PcItem(".sql"),
		readline.PcItem(".set"),
		readline.PcItem(".params"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	}
	return readline.NewPrefixCompleter(items...)
}
