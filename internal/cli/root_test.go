package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/leapquery/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/leapstack-labs/leapquery/pkg/adapters/all"
)

// run executes the root command with args and returns stdout and stderr.
func run(t *testing.T, stdin io.Reader, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func projectConfig(t *testing.T) string {
	t.Helper()
	return filepath.Join(testutil.SetupTestProject(t), "leapquery.yaml")
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, nil, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "LeapQuery v"+Version)
	assert.Contains(t, out, "sqlite")
}

func TestHelpCommand(t *testing.T) {
	out, _, err := run(t, nil, "--help")
	require.NoError(t, err)
	for _, want := range []string{"query", "page", "translate", "dialects", "serve", "completion"} {
		assert.Contains(t, out, want)
	}
}

func TestCompletionCommand(t *testing.T) {
	out, _, err := run(t, nil, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "leapquery")
}

func TestQueryCommand(t *testing.T) {
	cfg := projectConfig(t)

	t.Run("entities as csv", func(t *testing.T) {
		out, _, err := run(t, nil, "query", "from Person p where p.lastName = :name",
			"--param", "name=Doe", "-o", "csv", "--config", cfg)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 6)
		assert.Equal(t, "id,ssn,lastName,dob", lines[0])
		assert.Equal(t, "2,002,Doe,1980-01-02", lines[1])
	})

	t.Run("tuples as json", func(t *testing.T) {
		out, _, err := run(t, nil, "query",
			"select listagg(p.ssn, ',') within group (order by p.id) from Person p where p.id <= 3",
			"-o", "json", "--config", cfg)
		require.NoError(t, err)
		var got []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		require.Len(t, got, 1)
		for _, v := range got[0] {
			assert.Equal(t, "001,002,003", v)
		}
	})

	t.Run("markdown from stdin", func(t *testing.T) {
		out, _, err := run(t, strings.NewReader("from Person p where p.id = 1;\n"), "query", "--config", cfg)
		require.NoError(t, err)
		testutil.AssertValidMarkdownTable(t, out)
		testutil.AssertNoANSI(t, out)
		assert.Contains(t, out, "001")
	})

	t.Run("parse error", func(t *testing.T) {
		_, _, err := run(t, nil, "query", "from where", "--config", cfg)
		assert.Error(t, err)
	})

	t.Run("dialect mismatch", func(t *testing.T) {
		t.Setenv("LEAPQUERY_DIALECT__NAME", "postgres")
		_, _, err := run(t, nil, "query", "from Person p", "--config", cfg)
		assert.ErrorContains(t, err, "does not match target")
	})
}

type pageDoc struct {
	Page           int              `json:"page"`
	Rows           []map[string]any `json:"rows"`
	NextCursor     string           `json:"next_cursor"`
	PreviousCursor string           `json:"previous_cursor"`
}

func TestPageCommand(t *testing.T) {
	cfg := projectConfig(t)

	out, _, err := run(t, nil, "page", "from Person p", "--order", "dob:desc", "--size", "3", "-o", "json", "--config", cfg)
	require.NoError(t, err)
	var first pageDoc
	require.NoError(t, json.Unmarshal([]byte(out), &first))
	assert.Equal(t, 0, first.Page)
	require.Len(t, first.Rows, 3)
	assert.Equal(t, "010", first.Rows[0]["ssn"])
	require.NotEmpty(t, first.NextCursor)
	assert.Empty(t, first.PreviousCursor)

	out, _, err = run(t, nil, "page", "from Person p", "--cursor", first.NextCursor, "-o", "json", "--config", cfg)
	require.NoError(t, err)
	var second pageDoc
	require.NoError(t, json.Unmarshal([]byte(out), &second))
	assert.Equal(t, 1, second.Page)
	assert.Equal(t, "007", second.Rows[0]["ssn"])
	assert.NotEmpty(t, second.PreviousCursor)
}

func TestPageCommand_All(t *testing.T) {
	cfg := projectConfig(t)

	out, errOut, err := run(t, nil, "page", "from Person p where p.lastName = :name", "--param", "name=Roe", "--all", "-o", "json", "--config", cfg)
	require.NoError(t, err)
	assert.Empty(t, errOut)

	var ssns []any
	pages := 0
	dec := json.NewDecoder(strings.NewReader(out))
	for {
		var doc pageDoc
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		pages++
		for _, r := range doc.Rows {
			ssns = append(ssns, r["ssn"])
		}
	}
	assert.Equal(t, 2, pages, "config page.size is 4")
	assert.Equal(t, []any{"001", "003", "005", "007", "009"}, ssns)
}

func TestPageCommand_StatusLines(t *testing.T) {
	cfg := projectConfig(t)

	out, errOut, err := run(t, nil, "page", "from Person p", "--size", "4", "--config", cfg)
	require.NoError(t, err)
	testutil.AssertValidMarkdownTable(t, out)
	assert.Contains(t, errOut, "Page 0")
	assert.Contains(t, errOut, "next: ")
}

func TestTranslateCommand(t *testing.T) {
	cfg := projectConfig(t)

	t.Run("postgres placeholders", func(t *testing.T) {
		out, errOut, err := run(t, nil, "translate", "from Person p where p.ssn = :ssn", "--dialect", "postgres", "--config", cfg)
		require.NoError(t, err)
		assert.Equal(t, "select p1_0.id, p1_0.ssn, p1_0.last_name, p1_0.dob from person p1_0 where p1_0.ssn = $1\n", out)
		assert.Contains(t, errOut, ":ssn")
	})

	t.Run("keyset page", func(t *testing.T) {
		out, _, err := run(t, nil, "translate", "from Person p", "--order", "dob:desc:nulls_last", "--size", "5", "--dialect", "postgres", "--config", cfg)
		require.NoError(t, err)
		assert.Contains(t, out, "order by p1_0.dob desc nulls last")
		assert.Contains(t, out, "limit 6", "page size plus one lookahead row")
	})

	t.Run("translation-only dialect", func(t *testing.T) {
		out, _, err := run(t, nil, "translate", "select listagg(p.ssn, ',') within group (order by p.id) from Person p",
			"--dialect", "snowflake", "--config", cfg)
		require.NoError(t, err)
		assert.Equal(t, "select listagg(p1_0.ssn, ',') within group (order by p1_0.id) from person p1_0\n", out)
	})

	t.Run("json", func(t *testing.T) {
		out, _, err := run(t, nil, "translate", "from Person p where p.id = :id", "-o", "json", "--config", cfg)
		require.NoError(t, err)
		var doc map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &doc))
		assert.Equal(t, "sqlite", doc["dialect"])
		assert.Equal(t, []any{"id"}, doc["params"])
	})
}

func TestDialectsCommand(t *testing.T) {
	out, _, err := run(t, nil, "dialects", "-o", "json", "--config", projectConfig(t))
	require.NoError(t, err)

	var infos []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	var names []string
	for _, d := range infos {
		names = append(names, d["name"].(string))
	}
	assert.Subset(t, names, []string{"duckdb", "mysql", "oracle", "postgres", "sqlite", "sqlserver"})
}

func TestConfigErrors(t *testing.T) {
	_, _, err := run(t, nil, "dialects", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "error reading config file")

	_, _, err = run(t, nil, "dialects", "--config", projectConfig(t), "--target", "snowflake")
	assert.ErrorContains(t, err, "unknown adapter type")

	_, _, err = run(t, nil, "dialects", "--config", projectConfig(t), "-o", "xml")
	assert.ErrorContains(t, err, "unknown output format")
}
