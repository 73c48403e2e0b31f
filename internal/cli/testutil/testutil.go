// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/leapquery/internal/cli/output"
	"github.com/leapstack-labs/leapquery/pkg/adapter"
	sqliteadapter "github.com/leapstack-labs/leapquery/pkg/adapters/sqlite"
	"github.com/stretchr/testify/require"
)

// ProjectConfig is the leapquery.yaml written by SetupTestProject. The
// database path is filled in with %s.
const ProjectConfig = `target:
  type: sqlite
  database: %s
page:
  size: 4
log:
  level: warn
entities:
  - name: Person
    table: person
    attributes:
      - {name: id, type: integer}
      - {name: ssn, type: string}
      - {name: lastName, column: last_name, type: string, nullable: true}
      - {name: dob, type: date, nullable: true}
`

// SetupTestProject creates a temporary project: a SQLite database with
// ten people and a leapquery.yaml declaring the Person entity. Person i
// has ssn "%03d" of i, last name Doe for even i and Roe otherwise, and
// was born on 1980-01-i. Returns the project directory.
func SetupTestProject(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "people.db")

	adp := sqliteadapter.New(nil)
	require.NoError(t, adp.Connect(ctx, adapter.Config{Path: dbPath}))
	defer func() { _ = adp.Close() }()

	_, err := adp.Exec(ctx, `create table person (id integer primary key, ssn text not null, last_name text, dob date)`)
	require.NoError(t, err)
	for i := 1; i <= 10; i++ {
		name := "Roe"
		if i%2 == 0 {
			name = "Doe"
		}
		_, err := adp.Exec(ctx, "insert into person (id, ssn, last_name, dob) values (?, ?, ?, ?)",
			i, fmt.Sprintf("%03d", i), name, fmt.Sprintf("1980-01-%02d", i))
		require.NoError(t, err)
	}

	cfg := fmt.Sprintf(ProjectConfig, dbPath)
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "leapquery.yaml"), []byte(cfg), 0600))
	return tmpDir
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererAuto creates a new test renderer with auto mode detection.
// In tests, non-TTY defaults to markdown output.
func NewTestRendererAuto() *TestRenderer {
	return NewTestRenderer(output.ModeAuto, false)
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// Reset clears both output buffers.
func (tr *TestRenderer) Reset() {
	tr.Out.Reset()
	tr.ErrOut.Reset()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdownTable checks every non-empty line of md is a pipe
// table row with the same number of cells.
func AssertValidMarkdownTable(t *testing.T, md string) {
	t.Helper()

	cells := -1
	for i, line := range strings.Split(strings.TrimSpace(md), "\n") {
		if !strings.HasPrefix(line, "|") || !strings.HasSuffix(line, "|") {
			t.Errorf("line %d is not a table row: %q", i+1, line)
			continue
		}
		n := strings.Count(line, "|")
		if cells >= 0 && n != cells {
			t.Errorf("line %d has %d separators, want %d: %q", i+1, n, cells, line)
		}
		cells = n
	}
}
