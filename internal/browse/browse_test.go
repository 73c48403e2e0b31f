package browse

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/leapstack-labs/leapquery/internal/testutil"
	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/leapstack-labs/leapquery/pkg/mapping"
	"github.com/leapstack-labs/leapquery/pkg/paging"
	"github.com/leapstack-labs/leapquery/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var person = core.Entity{
	Name:  "Person",
	Table: "person",
	ID:    "id",
	Attributes: []core.Attribute{
		{Name: "id", Column: "id", Type: core.TypeInteger},
		{Name: "ssn", Column: "ssn", Type: core.TypeString},
		{Name: "lastName", Column: "last_name", Type: core.TypeString, Nullable: true},
		{Name: "dob", Column: "dob", Type: core.TypeDate, Nullable: true},
	},
}

// openSession returns a session over an in-memory database holding ten
// people with ids 1..10.
func openSession(t *testing.T) *session.Session {
	t.Helper()
	ctx := context.Background()

	adp := testutil.OpenSQLite(t, `create table person (id integer primary key, ssn text not null, last_name text, dob date)`)

	mm := mapping.NewMetamodel()
	require.NoError(t, mm.Replace([]core.Entity{person}))
	f, err := session.NewFactory(session.Config{
		Adapter:  adp,
		Models:   mm,
		Logger:   testutil.NewTestLogger(t),
		PageSize: 4,
	})
	require.NoError(t, err)

	s := f.Open()
	t.Cleanup(func() { _ = s.Close() })
	for i := 1; i <= 10; i++ {
		_, err := s.Exec(ctx, "insert into person (id, ssn, last_name, dob) values (?, ?, ?, ?)",
			i, fmt.Sprintf("%03d", i), fmt.Sprintf("L%d", i%3), time.Date(1980, 1, i, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
	}
	return s
}

func TestRun(t *testing.T) {
	s := openSession(t)
	ctx := context.Background()

	t.Run("entity projection", func(t *testing.T) {
		res, err := Run(ctx, s, "from Person p where p.id <= :upto", map[string]any{"upto": int64(2)})
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "ssn", "lastName", "dob"}, res.Columns)
		require.Len(t, res.Rows, 2)
		assert.Equal(t, "001", res.Rows[0][1])

		recs := res.Records()
		assert.Equal(t, "002", recs[1]["ssn"])
	})

	t.Run("tuples", func(t *testing.T) {
		res, err := Run(ctx, s, "select p.lastName, count(*) from Person p group by p.lastName order by p.lastName", nil)
		require.NoError(t, err)
		assert.Len(t, res.Columns, 2)
		require.Len(t, res.Rows, 3)
		assert.Equal(t, "L0", res.Rows[0][0])
	})

	t.Run("unknown entity", func(t *testing.T) {
		_, err := Run(ctx, s, "from Nobody n", nil)
		assert.ErrorIs(t, err, core.ErrInvalidArgument)
	})
}

func TestPage(t *testing.T) {
	s := openSession(t)
	ctx := context.Background()

	first, err := Page(ctx, s, PageRequest{HQL: "from Person p"})
	require.NoError(t, err)
	assert.Equal(t, 0, first.Number)
	require.Len(t, first.Rows, 4, "factory page size applies")
	assert.Empty(t, first.PreviousCursor)
	require.NotEmpty(t, first.NextCursor)

	var ids []any
	res := first
	for {
		for _, row := range res.Rows {
			ids = append(ids, row[0])
		}
		if res.NextCursor == "" {
			break
		}
		res, err = Page(ctx, s, PageRequest{HQL: "from Person p", Cursor: res.NextCursor})
		require.NoError(t, err)
	}
	assert.Len(t, ids, 10)
	assert.Equal(t, 2, res.Number)
	assert.NotEmpty(t, res.PreviousCursor)

	back, err := Page(ctx, s, PageRequest{HQL: "from Person p", Cursor: res.PreviousCursor})
	require.NoError(t, err)
	assert.Equal(t, 1, back.Number)
	assert.Equal(t, ids[4:8], column(back.Rows, 0))
}

func TestPage_OrderAndSize(t *testing.T) {
	s := openSession(t)

	res, err := Page(context.Background(), s, PageRequest{
		HQL:    "from Person p where p.id > :after",
		Params: map[string]any{"after": int64(5)},
		Order:  "dob:desc",
		Size:   3,
	})
	require.NoError(t, err)
	assert.Equal(t, []any{"010", "009", "008"}, column(res.Rows, 1))
	assert.NotEmpty(t, res.NextCursor)
}

func TestPage_Errors(t *testing.T) {
	s := openSession(t)

	tests := []struct {
		name string
		req  PageRequest
	}{
		{"bad cursor", PageRequest{HQL: "from Person p", Cursor: "!!"}},
		{"bad order", PageRequest{HQL: "from Person p", Order: "ssn:sideways"}},
		{"unknown attribute", PageRequest{HQL: "from Person p", Order: "height"}},
		{"not an entity projection", PageRequest{HQL: "select p.ssn from Person p", Order: "ssn"}},
		{"unknown entity", PageRequest{HQL: "from Nobody n"}},
		{"size over the bound", PageRequest{HQL: "from Person p", Size: 50, MaxSize: 20}},
		{"cursor size over the bound", PageRequest{HQL: "from Person p", Cursor: hugeCursor(t), MaxSize: 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Page(context.Background(), s, tt.req)
			assert.ErrorIs(t, err, core.ErrInvalidArgument)
		})
	}
}

func hugeCursor(t *testing.T) string {
	t.Helper()
	token, err := paging.First(5000).KeyedBy(paging.Asc("Person", "id")).Encode()
	require.NoError(t, err)
	return token
}

func TestPage_CursorWithinBound(t *testing.T) {
	s := openSession(t)
	ctx := context.Background()

	first, err := Page(ctx, s, PageRequest{HQL: "from Person p", Size: 3, MaxSize: 3})
	require.NoError(t, err)
	require.NotEmpty(t, first.NextCursor)

	next, err := Page(ctx, s, PageRequest{HQL: "from Person p", Cursor: first.NextCursor, MaxSize: 3})
	require.NoError(t, err)
	assert.Len(t, next.Rows, 3)
}

func TestParseParam(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"42", int64(42)},
		{"-7", int64(-7)},
		{"2.5", 2.5},
		{"true", true},
		{"FALSE", false},
		{"1970-02-05", time.Date(1970, 2, 5, 0, 0, 0, 0, time.UTC)},
		{"2024-01-02T03:04:05Z", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"'42'", "42"},
		{"Doe", "Doe"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseParam(tt.in))
		})
	}
}

func TestParseParams(t *testing.T) {
	got := ParseParams(map[string]string{":name": "Doe", "n": "3"})
	assert.Equal(t, map[string]any{"name": "Doe", "n": int64(3)}, got)
}

func column(rows [][]any, i int) []any {
	out := make([]any, len(rows))
	for j, r := range rows {
		out[j] = r[i]
	}
	return out
}
