package parser

import (
	"errors"
	"testing"

	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/leapstack-labs/leapquery/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_EntityQuery(t *testing.T) {
	q, err := Parse("from Person p where p.dob > :dob")
	require.NoError(t, err)

	assert.Equal(t, "Person", q.From.Entity)
	assert.Equal(t, "p", q.From.Alias)
	assert.True(t, q.IsEntityProjection())

	where, ok := q.Where.(*core.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.GT, where.Op)
	attr, ok := where.Left.(*core.AttributeRef)
	require.True(t, ok)
	assert.Equal(t, "p", attr.Qualifier)
	assert.Equal(t, "dob", attr.Name)
	assert.Equal(t, 21, attr.Pos().Column)
	param, ok := where.Right.(*core.ParamRef)
	require.True(t, ok)
	assert.Equal(t, "dob", param.Name)
}

func TestParse_Clauses(t *testing.T) {
	q, err := Parse(`select e.theString, count(*) as n
		from EntityOfBasics as e
		where e.theInt between 1 and 10 and e.theString not like 'x%'
		group by e.theString
		having count(*) > 1
		order by e.theString desc nulls last
		limit 10 offset :skip`)
	require.NoError(t, err)

	require.Len(t, q.Select, 2)
	assert.Equal(t, "n", q.Select[1].Alias)
	assert.Equal(t, "e", q.From.Alias)
	require.Len(t, q.GroupBy, 1)
	assert.NotNil(t, q.Having)
	require.Len(t, q.OrderBy, 1)
	assert.True(t, q.OrderBy[0].Desc)
	assert.Equal(t, core.NullsLast, q.OrderBy[0].Nulls)
	assert.NotNil(t, q.Limit)
	assert.IsType(t, &core.ParamRef{}, q.Offset)

	and, ok := q.Where.(*core.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.AND, and.Op)
	assert.IsType(t, &core.BetweenExpr{}, and.Left)
	like, ok := and.Right.(*core.LikeExpr)
	require.True(t, ok)
	assert.True(t, like.Not)
}

func TestParse_OrderedSetAggregates(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		fn          string
		args        int
		withinGroup int
		desc        bool
		filter      bool
	}{
		{
			name:  "listagg without ordering",
			query: "select listagg(e.theString, ',') from EntityOfBasics e",
			fn:    "listagg",
			args:  2,
		},
		{
			name:        "listagg within group",
			query:       "select listagg(theString, ',') within group (order by id desc) from EntityOfBasics",
			fn:          "listagg",
			args:        2,
			withinGroup: 1,
			desc:        true,
		},
		{
			name:        "listagg within group and filter",
			query:       "select listagg(theString, ',') within group (order by id desc) filter (where theInt < 10) from EntityOfBasics",
			fn:          "listagg",
			args:        2,
			withinGroup: 1,
			desc:        true,
			filter:      true,
		},
		{
			name:        "filter before within group",
			query:       "select listagg(theString, ',') filter (where theInt < 10) within group (order by id) from EntityOfBasics",
			fn:          "listagg",
			args:        2,
			withinGroup: 1,
			filter:      true,
		},
		{
			name:        "percentile_disc",
			query:       "select percentile_disc(0.5) within group (order by e.theInt asc) from EntityOfBasics e",
			fn:          "percentile_disc",
			args:        1,
			withinGroup: 1,
		},
		{
			name:        "percent_rank uppercase",
			query:       "SELECT PERCENT_RANK(5) WITHIN GROUP (ORDER BY e.theInt) FROM EntityOfBasics e",
			fn:          "percent_rank",
			args:        1,
			withinGroup: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Parse(tt.query)
			require.NoError(t, err)
			require.Len(t, q.Select, 1)

			fn, ok := q.Select[0].Expr.(*core.FuncCall)
			require.True(t, ok)
			assert.Equal(t, tt.fn, fn.Name)
			assert.Len(t, fn.Args, tt.args)
			require.Len(t, fn.WithinGroup, tt.withinGroup)
			if tt.withinGroup > 0 {
				assert.Equal(t, tt.desc, fn.WithinGroup[0].Desc)
			}
			assert.Equal(t, tt.filter, fn.Filter != nil)
		})
	}
}

func TestParse_WindowFunction(t *testing.T) {
	q, err := Parse("select row_number() over (partition by e.theString order by e.id) from EntityOfBasics e")
	require.NoError(t, err)

	fn := q.Select[0].Expr.(*core.FuncCall)
	require.NotNil(t, fn.Window)
	assert.Len(t, fn.Window.PartitionBy, 1)
	assert.Len(t, fn.Window.OrderBy, 1)
}

func TestParse_Precedence(t *testing.T) {
	q, err := Parse("from Person where a = 1 or b = 2 and not c = 3")
	require.NoError(t, err)

	or, ok := q.Where.(*core.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.OR, or.Op)
	and, ok := or.Right.(*core.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.AND, and.Op)
	assert.IsType(t, &core.UnaryExpr{}, and.Right)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		errMsg string
	}{
		{"missing from", "select p.name", "expected FROM"},
		{"positional parameter", "from Person where ssn = ?", "positional parameters"},
		{"trailing input", "from Person p q", "after end of query"},
		{"unterminated string", "from Person where ssn = 'abc", "unterminated string"},
		{"nested path", "from Person p where p.address.city = 'x'", "too deep"},
		{"bad nulls", "from Person order by ssn nulls sometimes", "FIRST or LAST"},
		{"illegal character", "from Person where ssn = #", "unexpected character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Parse(tt.query)
			require.Error(t, err)
			assert.Nil(t, q)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.True(t, errors.Is(err, core.ErrInvalidArgument))
		})
	}
}
