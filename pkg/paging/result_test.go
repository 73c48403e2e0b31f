package paging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fetched returns ids from..to (inclusive, either direction) with their keys.
func fetched(from, to int) ([]int, [][]any) {
	step := 1
	if to < from {
		step = -1
	}
	var rows []int
	var keys [][]any
	for i := from; ; i += step {
		rows = append(rows, i)
		keys = append(keys, []any{i})
		if i == to {
			break
		}
	}
	return rows, keys
}

func TestKeyedResultList_FirstPage(t *testing.T) {
	page := First(5).KeyedBy(Asc("Thing", "id"))
	rows, keys := fetched(1, 6)

	r := NewKeyedResultList(page, &Plan{Fetch: 6}, rows, keys)

	assert.Equal(t, []int{1, 2, 3, 4, 5}, r.Rows())
	assert.Equal(t, 5, r.Len())
	assert.Equal(t, []any{5}, r.KeyOfLastRow())
	assert.True(t, r.IsFirstPage())
	assert.False(t, r.IsLastPage())

	next := r.NextPage()
	require.NotNil(t, next)
	assert.Equal(t, KeyNext, next.Kind())
	assert.Equal(t, 1, next.Page().Number())
	assert.Equal(t, []any{5}, next.Key())
}

func TestKeyedResultList_LastPage(t *testing.T) {
	page := First(5).KeyedBy(Asc("Thing", "id")).next([]any{15})
	page.page = PageOf(5, 3)
	rows, keys := fetched(16, 17)

	r := NewKeyedResultList(page, &Plan{Fetch: 6}, rows, keys)

	assert.Equal(t, []int{16, 17}, r.Rows())
	assert.True(t, r.IsLastPage())
	assert.False(t, r.IsFirstPage())

	prev := r.PreviousPage()
	require.NotNil(t, prev)
	assert.Equal(t, KeyPrevious, prev.Kind())
	assert.Equal(t, 2, prev.Page().Number())
	assert.Equal(t, []any{16}, prev.Key())
}

func TestKeyedResultList_ExactlyFullLastPage(t *testing.T) {
	page := First(5).KeyedBy(Asc("Thing", "id")).next([]any{5})
	rows, keys := fetched(6, 10)

	r := NewKeyedResultList(page, &Plan{Fetch: 6}, rows, keys)

	assert.Equal(t, 5, r.Len())
	assert.True(t, r.IsLastPage())
}

func TestKeyedResultList_Empty(t *testing.T) {
	page := First(5).KeyedBy(Asc("Thing", "id"))

	r := NewKeyedResultList[int](page, &Plan{Fetch: 6}, nil, nil)

	assert.Zero(t, r.Len())
	assert.Nil(t, r.KeyOfLastRow())
	assert.True(t, r.IsFirstPage())
	assert.True(t, r.IsLastPage())
}

func TestKeyedResultList_Backward(t *testing.T) {
	// previous page of page 3 anchored at id 16; rows arrive descending
	page := First(5).KeyedBy(Asc("Thing", "id")).next([]any{0})
	page.page = PageOf(5, 3)
	page = page.previous([]any{16})
	rows, keys := fetched(15, 10)

	r := NewKeyedResultList(page, &Plan{Fetch: 6, Backward: true}, rows, keys)

	assert.Equal(t, []int{11, 12, 13, 14, 15}, r.Rows())
	assert.Equal(t, [][]any{{11}, {12}, {13}, {14}, {15}}, r.KeysOfRows())
	assert.Equal(t, 2, r.Page().Page().Number())

	next := r.NextPage()
	require.NotNil(t, next)
	assert.Equal(t, KeyNext, next.Kind())
	assert.Equal(t, 3, next.Page().Number())
	assert.Equal(t, []any{15}, next.Key())

	prev := r.PreviousPage()
	require.NotNil(t, prev)
	assert.Equal(t, 1, prev.Page().Number())
	assert.Equal(t, []any{11}, prev.Key())

	// the caller's slices are left untouched
	assert.Equal(t, 15, rows[0])
}

func TestKeyedResultList_BackwardToFirstPage(t *testing.T) {
	page := First(5).KeyedBy(Asc("Thing", "id")).next([]any{5}).previous([]any{6})
	rows, keys := fetched(5, 1)

	r := NewKeyedResultList(page, &Plan{Fetch: 6, Backward: true}, rows, keys)

	assert.Equal(t, []int{1, 2, 3, 4, 5}, r.Rows())
	assert.True(t, r.IsFirstPage())
	assert.NotNil(t, r.NextPage())
}
