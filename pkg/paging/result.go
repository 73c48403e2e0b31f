package paging

import "slices"

// KeyedResultList is one page of rows with the tokens of its neighbours.
// It holds no database resources.
type KeyedResultList[T any] struct {
	rows     []T
	keys     [][]any
	page     KeyedPage
	next     *KeyedPage
	previous *KeyedPage
}

// NewKeyedResultList assembles a page from the rows fetched for plan.
// rows and keys hold up to plan.Fetch entries in fetch order; the
// lookahead row, if any, is dropped and backward fetches are reversed.
func NewKeyedResultList[T any](page KeyedPage, plan *Plan, rows []T, keys [][]any) *KeyedResultList[T] {
	size := page.page.size
	more := len(rows) > size
	if more {
		rows = rows[:size]
		keys = keys[:size]
	}
	if plan.Backward {
		rows = slices.Clone(rows)
		keys = slices.Clone(keys)
		slices.Reverse(rows)
		slices.Reverse(keys)
	}

	r := &KeyedResultList[T]{rows: rows, keys: keys, page: page}
	if len(rows) == 0 {
		return r
	}
	first, last := keys[0], keys[len(keys)-1]

	if plan.Backward {
		// the page we came from follows
		next := page.next(last)
		r.next = &next
		if more && page.page.number > 0 {
			prev := page.previous(first)
			r.previous = &prev
		}
		return r
	}

	if more {
		next := page.next(last)
		r.next = &next
	}
	if page.kind != KeyFirst && page.page.number > 0 {
		prev := page.previous(first)
		r.previous = &prev
	}
	return r
}

// Rows returns the rows of the page.
func (r *KeyedResultList[T]) Rows() []T { return r.rows }

// Len returns the number of rows.
func (r *KeyedResultList[T]) Len() int { return len(r.rows) }

// Page returns the token that produced this page.
func (r *KeyedResultList[T]) Page() KeyedPage { return r.page }

// Orders returns the order specification.
func (r *KeyedResultList[T]) Orders() []Order { return r.page.Orders() }

// KeyOfLastRow returns the key of the last row, or nil for an empty page.
func (r *KeyedResultList[T]) KeyOfLastRow() []any {
	if len(r.keys) == 0 {
		return nil
	}
	return slices.Clone(r.keys[len(r.keys)-1])
}

// KeysOfRows returns the key of every row, in row order.
func (r *KeyedResultList[T]) KeysOfRows() [][]any {
	out := make([][]any, len(r.keys))
	for i, k := range r.keys {
		out[i] = slices.Clone(k)
	}
	return out
}

// NextPage returns the token of the following page, or nil when the data
// is exhausted.
func (r *KeyedResultList[T]) NextPage() *KeyedPage { return r.next }

// PreviousPage returns the token of the preceding page, or nil on the
// first page.
func (r *KeyedResultList[T]) PreviousPage() *KeyedPage { return r.previous }

// IsFirstPage reports whether no page precedes this one.
func (r *KeyedResultList[T]) IsFirstPage() bool { return r.previous == nil }

// IsLastPage reports whether no page follows this one.
func (r *KeyedResultList[T]) IsLastPage() bool { return r.next == nil }
