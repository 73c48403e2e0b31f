package session

import (
	"fmt"

	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/leapstack-labs/leapquery/pkg/mapping"
	"github.com/leapstack-labs/leapquery/pkg/translate"
)

// materializer turns raw rows into values of T. Entity projections
// hydrate through the entity's mapping; scalar projections convert the
// single column, or every column when T is []any.
type materializer[T any] struct {
	stmt    *translate.Statement
	mapping *mapping.Mapping[T]
	tuple   bool
}

func newMaterializer[T any](models *mapping.Metamodel, stmt *translate.Statement) (*materializer[T], error) {
	var zero T
	_, tuple := any(zero).([]any)
	m := &materializer[T]{stmt: stmt, tuple: tuple}

	if stmt.EntityProjection && !tuple {
		mp, err := mapping.For[T](models, stmt.Entity.Name)
		if err != nil {
			return nil, err
		}
		m.mapping = mp
		return m, nil
	}
	if !tuple && len(stmt.Columns) != 1 {
		return nil, core.NewInvalidArgument("select",
			fmt.Sprintf("query selects %d columns; read it into []any", len(stmt.Columns)))
	}
	return m, nil
}

func (m *materializer[T]) row(raw []any) (T, error) {
	var zero T
	if m.mapping != nil {
		v := m.mapping.New()
		for i, col := range m.stmt.Columns {
			if col.Attribute == nil {
				continue
			}
			if err := m.mapping.Set(v, col.Attribute.Name, raw[i]); err != nil {
				return zero, fmt.Errorf("hydrating %s: %w", m.stmt.Entity.Name, err)
			}
		}
		return *v, nil
	}

	if m.tuple {
		tuple := make([]any, len(raw))
		for i := range raw {
			v, err := m.column(i, raw[i])
			if err != nil {
				return zero, err
			}
			tuple[i] = v
		}
		return any(tuple).(T), nil
	}

	v, err := m.column(0, raw[0])
	if err != nil {
		return zero, err
	}
	if v == nil {
		// NULL reads as the zero value; select into any or []any to see it
		return zero, nil
	}
	out, err := mapping.Convert[T](v)
	if err != nil {
		return zero, fmt.Errorf("column %s: %w", m.stmt.Columns[0].Name, err)
	}
	return out, nil
}

// column normalizes an attribute column to its semantic type and turns
// driver byte slices into strings.
func (m *materializer[T]) column(i int, v any) (any, error) {
	if attr := m.stmt.Columns[i].Attribute; attr != nil {
		out, err := mapping.Coerce(attr.Type, v)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", m.stmt.Columns[i].Name, err)
		}
		return out, nil
	}
	if b, ok := v.([]byte); ok {
		return string(b), nil
	}
	return v, nil
}

// keyReader extracts key vectors from raw rows for the plan's terms.
type keyReader struct {
	index map[string]int
}

func newKeyReader(stmt *translate.Statement) keyReader {
	idx := make(map[string]int, len(stmt.Columns))
	for i, col := range stmt.Columns {
		if col.Attribute != nil {
			idx[col.Attribute.Name] = i
		}
	}
	return keyReader{index: idx}
}

// value returns the key value of attr as the database represents it, so
// that binding it back compares like with like.
func (k keyReader) value(raw []any, attr *core.Attribute) (any, error) {
	i, ok := k.index[attr.Name]
	if !ok {
		return nil, fmt.Errorf("attribute %s is not projected", attr.Name)
	}
	if b, isBytes := raw[i].([]byte); isBytes {
		return string(b), nil
	}
	return raw[i], nil
}
