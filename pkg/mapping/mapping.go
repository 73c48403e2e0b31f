// Package mapping binds Go types to entity descriptors.
//
// A Mapping[T] is declared once at registration time: each attribute is a
// (name, column, accessor) triple where the accessor returns a pointer to
// the field of T holding the attribute. The same accessor serves hydration
// and key extraction, so no reflection is involved.
//
//	people := mapping.New[Person]("Person", "person").
//		ID("id", "id", func(p *Person) *int { return &p.ID }).
//		String("ssn", "ssn", func(p *Person) *string { return &p.SSN }).
//		NullDate("dob", "dob", func(p *Person) **time.Time { return &p.DOB }).
//		Build()
package mapping

import (
	"fmt"
	"time"

	"github.com/leapstack-labs/leapquery/pkg/core"
)

type accessor[T any] struct {
	get func(*T) any
	set func(*T, any) error
}

// Mapping describes how values of T are stored as an entity.
type Mapping[T any] struct {
	entity    core.Entity
	accessors map[string]accessor[T]
	init      func(*T)
	err       error
}

// New starts a mapping of T to entity name stored in table.
func New[T any](name, table string) *Mapping[T] {
	return &Mapping[T]{
		entity:    core.Entity{Name: name, Table: table},
		accessors: make(map[string]accessor[T]),
	}
}

func (m *Mapping[T]) add(attr core.Attribute, acc accessor[T]) *Mapping[T] {
	if attr.Column == "" {
		attr.Column = attr.Name
	}
	if _, dup := m.accessors[attr.Name]; dup && m.err == nil {
		m.err = core.NewInvalidArgument("mapping", fmt.Sprintf("entity %s declares %s twice", m.entity.Name, attr.Name))
	}
	m.entity.Attributes = append(m.entity.Attributes, attr)
	m.accessors[attr.Name] = acc
	return m
}

// field maps a non-nullable attribute held in a V field.
func field[T, V any](m *Mapping[T], name, column string, t core.AttrType, f func(*T) *V) *Mapping[T] {
	return m.add(core.Attribute{Name: name, Column: column, Type: t}, accessor[T]{
		get: func(v *T) any { return *f(v) },
		set: func(v *T, raw any) error {
			x, err := Convert[V](raw)
			if err != nil {
				return fmt.Errorf("attribute %s: %w", name, err)
			}
			*f(v) = x
			return nil
		},
	})
}

// nullField maps a nullable attribute held in a *V field; nil is NULL.
func nullField[T, V any](m *Mapping[T], name, column string, t core.AttrType, f func(*T) **V) *Mapping[T] {
	return m.add(core.Attribute{Name: name, Column: column, Type: t, Nullable: true}, accessor[T]{
		get: func(v *T) any {
			if p := *f(v); p != nil {
				return *p
			}
			return nil
		},
		set: func(v *T, raw any) error {
			if raw == nil {
				*f(v) = nil
				return nil
			}
			x, err := Convert[V](raw)
			if err != nil {
				return fmt.Errorf("attribute %s: %w", name, err)
			}
			*f(v) = &x
			return nil
		},
	})
}

// ID maps the integer identifier attribute.
func (m *Mapping[T]) ID(name, column string, f func(*T) *int) *Mapping[T] {
	m.entity.ID = name
	return field(m, name, column, core.TypeInteger, f)
}

// String maps a non-nullable string attribute.
func (m *Mapping[T]) String(name, column string, f func(*T) *string) *Mapping[T] {
	return field(m, name, column, core.TypeString, f)
}

// Int maps a non-nullable integer attribute.
func (m *Mapping[T]) Int(name, column string, f func(*T) *int) *Mapping[T] {
	return field(m, name, column, core.TypeInteger, f)
}

// Float maps a non-nullable float attribute.
func (m *Mapping[T]) Float(name, column string, f func(*T) *float64) *Mapping[T] {
	return field(m, name, column, core.TypeFloat, f)
}

// Bool maps a non-nullable boolean attribute.
func (m *Mapping[T]) Bool(name, column string, f func(*T) *bool) *Mapping[T] {
	return field(m, name, column, core.TypeBoolean, f)
}

// Date maps a non-nullable date attribute.
func (m *Mapping[T]) Date(name, column string, f func(*T) *time.Time) *Mapping[T] {
	return field(m, name, column, core.TypeDate, f)
}

// NullString maps a nullable string attribute.
func (m *Mapping[T]) NullString(name, column string, f func(*T) **string) *Mapping[T] {
	return nullField(m, name, column, core.TypeString, f)
}

// NullInt maps a nullable integer attribute.
func (m *Mapping[T]) NullInt(name, column string, f func(*T) **int) *Mapping[T] {
	return nullField(m, name, column, core.TypeInteger, f)
}

// NullFloat maps a nullable float attribute.
func (m *Mapping[T]) NullFloat(name, column string, f func(*T) **float64) *Mapping[T] {
	return nullField(m, name, column, core.TypeFloat, f)
}

// NullBool maps a nullable boolean attribute.
func (m *Mapping[T]) NullBool(name, column string, f func(*T) **bool) *Mapping[T] {
	return nullField(m, name, column, core.TypeBoolean, f)
}

// NullDate maps a nullable date attribute.
func (m *Mapping[T]) NullDate(name, column string, f func(*T) **time.Time) *Mapping[T] {
	return nullField(m, name, column, core.TypeDate, f)
}

// Build validates the mapping.
func (m *Mapping[T]) Build() (*Mapping[T], error) {
	if m.err != nil {
		return nil, m.err
	}
	if err := m.entity.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// MustBuild is Build for package-level mappings; it panics on error.
func (m *Mapping[T]) MustBuild() *Mapping[T] {
	built, err := m.Build()
	if err != nil {
		panic(err)
	}
	return built
}

// Entity returns the entity descriptor.
func (m *Mapping[T]) Entity() *core.Entity {
	return &m.entity
}

// New allocates an empty instance.
func (m *Mapping[T]) New() *T {
	v := new(T)
	if m.init != nil {
		m.init(v)
	}
	return v
}

// Get reads an attribute of v. NULL is returned as nil.
func (m *Mapping[T]) Get(v *T, attribute string) (any, error) {
	acc, ok := m.accessor(attribute)
	if !ok {
		return nil, &core.SchemaError{Entity: m.entity.Name, Attribute: attribute}
	}
	return acc.get(v), nil
}

// Set writes a driver value into an attribute of v, coercing it to the
// field type.
func (m *Mapping[T]) Set(v *T, attribute string, raw any) error {
	acc, ok := m.accessor(attribute)
	if !ok {
		return &core.SchemaError{Entity: m.entity.Name, Attribute: attribute}
	}
	return acc.set(v, raw)
}

func (m *Mapping[T]) accessor(attribute string) (accessor[T], bool) {
	if acc, ok := m.accessors[attribute]; ok {
		return acc, true
	}
	if a, ok := m.entity.Attribute(attribute); ok {
		acc, ok := m.accessors[a.Name]
		return acc, ok
	}
	return accessor[T]{}, false
}
