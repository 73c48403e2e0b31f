package core

import (
	"fmt"
	"strings"
)

// AttrType is the semantic type of a persistent attribute.
type AttrType int

// AttrType values.
const (
	TypeString AttrType = iota
	TypeInteger
	TypeFloat
	TypeDate
	TypeBoolean
)

// String returns the lowercase type name used in configuration files.
func (t AttrType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeDate:
		return "date"
	case TypeBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// ParseAttrType parses a configuration type name.
func ParseAttrType(s string) (AttrType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "string", "text", "varchar":
		return TypeString, nil
	case "integer", "int", "long", "bigint":
		return TypeInteger, nil
	case "float", "double", "real", "decimal":
		return TypeFloat, nil
	case "date", "timestamp", "datetime":
		return TypeDate, nil
	case "boolean", "bool":
		return TypeBoolean, nil
	default:
		return 0, fmt.Errorf("unknown attribute type %q", s)
	}
}

// Attribute describes one persistent attribute of an entity.
type Attribute struct {
	Name     string
	Column   string
	Type     AttrType
	Nullable bool
}

// Entity describes a persistent entity: its table, identifier and attributes.
// Identity is value-based on the identifier attribute.
type Entity struct {
	Name       string
	Table      string
	ID         string // name of the identifier attribute
	Attributes []Attribute
}

// Attribute looks up an attribute by name, ignoring case.
func (e *Entity) Attribute(name string) (*Attribute, bool) {
	for i := range e.Attributes {
		if strings.EqualFold(e.Attributes[i].Name, name) {
			return &e.Attributes[i], true
		}
	}
	return nil, false
}

// IDAttribute returns the identifier attribute.
func (e *Entity) IDAttribute() *Attribute {
	a, _ := e.Attribute(e.ID)
	return a
}

// Nullable reports whether the attribute may hold NULL. The identifier
// is never nullable.
func (e *Entity) Nullable(a *Attribute) bool {
	return a.Nullable && !strings.EqualFold(a.Name, e.ID)
}

// Validate checks the descriptor is internally consistent.
func (e *Entity) Validate() error {
	if e.Name == "" {
		return NewInvalidArgument("entity", "entity name is empty")
	}
	if e.Table == "" {
		return NewInvalidArgument("entity", fmt.Sprintf("entity %s has no table", e.Name))
	}
	if len(e.Attributes) == 0 {
		return NewInvalidArgument("entity", fmt.Sprintf("entity %s has no attributes", e.Name))
	}
	if e.IDAttribute() == nil {
		return &SchemaError{Entity: e.Name, Attribute: e.ID}
	}
	seen := make(map[string]bool, len(e.Attributes))
	for _, a := range e.Attributes {
		key := strings.ToLower(a.Name)
		if seen[key] {
			return NewInvalidArgument("entity", fmt.Sprintf("entity %s declares %s twice", e.Name, a.Name))
		}
		seen[key] = true
	}
	return nil
}

// EntityResolver resolves entity names to descriptors.
type EntityResolver interface {
	Entity(name string) (*Entity, bool)
}
