package mapping

import (
	"fmt"
	"sort"
	"sync"

	"golang.org/x/text/cases"

	"github.com/leapstack-labs/leapquery/pkg/core"
)

// Metamodel is the registry of mapped entities. Entity names resolve
// case-insensitively. It implements core.EntityResolver and is safe for
// concurrent use.
type Metamodel struct {
	mu       sync.RWMutex
	entities map[string]entry
}

type entry struct {
	entity  *core.Entity
	mapping any // *Mapping[T]
}

// NewMetamodel creates an empty metamodel.
func NewMetamodel() *Metamodel {
	return &Metamodel{entities: make(map[string]entry)}
}

// foldName case-folds an entity name. A Caser is stateful, so each call
// gets its own.
func foldName(name string) string {
	return cases.Fold().String(name)
}

// Register adds a mapping to the metamodel. An entity name may be
// registered once.
func Register[T any](mm *Metamodel, m *Mapping[T]) error {
	if _, err := m.Build(); err != nil {
		return err
	}
	key := foldName(m.entity.Name)

	mm.mu.Lock()
	defer mm.mu.Unlock()
	if _, dup := mm.entities[key]; dup {
		return core.NewInvalidArgument("metamodel", fmt.Sprintf("entity %s is already registered", m.entity.Name))
	}
	mm.entities[key] = entry{entity: m.Entity(), mapping: m}
	return nil
}

// Replace swaps the set of Record mappings for the given entities,
// keeping typed mappings. It is used when entity declarations are
// reloaded from configuration.
func (mm *Metamodel) Replace(entities []core.Entity) error {
	next := make(map[string]entry, len(entities))
	for _, e := range entities {
		m, err := RecordMapping(e)
		if err != nil {
			return err
		}
		key := foldName(e.Name)
		if _, dup := next[key]; dup {
			return core.NewInvalidArgument("metamodel", fmt.Sprintf("entity %s is declared twice", e.Name))
		}
		next[key] = entry{entity: m.Entity(), mapping: m}
	}

	mm.mu.Lock()
	defer mm.mu.Unlock()
	for key, en := range mm.entities {
		if _, isRecord := en.mapping.(*Mapping[Record]); isRecord {
			continue
		}
		if _, clash := next[key]; clash {
			return core.NewInvalidArgument("metamodel", fmt.Sprintf("entity %s is already mapped to a type", en.entity.Name))
		}
		next[key] = en
	}
	mm.entities = next
	return nil
}

// Entity resolves an entity descriptor by name.
func (mm *Metamodel) Entity(name string) (*core.Entity, bool) {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	en, ok := mm.entities[foldName(name)]
	if !ok {
		return nil, false
	}
	return en.entity, true
}

// Entities returns all registered entities sorted by name.
func (mm *Metamodel) Entities() []*core.Entity {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	out := make([]*core.Entity, 0, len(mm.entities))
	for _, en := range mm.entities {
		out = append(out, en.entity)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// For returns the mapping of entity name to T.
func For[T any](mm *Metamodel, name string) (*Mapping[T], error) {
	mm.mu.RLock()
	en, ok := mm.entities[foldName(name)]
	mm.mu.RUnlock()
	if !ok {
		return nil, &core.SchemaError{Entity: name}
	}
	m, ok := en.mapping.(*Mapping[T])
	if !ok {
		var zero T
		return nil, core.NewInvalidArgument("metamodel",
			fmt.Sprintf("entity %s is not mapped to %T", en.entity.Name, zero))
	}
	return m, nil
}
