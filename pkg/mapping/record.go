package mapping

import (
	"fmt"

	"github.com/leapstack-labs/leapquery/pkg/core"
)

// Record is a dynamically typed entity instance keyed by attribute name.
// Values hold the canonical type of their attribute (see Coerce).
type Record map[string]any

// RecordMapping maps entities declared at runtime, such as those read from
// configuration, to Records.
func RecordMapping(e core.Entity) (*Mapping[Record], error) {
	m := New[Record](e.Name, e.Table)
	m.entity.ID = e.ID
	m.init = func(r *Record) { *r = make(Record, len(e.Attributes)) }

	for _, a := range e.Attributes {
		name, typ := a.Name, a.Type
		m.add(a, accessor[Record]{
			get: func(r *Record) any { return (*r)[name] },
			set: func(r *Record, raw any) error {
				v, err := Coerce(typ, raw)
				if err != nil {
					return fmt.Errorf("attribute %s: %w", name, err)
				}
				if *r == nil {
					*r = make(Record)
				}
				(*r)[name] = v
				return nil
			},
		})
	}
	return m.Build()
}
