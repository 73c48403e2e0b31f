// Package paging implements keyset pagination: order specifications,
// page tokens, the lexicographic keyset predicate and keyed result lists.
//
// A first page is requested with First(size).KeyedBy(orders...). Each
// KeyedResultList carries the token of the following page, which embeds
// the key of the last row; the next query continues strictly after it
// instead of skipping rows with OFFSET.
package paging

import (
	"strings"

	"github.com/leapstack-labs/leapquery/pkg/core"
)

// Order is one term of an order specification.
type Order struct {
	entity    string
	attribute string
	desc      bool
	nulls     core.NullPrecedence
}

// Asc orders by an attribute of entity in ascending order.
func Asc(entity, attribute string) Order {
	return Order{entity: entity, attribute: attribute}
}

// Desc orders by an attribute of entity in descending order.
func Desc(entity, attribute string) Order {
	return Order{entity: entity, attribute: attribute, desc: true}
}

// NullsFirst returns a copy that sorts NULLs before all values.
func (o Order) NullsFirst() Order {
	o.nulls = core.NullsFirst
	return o
}

// NullsLast returns a copy that sorts NULLs after all values.
func (o Order) NullsLast() Order {
	o.nulls = core.NullsLast
	return o
}

// Entity returns the entity name the term refers to.
func (o Order) Entity() string { return o.entity }

// Attribute returns the attribute name.
func (o Order) Attribute() string { return o.attribute }

// IsDescending reports the direction.
func (o Order) IsDescending() bool { return o.desc }

// Nulls returns the requested null precedence, possibly NullsDefault.
func (o Order) Nulls() core.NullPrecedence { return o.nulls }

// String renders the term as "attribute ASC [NULLS_FIRST]".
func (o Order) String() string {
	var sb strings.Builder
	sb.WriteString(o.attribute)
	if o.desc {
		sb.WriteString(" DESC")
	} else {
		sb.WriteString(" ASC")
	}
	if o.nulls != core.NullsDefault {
		sb.WriteString(" ")
		sb.WriteString(o.nulls.String())
	}
	return sb.String()
}

// ParseOrders parses a comma-separated list of "attribute[:asc|:desc]"
// terms, as accepted by the CLI and the HTTP API. A third segment selects
// the null precedence: "ssn:asc:nulls_first".
func ParseOrders(entity, spec string) ([]Order, error) {
	var orders []Order
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Split(part, ":")
		o := Asc(entity, fields[0])
		if len(fields) > 1 {
			switch strings.ToLower(fields[1]) {
			case "asc", "":
			case "desc":
				o.desc = true
			default:
				return nil, core.NewInvalidArgument("order", "unknown direction "+fields[1])
			}
		}
		if len(fields) > 2 {
			switch strings.ToLower(fields[2]) {
			case "nulls_first", "first":
				o = o.NullsFirst()
			case "nulls_last", "last":
				o = o.NullsLast()
			default:
				return nil, core.NewInvalidArgument("order", "unknown null precedence "+fields[2])
			}
		}
		if len(fields) > 3 {
			return nil, core.NewInvalidArgument("order", "malformed term "+part)
		}
		orders = append(orders, o)
	}
	if len(orders) == 0 {
		return nil, core.NewInvalidArgument("order", "order specification is empty")
	}
	return orders, nil
}
