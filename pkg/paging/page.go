package paging

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/leapstack-labs/leapquery/pkg/core"
)

// Page is a page size and a 0-based page number.
type Page struct {
	size   int
	number int
}

// First returns the first page of the given size.
func First(size int) Page {
	return Page{size: size}
}

// PageOf returns an arbitrary page.
func PageOf(size, number int) Page {
	return Page{size: size, number: number}
}

// Size returns the maximum number of rows of the page.
func (p Page) Size() int { return p.size }

// Number returns the 0-based page number.
func (p Page) Number() int { return p.number }

// IsFirst reports whether this is page 0.
func (p Page) IsFirst() bool { return p.number == 0 }

// Next returns the following page.
func (p Page) Next() Page {
	return Page{size: p.size, number: p.number + 1}
}

// Previous returns the preceding page; page 0 has no predecessor and
// returns itself.
func (p Page) Previous() Page {
	if p.number == 0 {
		return p
	}
	return Page{size: p.size, number: p.number - 1}
}

// KeyedBy turns the page into a keyed first-page token ordered by orders.
func (p Page) KeyedBy(orders ...Order) KeyedPage {
	return KeyedPage{
		page:   p,
		orders: append([]Order(nil), orders...),
		kind:   KeyFirst,
	}
}

// KeyInterpretation tells how a KeyedPage's key is to be used.
type KeyInterpretation int

const (
	// KeyFirst has no key; the page starts at the beginning.
	KeyFirst KeyInterpretation = iota
	// KeyNext continues strictly after the key.
	KeyNext
	// KeyPrevious continues strictly before the key.
	KeyPrevious
)

func (k KeyInterpretation) String() string {
	switch k {
	case KeyNext:
		return "next"
	case KeyPrevious:
		return "previous"
	default:
		return "first"
	}
}

// KeyedPage is an opaque page token: a page, the order specification and,
// for continuations, the anchor key.
type KeyedPage struct {
	page   Page
	orders []Order
	kind   KeyInterpretation
	key    []any
}

// Page returns the page this token requests.
func (k KeyedPage) Page() Page { return k.page }

// Orders returns a copy of the order specification.
func (k KeyedPage) Orders() []Order {
	return append([]Order(nil), k.orders...)
}

// Kind returns how the key is interpreted.
func (k KeyedPage) Kind() KeyInterpretation { return k.kind }

// Key returns a copy of the anchor key; nil for a first-page token.
func (k KeyedPage) Key() []any {
	if k.key == nil {
		return nil
	}
	return append([]any(nil), k.key...)
}

// Validate checks the token shape.
func (k KeyedPage) Validate() error {
	switch {
	case k.page.size <= 0:
		return core.NewInvalidArgument("page", fmt.Sprintf("page size must be positive, got %d", k.page.size))
	case k.page.number < 0:
		return core.NewInvalidArgument("page", fmt.Sprintf("page number must not be negative, got %d", k.page.number))
	case len(k.orders) == 0:
		return core.NewInvalidArgument("page", "order specification is empty")
	case k.kind != KeyFirst && len(k.key) != len(k.orders):
		return core.NewInvalidArgument("page",
			fmt.Sprintf("key has %d values for %d order terms", len(k.key), len(k.orders)))
	}
	return nil
}

func (k KeyedPage) next(lastKey []any) KeyedPage {
	return KeyedPage{page: k.page.Next(), orders: k.orders, kind: KeyNext, key: lastKey}
}

func (k KeyedPage) previous(firstKey []any) KeyedPage {
	return KeyedPage{page: k.page.Previous(), orders: k.orders, kind: KeyPrevious, key: firstKey}
}

// ---------- Cursor encoding ----------

type cursor struct {
	Size   int           `json:"s"`
	Number int           `json:"n"`
	Kind   string        `json:"k"`
	Orders []cursorOrder `json:"o"`
	Key    []cursorValue `json:"v,omitempty"`
}

type cursorOrder struct {
	Entity    string `json:"e"`
	Attribute string `json:"a"`
	Desc      bool   `json:"d,omitempty"`
	Nulls     string `json:"nl,omitempty"`
}

// cursorValue keeps the Go type of a key value across the round trip.
type cursorValue struct {
	Type  string `json:"t"`
	Value any    `json:"v,omitempty"`
}

// Encode serializes the token into an opaque URL-safe cursor.
func (k KeyedPage) Encode() (string, error) {
	c := cursor{Size: k.page.size, Number: k.page.number, Kind: k.kind.String()}
	for _, o := range k.orders {
		co := cursorOrder{Entity: o.entity, Attribute: o.attribute, Desc: o.desc}
		if o.nulls != core.NullsDefault {
			co.Nulls = o.nulls.String()
		}
		c.Orders = append(c.Orders, co)
	}
	for _, v := range k.key {
		cv, err := encodeValue(v)
		if err != nil {
			return "", err
		}
		c.Key = append(c.Key, cv)
	}

	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encoding cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// DecodeKeyedPage parses a cursor produced by Encode.
func DecodeKeyedPage(s string) (KeyedPage, error) {
	data, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return KeyedPage{}, core.NewInvalidArgument("cursor", "malformed cursor")
	}
	var c cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return KeyedPage{}, core.NewInvalidArgument("cursor", "malformed cursor")
	}

	k := KeyedPage{page: Page{size: c.Size, number: c.Number}}
	switch c.Kind {
	case "first":
		k.kind = KeyFirst
	case "next":
		k.kind = KeyNext
	case "previous":
		k.kind = KeyPrevious
	default:
		return KeyedPage{}, core.NewInvalidArgument("cursor", "unknown cursor kind "+c.Kind)
	}
	for _, co := range c.Orders {
		o := Order{entity: co.Entity, attribute: co.Attribute, desc: co.Desc}
		switch co.Nulls {
		case "":
		case core.NullsFirst.String():
			o.nulls = core.NullsFirst
		case core.NullsLast.String():
			o.nulls = core.NullsLast
		default:
			return KeyedPage{}, core.NewInvalidArgument("cursor", "unknown null precedence "+co.Nulls)
		}
		k.orders = append(k.orders, o)
	}
	for _, cv := range c.Key {
		v, err := decodeValue(cv)
		if err != nil {
			return KeyedPage{}, err
		}
		k.key = append(k.key, v)
	}
	if err := k.Validate(); err != nil {
		return KeyedPage{}, err
	}
	return k, nil
}

func encodeValue(v any) (cursorValue, error) {
	switch x := v.(type) {
	case nil:
		return cursorValue{Type: "null"}, nil
	case string:
		return cursorValue{Type: "string", Value: x}, nil
	case bool:
		return cursorValue{Type: "bool", Value: x}, nil
	case int:
		return cursorValue{Type: "int", Value: strconv.Itoa(x)}, nil
	case int32:
		return cursorValue{Type: "int", Value: strconv.FormatInt(int64(x), 10)}, nil
	case int64:
		return cursorValue{Type: "int", Value: strconv.FormatInt(x, 10)}, nil
	case float32:
		return cursorValue{Type: "float", Value: float64(x)}, nil
	case float64:
		return cursorValue{Type: "float", Value: x}, nil
	case time.Time:
		return cursorValue{Type: "time", Value: x.Format(time.RFC3339Nano)}, nil
	case []byte:
		return cursorValue{Type: "bytes", Value: base64.StdEncoding.EncodeToString(x)}, nil
	default:
		return cursorValue{}, core.NewInvalidArgument("cursor", fmt.Sprintf("cannot encode key value of type %T", v))
	}
}

func decodeValue(cv cursorValue) (any, error) {
	bad := core.NewInvalidArgument("cursor", "malformed key value of type "+cv.Type)
	switch cv.Type {
	case "null":
		return nil, nil
	case "string":
		s, ok := cv.Value.(string)
		if !ok {
			return nil, bad
		}
		return s, nil
	case "bool":
		b, ok := cv.Value.(bool)
		if !ok {
			return nil, bad
		}
		return b, nil
	case "int":
		// kept as a string; JSON numbers lose int64 precision
		s, ok := cv.Value.(string)
		if !ok {
			return nil, bad
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, bad
		}
		return n, nil
	case "float":
		f, ok := cv.Value.(float64)
		if !ok {
			return nil, bad
		}
		return f, nil
	case "time":
		s, ok := cv.Value.(string)
		if !ok {
			return nil, bad
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, bad
		}
		return t, nil
	case "bytes":
		s, ok := cv.Value.(string)
		if !ok {
			return nil, bad
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, bad
		}
		return b, nil
	default:
		return nil, bad
	}
}
