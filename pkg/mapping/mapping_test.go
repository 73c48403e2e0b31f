package mapping

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	ID        int
	SSN       string
	FirstName *string
	DOB       *time.Time
	Active    bool
	Score     float64
}

func personMapping() *Mapping[person] {
	return New[person]("Person", "person").
		ID("id", "id", func(p *person) *int { return &p.ID }).
		String("ssn", "ssn", func(p *person) *string { return &p.SSN }).
		NullString("firstName", "first_name", func(p *person) **string { return &p.FirstName }).
		NullDate("dob", "dob", func(p *person) **time.Time { return &p.DOB }).
		Bool("active", "", func(p *person) *bool { return &p.Active }).
		Float("score", "score", func(p *person) *float64 { return &p.Score })
}

func TestMapping_Entity(t *testing.T) {
	m, err := personMapping().Build()
	require.NoError(t, err)

	e := m.Entity()
	assert.Equal(t, "Person", e.Name)
	assert.Equal(t, "person", e.Table)
	assert.Equal(t, "id", e.ID)
	require.Len(t, e.Attributes, 6)
	assert.Equal(t, core.Attribute{Name: "firstName", Column: "first_name", Type: core.TypeString, Nullable: true}, e.Attributes[2])
	assert.Equal(t, "active", e.Attributes[4].Column)
}

func TestMapping_SetAndGet(t *testing.T) {
	m := personMapping().MustBuild()
	p := m.New()

	require.NoError(t, m.Set(p, "id", int64(7)))
	require.NoError(t, m.Set(p, "SSN", []byte("123-45")))
	require.NoError(t, m.Set(p, "firstName", "Ada"))
	require.NoError(t, m.Set(p, "dob", "1815-12-10"))
	require.NoError(t, m.Set(p, "active", int64(1)))
	require.NoError(t, m.Set(p, "score", "2.5"))

	assert.Equal(t, 7, p.ID)
	assert.Equal(t, "123-45", p.SSN)
	require.NotNil(t, p.FirstName)
	assert.Equal(t, "Ada", *p.FirstName)
	require.NotNil(t, p.DOB)
	assert.Equal(t, time.Date(1815, 12, 10, 0, 0, 0, 0, time.UTC), *p.DOB)
	assert.True(t, p.Active)
	assert.InDelta(t, 2.5, p.Score, 1e-9)

	v, err := m.Get(p, "id")
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	require.NoError(t, m.Set(p, "dob", nil))
	assert.Nil(t, p.DOB)
	v, err = m.Get(p, "dob")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestMapping_SetErrors(t *testing.T) {
	m := personMapping().MustBuild()
	p := m.New()

	err := m.Set(p, "ssn", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNull))

	err = m.Set(p, "id", "seven")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "attribute id")

	err = m.Set(p, "nope", 1)
	var schemaErr *core.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "nope", schemaErr.Attribute)
}

func TestMapping_BuildErrors(t *testing.T) {
	_, err := New[person]("Person", "person").
		String("ssn", "ssn", func(p *person) *string { return &p.SSN }).
		Build()
	require.Error(t, err, "no identifier")

	_, err = personMapping().String("ssn", "ssn2", func(p *person) *string { return &p.SSN }).Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declares ssn twice")

	assert.Panics(t, func() { New[person]("", "person").MustBuild() })
}

func TestRecordMapping(t *testing.T) {
	m, err := RecordMapping(core.Entity{
		Name:  "Event",
		Table: "events",
		ID:    "id",
		Attributes: []core.Attribute{
			{Name: "id", Column: "id", Type: core.TypeInteger},
			{Name: "at", Column: "at", Type: core.TypeDate, Nullable: true},
			{Name: "ok", Column: "ok", Type: core.TypeBoolean},
		},
	})
	require.NoError(t, err)

	r := m.New()
	require.NoError(t, m.Set(r, "id", int32(3)))
	require.NoError(t, m.Set(r, "at", "2020-01-02 03:04:05"))
	require.NoError(t, m.Set(r, "ok", []byte("true")))

	assert.Equal(t, Record{
		"id": int64(3),
		"at": time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC),
		"ok": true,
	}, *r)
}

func TestMetamodel(t *testing.T) {
	mm := NewMetamodel()
	require.NoError(t, Register(mm, personMapping()))

	e, ok := mm.Entity("PERSON")
	require.True(t, ok)
	assert.Equal(t, "Person", e.Name)

	_, ok = mm.Entity("Nobody")
	assert.False(t, ok)

	err := Register(mm, personMapping())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	m, err := For[person](mm, "person")
	require.NoError(t, err)
	assert.Equal(t, "person", m.Entity().Table)

	_, err = For[Record](mm, "Person")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidArgument))

	_, err = For[person](mm, "Nobody")
	var schemaErr *core.SchemaError
	assert.True(t, errors.As(err, &schemaErr))
}

func TestMetamodel_Replace(t *testing.T) {
	mm := NewMetamodel()
	require.NoError(t, Register(mm, personMapping()))

	event := core.Entity{Name: "Event", Table: "events", ID: "id",
		Attributes: []core.Attribute{{Name: "id", Column: "id", Type: core.TypeInteger}}}
	require.NoError(t, mm.Replace([]core.Entity{event}))
	assert.Len(t, mm.Entities(), 2)

	require.NoError(t, mm.Replace(nil))
	require.Len(t, mm.Entities(), 1)
	assert.Equal(t, "Person", mm.Entities()[0].Name)

	clash := core.Entity{Name: "person", Table: "p", ID: "id",
		Attributes: []core.Attribute{{Name: "id", Column: "id", Type: core.TypeInteger}}}
	err := mm.Replace([]core.Entity{clash})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already mapped to a type")
}

func TestMetamodel_ConcurrentLookup(t *testing.T) {
	mm := NewMetamodel()
	require.NoError(t, Register(mm, personMapping()))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, ok := mm.Entity("Person")
				assert.True(t, ok)
			}
		}()
	}
	wg.Wait()
}

func TestConvert(t *testing.T) {
	n, err := Convert[int](int64(42))
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	f, err := Convert[float64](int64(3))
	require.NoError(t, err)
	assert.InDelta(t, 3.0, f, 1e-9)

	s, err := Convert[string]([]byte("x,y"))
	require.NoError(t, err)
	assert.Equal(t, "x,y", s)

	_, err = Convert[int](2.5)
	assert.Error(t, err)

	_, err = Convert[int](nil)
	assert.ErrorIs(t, err, ErrNull)

	_, err = Convert[[]int]("x")
	assert.Error(t, err)

	v, err := Coerce(core.TypeDate, "2020-01-02T03:04:05Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC), v)

	v, err = Coerce(core.TypeInteger, nil)
	require.NoError(t, err)
	assert.Nil(t, v)
}
