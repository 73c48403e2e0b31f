package session

import (
	"context"
	"strings"

	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/leapstack-labs/leapquery/pkg/mapping"
)

// Persist inserts v as a new row of its entity. Every mapped attribute is
// written, including the identifier; nothing cascades and no identifier
// is generated.
func Persist[T any](ctx context.Context, s *Session, entity string, v *T) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	m, err := mapping.For[T](s.f.models, entity)
	if err != nil {
		return err
	}
	e := m.Entity()
	d := s.f.dialect

	cols := make([]string, len(e.Attributes))
	marks := make([]string, len(e.Attributes))
	args := make([]any, len(e.Attributes))
	for i, a := range e.Attributes {
		cols[i] = d.QuoteIdentifierIfNeeded(a.Column)
		marks[i] = d.FormatPlaceholder(i + 1)
		val, err := m.Get(v, a.Name)
		if err != nil {
			return err
		}
		if b, ok := val.(bool); ok && d.BoolAsInt {
			val = 0
			if b {
				val = 1
			}
		}
		args[i] = val
	}

	sql := "insert into " + d.QuoteIdentifierIfNeeded(e.Table) +
		" (" + strings.Join(cols, ", ") + ") values (" + strings.Join(marks, ", ") + ")"
	if _, err := s.f.adapter.Exec(ctx, sql, args...); err != nil {
		return s.failed(sql, err)
	}
	s.logger.Debug("persisted", "entity", e.Name)
	return nil
}

// Exec runs a native SQL statement, such as DDL for fixtures. The SQL is
// passed to the adapter verbatim.
func (s *Session) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	if err := s.checkOpen(); err != nil {
		return 0, err
	}
	n, err := s.f.adapter.Exec(ctx, sql, args...)
	if err != nil {
		return 0, s.failed(sql, err)
	}
	return n, nil
}

// Entity reports whether name is a mapped entity.
func (s *Session) Entity(name string) (*core.Entity, bool) {
	return s.f.models.Entity(name)
}
