package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/leapstack-labs/leapquery/pkg/translate"
)

// Session is a single-threaded unit of work. It holds no connection of
// its own; statements go through the factory's adapter.
type Session struct {
	id     uuid.UUID
	f      *Factory
	logger *slog.Logger
	closed bool
}

// Open starts a session.
func (f *Factory) Open() *Session {
	id := uuid.New()
	s := &Session{
		id:     id,
		f:      f,
		logger: f.logger.With(slog.String("session", id.String())),
	}
	s.logger.Debug("session opened")
	return s
}

// ID returns the session identifier used in log records.
func (s *Session) ID() uuid.UUID { return s.id }

// Factory returns the factory the session was opened from.
func (s *Session) Factory() *Factory { return s.f }

// Close ends the session. Closing twice is a no-op.
func (s *Session) Close() error {
	if !s.closed {
		s.closed = true
		s.logger.Debug("session closed")
	}
	return nil
}

func (s *Session) checkOpen() error {
	if s.closed {
		return core.NewInvalidArgument("session", "session is closed")
	}
	return nil
}

// resultSet holds fully read rows; no database resources stay open.
type resultSet struct {
	columns []string
	rows    [][]any
}

// fetch binds params, runs stmt and reads every row. Port failures are
// returned as *core.ExecutionError carrying the SQL.
func (s *Session) fetch(ctx context.Context, stmt *translate.Statement, params map[string]any) (*resultSet, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	args, err := stmt.Bind(params)
	if err != nil {
		return nil, err
	}
	if s.f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.f.timeout)
		defer cancel()
	}

	start := time.Now()
	rows, err := s.f.adapter.Query(ctx, stmt.SQL, args...)
	if err != nil {
		return nil, s.failed(stmt.SQL, err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, s.failed(stmt.SQL, err)
	}
	rs := &resultSet{columns: cols}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, s.failed(stmt.SQL, err)
		}
		rs.rows = append(rs.rows, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, s.failed(stmt.SQL, err)
	}

	s.logger.Debug("query executed",
		slog.String("sql", stmt.SQL),
		slog.Int("rows", len(rs.rows)),
		slog.Duration("elapsed", time.Since(start)))
	return rs, nil
}

func (s *Session) failed(sql string, err error) error {
	s.logger.Debug("query failed", slog.String("sql", sql), slog.String("error", err.Error()))
	return &core.ExecutionError{SQL: sql, Err: err}
}
