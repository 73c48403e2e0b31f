package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBase returns a base adapter over a sqlmock connection that expects
// statements verbatim.
func mockBase(t *testing.T) (*BaseSQLAdapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	base := NewBase(nil)
	base.DB = db
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	return &base, mock
}

func TestBaseSQLAdapter_NotConnected(t *testing.T) {
	ctx := context.Background()
	base := NewBase(nil)

	assert.False(t, base.IsConnected())
	assert.NoError(t, base.Close(), "closing an unconnected adapter is a no-op")

	_, err := base.Exec(ctx, "delete from person")
	assert.ErrorIs(t, err, ErrNotConnected)

	rows, err := base.Query(ctx, "select p1_0.id from person p1_0")
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.Nil(t, rows)
}

func TestBaseSQLAdapter_Exec(t *testing.T) {
	const insert = "insert into person (id, ssn) values (?, ?)"

	tests := []struct {
		name     string
		expect   func(mock sqlmock.Sqlmock)
		args     []any
		affected int64
		errMsg   string
	}{
		{
			name: "binds arguments in order",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(insert).WithArgs(1, "7-123").WillReturnResult(sqlmock.NewResult(1, 1))
			},
			args:     []any{1, "7-123"},
			affected: 1,
		},
		{
			name: "driver without a row count",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(insert).WithArgs(2, "14-246").
					WillReturnResult(sqlmock.NewErrorResult(errors.New("rows affected unsupported")))
			},
			args: []any{2, "14-246"},
		},
		{
			name: "statement failure is wrapped",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(insert).WithArgs(1, "7-123").WillReturnError(errors.New("UNIQUE constraint failed: person.id"))
			},
			args:   []any{1, "7-123"},
			errMsg: "failed to execute SQL: UNIQUE constraint failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, mock := mockBase(t)
			tt.expect(mock)

			n, err := base.Exec(context.Background(), insert, tt.args...)
			if tt.errMsg != "" {
				assert.ErrorContains(t, err, tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.affected, n)
		})
	}
}

func TestBaseSQLAdapter_Query(t *testing.T) {
	const stmt = "select p1_0.id, p1_0.ssn from person p1_0 where p1_0.ssn like ? order by p1_0.id limit ?"

	t.Run("returns rows with column metadata", func(t *testing.T) {
		base, mock := mockBase(t)
		mock.ExpectQuery(stmt).WithArgs("7%", 3).WillReturnRows(
			sqlmock.NewRows([]string{"id", "ssn"}).
				AddRow(1, "7-123").
				AddRow(11, "77-1353"))

		rows, err := base.Query(context.Background(), stmt, "7%", 3)
		require.NoError(t, err)
		defer func() { _ = rows.Close() }()

		cols, err := rows.Columns()
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "ssn"}, cols)

		var ssns []string
		for rows.Next() {
			var id int
			var ssn string
			require.NoError(t, rows.Scan(&id, &ssn))
			ssns = append(ssns, ssn)
		}
		require.NoError(t, rows.Err())
		assert.Equal(t, []string{"7-123", "77-1353"}, ssns)
	})

	t.Run("failure is wrapped", func(t *testing.T) {
		base, mock := mockBase(t)
		mock.ExpectQuery(stmt).WithArgs("7%", 3).WillReturnError(errors.New("no such table: person"))

		_, err := base.Query(context.Background(), stmt, "7%", 3)
		assert.ErrorContains(t, err, "failed to execute query: no such table")
	})

	t.Run("canceled context", func(t *testing.T) {
		base, _ := mockBase(t)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := base.Query(ctx, stmt, "7%", 3)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestBaseSQLAdapter_Close(t *testing.T) {
	base, mock := mockBase(t)
	mock.ExpectClose()

	assert.True(t, base.IsConnected())
	assert.NoError(t, base.Close())
}

func TestBaseSQLAdapter_Open(t *testing.T) {
	ctx := context.Background()
	db, _, err := sqlmock.NewWithDSN("base_open_test")
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	base := NewBase(nil)
	require.NoError(t, base.Open(ctx, "sqlmock", "base_open_test", Config{Type: "sqlmock"}))
	defer func() { _ = base.Close() }()
	assert.True(t, base.IsConnected())
	assert.Equal(t, "sqlmock", base.Cfg.Type)

	other := NewBase(nil)
	err = other.Open(ctx, "no_such_driver", "", Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open no_such_driver connection")
	assert.False(t, other.IsConnected())
}
