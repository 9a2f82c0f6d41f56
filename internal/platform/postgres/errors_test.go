package postgres_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/itinerator-api/internal/platform/postgres"
	"github.com/phrazzld/itinerator-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func newPgError(code, constraint string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		Message:        "error message",
		TableName:      "users",
		ColumnName:     "title",
		ConstraintName: constraint,
	}
}

// mockResult implements sql.Result for testing
type mockResult struct {
	rowsAffected int64
	err          error
}

func (m mockResult) LastInsertId() (int64, error) { return 0, m.err }
func (m mockResult) RowsAffected() (int64, error) { return m.rowsAffected, m.err }

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "no rows", err: sql.ErrNoRows, want: store.ErrNotFound},
		{name: "username unique", err: newPgError("23505", "users_username_key"), want: store.ErrUsernameExists},
		{name: "email unique", err: newPgError("23505", "users_email_key"), want: store.ErrEmailExists},
		{name: "other unique", err: newPgError("23505", "something_else"), want: store.ErrDuplicate},
		{name: "foreign key", err: newPgError("23503", "itineraries_user_id_fkey"), want: store.ErrInvalidEntity},
		{name: "check", err: newPgError("23514", "itineraries_title_check"), want: store.ErrInvalidEntity},
		{name: "not null", err: newPgError("23502", ""), want: store.ErrInvalidEntity},
		{
			name: "wrapped pg error",
			err:  fmt.Errorf("exec: %w", newPgError("23505", "users_email_key")),
			want: store.ErrEmailExists,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, postgres.MapError(tt.err), tt.want)
		})
	}

	assert.NoError(t, postgres.MapError(nil))

	plain := errors.New("connection refused")
	assert.Equal(t, plain, postgres.MapError(plain))
}

func TestViolationPredicates(t *testing.T) {
	t.Parallel()

	assert.True(t, postgres.IsUniqueViolation(newPgError("23505", "")))
	assert.False(t, postgres.IsUniqueViolation(newPgError("23503", "")))
	assert.True(t, postgres.IsForeignKeyViolation(fmt.Errorf("wrap: %w", newPgError("23503", ""))))
	assert.False(t, postgres.IsForeignKeyViolation(errors.New("other")))
	assert.True(t, postgres.IsNotNullViolation(newPgError("23502", "")))
	assert.False(t, postgres.IsNotNullViolation(nil))
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	assert.NoError(t, postgres.CheckRowsAffected(mockResult{rowsAffected: 1}, store.ErrTravelNotFound))
	assert.ErrorIs(t,
		postgres.CheckRowsAffected(mockResult{rowsAffected: 0}, store.ErrTravelNotFound),
		store.ErrTravelNotFound)
	assert.ErrorIs(t, postgres.CheckRowsAffected(mockResult{rowsAffected: 0}, nil), store.ErrNotFound)
	assert.Error(t, postgres.CheckRowsAffected(mockResult{err: errors.New("driver")}, nil))
	assert.Error(t, postgres.CheckRowsAffected(nil, nil))
}
