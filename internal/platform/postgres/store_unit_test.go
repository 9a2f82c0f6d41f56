package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/itinerator-api/internal/domain"
	"github.com/phrazzld/itinerator-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func TestNewStoresPanicOnNilDB(t *testing.T) {
	assert.Panics(t, func() { NewPostgresUserStore(nil, nil) })
	assert.Panics(t, func() { NewPostgresItineraryStore(nil, nil) })
	assert.Panics(t, func() { NewPostgresActivityStore(nil, nil) })
	assert.Panics(t, func() { NewPostgresLodgingStore(nil, nil) })
	assert.Panics(t, func() { NewPostgresTravelStore(nil, nil) })
}

func TestChildColumn(t *testing.T) {
	col, err := childColumn(domain.ChildActivity)
	require.NoError(t, err)
	assert.Equal(t, "activity_ids", col)

	col, err = childColumn(domain.ChildLodging)
	require.NoError(t, err)
	assert.Equal(t, "lodging_ids", col)

	col, err = childColumn(domain.ChildTravel)
	require.NoError(t, err)
	assert.Equal(t, "travel_ids", col)

	_, err = childColumn("users; DROP TABLE users")
	assert.ErrorIs(t, err, domain.ErrInvalidChildKind)
}

func TestItineraryStore_AddChildIsSingleStatement(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresItineraryStore(db, nil)

	itineraryID, childID := uuid.New(), uuid.New()
	mock.ExpectExec(`UPDATE itineraries\s+SET activity_ids = CASE\s+WHEN \$2::uuid = ANY\(activity_ids\)`).
		WithArgs(itineraryID, childID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.AddChild(context.Background(), itineraryID, domain.ChildActivity, childID)
	assert.NoError(t, err)
}

func TestItineraryStore_RemoveChildMissingItinerary(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresItineraryStore(db, nil)

	mock.ExpectExec(`UPDATE itineraries\s+SET lodging_ids = array_remove\(lodging_ids, \$2::uuid\)`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.RemoveChild(context.Background(), uuid.New(), domain.ChildLodging, uuid.New())
	assert.ErrorIs(t, err, store.ErrItineraryNotFound)
}

func TestItineraryStore_AddChildUnknownKind(t *testing.T) {
	db, _ := newMockDB(t)
	s := NewPostgresItineraryStore(db, nil)

	err := s.AddChild(context.Background(), uuid.New(), domain.ChildKind("itinerary"), uuid.New())
	assert.ErrorIs(t, err, domain.ErrInvalidChildKind)
}

func TestItineraryStore_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresItineraryStore(db, nil)

	id, owner, act := uuid.New(), uuid.New(), uuid.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "title", "date_leave", "date_return", "public", "timestamp", "user_id",
		"travel_ids", "lodging_ids", "activity_ids",
	}).AddRow(id.String(), "Trip", nil, now, false, now, owner.String(), "{}", "{}", "{"+act.String()+"}")
	mock.ExpectQuery(`SELECT id, title`).WithArgs(id).WillReturnRows(rows)

	it, err := s.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, it.ID)
	assert.Equal(t, "Trip", it.Title)
	assert.Nil(t, it.DateLeave)
	require.NotNil(t, it.DateReturn)
	assert.True(t, it.DateReturn.Equal(now))
	assert.Equal(t, owner, it.UserID)
	assert.Empty(t, it.Travel)
	assert.NotNil(t, it.Travel)
	assert.Equal(t, []uuid.UUID{act}, it.Activity)
}

func TestItineraryStore_GetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresItineraryStore(db, nil)

	mock.ExpectQuery(`SELECT id, title`).WillReturnError(sql.ErrNoRows)

	_, err := s.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrItineraryNotFound)
}

func TestItineraryStore_CreateRejectsInvalid(t *testing.T) {
	db, _ := newMockDB(t)
	s := NewPostgresItineraryStore(db, nil)

	err := s.Create(context.Background(), &domain.Itinerary{ID: uuid.New(), UserID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrEmptyItineraryTitle)
}

func TestUserStore_AddAuthored(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresUserStore(db, nil)

	userID, itineraryID := uuid.New(), uuid.New()
	mock.ExpectExec(`UPDATE users\s+SET authored_ids = CASE`).
		WithArgs(userID, itineraryID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, s.AddAuthored(context.Background(), userID, itineraryID))
}

func TestUserStore_RemoveAuthoredUnknownUser(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresUserStore(db, nil)

	mock.ExpectExec(`UPDATE users\s+SET authored_ids = array_remove`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.RemoveAuthored(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestUserStore_GetByUsernameNormalizes(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresUserStore(db, nil)

	id, authored := uuid.New(), uuid.New()
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "username", "email", "hashed_password", "authored_ids", "created_at", "updated_at",
	}).AddRow(id.String(), "alice", "alice@example.com", "hash", "{"+authored.String()+"}", now, now)
	mock.ExpectQuery(`WHERE username = \$1`).WithArgs("alice").WillReturnRows(rows)

	u, err := s.GetByUsername(context.Background(), "  Alice ")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, []uuid.UUID{authored}, u.AuthorOf)
	assert.Equal(t, "hash", u.HashedPassword)
}

func TestUserStore_CreateDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresUserStore(db, nil)

	u, err := domain.NewUser("alice", "alice@example.com", "pw1234")
	require.NoError(t, err)
	u.HashedPassword = "hash"

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(newTestPgError("23505", usersUsernameKey))

	err = s.Create(context.Background(), u)
	assert.ErrorIs(t, err, store.ErrUsernameExists)
}

func TestUserStore_CreateRequiresHash(t *testing.T) {
	db, _ := newMockDB(t)
	s := NewPostgresUserStore(db, nil)

	u, err := domain.NewUser("alice", "alice@example.com", "pw1234")
	require.NoError(t, err)

	assert.ErrorIs(t, s.Create(context.Background(), u), domain.ErrEmptyHashedPassword)
}

func TestActivityStore_CreateForeignKey(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresActivityStore(db, nil)

	parent := uuid.New()
	mock.ExpectExec(`INSERT INTO activities`).
		WillReturnError(newTestPgError("23503", "activities_itinerary_id_fkey"))

	err := s.Create(context.Background(), &domain.Activity{ID: uuid.New(), ItineraryID: &parent})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

func TestActivityStore_DeleteMissing(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresActivityStore(db, nil)

	mock.ExpectExec(`DELETE FROM activities`).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, s.Delete(context.Background(), uuid.New()), store.ErrActivityNotFound)
}

func TestLodgingStore_GetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresLodgingStore(db, nil)

	mock.ExpectQuery(`FROM lodgings`).WillReturnError(sql.ErrNoRows)

	_, err := s.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrLodgingNotFound)
}

func TestTravelStore_GetByIDDecodesLegs(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresTravelStore(db, nil)

	id := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "depart", "arrive", "itinerary_id"}).
		AddRow(id.String(), []byte(`{"location":"PDX","mode":"air"}`), []byte(`{"location":"LIS"}`), nil)
	mock.ExpectQuery(`FROM travels`).WithArgs(id).WillReturnRows(rows)

	tr, err := s.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "PDX", tr.Depart.Location)
	assert.Equal(t, "air", tr.Depart.Mode)
	assert.Equal(t, "LIS", tr.Arrive.Location)
	assert.Nil(t, tr.ItineraryID)
}

func TestChildStores_GetByIDForUpdateLocksRow(t *testing.T) {
	t.Run("activity", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresActivityStore(db, nil)

		id, parent := uuid.New(), uuid.New()
		rows := sqlmock.NewRows([]string{"id", "date", "time", "address", "phone", "email", "notes", "ticket", "itinerary_id"}).
			AddRow(id.String(), nil, "", "", "", "", "", "", parent.String())
		mock.ExpectQuery(`FROM activities\s+WHERE id = \$1 FOR UPDATE`).WithArgs(id).WillReturnRows(rows)

		a, err := s.GetByIDForUpdate(context.Background(), id)
		require.NoError(t, err)
		require.NotNil(t, a.ItineraryID)
		assert.Equal(t, parent, *a.ItineraryID)
	})

	t.Run("lodging", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresLodgingStore(db, nil)

		mock.ExpectQuery(`FROM lodgings\s+WHERE id = \$1 FOR UPDATE`).WillReturnError(sql.ErrNoRows)

		_, err := s.GetByIDForUpdate(context.Background(), uuid.New())
		assert.ErrorIs(t, err, store.ErrLodgingNotFound)
	})

	t.Run("travel", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresTravelStore(db, nil)

		mock.ExpectQuery(`FROM travels\s+WHERE id = \$1 FOR UPDATE`).WillReturnError(sql.ErrNoRows)

		_, err := s.GetByIDForUpdate(context.Background(), uuid.New())
		assert.ErrorIs(t, err, store.ErrTravelNotFound)
	})
}

func TestTravelStore_UpdateMissing(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresTravelStore(db, nil)

	mock.ExpectExec(`UPDATE travels`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Update(context.Background(), &domain.Travel{ID: uuid.New()})
	assert.ErrorIs(t, err, store.ErrTravelNotFound)
}

func TestStoresWithTx(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM lodgings`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)

	s := NewPostgresLodgingStore(db, nil).WithTx(tx)
	assert.NoError(t, s.Delete(context.Background(), uuid.New()))
	assert.NoError(t, tx.Rollback())
}

func TestStoreErrorKeepsCause(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresItineraryStore(db, nil)

	cause := errors.New("connection reset")
	mock.ExpectExec(`DELETE FROM itineraries`).WillReturnError(cause)

	err := s.Delete(context.Background(), uuid.New())
	var storeErr *store.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "delete", storeErr.Operation)
	assert.ErrorIs(t, err, cause)
}
