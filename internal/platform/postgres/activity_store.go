package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/itinerator-api/internal/domain"
	"github.com/phrazzld/itinerator-api/internal/platform/logger"
	"github.com/phrazzld/itinerator-api/internal/store"
)

// PostgresActivityStore implements store.ActivityStore.
type PostgresActivityStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresActivityStore creates a new PostgreSQL implementation of the ActivityStore interface.
func NewPostgresActivityStore(db store.DBTX, logger *slog.Logger) *PostgresActivityStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresActivityStore{
		db:     db,
		logger: logger.With(slog.String("component", "activity_store")),
	}
}

var _ store.ActivityStore = (*PostgresActivityStore)(nil)

// WithTx implements store.ActivityStore.WithTx
func (s *PostgresActivityStore) WithTx(tx *sql.Tx) store.ActivityStore {
	return &PostgresActivityStore{db: tx, logger: s.logger}
}

// Create implements store.ActivityStore.Create
func (s *PostgresActivityStore) Create(ctx context.Context, a *domain.Activity) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := a.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO activities (id, date, time, address, phone, email, notes, ticket, itinerary_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		a.ID, a.Date, a.Time, a.Address, a.Phone, a.Email, a.Notes, a.Ticket, nullableUUID(a.ItineraryID),
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: itinerary not found", store.ErrInvalidEntity)
		}
		log.Error("failed to create activity",
			slog.String("error", err.Error()),
			slog.String("activity_id", a.ID.String()))
		return store.NewStoreError("activity", "create", "insert failed", MapError(err))
	}

	log.Info("activity created", slog.String("activity_id", a.ID.String()))
	return nil
}

// GetByID implements store.ActivityStore.GetByID
func (s *PostgresActivityStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Activity, error) {
	return s.get(ctx, id, "")
}

// GetByIDForUpdate implements store.ActivityStore.GetByIDForUpdate. The row
// stays locked until the surrounding transaction ends.
func (s *PostgresActivityStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Activity, error) {
	return s.get(ctx, id, " FOR UPDATE")
}

func (s *PostgresActivityStore) get(ctx context.Context, id uuid.UUID, lock string) (*domain.Activity, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, date, time, address, phone, email, notes, ticket, itinerary_id
		FROM activities
		WHERE id = $1` + lock
	var a domain.Activity
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.Date, &a.Time, &a.Address, &a.Phone, &a.Email, &a.Notes, &a.Ticket, &a.ItineraryID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrActivityNotFound
		}
		log.Error("failed to get activity",
			slog.String("error", err.Error()),
			slog.String("activity_id", id.String()))
		return nil, store.NewStoreError("activity", "get", "query failed", MapError(err))
	}

	return &a, nil
}

// Update implements store.ActivityStore.Update
func (s *PostgresActivityStore) Update(ctx context.Context, a *domain.Activity) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := a.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE activities
		SET date = $2, time = $3, address = $4, phone = $5, email = $6, notes = $7, ticket = $8,
			itinerary_id = $9
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		a.ID, a.Date, a.Time, a.Address, a.Phone, a.Email, a.Notes, a.Ticket, nullableUUID(a.ItineraryID),
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: itinerary not found", store.ErrInvalidEntity)
		}
		log.Error("failed to update activity",
			slog.String("error", err.Error()),
			slog.String("activity_id", a.ID.String()))
		return store.NewStoreError("activity", "update", "update failed", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrActivityNotFound)
}

// Delete implements store.ActivityStore.Delete
func (s *PostgresActivityStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, "DELETE FROM activities WHERE id = $1", id)
	if err != nil {
		log.Error("failed to delete activity",
			slog.String("error", err.Error()),
			slog.String("activity_id", id.String()))
		return store.NewStoreError("activity", "delete", "delete failed", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrActivityNotFound)
}
