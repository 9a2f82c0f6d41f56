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

// PostgresLodgingStore implements store.LodgingStore.
type PostgresLodgingStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLodgingStore creates a new PostgreSQL implementation of the LodgingStore interface.
func NewPostgresLodgingStore(db store.DBTX, logger *slog.Logger) *PostgresLodgingStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresLodgingStore{
		db:     db,
		logger: logger.With(slog.String("component", "lodging_store")),
	}
}

var _ store.LodgingStore = (*PostgresLodgingStore)(nil)

// WithTx implements store.LodgingStore.WithTx
func (s *PostgresLodgingStore) WithTx(tx *sql.Tx) store.LodgingStore {
	return &PostgresLodgingStore{db: tx, logger: s.logger}
}

// Create implements store.LodgingStore.Create
func (s *PostgresLodgingStore) Create(ctx context.Context, l *domain.Lodging) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := l.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO lodgings (id, check_in, check_out, address, phone, email, notes, confirmation, itinerary_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		l.ID, l.CheckIn, l.CheckOut, l.Address, l.Phone, l.Email, l.Notes, l.Confirmation,
		nullableUUID(l.ItineraryID),
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: itinerary not found", store.ErrInvalidEntity)
		}
		log.Error("failed to create lodging",
			slog.String("error", err.Error()),
			slog.String("lodging_id", l.ID.String()))
		return store.NewStoreError("lodging", "create", "insert failed", MapError(err))
	}

	log.Info("lodging created", slog.String("lodging_id", l.ID.String()))
	return nil
}

// GetByID implements store.LodgingStore.GetByID
func (s *PostgresLodgingStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lodging, error) {
	return s.get(ctx, id, "")
}

// GetByIDForUpdate implements store.LodgingStore.GetByIDForUpdate. The row
// stays locked until the surrounding transaction ends.
func (s *PostgresLodgingStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Lodging, error) {
	return s.get(ctx, id, " FOR UPDATE")
}

func (s *PostgresLodgingStore) get(ctx context.Context, id uuid.UUID, lock string) (*domain.Lodging, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, check_in, check_out, address, phone, email, notes, confirmation, itinerary_id
		FROM lodgings
		WHERE id = $1` + lock
	var l domain.Lodging
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&l.ID, &l.CheckIn, &l.CheckOut, &l.Address, &l.Phone, &l.Email, &l.Notes, &l.Confirmation, &l.ItineraryID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrLodgingNotFound
		}
		log.Error("failed to get lodging",
			slog.String("error", err.Error()),
			slog.String("lodging_id", id.String()))
		return nil, store.NewStoreError("lodging", "get", "query failed", MapError(err))
	}

	return &l, nil
}

// Update implements store.LodgingStore.Update
func (s *PostgresLodgingStore) Update(ctx context.Context, l *domain.Lodging) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := l.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE lodgings
		SET check_in = $2, check_out = $3, address = $4, phone = $5, email = $6, notes = $7,
			confirmation = $8, itinerary_id = $9
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		l.ID, l.CheckIn, l.CheckOut, l.Address, l.Phone, l.Email, l.Notes, l.Confirmation,
		nullableUUID(l.ItineraryID),
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: itinerary not found", store.ErrInvalidEntity)
		}
		log.Error("failed to update lodging",
			slog.String("error", err.Error()),
			slog.String("lodging_id", l.ID.String()))
		return store.NewStoreError("lodging", "update", "update failed", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrLodgingNotFound)
}

// Delete implements store.LodgingStore.Delete
func (s *PostgresLodgingStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, "DELETE FROM lodgings WHERE id = $1", id)
	if err != nil {
		log.Error("failed to delete lodging",
			slog.String("error", err.Error()),
			slog.String("lodging_id", id.String()))
		return store.NewStoreError("lodging", "delete", "delete failed", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrLodgingNotFound)
}
