package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/itinerator-api/internal/domain"
	"github.com/phrazzld/itinerator-api/internal/platform/logger"
	"github.com/phrazzld/itinerator-api/internal/store"
)

// PostgresTravelStore implements store.TravelStore. The depart and arrive
// legs are stored as jsonb documents.
type PostgresTravelStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTravelStore creates a new PostgreSQL implementation of the TravelStore interface.
func NewPostgresTravelStore(db store.DBTX, logger *slog.Logger) *PostgresTravelStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTravelStore{
		db:     db,
		logger: logger.With(slog.String("component", "travel_store")),
	}
}

var _ store.TravelStore = (*PostgresTravelStore)(nil)

// WithTx implements store.TravelStore.WithTx
func (s *PostgresTravelStore) WithTx(tx *sql.Tx) store.TravelStore {
	return &PostgresTravelStore{db: tx, logger: s.logger}
}

func encodeLegs(t *domain.Travel) (string, string, error) {
	depart, err := json.Marshal(t.Depart)
	if err != nil {
		return "", "", fmt.Errorf("encode depart leg: %w", err)
	}
	arrive, err := json.Marshal(t.Arrive)
	if err != nil {
		return "", "", fmt.Errorf("encode arrive leg: %w", err)
	}
	return string(depart), string(arrive), nil
}

// Create implements store.TravelStore.Create
func (s *PostgresTravelStore) Create(ctx context.Context, t *domain.Travel) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := t.Validate(); err != nil {
		return err
	}

	depart, arrive, err := encodeLegs(t)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO travels (id, depart, arrive, itinerary_id)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := s.db.ExecContext(ctx, query, t.ID, depart, arrive, nullableUUID(t.ItineraryID)); err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: itinerary not found", store.ErrInvalidEntity)
		}
		log.Error("failed to create travel",
			slog.String("error", err.Error()),
			slog.String("travel_id", t.ID.String()))
		return store.NewStoreError("travel", "create", "insert failed", MapError(err))
	}

	log.Info("travel created", slog.String("travel_id", t.ID.String()))
	return nil
}

// GetByID implements store.TravelStore.GetByID
func (s *PostgresTravelStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Travel, error) {
	return s.get(ctx, id, "")
}

// GetByIDForUpdate implements store.TravelStore.GetByIDForUpdate. The row
// stays locked until the surrounding transaction ends.
func (s *PostgresTravelStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Travel, error) {
	return s.get(ctx, id, " FOR UPDATE")
}

func (s *PostgresTravelStore) get(ctx context.Context, id uuid.UUID, lock string) (*domain.Travel, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, depart, arrive, itinerary_id
		FROM travels
		WHERE id = $1` + lock
	var (
		t              domain.Travel
		depart, arrive []byte
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &depart, &arrive, &t.ItineraryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTravelNotFound
		}
		log.Error("failed to get travel",
			slog.String("error", err.Error()),
			slog.String("travel_id", id.String()))
		return nil, store.NewStoreError("travel", "get", "query failed", MapError(err))
	}

	if err := json.Unmarshal(depart, &t.Depart); err != nil {
		return nil, store.NewStoreError("travel", "get", "decode depart leg", err)
	}
	if err := json.Unmarshal(arrive, &t.Arrive); err != nil {
		return nil, store.NewStoreError("travel", "get", "decode arrive leg", err)
	}

	return &t, nil
}

// Update implements store.TravelStore.Update
func (s *PostgresTravelStore) Update(ctx context.Context, t *domain.Travel) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := t.Validate(); err != nil {
		return err
	}

	depart, arrive, err := encodeLegs(t)
	if err != nil {
		return err
	}

	query := `
		UPDATE travels
		SET depart = $2, arrive = $3, itinerary_id = $4
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, t.ID, depart, arrive, nullableUUID(t.ItineraryID))
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: itinerary not found", store.ErrInvalidEntity)
		}
		log.Error("failed to update travel",
			slog.String("error", err.Error()),
			slog.String("travel_id", t.ID.String()))
		return store.NewStoreError("travel", "update", "update failed", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrTravelNotFound)
}

// Delete implements store.TravelStore.Delete
func (s *PostgresTravelStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, "DELETE FROM travels WHERE id = $1", id)
	if err != nil {
		log.Error("failed to delete travel",
			slog.String("error", err.Error()),
			slog.String("travel_id", id.String()))
		return store.NewStoreError("travel", "delete", "delete failed", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrTravelNotFound)
}
