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

// PostgresItineraryStore implements the store.ItineraryStore interface
// using a PostgreSQL database as the storage backend.
type PostgresItineraryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresItineraryStore creates a new PostgreSQL implementation of the ItineraryStore interface.
func NewPostgresItineraryStore(db store.DBTX, logger *slog.Logger) *PostgresItineraryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresItineraryStore{
		db:     db,
		logger: logger.With(slog.String("component", "itinerary_store")),
	}
}

var _ store.ItineraryStore = (*PostgresItineraryStore)(nil)

// WithTx implements store.ItineraryStore.WithTx
func (s *PostgresItineraryStore) WithTx(tx *sql.Tx) store.ItineraryStore {
	return &PostgresItineraryStore{
		db:     tx,
		logger: s.logger,
	}
}

// childColumn maps a child kind to its list column. Column names are never
// taken from input.
func childColumn(kind domain.ChildKind) (string, error) {
	switch kind {
	case domain.ChildActivity:
		return "activity_ids", nil
	case domain.ChildLodging:
		return "lodging_ids", nil
	case domain.ChildTravel:
		return "travel_ids", nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidChildKind, kind)
	}
}

// Create implements store.ItineraryStore.Create
func (s *PostgresItineraryStore) Create(ctx context.Context, it *domain.Itinerary) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := it.Validate(); err != nil {
		log.Warn("itinerary validation failed during create",
			slog.String("error", err.Error()),
			slog.String("itinerary_id", it.ID.String()))
		return err
	}

	query := `
		INSERT INTO itineraries (id, title, date_leave, date_return, public, timestamp, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		it.ID,
		it.Title,
		it.DateLeave,
		it.DateReturn,
		it.Public,
		it.Timestamp,
		it.UserID,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during itinerary creation",
				slog.String("itinerary_id", it.ID.String()),
				slog.String("user_id", it.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found", store.ErrInvalidEntity, it.UserID)
		}
		log.Error("failed to create itinerary",
			slog.String("error", err.Error()),
			slog.String("itinerary_id", it.ID.String()))
		return store.NewStoreError("itinerary", "create", "insert failed", MapError(err))
	}

	log.Info("itinerary created successfully",
		slog.String("itinerary_id", it.ID.String()),
		slog.String("user_id", it.UserID.String()))
	return nil
}

const selectItineraryColumns = `
	SELECT id, title, date_leave, date_return, public, timestamp, user_id,
		travel_ids, lodging_ids, activity_ids
	FROM itineraries
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItinerary(row rowScanner) (*domain.Itinerary, error) {
	var (
		it                        domain.Itinerary
		travel, lodging, activity uuidArray
	)
	if err := row.Scan(
		&it.ID,
		&it.Title,
		&it.DateLeave,
		&it.DateReturn,
		&it.Public,
		&it.Timestamp,
		&it.UserID,
		travel.scanner(),
		lodging.scanner(),
		activity.scanner(),
	); err != nil {
		return nil, err
	}

	var err error
	if it.Travel, err = travel.UUIDs(); err != nil {
		return nil, err
	}
	if it.Lodging, err = lodging.UUIDs(); err != nil {
		return nil, err
	}
	if it.Activity, err = activity.UUIDs(); err != nil {
		return nil, err
	}
	return &it, nil
}

// GetByID implements store.ItineraryStore.GetByID
func (s *PostgresItineraryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Itinerary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	it, err := scanItinerary(s.db.QueryRowContext(ctx, selectItineraryColumns+" WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("itinerary not found", slog.String("itinerary_id", id.String()))
			return nil, store.ErrItineraryNotFound
		}
		log.Error("failed to get itinerary",
			slog.String("error", err.Error()),
			slog.String("itinerary_id", id.String()))
		return nil, store.NewStoreError("itinerary", "get", "query failed", MapError(err))
	}

	return it, nil
}

// ListByUser implements store.ItineraryStore.ListByUser
func (s *PostgresItineraryStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Itinerary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(
		ctx,
		selectItineraryColumns+" WHERE user_id = $1 ORDER BY timestamp DESC, id",
		userID,
	)
	if err != nil {
		log.Error("failed to list itineraries",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, store.NewStoreError("itinerary", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	itineraries := []*domain.Itinerary{}
	for rows.Next() {
		it, err := scanItinerary(rows)
		if err != nil {
			return nil, store.NewStoreError("itinerary", "list", "scan failed", err)
		}
		itineraries = append(itineraries, it)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("itinerary", "list", "iteration failed", err)
	}

	log.Debug("itineraries listed",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(itineraries)))
	return itineraries, nil
}

// Update implements store.ItineraryStore.Update
func (s *PostgresItineraryStore) Update(ctx context.Context, it *domain.Itinerary) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := it.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE itineraries
		SET title = $1, date_leave = $2, date_return = $3, public = $4
		WHERE id = $5
	`
	result, err := s.db.ExecContext(ctx, query, it.Title, it.DateLeave, it.DateReturn, it.Public, it.ID)
	if err != nil {
		log.Error("failed to update itinerary",
			slog.String("error", err.Error()),
			slog.String("itinerary_id", it.ID.String()))
		return store.NewStoreError("itinerary", "update", "update failed", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrItineraryNotFound)
}

// Delete implements store.ItineraryStore.Delete
func (s *PostgresItineraryStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, "DELETE FROM itineraries WHERE id = $1", id)
	if err != nil {
		log.Error("failed to delete itinerary",
			slog.String("error", err.Error()),
			slog.String("itinerary_id", id.String()))
		return store.NewStoreError("itinerary", "delete", "delete failed", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrItineraryNotFound); err != nil {
		return err
	}

	log.Info("itinerary deleted", slog.String("itinerary_id", id.String()))
	return nil
}

// AddChild implements store.ItineraryStore.AddChild
func (s *PostgresItineraryStore) AddChild(
	ctx context.Context,
	itineraryID uuid.UUID,
	kind domain.ChildKind,
	childID uuid.UUID,
) error {
	col, err := childColumn(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE itineraries
		SET %[1]s = CASE
				WHEN $2::uuid = ANY(%[1]s) THEN %[1]s
				ELSE array_append(%[1]s, $2::uuid)
			END
		WHERE id = $1
	`, col)
	return s.mutateChildren(ctx, "add_child", query, itineraryID, kind, childID)
}

// RemoveChild implements store.ItineraryStore.RemoveChild
func (s *PostgresItineraryStore) RemoveChild(
	ctx context.Context,
	itineraryID uuid.UUID,
	kind domain.ChildKind,
	childID uuid.UUID,
) error {
	col, err := childColumn(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE itineraries
		SET %[1]s = array_remove(%[1]s, $2::uuid)
		WHERE id = $1
	`, col)
	return s.mutateChildren(ctx, "remove_child", query, itineraryID, kind, childID)
}

func (s *PostgresItineraryStore) mutateChildren(
	ctx context.Context,
	op, query string,
	itineraryID uuid.UUID,
	kind domain.ChildKind,
	childID uuid.UUID,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("operation", op),
		slog.String("itinerary_id", itineraryID.String()),
		slog.String("kind", string(kind)),
		slog.String("child_id", childID.String()),
	)

	result, err := s.db.ExecContext(ctx, query, itineraryID, childID)
	if err != nil {
		log.Error("failed to update child list", slog.String("error", err.Error()))
		return store.NewStoreError("itinerary", op, "update failed", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrItineraryNotFound); err != nil {
		log.Debug("child list update touched no rows")
		return err
	}

	log.Debug("child list updated")
	return nil
}
