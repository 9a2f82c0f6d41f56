package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/itinerator-api/internal/domain"
	"github.com/phrazzld/itinerator-api/internal/platform/logger"
	"github.com/phrazzld/itinerator-api/internal/store"
)

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.UserStore.Create
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if user.HashedPassword == "" {
		return domain.ErrEmptyHashedPassword
	}
	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	query := `
		INSERT INTO users (id, username, email, hashed_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Username,
		user.Email,
		user.HashedPassword,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if store.IsDuplicateError(mapped) {
			log.Debug("duplicate identity during user creation",
				slog.String("user_id", user.ID.String()))
			return mapped
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return store.NewStoreError("user", "create", "insert failed", mapped)
	}

	user.Password = ""
	log.Info("user created successfully", slog.String("user_id", user.ID.String()))
	return nil
}

const selectUserColumns = `
	SELECT id, username, email, hashed_password, authored_ids, created_at, updated_at
	FROM users
`

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getOne(ctx, selectUserColumns+" WHERE id = $1", id)
}

// GetByUsername implements store.UserStore.GetByUsername
func (s *PostgresUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.getOne(ctx, selectUserColumns+" WHERE username = $1", domain.NormalizeUsername(username))
}

func (s *PostgresUserStore) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		user     domain.User
		authored uuidArray
	)
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.HashedPassword,
		authored.scanner(),
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found")
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user", slog.String("error", err.Error()))
		return nil, store.NewStoreError("user", "get", "query failed", MapError(err))
	}

	if user.AuthorOf, err = authored.UUIDs(); err != nil {
		return nil, store.NewStoreError("user", "get", "decode authored_ids", err)
	}

	return &user, nil
}

// AddAuthored implements store.UserStore.AddAuthored
func (s *PostgresUserStore) AddAuthored(ctx context.Context, userID, itineraryID uuid.UUID) error {
	query := `
		UPDATE users
		SET authored_ids = CASE
				WHEN $2::uuid = ANY(authored_ids) THEN authored_ids
				ELSE array_append(authored_ids, $2::uuid)
			END,
			updated_at = NOW()
		WHERE id = $1
	`
	return s.mutateAuthored(ctx, "add_authored", query, userID, itineraryID)
}

// RemoveAuthored implements store.UserStore.RemoveAuthored
func (s *PostgresUserStore) RemoveAuthored(ctx context.Context, userID, itineraryID uuid.UUID) error {
	query := `
		UPDATE users
		SET authored_ids = array_remove(authored_ids, $2::uuid),
			updated_at = NOW()
		WHERE id = $1
	`
	return s.mutateAuthored(ctx, "remove_authored", query, userID, itineraryID)
}

func (s *PostgresUserStore) mutateAuthored(
	ctx context.Context,
	op, query string,
	userID, itineraryID uuid.UUID,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("operation", op),
		slog.String("user_id", userID.String()),
		slog.String("itinerary_id", itineraryID.String()),
	)

	result, err := s.db.ExecContext(ctx, query, userID, itineraryID)
	if err != nil {
		log.Error("failed to update authored list", slog.String("error", err.Error()))
		return store.NewStoreError("user", op, "update failed", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrUserNotFound); err != nil {
		log.Debug("authored list update touched no rows", slog.String("error", err.Error()))
		return err
	}

	log.Debug("authored list updated")
	return nil
}
