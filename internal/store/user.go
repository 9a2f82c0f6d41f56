package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/itinerator-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user. The caller must have set HashedPassword.
	// Returns ErrUsernameExists or ErrEmailExists on a unique violation.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByUsername retrieves a user by their normalized username.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// AddAuthored appends itineraryID to the user's authored list in a single
	// statement. Appending an ID that is already present is a no-op.
	// Returns ErrUserNotFound if the user does not exist.
	AddAuthored(ctx context.Context, userID, itineraryID uuid.UUID) error

	// RemoveAuthored removes itineraryID from the user's authored list.
	// Removing an absent ID is a no-op.
	// Returns ErrUserNotFound if the user does not exist.
	RemoveAuthored(ctx context.Context, userID, itineraryID uuid.UUID) error

	// WithTx returns a new UserStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) UserStore
}
