package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/itinerator-api/internal/domain"
)

// ItineraryStore defines the interface for itinerary persistence, including the
// atomic push/pull primitives on the three child lists.
type ItineraryStore interface {
	// Create saves a new itinerary.
	// Returns ErrInvalidEntity if the owning user does not exist.
	Create(ctx context.Context, itinerary *domain.Itinerary) error

	// GetByID retrieves an itinerary with its child lists.
	// Returns ErrItineraryNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Itinerary, error)

	// ListByUser returns every itinerary owned by userID, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Itinerary, error)

	// Update replaces the scalar fields (title, dates, public). The owner and
	// the child lists are not touched.
	// Returns ErrItineraryNotFound if it does not exist.
	Update(ctx context.Context, itinerary *domain.Itinerary) error

	// Delete removes an itinerary. Children keep existing with a cleared
	// back-reference.
	// Returns ErrItineraryNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// AddChild appends childID to the list for kind in one statement.
	// Appending an ID that is already present is a no-op.
	// Returns ErrItineraryNotFound if the itinerary does not exist.
	AddChild(ctx context.Context, itineraryID uuid.UUID, kind domain.ChildKind, childID uuid.UUID) error

	// RemoveChild removes childID from the list for kind in one statement.
	// Removing an absent ID is a no-op.
	// Returns ErrItineraryNotFound if the itinerary does not exist.
	RemoveChild(ctx context.Context, itineraryID uuid.UUID, kind domain.ChildKind, childID uuid.UUID) error

	// WithTx returns a new ItineraryStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ItineraryStore
}
