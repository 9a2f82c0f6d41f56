package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/itinerator-api/internal/domain"
)

// ChildStore persists one kind of itinerary child record.
type ChildStore[T domain.Child] interface {
	// Create saves a new record.
	// Returns ErrInvalidEntity if the referenced itinerary does not exist.
	Create(ctx context.Context, child T) error

	// GetByID retrieves a record. Returns the kind's not-found error
	// (e.g. ErrActivityNotFound) if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (T, error)

	// GetByIDForUpdate is GetByID with a row lock held until the transaction
	// ends. Only meaningful on a store returned by WithTx.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (T, error)

	// Update replaces every field of the record, including the back-reference.
	Update(ctx context.Context, child T) error

	// Delete removes a record.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new store instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ChildStore[T]
}

type (
	// ActivityStore persists activities.
	ActivityStore = ChildStore[*domain.Activity]
	// LodgingStore persists lodgings.
	LodgingStore = ChildStore[*domain.Lodging]
	// TravelStore persists travels.
	TravelStore = ChildStore[*domain.Travel]
)
