package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/itinerator-api/internal/domain"
	"github.com/phrazzld/itinerator-api/internal/platform/logger"
	"github.com/phrazzld/itinerator-api/internal/store"
)

// Relations keeps the two sides of every relationship in step: an itinerary's
// child lists against each child's back-reference, and a user's authored list
// against each itinerary's owner. All list changes go through the stores'
// single-statement append/remove primitives.
type Relations struct {
	itineraries store.ItineraryStore
	users       store.UserStore
	logger      *slog.Logger
}

// NewRelations creates a Relations over the given stores.
func NewRelations(itineraries store.ItineraryStore, users store.UserStore, logger *slog.Logger) (*Relations, error) {
	if itineraries == nil {
		return nil, domain.NewValidationError("itineraries", "cannot be nil", domain.ErrValidation)
	}
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Relations{
		itineraries: itineraries,
		users:       users,
		logger:      logger.With(slog.String("component", "relations")),
	}, nil
}

// WithTx returns a Relations whose writes run on tx.
func (r *Relations) WithTx(tx *sql.Tx) *Relations {
	return &Relations{
		itineraries: r.itineraries.WithTx(tx),
		users:       r.users.WithTx(tx),
		logger:      r.logger,
	}
}

// LinkChild appends the child's ID to its parent itinerary's list. A child
// without a parent needs no companion write.
func (r *Relations) LinkChild(ctx context.Context, child domain.Child) error {
	parent := child.Parent()
	if parent == nil {
		return nil
	}

	if err := r.itineraries.AddChild(ctx, *parent, child.Kind(), child.ChildID()); err != nil {
		logger.FromContextOrDefault(ctx, r.logger).Error("failed to link child",
			slog.String("error", err.Error()),
			slog.String("kind", string(child.Kind())),
			slog.String("child_id", child.ChildID().String()),
			slog.String("itinerary_id", parent.String()))
		return fmt.Errorf("%w: link %s %s: %w", ErrCompanionWrite, child.Kind(), child.ChildID(), err)
	}
	return nil
}

// UnlinkChild removes the child's ID from its parent itinerary's list.
// Unlinking an ID that is not present is a no-op.
func (r *Relations) UnlinkChild(ctx context.Context, child domain.Child) error {
	parent := child.Parent()
	if parent == nil {
		return nil
	}

	if err := r.itineraries.RemoveChild(ctx, *parent, child.Kind(), child.ChildID()); err != nil {
		logger.FromContextOrDefault(ctx, r.logger).Error("failed to unlink child",
			slog.String("error", err.Error()),
			slog.String("kind", string(child.Kind())),
			slog.String("child_id", child.ChildID().String()),
			slog.String("itinerary_id", parent.String()))
		return fmt.Errorf("%w: unlink %s %s: %w", ErrCompanionWrite, child.Kind(), child.ChildID(), err)
	}
	return nil
}

// LinkAuthored appends the itinerary's ID to its owner's authored list.
func (r *Relations) LinkAuthored(ctx context.Context, it *domain.Itinerary) error {
	if err := r.users.AddAuthored(ctx, it.UserID, it.ID); err != nil {
		logger.FromContextOrDefault(ctx, r.logger).Error("failed to link authored itinerary",
			slog.String("error", err.Error()),
			slog.String("user_id", it.UserID.String()),
			slog.String("itinerary_id", it.ID.String()))
		return fmt.Errorf("%w: link itinerary %s: %w", ErrCompanionWrite, it.ID, err)
	}
	return nil
}

// UnlinkAuthored removes the itinerary's ID from its owner's authored list.
func (r *Relations) UnlinkAuthored(ctx context.Context, it *domain.Itinerary) error {
	if err := r.users.RemoveAuthored(ctx, it.UserID, it.ID); err != nil {
		logger.FromContextOrDefault(ctx, r.logger).Error("failed to unlink authored itinerary",
			slog.String("error", err.Error()),
			slog.String("user_id", it.UserID.String()),
			slog.String("itinerary_id", it.ID.String()))
		return fmt.Errorf("%w: unlink itinerary %s: %w", ErrCompanionWrite, it.ID, err)
	}
	return nil
}
