package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/itinerator-api/internal/domain"
	"github.com/phrazzld/itinerator-api/internal/platform/logger"
	"github.com/phrazzld/itinerator-api/internal/store"
)

// ChildRecord is the constraint satisfied by *domain.Activity,
// *domain.Lodging and *domain.Travel.
type ChildRecord interface {
	domain.Child
	Validate() error
}

// ChildService manages one kind of itinerary child and keeps the parent
// itinerary's list in step with the child's back-reference.
type ChildService[T ChildRecord] interface {
	// Create assigns an ID, stores the child and links it to its itinerary.
	// Returns store.ErrItineraryNotFound when the referenced itinerary is
	// missing and ErrNotOwner when the caller does not own it.
	Create(ctx context.Context, caller string, child T) (T, error)

	// Get returns the child with the given ID.
	Get(ctx context.Context, id uuid.UUID) (T, error)

	// Update replaces the child and returns the persisted record. Moving a
	// child to another itinerary unlinks it from the old one and links it to
	// the new one in the same transaction.
	Update(ctx context.Context, caller string, child T) (T, error)

	// Delete removes the child and unlinks it from its itinerary.
	Delete(ctx context.Context, caller string, id uuid.UUID) error
}

type (
	ActivityService = ChildService[*domain.Activity]
	LodgingService  = ChildService[*domain.Lodging]
	TravelService   = ChildService[*domain.Travel]
)

type childServiceImpl[T ChildRecord] struct {
	children    store.ChildStore[T]
	itineraries store.ItineraryStore
	users       store.UserStore
	relations   *Relations
	tx          store.Transactor
	assignID    func(T, uuid.UUID)
	kind        domain.ChildKind
	logger      *slog.Logger
}

func newChildService[T ChildRecord](
	kind domain.ChildKind,
	children store.ChildStore[T],
	itineraries store.ItineraryStore,
	users store.UserStore,
	relations *Relations,
	tx store.Transactor,
	assignID func(T, uuid.UUID),
	logger *slog.Logger,
) (ChildService[T], error) {
	if children == nil {
		return nil, domain.NewValidationError("children", "cannot be nil", domain.ErrValidation)
	}
	if itineraries == nil {
		return nil, domain.NewValidationError("itineraries", "cannot be nil", domain.ErrValidation)
	}
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if relations == nil {
		return nil, domain.NewValidationError("relations", "cannot be nil", domain.ErrValidation)
	}
	if tx == nil {
		return nil, domain.NewValidationError("tx", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &childServiceImpl[T]{
		children:    children,
		itineraries: itineraries,
		users:       users,
		relations:   relations,
		tx:          tx,
		assignID:    assignID,
		kind:        kind,
		logger:      logger.With(slog.String("component", string(kind)+"_service")),
	}, nil
}

// NewActivityService creates the service for activities.
func NewActivityService(
	activities store.ActivityStore,
	itineraries store.ItineraryStore,
	users store.UserStore,
	relations *Relations,
	tx store.Transactor,
	logger *slog.Logger,
) (ActivityService, error) {
	return newChildService(domain.ChildActivity, activities, itineraries, users, relations, tx,
		func(a *domain.Activity, id uuid.UUID) { a.ID = id }, logger)
}

// NewLodgingService creates the service for lodgings.
func NewLodgingService(
	lodgings store.LodgingStore,
	itineraries store.ItineraryStore,
	users store.UserStore,
	relations *Relations,
	tx store.Transactor,
	logger *slog.Logger,
) (LodgingService, error) {
	return newChildService(domain.ChildLodging, lodgings, itineraries, users, relations, tx,
		func(l *domain.Lodging, id uuid.UUID) { l.ID = id }, logger)
}

// NewTravelService creates the service for travel records.
func NewTravelService(
	travels store.TravelStore,
	itineraries store.ItineraryStore,
	users store.UserStore,
	relations *Relations,
	tx store.Transactor,
	logger *slog.Logger,
) (TravelService, error) {
	return newChildService(domain.ChildTravel, travels, itineraries, users, relations, tx,
		func(t *domain.Travel, id uuid.UUID) { t.ID = id }, logger)
}

// checkParent verifies that parent, when set, exists and is owned by callerID.
func checkParent(
	ctx context.Context,
	itineraries store.ItineraryStore,
	parent *uuid.UUID,
	callerID uuid.UUID,
) error {
	if parent == nil {
		return nil
	}
	it, err := itineraries.GetByID(ctx, *parent)
	if err != nil {
		if store.IsNotFoundError(err) {
			return store.ErrItineraryNotFound
		}
		return err
	}
	if !it.OwnedBy(callerID) {
		return ErrNotOwner
	}
	return nil
}

// Create implements ChildService.Create
func (s *childServiceImpl[T]) Create(ctx context.Context, caller string, child T) (T, error) {
	var zero T
	log := logger.FromContextOrDefault(ctx, s.logger)

	owner, err := resolveCaller(ctx, s.users, caller)
	if err != nil {
		return zero, err
	}

	s.assignID(child, uuid.New())
	if err := child.Validate(); err != nil {
		return zero, err
	}

	err = s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txItineraries := s.itineraries.WithTx(tx)
		if err := checkParent(ctx, txItineraries, child.Parent(), owner.ID); err != nil {
			return err
		}
		if err := s.children.WithTx(tx).Create(ctx, child); err != nil {
			return err
		}
		return s.relations.WithTx(tx).LinkChild(ctx, child)
	})
	if err != nil {
		return zero, s.wrap(log, "create", child.ChildID(), err)
	}

	log.Info(string(s.kind)+" created", slog.String("id", child.ChildID().String()))
	return child, nil
}

// Get implements ChildService.Get
func (s *childServiceImpl[T]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	child, err := s.children.GetByID(ctx, id)
	if err != nil {
		var zero T
		if store.IsNotFoundError(err) {
			return zero, err
		}
		return zero, NewServiceError(string(s.kind), "get", "failed to load "+string(s.kind), err)
	}
	return child, nil
}

// Update implements ChildService.Update
func (s *childServiceImpl[T]) Update(ctx context.Context, caller string, child T) (T, error) {
	var zero T
	log := logger.FromContextOrDefault(ctx, s.logger)

	owner, err := resolveCaller(ctx, s.users, caller)
	if err != nil {
		return zero, err
	}
	if err := child.Validate(); err != nil {
		return zero, err
	}

	var updated T
	err = s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txChildren := s.children.WithTx(tx)
		txItineraries := s.itineraries.WithTx(tx)

		// The lock makes concurrent moves and deletes of the same record
		// see the parent the previous writer left behind.
		existing, err := txChildren.GetByIDForUpdate(ctx, child.ChildID())
		if err != nil {
			return err
		}
		if err := checkParent(ctx, txItineraries, existing.Parent(), owner.ID); err != nil {
			return err
		}

		moved := !domain.SameParent(existing.Parent(), child.Parent())
		if moved {
			if err := checkParent(ctx, txItineraries, child.Parent(), owner.ID); err != nil {
				return err
			}
		}

		if err := txChildren.Update(ctx, child); err != nil {
			return err
		}

		if moved {
			relations := s.relations.WithTx(tx)
			if err := relations.UnlinkChild(ctx, existing); err != nil {
				return err
			}
			if err := relations.LinkChild(ctx, child); err != nil {
				return err
			}
		}

		updated, err = txChildren.GetByID(ctx, child.ChildID())
		return err
	})
	if err != nil {
		return zero, s.wrap(log, "update", child.ChildID(), err)
	}

	log.Info(string(s.kind)+" updated", slog.String("id", child.ChildID().String()))
	return updated, nil
}

// Delete implements ChildService.Delete
func (s *childServiceImpl[T]) Delete(ctx context.Context, caller string, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	owner, err := resolveCaller(ctx, s.users, caller)
	if err != nil {
		return err
	}

	err = s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txChildren := s.children.WithTx(tx)

		existing, err := txChildren.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := checkParent(ctx, s.itineraries.WithTx(tx), existing.Parent(), owner.ID); err != nil {
			return err
		}
		if err := txChildren.Delete(ctx, id); err != nil {
			return err
		}
		return s.relations.WithTx(tx).UnlinkChild(ctx, existing)
	})
	if err != nil {
		return s.wrap(log, "delete", id, err)
	}

	log.Info(string(s.kind)+" deleted", slog.String("id", id.String()))
	return nil
}

func (s *childServiceImpl[T]) wrap(log *slog.Logger, op string, id uuid.UUID, err error) error {
	if isExpected(err) {
		log.Debug(string(s.kind)+" "+op+" rejected",
			slog.String("error", err.Error()),
			slog.String("id", id.String()))
		return err
	}
	log.Error(string(s.kind)+" "+op+" failed",
		slog.String("error", err.Error()),
		slog.String("id", id.String()))
	return NewServiceError(string(s.kind), op, "failed to "+op+" "+string(s.kind), err)
}
