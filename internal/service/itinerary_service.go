package service

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/itinerator-api/internal/domain"
	"github.com/phrazzld/itinerator-api/internal/platform/logger"
	"github.com/phrazzld/itinerator-api/internal/store"
)

// ItineraryInput carries the caller-editable itinerary fields.
type ItineraryInput struct {
	Title      string
	DateLeave  *time.Time
	DateReturn *time.Time
	Public     bool
}

// ItineraryService manages itineraries and their owners' authored lists.
type ItineraryService interface {
	// Create stores a new itinerary owned by the caller and links it into the
	// caller's authored list.
	Create(ctx context.Context, caller string, in ItineraryInput) (*domain.Itinerary, error)

	// Get returns an itinerary by ID.
	Get(ctx context.Context, id uuid.UUID) (*domain.Itinerary, error)

	// Update replaces the editable fields and returns the persisted itinerary.
	// Returns ErrNotOwner when the caller does not own it.
	Update(ctx context.Context, caller string, id uuid.UUID, in ItineraryInput) (*domain.Itinerary, error)

	// Delete removes an itinerary and unlinks it from the owner's authored list.
	// Returns ErrNotOwner when the caller does not own it.
	Delete(ctx context.Context, caller string, id uuid.UUID) error

	// ListByUsername returns every itinerary authored by username.
	ListByUsername(ctx context.Context, username string) ([]*domain.Itinerary, error)
}

type itineraryServiceImpl struct {
	itineraries store.ItineraryStore
	users       store.UserStore
	relations   *Relations
	tx          store.Transactor
	logger      *slog.Logger
}

// NewItineraryService creates a new ItineraryService.
func NewItineraryService(
	itineraries store.ItineraryStore,
	users store.UserStore,
	relations *Relations,
	tx store.Transactor,
	logger *slog.Logger,
) (ItineraryService, error) {
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

	return &itineraryServiceImpl{
		itineraries: itineraries,
		users:       users,
		relations:   relations,
		tx:          tx,
		logger:      logger.With(slog.String("component", "itinerary_service")),
	}, nil
}

// Create implements ItineraryService.Create
func (s *itineraryServiceImpl) Create(
	ctx context.Context,
	caller string,
	in ItineraryInput,
) (*domain.Itinerary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	owner, err := resolveCaller(ctx, s.users, caller)
	if err != nil {
		return nil, err
	}

	it, err := domain.NewItinerary(owner.ID, in.Title, in.Public)
	if err != nil {
		return nil, err
	}
	it.DateLeave = in.DateLeave
	it.DateReturn = in.DateReturn

	err = s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.itineraries.WithTx(tx).Create(ctx, it); err != nil {
			return err
		}
		return s.relations.WithTx(tx).LinkAuthored(ctx, it)
	})
	if err != nil {
		log.Error("failed to create itinerary",
			slog.String("error", err.Error()),
			slog.String("user_id", owner.ID.String()))
		return nil, NewServiceError("itinerary", "create", "failed to save itinerary", err)
	}

	log.Info("itinerary created",
		slog.String("itinerary_id", it.ID.String()),
		slog.String("user_id", owner.ID.String()))
	return it, nil
}

// Get implements ItineraryService.Get
func (s *itineraryServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.Itinerary, error) {
	it, err := s.itineraries.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrItineraryNotFound
		}
		return nil, NewServiceError("itinerary", "get", "failed to load itinerary", err)
	}
	return it, nil
}

// ownedItinerary loads id inside the transaction and checks the caller owns it.
func ownedItinerary(
	ctx context.Context,
	itineraries store.ItineraryStore,
	id, callerID uuid.UUID,
) (*domain.Itinerary, error) {
	it, err := itineraries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !it.OwnedBy(callerID) {
		return nil, ErrNotOwner
	}
	return it, nil
}

// Update implements ItineraryService.Update
func (s *itineraryServiceImpl) Update(
	ctx context.Context,
	caller string,
	id uuid.UUID,
	in ItineraryInput,
) (*domain.Itinerary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	owner, err := resolveCaller(ctx, s.users, caller)
	if err != nil {
		return nil, err
	}

	var updated *domain.Itinerary
	err = s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txItineraries := s.itineraries.WithTx(tx)

		it, err := ownedItinerary(ctx, txItineraries, id, owner.ID)
		if err != nil {
			return err
		}

		it.Title = strings.TrimSpace(in.Title)
		it.DateLeave = in.DateLeave
		it.DateReturn = in.DateReturn
		it.Public = in.Public
		if err := it.Validate(); err != nil {
			return err
		}
		if err := txItineraries.Update(ctx, it); err != nil {
			return err
		}

		updated, err = txItineraries.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, s.wrap(log, "update", id, err)
	}

	log.Info("itinerary updated", slog.String("itinerary_id", id.String()))
	return updated, nil
}

// Delete implements ItineraryService.Delete
func (s *itineraryServiceImpl) Delete(ctx context.Context, caller string, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	owner, err := resolveCaller(ctx, s.users, caller)
	if err != nil {
		return err
	}

	err = s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txItineraries := s.itineraries.WithTx(tx)

		it, err := ownedItinerary(ctx, txItineraries, id, owner.ID)
		if err != nil {
			return err
		}
		if err := txItineraries.Delete(ctx, id); err != nil {
			return err
		}
		return s.relations.WithTx(tx).UnlinkAuthored(ctx, it)
	})
	if err != nil {
		return s.wrap(log, "delete", id, err)
	}

	log.Info("itinerary deleted", slog.String("itinerary_id", id.String()))
	return nil
}

// ListByUsername implements ItineraryService.ListByUsername
func (s *itineraryServiceImpl) ListByUsername(ctx context.Context, username string) ([]*domain.Itinerary, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrUserNotFound
		}
		return nil, NewServiceError("itinerary", "list", "failed to load user", err)
	}

	list, err := s.itineraries.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, NewServiceError("itinerary", "list", "failed to list itineraries", err)
	}
	return list, nil
}

// wrap passes expected conditions through unchanged and wraps the rest.
func (s *itineraryServiceImpl) wrap(log *slog.Logger, op string, id uuid.UUID, err error) error {
	if isExpected(err) {
		log.Debug("itinerary "+op+" rejected",
			slog.String("error", err.Error()),
			slog.String("itinerary_id", id.String()))
		return err
	}
	log.Error("itinerary "+op+" failed",
		slog.String("error", err.Error()),
		slog.String("itinerary_id", id.String()))
	return NewServiceError("itinerary", op, "failed to "+op+" itinerary", err)
}
