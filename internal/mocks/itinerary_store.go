package mocks

import (
	"context"
	"database/sql"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/itinerator-api/internal/domain"
	"github.com/phrazzld/itinerator-api/internal/store"
)

// MockItineraryStore implements store.ItineraryStore for testing. Without
// function fields it keeps itineraries in memory.
type MockItineraryStore struct {
	CreateFn      func(ctx context.Context, it *domain.Itinerary) error
	GetByIDFn     func(ctx context.Context, id uuid.UUID) (*domain.Itinerary, error)
	ListByUserFn  func(ctx context.Context, userID uuid.UUID) ([]*domain.Itinerary, error)
	UpdateFn      func(ctx context.Context, it *domain.Itinerary) error
	DeleteFn      func(ctx context.Context, id uuid.UUID) error
	AddChildFn    func(ctx context.Context, itineraryID uuid.UUID, kind domain.ChildKind, childID uuid.UUID) error
	RemoveChildFn func(ctx context.Context, itineraryID uuid.UUID, kind domain.ChildKind, childID uuid.UUID) error

	mu          sync.Mutex
	Itineraries map[uuid.UUID]*domain.Itinerary
}

// NewMockItineraryStore creates an in-memory store seeded with its.
func NewMockItineraryStore(its ...*domain.Itinerary) *MockItineraryStore {
	m := &MockItineraryStore{Itineraries: make(map[uuid.UUID]*domain.Itinerary)}
	for _, it := range its {
		m.Itineraries[it.ID] = it
	}
	return m
}

func (m *MockItineraryStore) Create(ctx context.Context, it *domain.Itinerary) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, it)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Itineraries[it.ID] = it
	return nil
}

func (m *MockItineraryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Itinerary, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.Itineraries[id]
	if !ok {
		return nil, store.ErrItineraryNotFound
	}
	cp := *it
	return &cp, nil
}

func (m *MockItineraryStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Itinerary, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	list := []*domain.Itinerary{}
	for _, it := range m.Itineraries {
		if it.UserID == userID {
			list = append(list, it)
		}
	}
	return list, nil
}

func (m *MockItineraryStore) Update(ctx context.Context, it *domain.Itinerary) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, it)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Itineraries[it.ID]; !ok {
		return store.ErrItineraryNotFound
	}
	m.Itineraries[it.ID] = it
	return nil
}

func (m *MockItineraryStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Itineraries[id]; !ok {
		return store.ErrItineraryNotFound
	}
	delete(m.Itineraries, id)
	return nil
}

func (m *MockItineraryStore) AddChild(
	ctx context.Context,
	itineraryID uuid.UUID,
	kind domain.ChildKind,
	childID uuid.UUID,
) error {
	if m.AddChildFn != nil {
		return m.AddChildFn(ctx, itineraryID, kind, childID)
	}
	return m.mutate(itineraryID, kind, func(ids []uuid.UUID) []uuid.UUID {
		if slices.Contains(ids, childID) {
			return ids
		}
		return append(ids, childID)
	})
}

func (m *MockItineraryStore) RemoveChild(
	ctx context.Context,
	itineraryID uuid.UUID,
	kind domain.ChildKind,
	childID uuid.UUID,
) error {
	if m.RemoveChildFn != nil {
		return m.RemoveChildFn(ctx, itineraryID, kind, childID)
	}
	return m.mutate(itineraryID, kind, func(ids []uuid.UUID) []uuid.UUID {
		return slices.DeleteFunc(ids, func(id uuid.UUID) bool { return id == childID })
	})
}

func (m *MockItineraryStore) mutate(id uuid.UUID, kind domain.ChildKind, fn func([]uuid.UUID) []uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.Itineraries[id]
	if !ok {
		return store.ErrItineraryNotFound
	}
	switch kind {
	case domain.ChildActivity:
		it.Activity = fn(it.Activity)
	case domain.ChildLodging:
		it.Lodging = fn(it.Lodging)
	case domain.ChildTravel:
		it.Travel = fn(it.Travel)
	default:
		return domain.ErrInvalidChildKind
	}
	return nil
}

// WithTx returns the same mock; transactions are not modelled.
func (m *MockItineraryStore) WithTx(tx *sql.Tx) store.ItineraryStore {
	return m
}
