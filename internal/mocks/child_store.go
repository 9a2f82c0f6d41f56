package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/itinerator-api/internal/domain"
	"github.com/phrazzld/itinerator-api/internal/store"
)

// MockChildStore implements store.ChildStore for any child kind. Without
// function fields it keeps records in memory and returns NotFound for
// unknown IDs.
type MockChildStore[T domain.Child] struct {
	CreateFn  func(ctx context.Context, child T) error
	GetByIDFn func(ctx context.Context, id uuid.UUID) (T, error)
	// GetByIDForUpdateFn defaults to GetByID.
	GetByIDForUpdateFn func(ctx context.Context, id uuid.UUID) (T, error)
	UpdateFn  func(ctx context.Context, child T) error
	DeleteFn  func(ctx context.Context, id uuid.UUID) error

	NotFound error

	// LockedReads counts GetByIDForUpdate calls.
	LockedReads int

	mu      sync.Mutex
	Records map[uuid.UUID]T
}

// NewMockChildStore creates an in-memory child store.
func NewMockChildStore[T domain.Child](notFound error, records ...T) *MockChildStore[T] {
	m := &MockChildStore[T]{NotFound: notFound, Records: make(map[uuid.UUID]T)}
	for _, r := range records {
		m.Records[r.ChildID()] = r
	}
	return m
}

func (m *MockChildStore[T]) Create(ctx context.Context, child T) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, child)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Records[child.ChildID()] = child
	return nil
}

func (m *MockChildStore[T]) GetByID(ctx context.Context, id uuid.UUID) (T, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.Records[id]
	if !ok {
		var zero T
		return zero, m.NotFound
	}
	return r, nil
}

func (m *MockChildStore[T]) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (T, error) {
	m.mu.Lock()
	m.LockedReads++
	m.mu.Unlock()
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockChildStore[T]) Update(ctx context.Context, child T) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, child)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Records[child.ChildID()]; !ok {
		return m.NotFound
	}
	m.Records[child.ChildID()] = child
	return nil
}

func (m *MockChildStore[T]) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Records[id]; !ok {
		return m.NotFound
	}
	delete(m.Records, id)
	return nil
}

// WithTx returns the same mock; transactions are not modelled.
func (m *MockChildStore[T]) WithTx(tx *sql.Tx) store.ChildStore[T] {
	return m
}
