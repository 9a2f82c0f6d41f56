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

// MockUserStore implements store.UserStore for testing. Without function
// fields it behaves as an in-memory store keyed by username.
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn         func(ctx context.Context, user *domain.User) error
	GetByIDFn        func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsernameFn  func(ctx context.Context, username string) (*domain.User, error)
	AddAuthoredFn    func(ctx context.Context, userID, itineraryID uuid.UUID) error
	RemoveAuthoredFn func(ctx context.Context, userID, itineraryID uuid.UUID) error

	// Data for default implementation
	mu    sync.Mutex
	Users map[string]*domain.User
}

// NewMockUserStore creates a new mock store with initialized defaults
func NewMockUserStore(users ...*domain.User) *MockUserStore {
	m := &MockUserStore{Users: make(map[string]*domain.User)}
	for _, u := range users {
		m.Users[u.Username] = u
	}
	return m
}

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.Users[user.Username]; exists {
		return store.ErrUsernameExists
	}
	for _, u := range m.Users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	m.Users[user.Username] = user
	return nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// GetByUsername implements the UserStore interface
func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.Users[domain.NormalizeUsername(username)]; ok {
		return u, nil
	}
	return nil, store.ErrUserNotFound
}

// AddAuthored implements the UserStore interface
func (m *MockUserStore) AddAuthored(ctx context.Context, userID, itineraryID uuid.UUID) error {
	if m.AddAuthoredFn != nil {
		return m.AddAuthoredFn(ctx, userID, itineraryID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if u.ID == userID {
			if !slices.Contains(u.AuthorOf, itineraryID) {
				u.AuthorOf = append(u.AuthorOf, itineraryID)
			}
			return nil
		}
	}
	return store.ErrUserNotFound
}

// RemoveAuthored implements the UserStore interface
func (m *MockUserStore) RemoveAuthored(ctx context.Context, userID, itineraryID uuid.UUID) error {
	if m.RemoveAuthoredFn != nil {
		return m.RemoveAuthoredFn(ctx, userID, itineraryID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if u.ID == userID {
			u.AuthorOf = slices.DeleteFunc(u.AuthorOf, func(id uuid.UUID) bool { return id == itineraryID })
			return nil
		}
	}
	return store.ErrUserNotFound
}

// WithTx returns the same mock; transactions are not modelled.
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}
