package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/itinerator-api/internal/domain"
	"github.com/phrazzld/itinerator-api/internal/service"
)

// MockUserService implements service.UserService for handler tests.
type MockUserService struct {
	RegisterFn      func(ctx context.Context, username, email, password string) (*domain.User, error)
	AuthenticateFn  func(ctx context.Context, username, password string) (*domain.User, error)
	GetByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
}

func (m *MockUserService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	return m.RegisterFn(ctx, username, email, password)
}

func (m *MockUserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	return m.AuthenticateFn(ctx, username, password)
}

func (m *MockUserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return m.GetByUsernameFn(ctx, username)
}

// MockItineraryService implements service.ItineraryService for handler tests.
type MockItineraryService struct {
	CreateFn         func(ctx context.Context, caller string, in service.ItineraryInput) (*domain.Itinerary, error)
	GetFn            func(ctx context.Context, id uuid.UUID) (*domain.Itinerary, error)
	UpdateFn         func(ctx context.Context, caller string, id uuid.UUID, in service.ItineraryInput) (*domain.Itinerary, error)
	DeleteFn         func(ctx context.Context, caller string, id uuid.UUID) error
	ListByUsernameFn func(ctx context.Context, username string) ([]*domain.Itinerary, error)
}

func (m *MockItineraryService) Create(
	ctx context.Context,
	caller string,
	in service.ItineraryInput,
) (*domain.Itinerary, error) {
	return m.CreateFn(ctx, caller, in)
}

func (m *MockItineraryService) Get(ctx context.Context, id uuid.UUID) (*domain.Itinerary, error) {
	return m.GetFn(ctx, id)
}

func (m *MockItineraryService) Update(
	ctx context.Context,
	caller string,
	id uuid.UUID,
	in service.ItineraryInput,
) (*domain.Itinerary, error) {
	return m.UpdateFn(ctx, caller, id, in)
}

func (m *MockItineraryService) Delete(ctx context.Context, caller string, id uuid.UUID) error {
	return m.DeleteFn(ctx, caller, id)
}

func (m *MockItineraryService) ListByUsername(ctx context.Context, username string) ([]*domain.Itinerary, error) {
	return m.ListByUsernameFn(ctx, username)
}

// MockChildService implements service.ChildService for handler tests.
type MockChildService[T service.ChildRecord] struct {
	CreateFn func(ctx context.Context, caller string, child T) (T, error)
	GetFn    func(ctx context.Context, id uuid.UUID) (T, error)
	UpdateFn func(ctx context.Context, caller string, child T) (T, error)
	DeleteFn func(ctx context.Context, caller string, id uuid.UUID) error
}

func (m *MockChildService[T]) Create(ctx context.Context, caller string, child T) (T, error) {
	return m.CreateFn(ctx, caller, child)
}

func (m *MockChildService[T]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	return m.GetFn(ctx, id)
}

func (m *MockChildService[T]) Update(ctx context.Context, caller string, child T) (T, error) {
	return m.UpdateFn(ctx, caller, child)
}

func (m *MockChildService[T]) Delete(ctx context.Context, caller string, id uuid.UUID) error {
	return m.DeleteFn(ctx, caller, id)
}
