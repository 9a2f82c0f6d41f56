package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/phrazzld/itinerator-api/internal/domain"
	"github.com/phrazzld/itinerator-api/internal/mocks"
	"github.com/phrazzld/itinerator-api/internal/service"
	"github.com/phrazzld/itinerator-api/internal/service/auth"
	"github.com/phrazzld/itinerator-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewUserService(t *testing.T) {
	users := mocks.NewMockUserStore()
	tx := &mocks.MockTransactor{}
	hasher := &mocks.MockPasswordHasher{}
	verifier := &mocks.MockPasswordVerifier{}

	_, err := service.NewUserService(nil, tx, hasher, verifier, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = service.NewUserService(users, nil, hasher, verifier, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = service.NewUserService(users, tx, nil, verifier, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = service.NewUserService(users, tx, hasher, nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	svc, err := service.NewUserService(users, tx, hasher, verifier, nil)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes and hashes", func(t *testing.T) {
		users := mocks.NewMockUserStore()
		tx := &mocks.MockTransactor{}
		svc, err := service.NewUserService(users, tx, &mocks.MockPasswordHasher{}, &mocks.MockPasswordVerifier{}, quietLogger())
		require.NoError(t, err)

		user, err := svc.Register(ctx, "  Alice ", " ALICE@Example.com", "password123")
		require.NoError(t, err)

		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, "hashed:password123", user.HashedPassword)
		assert.Empty(t, user.Password)
		assert.NotNil(t, user.AuthorOf)
		assert.Equal(t, 1, tx.Calls)
		assert.Contains(t, users.Users, "alice")
	})

	t.Run("duplicate username is returned as is", func(t *testing.T) {
		users := mocks.NewMockUserStore(newUser(t, "alice"))
		svc, err := service.NewUserService(users, &mocks.MockTransactor{}, &mocks.MockPasswordHasher{}, &mocks.MockPasswordVerifier{}, quietLogger())
		require.NoError(t, err)

		_, err = svc.Register(ctx, "alice", "other@example.com", "password123")
		assert.ErrorIs(t, err, store.ErrUsernameExists)
	})

	t.Run("duplicate email is returned as is", func(t *testing.T) {
		users := mocks.NewMockUserStore(newUser(t, "alice"))
		svc, err := service.NewUserService(users, &mocks.MockTransactor{}, &mocks.MockPasswordHasher{}, &mocks.MockPasswordVerifier{}, quietLogger())
		require.NoError(t, err)

		_, err = svc.Register(ctx, "bob", "alice@example.com", "password123")
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("invalid input never reaches the store", func(t *testing.T) {
		users := &mocks.TestifyMockUserStore{}
		svc, err := service.NewUserService(users, &mocks.MockTransactor{}, &mocks.MockPasswordHasher{}, &mocks.MockPasswordVerifier{}, quietLogger())
		require.NoError(t, err)

		_, err = svc.Register(ctx, "alice", "not-an-email", "password123")
		assert.ErrorIs(t, err, domain.ErrValidation)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("hash failure is wrapped", func(t *testing.T) {
		hasher := &mocks.MockPasswordHasher{HashFn: func(string) (string, error) {
			return "", errors.New("entropy exhausted")
		}}
		svc, err := service.NewUserService(mocks.NewMockUserStore(), &mocks.MockTransactor{}, hasher, &mocks.MockPasswordVerifier{}, quietLogger())
		require.NoError(t, err)

		_, err = svc.Register(ctx, "alice", "alice@example.com", "password123")
		var se *service.ServiceError
		assert.ErrorAs(t, err, &se)
	})
}

func TestUserService_Authenticate(t *testing.T) {
	ctx := context.Background()
	alice := newUser(t, "alice")

	t.Run("valid credentials", func(t *testing.T) {
		verifier := &mocks.MockPasswordVerifier{ShouldSucceed: true}
		svc, err := service.NewUserService(mocks.NewMockUserStore(alice), &mocks.MockTransactor{}, &mocks.MockPasswordHasher{}, verifier, quietLogger())
		require.NoError(t, err)

		user, err := svc.Authenticate(ctx, "Alice", "password123")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, user.ID)
		assert.Equal(t, alice.HashedPassword, verifier.CompareCalledWith.HashedPassword)
	})

	t.Run("wrong password and unknown user look the same", func(t *testing.T) {
		verifier := &mocks.MockPasswordVerifier{ShouldSucceed: false}
		svc, err := service.NewUserService(mocks.NewMockUserStore(alice), &mocks.MockTransactor{}, &mocks.MockPasswordHasher{}, verifier, quietLogger())
		require.NoError(t, err)

		_, errWrong := svc.Authenticate(ctx, "alice", "nope")
		_, errUnknown := svc.Authenticate(ctx, "mallory", "nope")
		assert.ErrorIs(t, errWrong, auth.ErrInvalidCredentials)
		assert.ErrorIs(t, errUnknown, auth.ErrInvalidCredentials)
		assert.Equal(t, errWrong.Error(), errUnknown.Error())
	})

	t.Run("store failure is not reported as bad credentials", func(t *testing.T) {
		users := &mocks.TestifyMockUserStore{}
		users.On("GetByUsername", mock.Anything, "alice").Return(nil, errors.New("connection refused"))
		svc, err := service.NewUserService(users, &mocks.MockTransactor{}, &mocks.MockPasswordHasher{}, &mocks.MockPasswordVerifier{}, quietLogger())
		require.NoError(t, err)

		_, err = svc.Authenticate(ctx, "alice", "password123")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
		users.AssertExpectations(t)
	})
}

func TestUserService_GetByUsername(t *testing.T) {
	alice := newUser(t, "alice")
	svc, err := service.NewUserService(mocks.NewMockUserStore(alice), &mocks.MockTransactor{}, &mocks.MockPasswordHasher{}, &mocks.MockPasswordVerifier{}, quietLogger())
	require.NoError(t, err)

	user, err := svc.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)

	_, err = svc.GetByUsername(context.Background(), "bob")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}
