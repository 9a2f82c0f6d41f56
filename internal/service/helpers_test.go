package service_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/itinerator-api/internal/domain"
	"github.com/phrazzld/itinerator-api/internal/mocks"
	"github.com/phrazzld/itinerator-api/internal/service"
	"github.com/phrazzld/itinerator-api/internal/store"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newUser(t *testing.T, username string) *domain.User {
	t.Helper()
	u, err := domain.NewUser(username, username+"@example.com", "password123")
	require.NoError(t, err)
	u.HashedPassword = "hashed:password123"
	u.Password = ""
	return u
}

func newItinerary(t *testing.T, owner *domain.User, title string) *domain.Itinerary {
	t.Helper()
	it, err := domain.NewItinerary(owner.ID, title, false)
	require.NoError(t, err)
	owner.AuthorOf = append(owner.AuthorOf, it.ID)
	return it
}

// fixture wires real services over in-memory stores.
type fixture struct {
	users       *mocks.MockUserStore
	itineraries *mocks.MockItineraryStore
	activities  *mocks.MockChildStore[*domain.Activity]
	tx          *mocks.MockTransactor
	relations   *service.Relations
}

func newFixture(t *testing.T, users []*domain.User, its []*domain.Itinerary) *fixture {
	t.Helper()
	f := &fixture{
		users:       mocks.NewMockUserStore(users...),
		itineraries: mocks.NewMockItineraryStore(its...),
		tx:          &mocks.MockTransactor{},
	}
	f.activities = mocks.NewMockChildStore[*domain.Activity](store.ErrActivityNotFound)

	var err error
	f.relations, err = service.NewRelations(f.itineraries, f.users, quietLogger())
	require.NoError(t, err)
	return f
}

func (f *fixture) itineraryService(t *testing.T) service.ItineraryService {
	t.Helper()
	svc, err := service.NewItineraryService(f.itineraries, f.users, f.relations, f.tx, quietLogger())
	require.NoError(t, err)
	return svc
}

func (f *fixture) activityService(t *testing.T) service.ActivityService {
	t.Helper()
	svc, err := service.NewActivityService(f.activities, f.itineraries, f.users, f.relations, f.tx, quietLogger())
	require.NoError(t, err)
	return svc
}

func ptr(id uuid.UUID) *uuid.UUID { return &id }

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}
