// Package mocks provides shared test doubles for stores, services and auth.
//
// Two styles are offered. Function-field mocks (MockUserStore,
// MockItineraryStore, MockChildStore, MockTransactor, MockJWTService and the
// service mocks) fall back to an in-memory or zero-value default when a field
// is nil, so a test only overrides the call it cares about:
//
//	users := mocks.NewMockUserStore(alice)
//	users.AddAuthoredFn = func(ctx context.Context, userID, itineraryID uuid.UUID) error {
//	    return errors.New("boom")
//	}
//
// TestifyMockUserStore is a testify/mock based double for tests that assert
// on exact calls.
//
// Service mocks call their function fields unconditionally; set every field
// the handler under test will reach.
package mocks
