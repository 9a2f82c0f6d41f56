package mocks

import (
	"context"
	"database/sql"

	"github.com/phrazzld/itinerator-api/internal/store"
)

// MockTransactor implements store.Transactor. By default it runs fn with a
// nil transaction and returns its error.
type MockTransactor struct {
	RunInTransactionFn func(ctx context.Context, fn store.TxFn) error

	Calls int
}

// RunInTransaction implements store.Transactor
func (m *MockTransactor) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	m.Calls++
	if m.RunInTransactionFn != nil {
		return m.RunInTransactionFn(ctx, fn)
	}
	return fn(ctx, (*sql.Tx)(nil))
}
