//go:build integration

// Package testdb provides helpers for database integration tests.
//
// Each test runs inside its own transaction which is rolled back when the test
// completes, so tests can run in parallel against one database without cleanup:
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t) // skips when DATABASE_URL is unset
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        users := postgres.NewPostgresUserStore(tx, nil)
//	        ...
//	    })
//	}
//
// The schema is created once per test binary from the embedded goose migrations.
package testdb
