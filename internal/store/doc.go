// Package store defines the persistence interfaces for users, itineraries and
// their child records, the store-level error taxonomy, and the transaction
// helpers services use to group a primary write with its companion list update.
//
// Implementations live in internal/platform/postgres. Every store exposes
// WithTx so a service can bind several stores to the same *sql.Tx.
package store
