// Package service contains the application use cases. It orchestrates the
// stores in internal/store to register and authenticate users, and to create,
// update and delete itineraries and their child records while keeping both
// sides of every relationship in step.
//
// Every create, delete and re-parenting update runs in one transaction: the
// primary write first, then the companion list update through Relations. A
// failed companion write rolls back the primary write and surfaces as
// ErrCompanionWrite.
//
// The service layer depends on domain entities and store interfaces, never on
// a specific storage implementation.
package service
