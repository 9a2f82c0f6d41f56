// Package postgres provides PostgreSQL implementations of the store interfaces.
// Child lists and the authored list are uuid[] columns mutated with single
// array_append/array_remove statements, so concurrent links never lose an ID.
package postgres
