package postgres

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// uuidArray scans a uuid[] column. The text form is decoded into strings and
// parsed, since google/uuid does not register with pgtype.
type uuidArray struct {
	raw []string
}

// scanner returns a database/sql destination for the column. pgtype.Map caches
// scan plans and is not safe for concurrent use, so each scan gets its own.
func (a *uuidArray) scanner() sql.Scanner {
	return pgtype.NewMap().SQLScanner(&a.raw)
}

// UUIDs returns the parsed IDs. A NULL column yields an empty, non-nil slice.
func (a *uuidArray) UUIDs() ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(a.raw))
	for _, s := range a.raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid uuid in array: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// nullableUUID converts an optional back-reference to a query argument.
func nullableUUID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return *id
}
