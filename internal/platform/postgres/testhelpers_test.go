package postgres

import "github.com/jackc/pgx/v5/pgconn"

func newTestPgError(code, constraint string) *pgconn.PgError {
	return &pgconn.PgError{Code: code, ConstraintName: constraint, Message: "test"}
}
