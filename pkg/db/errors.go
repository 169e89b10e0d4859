package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres class 23 integrity violation for duplicate keys.
const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a Postgres unique violation. With a
// constraintName it matches that constraint specifically; sqlite (used by the
// dev flag and tests) lacks structured errors, so the message text is the
// fallback either way.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return constraintName == "" || pgErr.ConstraintName == constraintName
	}

	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
