package database

import (
	"errors"

	"github.com/lib/pq"
)

// ErrNotFound is returned when an update/delete target row is absent.
var ErrNotFound = errors.New("record not found")

// IsUniqueViolation reports whether err is a Postgres duplicate-key error.
// Callers degrade these to "look up the existing row" or a 400, never a 500.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
