package database

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrPatternNotFound is returned when no recurrence pattern matches
	ErrPatternNotFound = errors.New("recurrence pattern not found")
	// ErrSeriesNotFound is returned when no series exists for a source item
	ErrSeriesNotFound = errors.New("work item series not found")
	// ErrSeriesExists is returned when an insert hits the unique index on
	// (owner, source item) because a concurrent writer created the series
	// first. The caller should re-read and patch instead.
	ErrSeriesExists = errors.New("work item series already exists")
)

const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a Postgres unique_violation
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode
}
