package service

import (
	"errors"

	"shareit/internal/database"
	"shareit/internal/domain"
)

// lookupErr turns a storage miss into NotFound and passes other errors through.
func lookupErr(err error, format string, args ...interface{}) error {
	if errors.Is(err, database.ErrNotFound) {
		return domain.NotFound(format, args...)
	}
	return err
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
