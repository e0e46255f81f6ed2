package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when an id does not resolve to a stored row.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a uniqueness invariant would be violated
	// (duplicate badge threshold, bookmark triple or verse key).
	ErrConflict = errors.New("conflicts with an existing record")
)

// translate maps gorm errors onto the repository error taxonomy. Anything
// unrecognized passes through as a storage failure.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	default:
		return err
	}
}
