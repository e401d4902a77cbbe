package db

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound: the referenced entity id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict: uniqueness violation, e.g. duplicate email.
	ErrConflict = errors.New("conflict")
)

// translate maps gorm errors onto the repo sentinels so callers never
// depend on gorm directly.
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
