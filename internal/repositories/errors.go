package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// IsNotFound reports whether err is the store's missing-record error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsConflict reports whether err is a unique-constraint violation. Requires
// the gorm error translator to be enabled on the connection.
func IsConflict(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
