package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// Sentinel errors shared by all repository implementations. Services
// translate these into the public error taxonomy; gorm error text never
// leaves the repository layer unwrapped.
var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicate          = errors.New("duplicate record")
	ErrForeignKeyViolated = errors.New("record is referenced by other rows")
)

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate) || errors.Is(err, gorm.ErrDuplicatedKey)
}

func IsForeignKeyError(err error) bool {
	return errors.Is(err, ErrForeignKeyViolated) || errors.Is(err, gorm.ErrForeignKeyViolated)
}
