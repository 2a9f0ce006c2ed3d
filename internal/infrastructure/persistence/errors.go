package persistence

import (
	"errors"

	"github.com/lib/pq"
	"github.com/pantryfresh/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// uniqueViolation is the postgres SQLSTATE for unique_violation
const uniqueViolation = "23505"

// isDuplicateKey reports whether err is a unique constraint violation.
// gorm translates driver errors when TranslateError is set; raw lib/pq
// errors from database/sql connections are checked as well.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}

// notFoundOr maps gorm.ErrRecordNotFound to a NotFound error for resource
// and passes every other error through.
func notFoundOr(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError(resource)
	}
	return err
}
