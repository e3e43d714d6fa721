package apperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// FromDB maps a persistence error onto the taxonomy: missing rows become
// NOT_FOUND with notFound as message, unique violations CONFLICT, and the
// rest INTERNAL with the raw error kept only as the cause.
func FromDB(err error, notFound string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(notFound)
	}
	if IsUniqueViolation(err) {
		return Conflict("resource already exists")
	}
	return Internal("database operation failed", err)
}
