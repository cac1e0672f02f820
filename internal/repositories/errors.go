package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	// ErrConstraintViolation wraps any not-null, unique, check or foreign key
	// violation reported by the database.
	ErrConstraintViolation = errors.New("constraint violation")
	ErrNotFound            = errors.New("record not found")
	ErrSelfFollow          = errors.New("users cannot follow themselves")
)

// IsConstraintViolation reports whether err came from an integrity constraint.
func IsConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrConstraintViolation) ||
		errors.Is(err, gorm.ErrDuplicatedKey) ||
		errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// SQLSTATE class 23: integrity constraint violation
		return strings.HasPrefix(pgErr.Code, "23")
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrConstraint
	}
	return false
}

// translate maps driver errors onto the package sentinels.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case IsConstraintViolation(err):
		return fmt.Errorf("%s: %w: %w", op, ErrConstraintViolation, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
