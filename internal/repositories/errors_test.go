package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsConstraintViolation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), false},
		{"not found", gorm.ErrRecordNotFound, false},
		{"duplicated key", gorm.ErrDuplicatedKey, true},
		{"foreign key", gorm.ErrForeignKeyViolated, true},
		{"pg unique", &pgconn.PgError{Code: "23505"}, true},
		{"pg not null", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23502"}), true},
		{"pg syntax", &pgconn.PgError{Code: "42601"}, false},
		{"sqlite constraint", sqlite3.Error{Code: sqlite3.ErrConstraint}, true},
		{"sqlite busy", sqlite3.Error{Code: sqlite3.ErrBusy}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsConstraintViolation(tc.err))
		})
	}
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate("op", nil))

	err := translate("find user", gorm.ErrRecordNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "find user: record not found")

	pgErr := &pgconn.PgError{Code: "23505"}
	err = translate("create user", pgErr)
	assert.ErrorIs(t, err, ErrConstraintViolation)
	var got *pgconn.PgError
	assert.ErrorAs(t, err, &got)

	boom := errors.New("boom")
	err = translate("count", boom)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrConstraintViolation)
}
