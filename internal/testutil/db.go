// Package testutil provides disposable databases for tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/rohits-web03/warbler/internal/models"
	"github.com/rohits-web03/warbler/internal/repositories"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory SQLite database private to t. It is
// closed when the test ends.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	models.BcryptCost = bcrypt.MinCost

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := repositories.Connect(repositories.DriverSQLite, dsn)
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// NewStore wraps NewDB in a repositories.Store.
func NewStore(t *testing.T) *repositories.Store {
	t.Helper()
	return repositories.NewStore(NewDB(t))
}

// CreateUser stores a user with a hashed password and returns it.
func CreateUser(t *testing.T, store *repositories.Store, username, password string) *models.User {
	t.Helper()
	u, err := models.Signup(username, username+"@example.com", password, "")
	require.NoError(t, err)
	require.NoError(t, store.Users.Create(t.Context(), u))
	return u
}
