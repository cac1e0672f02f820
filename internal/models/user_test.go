package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	BcryptCost = bcrypt.MinCost
}

func TestSignupHashesPassword(t *testing.T) {
	u, err := Signup("test_user", "testuser@testuser.com", "Password", "")
	require.NoError(t, err)

	assert.Equal(t, "test_user", u.Username)
	assert.Equal(t, "testuser@testuser.com", u.Email)
	assert.NotEqual(t, "Password", u.Password)
	assert.True(t, strings.HasPrefix(u.Password, "$2b$"), "got %q", u.Password)
	assert.Zero(t, u.ID, "signup must not persist")
}

func TestSignupDefaultsImage(t *testing.T) {
	u, err := Signup("a", "a@example.com", "secret", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultImageURL, u.ImageURL)

	u, err = Signup("b", "b@example.com", "secret", "https://img.example.com/b.png")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/b.png", u.ImageURL)
}

func TestCheckPassword(t *testing.T) {
	u, err := Signup("test_user", "testuser@testuser.com", "Password", "")
	require.NoError(t, err)

	assert.True(t, u.CheckPassword("Password"))
	assert.False(t, u.CheckPassword("wrongPassword"))
	assert.False(t, u.CheckPassword(""))
}

func TestCheckPasswordAcceptsBothRevisions(t *testing.T) {
	raw, err := bcrypt.GenerateFromPassword([]byte("Password"), bcrypt.MinCost)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(raw), "$2a$"))

	assert.True(t, (&User{Password: string(raw)}).CheckPassword("Password"))
}

func TestSignupRejectsOverlongPassword(t *testing.T) {
	_, err := Signup("a", "a@example.com", strings.Repeat("x", 73), "")
	assert.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)
}

func TestDirectConstructionKeepsPassword(t *testing.T) {
	u := User{Email: "test@test.com", Username: "testuser", Password: "HASHED_PASSWORD"}
	assert.Equal(t, "HASHED_PASSWORD", u.Password)
	assert.False(t, u.CheckPassword("HASHED_PASSWORD"))
}
