package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rohits-web03/warbler/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	u := &models.User{ID: 7, Username: "alice"}

	token, expiresAt, err := issuer.Issue(u)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "warbler", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestIssueUsesFreshTokenIDs(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	u := &models.User{ID: 7, Username: "alice"}

	t1, _, err := issuer.Issue(u)
	require.NoError(t, err)
	t2, _, err := issuer.Issue(u)
	require.NoError(t, err)

	c1, err := issuer.Parse(t1)
	require.NoError(t, err)
	c2, err := issuer.Parse(t2)
	require.NoError(t, err)
	assert.NotEqual(t, c1.ID, c2.ID)
}

func TestNewTokenIssuerDefaultTTL(t *testing.T) {
	assert.Equal(t, 24*time.Hour, NewTokenIssuer("secret", 0).TTL)
}

func TestParseRejects(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	u := &models.User{ID: 7, Username: "alice"}

	good, _, err := issuer.Issue(u)
	require.NoError(t, err)

	expired, _, err := NewTokenIssuer("secret", time.Nanosecond).Issue(u)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	otherSecret, _, err := NewTokenIssuer("other", time.Hour).Issue(u)
	require.NoError(t, err)

	anonymous, _, err := issuer.Issue(&models.User{Username: "ghost"})
	require.NoError(t, err)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID:           7,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone-else"},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID:           7,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "warbler"},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	cases := map[string]string{
		"garbage":      "not-a-token",
		"tampered":     good + "x",
		"expired":      expired,
		"wrong secret": otherSecret,
		"no user id":   anonymous,
		"wrong issuer": foreign,
		"alg none":     unsigned,
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := issuer.Parse(token)
			assert.Error(t, err)
		})
	}
}
