package services

import (
	"testing"

	"github.com/rohits-web03/warbler/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2/google"
)

func TestNewGoogleOAuthConfig(t *testing.T) {
	assert.Nil(t, NewGoogleOAuthConfig(config.GoogleConfig{}))

	cfg := NewGoogleOAuthConfig(config.GoogleConfig{
		ClientID:     "id",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:8080/api/v1/auth/google/callback",
	})
	require.NotNil(t, cfg)
	assert.Equal(t, "id", cfg.ClientID)
	assert.Equal(t, google.Endpoint, cfg.Endpoint)
	assert.Contains(t, cfg.Scopes, "https://www.googleapis.com/auth/userinfo.email")
}
