package auth

import (
	"net/url"
	"testing"

	"github.com/cleantown/cleantown/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		BaseURL:       "https://api.cleantown.example/",
		OAuthClientID: "test-client-id",
		OAuthAuthURL:  "https://accounts.google.com/o/oauth2/v2/auth",
		OAuthTokenURL: "https://oauth2.googleapis.com/token",
		OAuthScopes:   []string{"openid", "email", "profile"},
	}
}

func TestNewProvider_RedirectURL(t *testing.T) {
	p := NewProvider(testConfig())

	// Trailing slash on BaseURL must not double up in the redirect URI.
	assert.Equal(t, "https://api.cleantown.example/api/auth/callback", p.RedirectURL())
}

func TestAuthURL_Parameters(t *testing.T) {
	p := NewProvider(testConfig())

	authURL := p.AuthURL("state-token-123")
	parsed, err := url.Parse(authURL)
	require.NoError(t, err)

	assert.Equal(t, "accounts.google.com", parsed.Host)
	q := parsed.Query()
	assert.Equal(t, "test-client-id", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Equal(t, "openid email profile", q.Get("scope"))
	assert.Equal(t, "state-token-123", q.Get("state"))
	assert.Equal(t, "https://api.cleantown.example/api/auth/callback", q.Get("redirect_uri"))
}
