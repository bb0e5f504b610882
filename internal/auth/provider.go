package auth

import (
	"github.com/cleantown/cleantown/internal/config"
	"github.com/cleantown/cleantown/internal/util"

	"golang.org/x/oauth2"
)

// Provider builds authorization-server URLs for the mobile sign-in flow.
// The server never exchanges the authorization code itself; the native app
// performs the code-for-token exchange out of band, so no client secret is
// configured here.
type Provider struct {
	config *oauth2.Config
}

// NewProvider creates a Provider from the configured authorization endpoint.
// The redirect URI is BaseURL (trailing slash stripped) plus the fixed
// callback path.
func NewProvider(cfg *config.Config) *Provider {
	return &Provider{
		config: &oauth2.Config{
			ClientID:    cfg.OAuthClientID,
			RedirectURL: util.JoinBaseURL(cfg.BaseURL, config.CallbackPath),
			Scopes:      cfg.OAuthScopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.OAuthAuthURL,
				TokenURL: cfg.OAuthTokenURL,
			},
		},
	}
}

// AuthURL returns the authorization URL carrying the anti-forgery state.
// access_type=offline and prompt=consent make the authorization server
// issue a refresh token on every consent.
func (p *Provider) AuthURL(state string) string {
	return p.config.AuthCodeURL(
		state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// RedirectURL returns the callback redirect URI registered with the
// authorization server.
func (p *Provider) RedirectURL() string {
	return p.config.RedirectURL
}
