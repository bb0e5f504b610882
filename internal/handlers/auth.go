package handlers

import (
	"log"
	"net/http"

	"github.com/cleantown/cleantown/internal/auth"
	"github.com/cleantown/cleantown/internal/config"
	"github.com/cleantown/cleantown/internal/metrics"
	"github.com/cleantown/cleantown/internal/util"

	"github.com/gin-gonic/gin"
)

// StateCookieName is the cookie carrying the anti-forgery state between the
// authorize redirect and its callback.
const StateCookieName = "oauth_state"

// AuthHandler handles the mobile OAuth sign-in flow: the authorize redirect
// and the callback relay back to the native app.
type AuthHandler struct {
	provider *auth.Provider
	config   *config.Config
	metrics  metrics.Recorder
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(p *auth.Provider, cfg *config.Config, m metrics.Recorder) *AuthHandler {
	return &AuthHandler{
		provider: p,
		config:   cfg,
		metrics:  m,
	}
}

// Authorize godoc
//
//	@Summary		Start OAuth sign-in
//	@Description	Redirects to the authorization server with a fresh anti-forgery state; the state is also set as a short-lived HttpOnly cookie
//	@Tags			Auth
//	@Success		302	{string}	string	"Redirect to authorization server"
//	@Router			/api/auth/authorize [get]
func (h *AuthHandler) Authorize(c *gin.Context) {
	state, err := util.NewStateToken()
	if err != nil {
		log.Printf("[OAuth] Failed to generate state: %v", err)
		c.String(http.StatusInternalServerError, "Failed to initiate sign-in")
		return
	}

	// Single-use anti-forgery value. Lax mode is required so the cookie is
	// sent on the top-level redirect back from the authorization server.
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		StateCookieName,
		state,
		int(h.config.StateCookieMaxAge.Seconds()),
		"/",
		"",
		h.config.IsProduction,
		true,
	)

	h.metrics.RecordAuthorizeRedirect()
	c.Redirect(http.StatusFound, h.provider.AuthURL(state))
}

// Callback godoc
//
//	@Summary		OAuth callback relay
//	@Description	Validates the returned state against the state cookie and forwards the authorization code to the native app via its custom URI scheme. The app performs the code-for-token exchange itself.
//	@Tags			Auth
//	@Success		302	{string}	string	"Redirect to app deep link"
//	@Failure		400	{string}	string	"State mismatch or missing state"
//	@Router			/api/auth/callback [get]
func (h *AuthHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	errParam := c.Query("error")

	cookieState, err := c.Cookie(StateCookieName)
	if err != nil || cookieState == "" || state == "" {
		// Absent state on either side means there is nothing proving this
		// callback belongs to a flow we started. Reject instead of relaying.
		h.metrics.RecordCallback(metrics.ResultStateMissing)
		c.String(http.StatusBadRequest, "Missing state parameter")
		return
	}

	if cookieState != state {
		log.Printf("[OAuth] State mismatch on callback")
		h.metrics.RecordCallback(metrics.ResultStateMismatch)
		c.String(http.StatusBadRequest, "Invalid state parameter")
		return
	}

	// State is single-use: consume the cookie.
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(StateCookieName, "", -1, "/", "", h.config.IsProduction, true)

	h.metrics.RecordCallback(metrics.ResultSuccess)
	c.Redirect(http.StatusFound, util.DeepLinkURL(h.config.AppScheme, code, state, errParam))
}
