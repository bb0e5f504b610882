package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/cleantown/cleantown/internal/config"
	"github.com/cleantown/cleantown/internal/metrics"
	"github.com/cleantown/cleantown/internal/token"

	"github.com/gin-gonic/gin"
)

// TokenHandler handles refresh and revocation of app tokens
type TokenHandler struct {
	provider *token.LocalTokenProvider
	denylist *token.Denylist // nil when revocation is disabled
	config   *config.Config
	metrics  metrics.Recorder
}

// NewTokenHandler creates a new token handler
func NewTokenHandler(
	p *token.LocalTokenProvider,
	denylist *token.Denylist,
	cfg *config.Config,
	m metrics.Recorder,
) *TokenHandler {
	return &TokenHandler{
		provider: p,
		denylist: denylist,
		config:   cfg,
		metrics:  m,
	}
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh godoc
//
//	@Summary		Refresh access token
//	@Description	Verifies a refresh token and mints a new short-lived access token. Stateless unless the revocation denylist is enabled.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		object{refreshToken=string}								true	"Refresh token"
//	@Success		200		{object}	object{appAccessToken=string,appAccessTokenExpiresAt=int}	"New access token"
//	@Failure		400		{object}	object{error=string}										"Token type is not refresh"
//	@Failure		401		{object}	object{error=string,details=string}							"Verification failed"
//	@Router			/api/auth/refresh [post]
func (h *TokenHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		h.metrics.RecordTokenRefresh(metrics.ResultInvalid)
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "refresh_failed",
			"details": "refreshToken is required",
		})
		return
	}

	result, err := h.provider.ValidateRefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, token.ErrWrongTokenType):
			// Structurally valid, well-signed, wrong purpose.
			h.metrics.RecordTokenRefresh(metrics.ResultWrongType)
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "invalid_refresh_token",
			})
		case errors.Is(err, token.ErrExpiredRefreshToken):
			h.metrics.RecordTokenRefresh(metrics.ResultExpired)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "refresh_failed",
				"details": err.Error(),
			})
		default:
			h.metrics.RecordTokenRefresh(metrics.ResultInvalid)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "refresh_failed",
				"details": err.Error(),
			})
		}
		return
	}

	if h.denylist != nil {
		revoked, err := h.denylist.IsRevoked(c.Request.Context(), result.TokenID)
		if err != nil {
			log.Printf("[Token] Denylist lookup failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "server_error",
			})
			return
		}
		if revoked {
			h.metrics.RecordTokenRefresh(metrics.ResultRevoked)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "refresh_failed",
				"details": token.ErrTokenRevoked.Error(),
			})
			return
		}
	}

	access, err := h.provider.GenerateAccessToken(c.Request.Context(), result.Subject)
	if err != nil {
		log.Printf("[Token] Failed to mint access token: %v", err)
		h.metrics.RecordTokenRefresh(metrics.ResultError)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "server_error",
		})
		return
	}

	h.metrics.RecordTokenRefresh(metrics.ResultSuccess)
	c.JSON(http.StatusOK, gin.H{
		"appAccessToken":          access.Token,
		"appAccessTokenExpiresAt": access.ExpiresAt.Unix(),
	})
}

// Revoke godoc
//
//	@Summary		Revoke refresh token
//	@Description	Marks a refresh token revoked in the denylist (RFC 7009 posture: invalid tokens also return 200 to prevent token scanning)
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		object{refreshToken=string}	true	"Refresh token to revoke"
//	@Success		200		{string}	string						"Revoked (or invalid token)"
//	@Failure		400		{object}	object{error=string}		"refreshToken parameter missing"
//	@Router			/api/auth/revoke [post]
func (h *TokenHandler) Revoke(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid_request",
		})
		return
	}

	result, err := h.provider.ValidateRefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil || h.denylist == nil {
		// RFC 7009 §2.2: respond 200 for invalid tokens as well, to
		// prevent token scanning.
		c.Status(http.StatusOK)
		return
	}

	if err := h.denylist.Revoke(c.Request.Context(), result.TokenID, result.ExpiresAt); err != nil {
		log.Printf("[Token] Failed to revoke token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "server_error",
		})
		return
	}

	h.metrics.RecordTokenRevoked()
	c.Status(http.StatusOK)
}
