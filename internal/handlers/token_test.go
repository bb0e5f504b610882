package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cleantown/cleantown/internal/cache"
	"github.com/cleantown/cleantown/internal/config"
	"github.com/cleantown/cleantown/internal/metrics"
	"github.com/cleantown/cleantown/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokenConfig() *config.Config {
	return &config.Config{
		JWTSecret:              "test-secret-at-least-32-bytes-long!!",
		JWTIssuer:              "cleantown-auth",
		AccessTokenExpiration:  900 * time.Second,
		RefreshTokenExpiration: 720 * time.Hour,
	}
}

func newTestTokenHandler(cfg *config.Config, denylist *token.Denylist) *TokenHandler {
	provider := token.NewLocalTokenProvider(cfg)
	return NewTokenHandler(provider, denylist, cfg, metrics.NewNoopMetrics())
}

func setupTokenRouter(h *TokenHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/auth/refresh", h.Refresh)
	r.POST("/api/auth/revoke", h.Revoke)
	return r
}

func postJSON(
	t *testing.T,
	r *gin.Engine,
	path string,
	body any,
) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequestWithContext(
		context.Background(),
		http.MethodPost,
		path,
		bytes.NewReader(payload),
	)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var data map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	return data
}

func TestRefresh_ValidToken_ReturnsNewAccessToken(t *testing.T) {
	cfg := testTokenConfig()
	h := newTestTokenHandler(cfg, nil)
	r := setupTokenRouter(h)

	refresh, err := h.provider.GenerateRefreshToken(context.Background(), "user-123")
	require.NoError(t, err)

	before := time.Now()
	w := postJSON(t, r, "/api/auth/refresh", gin.H{"refreshToken": refresh.Token})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.NotEmpty(t, body["appAccessToken"])

	// Expiry is unix seconds, 900s from now.
	expiresAt, ok := body["appAccessTokenExpiresAt"].(float64)
	require.True(t, ok)
	assert.InDelta(t, before.Add(900*time.Second).Unix(), int64(expiresAt), 2)

	// The minted token must verify as an access token for the same subject.
	result, err := h.provider.ValidateRefreshToken(
		context.Background(),
		body["appAccessToken"].(string),
	)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, token.ErrWrongTokenType)
}

func TestRefresh_AccessTokenRejected_Returns400(t *testing.T) {
	cfg := testTokenConfig()
	h := newTestTokenHandler(cfg, nil)
	r := setupTokenRouter(h)

	access, err := h.provider.GenerateAccessToken(context.Background(), "user-123")
	require.NoError(t, err)

	w := postJSON(t, r, "/api/auth/refresh", gin.H{"refreshToken": access.Token})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "invalid_refresh_token", body["error"])
}

func TestRefresh_ExpiredToken_Returns401(t *testing.T) {
	cfg := testTokenConfig()
	cfg.RefreshTokenExpiration = -time.Hour
	h := newTestTokenHandler(cfg, nil)
	r := setupTokenRouter(h)

	expired, err := h.provider.GenerateRefreshToken(context.Background(), "user-123")
	require.NoError(t, err)

	w := postJSON(t, r, "/api/auth/refresh", gin.H{"refreshToken": expired.Token})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "refresh_failed", body["error"])
	assert.NotEmpty(t, body["details"])
}

func TestRefresh_BadSignature_Returns401(t *testing.T) {
	otherCfg := testTokenConfig()
	otherCfg.JWTSecret = "a-completely-different-signing-secret"
	forged, err := token.NewLocalTokenProvider(otherCfg).
		GenerateRefreshToken(context.Background(), "user-123")
	require.NoError(t, err)

	h := newTestTokenHandler(testTokenConfig(), nil)
	r := setupTokenRouter(h)

	w := postJSON(t, r, "/api/auth/refresh", gin.H{"refreshToken": forged.Token})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "refresh_failed", decodeBody(t, w)["error"])
}

func TestRefresh_MalformedToken_Returns401(t *testing.T) {
	h := newTestTokenHandler(testTokenConfig(), nil)
	r := setupTokenRouter(h)

	w := postJSON(t, r, "/api/auth/refresh", gin.H{"refreshToken": "not-a-jwt"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "refresh_failed", decodeBody(t, w)["error"])
}

func TestRefresh_MissingToken_Returns401(t *testing.T) {
	h := newTestTokenHandler(testTokenConfig(), nil)
	r := setupTokenRouter(h)

	w := postJSON(t, r, "/api/auth/refresh", gin.H{})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "refresh_failed", decodeBody(t, w)["error"])
}

func TestRefresh_RevokedToken_Returns401(t *testing.T) {
	cfg := testTokenConfig()
	denylist := token.NewDenylist(cache.NewMemoryCache[bool]())
	h := newTestTokenHandler(cfg, denylist)
	r := setupTokenRouter(h)

	refresh, err := h.provider.GenerateRefreshToken(context.Background(), "user-123")
	require.NoError(t, err)

	// Revoke, then attempt refresh.
	w := postJSON(t, r, "/api/auth/revoke", gin.H{"refreshToken": refresh.Token})
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, r, "/api/auth/refresh", gin.H{"refreshToken": refresh.Token})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "refresh_failed", decodeBody(t, w)["error"])
}

func TestRevoke_InvalidToken_Returns200(t *testing.T) {
	denylist := token.NewDenylist(cache.NewMemoryCache[bool]())
	h := newTestTokenHandler(testTokenConfig(), denylist)
	r := setupTokenRouter(h)

	// RFC 7009 posture: invalid tokens still get 200 so callers cannot
	// probe which tokens exist.
	w := postJSON(t, r, "/api/auth/revoke", gin.H{"refreshToken": "not-a-jwt"})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRevoke_MissingToken_Returns400(t *testing.T) {
	denylist := token.NewDenylist(cache.NewMemoryCache[bool]())
	h := newTestTokenHandler(testTokenConfig(), denylist)
	r := setupTokenRouter(h)

	w := postJSON(t, r, "/api/auth/revoke", gin.H{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", decodeBody(t, w)["error"])
}
