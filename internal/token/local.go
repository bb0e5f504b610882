package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cleantown/cleantown/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token type constants
const (
	TokenTypeBearer = "Bearer"

	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// AppClaims is the typed claim set carried by CleanTown tokens. Decoding
// into a concrete struct (instead of a claims map) means a missing or
// mistyped claim fails validation instead of flowing through as zero values.
type AppClaims struct {
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// Result holds a freshly minted token
type Result struct {
	Token     string
	TokenType string
	ExpiresAt time.Time
}

// ValidationResult holds the verified claims of a refresh token
type ValidationResult struct {
	Subject   string
	TokenID   string // jti; keys the revocation denylist
	ExpiresAt time.Time
}

// LocalTokenProvider mints and validates JWT tokens with a shared HMAC secret.
// Tokens are never persisted: the signature alone carries the trust.
type LocalTokenProvider struct {
	config *config.Config
}

// NewLocalTokenProvider creates a new local token provider
func NewLocalTokenProvider(cfg *config.Config) *LocalTokenProvider {
	return &LocalTokenProvider{config: cfg}
}

// generateJWT creates a signed JWT token with the given type and expiration
func (p *LocalTokenProvider) generateJWT(
	subject, tokenType string,
	expiresAt time.Time,
) (*Result, error) {
	claims := AppClaims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    p.config.JWTIssuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(p.config.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	return &Result{
		Token:     tokenString,
		TokenType: TokenTypeBearer,
		ExpiresAt: expiresAt,
	}, nil
}

// GenerateAccessToken mints a short-lived access token for the given subject
func (p *LocalTokenProvider) GenerateAccessToken(
	ctx context.Context,
	subject string,
) (*Result, error) {
	expiresAt := time.Now().Add(p.config.AccessTokenExpiration)
	return p.generateJWT(subject, TypeAccess, expiresAt)
}

// GenerateRefreshToken mints a long-lived refresh token for the given subject
func (p *LocalTokenProvider) GenerateRefreshToken(
	ctx context.Context,
	subject string,
) (*Result, error) {
	expiresAt := time.Now().Add(p.config.RefreshTokenExpiration)
	return p.generateJWT(subject, TypeRefresh, expiresAt)
}

// ValidateRefreshToken verifies a refresh token's signature and claims.
// Returns ErrWrongTokenType for a well-signed token whose type claim is not
// "refresh": wrong-purpose tokens must be rejected even with a valid
// signature.
func (p *LocalTokenProvider) ValidateRefreshToken(
	ctx context.Context,
	tokenString string,
) (*ValidationResult, error) {
	var claims AppClaims
	parsed, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(p.config.JWTSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredRefreshToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
	}

	if !parsed.Valid {
		return nil, ErrInvalidRefreshToken
	}

	// Fail closed on missing required claims
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, ErrInvalidRefreshToken
	}

	if claims.TokenType != TypeRefresh {
		return nil, ErrWrongTokenType
	}

	return &ValidationResult{
		Subject:   claims.Subject,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Name returns provider name for logging
func (p *LocalTokenProvider) Name() string {
	return "local"
}
