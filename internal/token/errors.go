package token

import "errors"

var (
	// ErrTokenGeneration indicates token signing failed
	ErrTokenGeneration = errors.New("failed to generate token")

	// ErrInvalidRefreshToken indicates the refresh token is malformed,
	// badly signed, or missing a required claim
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrExpiredRefreshToken indicates the refresh token has expired
	ErrExpiredRefreshToken = errors.New("refresh token expired")

	// ErrWrongTokenType indicates a structurally valid token whose type
	// claim is not "refresh" (e.g. an access token presented for refresh)
	ErrWrongTokenType = errors.New("token type is not refresh")

	// ErrTokenRevoked indicates the refresh token was revoked
	ErrTokenRevoked = errors.New("refresh token revoked")
)
