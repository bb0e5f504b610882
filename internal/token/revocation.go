package token

import (
	"context"
	"errors"
	"time"

	"github.com/cleantown/cleantown/internal/cache"
)

// Denylist tracks revoked refresh tokens by their jti claim. Entries expire
// together with the token they block, so the list never outgrows the set of
// still-valid tokens. Optional: when disabled, refresh stays fully stateless.
type Denylist struct {
	cache cache.Cache[bool]
}

// NewDenylist creates a denylist backed by the given cache.
func NewDenylist(c cache.Cache[bool]) *Denylist {
	return &Denylist{cache: c}
}

// Revoke marks a token id revoked until the token's own expiry.
func (d *Denylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Already expired; nothing to block.
		return nil
	}
	return d.cache.Set(ctx, tokenID, true, ttl)
}

// IsRevoked reports whether a token id has been revoked.
func (d *Denylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	revoked, err := d.cache.Get(ctx, tokenID)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return false, nil
		}
		return false, err
	}
	return revoked, nil
}

// Close releases the underlying cache.
func (d *Denylist) Close() error {
	return d.cache.Close()
}
