package token

import (
	"context"
	"testing"
	"time"

	"github.com/cleantown/cleantown/internal/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDenylist_RevokeAndCheck(t *testing.T) {
	d := NewDenylist(cache.NewMemoryCache[bool]())
	defer d.Close()

	ctx := context.Background()
	require.NoError(t, d.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))

	revoked, err := d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestDenylist_UnknownTokenNotRevoked(t *testing.T) {
	d := NewDenylist(cache.NewMemoryCache[bool]())
	defer d.Close()

	revoked, err := d.IsRevoked(context.Background(), "jti-unknown")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestDenylist_ExpiredTokenSkipped(t *testing.T) {
	d := NewDenylist(cache.NewMemoryCache[bool]())
	defer d.Close()

	ctx := context.Background()
	// Revoking an already-expired token is a no-op.
	require.NoError(t, d.Revoke(ctx, "jti-old", time.Now().Add(-time.Minute)))

	revoked, err := d.IsRevoked(ctx, "jti-old")
	require.NoError(t, err)
	assert.False(t, revoked)
}
