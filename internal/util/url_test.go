package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		path     string
		expected string
	}{
		{
			name:     "no trailing slash",
			baseURL:  "https://api.cleantown.example",
			path:     "/api/auth/callback",
			expected: "https://api.cleantown.example/api/auth/callback",
		},
		{
			name:     "trailing slash stripped",
			baseURL:  "https://api.cleantown.example/",
			path:     "/api/auth/callback",
			expected: "https://api.cleantown.example/api/auth/callback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, JoinBaseURL(tt.baseURL, tt.path))
		})
	}
}

func TestDeepLinkURL(t *testing.T) {
	t.Run("without error", func(t *testing.T) {
		got := DeepLinkURL("cleantown", "4/0Axyz", "abc123", "")
		assert.Equal(t, "cleantown://auth?code=4%2F0Axyz&state=abc123", got)
	})

	t.Run("with error", func(t *testing.T) {
		got := DeepLinkURL("cleantown", "", "abc123", "access_denied")
		assert.Equal(t, "cleantown://auth?code=&state=abc123&error=access_denied", got)
	})
}
