package util

import (
	"net/url"
	"strings"
)

// JoinBaseURL appends path to a configured base URL, stripping any trailing
// slash so "https://host/" and "https://host" produce the same result.
func JoinBaseURL(baseURL, path string) string {
	return strings.TrimSuffix(baseURL, "/") + path
}

// DeepLinkURL builds the custom-scheme URL that hands the authorization
// result back to the native app: scheme://auth?code=...&state=...[&error=...].
// The error parameter is appended only when the authorization server
// reported one upstream.
func DeepLinkURL(scheme, code, state, errParam string) string {
	var b strings.Builder
	b.WriteString(scheme)
	b.WriteString("://auth?code=")
	b.WriteString(url.QueryEscape(code))
	b.WriteString("&state=")
	b.WriteString(url.QueryEscape(state))
	if errParam != "" {
		b.WriteString("&error=")
		b.WriteString(url.QueryEscape(errParam))
	}
	return b.String()
}
