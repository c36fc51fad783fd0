package handlers

import (
	"net/url"
	"strings"
)

// normalizeEmail lowercases the domain part; the local part is case-sensitive.
func normalizeEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

// normalizeURL lowercases scheme and host and gives a bare host a "/" path,
// so https://Example.com and https://example.com/ forward the same value.
func normalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" && u.Opaque == "" {
		u.Path = "/"
	}
	return u.String()
}
