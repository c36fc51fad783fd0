package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@b.com", normalizeEmail("a@b.com"))
	assert.Equal(t, "John.Doe@example.com", normalizeEmail("John.Doe@EXAMPLE.com"))
	assert.Equal(t, "no-at-sign", normalizeEmail("no-at-sign"))
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://example.com/x", "https://example.com/x"},
		{"https://example.com", "https://example.com/"},
		{"HTTP://Example.COM/Path/Case", "http://example.com/Path/Case"},
		{"https://example.com?q=1", "https://example.com/?q=1"},
		{"https://example.com:8443/a?b=c#frag", "https://example.com:8443/a?b=c#frag"},
		{"https://example.com/a%2Fb", "https://example.com/a%2Fb"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeURL(tt.in))
		})
	}
}
