// Package token finds the access token used for hosting provider API calls.
//
// Tokens come from GIT_TOKEN_<PROVIDER> environment variables, holding
// either the bare token or a JSON document with metadata:
//
//	export GIT_TOKEN_GITHUB="ghp_..."
//	export GIT_TOKEN_GITHUB='{"Value":"ghp_...","Scope":"repo"}'
//
// The token is only sent to the provider API. It is never written into a
// remote URL or git configuration.
package token

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Common errors that may be returned by token lookups
var (
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenInvalid  = errors.New("token is invalid")
	ErrTokenExpired  = errors.New("token has expired")
)

// Token represents an authentication token with metadata
type Token struct {
	Value string `json:"Value"`

	// ExpiresAt is zero for tokens that do not expire
	ExpiresAt time.Time `json:"ExpiresAt,omitempty"`

	Scope string `json:"Scope,omitempty"`
}

// Source looks up the token for a provider
type Source interface {
	Token(ctx context.Context, provider Provider) (Token, error)
}

// IsExpired checks if a token has expired
func IsExpired(token Token) bool {
	if token.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(token.ExpiresAt)
}

// check returns the error a lookup should report for token, if any
func check(token Token) error {
	if strings.TrimSpace(token.Value) == "" {
		return ErrTokenInvalid
	}
	if IsExpired(token) {
		return ErrTokenExpired
	}
	return nil
}

// Mask shortens a token for display, keeping a recognizable prefix and the last four characters
func Mask(value string) string {
	if len(value) <= 8 {
		return strings.Repeat("*", len(value))
	}
	prefix := ""
	for _, p := range []string{"github_pat_", "ghp_", "gho_", "glpat-"} {
		if strings.HasPrefix(value, p) {
			prefix = p
			break
		}
	}
	return prefix + "****" + value[len(value)-4:]
}
