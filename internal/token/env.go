package token

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

const (
	// EnvPrefix is the prefix used for all token environment variables
	EnvPrefix = "GIT_TOKEN_"
)

// EnvSource reads tokens from GIT_TOKEN_<PROVIDER> environment variables
type EnvSource struct {
	// Getenv defaults to os.Getenv
	Getenv func(string) string
}

// NewEnvSource creates a source backed by the process environment
func NewEnvSource() *EnvSource {
	return &EnvSource{Getenv: os.Getenv}
}

// Token implements Source
func (e *EnvSource) Token(_ context.Context, provider Provider) (Token, error) {
	getenv := e.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	data := strings.TrimSpace(getenv(FormatEnvKey(string(provider))))
	if data == "" {
		return Token{}, fmt.Errorf("%w: %s is not set", ErrTokenNotFound, FormatEnvKey(string(provider)))
	}

	token, err := parse(data)
	if err != nil {
		return Token{}, err
	}
	if err := check(token); err != nil {
		return Token{}, err
	}
	return token, nil
}

// parse accepts either a JSON token document or a bare token
func parse(data string) (Token, error) {
	if !strings.HasPrefix(data, "{") {
		return Token{Value: data}, nil
	}
	var token Token
	if err := json.Unmarshal([]byte(data), &token); err != nil {
		return Token{}, fmt.Errorf("failed to unmarshal token: %w", err)
	}
	return token, nil
}

// FormatEnvKey converts a provider or key into an environment variable name
func FormatEnvKey(key string) string {
	sanitized := strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, strings.ToUpper(key))

	return EnvPrefix + sanitized
}
