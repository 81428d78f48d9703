package token

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvSource(t *testing.T) {
	future := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	past := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)

	tests := []struct {
		name      string
		value     string
		wantToken string
		wantScope string
		wantErr   error
	}{
		{name: "raw token", value: "ghp_abc123", wantToken: "ghp_abc123"},
		{name: "raw token with whitespace", value: "  ghp_abc123\n", wantToken: "ghp_abc123"},
		{
			name:      "json document",
			value:     `{"Value":"ghp_json","Scope":"repo","ExpiresAt":"` + future + `"}`,
			wantToken: "ghp_json",
			wantScope: "repo",
		},
		{name: "unset", value: "", wantErr: ErrTokenNotFound},
		{name: "json without value", value: `{"Scope":"repo"}`, wantErr: ErrTokenInvalid},
		{name: "expired", value: `{"Value":"ghp_old","ExpiresAt":"` + past + `"}`, wantErr: ErrTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &EnvSource{Getenv: func(key string) string {
				if key == "GIT_TOKEN_GITHUB" {
					return tt.value
				}
				return ""
			}}

			tok, err := src.Token(context.Background(), ProviderGitHub)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, tok.Value)
			assert.Equal(t, tt.wantScope, tok.Scope)
		})
	}
}

func TestEnvSourceMalformedJSON(t *testing.T) {
	src := &EnvSource{Getenv: func(string) string { return `{"Value":` }}
	_, err := src.Token(context.Background(), ProviderGitHub)
	assert.ErrorContains(t, err, "failed to unmarshal token")
}

func TestNewEnvSourceReadsProcessEnv(t *testing.T) {
	t.Setenv("GIT_TOKEN_GITLAB", "glpat-xyz")

	tok, err := NewEnvSource().Token(context.Background(), ProviderGitLab)
	require.NoError(t, err)
	assert.Equal(t, "glpat-xyz", tok.Value)
}

func TestFormatEnvKey(t *testing.T) {
	assert.Equal(t, "GIT_TOKEN_GITHUB", FormatEnvKey("github"))
	assert.Equal(t, "GIT_TOKEN_MY_HOST_COM", FormatEnvKey("my-host.com"))
}

func TestDetectProvider(t *testing.T) {
	tests := []struct {
		token string
		want  Provider
	}{
		{token: "ghp_1234567890abcdef", want: ProviderGitHub},
		{token: "github_pat_1234567890abcdef", want: ProviderGitHub},
		{token: "gho_1234567890abcdef", want: ProviderGitHub},
		{token: "glpat-1234567890abcdef", want: ProviderGitLab},
		{token: "invalid_token", want: ""},
		{token: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectProvider(tt.token))
		})
	}
}

func TestMask(t *testing.T) {
	assert.Equal(t, "ghp_****cdef", Mask("ghp_1234567890abcdef"))
	assert.Equal(t, "****cdef", Mask("plain1234567890abcdef"))
	assert.Equal(t, "*****", Mask("short"))
}

func TestIsExpired(t *testing.T) {
	assert.False(t, IsExpired(Token{Value: "x"}))
	assert.False(t, IsExpired(Token{Value: "x", ExpiresAt: time.Now().Add(time.Hour)}))
	assert.True(t, IsExpired(Token{Value: "x", ExpiresAt: time.Now().Add(-time.Hour)}))
}
