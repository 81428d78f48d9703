package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NicabarNimble/go-gitpublish/internal/errors"
)

func TestLoadPublishConfig(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		wantErr bool
	}{
		{
			name: "valid json",
			file: "valid.json",
			content: `{
				"commitMessage": "first",
				"remoteUrl": "https://github.com/test/repo.git",
				"branch": "develop",
				"branchChoices": ["develop", "main"],
				"log": {"level": "debug"}
			}`,
		},
		{
			name: "valid yaml",
			file: "valid.yaml",
			content: `commitMessage: first
remoteUrl: https://github.com/test/repo.git
branch: develop
branchChoices: [develop, main]
log:
  level: debug
`,
		},
		{
			name:    "empty json gets defaults",
			file:    "empty.json",
			content: `{}`,
		},
		{
			name:    "invalid json",
			file:    "broken.json",
			content: "{invalid json",
			wantErr: true,
		},
		{
			name:    "invalid yaml",
			file:    "broken.yml",
			content: "branch: [unterminated",
			wantErr: true,
		},
		{
			name:    "branch starting with dash",
			file:    "dash.json",
			content: `{"branch": "-f"}`,
			wantErr: true,
		},
		{
			name:    "bad log level",
			file:    "level.yaml",
			content: "log:\n  level: loud\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(tempDir, tt.file)
			require.NoError(t, os.WriteFile(configPath, []byte(tt.content), 0644))

			config, err := LoadPublishConfig(configPath)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, config.Branch)
			assert.NotEmpty(t, config.CommitMessage)
			assert.NotEmpty(t, config.BranchChoices)
		})
	}

	t.Run("non-existent file", func(t *testing.T) {
		_, err := LoadPublishConfig(filepath.Join(tempDir, "nonexistent.json"))
		require.Error(t, err)
		assert.ErrorIs(t, err, &errors.OperationError{Op: "config"})
	})
}

func TestYAMLAndJSONAgree(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "c.json")
	yamlPath := filepath.Join(dir, "c.yaml")

	require.NoError(t, os.WriteFile(jsonPath, []byte(`{
		"commitMessage": "ship it",
		"remoteUrl": "git@github.com:owner/repo.git",
		"branch": "trunk",
		"github": {"repo": "repo", "private": true}
	}`), 0644))
	require.NoError(t, os.WriteFile(yamlPath, []byte(`commitMessage: ship it
remoteUrl: git@github.com:owner/repo.git
branch: trunk
github:
  repo: repo
  private: true
`), 0644))

	fromJSON, err := LoadPublishConfig(jsonPath)
	require.NoError(t, err)
	fromYAML, err := LoadPublishConfig(yamlPath)
	require.NoError(t, err)

	assert.Equal(t, fromJSON, fromYAML)
	assert.Equal(t, []string{"main", "master"}, fromJSON.BranchChoices)
	assert.Equal(t, "info", fromJSON.Log.Level)
}

func TestSavePublishConfig(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		config  *PublishConfig
		wantErr bool
	}{
		{
			name: "json",
			file: "out.json",
			config: &PublishConfig{
				CommitMessage: "hello",
				RemoteURL:     "https://github.com/test/repo.git",
				Branch:        "main",
			},
		},
		{
			name:   "yaml",
			file:   "out.yaml",
			config: &PublishConfig{CommitMessage: "hello", Branch: "release"},
		},
		{
			name:   "missing branch uses default",
			file:   "default.json",
			config: &PublishConfig{},
		},
		{
			name:    "invalid branch",
			file:    "bad.json",
			config:  &PublishConfig{Branch: "has space"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(tempDir, tt.file)
			err := tt.config.SavePublishConfig(configPath)
			if tt.wantErr {
				assert.Error(t, err)
				assert.NoFileExists(t, configPath)
				return
			}
			require.NoError(t, err)

			loaded, err := LoadPublishConfig(configPath)
			require.NoError(t, err)
			assert.Equal(t, tt.config, loaded)
		})
	}
}

func TestFindConfig(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, FindConfig(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitpublish.json"), []byte(`{}`), 0644))
	assert.Equal(t, filepath.Join(dir, ".gitpublish.json"), FindConfig(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitpublish.yaml"), []byte(`branch: x`), 0644))
	assert.Equal(t, filepath.Join(dir, ".gitpublish.yaml"), FindConfig(dir))
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()

	cfg, path, err := LoadOrDefault("", dir)
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, DefaultPublishConfig(), cfg)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitpublish.yml"), []byte("branch: develop\n"), 0644))
	cfg, path, err = LoadOrDefault("", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".gitpublish.yml"), path)
	assert.Equal(t, "develop", cfg.Branch)

	_, _, err = LoadOrDefault(filepath.Join(dir, "missing.json"), dir)
	assert.Error(t, err)
}

func TestValidateBranchName(t *testing.T) {
	tests := []struct {
		name    string
		branch  string
		wantErr bool
	}{
		{name: "simple", branch: "main"},
		{name: "nested", branch: "feature/login"},
		{name: "empty", branch: "", wantErr: true},
		{name: "blank", branch: "   ", wantErr: true},
		{name: "option-like", branch: "--force", wantErr: true},
		{name: "space", branch: "my branch", wantErr: true},
		{name: "colon", branch: ":new", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBranchName(tt.branch)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errors.ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDefaultPublishConfig(t *testing.T) {
	config := DefaultPublishConfig()

	require.NotNil(t, config)
	assert.Equal(t, "main", config.Branch)
	assert.Equal(t, "Initial commit", config.CommitMessage)
	assert.Equal(t, []string{"main", "master"}, config.BranchChoices)
}
