package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/NicabarNimble/go-gitpublish/internal/errors"
)

// FileNames are looked up, in order, in the target directory when no
// configuration file is given explicitly
var FileNames = []string{".gitpublish.yaml", ".gitpublish.yml", ".gitpublish.json"}

// PublishConfig holds the defaults for publishing a directory
type PublishConfig struct {
	CommitMessage string       `json:"commitMessage" yaml:"commitMessage"`
	RemoteURL     string       `json:"remoteUrl,omitempty" yaml:"remoteUrl,omitempty"`
	Branch        string       `json:"branch" yaml:"branch"`
	BranchChoices []string     `json:"branchChoices,omitempty" yaml:"branchChoices,omitempty"`
	Log           LogConfig    `json:"log" yaml:"log"`
	GitHub        GitHubConfig `json:"github,omitempty" yaml:"github,omitempty"`
}

// LogConfig configures the diagnostic logger
type LogConfig struct {
	Level string `json:"level" yaml:"level"`
	File  string `json:"file,omitempty" yaml:"file,omitempty"`
}

// GitHubConfig describes a GitHub repository to create when it does not exist
type GitHubConfig struct {
	Repo        string `json:"repo,omitempty" yaml:"repo,omitempty"`
	Private     bool   `json:"private,omitempty" yaml:"private,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// APIURL points at a GitHub Enterprise API, empty for github.com
	APIURL string `json:"apiUrl,omitempty" yaml:"apiUrl,omitempty"`
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// LoadPublishConfig loads configuration from a YAML or JSON file, chosen by extension
func LoadPublishConfig(path string) (*PublishConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("config", fmt.Errorf("failed to read config file: %w", err))
	}

	var config PublishConfig
	if isYAML(path) {
		err = yaml.Unmarshal(data, &config)
	} else {
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return nil, errors.New("config", fmt.Errorf("failed to parse config file: %w", err))
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// SavePublishConfig saves configuration to a YAML or JSON file, chosen by extension
func (c *PublishConfig) SavePublishConfig(path string) error {
	if err := c.validate(); err != nil {
		return err
	}

	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return errors.New("config", fmt.Errorf("failed to marshal config: %w", err))
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("config", fmt.Errorf("failed to write config file: %w", err))
	}

	return nil
}

// FindConfig returns the first of FileNames present in dir, or ""
func FindConfig(dir string) string {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// LoadOrDefault loads path, or the configuration discovered in dir when
// path is empty, falling back to DefaultPublishConfig
func LoadOrDefault(path, dir string) (*PublishConfig, string, error) {
	if path == "" {
		path = FindConfig(dir)
	}
	if path == "" {
		return DefaultPublishConfig(), "", nil
	}
	cfg, err := LoadPublishConfig(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

func (c *PublishConfig) validate() error {
	if c.CommitMessage == "" {
		c.CommitMessage = DefaultCommitMessage
	}
	if c.Branch == "" {
		c.Branch = DefaultBranch
	}
	if len(c.BranchChoices) == 0 {
		c.BranchChoices = append([]string(nil), DefaultBranchChoices...)
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if err := ValidateBranchName(c.Branch); err != nil {
		return errors.New("config", err)
	}
	for _, b := range c.BranchChoices {
		if err := ValidateBranchName(b); err != nil {
			return errors.New("config", err)
		}
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("config", fmt.Errorf("invalid log level %q", c.Log.Level))
	}
	return nil
}

// ValidateBranchName rejects names git would refuse or misread as an option
func ValidateBranchName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return errors.NewValidation("branch", "branch name is required")
	case strings.HasPrefix(name, "-"):
		return errors.NewValidation("branch", fmt.Sprintf("invalid branch name %q: must not start with '-'", name))
	case strings.ContainsAny(name, " \t\n:~^?*[\\"):
		return errors.NewValidation("branch", fmt.Sprintf("invalid branch name %q", name))
	}
	return nil
}

const (
	DefaultCommitMessage = "Initial commit"
	DefaultBranch        = "main"
)

// DefaultBranchChoices are offered in the branch select when no others are configured
var DefaultBranchChoices = []string{"main", "master"}

// DefaultPublishConfig returns a PublishConfig with default values
func DefaultPublishConfig() *PublishConfig {
	return &PublishConfig{
		CommitMessage: DefaultCommitMessage,
		Branch:        DefaultBranch,
		BranchChoices: append([]string(nil), DefaultBranchChoices...),
		Log:           LogConfig{Level: "info"},
	}
}
