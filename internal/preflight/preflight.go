// Package preflight checks the environment before a publish touches anything
package preflight

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"github.com/Masterminds/semver/v3"

	"github.com/NicabarNimble/go-gitpublish/internal/errors"
)

// MinGitVersion is the oldest git with every flag the publish workflow uses
const MinGitVersion = ">= 1.8.0"

var versionRegex = regexp.MustCompile(`(\d+)\.(\d+)(?:\.(\d+))?`)

// CheckDirectory verifies dir exists, is a directory and can be written to
func CheckDirectory(dir string) error {
	if dir == "" {
		return errors.NewValidation("dir", "No target directory given.")
	}

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return errors.NewValidation("dir", fmt.Sprintf("Directory %s does not exist.", dir))
	}
	if err != nil {
		return errors.NewValidation("dir", fmt.Sprintf("Cannot access %s: %v", dir, err))
	}
	if !info.IsDir() {
		return errors.NewValidation("dir", fmt.Sprintf("%s is not a directory.", dir))
	}

	tmp, err := os.CreateTemp(dir, ".gitpublish-write-*")
	if err != nil {
		return errors.NewValidation("dir", fmt.Sprintf("Directory %s is not writable.", dir))
	}
	tmp.Close()
	os.Remove(tmp.Name())
	return nil
}

// ParseGitVersion extracts the version from git version output, e.g.
// "git version 2.39.3 (Apple Git-146)" or "git version 2.43.0.windows.1"
func ParseGitVersion(output string) (*semver.Version, error) {
	m := versionRegex.FindStringSubmatch(output)
	if m == nil {
		return nil, fmt.Errorf("unrecognized git version output %q", output)
	}
	patch := m[3]
	if patch == "" {
		patch = "0"
	}
	return semver.NewVersion(fmt.Sprintf("%s.%s.%s", m[1], m[2], patch))
}

// VersionReporter is satisfied by git.Repository
type VersionReporter interface {
	Version(ctx context.Context) (string, error)
}

// CheckGit runs git version and verifies it satisfies MinGitVersion
func CheckGit(ctx context.Context, git VersionReporter) (*semver.Version, error) {
	out, err := git.Version(ctx)
	if err != nil {
		return nil, fmt.Errorf("git is not available: %w", err)
	}

	v, err := ParseGitVersion(out)
	if err != nil {
		return nil, err
	}

	constraint, err := semver.NewConstraint(MinGitVersion)
	if err != nil {
		return nil, err
	}
	if !constraint.Check(v) {
		return v, fmt.Errorf("git %s is too old, need %s", v, MinGitVersion)
	}
	return v, nil
}
