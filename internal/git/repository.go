package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/NicabarNimble/go-gitpublish/internal/errors"
)

// MetadataDir is the directory git keeps history and configuration in
const MetadataDir = ".git"

// Repository runs the publish command set against one working directory
type Repository struct {
	dir    string
	runner Runner
}

// NewRepository binds runner to dir. A nil runner means an ExecRunner with defaults.
func NewRepository(dir string, runner Runner) *Repository {
	if runner == nil {
		runner = &ExecRunner{}
	}
	return &Repository{dir: dir, runner: runner}
}

// Dir returns the working directory
func (r *Repository) Dir() string {
	return r.dir
}

func (r *Repository) run(ctx context.Context, args ...string) (string, error) {
	return r.runner.Run(ctx, r.dir, args...)
}

// HasMetadata reports whether the metadata directory exists in the working directory
func (r *Repository) HasMetadata() (bool, error) {
	_, err := os.Stat(filepath.Join(r.dir, MetadataDir))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check for %s: %w", MetadataDir, err)
}

// Init creates a new repository
func (r *Repository) Init(ctx context.Context) error {
	_, err := r.run(ctx, "init")
	return err
}

// StageAll stages every working tree change, including deletions and untracked files
func (r *Repository) StageAll(ctx context.Context) error {
	_, err := r.run(ctx, "add", "-A")
	return err
}

// HasPendingChanges reports whether status lists anything
func (r *Repository) HasPendingChanges(ctx context.Context) (bool, error) {
	out, err := r.run(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// Commit records the staged changes with message as given
func (r *Repository) Commit(ctx context.Context, message string) error {
	_, err := r.run(ctx, "commit", "-m", message)
	return err
}

// Remotes lists configured remote names
func (r *Repository) Remotes(ctx context.Context) ([]string, error) {
	out, err := r.run(ctx, "remote")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, line := range strings.Split(out, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// HasRemote reports whether a remote with exactly this name is configured
func (r *Repository) HasRemote(ctx context.Context, name string) (bool, error) {
	names, err := r.Remotes(ctx)
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// AddRemote configures a new remote. A url starting with '-' would be read
// as an option and is refused.
func (r *Repository) AddRemote(ctx context.Context, name, url string) error {
	if strings.HasPrefix(url, "-") {
		return errors.NewValidation("remote", fmt.Sprintf("invalid remote URL %q", url))
	}
	_, err := r.run(ctx, "remote", "add", name, url)
	return err
}

// ForceRenameBranch renames the current branch to name, replacing any branch already called name
func (r *Repository) ForceRenameBranch(ctx context.Context, name string) error {
	_, err := r.run(ctx, "branch", "-M", name)
	return err
}

// PushUpstream pushes branch to remote and records it as the upstream
func (r *Repository) PushUpstream(ctx context.Context, remote, branch string) error {
	_, err := r.run(ctx, "push", "-u", remote, branch)
	return err
}

// Version returns the output of git version
func (r *Repository) Version(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
