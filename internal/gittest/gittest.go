// Package gittest holds helpers for tests that drive a real git binary
// against throwaway repositories.
package gittest

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// Env is the environment used for git in tests: a fixed identity, no user
// or system configuration and main as the initial branch.
func Env(home string) []string {
	return []string{
		"HOME=" + home,
		"GIT_AUTHOR_NAME=test",
		"GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=test",
		"GIT_COMMITTER_EMAIL=test@example.com",
		"GIT_CONFIG_GLOBAL=" + os.DevNull,
		"GIT_CONFIG_NOSYSTEM=1",
		"GIT_CONFIG_COUNT=1",
		"GIT_CONFIG_KEY_0=init.defaultBranch",
		"GIT_CONFIG_VALUE_0=main",
		"GIT_TERMINAL_PROMPT=0",
	}
}

// Isolate skips the test when git is unavailable and points the process
// environment at Env for the rest of the test.
func Isolate(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	for _, kv := range Env(t.TempDir()) {
		k, v, _ := strings.Cut(kv, "=")
		t.Setenv(k, v)
	}
}

// Run executes git in dir and returns its trimmed stdout, failing the test on error
func Run(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		stderr := ""
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = string(exitErr.Stderr)
		}
		t.Fatalf("git %v failed: %v\n%s", args, err, stderr)
	}
	return strings.TrimSpace(string(out))
}

// NewBareRemote creates a bare repository usable as a push target
func NewBareRemote(t *testing.T) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "remote.git")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create remote directory: %v", err)
	}
	Run(t, dir, "init", "--bare")
	return dir
}

// NewWorkDir creates a plain directory holding the given files
func NewWorkDir(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "project")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create test directory: %v", err)
	}
	for name, content := range files {
		WriteFile(t, dir, name, content)
	}
	return dir
}

// WriteFile writes content to dir/name, creating parent directories
func WriteFile(t *testing.T, dir, name, content string) {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", name, err)
	}
}

// SetupRepo creates a repository on branch main with one commit
func SetupRepo(t *testing.T) string {
	t.Helper()

	dir := NewWorkDir(t, map[string]string{"test.txt": "test content"})
	Run(t, dir, "init")
	Run(t, dir, "symbolic-ref", "HEAD", "refs/heads/main")
	AddCommit(t, dir, "test.txt", "test content", "Initial commit")
	return dir
}

// CreateBranch creates and checks out a new branch
func CreateBranch(t *testing.T, repoPath, branchName string) {
	t.Helper()

	Run(t, repoPath, "checkout", "-b", branchName)
}

// AddCommit writes a file and commits it
func AddCommit(t *testing.T, repoPath, fileName, content, message string) {
	t.Helper()

	WriteFile(t, repoPath, fileName, content)
	Run(t, repoPath, "add", fileName)
	Run(t, repoPath, "commit", "-m", message)
}

// Head returns the commit a ref points to in repo (bare or not)
func Head(t *testing.T, repo, ref string) string {
	t.Helper()

	return Run(t, repo, "rev-parse", "--verify", ref)
}
