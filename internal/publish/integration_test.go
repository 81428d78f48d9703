package publish_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NicabarNimble/go-gitpublish/internal/git"
	"github.com/NicabarNimble/go-gitpublish/internal/gittest"
	"github.com/NicabarNimble/go-gitpublish/internal/notify"
	"github.com/NicabarNimble/go-gitpublish/internal/publish"
)

func publishDir(t *testing.T, dir string, sub publish.Submission) (*publish.Result, *notify.Recorder, error) {
	t.Helper()
	rec := &notify.Recorder{}
	p := publish.New(publish.Options{
		Dir:      dir,
		Repo:     git.NewRepository(dir, &git.ExecRunner{}),
		Notifier: rec,
	})
	result, err := p.Publish(context.Background(), sub)
	return result, rec, err
}

func TestPublishEmptyDirectoryEndToEnd(t *testing.T) {
	gittest.Isolate(t)

	remote := gittest.NewBareRemote(t)
	dir := gittest.NewWorkDir(t, map[string]string{"main.go": "package main\n"})

	result, rec, err := publishDir(t, dir, publish.Submission{
		CommitMessage: "Initial commit",
		RemoteURL:     remote,
		BranchChoice:  "main",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Git initialized.",
		"Files staged.",
		"Files committed.",
		"Remote origin added: " + remote,
		"Branch set to main.",
		"Code pushed to main",
	}, result.Log)
	assert.Equal(t, 1, rec.Count(notify.Success))

	assert.DirExists(t, filepath.Join(dir, ".git"))
	assert.Equal(t, gittest.Head(t, dir, "HEAD"), gittest.Head(t, remote, "refs/heads/main"))
	assert.Equal(t, "origin/main", gittest.Run(t, dir, "rev-parse", "--abbrev-ref", "main@{upstream}"))
}

func TestPublishTwiceIsIdempotent(t *testing.T) {
	gittest.Isolate(t)

	remote := gittest.NewBareRemote(t)
	dir := gittest.NewWorkDir(t, map[string]string{"README.md": "hello\n"})
	sub := publish.Submission{CommitMessage: "Initial commit", RemoteURL: remote, BranchChoice: "main"}

	first, _, err := publishDir(t, dir, sub)
	require.NoError(t, err)
	head := gittest.Head(t, remote, "refs/heads/main")

	second, rec, err := publishDir(t, dir, sub)
	require.NoError(t, err)

	assert.True(t, first.Committed)
	assert.False(t, second.Initialized)
	assert.False(t, second.Committed)
	assert.False(t, second.RemoteAdded)
	assert.True(t, second.Pushed)
	assert.Contains(t, second.Log, "No changes to commit.")
	assert.Contains(t, second.Log, "Remote origin already exists.")
	assert.Equal(t, 1, rec.Count(notify.Warning))
	assert.Equal(t, head, gittest.Head(t, remote, "refs/heads/main"))
}

func TestPublishExistingOriginKeepsURL(t *testing.T) {
	gittest.Isolate(t)

	remote := gittest.NewBareRemote(t)
	dir := gittest.SetupRepo(t)
	gittest.Run(t, dir, "remote", "add", "origin", remote)

	_, _, err := publishDir(t, dir, publish.Submission{
		CommitMessage: "unused",
		RemoteURL:     "https://example.com/somewhere-else.git",
		BranchChoice:  "main",
	})
	require.NoError(t, err)

	assert.Equal(t, remote, gittest.Run(t, dir, "remote", "get-url", "origin"))
	assert.Equal(t, gittest.Head(t, dir, "HEAD"), gittest.Head(t, remote, "refs/heads/main"))
}

func TestPublishRenamesBranch(t *testing.T) {
	gittest.Isolate(t)

	remote := gittest.NewBareRemote(t)
	dir := gittest.SetupRepo(t)
	gittest.WriteFile(t, dir, "new.txt", "more")

	result, _, err := publishDir(t, dir, publish.Submission{
		CommitMessage: "second\n\nwith \"quotes\" and $VARS",
		RemoteURL:     remote,
		BranchChoice:  publish.NewBranchSentinel,
		NewBranchName: "release",
	})
	require.NoError(t, err)
	assert.True(t, result.Committed)

	assert.Equal(t, "release", gittest.Run(t, dir, "rev-parse", "--abbrev-ref", "HEAD"))
	assert.Equal(t, "second\n\nwith \"quotes\" and $VARS", gittest.Run(t, dir, "log", "-1", "--format=%B"))
	assert.Equal(t, gittest.Head(t, dir, "HEAD"), gittest.Head(t, remote, "refs/heads/release"))
}

func TestPublishPushFailureKeepsPartialLog(t *testing.T) {
	gittest.Isolate(t)

	dir := gittest.NewWorkDir(t, map[string]string{"a.txt": "a"})
	missing := filepath.Join(t.TempDir(), "missing.git")

	result, rec, err := publishDir(t, dir, publish.Submission{
		CommitMessage: "Initial commit",
		RemoteURL:     missing,
		BranchChoice:  "main",
	})
	require.Error(t, err)

	assert.Contains(t, result.Log, "Files committed.")
	assert.Contains(t, result.Log, "Branch set to main.")
	assert.Regexp(t, `^Error: .+`, result.Log[len(result.Log)-1])
	assert.False(t, result.Pushed)
	assert.Equal(t, 1, rec.Count(notify.Error))
	assert.Equal(t, 0, rec.Count(notify.Success))

	// the commit is not rolled back
	assert.NotEmpty(t, gittest.Head(t, dir, "HEAD"))
	_, statErr := os.Stat(missing)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPublishRejectedBeforeAnyCommand(t *testing.T) {
	gittest.Isolate(t)

	dir := gittest.NewWorkDir(t, map[string]string{"a.txt": "a"})
	_, rec, err := publishDir(t, dir, publish.Submission{
		CommitMessage: "Initial commit",
		RemoteURL:     "https://example.com/r.git",
		BranchChoice:  publish.NewBranchSentinel,
	})
	require.Error(t, err)

	assert.NoDirExists(t, filepath.Join(dir, ".git"))
	assert.Equal(t, []notify.Notification{{Level: notify.Error, Message: publish.MsgNewBranchRequired}}, rec.Notifications())
}
