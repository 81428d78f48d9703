// Package publish turns a working directory into a published repository:
// init, stage, commit, add origin, force the branch name and push with
// upstream tracking. Steps that find their work already done are skipped,
// so running it again on a published directory pushes again and nothing
// else.
package publish

import (
	"strings"

	"github.com/NicabarNimble/go-gitpublish/internal/config"
	"github.com/NicabarNimble/go-gitpublish/internal/errors"
)

// NewBranchSentinel is the branch choice meaning "use NewBranchName".
// A colon is not allowed in git ref names, so no real branch can share it.
const NewBranchSentinel = ":new"

// Validation messages shown to the user
const (
	MsgNewBranchRequired     = "Please provide a name for the new branch."
	MsgBranchRequired        = "Please choose a branch."
	MsgCommitMessageRequired = "Please provide a commit message."
	MsgRemoteURLRequired     = "Please provide a remote URL: the repository has no origin remote."
	MsgRemoteURLInvalid      = "The remote URL must not start with '-'."
)

// Submission is what the user filled in, before the branch choice is resolved
type Submission struct {
	CommitMessage string `json:"commitMessage"`
	RemoteURL     string `json:"remoteUrl,omitempty"`
	BranchChoice  string `json:"branchChoice"`
	NewBranchName string `json:"newBranchName,omitempty"`
}

// Request is a resolved Submission. BranchName is never the sentinel.
type Request struct {
	CommitMessage string
	RemoteURL     string
	BranchName    string
}

// Resolve validates sub and replaces the sentinel with the new branch name
func Resolve(sub Submission) (Request, error) {
	var branch string
	switch sub.BranchChoice {
	case "":
		return Request{}, errors.NewValidation("branch", MsgBranchRequired)
	case NewBranchSentinel:
		branch = strings.TrimSpace(sub.NewBranchName)
		if branch == "" {
			return Request{}, errors.NewValidation("newBranch", MsgNewBranchRequired)
		}
	default:
		branch = sub.BranchChoice
	}

	if err := config.ValidateBranchName(branch); err != nil {
		return Request{}, err
	}
	remote := strings.TrimSpace(sub.RemoteURL)
	if strings.HasPrefix(remote, "-") {
		return Request{}, errors.NewValidation("remote", MsgRemoteURLInvalid)
	}

	return Request{
		CommitMessage: sub.CommitMessage,
		RemoteURL:     remote,
		BranchName:    branch,
	}, nil
}
