// Package form asks the user for the publish fields in the terminal
package form

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/NicabarNimble/go-gitpublish/internal/config"
	"github.com/NicabarNimble/go-gitpublish/internal/publish"
)

// NewBranchLabel is shown for the sentinel option
const NewBranchLabel = "Create new branch…"

// Form collects a Submission from the user
type Form interface {
	Collect(ctx context.Context, defaults publish.Submission, options []string) (publish.Submission, error)
}

// HuhForm is a terminal form
type HuhForm struct {
	// Accessible switches to plain prompts for screen readers
	Accessible bool
	// RequireRemote makes the remote URL mandatory, for repositories without origin
	RequireRemote bool
	Input         io.Reader
	Output        io.Writer
}

// Collect implements Form
func (f *HuhForm) Collect(ctx context.Context, defaults publish.Submission, options []string) (publish.Submission, error) {
	sub := defaults
	if sub.BranchChoice == "" && len(options) > 0 {
		sub.BranchChoice = options[0]
	}

	remoteDescription := "Ignored when the repository already has an origin remote"
	if f.RequireRemote {
		remoteDescription = "The repository has no origin remote yet"
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Commit message").
				Placeholder(config.DefaultCommitMessage).
				Value(&sub.CommitMessage).
				Validate(ValidateCommitMessage),
			huh.NewInput().
				Title("Remote URL").
				Description(remoteDescription).
				Placeholder("https://github.com/you/project.git").
				Value(&sub.RemoteURL).
				Validate(remoteValidator(f.RequireRemote)),
			huh.NewSelect[string]().
				Title("Branch").
				Options(selectOptions(options)...).
				Value(&sub.BranchChoice),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("New branch name").
				Placeholder("feature/my-change").
				Value(&sub.NewBranchName).
				Validate(ValidateNewBranchName),
		).WithHideFunc(func() bool {
			return sub.BranchChoice != publish.NewBranchSentinel
		}),
	).WithAccessible(f.Accessible)

	if f.Input != nil {
		form = form.WithInput(f.Input)
	}
	if f.Output != nil {
		form = form.WithOutput(f.Output)
	}

	if err := form.RunWithContext(ctx); err != nil {
		return publish.Submission{}, err
	}
	if sub.BranchChoice != publish.NewBranchSentinel {
		sub.NewBranchName = ""
	}
	return sub, nil
}

func selectOptions(branches []string) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(branches))
	for _, b := range branches {
		label := b
		if b == publish.NewBranchSentinel {
			label = NewBranchLabel
		}
		opts = append(opts, huh.NewOption(label, b))
	}
	return opts
}

// BranchOptions builds the branch select: the current branch first, then
// configured choices, then local branches, without duplicates, and the
// new-branch sentinel last
func BranchOptions(current string, configured, local []string) []string {
	seen := map[string]bool{publish.NewBranchSentinel: true}
	var opts []string
	add := func(b string) {
		b = strings.TrimSpace(b)
		if b == "" || seen[b] {
			return
		}
		seen[b] = true
		opts = append(opts, b)
	}

	add(current)
	for _, b := range configured {
		add(b)
	}
	for _, b := range local {
		add(b)
	}
	return append(opts, publish.NewBranchSentinel)
}

// ValidateCommitMessage requires a non-blank message
func ValidateCommitMessage(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("commit message is required")
	}
	return nil
}

// ValidateNewBranchName requires a usable branch name
func ValidateNewBranchName(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New(publish.MsgNewBranchRequired)
	}
	return config.ValidateBranchName(strings.TrimSpace(s))
}

func remoteValidator(required bool) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			if required {
				return errors.New("remote URL is required")
			}
			return nil
		}
		if strings.ContainsAny(s, " \t\n") {
			return errors.New("remote URL must not contain whitespace")
		}
		return nil
	}
}
