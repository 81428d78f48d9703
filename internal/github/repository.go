package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v68/github"
)

// RepoOptions describes the repository to ensure
type RepoOptions struct {
	// Name is "repo" for the authenticated user or "owner/repo" for an organization
	Name        string
	Description string
	Private     bool
}

// Repository is the part of a GitHub repository a publish needs
type Repository struct {
	Owner    string
	Name     string
	CloneURL string
	SSHURL   string
	HTMLURL  string
	Private  bool
}

func fromAPI(r *github.Repository) *Repository {
	return &Repository{
		Owner:    r.GetOwner().GetLogin(),
		Name:     r.GetName(),
		CloneURL: r.GetCloneURL(),
		SSHURL:   r.GetSSHURL(),
		HTMLURL:  r.GetHTMLURL(),
		Private:  r.GetPrivate(),
	}
}

// ParseRepo splits "owner/repo" or "repo" into owner and repo. The owner
// is empty when not given.
func ParseRepo(repoString string) (owner, repo string, err error) {
	parts := strings.Split(strings.TrimSpace(repoString), "/")
	switch {
	case len(parts) == 1 && parts[0] != "":
		return "", parts[0], nil
	case len(parts) == 2 && parts[0] != "" && parts[1] != "":
		return parts[0], parts[1], nil
	default:
		return "", "", fmt.Errorf("invalid repository format: %q (expected repo or owner/repo)", repoString)
	}
}

// EnsureRepository returns the repository named in opts, creating it when
// it does not exist. created reports whether it was created by this call.
func (c *Client) EnsureRepository(ctx context.Context, opts RepoOptions) (repo *Repository, created bool, err error) {
	owner, name, err := ParseRepo(opts.Name)
	if err != nil {
		return nil, false, err
	}
	if owner == "" {
		owner = c.login
	}

	existing, resp, err := c.gh.Repositories.Get(ctx, owner, name)
	if err == nil {
		return fromAPI(existing), false, nil
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		return nil, false, fmt.Errorf("failed to look up %s/%s: %w", owner, name, err)
	}

	if err := c.checkCreateScopes(opts.Private); err != nil {
		return nil, false, err
	}

	// an empty org creates the repository for the authenticated user
	org := ""
	if !strings.EqualFold(owner, c.login) {
		org = owner
	}
	newRepo, _, err := c.gh.Repositories.Create(ctx, org, &github.Repository{
		Name:        github.Ptr(name),
		Description: github.Ptr(opts.Description),
		Private:     github.Ptr(opts.Private),
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to create %s/%s: %w", owner, name, err)
	}
	return fromAPI(newRepo), true, nil
}
