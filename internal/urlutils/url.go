// Package urlutils handles git remote URLs: it hides credentials before a
// URL is logged and extracts owner and repository from GitHub remotes.
package urlutils

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	// ErrInvalidURL indicates that the provided URL is not valid
	ErrInvalidURL = errors.New("invalid URL format")

	// ErrInvalidHost indicates that the host is not a valid GitHub instance
	ErrInvalidHost = errors.New("invalid GitHub host")

	// ErrInvalidPath indicates that the URL path is not a valid repository path
	ErrInvalidPath = errors.New("invalid repository path")

	ownerRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	repoRegex  = regexp.MustCompile(`^[a-zA-Z0-9_.-]{1,100}$`)

	// user@host:path, the scp-like syntax git accepts for ssh
	scpRegex = regexp.MustCompile(`^(?:[^@/]+@)?([^:/]+):(.+)$`)
)

const redacted = "***"

// Redact hides credentials in a remote URL. For URLs with a scheme the
// whole userinfo is replaced, since a lone username is often a token.
// scp-like ssh addresses and local paths carry no secrets and are
// returned unchanged.
func Redact(rawURL string) string {
	if !strings.Contains(rawURL, "://") {
		return rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		// unparseable: drop everything between scheme and the last @ of the authority
		scheme, rest, _ := strings.Cut(rawURL, "://")
		authority, path, _ := strings.Cut(rest, "/")
		if i := strings.LastIndex(authority, "@"); i >= 0 {
			authority = redacted + authority[i:]
		}
		if path != "" {
			return scheme + "://" + authority + "/" + path
		}
		return scheme + "://" + authority
	}
	if u.User == nil {
		return rawURL
	}
	u.User = url.User(redacted)
	// url.String escapes the asterisks
	return strings.Replace(u.String(), url.User(redacted).String(), redacted, 1)
}

// ParseGitHubURL returns owner and repository of a GitHub remote given as
// https://github.com/owner/repo(.git), ssh://git@github.com/owner/repo(.git)
// or git@github.com:owner/repo(.git)
func ParseGitHubURL(rawURL string) (owner, repo string, err error) {
	var host, path string

	switch {
	case strings.Contains(rawURL, "://"):
		u, perr := url.Parse(rawURL)
		if perr != nil {
			return "", "", fmt.Errorf("%w: %v", ErrInvalidURL, perr)
		}
		if u.Scheme != "https" && u.Scheme != "ssh" {
			return "", "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
		}
		host, path = u.Hostname(), u.Path
	default:
		m := scpRegex.FindStringSubmatch(rawURL)
		if m == nil {
			return "", "", ErrInvalidURL
		}
		host, path = m[1], m[2]
	}

	if !isValidGitHubHost(host) {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidHost, host)
	}

	parts := strings.Split(strings.Trim(strings.TrimSuffix(strings.Trim(path, "/"), ".git"), "/"), "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: URL must include owner and repository", ErrInvalidPath)
	}
	if !ownerRegex.MatchString(parts[0]) {
		return "", "", fmt.Errorf("%w: invalid owner name format", ErrInvalidPath)
	}
	if !repoRegex.MatchString(parts[1]) {
		return "", "", fmt.Errorf("%w: invalid repository name format", ErrInvalidPath)
	}
	return parts[0], parts[1], nil
}

// IsGitHubURL reports whether rawURL points at a repository on GitHub
func IsGitHubURL(rawURL string) bool {
	_, _, err := ParseGitHubURL(rawURL)
	return err == nil
}

// isValidGitHubHost accepts github.com and GitHub Enterprise Cloud subdomains
func isValidGitHubHost(host string) bool {
	return host == "github.com" || strings.HasSuffix(host, ".github.com")
}
