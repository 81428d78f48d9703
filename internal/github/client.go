// Package github creates the GitHub repository a directory is published
// to, when asked to, and reports the URL to use as its origin remote.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"

	"github.com/NicabarNimble/go-gitpublish/internal/token"
)

const userAgent = "go-gitpublish"

// Client handles GitHub API operations
type Client struct {
	gh          *github.Client
	login       string
	scopes      []string
	fineGrained bool
}

// NewClient creates a client authenticated with tok. baseURL overrides the
// API endpoint (GitHub Enterprise, tests) and may be empty. The token is
// verified by fetching the authenticated user.
func NewClient(ctx context.Context, tok token.Token, baseURL string) (*Client, error) {
	if tok.Value == "" {
		return nil, token.ErrTokenInvalid
	}
	if token.IsExpired(tok) {
		return nil, token.ErrTokenExpired
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: tok.Value})
	gh := github.NewClient(oauth2.NewClient(ctx, ts))
	gh.UserAgent = userAgent
	if baseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", baseURL, err)
		}
		gh.BaseURL = u
	}

	c := &Client{gh: gh}
	if err := c.verify(ctx); err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}
	return c, nil
}

// verify fetches the authenticated user and the scopes GitHub reports for
// the token. Fine-grained tokens report no scopes.
func (c *Client) verify(ctx context.Context) error {
	user, resp, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: GitHub rejected the token", token.ErrTokenInvalid)
		}
		return err
	}
	c.login = user.GetLogin()

	header := resp.Header.Get("X-OAuth-Scopes")
	c.fineGrained = header == ""
	for _, s := range strings.Split(header, ",") {
		if s = strings.TrimSpace(s); s != "" {
			c.scopes = append(c.scopes, s)
		}
	}
	return nil
}

// Login returns the authenticated user's login
func (c *Client) Login() string {
	return c.login
}

// Scopes returns the OAuth scopes of a classic token
func (c *Client) Scopes() []string {
	return append([]string(nil), c.scopes...)
}
