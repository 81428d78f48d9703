package github

import (
	"fmt"
	"strings"
)

// OAuth scopes that allow creating repositories
const (
	ScopeRepo       = "repo"
	ScopePublicRepo = "public_repo"
)

// ScopeError reports a classic token lacking the scope an operation needs
type ScopeError struct {
	Missing []string
	Have    []string
}

func (e *ScopeError) Error() string {
	have := "none"
	if len(e.Have) > 0 {
		have = strings.Join(e.Have, ", ")
	}
	return fmt.Sprintf("missing required scopes: %s (token has: %s)", strings.Join(e.Missing, " or "), have)
}

// checkCreateScopes verifies a classic token may create a repository with
// the given visibility. Fine-grained tokens are left to the API to reject.
func (c *Client) checkCreateScopes(private bool) error {
	if c.fineGrained {
		return nil
	}
	accepted := []string{ScopeRepo}
	if !private {
		accepted = append(accepted, ScopePublicRepo)
	}
	for _, have := range c.scopes {
		for _, want := range accepted {
			if have == want {
				return nil
			}
		}
	}
	return &ScopeError{Missing: accepted, Have: c.Scopes()}
}
