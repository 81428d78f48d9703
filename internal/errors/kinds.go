package errors

import (
	stderrors "errors"
	"strings"
)

// Kind classifies a failed git command by the text it printed
type Kind string

const (
	KindUnknown            Kind = "unknown"
	KindRepositoryNotFound Kind = "repository-not-found"
	KindAuthentication     Kind = "authentication"
	KindNetwork            Kind = "network"
	KindRejected           Kind = "rejected"
)

var kindPatterns = []struct {
	kind     Kind
	patterns []string
}{
	{KindAuthentication, []string{
		"authentication failed",
		"permission denied",
		"could not read username",
		"invalid username or password",
		"terminal prompts disabled",
		"403",
	}},
	{KindRepositoryNotFound, []string{
		"repository not found",
		"does not appear to be a git repository",
		"not found",
	}},
	{KindNetwork, []string{
		"could not resolve host",
		"connection refused",
		"connection timed out",
		"network is unreachable",
		"failed to connect",
		"unable to access",
	}},
	{KindRejected, []string{
		"[rejected]",
		"non-fast-forward",
		"fetch first",
		"merge conflict",
		"failed to push some refs",
	}},
}

// Classify inspects the captured output of a CommandError and returns its
// Kind. Errors that carry no command output are KindUnknown.
func Classify(err error) Kind {
	var cmdErr *CommandError
	if !stderrors.As(err, &cmdErr) {
		return KindUnknown
	}
	text := strings.ToLower(cmdErr.Stderr + "\n" + cmdErr.Stdout)
	for _, kp := range kindPatterns {
		for _, p := range kp.patterns {
			if strings.Contains(text, p) {
				return kp.kind
			}
		}
	}
	return KindUnknown
}

// Hint returns a short suggestion for the given Kind, or "" when none applies
func Hint(k Kind) string {
	switch k {
	case KindAuthentication:
		return "check your credentials or access rights for the remote"
	case KindRepositoryNotFound:
		return "check that the remote URL points to an existing repository"
	case KindNetwork:
		return "check your network connection and the remote host name"
	case KindRejected:
		return "the remote has commits you do not have locally; pull or fetch first"
	}
	return ""
}
