// Package git provides the git operations used to publish a working directory.
//
// Mutating operations always shell out to the git executable with the target
// directory as the working directory, so the repository ends up exactly as the
// user's own git would leave it. Read-only inspection used to build prompts and
// reports (local branches, current branch, remote URLs) goes through go-git.
//
// Key Components:
//
// Runner: executes one git command and captures its output. ExecRunner is
// the real implementation; tests substitute their own.
//
// Repository: binds a Runner to a directory and exposes the fixed command set
// of the publish workflow (init, add, status, commit, remote, branch, push).
//
// Example Usage:
//
//	repo := git.NewRepository("/path/to/project", &git.ExecRunner{})
//	if err := repo.StageAll(ctx); err != nil {
//	    log.Printf("nothing to stage: %v", err)
//	}
//	dirty, err := repo.HasPendingChanges(ctx)
//
// Error Handling:
//
// Failed commands return *errors.CommandError carrying git's captured stderr
// and stdout. Its Error method yields the captured text unchanged.
//
// Thread Safety:
//
// Git operations are not guaranteed to be thread-safe.
// Callers should ensure proper synchronization when operating
// on the same repository from multiple goroutines.
package git
