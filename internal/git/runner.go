package git

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/exec"
	"time"

	"go.uber.org/zap"

	"github.com/NicabarNimble/go-gitpublish/internal/errors"
)

// Runner executes a single git command in dir and returns its stdout
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// ExecRunner runs the git executable as a subprocess
type ExecRunner struct {
	// Binary is the executable to run, "git" when empty
	Binary string
	// Env is appended to the inherited environment
	Env []string
	// AllowPrompt lets git ask for credentials on the terminal
	AllowPrompt bool
	// Stream, when set, receives git's stderr line by line as it is produced
	Stream io.Writer
	Logger *zap.SugaredLogger
}

// Run implements Runner
func (r *ExecRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	binary := r.Binary
	if binary == "" {
		binary = "git"
	}
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = dir
	cmd.Env = os.Environ()
	if !r.AllowPrompt {
		cmd.Env = append(cmd.Env, "GIT_TERMINAL_PROMPT=0")
	}
	cmd.Env = append(cmd.Env, r.Env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	var progress *progressWriter
	if r.Stream != nil {
		progress = newProgressWriter("   ", r.Stream)
		cmd.Stderr = io.MultiWriter(&stderr, progress)
	}

	start := time.Now()
	err := cmd.Run()
	if progress != nil {
		progress.Flush()
	}
	logger.Debugw("git command finished",
		"args", args,
		"dir", dir,
		"duration", time.Since(start),
		"error", err,
	)
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return stdout.String(), errors.NewCommandError(args, stdout.String(), stderr.String(), exitCode, err)
	}
	return stdout.String(), nil
}
