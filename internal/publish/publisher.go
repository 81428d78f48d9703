package publish

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NicabarNimble/go-gitpublish/internal/errors"
	"github.com/NicabarNimble/go-gitpublish/internal/notify"
	"github.com/NicabarNimble/go-gitpublish/internal/preflight"
	"github.com/NicabarNimble/go-gitpublish/internal/progress"
	"github.com/NicabarNimble/go-gitpublish/internal/urlutils"
)

// RemoteName is the remote every publish pushes to
const RemoteName = "origin"

// Repository is the set of git operations a publish needs. git.Repository
// implements it.
type Repository interface {
	HasMetadata() (bool, error)
	Init(ctx context.Context) error
	StageAll(ctx context.Context) error
	HasPendingChanges(ctx context.Context) (bool, error)
	Commit(ctx context.Context, message string) error
	HasRemote(ctx context.Context, name string) (bool, error)
	AddRemote(ctx context.Context, name, url string) error
	ForceRenameBranch(ctx context.Context, name string) error
	PushUpstream(ctx context.Context, remote, branch string) error
}

// Options configures a Publisher
type Options struct {
	// Dir is the working directory to publish
	Dir  string
	Repo Repository
	// Notifier receives short status messages, discarded when nil
	Notifier notify.Notifier
	// Tracker follows the workflow steps, discarded when nil
	Tracker progress.Tracker
	Logger  *zap.SugaredLogger
	// LogOutput mirrors the progress log as lines are added
	LogOutput io.Writer
}

// Publisher runs the publish workflow
type Publisher struct {
	dir      string
	repo     Repository
	notifier notify.Notifier
	tracker  progress.Tracker
	logger   *zap.SugaredLogger
	out      io.Writer
}

// New creates a Publisher
func New(opts Options) *Publisher {
	p := &Publisher{
		dir:      opts.Dir,
		repo:     opts.Repo,
		notifier: opts.Notifier,
		tracker:  opts.Tracker,
		logger:   opts.Logger,
		out:      opts.LogOutput,
	}
	if p.notifier == nil {
		p.notifier = notify.Multi{}
	}
	if p.tracker == nil {
		p.tracker = progress.NopTracker{}
	}
	if p.logger == nil {
		p.logger = zap.NewNop().Sugar()
	}
	return p
}

// Result describes one publish run. It is returned on failure too, with
// the progress log up to the failing step.
type Result struct {
	RunID       string        `json:"runId"`
	Dir         string        `json:"dir"`
	Branch      string        `json:"branch,omitempty"`
	Initialized bool          `json:"initialized"`
	Committed   bool          `json:"committed"`
	RemoteAdded bool          `json:"remoteAdded"`
	Pushed      bool          `json:"pushed"`
	Duration    time.Duration `json:"duration"`
	Log         []string      `json:"log"`
	Error       string        `json:"error,omitempty"`
}

const totalSteps = 6

// run holds the state of a single Publish call
type run struct {
	*Publisher
	ctx    context.Context
	log    *progress.Log
	logger *zap.SugaredLogger
	result *Result
	step   int64
}

// Publish validates sub and runs the workflow against the directory
func (p *Publisher) Publish(ctx context.Context, sub Submission) (*Result, error) {
	start := time.Now()
	r := &run{
		Publisher: p,
		ctx:       ctx,
		log:       progress.NewLog(p.out),
		result:    &Result{RunID: uuid.NewString(), Dir: p.dir},
	}
	r.logger = p.logger.With("run", r.result.RunID)

	err := r.execute(sub)
	r.result.Duration = time.Since(start)
	r.result.Log = r.log.Lines()
	if err != nil {
		r.result.Error = Message(err)
		r.fail(err)
		return r.result, err
	}
	return r.result, nil
}

// Validate resolves sub and checks the target directory without running
// anything. Publish fails with the same error before its first step.
func (p *Publisher) Validate(sub Submission) (Request, error) {
	req, err := Resolve(sub)
	if err != nil {
		return Request{}, err
	}
	if err := preflight.CheckDirectory(p.dir); err != nil {
		return Request{}, err
	}
	return req, nil
}

func (r *run) execute(sub Submission) error {
	req, err := r.Validate(sub)
	if err != nil {
		return err
	}
	r.result.Branch = req.BranchName
	r.logger.Debugw("publish started", "dir", r.dir, "branch", req.BranchName)

	steps := []struct {
		name string
		fn   func(Request) error
	}{
		{"Initializing repository", r.ensureRepository},
		{"Staging changes", r.stage},
		{"Committing", r.commit},
		{"Configuring remote", r.ensureRemote},
		{"Setting branch", r.setBranch},
		{"Pushing", r.push},
	}
	for _, s := range steps {
		if err := r.ctx.Err(); err != nil {
			return err
		}
		r.step++
		r.tracker.Start(s.name)
		r.tracker.Update(r.step, totalSteps)
		if err := s.fn(req); err != nil {
			r.tracker.Error(err)
			return err
		}
		r.tracker.Complete()
	}

	r.notifier.Notify(notify.Success, "Code pushed!")
	r.logger.Infow("publish finished", "branch", req.BranchName)
	return nil
}

func (r *run) ensureRepository(Request) error {
	exists, err := r.repo.HasMetadata()
	if err != nil {
		return errors.New(errors.OpInit, err)
	}
	if exists {
		r.log.Append("Git already initialized.")
		return nil
	}
	if err := r.repo.Init(r.ctx); err != nil {
		return errors.New(errors.OpInit, err)
	}
	r.result.Initialized = true
	r.log.Append("Git initialized.")
	r.notifier.Notify(notify.Info, "Git initialized.")
	return nil
}

func (r *run) stage(Request) error {
	if err := r.repo.StageAll(r.ctx); err != nil {
		if r.ctx.Err() != nil {
			return r.ctx.Err()
		}
		r.logger.Debugw("staging failed, continuing", "error", err)
		r.log.Append("Nothing to stage.")
		return nil
	}
	r.log.Append("Files staged.")
	return nil
}

func (r *run) commit(req Request) error {
	pending, err := r.repo.HasPendingChanges(r.ctx)
	if err != nil {
		return errors.New(errors.OpStatus, err)
	}
	if !pending {
		r.log.Append("No changes to commit.")
		r.notifier.Notify(notify.Warning, "Nothing to commit.")
		return nil
	}
	if strings.TrimSpace(req.CommitMessage) == "" {
		return errors.New(errors.OpCommit, errors.NewValidation("message", MsgCommitMessageRequired))
	}
	if err := r.repo.Commit(r.ctx, req.CommitMessage); err != nil {
		return errors.New(errors.OpCommit, err)
	}
	r.result.Committed = true
	r.log.Append("Files committed.")
	r.notifier.Notify(notify.Info, "Commit created.")
	return nil
}

func (r *run) ensureRemote(req Request) error {
	exists, err := r.repo.HasRemote(r.ctx, RemoteName)
	if err != nil {
		return errors.New(errors.OpRemote, err)
	}
	if exists {
		r.log.Append("Remote origin already exists.")
		return nil
	}
	if req.RemoteURL == "" {
		return errors.New(errors.OpRemote, errors.NewValidation("remote", MsgRemoteURLRequired))
	}
	if err := r.repo.AddRemote(r.ctx, RemoteName, req.RemoteURL); err != nil {
		return errors.New(errors.OpRemote, err)
	}
	r.result.RemoteAdded = true
	r.log.Appendf("Remote origin added: %s", urlutils.Redact(req.RemoteURL))
	r.notifier.Notify(notify.Info, "Remote added.")
	return nil
}

func (r *run) setBranch(req Request) error {
	if err := r.repo.ForceRenameBranch(r.ctx, req.BranchName); err != nil {
		return errors.New(errors.OpBranch, err)
	}
	r.log.Appendf("Branch set to %s.", req.BranchName)
	return nil
}

func (r *run) push(req Request) error {
	if err := r.repo.PushUpstream(r.ctx, RemoteName, req.BranchName); err != nil {
		return errors.New(errors.OpPush, err)
	}
	r.result.Pushed = true
	r.log.Appendf("Code pushed to %s", req.BranchName)
	return nil
}

// fail reports err with one error notification. Input rejected before the
// first step only gets the bare message; anything later is also logged as
// "Error: <captured text>".
func (r *run) fail(err error) {
	text := Message(err)
	if r.step == 0 && stderrors.Is(err, errors.ErrValidation) {
		r.logger.Debugw("publish rejected", "error", err)
		r.notifier.Notify(notify.Error, text)
		return
	}

	r.log.Append("Error: " + text)
	r.result.Log = r.log.Lines()
	text = "Error: " + text
	if hint := errors.Hint(errors.Classify(err)); hint != "" {
		text += "\n" + hint
	}
	r.logger.Debugw("publish failed", "step", r.step, "error", err)
	r.notifier.Notify(notify.Error, text)
}

// Message returns the text to show for err: the validation message, the
// captured git output, or the error itself
func Message(err error) string {
	var verr *errors.ValidationError
	if stderrors.As(err, &verr) {
		return verr.Message
	}
	var cmdErr *errors.CommandError
	if stderrors.As(err, &cmdErr) {
		return cmdErr.Error()
	}
	if stderrors.Is(err, context.Canceled) {
		return "cancelled"
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return "timed out"
	}
	return err.Error()
}

// String renders a short summary of the result
func (r *Result) String() string {
	status := "pushed"
	if !r.Pushed {
		status = "not pushed"
	}
	return fmt.Sprintf("%s %s (run %s)", r.Dir, status, r.RunID)
}
