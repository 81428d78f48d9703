package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/NicabarNimble/go-gitpublish/internal/config"
	"github.com/NicabarNimble/go-gitpublish/internal/form"
	"github.com/NicabarNimble/go-gitpublish/internal/git"
	"github.com/NicabarNimble/go-gitpublish/internal/github"
	"github.com/NicabarNimble/go-gitpublish/internal/logging"
	"github.com/NicabarNimble/go-gitpublish/internal/notify"
	"github.com/NicabarNimble/go-gitpublish/internal/progress"
	"github.com/NicabarNimble/go-gitpublish/internal/publish"
	"github.com/NicabarNimble/go-gitpublish/internal/token"
)

type publishOptions struct {
	message       string
	remote        string
	branch        string
	newBranch     string
	configPath    string
	noInput       bool
	accessible    bool
	timeout       time.Duration
	logLevel      string
	logFile       string
	verbose       bool
	githubRepo    string
	githubPrivate bool
	jsonOutput    bool

	stdin  io.Reader
	tokens token.Source
}

func newPublishCmd() *cobra.Command {
	opts := &publishOptions{}

	cmd := &cobra.Command{
		Use:   "gitpublish [dir]",
		Short: "Publish a directory as a git repository",
		Long: `Initialize, stage, commit, add the origin remote, set the branch name and push
with upstream tracking, in one go. Steps that are already done are skipped, so
running it again on a published directory just pushes again.

Without flags a form asks for the commit message, remote URL and branch when
the terminal is interactive. Defaults come from .gitpublish.yaml, .gitpublish.yml
or .gitpublish.json in the directory, or from --config.`,
		Example: `  gitpublish
  gitpublish ./project -m "Initial commit" -r git@github.com:you/project.git -b main
  gitpublish --new-branch feature/login --no-input
  gitpublish --github-repo project --github-private`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if opts.stdin == nil {
				opts.stdin = cmd.InOrStdin()
			}
			return runPublish(cmd.Context(), cmd, dir, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.message, "message", "m", "", "Commit message (default from config, \"Initial commit\")")
	f.StringVarP(&opts.remote, "remote", "r", "", "Remote URL for origin, used only when origin does not exist")
	f.StringVarP(&opts.branch, "branch", "b", "", "Branch to push (default from config, \"main\")")
	f.StringVar(&opts.newBranch, "new-branch", "", "Name of a new branch to push")
	f.StringVar(&opts.configPath, "config", "", "Configuration file (YAML or JSON)")
	f.BoolVar(&opts.noInput, "no-input", false, "Never show the interactive form")
	f.BoolVar(&opts.accessible, "accessible", false, "Use plain prompts suitable for screen readers")
	f.DurationVar(&opts.timeout, "timeout", 0, "Abort the run after this long (0 means no limit)")
	f.StringVar(&opts.logLevel, "log-level", "", "Diagnostic log level: debug, info, warn, error")
	f.StringVar(&opts.logFile, "log-file", "", "Write a debug log to this file")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Show git output and debug logging")
	f.StringVar(&opts.githubRepo, "github-repo", "", "Create this GitHub repository (repo or owner/repo) if missing and use it as origin")
	f.BoolVar(&opts.githubPrivate, "github-private", false, "Create the GitHub repository as private")
	f.BoolVar(&opts.jsonOutput, "json", false, "Print the result as JSON")

	return cmd
}

// applyFlags overrides configuration values with the flags that were set
func applyFlags(cmd *cobra.Command, cfg *config.PublishConfig, opts *publishOptions) {
	f := cmd.Flags()
	if f.Changed("message") {
		cfg.CommitMessage = opts.message
	}
	if f.Changed("remote") {
		cfg.RemoteURL = opts.remote
	}
	if f.Changed("branch") {
		cfg.Branch = opts.branch
	}
	if f.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if f.Changed("log-file") {
		cfg.Log.File = opts.logFile
	}
	if opts.verbose {
		cfg.Log.Level = "debug"
	}
	if f.Changed("github-repo") {
		cfg.GitHub.Repo = opts.githubRepo
	}
	if f.Changed("github-private") {
		cfg.GitHub.Private = opts.githubPrivate
	}
}

func submissionFrom(cfg *config.PublishConfig, opts *publishOptions) publish.Submission {
	sub := publish.Submission{
		CommitMessage: cfg.CommitMessage,
		RemoteURL:     cfg.RemoteURL,
		BranchChoice:  cfg.Branch,
	}
	if opts.newBranch != "" {
		sub.BranchChoice = publish.NewBranchSentinel
		sub.NewBranchName = opts.newBranch
	}
	return sub
}

func isInteractive(in io.Reader) bool {
	f, ok := in.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func runPublish(ctx context.Context, cmd *cobra.Command, dir string, opts *publishOptions) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	cfg, cfgPath, err := config.LoadOrDefault(opts.configPath, absDir)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg, opts)

	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, File: cfg.Log.File, Output: stderr})
	if err != nil {
		return err
	}
	defer logger.Sync()
	if cfgPath != "" {
		logger.Debugw("loaded configuration", "path", cfgPath)
	}

	runner := &git.ExecRunner{Logger: logger}
	if opts.verbose {
		runner.Stream = stderr
	}
	repo := git.NewRepository(absDir, runner)

	originURL, err := git.RemoteURL(absDir, publish.RemoteName)
	if err != nil {
		logger.Debugw("could not inspect origin", "error", err)
	}

	sub := submissionFrom(cfg, opts)
	if !opts.noInput && isInteractive(opts.stdin) {
		sub, err = collect(ctx, absDir, cfg, sub, opts, originURL == "")
		if errors.Is(err, huh.ErrUserAborted) {
			return errors.New("aborted")
		}
		if err != nil {
			return err
		}
	}

	console := notify.NewConsole(stderr)
	recorder := &notify.Recorder{}
	notifier := notify.Multi{console, recorder}

	var tracker progress.Tracker = &progress.DefaultTracker{}
	if opts.verbose {
		tracker = progress.NewConsoleTracker(stderr)
	}
	var logOut io.Writer = stdout
	if opts.jsonOutput {
		logOut = nil
	}

	p := publish.New(publish.Options{
		Dir:       absDir,
		Repo:      repo,
		Notifier:  notifier,
		Tracker:   tracker,
		Logger:    logger,
		LogOutput: logOut,
	})

	// a rejected submission is reported by Publish below; nothing is created for it
	_, verr := p.Validate(sub)
	if verr == nil && originURL == "" && sub.RemoteURL == "" && cfg.GitHub.Repo != "" {
		if opts.tokens == nil {
			opts.tokens = token.NewEnvSource()
		}
		cloneURL, err := ensureGitHubRepo(ctx, opts.tokens, cfg.GitHub, notifier, logger)
		if err != nil {
			notifier.Notify(notify.Error, "Error: "+err.Error())
			return errReported
		}
		sub.RemoteURL = cloneURL
	}

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	result, err := p.Publish(ctx, sub)

	if opts.jsonOutput {
		if werr := writeJSON(stdout, result, recorder.Notifications()); werr != nil {
			return werr
		}
	}
	if err != nil {
		return errReported
	}
	return nil
}

func collect(ctx context.Context, dir string, cfg *config.PublishConfig, sub publish.Submission, opts *publishOptions, requireRemote bool) (publish.Submission, error) {
	current, err := git.CurrentBranch(dir)
	if err != nil {
		return sub, err
	}
	local, err := git.LocalBranches(dir)
	if err != nil {
		return sub, err
	}
	configured := append([]string{cfg.Branch}, cfg.BranchChoices...)

	f := &form.HuhForm{
		Accessible:    opts.accessible,
		RequireRemote: requireRemote && cfg.GitHub.Repo == "",
	}
	return f.Collect(ctx, sub, form.BranchOptions(current, configured, local))
}

func ensureGitHubRepo(ctx context.Context, tokens token.Source, gh config.GitHubConfig, notifier notify.Notifier, logger *zap.SugaredLogger) (string, error) {
	tok, err := tokens.Token(ctx, token.ProviderGitHub)
	if err != nil {
		return "", fmt.Errorf("GitHub token: %w", err)
	}
	if provider := token.DetectProvider(tok.Value); provider != "" && provider != token.ProviderGitHub {
		notifier.Notify(notify.Warning, fmt.Sprintf("%s looks like a %s token.", token.FormatEnvKey(string(token.ProviderGitHub)), provider))
	}
	client, err := github.NewClient(ctx, tok, gh.APIURL)
	if err != nil {
		return "", err
	}

	repo, created, err := client.EnsureRepository(ctx, github.RepoOptions{
		Name:        gh.Repo,
		Description: gh.Description,
		Private:     gh.Private,
	})
	if err != nil {
		return "", err
	}
	logger.Debugw("GitHub repository ready", "repo", repo.Owner+"/"+repo.Name, "created", created)
	if created {
		notifier.Notify(notify.Info, fmt.Sprintf("GitHub repository %s/%s created.", repo.Owner, repo.Name))
	}
	return repo.CloneURL, nil
}

type jsonReport struct {
	*publish.Result
	Notifications []jsonNotification `json:"notifications"`
}

type jsonNotification struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

func writeJSON(w io.Writer, result *publish.Result, notes []notify.Notification) error {
	report := jsonReport{Result: result, Notifications: []jsonNotification{}}
	for _, n := range notes {
		report.Notifications = append(report.Notifications, jsonNotification{Level: n.Level.String(), Message: n.Message})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
