package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/NicabarNimble/go-gitpublish/internal/config"
	"github.com/NicabarNimble/go-gitpublish/internal/git"
	"github.com/NicabarNimble/go-gitpublish/internal/preflight"
	"github.com/NicabarNimble/go-gitpublish/internal/publish"
	"github.com/NicabarNimble/go-gitpublish/internal/token"
	"github.com/NicabarNimble/go-gitpublish/internal/urlutils"
)

type doctorOptions struct {
	configPath string
}

func newDoctorCmd() *cobra.Command {
	opts := &doctorOptions{}

	cmd := &cobra.Command{
		Use:   "doctor [dir]",
		Short: "Check git, the target directory and credentials without changing anything",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runDoctor(cmd.Context(), cmd.OutOrStdout(), dir, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "Configuration file (YAML or JSON)")

	return cmd
}

func runDoctor(ctx context.Context, out io.Writer, dir string, opts *doctorOptions) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	failed := false
	report := func(ok bool, label, detail string) {
		mark := "ok"
		if !ok {
			mark = "FAIL"
			failed = true
		}
		fmt.Fprintf(out, "%-5s %-12s %s\n", mark, label, detail)
	}

	repo := git.NewRepository(absDir, nil)
	if v, err := preflight.CheckGit(ctx, repo); err != nil {
		report(false, "git", err.Error())
	} else {
		report(true, "git", v.String())
	}

	if err := preflight.CheckDirectory(absDir); err != nil {
		report(false, "directory", err.Error())
	} else {
		report(true, "directory", absDir)
	}

	origin := ""
	if ok, _ := repo.HasMetadata(); ok {
		current, err := git.CurrentBranch(absDir)
		if err != nil {
			report(false, "branch", err.Error())
		} else {
			local, _ := git.LocalBranches(absDir)
			report(true, "branch", fmt.Sprintf("%s (local: %s)", orNone(current), orNone(strings.Join(local, ", "))))
		}
		url, err := git.RemoteURL(absDir, publish.RemoteName)
		if err != nil {
			report(false, "origin", err.Error())
		} else {
			origin = url
			detail := orNone(urlutils.Redact(origin))
			if owner, name, err := urlutils.ParseGitHubURL(origin); err == nil {
				detail += fmt.Sprintf(" (GitHub %s/%s)", owner, name)
			}
			report(true, "origin", detail)
		}
	} else {
		report(true, "repository", "not initialized yet")
	}

	cfg, cfgPath, err := config.LoadOrDefault(opts.configPath, absDir)
	switch {
	case err != nil:
		report(false, "config", err.Error())
	case cfgPath == "":
		report(true, "config", "defaults")
	default:
		report(true, "config", cfgPath)
	}

	// a token is only required for creating the repository
	createRepo := cfg != nil && cfg.GitHub.Repo != ""
	if createRepo || urlutils.IsGitHubURL(origin) {
		tok, err := token.NewEnvSource().Token(ctx, token.ProviderGitHub)
		switch {
		case err != nil && createRepo:
			report(false, "token", err.Error())
		case err != nil:
			report(true, "token", "(none)")
		default:
			detail := token.Mask(tok.Value)
			if provider := token.DetectProvider(tok.Value); provider != "" && provider != token.ProviderGitHub {
				detail += fmt.Sprintf(" (looks like a %s token)", provider)
			}
			report(true, "token", detail)
		}
	}

	if failed {
		return errReported
	}
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
