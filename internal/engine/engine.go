package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"attrsync/internal/config"
	"attrsync/internal/discovery"
	gh "attrsync/internal/github"
	"attrsync/internal/gitcmd"
	"attrsync/internal/output"
	"attrsync/internal/results"
)

func exitCodeForRun(fatal bool) int {
	// Exit code contract:
	// 0 = run completed (individual repository failures are reported, not fatal)
	// 1 = fatal error (missing prerequisite, listing failed, zero repositories)
	if fatal {
		return 1
	}
	return 0
}

type Engine struct {
	Client *gh.Client
	Git    GitOps

	// Progress receives per-repository progress lines (defaults to stderr).
	// Out receives the final summary (defaults to stdout).
	Progress io.Writer
	Out      io.Writer

	// Test seams. When nil the real implementations are used.
	listRepos    func(ctx context.Context, client *gh.Client, cfg *config.Config) ([]discovery.Descriptor, error)
	gitAvailable func() error
	sleep        func(d time.Duration)
}

func NewEngine(client *gh.Client, git GitOps) *Engine {
	return &Engine{
		Client: client,
		Git:    git,
	}
}

func (e *Engine) progress() io.Writer {
	if e.Progress != nil {
		return e.Progress
	}
	return os.Stderr
}

func (e *Engine) out() io.Writer {
	if e.Out != nil {
		return e.Out
	}
	return os.Stdout
}

func (e *Engine) discover(ctx context.Context, cfg *config.Config) ([]discovery.Descriptor, error) {
	if e.listRepos != nil {
		return e.listRepos(ctx, e.Client, cfg)
	}
	return discovery.List(ctx, e.Client, cfg)
}

func (e *Engine) checkGitAvailable() error {
	if e.gitAvailable != nil {
		return e.gitAvailable()
	}
	return gitcmd.EnsureAvailable()
}

func (e *Engine) pause(d time.Duration) {
	if d <= 0 {
		return
	}
	if e.sleep != nil {
		e.sleep(d)
		return
	}
	time.Sleep(d)
}

// Run executes the whole pipeline and returns the process exit code.
//
// Fatal prerequisites (git binary absent, template file missing, listing
// failure, zero repositories) abort before any repository is touched.
// Everything after that point runs to completion: per-repository failures are
// collected into outcomes and reported in the summary.
func (e *Engine) Run(ctx context.Context, cfg *config.Config) int {
	if err := e.checkGitAvailable(); err != nil {
		fmt.Fprintf(e.progress(), "Error: %v\n", err)
		return exitCodeForRun(true)
	}

	template, err := os.ReadFile(cfg.Template.Source)
	if err != nil {
		fmt.Fprintf(e.progress(), "Error: template file %s: %v\n", cfg.Template.Source, err)
		return exitCodeForRun(true)
	}

	fmt.Fprintln(e.progress(), "Discovering repositories...")
	descriptors, err := e.discover(ctx, cfg)
	if err != nil {
		fmt.Fprintf(e.progress(), "Error discovering repositories: %v\n", err)
		return exitCodeForRun(true)
	}
	if len(descriptors) == 0 {
		fmt.Fprintf(e.progress(), "Error: no repositories found for %s\n", cfg.Targeting.User)
		return exitCodeForRun(true)
	}
	fmt.Fprintf(e.progress(), "Found %d repositories.\n", len(descriptors))

	if !cfg.Run.DryRun {
		if err := os.MkdirAll(cfg.Run.WorkDir, 0o755); err != nil {
			fmt.Fprintf(e.progress(), "Error: work directory %s: %v\n", cfg.Run.WorkDir, err)
			return exitCodeForRun(true)
		}
		if !cfg.Run.KeepClones {
			// Guaranteed cleanup: clones are removed at end of run regardless
			// of per-repository outcomes.
			defer os.RemoveAll(cfg.Run.WorkDir)
		}
	}

	applier := NewApplier(e.Git, cfg, template)
	outcomes := e.runAll(ctx, cfg, applier, descriptors)

	output.WriteSummary(e.out(), outcomes)

	if cfg.Output.Out != "" {
		if err := output.WriteReport(cfg.Output.Out, outcomes); err != nil {
			fmt.Fprintf(e.progress(), "Warning: %v\n", err)
		}
	}

	return exitCodeForRun(false)
}

// runAll processes descriptors strictly sequentially, in the sorted order the
// lister produced, with a fixed pause between repositories to stay under the
// service's request-rate limits. Outcomes are returned in that same order.
func (e *Engine) runAll(ctx context.Context, cfg *config.Config, applier *Applier, descriptors []discovery.Descriptor) []results.Outcome {
	outcomes := make([]results.Outcome, 0, len(descriptors))
	for i, d := range descriptors {
		if ctx.Err() != nil {
			fmt.Fprintf(e.progress(), "Run interrupted: %v\n", ctx.Err())
			break
		}

		output.WriteProgress(e.progress(), i+1, len(descriptors), d.FullName())
		outcome := applier.Apply(ctx, d)
		output.WriteOutcome(e.progress(), outcome)
		outcomes = append(outcomes, outcome)

		if i < len(descriptors)-1 {
			e.pause(cfg.Run.Pause)
		}
	}
	return outcomes
}
