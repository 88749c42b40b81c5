package gitcmd

import (
	"context"
	"fmt"
	"strings"
)

// Git exposes the repository operations a run needs, executed through a
// Runner so tests can substitute a fake.
type Git struct {
	runner Runner
}

func New(runner Runner) *Git {
	if runner == nil {
		panic("gitcmd.New: runner must not be nil")
	}
	return &Git{runner: runner}
}

// Clone fetches url into dest. dest must not already exist; git creates it.
func (g *Git) Clone(ctx context.Context, url, dest string) error {
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("clone: url must not be empty")
	}
	if strings.TrimSpace(dest) == "" {
		return fmt.Errorf("clone: destination must not be empty")
	}
	_, err := g.runner.Run(ctx, "", "clone", "--quiet", url, dest)
	return err
}

// HasChanges reports whether the worktree at repoDir has staged or unstaged
// changes, based on porcelain status output.
func (g *Git) HasChanges(ctx context.Context, repoDir string) (bool, error) {
	result, err := g.runner.Run(ctx, repoDir, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(result.Stdout) != "", nil
}

// Add stages the file at path (relative to the repository root).
func (g *Git) Add(ctx context.Context, repoDir, path string) error {
	_, err := g.runner.Run(ctx, repoDir, "add", "--", path)
	return err
}

// Commit records staged changes with the given message.
func (g *Git) Commit(ctx context.Context, repoDir, message string) error {
	_, err := g.runner.Run(ctx, repoDir, "commit", "--quiet", "-m", message)
	return err
}

// Push uploads the current branch to its default remote.
func (g *Git) Push(ctx context.Context, repoDir string) error {
	_, err := g.runner.Run(ctx, repoDir, "push", "--quiet")
	return err
}
