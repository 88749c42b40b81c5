package engine

import (
	"context"
	"os"
	"path/filepath"

	"attrsync/internal/config"
	"attrsync/internal/discovery"
	"attrsync/internal/results"
)

// GitOps is the subset of gitcmd.Git the applier needs.
type GitOps interface {
	Clone(ctx context.Context, url, dest string) error
	HasChanges(ctx context.Context, repoDir string) (bool, error)
	Add(ctx context.Context, repoDir, path string) error
	Commit(ctx context.Context, repoDir, message string) error
	Push(ctx context.Context, repoDir string) error
}

// Applier installs the template into a single repository and reports exactly
// one outcome. Per-repository failures never abort the run.
type Applier struct {
	git      GitOps
	cfg      *config.Config
	template []byte
}

func NewApplier(git GitOps, cfg *config.Config, template []byte) *Applier {
	return &Applier{git: git, cfg: cfg, template: template}
}

// Apply processes one repository:
//
//	clone -> marker check -> copy template -> status -> commit -> push
//
// Skip conditions (pre-existing marker, no-op diff, failed clone) and
// commit/push failures are recorded in the outcome; the caller moves on to
// the next repository either way. In dry-run mode nothing is cloned or
// mutated and the outcome is always Success / "would apply".
func (a *Applier) Apply(ctx context.Context, d discovery.Descriptor) results.Outcome {
	outcome := func(status results.Status, message string) results.Outcome {
		return results.Outcome{Repo: d.FullName(), Status: status, Message: message}
	}

	if a.cfg.Run.DryRun {
		return outcome(results.StatusSuccess, results.MessageWouldApply)
	}

	dest := filepath.Join(a.cfg.Run.WorkDir, d.Name)
	if err := a.git.Clone(ctx, d.CloneURL, dest); err != nil {
		return outcome(results.StatusSkipped, results.MessageCloneFailed)
	}

	markerPath := filepath.Join(dest, filepath.FromSlash(a.cfg.Template.Marker))
	if _, err := os.Stat(markerPath); err == nil {
		// Idempotence guard: never overwrite an existing marker.
		return outcome(results.StatusSkipped, results.MessageAlreadyPresent)
	}

	if err := writeTemplate(markerPath, a.template); err != nil {
		return outcome(results.StatusError, results.MessageCopyFailed)
	}

	changed, err := a.git.HasChanges(ctx, dest)
	if err != nil {
		return outcome(results.StatusError, results.MessageStatusFailed)
	}
	if !changed {
		// Template byte-identical to something already tracked.
		return outcome(results.StatusSkipped, results.MessageNoChanges)
	}

	if err := a.git.Add(ctx, dest, a.cfg.Template.Marker); err != nil {
		return outcome(results.StatusError, results.MessageCommitFailed)
	}
	if err := a.git.Commit(ctx, dest, a.cfg.Template.Message); err != nil {
		return outcome(results.StatusError, results.MessageCommitFailed)
	}

	if err := a.git.Push(ctx, dest); err != nil {
		return outcome(results.StatusError, results.MessagePushFailed)
	}

	return outcome(results.StatusSuccess, "")
}

func writeTemplate(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
