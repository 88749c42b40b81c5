// Package gitcmd runs the git binary and exposes the handful of repository
// operations a run needs as typed calls.
package gitcmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

const gitBinary = "git"

// Result captures the observable output of one git invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes git with the given arguments. dir is the working directory;
// an empty dir runs in the current directory (used for clone).
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (Result, error)
}

// CommandError reports a git invocation that exited non-zero.
type CommandError struct {
	Args   []string
	Result Result
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("git %s exited with code %d", strings.Join(e.Args, " "), e.Result.ExitCode)
	if detail := firstLine(e.Result.Stderr); detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, detail)
	}
	return msg
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}

// EnsureAvailable verifies the git binary can be found. Callers treat a
// failure as a fatal prerequisite error.
func EnsureAvailable() error {
	if _, err := exec.LookPath(gitBinary); err != nil {
		return fmt.Errorf("git binary not found in PATH: %w", err)
	}
	return nil
}

// ExecRunner runs the real git binary. Every invocation is logged through the
// provided zap logger at debug level; failures are logged at warn.
type ExecRunner struct {
	logger *zap.Logger
}

func NewExecRunner(logger *zap.Logger) *ExecRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecRunner{logger: logger}
}

func (r *ExecRunner) Run(ctx context.Context, dir string, args ...string) (Result, error) {
	if len(args) == 0 {
		return Result{}, errors.New("gitcmd: no arguments provided")
	}

	r.logger.Debug("running git",
		zap.Strings("args", args),
		zap.String("dir", dir),
	)

	cmd := exec.CommandContext(ctx, gitBinary, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			r.logger.Warn("git returned non-zero status",
				zap.Strings("args", args),
				zap.Int("exit_code", result.ExitCode),
				zap.String("stderr", strings.TrimSpace(result.Stderr)),
			)
			return result, &CommandError{Args: args, Result: result}
		}
		// Context cancellation or a start failure, not a git exit status.
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		r.logger.Error("git execution failed",
			zap.Strings("args", args),
			zap.Error(runErr),
		)
		return result, fmt.Errorf("git %s: %w", args[0], runErr)
	}

	r.logger.Debug("git completed",
		zap.Strings("args", args),
	)
	return result, nil
}
