// Package agent invokes the downstream reasoning agent. The agent is a
// black box to the rest of the system: it receives free-text instructions
// (which reference a staged file path) and returns a free-text answer.
package agent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// Runner executes one agent request.
type Runner interface {
	Run(ctx context.Context, prompt string) (string, error)
}

// CLIRunner runs a local agent CLI (e.g. claude) once per request, passing
// the prompt as the final argument.
type CLIRunner struct {
	command string
	args    []string
	workDir string
	timeout time.Duration
	logger  *slog.Logger
}

// NewCLIRunner creates a CLIRunner. timeout bounds a single invocation.
func NewCLIRunner(log *slog.Logger, command string, args []string, workDir string, timeout time.Duration) (*CLIRunner, error) {
	if strings.TrimSpace(command) == "" {
		return nil, fmt.Errorf("agent command is required")
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("agent timeout must be positive")
	}
	if log == nil {
		log = slog.Default()
	}
	return &CLIRunner{
		command: command,
		args:    args,
		workDir: workDir,
		timeout: timeout,
		logger:  log.With(slog.String("service", "agent")),
	}, nil
}

// Run executes the agent with the prompt and returns its trimmed stdout.
func (r *CLIRunner) Run(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	args := make([]string, 0, len(r.args)+1)
	args = append(args, r.args...)
	args = append(args, prompt)

	cmd := exec.CommandContext(ctx, r.command, args...)
	cmd.Dir = r.workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("agent timed out after %s", r.timeout)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("agent run: %s", msg)
	}

	r.logger.Info("agent run finished",
		slog.Duration("elapsed", time.Since(start)),
		slog.Int("output_bytes", stdout.Len()),
	)
	return strings.TrimSpace(stdout.String()), nil
}
