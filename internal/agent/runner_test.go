package agent

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestNewCLIRunnerValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewCLIRunner(nil, "", nil, "", time.Minute); err == nil {
		t.Fatal("expected error for empty command")
	}
	if _, err := NewCLIRunner(nil, "echo", nil, "", 0); err == nil {
		t.Fatal("expected error for non-positive timeout")
	}
}

func TestCLIRunnerRun(t *testing.T) {
	t.Parallel()

	r, err := NewCLIRunner(nil, "echo", []string{"-n"}, "", 10*time.Second)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	out, err := r.Run(context.Background(), "analyze the image")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "analyze the image" {
		t.Fatalf("output = %q", out)
	}
}

func TestCLIRunnerTimeout(t *testing.T) {
	t.Parallel()

	r, err := NewCLIRunner(nil, "sleep", nil, "", 100*time.Millisecond)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	_, err = r.Run(context.Background(), "5")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Fatalf("error = %v, want timeout", err)
	}
}

func TestCLIRunnerCommandFailure(t *testing.T) {
	t.Parallel()

	r, err := NewCLIRunner(nil, "false", nil, "", 10*time.Second)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	if _, err := r.Run(context.Background(), "x"); err == nil {
		t.Fatal("expected error from failing command")
	}
}
