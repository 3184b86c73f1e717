package pty

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
	"testing"
)

// pipeRunner starts the command with a plain pipe instead of a pty so the
// capture loop can be tested without a terminal.
type pipeRunner struct{}

func (pipeRunner) Start(_ context.Context, cmd *exec.Cmd, _ Size) (io.ReadWriteCloser, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	cmd.Stdout = w
	cmd.Stderr = w
	if err := cmd.Start(); err != nil {
		r.Close()
		w.Close()
		return nil, err
	}
	w.Close() // the child holds its own copy
	return r, nil
}

func TestRunCaptureCollectsOutput(t *testing.T) {
	cmd := exec.Command("sh", "-c", "echo hello; echo world")
	out, err := RunCapture(context.Background(), pipeRunner{}, cmd, Size{Rows: 24, Cols: 80})
	if err != nil {
		t.Fatalf("RunCapture() error: %v", err)
	}
	if !strings.Contains(out, "hello") || !strings.Contains(out, "world") {
		t.Errorf("output = %q, want both lines", out)
	}
}

func TestRunCaptureReturnsExitError(t *testing.T) {
	cmd := exec.Command("sh", "-c", "echo boom; exit 3")
	out, err := RunCapture(context.Background(), pipeRunner{}, cmd, Size{Rows: 24, Cols: 80})
	if err == nil {
		t.Fatal("expected exit error")
	}
	if !strings.Contains(out, "boom") {
		t.Errorf("output = %q, should still carry what the process wrote", out)
	}
}
