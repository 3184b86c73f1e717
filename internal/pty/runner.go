// Package pty runs a command in a pseudo-terminal and captures its output.
// The verification script prints progress with colors and carriage returns;
// running it under a PTY keeps that output faithful for the run log.
package pty

import (
	"bytes"
	"context"
	"io"
	"os/exec"

	"github.com/creack/pty"
)

// Size represents terminal dimensions in rows and columns.
type Size struct {
	Rows uint16
	Cols uint16
}

// Runner is the interface for spawning a PTY.
// Implementations can be swapped (e.g. creack/pty, or a mock for tests).
type Runner interface {
	Start(ctx context.Context, cmd *exec.Cmd, size Size) (io.ReadWriteCloser, error)
}

// CreackPTY implements Runner using github.com/creack/pty.
type CreackPTY struct{}

// Ensure CreackPTY implements Runner.
var _ Runner = (*CreackPTY)(nil)

// Start implements Runner. Spawns cmd in a PTY with the given size.
func (c *CreackPTY) Start(ctx context.Context, cmd *exec.Cmd, size Size) (io.ReadWriteCloser, error) {
	ws := &pty.Winsize{Rows: size.Rows, Cols: size.Cols}
	f, err := pty.StartWithSize(cmd, ws)
	if err != nil {
		return nil, err
	}
	// Context cancellation is handled by the caller (closing the returned ReadWriteCloser).
	return f, nil
}

// RunCapture runs cmd under r until it exits, returning everything the
// process wrote. The PTY read loop ends with an io.EOF-like error when the
// child closes its side; that is not surfaced. The process exit error (if
// any) is returned alongside the captured output.
func RunCapture(ctx context.Context, r Runner, cmd *exec.Cmd, size Size) (string, error) {
	f, err := r.Start(ctx, cmd, size)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, f) // read error here just means the pty closed

	waitErr := cmd.Wait()
	return buf.String(), waitErr
}
