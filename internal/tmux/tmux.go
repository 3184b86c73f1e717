// Package tmux provides functions to orchestrate tmux windows via exec.
// The launcher expects to run inside tmux (TMUX env set); every child
// program gets its own named window in the current session.
package tmux

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Inside reports whether the current process runs inside a tmux session.
func Inside() bool {
	return os.Getenv("TMUX") != ""
}

// NewWindow creates a detached named window running the default shell with
// cwd set to workDir. Returns the new window's pane ID (e.g. %4).
// The window stays in the background; the launcher pane keeps focus.
func NewWindow(name, workDir string) (paneID string, err error) {
	cmd := exec.Command("tmux", "new-window", "-d", "-P", "-F", "#{pane_id}", "-n", name, "-c", workDir)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tmux new-window: %w: %s", err, strings.TrimSpace(out.String()))
	}
	return strings.TrimSpace(out.String()), nil
}

// SendKeys sends keys literally to the pane. Use \n for Enter.
// The -l flag sends keys as typed; newlines are sent as Enter.
func SendKeys(paneID, keys string) error {
	cmd := exec.Command("tmux", "send-keys", "-l", "-t", paneID, keys)
	var out bytes.Buffer
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("tmux send-keys: %w: %s", err, strings.TrimSpace(out.String()))
	}
	return nil
}

// KillPane kills the pane with the given ID. Killing the only pane of a
// window closes the window too.
func KillPane(paneID string) error {
	cmd := exec.Command("tmux", "kill-pane", "-t", paneID)
	var out bytes.Buffer
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("tmux kill-pane: %w: %s", err, strings.TrimSpace(out.String()))
	}
	return nil
}

// ListPaneIDs returns all live pane IDs across all tmux sessions/windows.
// Each ID looks like "%42". Used for liveness checks by the session tracker.
func ListPaneIDs() (map[string]bool, error) {
	cmd := exec.Command("tmux", "list-panes", "-a", "-F", "#{pane_id}")
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("tmux list-panes: %w: %s", err, strings.TrimSpace(out.String()))
	}
	panes := make(map[string]bool)
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			panes[line] = true
		}
	}
	return panes, nil
}
