package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	tea "github.com/charmbracelet/bubbletea"

	"turbineup/internal/checks"
	"turbineup/internal/config"
	"turbineup/internal/launch"
	"turbineup/internal/progress"
	"turbineup/internal/pty"
	"turbineup/internal/session"
	"turbineup/internal/tmux"
	"turbineup/internal/trace"
	"turbineup/internal/ui"
)

func main() {
	if !tmux.Inside() {
		fmt.Fprintln(os.Stderr, "Run turbineup inside tmux (e.g. `tmux new -s turbine` then `turbineup`)")
		os.Exit(1)
	}

	root, err := config.ResolveRoot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	exporter, err := trace.NewExporter(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: trace export disabled: %v\n", err)
	}
	defer exporter.Shutdown(context.Background())

	events := make(chan progress.Event, 64)
	tracker := session.New(tmux.ListPaneIDs)

	runner := &launch.Runner{
		Cfg:       cfg,
		Checks:    checks.New(),
		Spawn:     spawnWindow,
		RunScript: runScript,
		Emitter:   &progress.ChanEmitter{Ch: events},
		Tracker:   tracker,
	}

	run := func(ctx context.Context, mode launch.Mode) *launch.Report {
		rep := runner.Run(ctx, mode)
		if err := exporter.ExportReport(ctx, rep); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: trace export failed: %v\n", err)
		}
		return rep
	}

	model := ui.NewAppModel(run, events, tracker, cfg.Delays.Warning)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// spawnWindow opens a named tmux window in workDir and types the command
// into its shell. The shell keeps the window open after the launcher moves
// on; the operator closes it manually.
func spawnWindow(name, workDir, command string) (string, error) {
	paneID, err := tmux.NewWindow(name, workDir)
	if err != nil {
		return "", err
	}
	if err := tmux.SendKeys(paneID, command+"\n"); err != nil {
		return "", err
	}
	return paneID, nil
}

// runScript runs a shell command synchronously under a PTY so colored and
// rewritten output is captured faithfully for the run log.
func runScript(ctx context.Context, workDir, command string) (string, error) {
	cmd := exec.CommandContext(ctx, "sh", "-lc", command)
	cmd.Dir = workDir
	return pty.RunCapture(ctx, &pty.CreackPTY{}, cmd, pty.Size{Rows: 40, Cols: 120})
}
