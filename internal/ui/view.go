package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"turbineup/internal/launch"
	"turbineup/internal/progress"
	"turbineup/internal/ui/textutil"
)

// View implements tea.Model.
func (m *AppModel) View() string {
	var body string
	switch m.state {
	case stateMenu:
		body = m.viewMenu()
	case stateRunning:
		body = m.viewRun()
	case stateDone:
		body = m.viewDone()
	case stateFarewell:
		body = m.viewFarewell()
	}
	return Styles.Box.Render(body) + "\n" + m.viewFooter()
}

func (m *AppModel) viewMenu() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render("Gas Turbine Monitoring Launcher"))
	b.WriteString("\n\n")

	for i, entry := range menuEntries() {
		line := fmt.Sprintf("%d. %-26s %s", i+1, entry.title, Styles.Muted.Render(entry.desc))
		if i == m.cursor {
			line = Styles.Selected.Render("> " + line)
		} else {
			line = Styles.Normal.Render("  " + line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(Styles.Muted.Render("1-5 select · j/k move · enter confirm · q quit"))
	return b.String()
}

func (m *AppModel) viewRun() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render(m.mode.Title()))
	b.WriteString("\n\n")
	b.WriteString(m.renderLog())
	b.WriteString("\n")
	b.WriteString(m.spin.View())
	b.WriteString(Styles.Muted.Render(" starting..."))
	return b.String()
}

func (m *AppModel) viewDone() string {
	var b strings.Builder
	if m.report != nil && m.report.Fatal {
		b.WriteString(Styles.Fatal.Render("Startup aborted"))
	} else {
		b.WriteString(Styles.Banner.Render(m.mode.Banner()))
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderLog())
	b.WriteString("\n")
	b.WriteString(Styles.Muted.Render("press any key to return to the menu"))
	return b.String()
}

func (m *AppModel) viewFarewell() string {
	return Styles.Title.Render("Goodbye") + "\n\n" +
		Styles.Normal.Render("Thanks for using the monitoring launcher.")
}

// viewFooter lists the launched windows still alive.
func (m *AppModel) viewFooter() string {
	if m.Tracker == nil {
		return ""
	}
	windows := m.Tracker.All()
	if len(windows) == 0 {
		return Styles.Muted.Render(" no tracked windows")
	}
	names := make([]string, 0, len(windows))
	for _, w := range windows {
		names = append(names, w.Key.String())
	}
	line := fmt.Sprintf(" %d window(s): %s", len(windows), strings.Join(names, ", "))
	return Styles.Muted.Render(m.truncate(line))
}

func (m *AppModel) renderLog() string {
	if len(m.log) == 0 {
		return Styles.Muted.Render("waiting for first step...")
	}
	var b strings.Builder
	for _, ev := range m.log {
		marker, style := eventStyle(ev.Status)
		line := ev.Step
		if ev.Message != "" {
			line += ": " + ev.Message
		}
		b.WriteString(style.Render(m.truncate(marker + " " + line)))
		b.WriteString("\n")
	}
	return b.String()
}

func eventStyle(status progress.Status) (string, lipgloss.Style) {
	switch status {
	case progress.StatusOK:
		return "✓", Styles.OK
	case progress.StatusWarn:
		return "!", Styles.Warn
	case progress.StatusFailed:
		return "✗", Styles.Fatal
	case progress.StatusSkipped:
		return "-", Styles.Muted
	}
	return "…", Styles.Normal
}

// truncate keeps log lines within the terminal width. Called on plain text
// before styling, so escape codes never skew the width.
func (m *AppModel) truncate(s string) string {
	if m.width <= 0 {
		return s
	}
	return textutil.Truncate(s, m.width)
}

type menuEntry struct {
	title string
	desc  string
}

// menuEntries returns the five menu rows: the launch modes plus exit.
func menuEntries() []menuEntry {
	entries := make([]menuEntry, 0, menuEntryCount)
	for _, mode := range launch.Modes() {
		entries = append(entries, menuEntry{title: mode.Title(), desc: mode.Description()})
	}
	entries = append(entries, menuEntry{title: "Exit", desc: "close the launcher"})
	return entries
}
