package ui

import "github.com/charmbracelet/lipgloss"

// Theme colors used throughout the UI
const (
	ColorAccent  = "86"  // Cyan/green - titles, ok markers
	ColorDanger  = "196" // Red - fatal errors
	ColorMuted   = "241" // Gray - hints, dimmed text
	ColorText    = "252" // Light gray - normal text
	ColorWarning = "208" // Orange - warnings
)

// Styles contains shared style definitions used across views.
var Styles = struct {
	Title    lipgloss.Style // Bold accent - view titles
	Banner   lipgloss.Style // Bold accent - completion banner
	Selected lipgloss.Style // Bold - highlighted menu item
	Normal   lipgloss.Style // Normal text
	Muted    lipgloss.Style // Dimmed text, hints
	OK       lipgloss.Style // Succeeded steps
	Warn     lipgloss.Style // Warning steps
	Fatal    lipgloss.Style // Failed steps
	Box      lipgloss.Style // Rounded border around the active view
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	Banner: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	Selected: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	OK: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccent)),
	Warn: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorWarning)),
	Fatal: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorDanger)),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorMuted)).
		Padding(1, 2).
		Margin(1),
}
