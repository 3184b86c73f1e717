// Package textutil provides unicode-aware text helpers for the run log.
package textutil

import "github.com/mattn/go-runewidth"

const ellipsis = "…"

// VisualWidth returns the number of terminal columns the string occupies.
func VisualWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Truncate shortens s to at most maxWidth visual columns, appending an
// ellipsis when something was cut.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if VisualWidth(s) <= maxWidth {
		return s
	}
	available := maxWidth - VisualWidth(ellipsis)
	if available < 0 {
		return ellipsis
	}

	var out []rune
	width := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if width+w > available {
			break
		}
		out = append(out, r)
		width += w
	}
	return string(out) + ellipsis
}
