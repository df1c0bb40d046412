package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Saheb006/focusflow-organize-main/todo"
)

const markerGlyph = "●"

// PriorityLabel renders a priority name in its color when the terminal
// supports it.
func PriorityLabel(p todo.Priority) string {
	if !ANSIEnabled() {
		return string(p)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color())).Render(string(p))
}

// CompletionMark renders a checkbox.
func CompletionMark(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

// Swatch renders a small dot in a hex color, or nothing without one.
func Swatch(color string) string {
	if color == "" {
		return ""
	}
	if !ANSIEnabled() {
		return color
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(markerGlyph)
}

// DayMarkers renders a calendar day's markers as colored dots, with a plus
// sign when items were left out.
func DayMarkers(markers todo.Markers) string {
	if markers.Count == 0 {
		return ""
	}
	out := ""
	for _, color := range markers.Colors {
		if ANSIEnabled() {
			out += lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(markerGlyph)
		} else {
			out += "*"
		}
	}
	if markers.Overflow {
		out += "+"
	}
	return out
}
