package main

import (
	"strings"

	"github.com/Saheb006/focusflow-organize-main/internal/markdown"
)

func renderMarkdownOrDash(value string, width int) string {
	if width < 1 {
		width = 1
	}
	formatted := markdown.Render(value, width, 0)
	if strings.TrimSpace(formatted) == "" {
		return "-"
	}
	return formatted
}
