package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/Saheb006/focusflow-organize-main/internal/ui"
	"github.com/Saheb006/focusflow-organize-main/todo"
)

const timestampLayout = "2006-01-02 15:04:05"

// printTodoDetail prints detailed information about a todo.
func printTodoDetail(t todo.Todo, highlight func(string) string, today todo.Date) {
	fmt.Print(formatTodoDetail(t, highlight, today, time.Now()))
}

func formatTodoDetail(t todo.Todo, highlight func(string) string, today todo.Date, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ID:        %s\n", highlight(t.ID))
	fmt.Fprintf(&b, "Title:     %s\n", t.Title)
	fmt.Fprintf(&b, "Status:    %s\n", todoStatus(t.Completed))
	fmt.Fprintf(&b, "Priority:  %s\n", ui.PriorityLabel(t.Priority))
	if t.Color != "" {
		fmt.Fprintf(&b, "Color:     %s\n", ui.Swatch(t.Color))
	}
	fmt.Fprintf(&b, "Due:       %s\n", ui.FormatDue(t.DueDate, t.DueTime, today))
	if len(t.Tags) > 0 {
		fmt.Fprintf(&b, "Tags:      %s\n", strings.Join(t.Tags, ", "))
	}
	fmt.Fprintf(&b, "Created:   %s\n", formatTimestamp(t.CreatedAt, now))
	if t.CompletedAt != nil {
		fmt.Fprintf(&b, "Completed: %s\n", formatTimestamp(*t.CompletedAt, now))
	}

	if len(t.SubTodos) > 0 {
		fmt.Fprintf(&b, "\nSub-todos:\n")
		for _, sub := range t.SubTodos {
			fmt.Fprintf(&b, "  %s %s %s", ui.CompletionMark(sub.Completed), highlight(sub.ID), sub.Title)
			if sub.DueDate != nil {
				fmt.Fprintf(&b, " (due %s)", ui.FormatDue(sub.DueDate, sub.DueTime, today))
			}
			b.WriteString("\n")
		}
	}

	if t.Description != "" {
		fmt.Fprintf(&b, "\nDescription:\n%s\n", formatTodoDescription(t.Description))
	}
	return b.String()
}

func formatTimestamp(at, now time.Time) string {
	return at.Local().Format(timestampLayout) + " (" + ui.FormatTimeAgo(at, now) + ")"
}

func todoStatus(completed bool) string {
	if completed {
		return "done"
	}
	return "open"
}

const todoDetailLineWidth = 80

func formatTodoDescription(value string) string {
	return renderMarkdownOrDash(value, todoDetailLineWidth)
}
