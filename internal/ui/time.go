package ui

import (
	"fmt"
	"time"

	internalage "github.com/Saheb006/focusflow-organize-main/internal/age"
	"github.com/Saheb006/focusflow-organize-main/todo"
)

// FormatTimeAgo returns a compact age string like "2m ago".
func FormatTimeAgo(then time.Time, now time.Time) string {
	duration, ok := internalage.Since(then, now)
	if !ok {
		return "-"
	}
	return FormatDurationShort(duration) + " ago"
}

// FormatDurationShort formats a duration using short units (s/m/h/d).
func FormatDurationShort(duration time.Duration) string {
	if duration < 0 {
		duration = 0
	}

	duration = duration.Truncate(time.Second)
	seconds := int64(duration.Seconds())
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}

	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}

	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%dh", hours)
	}

	days := hours / 24
	return fmt.Sprintf("%dd", days)
}

// FormatDue renders a due date and optional time relative to today, like
// "2024-05-11 09:30 (tomorrow)". A nil date renders as "-".
func FormatDue(due *todo.Date, dueTime string, today todo.Date) string {
	if due == nil {
		return "-"
	}
	value := due.String()
	if dueTime != "" {
		value += " " + dueTime
	}
	return value + " (" + RelativeDay(*due, today) + ")"
}

// RelativeDay describes day relative to today.
func RelativeDay(day todo.Date, today todo.Date) string {
	days := internalage.CalendarDays(today.Time(time.UTC), day.Time(time.UTC))
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	case days == -1:
		return "yesterday"
	case days > 1:
		return fmt.Sprintf("in %dd", days)
	default:
		return fmt.Sprintf("%dd overdue", -days)
	}
}
