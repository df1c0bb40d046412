package main

import (
	"fmt"
	"strings"
	"time"

	internalstrings "github.com/Saheb006/focusflow-organize-main/internal/strings"
	"github.com/Saheb006/focusflow-organize-main/todo"
)

// parseDay parses a YYYY-MM-DD date or one of today, tomorrow and yesterday.
func parseDay(value string, today todo.Date) (todo.Date, error) {
	switch internalstrings.NormalizeLowerTrimSpace(value) {
	case "today":
		return today, nil
	case "tomorrow":
		return today.AddDays(1), nil
	case "yesterday":
		return today.AddDays(-1), nil
	}
	return todo.ParseDate(value)
}

// parseDueFlag parses an optional due date flag. Blank means no date.
func parseDueFlag(value string, today todo.Date) (*todo.Date, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	day, err := parseDay(value, today)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

// parseMonth parses YYYY-MM. Blank means the month containing today.
func parseMonth(value string, today todo.Date) (int, time.Month, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return today.Year, today.Month, nil
	}
	t, err := time.Parse("2006-01", value)
	if err != nil {
		return 0, 0, fmt.Errorf("month must be formatted as YYYY-MM: %q", value)
	}
	return t.Year(), t.Month(), nil
}

// parseWeekStart parses the first day of a calendar week.
func parseWeekStart(value string) (time.Weekday, error) {
	switch internalstrings.NormalizeLowerTrimSpace(value) {
	case "", "sunday", "sun":
		return time.Sunday, nil
	case "monday", "mon":
		return time.Monday, nil
	default:
		return 0, fmt.Errorf("week start must be sunday or monday: %q", value)
	}
}
