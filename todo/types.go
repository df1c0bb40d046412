// Package todo implements a personal todo tracker with hierarchical sub-todos.
//
// A Todo owns an ordered list of SubTodos. Persistence is delegated to a Port;
// the package keeps the rules that span records (parent completion follows its
// children) and derives every read-only view from the fetched collection.
//
// The public API is split in three parts:
//   - Controller for mutations (CreateTodo, UpdateTodo, ToggleSubTodo, ...)
//   - pure view functions (ApplyFilter, CountPriorities, ItemsForDate,
//     HierarchicalAgenda, DayMarkers, DayReminders)
//   - Cache and Sessions for the per-user fetched collection
package todo

import (
	internalstrings "github.com/Saheb006/focusflow-organize-main/internal/strings"
	"github.com/Saheb006/focusflow-organize-main/internal/validation"
)

// Priority represents how urgent a todo is.
type Priority string

const (
	// PriorityLow is for todos that can wait.
	PriorityLow Priority = "low"

	// PriorityMedium is the default priority.
	PriorityMedium Priority = "medium"

	// PriorityHigh is for todos that should be done soon.
	PriorityHigh Priority = "high"

	// PriorityUrgent is for todos that need attention now.
	PriorityUrgent Priority = "urgent"
)

// DefaultPriority is assigned to todos created without a priority.
const DefaultPriority = PriorityMedium

// ValidPriorities returns all valid priority values, most urgent first.
func ValidPriorities() []Priority {
	return []Priority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow}
}

// IsValid returns true if the priority is a known valid value.
func (p Priority) IsValid() bool {
	for _, valid := range ValidPriorities() {
		if p == valid {
			return true
		}
	}
	return false
}

// Rank returns the sort rank for a priority. Lower ranks are more urgent.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// Color returns the hex color used to mark the priority on a calendar.
func (p Priority) Color() string {
	switch p {
	case PriorityUrgent:
		return "#ef4444"
	case PriorityHigh:
		return "#f59e0b"
	case PriorityMedium:
		return "#eab308"
	case PriorityLow:
		return "#10b981"
	default:
		return "#6b7280"
	}
}

// ParsePriority parses a priority name, ignoring case and surrounding space.
func ParsePriority(value string) (Priority, error) {
	p := Priority(internalstrings.NormalizeLowerTrimSpace(value))
	if !p.IsValid() {
		return "", validation.FormatInvalidValueError(ErrInvalidPriority, Priority(value), ValidPriorities())
	}
	return p, nil
}

// PriorityPtr returns a pointer to the provided priority.
func PriorityPtr(p Priority) *Priority {
	return &p
}

// BoolPtr returns a pointer to the provided bool.
func BoolPtr(b bool) *bool {
	return &b
}

// MaxTitleLength is the maximum allowed length for a todo title.
const MaxTitleLength = 500
