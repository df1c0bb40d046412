package todo

import internalstrings "github.com/Saheb006/focusflow-organize-main/internal/strings"

// Filter narrows a todo list. A nil Completed shows only incomplete todos.
type Filter struct {
	Priority  *Priority `json:"priority,omitempty"`
	Tag       string    `json:"tag,omitempty"`
	Completed *bool     `json:"completed,omitempty"`
	Search    string    `json:"search,omitempty"`
}

// IsEmpty reports whether the filter has no constraint set.
func (f Filter) IsEmpty() bool {
	return f.Priority == nil && f.Tag == "" && f.Completed == nil && f.Search == ""
}

// TogglePriority selects p, or deselects it when it is already selected.
// Selecting a priority switches the view back to incomplete todos.
func (f Filter) TogglePriority(p Priority) Filter {
	if f.Priority != nil && *f.Priority == p {
		f.Priority = nil
		return f
	}
	f.Priority = PriorityPtr(p)
	f.Completed = BoolPtr(false)
	return f
}

// ToggleCompleted switches between showing completed todos and the default
// incomplete view. Showing completed todos drops the priority selection.
func (f Filter) ToggleCompleted() Filter {
	if f.Completed != nil && *f.Completed {
		f.Completed = nil
		return f
	}
	f.Completed = BoolPtr(true)
	f.Priority = nil
	return f
}

// Clear returns the empty filter.
func (f Filter) Clear() Filter {
	return Filter{}
}

// Matches reports whether todo passes the filter. An empty searchQuery falls
// back to the filter's own Search.
func (f Filter) Matches(todo Todo, searchQuery string) bool {
	if f.Completed != nil {
		if todo.Completed != *f.Completed {
			return false
		}
	} else if todo.Completed {
		return false
	}

	if f.Priority != nil && todo.Priority != *f.Priority {
		return false
	}

	if f.Tag != "" && !todo.HasTag(f.Tag) {
		return false
	}

	if searchQuery == "" {
		searchQuery = f.Search
	}
	if searchQuery != "" {
		if !internalstrings.ContainsFold(todo.Title, searchQuery) {
			return false
		}
	}

	return true
}

// ApplyFilter returns the todos that pass filter, in source order.
func ApplyFilter(todos []Todo, filter Filter, searchQuery string) []Todo {
	filtered := make([]Todo, 0, len(todos))
	for _, todo := range todos {
		if filter.Matches(todo, searchQuery) {
			filtered = append(filtered, todo)
		}
	}
	return filtered
}
