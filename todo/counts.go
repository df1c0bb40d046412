package todo

// PriorityCounts summarizes a todo list for the priority panel.
type PriorityCounts struct {
	// Incomplete counts incomplete todos per priority.
	Incomplete map[Priority]int `json:"incomplete"`
	// Completed counts completed todos of any priority.
	Completed int `json:"completed"`
}

// Stats is the overview shown above the todo list.
type Stats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
}

// CountPriorities counts incomplete todos per priority and completed todos.
func CountPriorities(todos []Todo) PriorityCounts {
	counts := PriorityCounts{Incomplete: make(map[Priority]int, len(ValidPriorities()))}
	for _, p := range ValidPriorities() {
		counts.Incomplete[p] = 0
	}
	for _, todo := range todos {
		if todo.Completed {
			counts.Completed++
			continue
		}
		counts.Incomplete[todo.Priority]++
	}
	return counts
}

// Overview counts todos by completion state.
func Overview(todos []Todo) Stats {
	stats := Stats{Total: len(todos)}
	for _, todo := range todos {
		if todo.Completed {
			stats.Completed++
		}
	}
	stats.Active = stats.Total - stats.Completed
	return stats
}
