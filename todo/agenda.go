package todo

import "sort"

// AgendaGroup is a todo with the parts of it that are coming up.
type AgendaGroup struct {
	Todo Todo `json:"todo"`
	// ParentDue is true when the todo's own due date qualifies.
	ParentDue bool `json:"parent_due"`
	// SubTodos holds only the sub-todos whose due date qualifies.
	SubTodos []SubTodo `json:"sub_todos"`
	// Earliest is the earliest qualifying date in the group.
	Earliest *Date `json:"earliest,omitempty"`
}

// HierarchicalAgenda returns the todos with something due on or after from,
// ordered by their earliest qualifying date. Groups with equal dates keep the
// source order; groups without any date sort last.
func HierarchicalAgenda(todos []Todo, from Date) []AgendaGroup {
	groups := make([]AgendaGroup, 0, len(todos))
	for _, todo := range todos {
		group := AgendaGroup{Todo: todo, ParentDue: onOrAfter(todo.DueDate, from)}
		for _, sub := range todo.SubTodos {
			if onOrAfter(sub.DueDate, from) {
				group.SubTodos = append(group.SubTodos, sub)
			}
		}
		if !group.ParentDue && len(group.SubTodos) == 0 {
			continue
		}
		group.Earliest = earliestDate(group)
		groups = append(groups, group)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].Earliest, groups[j].Earliest
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return groups
}

func earliestDate(group AgendaGroup) *Date {
	if group.ParentDue {
		return group.Todo.DueDate
	}
	var earliest *Date
	for _, sub := range group.SubTodos {
		if sub.DueDate == nil {
			continue
		}
		if earliest == nil || sub.DueDate.Before(*earliest) {
			earliest = sub.DueDate
		}
	}
	return earliest
}
