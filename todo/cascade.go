package todo

import "time"

// RecomputeParentCompletion returns the completion state a parent should take
// after one of its sub-todos was toggled. subs is the parent's full sub-todo
// list after the toggle. A parent with no sub-todos keeps its state.
func RecomputeParentCompletion(parent Todo, subs []SubTodo) bool {
	if len(subs) == 0 {
		return parent.Completed
	}
	return allCompleted(subs)
}

// CompletedAfterSubTodoDelete returns the completion state a parent should take
// after a sub-todo was deleted. remaining excludes the deleted sub-todo.
// Deletion never completes a parent; a completed parent stays completed only
// while at least one sub-todo remains and all remaining are completed.
func CompletedAfterSubTodoDelete(parent Todo, remaining []SubTodo) bool {
	if !parent.Completed {
		return false
	}
	return len(remaining) > 0 && allCompleted(remaining)
}

// CompletionPatch returns the patch that moves a todo to completed, keeping
// completed_at in step.
func CompletionPatch(completed bool, now time.Time) TodoPatch {
	patch := TodoPatch{Completed: Set(completed)}
	if completed {
		patch.CompletedAt = Set(now)
	} else {
		patch.CompletedAt = Cleared[time.Time]()
	}
	return patch
}

func allCompleted(subs []SubTodo) bool {
	for _, sub := range subs {
		if !sub.Completed {
			return false
		}
	}
	return true
}

func withoutSubTodo(subs []SubTodo, id string) []SubTodo {
	remaining := make([]SubTodo, 0, len(subs))
	for _, sub := range subs {
		if sub.ID != id {
			remaining = append(remaining, sub)
		}
	}
	return remaining
}
