package todo

import (
	"fmt"

	"github.com/Saheb006/focusflow-organize-main/internal/ids"
)

// IDIndex indexes todo and sub-todo IDs for prefix matching and display.
type IDIndex struct {
	ids []string
}

// NewIDIndex builds an IDIndex from the todos and their sub-todos.
func NewIDIndex(todos []Todo) IDIndex {
	all := make([]string, 0, len(todos))
	for _, todo := range todos {
		all = append(all, todo.ID)
		for _, sub := range todo.SubTodos {
			all = append(all, sub.ID)
		}
	}
	return IDIndex{ids: ids.NormalizeUnique(all)}
}

// Resolve returns the full ID for a prefix.
func (index IDIndex) Resolve(prefix string) (string, error) {
	if prefix == "" {
		return "", ErrTodoNotFound
	}

	match, found, ambiguous := ids.MatchPrefix(index.ids, prefix)
	if !found {
		return "", fmt.Errorf("%w: %s", ErrTodoNotFound, prefix)
	}
	if ambiguous {
		return "", fmt.Errorf("%w: %s", ErrAmbiguousTodoIDPrefix, prefix)
	}

	return match, nil
}

// PrefixLengths returns the shortest unique prefix length for each ID.
func (index IDIndex) PrefixLengths() map[string]int {
	return ids.UniquePrefixLengths(index.ids)
}

// ResolveTodo resolves a todo ID prefix against todos.
func ResolveTodo(todos []Todo, prefix string) (Todo, error) {
	id, err := NewIDIndex(todos).Resolve(prefix)
	if err != nil {
		return Todo{}, err
	}
	todo, ok := Find(todos, id)
	if !ok {
		return Todo{}, fmt.Errorf("%w: %s is a sub-todo", ErrTodoNotFound, prefix)
	}
	return todo, nil
}

// ResolveSubTodo resolves a sub-todo ID prefix within parent.
func ResolveSubTodo(parent Todo, prefix string) (SubTodo, error) {
	subIDs := make([]string, 0, len(parent.SubTodos))
	for _, sub := range parent.SubTodos {
		subIDs = append(subIDs, sub.ID)
	}
	match, found, ambiguous := ids.MatchPrefix(ids.NormalizeUnique(subIDs), prefix)
	if prefix == "" || !found {
		return SubTodo{}, fmt.Errorf("%w: %s", ErrSubTodoNotFound, prefix)
	}
	if ambiguous {
		return SubTodo{}, fmt.Errorf("%w: %s", ErrAmbiguousTodoIDPrefix, prefix)
	}
	sub, _, _ := parent.SubTodo(match)
	return sub, nil
}
