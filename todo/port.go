package todo

import "context"

// Port is the persistence contract the package depends on. Stores are
// passive: they save what they are given and apply no todo rules.
//
// Every error a Port returns should be an *Error whose Kind was assigned
// when the backend failure was translated.
type Port interface {
	// ListTodos returns the user's todos, newest created first, each with its
	// sub-todos in creation order.
	ListTodos(ctx context.Context, userID string) ([]Todo, error)

	// InsertTodo stores a new todo. The store assigns ID and CreatedAt.
	InsertTodo(ctx context.Context, userID string, fields TodoFields) (Todo, error)

	// Writes are scoped to userID. A todo the user does not own, or a
	// sub-todo that is not under todoID, is reported as KindNotFound.
	PatchTodo(ctx context.Context, userID, id string, patch TodoPatch) error
	RemoveTodo(ctx context.Context, userID, id string) error

	// InsertSubTodo stores a new sub-todo under todoID.
	InsertSubTodo(ctx context.Context, userID, todoID string, fields SubTodoFields) (SubTodo, error)

	PatchSubTodo(ctx context.Context, userID, todoID, id string, patch SubTodoPatch) error
	RemoveSubTodo(ctx context.Context, userID, todoID, id string) error

	// ProbeHealth returns nil when the backend is reachable and provisioned.
	ProbeHealth(ctx context.Context) error
}
