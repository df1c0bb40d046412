package records

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Saheb006/focusflow-organize-main/todo"
)

// Row is a scannable result row. Both *sql.Row(s) and pgx rows satisfy it.
type Row interface {
	Scan(dest ...any) error
}

// ScanTodo decodes a row selected with the ListTodos columns. Sub-todos are
// attached by the caller.
func ScanTodo(row Row) (todo.Todo, error) {
	var (
		item                                  todo.Todo
		description, color, dueTime           *string
		priority                              string
		dueDate, tags, createdAt, completedAt any
	)
	if err := row.Scan(&item.ID, &item.Title, &description, &item.Completed, &priority, &color,
		&dueDate, &dueTime, &tags, &createdAt, &completedAt); err != nil {
		return todo.Todo{}, err
	}

	item.Description = deref(description)
	item.Color = deref(color)
	item.DueTime = deref(dueTime)
	item.Priority = todo.Priority(priority)
	item.SubTodos = []todo.SubTodo{}

	var err error
	if item.DueDate, err = decodeDate(dueDate); err != nil {
		return todo.Todo{}, err
	}
	if item.Tags, err = decodeTags(tags); err != nil {
		return todo.Todo{}, err
	}
	created, err := decodeTime(createdAt)
	if err != nil {
		return todo.Todo{}, err
	}
	if created != nil {
		item.CreatedAt = *created
	}
	if item.CompletedAt, err = decodeTime(completedAt); err != nil {
		return todo.Todo{}, err
	}
	return item, nil
}

// ScanSubTodo decodes a row selected with the ListSubTodos columns.
func ScanSubTodo(row Row) (todo.SubTodo, error) {
	var (
		sub                todo.SubTodo
		dueTime            *string
		dueDate, createdAt any
	)
	if err := row.Scan(&sub.ID, &sub.TodoID, &sub.Title, &sub.Completed, &dueDate, &dueTime, &createdAt); err != nil {
		return todo.SubTodo{}, err
	}
	sub.DueTime = deref(dueTime)

	var err error
	if sub.DueDate, err = decodeDate(dueDate); err != nil {
		return todo.SubTodo{}, err
	}
	created, err := decodeTime(createdAt)
	if err != nil {
		return todo.SubTodo{}, err
	}
	if created != nil {
		sub.CreatedAt = *created
	}
	return sub, nil
}

// Attach nests subs under their parents, keeping the order of both.
func Attach(todos []todo.Todo, subs []todo.SubTodo) []todo.Todo {
	index := make(map[string]int, len(todos))
	for i, item := range todos {
		index[item.ID] = i
	}
	for _, sub := range subs {
		if i, ok := index[sub.TodoID]; ok {
			todos[i].SubTodos = append(todos[i].SubTodos, sub)
		}
	}
	return todos
}

// IDs returns the IDs of todos.
func IDs(todos []todo.Todo) []string {
	out := make([]string, len(todos))
	for i, item := range todos {
		out[i] = item.ID
	}
	return out
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func decodeDate(value any) (*todo.Date, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return todo.DatePtr(todo.DateOf(v)), nil
	case string:
		return parseDate(v)
	case []byte:
		return parseDate(string(v))
	default:
		return nil, fmt.Errorf("decode due_date: unexpected %T", value)
	}
}

func parseDate(value string) (*todo.Date, error) {
	if value == "" {
		return nil, nil
	}
	// Drivers may hand back a full timestamp for a date column.
	if len(value) > len(todo.DateLayout) {
		value = value[:len(todo.DateLayout)]
	}
	d, err := todo.ParseDate(value)
	if err != nil {
		return nil, fmt.Errorf("decode due_date: %w", err)
	}
	return &d, nil
}

func decodeTime(value any) (*time.Time, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return &v, nil
	case string:
		return parseTime(v)
	case []byte:
		return parseTime(string(v))
	default:
		return nil, fmt.Errorf("decode timestamp: unexpected %T", value)
	}
}

func parseTime(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return nil, fmt.Errorf("decode timestamp: %w", err)
	}
	return &t, nil
}

func decodeTags(value any) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return []string{}, nil
	case []string:
		return v, nil
	case []any:
		tags := make([]string, 0, len(v))
		for _, tag := range v {
			s, ok := tag.(string)
			if !ok {
				return nil, fmt.Errorf("decode tags: unexpected element %T", tag)
			}
			tags = append(tags, s)
		}
		return tags, nil
	case string:
		return unmarshalTags([]byte(v))
	case []byte:
		return unmarshalTags(v)
	default:
		return nil, fmt.Errorf("decode tags: unexpected %T", value)
	}
}

func unmarshalTags(data []byte) ([]string, error) {
	if len(data) == 0 {
		return []string{}, nil
	}
	tags := []string{}
	if err := json.Unmarshal(data, &tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	return tags, nil
}
