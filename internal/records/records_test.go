package records

import (
	"errors"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/go-cmp/cmp"

	"github.com/Saheb006/focusflow-organize-main/todo"
)

func testDialect(placeholder sq.PlaceholderFormat) Dialect {
	return Dialect{
		Placeholder: placeholder,
		EncodeTags:  JSONTags,
		EncodeDate:  func(d todo.Date) any { return d.String() },
		EncodeTime:  func(t time.Time) any { return t.UTC().Format(time.RFC3339Nano) },
	}
}

func TestListTodosSQL(t *testing.T) {
	b := NewBuilder(testDialect(sq.Dollar))
	query, args, err := b.ListTodos("u1").ToSql()
	if err != nil {
		t.Fatalf("to sql: %v", err)
	}

	want := "SELECT id, title, description, completed, priority, color, due_date, due_time, tags, created_at, completed_at FROM todos WHERE user_id = $1 ORDER BY created_at DESC, id DESC"
	if diff := cmp.Diff(want, query); diff != "" {
		t.Fatalf("query mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{"u1"}, args); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestListSubTodosSQLUsesIn(t *testing.T) {
	dialect := testDialect(sq.Question)
	dialect.CastID = func(column string) string { return column + "::text" }
	query, args, err := NewBuilder(dialect).ListSubTodos([]string{"a", "b"}).ToSql()
	if err != nil {
		t.Fatalf("to sql: %v", err)
	}

	want := "SELECT id::text, todo_id::text, title, completed, due_date, due_time, created_at FROM sub_todos WHERE todo_id IN (?,?) ORDER BY created_at ASC, id ASC"
	if diff := cmp.Diff(want, query); diff != "" {
		t.Fatalf("query mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{"a", "b"}, args); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestTodoSetMapClearsToNull(t *testing.T) {
	b := NewBuilder(testDialect(sq.Question))
	completedAt := time.Date(2024, time.May, 1, 8, 30, 0, 0, time.UTC)

	set, err := b.TodoSetMap(todo.TodoPatch{
		Title:       todo.Set("New"),
		Description: todo.Cleared[string](),
		DueDate:     todo.Cleared[todo.Date](),
		Tags:        todo.Set([]string{"a", "b"}),
		Completed:   todo.Set(true),
		CompletedAt: todo.Set(completedAt),
		Priority:    todo.Set(todo.PriorityUrgent),
	})
	if err != nil {
		t.Fatalf("set map: %v", err)
	}

	want := map[string]any{
		"title":        "New",
		"description":  nil,
		"due_date":     nil,
		"tags":         `["a","b"]`,
		"completed":    true,
		"completed_at": "2024-05-01T08:30:00Z",
		"priority":     "urgent",
	}
	if diff := cmp.Diff(want, set); diff != "" {
		t.Fatalf("set map mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateTodoSkipsEmptyPatch(t *testing.T) {
	b := NewBuilder(testDialect(sq.Question))
	if _, ok, err := b.UpdateTodo("u1", "id", todo.TodoPatch{}); ok || err != nil {
		t.Fatalf("expected empty patch to be skipped, got ok=%v err=%v", ok, err)
	}

	update, ok, err := b.UpdateTodo("u1", "id", todo.TodoPatch{DueTime: todo.Set("14:30")})
	if err != nil || !ok {
		t.Fatalf("expected update, got ok=%v err=%v", ok, err)
	}
	query, args, err := update.ToSql()
	if err != nil {
		t.Fatalf("to sql: %v", err)
	}
	if diff := cmp.Diff("UPDATE todos SET due_time = ? WHERE id = ? AND user_id = ?", query); diff != "" {
		t.Fatalf("query mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{"14:30", "id", "u1"}, args); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestSubTodoSetMap(t *testing.T) {
	b := NewBuilder(testDialect(sq.Question))
	due := todo.NewDate(2024, time.June, 2)

	set := b.SubTodoSetMap(todo.SubTodoPatch{Completed: todo.Set(false), DueDate: todo.Set(due), DueTime: todo.Set(" ")})
	want := map[string]any{"completed": false, "due_date": "2024-06-02", "due_time": nil}
	if diff := cmp.Diff(want, set); diff != "" {
		t.Fatalf("set map mismatch (-want +got):\n%s", diff)
	}

	if _, ok := b.UpdateSubTodo("u1", "t1", "id", todo.SubTodoPatch{}); ok {
		t.Fatalf("expected empty sub-todo patch to be skipped")
	}
}

func TestWritesAreScopedToOwner(t *testing.T) {
	b := NewBuilder(testDialect(sq.Dollar))
	update, ok := b.UpdateSubTodo("u1", "t1", "s1", todo.SubTodoPatch{Title: todo.Set("x")})
	if !ok {
		t.Fatalf("expected sub-todo update")
	}

	tests := []struct {
		name  string
		stmt  sq.Sqlizer
		query string
		args  []any
	}{
		{
			name:  "delete todo",
			stmt:  b.DeleteTodo("u1", "t1"),
			query: "DELETE FROM todos WHERE id = $1 AND user_id = $2",
			args:  []any{"t1", "u1"},
		},
		{
			name:  "update sub-todo",
			stmt:  update,
			query: "UPDATE sub_todos SET title = $1 WHERE id = $2 AND todo_id = $3 AND todo_id IN (SELECT id FROM todos WHERE user_id = $4)",
			args:  []any{"x", "s1", "t1", "u1"},
		},
		{
			name:  "delete sub-todo",
			stmt:  b.DeleteSubTodo("u1", "t1", "s1"),
			query: "DELETE FROM sub_todos WHERE id = $1 AND todo_id = $2 AND todo_id IN (SELECT id FROM todos WHERE user_id = $3)",
			args:  []any{"s1", "t1", "u1"},
		},
		{
			name:  "owned todo",
			stmt:  b.OwnedTodo("u1", "t1"),
			query: "SELECT 1 FROM todos WHERE id = $1 AND user_id = $2 LIMIT 1",
			args:  []any{"t1", "u1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := tt.stmt.ToSql()
			if err != nil {
				t.Fatalf("to sql: %v", err)
			}
			if diff := cmp.Diff(tt.query, query); diff != "" {
				t.Fatalf("query mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.args, args); diff != "" {
				t.Fatalf("args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

type fakeRow []any

func (r fakeRow) Scan(dest ...any) error {
	if len(dest) != len(r) {
		return errors.New("column count mismatch")
	}
	for i, value := range r {
		switch d := dest[i].(type) {
		case *string:
			*d = value.(string)
		case **string:
			if value != nil {
				s := value.(string)
				*d = &s
			}
		case *bool:
			*d = value.(bool)
		case *any:
			*d = value
		default:
			return errors.New("unsupported destination")
		}
	}
	return nil
}

func TestScanTodoDecodesTextColumns(t *testing.T) {
	row := fakeRow{
		"id1", "Title", nil, true, "high", "#fff",
		"2024-05-10", "09:00", `["x","y"]`, "2024-05-01T10:00:00Z", "2024-05-02T11:00:00Z",
	}

	item, err := ScanTodo(row)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	completedAt := time.Date(2024, time.May, 2, 11, 0, 0, 0, time.UTC)
	want := todo.Todo{
		ID:          "id1",
		Title:       "Title",
		Completed:   true,
		Priority:    todo.PriorityHigh,
		Color:       "#fff",
		DueDate:     todo.DatePtr(todo.NewDate(2024, time.May, 10)),
		DueTime:     "09:00",
		Tags:        []string{"x", "y"},
		SubTodos:    []todo.SubTodo{},
		CreatedAt:   time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC),
		CompletedAt: &completedAt,
	}
	if diff := cmp.Diff(want, item); diff != "" {
		t.Fatalf("todo mismatch (-want +got):\n%s", diff)
	}
}

func TestScanTodoDecodesNativeColumns(t *testing.T) {
	created := time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)
	row := fakeRow{
		"id1", "Title", "desc", false, "low", nil,
		time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC), nil, []any{"x"}, created, nil,
	}

	item, err := ScanTodo(row)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if item.DueDate == nil || *item.DueDate != todo.NewDate(2024, time.May, 10) {
		t.Fatalf("expected due date 2024-05-10, got %v", item.DueDate)
	}
	if diff := cmp.Diff([]string{"x"}, item.Tags); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
	if item.CompletedAt != nil || item.Description != "desc" {
		t.Fatalf("unexpected todo %+v", item)
	}
}

func TestAttachKeepsOrder(t *testing.T) {
	todos := []todo.Todo{{ID: "a", SubTodos: []todo.SubTodo{}}, {ID: "b", SubTodos: []todo.SubTodo{}}}
	subs := []todo.SubTodo{{ID: "1", TodoID: "b"}, {ID: "2", TodoID: "a"}, {ID: "3", TodoID: "b"}, {ID: "4", TodoID: "gone"}}

	attached := Attach(todos, subs)
	if len(attached[0].SubTodos) != 1 || attached[0].SubTodos[0].ID != "2" {
		t.Fatalf("unexpected sub-todos for a: %+v", attached[0].SubTodos)
	}
	if len(attached[1].SubTodos) != 2 || attached[1].SubTodos[0].ID != "1" || attached[1].SubTodos[1].ID != "3" {
		t.Fatalf("unexpected sub-todos for b: %+v", attached[1].SubTodos)
	}
}
