// Package records builds the SQL shared by the relational todo stores and
// decodes their rows.
package records

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/Saheb006/focusflow-organize-main/todo"
)

const (
	TodosTable    = "todos"
	SubTodosTable = "sub_todos"
)

// Dialect describes how a database stores the todo columns.
type Dialect struct {
	Placeholder sq.PlaceholderFormat
	// CastID wraps an id column in select lists so it scans into a string.
	CastID func(column string) string
	// EncodeTags converts tags to a column value.
	EncodeTags func(tags []string) (any, error)
	// EncodeDate converts a due date to a column value.
	EncodeDate func(d todo.Date) any
	// EncodeTime converts a timestamp to a column value.
	EncodeTime func(t time.Time) any
}

// JSONTags stores tags as a JSON array in a text column.
func JSONTags(tags []string) (any, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	return string(data), nil
}

// Builder builds todo statements for a dialect.
type Builder struct {
	dialect Dialect
	sql     sq.StatementBuilderType
}

// NewBuilder returns a Builder for dialect.
func NewBuilder(dialect Dialect) Builder {
	if dialect.CastID == nil {
		dialect.CastID = func(column string) string { return column }
	}
	return Builder{dialect: dialect, sql: sq.StatementBuilder.PlaceholderFormat(dialect.Placeholder)}
}

func (b Builder) todoColumns() []string {
	return []string{
		b.dialect.CastID("id"), "title", "description", "completed", "priority", "color",
		"due_date", "due_time", "tags", "created_at", "completed_at",
	}
}

func (b Builder) subTodoColumns() []string {
	return []string{
		b.dialect.CastID("id"), b.dialect.CastID("todo_id"), "title", "completed",
		"due_date", "due_time", "created_at",
	}
}

// ListTodos selects a user's todos, newest first.
func (b Builder) ListTodos(userID string) sq.SelectBuilder {
	return b.sql.Select(b.todoColumns()...).
		From(TodosTable).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC")
}

// ListSubTodos selects the sub-todos of todoIDs in creation order.
func (b Builder) ListSubTodos(todoIDs []string) sq.SelectBuilder {
	return b.sql.Select(b.subTodoColumns()...).
		From(SubTodosTable).
		Where(sq.Eq{"todo_id": todoIDs}).
		OrderBy("created_at ASC", "id ASC")
}

// InsertTodo inserts a todo record.
func (b Builder) InsertTodo(id, userID string, fields todo.TodoFields, createdAt time.Time) (sq.InsertBuilder, error) {
	tags, err := b.dialect.EncodeTags(fields.Tags)
	if err != nil {
		return sq.InsertBuilder{}, err
	}
	return b.sql.Insert(TodosTable).SetMap(map[string]any{
		"id":           id,
		"user_id":      userID,
		"title":        fields.Title,
		"description":  nullString(fields.Description),
		"completed":    fields.Completed,
		"priority":     string(fields.Priority),
		"color":        nullString(fields.Color),
		"due_date":     b.encodeDate(fields.DueDate),
		"due_time":     nullString(fields.DueTime),
		"tags":         tags,
		"created_at":   b.dialect.EncodeTime(createdAt),
		"completed_at": b.encodeTime(fields.CompletedAt),
	}), nil
}

// InsertSubTodo inserts a sub-todo record.
func (b Builder) InsertSubTodo(id, todoID string, fields todo.SubTodoFields, createdAt time.Time) sq.InsertBuilder {
	return b.sql.Insert(SubTodosTable).SetMap(map[string]any{
		"id":         id,
		"todo_id":    todoID,
		"title":      fields.Title,
		"completed":  fields.Completed,
		"due_date":   b.encodeDate(fields.DueDate),
		"due_time":   nullString(fields.DueTime),
		"created_at": b.dialect.EncodeTime(createdAt),
	})
}

// TodoSetMap returns the column assignments for patch. Cleared fields map
// to NULL.
func (b Builder) TodoSetMap(patch todo.TodoPatch) (map[string]any, error) {
	set := map[string]any{}
	if v, ok := patch.Title.Value(); ok {
		set["title"] = v
	}
	setNullable(set, "description", patch.Description)
	if v, ok := patch.Completed.Value(); ok {
		set["completed"] = v
	}
	if v, ok := patch.Priority.Value(); ok {
		set["priority"] = string(v)
	}
	setNullable(set, "color", patch.Color)
	if patch.DueDate.Touched() {
		set["due_date"] = b.encodeDate(patch.DueDate.Ptr())
	}
	setNullable(set, "due_time", patch.DueTime)
	if patch.Tags.Touched() {
		tags, _ := patch.Tags.Value()
		encoded, err := b.dialect.EncodeTags(tags)
		if err != nil {
			return nil, err
		}
		set["tags"] = encoded
	}
	if patch.CompletedAt.Touched() {
		set["completed_at"] = b.encodeTime(patch.CompletedAt.Ptr())
	}
	return set, nil
}

// SubTodoSetMap returns the column assignments for patch.
func (b Builder) SubTodoSetMap(patch todo.SubTodoPatch) map[string]any {
	set := map[string]any{}
	if v, ok := patch.Title.Value(); ok {
		set["title"] = v
	}
	if v, ok := patch.Completed.Value(); ok {
		set["completed"] = v
	}
	if patch.DueDate.Touched() {
		set["due_date"] = b.encodeDate(patch.DueDate.Ptr())
	}
	setNullable(set, "due_time", patch.DueTime)
	return set
}

// UpdateTodo updates one of userID's todos. It returns false when the patch
// is empty.
func (b Builder) UpdateTodo(userID, id string, patch todo.TodoPatch) (sq.UpdateBuilder, bool, error) {
	set, err := b.TodoSetMap(patch)
	if err != nil || len(set) == 0 {
		return sq.UpdateBuilder{}, false, err
	}
	return b.sql.Update(TodosTable).SetMap(set).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"user_id": userID}), true, nil
}

// UpdateSubTodo updates a sub-todo of todoID, which userID must own. It
// returns false when the patch is empty.
func (b Builder) UpdateSubTodo(userID, todoID, id string, patch todo.SubTodoPatch) (sq.UpdateBuilder, bool) {
	set := b.SubTodoSetMap(patch)
	if len(set) == 0 {
		return sq.UpdateBuilder{}, false
	}
	return b.sql.Update(SubTodosTable).SetMap(set).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"todo_id": todoID}).
		Where(ownedParent(userID)), true
}

// DeleteTodo deletes one of userID's todos.
func (b Builder) DeleteTodo(userID, id string) sq.DeleteBuilder {
	return b.sql.Delete(TodosTable).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"user_id": userID})
}

// DeleteSubTodo deletes a sub-todo of todoID, which userID must own.
func (b Builder) DeleteSubTodo(userID, todoID, id string) sq.DeleteBuilder {
	return b.sql.Delete(SubTodosTable).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"todo_id": todoID}).
		Where(ownedParent(userID))
}

// OwnedTodo selects a row when userID owns todoID.
func (b Builder) OwnedTodo(userID, todoID string) sq.SelectBuilder {
	return b.sql.Select("1").
		From(TodosTable).
		Where(sq.Eq{"id": todoID}).
		Where(sq.Eq{"user_id": userID}).
		Limit(1)
}

func ownedParent(userID string) sq.Sqlizer {
	return sq.Expr("todo_id IN (SELECT id FROM "+TodosTable+" WHERE user_id = ?)", userID)
}

// Probe selects nothing from both tables; it fails when either is missing.
func (b Builder) Probe() []sq.SelectBuilder {
	return []sq.SelectBuilder{
		b.sql.Select("1").From(TodosTable).Limit(1),
		b.sql.Select("1").From(SubTodosTable).Limit(1),
	}
}

func (b Builder) encodeDate(d *todo.Date) any {
	if d == nil {
		return nil
	}
	return b.dialect.EncodeDate(*d)
}

func (b Builder) encodeTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return b.dialect.EncodeTime(*t)
}

func nullString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func setNullable(set map[string]any, column string, field todo.Field[string]) {
	if !field.Touched() {
		return
	}
	value, _ := field.Value()
	set[column] = nullString(value)
}
