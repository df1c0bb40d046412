// Package sqlitestore implements todo.Port on an embedded SQLite database.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	sq "github.com/Masterminds/squirrel"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/Saheb006/focusflow-organize-main/internal/ids"
	"github.com/Saheb006/focusflow-organize-main/internal/records"
	"github.com/Saheb006/focusflow-organize-main/todo"
)

// timeLayout sorts lexically in the same order as the times it encodes.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

var dialect = records.Dialect{
	Placeholder: sq.Question,
	EncodeTags:  records.JSONTags,
	EncodeDate:  func(d todo.Date) any { return d.String() },
	EncodeTime:  func(t time.Time) any { return t.UTC().Format(timeLayout) },
}

// Store is a todo.Port backed by SQLite.
type Store struct {
	db  *sql.DB
	b   records.Builder
	now func() time.Time
}

var _ todo.Port = (*Store)(nil)

// Open opens the database at path. It does not create the tables; call
// Migrate for that.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, todo.NewError(todo.KindConfiguration, "open sqlite", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, translate("open sqlite", err)
	}
	return New(db), nil
}

// New wraps an open database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db, b: records.NewBuilder(dialect), now: time.Now}
}

func dsn(path string) string {
	query := url.Values{}
	query.Add("_pragma", "foreign_keys(1)")
	query.Add("_pragma", "busy_timeout(5000)")
	query.Add("_pragma", "journal_mode(WAL)")
	query.Add("_pragma", "synchronous(NORMAL)")
	return "file:" + path + "?" + query.Encode()
}

// SetClock replaces the clock used for created_at timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the tables if they don't exist.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return translate("migrate", err)
		}
	}
	return nil
}

// ProbeHealth checks that the database answers and both tables exist.
func (s *Store) ProbeHealth(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return translate("probe health", err)
	}
	present, err := s.schemaPresent(ctx)
	if err != nil {
		return translate("probe health", err)
	}
	if !present {
		return todo.NewError(todo.KindSchemaMissing, "probe health", errors.New("todos and sub_todos tables do not exist"))
	}
	return nil
}

func (s *Store) schemaPresent(ctx context.Context) (bool, error) {
	query, args, err := sq.Select("count(*)").
		From("sqlite_master").
		Where(sq.Eq{"type": "table", "name": []string{records.TodosTable, records.SubTodosTable}}).
		ToSql()
	if err != nil {
		return false, err
	}
	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, err
	}
	return count == 2, nil
}

// ListTodos returns the user's todos, newest first, with their sub-todos.
func (s *Store) ListTodos(ctx context.Context, userID string) ([]todo.Todo, error) {
	const op = "list todos"

	todos, err := queryAll(ctx, s.db, s.b.ListTodos(userID), records.ScanTodo)
	if err != nil {
		return nil, s.classify(ctx, op, err)
	}
	if len(todos) == 0 {
		return todos, nil
	}

	subs, err := queryAll(ctx, s.db, s.b.ListSubTodos(records.IDs(todos)), records.ScanSubTodo)
	if err != nil {
		return nil, s.classify(ctx, op, err)
	}
	return records.Attach(todos, subs), nil
}

// InsertTodo stores a new todo.
func (s *Store) InsertTodo(ctx context.Context, userID string, fields todo.TodoFields) (todo.Todo, error) {
	const op = "insert todo"

	id := ids.New()
	createdAt := s.now().UTC()
	insert, err := s.b.InsertTodo(id, userID, fields, createdAt)
	if err != nil {
		return todo.Todo{}, todo.NewError(todo.KindValidation, op, err)
	}
	if _, err := exec(ctx, s.db, insert); err != nil {
		return todo.Todo{}, s.classify(ctx, op, err)
	}

	return todo.Todo{
		ID:          id,
		Title:       fields.Title,
		Description: fields.Description,
		Completed:   fields.Completed,
		Priority:    fields.Priority,
		Color:       fields.Color,
		DueDate:     fields.DueDate,
		DueTime:     fields.DueTime,
		Tags:        append([]string{}, fields.Tags...),
		SubTodos:    []todo.SubTodo{},
		CreatedAt:   createdAt,
		CompletedAt: fields.CompletedAt,
	}, nil
}

// PatchTodo updates the fields touched by patch.
func (s *Store) PatchTodo(ctx context.Context, userID, id string, patch todo.TodoPatch) error {
	const op = "patch todo"

	update, ok, err := s.b.UpdateTodo(userID, id, patch)
	if err != nil {
		return todo.NewError(todo.KindValidation, op, err)
	}
	if !ok {
		return nil
	}
	return s.execOne(ctx, op, update, todo.ErrTodoNotFound, id)
}

// RemoveTodo deletes a todo; its sub-todos go with it.
func (s *Store) RemoveTodo(ctx context.Context, userID, id string) error {
	return s.execOne(ctx, "remove todo", s.b.DeleteTodo(userID, id), todo.ErrTodoNotFound, id)
}

// InsertSubTodo stores a new sub-todo.
func (s *Store) InsertSubTodo(ctx context.Context, userID, todoID string, fields todo.SubTodoFields) (todo.SubTodo, error) {
	const op = "insert sub-todo"

	if err := s.ownTodo(ctx, op, userID, todoID); err != nil {
		return todo.SubTodo{}, err
	}
	id := ids.New()
	createdAt := s.now().UTC()
	if _, err := exec(ctx, s.db, s.b.InsertSubTodo(id, todoID, fields, createdAt)); err != nil {
		return todo.SubTodo{}, s.classify(ctx, op, err)
	}

	return todo.SubTodo{
		ID:        id,
		TodoID:    todoID,
		Title:     fields.Title,
		Completed: fields.Completed,
		DueDate:   fields.DueDate,
		DueTime:   fields.DueTime,
		CreatedAt: createdAt,
	}, nil
}

// PatchSubTodo updates the fields touched by patch.
func (s *Store) PatchSubTodo(ctx context.Context, userID, todoID, id string, patch todo.SubTodoPatch) error {
	update, ok := s.b.UpdateSubTodo(userID, todoID, id, patch)
	if !ok {
		return nil
	}
	return s.execOne(ctx, "patch sub-todo", update, todo.ErrSubTodoNotFound, id)
}

// RemoveSubTodo deletes a sub-todo.
func (s *Store) RemoveSubTodo(ctx context.Context, userID, todoID, id string) error {
	return s.execOne(ctx, "remove sub-todo", s.b.DeleteSubTodo(userID, todoID, id), todo.ErrSubTodoNotFound, id)
}

// ownTodo reports KindNotFound unless userID owns todoID.
func (s *Store) ownTodo(ctx context.Context, op, userID, todoID string) error {
	query, args, err := s.b.OwnedTodo(userID, todoID).ToSql()
	if err != nil {
		return translate(op, err)
	}
	var one int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return todo.NewError(todo.KindNotFound, op, fmt.Errorf("%w: %s", todo.ErrTodoNotFound, todoID))
		}
		return s.classify(ctx, op, err)
	}
	return nil
}

func (s *Store) execOne(ctx context.Context, op string, stmt sq.Sqlizer, notFound error, id string) error {
	result, err := exec(ctx, s.db, stmt)
	if err != nil {
		return s.classify(ctx, op, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return translate(op, err)
	}
	if affected == 0 {
		return todo.NewError(todo.KindNotFound, op, fmt.Errorf("%w: %s", notFound, id))
	}
	return nil
}

func exec(ctx context.Context, db *sql.DB, stmt sq.Sqlizer) (sql.Result, error) {
	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, err
	}
	return db.ExecContext(ctx, query, args...)
}

func queryAll[T any](ctx context.Context, db *sql.DB, stmt sq.Sqlizer, scan func(records.Row) (T, error)) ([]T, error) {
	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// classify translates err, checking whether a generic SQL error comes from
// missing tables.
func (s *Store) classify(ctx context.Context, op string, err error) error {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqlite3.SQLITE_ERROR {
		if present, checkErr := s.schemaPresent(ctx); checkErr == nil && !present {
			return todo.NewError(todo.KindSchemaMissing, op, err)
		}
	}
	return translate(op, err)
}

// translate maps SQLite result codes to error kinds.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return todo.NewError(todo.KindUnavailable, op, err)
	}

	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return todo.NewError(todo.KindInternal, op, err)
	}

	code := sqliteErr.Code()
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return todo.NewError(todo.KindNotFound, op, fmt.Errorf("%w: %v", todo.ErrTodoNotFound, err))
	}
	switch code & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_IOERR:
		return todo.NewError(todo.KindUnavailable, op, err)
	case sqlite3.SQLITE_PERM, sqlite3.SQLITE_AUTH, sqlite3.SQLITE_READONLY:
		return todo.NewError(todo.KindPermission, op, err)
	case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_NOTADB:
		return todo.NewError(todo.KindConfiguration, op, err)
	case sqlite3.SQLITE_CONSTRAINT, sqlite3.SQLITE_MISMATCH:
		return todo.NewError(todo.KindValidation, op, err)
	default:
		return todo.NewError(todo.KindInternal, op, err)
	}
}
