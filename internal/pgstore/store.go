// Package pgstore implements todo.Port on PostgreSQL.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Saheb006/focusflow-organize-main/internal/ids"
	"github.com/Saheb006/focusflow-organize-main/internal/records"
	"github.com/Saheb006/focusflow-organize-main/todo"
)

var dialect = records.Dialect{
	Placeholder: sq.Dollar,
	CastID:      func(column string) string { return column + "::text" },
	EncodeTags: func(tags []string) (any, error) {
		if tags == nil {
			tags = []string{}
		}
		return tags, nil
	},
	EncodeDate: func(d todo.Date) any { return d.Time(time.UTC) },
	EncodeTime: func(t time.Time) any { return t },
}

// Store is a todo.Port backed by a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
	b    records.Builder
	now  func() time.Time
}

var _ todo.Port = (*Store)(nil)

// Open connects to the database at url.
func Open(ctx context.Context, url string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, todo.NewError(todo.KindConfiguration, "open postgres", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, translate("open postgres", err)
	}
	return New(pool), nil
}

// New wraps an existing pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, b: records.NewBuilder(dialect), now: time.Now}
}

// Close closes the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Migrate creates the tables if they don't exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return translate("migrate", err)
	}
	return nil
}

// ProbeHealth pings the database and checks both tables are readable.
func (s *Store) ProbeHealth(ctx context.Context) error {
	const op = "probe health"
	if err := s.pool.Ping(ctx); err != nil {
		return translate(op, err)
	}
	for _, probe := range s.b.Probe() {
		query, args, err := probe.ToSql()
		if err != nil {
			return todo.NewError(todo.KindInternal, op, err)
		}
		rows, err := s.pool.Query(ctx, query, args...)
		if err != nil {
			return translate(op, err)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return translate(op, err)
		}
	}
	return nil
}

// ListTodos returns the user's todos, newest first, with their sub-todos.
func (s *Store) ListTodos(ctx context.Context, userID string) ([]todo.Todo, error) {
	const op = "list todos"

	todos, err := queryAll(ctx, s.pool, s.b.ListTodos(userID), records.ScanTodo)
	if err != nil {
		return nil, translate(op, err)
	}
	if len(todos) == 0 {
		return todos, nil
	}

	subs, err := queryAll(ctx, s.pool, s.b.ListSubTodos(records.IDs(todos)), records.ScanSubTodo)
	if err != nil {
		return nil, translate(op, err)
	}
	return records.Attach(todos, subs), nil
}

// InsertTodo stores a new todo.
func (s *Store) InsertTodo(ctx context.Context, userID string, fields todo.TodoFields) (todo.Todo, error) {
	const op = "insert todo"

	id := ids.New()
	createdAt := s.now().UTC().Truncate(time.Microsecond)
	insert, err := s.b.InsertTodo(id, userID, fields, createdAt)
	if err != nil {
		return todo.Todo{}, todo.NewError(todo.KindValidation, op, err)
	}
	if _, err := exec(ctx, s.pool, insert); err != nil {
		return todo.Todo{}, translate(op, err)
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
	createdAt := s.now().UTC().Truncate(time.Microsecond)
	if _, err := exec(ctx, s.pool, s.b.InsertSubTodo(id, todoID, fields, createdAt)); err != nil {
		return todo.SubTodo{}, translate(op, err)
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
	const op = "patch sub-todo"

	update, ok := s.b.UpdateSubTodo(userID, todoID, id, patch)
	if !ok {
		return nil
	}
	if !ids.Valid(todoID) {
		return todo.NewError(todo.KindNotFound, op, fmt.Errorf("%w: %s", todo.ErrTodoNotFound, todoID))
	}
	return s.execOne(ctx, op, update, todo.ErrSubTodoNotFound, id)
}

// RemoveSubTodo deletes a sub-todo.
func (s *Store) RemoveSubTodo(ctx context.Context, userID, todoID, id string) error {
	const op = "remove sub-todo"

	if !ids.Valid(todoID) {
		return todo.NewError(todo.KindNotFound, op, fmt.Errorf("%w: %s", todo.ErrTodoNotFound, todoID))
	}
	return s.execOne(ctx, op, s.b.DeleteSubTodo(userID, todoID, id), todo.ErrSubTodoNotFound, id)
}

// ownTodo reports KindNotFound unless userID owns todoID.
func (s *Store) ownTodo(ctx context.Context, op, userID, todoID string) error {
	notFound := todo.NewError(todo.KindNotFound, op, fmt.Errorf("%w: %s", todo.ErrTodoNotFound, todoID))
	if !ids.Valid(todoID) {
		return notFound
	}
	query, args, err := s.b.OwnedTodo(userID, todoID).ToSql()
	if err != nil {
		return translate(op, err)
	}
	var one int
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound
		}
		return translate(op, err)
	}
	return nil
}

func (s *Store) execOne(ctx context.Context, op string, stmt sq.Sqlizer, notFound error, id string) error {
	if !ids.Valid(id) {
		return todo.NewError(todo.KindNotFound, op, fmt.Errorf("%w: %s", notFound, id))
	}
	tag, err := exec(ctx, s.pool, stmt)
	if err != nil {
		return translate(op, err)
	}
	if tag.RowsAffected() == 0 {
		return todo.NewError(todo.KindNotFound, op, fmt.Errorf("%w: %s", notFound, id))
	}
	return nil
}

func exec(ctx context.Context, pool *pgxpool.Pool, stmt sq.Sqlizer) (pgconn.CommandTag, error) {
	query, args, err := stmt.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return pool.Exec(ctx, query, args...)
}

func queryAll[T any](ctx context.Context, pool *pgxpool.Pool, stmt sq.Sqlizer, scan func(records.Row) (T, error)) ([]T, error) {
	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx, query, args...)
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

// translate maps pgx and PostgreSQL errors to error kinds.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return todo.NewError(todo.KindNotFound, op, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return todo.NewError(todo.KindUnavailable, op, err)
	}

	var parseErr *pgconn.ParseConfigError
	if errors.As(err, &parseErr) {
		return todo.NewError(todo.KindConfiguration, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return todo.NewError(kindForCode(pgErr.Code), op, err)
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return todo.NewError(todo.KindUnavailable, op, err)
	}

	return todo.NewError(todo.KindInternal, op, err)
}

// kindForCode classifies a SQLSTATE code.
func kindForCode(code string) todo.ErrorKind {
	switch code {
	case "42P01", "3F000":
		return todo.KindSchemaMissing
	case "42501":
		return todo.KindPermission
	case "28000", "28P01", "3D000":
		return todo.KindConfiguration
	case "23503":
		return todo.KindNotFound
	case "23502", "23514", "22P02", "22007", "22008", "22001":
		return todo.KindValidation
	case "40001", "40P01", "57P01", "57P02", "57P03":
		return todo.KindUnavailable
	}
	if len(code) == 5 {
		switch code[:2] {
		case "08", "53":
			return todo.KindUnavailable
		}
	}
	return todo.KindInternal
}
