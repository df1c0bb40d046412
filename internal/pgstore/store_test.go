package pgstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Saheb006/focusflow-organize-main/todo"
)

func TestKindForCode(t *testing.T) {
	tests := []struct {
		code string
		want todo.ErrorKind
	}{
		{"42P01", todo.KindSchemaMissing},
		{"3F000", todo.KindSchemaMissing},
		{"42501", todo.KindPermission},
		{"28P01", todo.KindConfiguration},
		{"3D000", todo.KindConfiguration},
		{"23503", todo.KindNotFound},
		{"23514", todo.KindValidation},
		{"22P02", todo.KindValidation},
		{"08006", todo.KindUnavailable},
		{"53300", todo.KindUnavailable},
		{"57P01", todo.KindUnavailable},
		{"40P01", todo.KindUnavailable},
		{"XX000", todo.KindInternal},
	}
	for _, tt := range tests {
		if got := kindForCode(tt.code); got != tt.want {
			t.Errorf("kindForCode(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestTranslateWrappedPgError(t *testing.T) {
	err := fmt.Errorf("query: %w", &pgconn.PgError{Code: "42P01", Message: `relation "todos" does not exist`})
	got := translate("list todos", err)
	if kind := todo.KindOf(got); kind != todo.KindSchemaMissing {
		t.Fatalf("kind = %q, want %q", kind, todo.KindSchemaMissing)
	}
	var pgErr *pgconn.PgError
	if !errors.As(got, &pgErr) {
		t.Fatalf("expected translated error to wrap *pgconn.PgError")
	}
}

func TestTranslateNonDatabaseErrors(t *testing.T) {
	if got := todo.KindOf(translate("op", pgx.ErrNoRows)); got != todo.KindNotFound {
		t.Errorf("ErrNoRows kind = %q, want not_found", got)
	}
	if got := todo.KindOf(translate("op", context.DeadlineExceeded)); got != todo.KindUnavailable {
		t.Errorf("deadline kind = %q, want unavailable", got)
	}
	if got := todo.KindOf(translate("op", errors.New("boom"))); got != todo.KindInternal {
		t.Errorf("plain error kind = %q, want internal", got)
	}
	if translate("op", nil) != nil {
		t.Errorf("translate(nil) should be nil")
	}
}

func TestOpenRejectsMalformedURL(t *testing.T) {
	_, err := Open(context.Background(), "postgres://%zz")
	if got := todo.KindOf(err); got != todo.KindConfiguration {
		t.Fatalf("kind = %q, want configuration (err: %v)", got, err)
	}
}

func TestMalformedIDIsNotFound(t *testing.T) {
	s := &Store{}
	err := s.execOne(context.Background(), "patch todo", nil, todo.ErrTodoNotFound, "not-a-uuid")
	if got := todo.KindOf(err); got != todo.KindNotFound {
		t.Fatalf("kind = %q, want not_found", got)
	}
	if !errors.Is(err, todo.ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound, got %v", err)
	}
}

// TestRoundTrip runs against a live database named by FOCUSFLOW_TEST_DATABASE_URL.
func TestRoundTrip(t *testing.T) {
	url := os.Getenv("FOCUSFLOW_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("FOCUSFLOW_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	s, err := Open(ctx, url)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(s.Close)
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := s.ProbeHealth(ctx); err != nil {
		t.Fatalf("probe: %v", err)
	}

	user := "roundtrip-" + t.Name()
	due := todo.NewDate(2024, 5, 10)
	created, err := s.InsertTodo(ctx, user, todo.TodoFields{
		Title:    "Ship release",
		Priority: todo.PriorityHigh,
		DueDate:  &due,
		Tags:     []string{"work"},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	t.Cleanup(func() { _ = s.RemoveTodo(context.Background(), user, created.ID) })

	if _, err := s.InsertSubTodo(ctx, user, created.ID, todo.SubTodoFields{Title: "Tag build"}); err != nil {
		t.Fatalf("insert sub-todo: %v", err)
	}

	intruder := "intruder-" + t.Name()
	if err := s.PatchTodo(ctx, intruder, created.ID, todo.TodoPatch{Title: todo.Set("pwned")}); !todo.IsKind(err, todo.KindNotFound) {
		t.Fatalf("patch by another user: expected not_found, got %v", err)
	}
	if _, err := s.InsertSubTodo(ctx, intruder, created.ID, todo.SubTodoFields{Title: "planted"}); !todo.IsKind(err, todo.KindNotFound) {
		t.Fatalf("insert sub-todo by another user: expected not_found, got %v", err)
	}

	todos, err := s.ListTodos(ctx, user)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got, ok := todo.Find(todos, created.ID)
	if !ok {
		t.Fatalf("inserted todo %s not listed", created.ID)
	}
	if got.DueDate == nil || *got.DueDate != due {
		t.Fatalf("due date = %v, want %v", got.DueDate, due)
	}
	if len(got.SubTodos) != 1 || got.SubTodos[0].Title != "Tag build" {
		t.Fatalf("sub-todos = %+v", got.SubTodos)
	}
}
