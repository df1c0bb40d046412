package todo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Saheb006/focusflow-organize-main/internal/memstore"
	"github.com/Saheb006/focusflow-organize-main/todo"
)

const testUser = "user-1"

type harness struct {
	store   *memstore.Store
	ctrl    *todo.Controller
	notices []todo.Notice
	now     time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{store: memstore.New(), now: time.Date(2024, time.May, 10, 9, 0, 0, 0, time.UTC)}
	h.store.SetClock(func() time.Time {
		h.now = h.now.Add(time.Second)
		return h.now
	})
	h.ctrl = h.controllerFor(testUser)
	return h
}

// controllerFor returns a controller for userID that shares the harness
// store, clock, and notices.
func (h *harness) controllerFor(userID string) *todo.Controller {
	noSleep := func(ctx context.Context, d time.Duration) error { return ctx.Err() }
	write := todo.WriteRetry()
	write.Sleep = noSleep
	read := todo.ReadRetry()
	read.Sleep = noSleep
	return todo.NewController(h.store, todo.ControllerOptions{
		UserID:     userID,
		Notifier:   todo.NotifierFunc(func(n todo.Notice) { h.notices = append(h.notices, n) }),
		Now:        func() time.Time { return h.now },
		WriteRetry: write,
		ReadRetry:  read,
	})
}

func (h *harness) create(t *testing.T, draft todo.Draft) todo.Todo {
	t.Helper()
	created, err := h.ctrl.CreateTodo(context.Background(), draft)
	if err != nil {
		t.Fatalf("create todo: %v", err)
	}
	return created
}

func (h *harness) get(t *testing.T, id string) todo.Todo {
	t.Helper()
	stored, ok := h.store.Get(id)
	if !ok {
		t.Fatalf("todo %s not stored", id)
	}
	return stored
}

func (h *harness) toggleSub(t *testing.T, todoID, subID string) {
	t.Helper()
	if _, err := h.ctrl.ToggleSubTodo(context.Background(), todoID, subID); err != nil {
		t.Fatalf("toggle sub-todo: %v", err)
	}
}

func assertCompletedAtInvariant(t *testing.T, item todo.Todo) {
	t.Helper()
	if err := todo.ValidateTodo(&item); err != nil {
		t.Fatalf("todo %s violates invariants: %v", item.ID, err)
	}
}

func schemaMissing() error {
	return todo.NewError(todo.KindSchemaMissing, "test", errors.New("relation \"todos\" does not exist"))
}

func TestCreateTodoDropsBlankSubTodoDrafts(t *testing.T) {
	h := newHarness(t)

	created := h.create(t, todo.Draft{
		Title:    "Ship release",
		SubTodos: []todo.SubDraft{{Title: "Write changelog"}, {Title: ""}, {Title: "   "}},
	})

	stored := h.get(t, created.ID)
	if len(stored.SubTodos) != 1 || stored.SubTodos[0].Title != "Write changelog" {
		t.Fatalf("expected only Write changelog persisted, got %+v", stored.SubTodos)
	}
	if h.store.CallCount(memstore.OpInsertSubTodo) != 1 {
		t.Fatalf("expected 1 sub-todo insert, got %d", h.store.CallCount(memstore.OpInsertSubTodo))
	}
	if len(created.SubTodos) != 1 {
		t.Fatalf("expected returned todo to carry its sub-todo, got %+v", created.SubTodos)
	}
}

func TestCreateTodoDefaultsAndTrimming(t *testing.T) {
	h := newHarness(t)

	created := h.create(t, todo.Draft{
		Title:       "  Plan trip ",
		Description: "   ",
		Tags:        []string{"travel", " travel", "", "fun"},
	})

	stored := h.get(t, created.ID)
	if stored.Title != "Plan trip" {
		t.Errorf("expected trimmed title, got %q", stored.Title)
	}
	if stored.Description != "" {
		t.Errorf("expected blank description dropped, got %q", stored.Description)
	}
	if stored.Priority != todo.PriorityMedium {
		t.Errorf("expected default medium priority, got %q", stored.Priority)
	}
	if len(stored.Tags) != 2 || stored.Tags[0] != "travel" || stored.Tags[1] != "fun" {
		t.Errorf("expected normalized tags [travel fun], got %v", stored.Tags)
	}
	assertCompletedAtInvariant(t, stored)
	if len(h.notices) == 0 || h.notices[len(h.notices)-1].Level != todo.NoticeSuccess {
		t.Errorf("expected success notice, got %+v", h.notices)
	}
}

func TestCreateTodoRejectsEmptyTitleBeforeStore(t *testing.T) {
	h := newHarness(t)

	_, err := h.ctrl.CreateTodo(context.Background(), todo.Draft{Title: "   "})
	if !todo.IsKind(err, todo.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !errors.Is(err, todo.ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	if calls := h.store.Calls(); len(calls) != 0 {
		t.Fatalf("expected no store calls, got %v", calls)
	}
}

func TestCreateTodoRejectsInvalidPriority(t *testing.T) {
	h := newHarness(t)

	_, err := h.ctrl.CreateTodo(context.Background(), todo.Draft{Title: "x", Priority: "critical"})
	if !errors.Is(err, todo.ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}
}

func TestCreateTodoSubTodoFailureKeepsParent(t *testing.T) {
	h := newHarness(t)
	h.store.FailNext(memstore.OpInsertSubTodo, todo.NewError(todo.KindUnavailable, "insert", errors.New("reset")))

	created := h.create(t, todo.Draft{
		Title:    "Parent",
		SubTodos: []todo.SubDraft{{Title: "first"}, {Title: "second"}},
	})

	stored := h.get(t, created.ID)
	if len(stored.SubTodos) != 1 || stored.SubTodos[0].Title != "second" {
		t.Fatalf("expected only second sub-todo stored, got %+v", stored.SubTodos)
	}
	var sawError bool
	for _, n := range h.notices {
		if n.Level == todo.NoticeError {
			sawError = true
		}
	}
	if !sawError {
		t.Fatalf("expected an error notice for the failed sub-todo")
	}
}

func TestCreateTodoRetriesMissingSchema(t *testing.T) {
	h := newHarness(t)
	h.store.FailNext(memstore.OpInsertTodo, schemaMissing(), schemaMissing())

	h.create(t, todo.Draft{Title: "Eventually"})
	if got := h.store.CallCount(memstore.OpInsertTodo); got != 3 {
		t.Fatalf("expected 3 insert attempts, got %d", got)
	}
}

func TestCreateTodoDoesNotRetryOtherWriteFailures(t *testing.T) {
	h := newHarness(t)
	h.store.FailNext(memstore.OpInsertTodo, todo.NewError(todo.KindPermission, "insert", errors.New("denied")))

	_, err := h.ctrl.CreateTodo(context.Background(), todo.Draft{Title: "Nope"})
	if !todo.IsKind(err, todo.KindPermission) {
		t.Fatalf("expected permission error, got %v", err)
	}
	if got := h.store.CallCount(memstore.OpInsertTodo); got != 1 {
		t.Fatalf("expected 1 insert attempt, got %d", got)
	}
	last := h.notices[len(h.notices)-1]
	if last.Level != todo.NoticeError || last.Message != "Failed to create todo" {
		t.Fatalf("expected failure notice, got %+v", last)
	}
}

func TestUpdateTodoClearsDueDate(t *testing.T) {
	h := newHarness(t)
	due := todo.NewDate(2024, time.June, 1)
	created := h.create(t, todo.Draft{Title: "Dated", DueDate: &due, DueTime: "10:00"})

	err := h.ctrl.UpdateTodo(context.Background(), created.ID, todo.TodoPatch{DueDate: todo.SetOrClear[todo.Date](nil)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	stored := h.get(t, created.ID)
	if stored.DueDate != nil {
		t.Fatalf("expected due date cleared, got %v", stored.DueDate)
	}
	if stored.DueTime != "10:00" {
		t.Fatalf("expected due time untouched, got %q", stored.DueTime)
	}
}

func TestUpdateTodoAppliesOnlyPresentFields(t *testing.T) {
	h := newHarness(t)
	created := h.create(t, todo.Draft{Title: "Old", Description: "keep me", Priority: todo.PriorityLow})

	err := h.ctrl.UpdateTodo(context.Background(), created.ID, todo.TodoPatch{
		Title:       todo.Set("  New  "),
		Description: todo.Set("   "),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	stored := h.get(t, created.ID)
	if stored.Title != "New" {
		t.Errorf("expected trimmed title New, got %q", stored.Title)
	}
	if stored.Description != "" {
		t.Errorf("expected blank description to clear, got %q", stored.Description)
	}
	if stored.Priority != todo.PriorityLow {
		t.Errorf("expected priority untouched, got %q", stored.Priority)
	}
}

func TestUpdateTodoCompletedKeepsCompletedAt(t *testing.T) {
	h := newHarness(t)
	created := h.create(t, todo.Draft{Title: "Finish"})

	if err := h.ctrl.UpdateTodo(context.Background(), created.ID, todo.TodoPatch{Completed: todo.Set(true)}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	stored := h.get(t, created.ID)
	if !stored.Completed || stored.CompletedAt == nil || !stored.CompletedAt.Equal(h.now) {
		t.Fatalf("expected completed with completed_at %v, got %+v", h.now, stored)
	}

	if err := h.ctrl.UpdateTodo(context.Background(), created.ID, todo.TodoPatch{Completed: todo.Set(false)}); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	assertCompletedAtInvariant(t, h.get(t, created.ID))
}

func TestUpdateTodoRejectsInvalidPatches(t *testing.T) {
	h := newHarness(t)
	created := h.create(t, todo.Draft{Title: "Valid"})
	calls := len(h.store.Calls())

	patches := []todo.TodoPatch{
		{Title: todo.Set(" ")},
		{Title: todo.Cleared[string]()},
		{Priority: todo.Set(todo.Priority("critical"))},
		{Completed: todo.Cleared[bool]()},
		{CompletedAt: todo.Set(time.Now())},
	}
	for i, patch := range patches {
		err := h.ctrl.UpdateTodo(context.Background(), created.ID, patch)
		if !todo.IsKind(err, todo.KindValidation) {
			t.Errorf("patch %d: expected validation error, got %v", i, err)
		}
	}
	if err := h.ctrl.UpdateTodo(context.Background(), "", todo.TodoPatch{Title: todo.Set("x")}); !errors.Is(err, todo.ErrMissingID) {
		t.Errorf("expected ErrMissingID, got %v", err)
	}
	if len(h.store.Calls()) != calls {
		t.Errorf("expected no store calls for rejected patches")
	}
}

func TestToggleTodoMaintainsCompletedAt(t *testing.T) {
	h := newHarness(t)
	created := h.create(t, todo.Draft{Title: "Flip"})

	completed, err := h.ctrl.ToggleTodo(context.Background(), created.ID)
	if err != nil || !completed {
		t.Fatalf("expected toggle to complete, got %v (%v)", completed, err)
	}
	stored := h.get(t, created.ID)
	if stored.CompletedAt == nil {
		t.Fatalf("expected completed_at set")
	}
	assertCompletedAtInvariant(t, stored)

	completed, err = h.ctrl.ToggleTodo(context.Background(), created.ID)
	if err != nil || completed {
		t.Fatalf("expected toggle to reopen, got %v (%v)", completed, err)
	}
	stored = h.get(t, created.ID)
	if stored.CompletedAt != nil {
		t.Fatalf("expected completed_at cleared, got %v", stored.CompletedAt)
	}
}

func TestToggleTodoNotFound(t *testing.T) {
	h := newHarness(t)

	_, err := h.ctrl.ToggleTodo(context.Background(), "missing")
	if !todo.IsKind(err, todo.KindNotFound) || !errors.Is(err, todo.ErrTodoNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestToggleSubTodoCascadesBothWays(t *testing.T) {
	h := newHarness(t)
	created := h.create(t, todo.Draft{Title: "Parent", SubTodos: []todo.SubDraft{{Title: "a"}, {Title: "b"}}})
	a, b := created.SubTodos[0].ID, created.SubTodos[1].ID

	h.toggleSub(t, created.ID, a)
	if h.get(t, created.ID).Completed {
		t.Fatalf("expected parent open with one sub-todo left")
	}

	h.toggleSub(t, created.ID, b)
	stored := h.get(t, created.ID)
	if !stored.Completed {
		t.Fatalf("expected parent completed when all sub-todos are")
	}
	assertCompletedAtInvariant(t, stored)

	h.toggleSub(t, created.ID, a)
	stored = h.get(t, created.ID)
	if stored.Completed {
		t.Fatalf("expected parent reopened when a sub-todo is reopened")
	}
	assertCompletedAtInvariant(t, stored)
}

func TestToggleSubTodoLeavesManuallyCompletedParentWhenAllDone(t *testing.T) {
	h := newHarness(t)
	created := h.create(t, todo.Draft{Title: "Parent", SubTodos: []todo.SubDraft{{Title: "a"}}})
	if _, err := h.ctrl.ToggleTodo(context.Background(), created.ID); err != nil {
		t.Fatalf("toggle parent: %v", err)
	}
	patches := h.store.CallCount(memstore.OpPatchTodo)

	h.toggleSub(t, created.ID, created.SubTodos[0].ID)
	if got := h.store.CallCount(memstore.OpPatchTodo); got != patches {
		t.Fatalf("expected no parent patch when state already matches, got %d extra", got-patches)
	}
	if !h.get(t, created.ID).Completed {
		t.Fatalf("expected parent to stay completed")
	}
}

func TestToggleSubTodoUnknownSubTodo(t *testing.T) {
	h := newHarness(t)
	created := h.create(t, todo.Draft{Title: "Parent"})

	_, err := h.ctrl.ToggleSubTodo(context.Background(), created.ID, "nope")
	if !errors.Is(err, todo.ErrSubTodoNotFound) {
		t.Fatalf("expected ErrSubTodoNotFound, got %v", err)
	}
}

func TestDeleteSubTodoDoesNotCompleteParent(t *testing.T) {
	h := newHarness(t)
	created := h.create(t, todo.Draft{Title: "Parent", SubTodos: []todo.SubDraft{{Title: "done"}, {Title: "open"}}})
	h.toggleSub(t, created.ID, created.SubTodos[0].ID)

	if err := h.ctrl.DeleteSubTodo(context.Background(), created.ID, created.SubTodos[1].ID); err != nil {
		t.Fatalf("delete sub-todo: %v", err)
	}
	stored := h.get(t, created.ID)
	if stored.Completed {
		t.Fatalf("expected deletion not to complete the parent")
	}
	if len(stored.SubTodos) != 1 {
		t.Fatalf("expected 1 remaining sub-todo, got %d", len(stored.SubTodos))
	}
}

func TestDeleteSubTodoReopensCompletedParent(t *testing.T) {
	h := newHarness(t)
	created := h.create(t, todo.Draft{Title: "Parent", SubTodos: []todo.SubDraft{{Title: "a"}, {Title: "b"}, {Title: "c"}}})
	for _, sub := range created.SubTodos {
		h.toggleSub(t, created.ID, sub.ID)
	}
	if !h.get(t, created.ID).Completed {
		t.Fatalf("expected parent completed by its sub-todos")
	}
	// Reopen c without the cascade so the parent stays completed.
	if err := h.ctrl.UpdateSubTodo(context.Background(), created.ID, created.SubTodos[2].ID, todo.SubTodoPatch{Completed: todo.Set(false)}); err != nil {
		t.Fatalf("update sub-todo: %v", err)
	}

	if err := h.ctrl.DeleteSubTodo(context.Background(), created.ID, created.SubTodos[0].ID); err != nil {
		t.Fatalf("delete sub-todo: %v", err)
	}
	stored := h.get(t, created.ID)
	if stored.Completed {
		t.Fatalf("expected parent reopened, a remaining sub-todo is incomplete")
	}
	assertCompletedAtInvariant(t, stored)
}

func TestDeleteLastSubTodoReopensCompletedParent(t *testing.T) {
	h := newHarness(t)
	created := h.create(t, todo.Draft{Title: "Parent", SubTodos: []todo.SubDraft{{Title: "only"}}})
	h.toggleSub(t, created.ID, created.SubTodos[0].ID)
	if !h.get(t, created.ID).Completed {
		t.Fatalf("expected parent completed by its only sub-todo")
	}

	if err := h.ctrl.DeleteSubTodo(context.Background(), created.ID, created.SubTodos[0].ID); err != nil {
		t.Fatalf("delete sub-todo: %v", err)
	}
	if h.get(t, created.ID).Completed {
		t.Fatalf("expected parent reopened when no sub-todos remain")
	}
}

func TestDeleteSubTodoKeepsCompletedParentWhenRemainingDone(t *testing.T) {
	h := newHarness(t)
	created := h.create(t, todo.Draft{Title: "Parent", SubTodos: []todo.SubDraft{{Title: "a"}, {Title: "b"}}})
	h.toggleSub(t, created.ID, created.SubTodos[0].ID)
	h.toggleSub(t, created.ID, created.SubTodos[1].ID)

	if err := h.ctrl.DeleteSubTodo(context.Background(), created.ID, created.SubTodos[0].ID); err != nil {
		t.Fatalf("delete sub-todo: %v", err)
	}
	if !h.get(t, created.ID).Completed {
		t.Fatalf("expected parent to stay completed")
	}
}

func TestDeleteTodoRemovesSubTodosFirst(t *testing.T) {
	h := newHarness(t)
	created := h.create(t, todo.Draft{Title: "Parent", SubTodos: []todo.SubDraft{{Title: "a"}, {Title: "b"}}})
	h.store.FailNext(memstore.OpRemoveSubTodo, todo.NewError(todo.KindUnavailable, "remove", errors.New("reset")))

	if err := h.ctrl.DeleteTodo(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := h.store.Get(created.ID); ok {
		t.Fatalf("expected todo removed")
	}

	calls := h.store.Calls()
	last := calls[len(calls)-1]
	if last != memstore.OpRemoveTodo {
		t.Fatalf("expected RemoveTodo last, got %v", calls)
	}
	if got := h.store.CallCount(memstore.OpRemoveSubTodo); got != 2 {
		t.Fatalf("expected 2 sub-todo removals attempted, got %d", got)
	}
}

func TestDeleteTodoSurfacesFailure(t *testing.T) {
	h := newHarness(t)
	created := h.create(t, todo.Draft{Title: "Sticky"})
	h.store.FailNext(memstore.OpRemoveTodo, todo.NewError(todo.KindPermission, "remove", errors.New("denied")))

	if err := h.ctrl.DeleteTodo(context.Background(), created.ID); !todo.IsKind(err, todo.KindPermission) {
		t.Fatalf("expected permission error, got %v", err)
	}
	if _, ok := h.store.Get(created.ID); !ok {
		t.Fatalf("expected todo to remain")
	}

	if err := h.ctrl.DeleteTodo(context.Background(), created.ID); err != nil {
		t.Fatalf("expected retry by re-invoking to succeed, got %v", err)
	}
}

func TestCreateAndUpdateSubTodoDoNotCascade(t *testing.T) {
	h := newHarness(t)
	created := h.create(t, todo.Draft{Title: "Parent"})

	sub, err := h.ctrl.CreateSubTodo(context.Background(), created.ID, todo.SubDraft{Title: "  child  ", DueTime: " 14:30 "})
	if err != nil {
		t.Fatalf("create sub-todo: %v", err)
	}
	if sub.Title != "child" || sub.DueTime != "14:30" {
		t.Fatalf("expected trimmed sub-todo, got %+v", sub)
	}

	if err := h.ctrl.UpdateSubTodo(context.Background(), created.ID, sub.ID, todo.SubTodoPatch{Completed: todo.Set(true)}); err != nil {
		t.Fatalf("update sub-todo: %v", err)
	}
	stored := h.get(t, created.ID)
	if !stored.SubTodos[0].Completed {
		t.Fatalf("expected sub-todo completed")
	}
	if stored.Completed {
		t.Fatalf("expected update not to cascade to parent")
	}

	if _, err := h.ctrl.CreateSubTodo(context.Background(), created.ID, todo.SubDraft{Title: " "}); !todo.IsKind(err, todo.KindValidation) {
		t.Fatalf("expected validation error for blank sub-todo, got %v", err)
	}
	if _, err := h.ctrl.CreateSubTodo(context.Background(), "missing", todo.SubDraft{Title: "x"}); !todo.IsKind(err, todo.KindNotFound) {
		t.Fatalf("expected not found for missing parent, got %v", err)
	}
}

func TestUpdateSubTodoRequiresMatchingParent(t *testing.T) {
	h := newHarness(t)
	first := h.create(t, todo.Draft{Title: "First", SubTodos: []todo.SubDraft{{Title: "child"}}})
	second := h.create(t, todo.Draft{Title: "Second"})
	subID := first.SubTodos[0].ID

	err := h.ctrl.UpdateSubTodo(context.Background(), second.ID, subID, todo.SubTodoPatch{Title: todo.Set("moved")})
	if !todo.IsKind(err, todo.KindNotFound) || !errors.Is(err, todo.ErrSubTodoNotFound) {
		t.Fatalf("expected sub-todo not found under other parent, got %v", err)
	}
	if got := h.get(t, first.ID).SubTodos[0].Title; got != "child" {
		t.Fatalf("expected sub-todo title unchanged, got %q", got)
	}
	if h.store.CallCount(memstore.OpPatchSubTodo) != 0 {
		t.Fatalf("expected no sub-todo write")
	}
}

func TestWritesRejectOtherUsersTodos(t *testing.T) {
	h := newHarness(t)
	secret := h.create(t, todo.Draft{Title: "Alice secret", SubTodos: []todo.SubDraft{{Title: "step"}}})
	subID := secret.SubTodos[0].ID
	intruder := h.controllerFor("mallory")
	ctx := context.Background()

	attempts := map[string]error{
		"update todo": intruder.UpdateTodo(ctx, secret.ID, todo.TodoPatch{Title: todo.Set("pwned")}),
		"delete todo": intruder.DeleteTodo(ctx, secret.ID),
		"update sub-todo": intruder.UpdateSubTodo(ctx, secret.ID, subID,
			todo.SubTodoPatch{Title: todo.Set("pwned")}),
	}
	_, attempts["create sub-todo"] = intruder.CreateSubTodo(ctx, secret.ID, todo.SubDraft{Title: "planted"})
	_, attempts["toggle todo"] = intruder.ToggleTodo(ctx, secret.ID)
	attempts["delete sub-todo"] = intruder.DeleteSubTodo(ctx, secret.ID, subID)

	for name, err := range attempts {
		if !todo.IsKind(err, todo.KindNotFound) {
			t.Errorf("%s: expected not found, got %v", name, err)
		}
	}

	stored := h.get(t, secret.ID)
	if stored.Title != "Alice secret" || stored.Completed {
		t.Fatalf("expected todo untouched, got %+v", stored)
	}
	if len(stored.SubTodos) != 1 || stored.SubTodos[0].Title != "step" {
		t.Fatalf("expected sub-todos untouched, got %+v", stored.SubTodos)
	}
	for _, op := range []memstore.Op{memstore.OpPatchTodo, memstore.OpRemoveTodo, memstore.OpInsertSubTodo, memstore.OpPatchSubTodo, memstore.OpRemoveSubTodo} {
		want := 0
		if op == memstore.OpInsertSubTodo {
			want = 1
		}
		if got := h.store.CallCount(op); got != want {
			t.Errorf("%v: expected %d calls, got %d", op, want, got)
		}
	}
}

func TestTogglesNotifySuccess(t *testing.T) {
	h := newHarness(t)
	created := h.create(t, todo.Draft{Title: "Parent", SubTodos: []todo.SubDraft{{Title: "a"}}})

	h.notices = nil
	if _, err := h.ctrl.ToggleTodo(context.Background(), created.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	h.toggleSub(t, created.ID, created.SubTodos[0].ID)

	if len(h.notices) != 2 {
		t.Fatalf("expected a notice per toggle, got %+v", h.notices)
	}
	for _, n := range h.notices {
		if n.Level != todo.NoticeSuccess || n.Message != "Todo updated" {
			t.Errorf("unexpected notice %+v", n)
		}
	}
}

func TestMutationsInvalidateCache(t *testing.T) {
	h := newHarness(t)

	todos, err := h.ctrl.Todos(context.Background())
	if err != nil || len(todos) != 0 {
		t.Fatalf("expected empty list, got %d (%v)", len(todos), err)
	}
	created := h.create(t, todo.Draft{Title: "New"})

	todos, err = h.ctrl.Todos(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(todos) != 1 || todos[0].ID != created.ID {
		t.Fatalf("expected refetched todo, got %+v", todos)
	}
	if got := h.store.CallCount(memstore.OpListTodos); got != 2 {
		t.Fatalf("expected 2 fetches, got %d", got)
	}

	if _, err := h.ctrl.Todos(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := h.store.CallCount(memstore.OpListTodos); got != 2 {
		t.Fatalf("expected cached read, got %d fetches", got)
	}
}

func TestListTodosNewestFirst(t *testing.T) {
	h := newHarness(t)
	first := h.create(t, todo.Draft{Title: "first"})
	second := h.create(t, todo.Draft{Title: "second"})

	todos, err := h.ctrl.Todos(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(todos) != 2 || todos[0].ID != second.ID || todos[1].ID != first.ID {
		t.Fatalf("expected newest first, got %+v", todos)
	}
}

func TestReadsRetryTransientFailures(t *testing.T) {
	h := newHarness(t)
	transient := todo.NewError(todo.KindUnavailable, "list", errors.New("reset"))
	h.store.FailNext(memstore.OpListTodos, transient, transient)

	if _, err := h.ctrl.Todos(context.Background()); err != nil {
		t.Fatalf("expected read to recover, got %v", err)
	}
	if got := h.store.CallCount(memstore.OpListTodos); got != 3 {
		t.Fatalf("expected 3 list calls, got %d", got)
	}
}

func TestReadsDoNotRetryNotAuthenticated(t *testing.T) {
	h := newHarness(t)
	h.store.FailNext(memstore.OpListTodos, todo.NewError(todo.KindNotAuthenticated, "list", errors.New("no session")))

	if _, err := h.ctrl.Todos(context.Background()); !todo.IsKind(err, todo.KindNotAuthenticated) {
		t.Fatalf("expected not_authenticated, got %v", err)
	}
	if got := h.store.CallCount(memstore.OpListTodos); got != 1 {
		t.Fatalf("expected 1 list call, got %d", got)
	}
}
