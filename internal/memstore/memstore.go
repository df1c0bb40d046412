// Package memstore is an in-memory todo.Port. It backs tests and the
// "memory" backend driver, and can be told to fail specific operations.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Saheb006/focusflow-organize-main/internal/ids"
	"github.com/Saheb006/focusflow-organize-main/todo"
)

// Op names a Port method for failure injection.
type Op string

const (
	OpListTodos     Op = "ListTodos"
	OpInsertTodo    Op = "InsertTodo"
	OpPatchTodo     Op = "PatchTodo"
	OpRemoveTodo    Op = "RemoveTodo"
	OpInsertSubTodo Op = "InsertSubTodo"
	OpPatchSubTodo  Op = "PatchSubTodo"
	OpRemoveSubTodo Op = "RemoveSubTodo"
	OpProbeHealth   Op = "ProbeHealth"
)

type todoRecord struct {
	userID string
	seq    int
	todo   todo.Todo
}

type subRecord struct {
	seq int
	sub todo.SubTodo
}

// Store is a todo.Port kept in memory.
type Store struct {
	mu       sync.Mutex
	now      func() time.Time
	seq      int
	todos    map[string]*todoRecord
	subs     map[string]*subRecord
	failures map[Op][]error
	calls    []Op
}

var _ todo.Port = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		now:      time.Now,
		todos:    map[string]*todoRecord{},
		subs:     map[string]*subRecord{},
		failures: map[Op][]error{},
	}
}

// SetClock replaces the clock used for created_at timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// FailNext makes the next len(errs) calls of op fail with errs, in order.
func (s *Store) FailNext(op Op, errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = append(s.failures[op], errs...)
}

// Calls returns the operations called so far, in order.
func (s *Store) Calls() []Op {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Op(nil), s.calls...)
}

// CallCount returns how many times op was called.
func (s *Store) CallCount(op Op) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, call := range s.calls {
		if call == op {
			count++
		}
	}
	return count
}

// Get returns a stored todo with its sub-todos.
func (s *Store) Get(id string) (todo.Todo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.todos[id]
	if !ok {
		return todo.Todo{}, false
	}
	return s.assemble(record), true
}

func (s *Store) begin(op Op) error {
	s.calls = append(s.calls, op)
	queued := s.failures[op]
	if len(queued) == 0 {
		return nil
	}
	s.failures[op] = queued[1:]
	return queued[0]
}

func (s *Store) nextSeq() int {
	s.seq++
	return s.seq
}

// ListTodos returns the user's todos, newest first.
func (s *Store) ListTodos(ctx context.Context, userID string) ([]todo.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(OpListTodos); err != nil {
		return nil, err
	}

	var records []*todoRecord
	for _, record := range s.todos {
		if record.userID == userID {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.todo.CreatedAt.Equal(b.todo.CreatedAt) {
			return a.todo.CreatedAt.After(b.todo.CreatedAt)
		}
		return a.seq > b.seq
	})

	todos := make([]todo.Todo, 0, len(records))
	for _, record := range records {
		todos = append(todos, s.assemble(record))
	}
	return todos, nil
}

func (s *Store) assemble(record *todoRecord) todo.Todo {
	item := record.todo
	item.Tags = append([]string{}, item.Tags...)

	var subs []*subRecord
	for _, sub := range s.subs {
		if sub.sub.TodoID == item.ID {
			subs = append(subs, sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool {
		a, b := subs[i], subs[j]
		if !a.sub.CreatedAt.Equal(b.sub.CreatedAt) {
			return a.sub.CreatedAt.Before(b.sub.CreatedAt)
		}
		return a.seq < b.seq
	})
	item.SubTodos = make([]todo.SubTodo, 0, len(subs))
	for _, sub := range subs {
		item.SubTodos = append(item.SubTodos, sub.sub)
	}
	return item
}

// InsertTodo stores a new todo.
func (s *Store) InsertTodo(ctx context.Context, userID string, fields todo.TodoFields) (todo.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(OpInsertTodo); err != nil {
		return todo.Todo{}, err
	}

	created := todo.Todo{
		ID:          ids.New(),
		Title:       fields.Title,
		Description: fields.Description,
		Completed:   fields.Completed,
		Priority:    fields.Priority,
		Color:       fields.Color,
		DueDate:     fields.DueDate,
		DueTime:     fields.DueTime,
		Tags:        append([]string{}, fields.Tags...),
		CreatedAt:   s.now(),
		CompletedAt: fields.CompletedAt,
	}
	s.todos[created.ID] = &todoRecord{userID: userID, seq: s.nextSeq(), todo: created}
	created.SubTodos = []todo.SubTodo{}
	return created, nil
}

// PatchTodo applies patch to one of userID's todos.
func (s *Store) PatchTodo(ctx context.Context, userID, id string, patch todo.TodoPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(OpPatchTodo); err != nil {
		return err
	}

	record, ok := s.owned(userID, id)
	if !ok {
		return notFound("patch todo", todo.ErrTodoNotFound, id)
	}
	record.todo = patch.Apply(record.todo)
	return nil
}

// RemoveTodo deletes one of userID's todos and its sub-todos.
func (s *Store) RemoveTodo(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(OpRemoveTodo); err != nil {
		return err
	}

	if _, ok := s.owned(userID, id); !ok {
		return notFound("remove todo", todo.ErrTodoNotFound, id)
	}
	delete(s.todos, id)
	for subID, sub := range s.subs {
		if sub.sub.TodoID == id {
			delete(s.subs, subID)
		}
	}
	return nil
}

// InsertSubTodo stores a new sub-todo under one of userID's todos.
func (s *Store) InsertSubTodo(ctx context.Context, userID, todoID string, fields todo.SubTodoFields) (todo.SubTodo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(OpInsertSubTodo); err != nil {
		return todo.SubTodo{}, err
	}

	if _, ok := s.owned(userID, todoID); !ok {
		return todo.SubTodo{}, notFound("insert sub-todo", todo.ErrTodoNotFound, todoID)
	}
	created := todo.SubTodo{
		ID:        ids.New(),
		TodoID:    todoID,
		Title:     fields.Title,
		Completed: fields.Completed,
		DueDate:   fields.DueDate,
		DueTime:   fields.DueTime,
		CreatedAt: s.now(),
	}
	s.subs[created.ID] = &subRecord{seq: s.nextSeq(), sub: created}
	return created, nil
}

// PatchSubTodo applies patch to a sub-todo of todoID.
func (s *Store) PatchSubTodo(ctx context.Context, userID, todoID, id string, patch todo.SubTodoPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(OpPatchSubTodo); err != nil {
		return err
	}

	record, ok := s.ownedSub(userID, todoID, id)
	if !ok {
		return notFound("patch sub-todo", todo.ErrSubTodoNotFound, id)
	}
	record.sub = patch.Apply(record.sub)
	return nil
}

// RemoveSubTodo deletes a sub-todo of todoID.
func (s *Store) RemoveSubTodo(ctx context.Context, userID, todoID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(OpRemoveSubTodo); err != nil {
		return err
	}

	if _, ok := s.ownedSub(userID, todoID, id); !ok {
		return notFound("remove sub-todo", todo.ErrSubTodoNotFound, id)
	}
	delete(s.subs, id)
	return nil
}

func (s *Store) owned(userID, id string) (*todoRecord, bool) {
	record, ok := s.todos[id]
	if !ok || record.userID != userID {
		return nil, false
	}
	return record, true
}

func (s *Store) ownedSub(userID, todoID, id string) (*subRecord, bool) {
	if _, ok := s.owned(userID, todoID); !ok {
		return nil, false
	}
	record, ok := s.subs[id]
	if !ok || record.sub.TodoID != todoID {
		return nil, false
	}
	return record, true
}

// ProbeHealth succeeds unless a failure was queued.
func (s *Store) ProbeHealth(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.begin(OpProbeHealth)
}

func notFound(op string, sentinel error, id string) error {
	return todo.NewError(todo.KindNotFound, op, fmt.Errorf("%w: %s", sentinel, id))
}
