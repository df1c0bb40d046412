package todo

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// NoticeLevel is the severity of a Notice.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a short message for the user about a finished mutation.
type Notice struct {
	Level   NoticeLevel
	Message string
	Err     error
}

// Notifier surfaces notices without blocking the caller.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notice) {
	f(n)
}

// ControllerOptions configures a Controller.
type ControllerOptions struct {
	// UserID scopes created todos and the default cache.
	UserID string
	// Cache is invalidated after every successful write. When nil a cache
	// reading through the port is created.
	Cache *Cache
	// Notifier receives success and failure notices. Optional.
	Notifier Notifier
	// Logger receives failure details. Defaults to a discarding logger.
	Logger *log.Logger
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
	// WriteRetry applies to every port write. Defaults to WriteRetry().
	WriteRetry RetryPolicy
	// ReadRetry applies to the default cache. Defaults to ReadRetry().
	ReadRetry RetryPolicy
}

// Controller applies mutations for one user and keeps parent and sub-todo
// completion consistent.
type Controller struct {
	port     Port
	userID   string
	cache    *Cache
	notifier Notifier
	logger   *log.Logger
	now      func() time.Time
	write    RetryPolicy
}

// NewController returns a controller writing through port.
func NewController(port Port, opts ControllerOptions) *Controller {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Notifier == nil {
		opts.Notifier = NotifierFunc(func(Notice) {})
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.WriteRetry.Attempts == 0 {
		opts.WriteRetry = WriteRetry()
	}
	if opts.ReadRetry.Attempts == 0 {
		opts.ReadRetry = ReadRetry()
	}
	if opts.Cache == nil {
		opts.Cache = NewCache(opts.UserID, PortFetcher(port, opts.UserID, opts.ReadRetry))
	}
	return &Controller{
		port:     port,
		userID:   opts.UserID,
		cache:    opts.Cache,
		notifier: opts.Notifier,
		logger:   opts.Logger,
		now:      opts.Now,
		write:    opts.WriteRetry,
	}
}

// Cache returns the cache the controller invalidates.
func (c *Controller) Cache() *Cache {
	return c.cache
}

// Todos returns the current collection, fetching it when stale.
func (c *Controller) Todos(ctx context.Context) ([]Todo, error) {
	todos, err := c.cache.Todos(ctx)
	if err != nil {
		return nil, c.fail("list todos", err, "Failed to load todos")
	}
	return todos, nil
}

// CreateTodo stores a new todo and then each sub-todo draft with a non-blank
// title. Sub-todo failures are reported but do not undo the todo.
func (c *Controller) CreateTodo(ctx context.Context, draft Draft) (Todo, error) {
	const op = "create todo"

	fields, err := draftFields(draft)
	if err != nil {
		return Todo{}, validationError(op, err)
	}
	subs := make([]SubTodoFields, 0, len(draft.SubTodos))
	for _, sub := range draft.SubTodos {
		title := strings.TrimSpace(sub.Title)
		if title == "" {
			continue
		}
		if err := ValidateTitle(title); err != nil {
			return Todo{}, validationError(op, fmt.Errorf("sub-todo: %w", err))
		}
		subs = append(subs, SubTodoFields{Title: title, DueDate: sub.DueDate, DueTime: strings.TrimSpace(sub.DueTime)})
	}

	created, err := Retry(ctx, c.write, func(ctx context.Context) (Todo, error) {
		return c.port.InsertTodo(ctx, c.userID, fields)
	})
	if err != nil {
		return Todo{}, c.fail(op, err, "Failed to create todo")
	}
	defer c.cache.Invalidate()

	for _, sub := range subs {
		inserted, err := Retry(ctx, c.write, func(ctx context.Context) (SubTodo, error) {
			return c.port.InsertSubTodo(ctx, c.userID, created.ID, sub)
		})
		if err != nil {
			c.fail("create sub-todo", err, fmt.Sprintf("Failed to add sub-todo %q", sub.Title))
			continue
		}
		created.SubTodos = append(created.SubTodos, inserted)
	}

	c.succeed("Todo created")
	return created, nil
}

// UpdateTodo changes the fields set or cleared in patch. Changing Completed
// also sets or clears CompletedAt.
func (c *Controller) UpdateTodo(ctx context.Context, id string, patch TodoPatch) error {
	const op = "update todo"

	if strings.TrimSpace(id) == "" {
		return validationError(op, ErrMissingID)
	}
	patch, err := normalizeTodoPatch(patch, c.now())
	if err != nil {
		return validationError(op, err)
	}
	if patch.IsEmpty() {
		return nil
	}
	if _, err := c.lookup(ctx, op, id); err != nil {
		return err
	}

	if err := c.write.Do(ctx, func(ctx context.Context) error {
		return c.port.PatchTodo(ctx, c.userID, id, patch)
	}); err != nil {
		return c.fail(op, err, "Failed to update todo")
	}
	c.cache.Invalidate()
	c.succeed("Todo updated")
	return nil
}

// DeleteTodo removes a todo's sub-todos and then the todo. Sub-todo removal
// failures are logged and ignored.
func (c *Controller) DeleteTodo(ctx context.Context, id string) error {
	const op = "delete todo"

	todo, err := c.lookup(ctx, op, id)
	if err != nil {
		return err
	}

	wrote := false
	defer func() {
		if wrote {
			c.cache.Invalidate()
		}
	}()

	for _, sub := range todo.SubTodos {
		if err := c.write.Do(ctx, func(ctx context.Context) error {
			return c.port.RemoveSubTodo(ctx, c.userID, id, sub.ID)
		}); err != nil {
			c.logger.Warn("remove sub-todo", "op", op, "todo_id", id, "subtodo_id", sub.ID, "err", err)
			continue
		}
		wrote = true
	}

	if err := c.write.Do(ctx, func(ctx context.Context) error {
		return c.port.RemoveTodo(ctx, c.userID, id)
	}); err != nil {
		return c.fail(op, err, "Failed to delete todo")
	}
	wrote = true
	c.succeed("Todo deleted")
	return nil
}

// ToggleTodo flips a todo's completion and returns the new state.
func (c *Controller) ToggleTodo(ctx context.Context, id string) (bool, error) {
	const op = "toggle todo"

	todo, err := c.lookup(ctx, op, id)
	if err != nil {
		return false, err
	}

	completed := !todo.Completed
	if err := c.write.Do(ctx, func(ctx context.Context) error {
		return c.port.PatchTodo(ctx, c.userID, id, CompletionPatch(completed, c.now()))
	}); err != nil {
		return todo.Completed, c.fail(op, err, "Failed to update todo")
	}
	c.cache.Invalidate()
	c.succeed("Todo updated")
	return completed, nil
}

// ToggleSubTodo flips a sub-todo's completion and returns its new state. The
// parent is then completed when all its sub-todos are, and reopened when one
// of them is not.
func (c *Controller) ToggleSubTodo(ctx context.Context, todoID, subID string) (bool, error) {
	const op = "toggle sub-todo"

	parent, sub, index, err := c.lookupSubTodo(ctx, op, todoID, subID)
	if err != nil {
		return false, err
	}

	completed := !sub.Completed
	if err := c.write.Do(ctx, func(ctx context.Context) error {
		return c.port.PatchSubTodo(ctx, c.userID, parent.ID, subID, SubTodoPatch{Completed: Set(completed)})
	}); err != nil {
		return sub.Completed, c.fail(op, err, "Failed to update sub-todo")
	}
	defer c.cache.Invalidate()

	siblings := append([]SubTodo(nil), parent.SubTodos...)
	siblings[index].Completed = completed
	if want := RecomputeParentCompletion(parent, siblings); want != parent.Completed {
		if err := c.write.Do(ctx, func(ctx context.Context) error {
			return c.port.PatchTodo(ctx, c.userID, parent.ID, CompletionPatch(want, c.now()))
		}); err != nil {
			return completed, c.fail(op, err, "Failed to update parent todo")
		}
		c.logger.Debug("parent completion follows sub-todos", "todo_id", parent.ID, "completed", want)
	}
	c.succeed("Todo updated")
	return completed, nil
}

// DeleteSubTodo removes a sub-todo. A completed parent is reopened unless at
// least one sub-todo remains and all remaining are completed.
func (c *Controller) DeleteSubTodo(ctx context.Context, todoID, subID string) error {
	const op = "delete sub-todo"

	parent, _, _, err := c.lookupSubTodo(ctx, op, todoID, subID)
	if err != nil {
		return err
	}

	if err := c.write.Do(ctx, func(ctx context.Context) error {
		return c.port.RemoveSubTodo(ctx, c.userID, parent.ID, subID)
	}); err != nil {
		return c.fail(op, err, "Failed to delete sub-todo")
	}
	defer c.cache.Invalidate()

	remaining := withoutSubTodo(parent.SubTodos, subID)
	if parent.Completed && !CompletedAfterSubTodoDelete(parent, remaining) {
		if err := c.write.Do(ctx, func(ctx context.Context) error {
			return c.port.PatchTodo(ctx, c.userID, parent.ID, CompletionPatch(false, c.now()))
		}); err != nil {
			return c.fail(op, err, "Failed to update parent todo")
		}
		c.logger.Debug("parent reopened after sub-todo delete", "todo_id", parent.ID)
	}
	c.succeed("Sub-todo deleted")
	return nil
}

// CreateSubTodo adds a sub-todo to an existing todo.
func (c *Controller) CreateSubTodo(ctx context.Context, todoID string, draft SubDraft) (SubTodo, error) {
	const op = "create sub-todo"

	if strings.TrimSpace(todoID) == "" {
		return SubTodo{}, validationError(op, ErrMissingID)
	}
	if err := ValidateTitle(draft.Title); err != nil {
		return SubTodo{}, validationError(op, err)
	}
	fields := SubTodoFields{
		Title:   strings.TrimSpace(draft.Title),
		DueDate: draft.DueDate,
		DueTime: strings.TrimSpace(draft.DueTime),
	}
	parent, err := c.lookup(ctx, op, todoID)
	if err != nil {
		return SubTodo{}, err
	}

	created, err := Retry(ctx, c.write, func(ctx context.Context) (SubTodo, error) {
		return c.port.InsertSubTodo(ctx, c.userID, parent.ID, fields)
	})
	if err != nil {
		return SubTodo{}, c.fail(op, err, "Failed to add sub-todo")
	}
	c.cache.Invalidate()
	c.succeed("Sub-todo added")
	return created, nil
}

// UpdateSubTodo changes the fields set or cleared in patch. It never changes
// the parent.
func (c *Controller) UpdateSubTodo(ctx context.Context, todoID, subID string, patch SubTodoPatch) error {
	const op = "update sub-todo"

	if strings.TrimSpace(todoID) == "" || strings.TrimSpace(subID) == "" {
		return validationError(op, ErrMissingID)
	}
	patch, err := normalizeSubTodoPatch(patch)
	if err != nil {
		return validationError(op, err)
	}
	if patch.IsEmpty() {
		return nil
	}
	parent, _, _, err := c.lookupSubTodo(ctx, op, todoID, subID)
	if err != nil {
		return err
	}

	if err := c.write.Do(ctx, func(ctx context.Context) error {
		return c.port.PatchSubTodo(ctx, c.userID, parent.ID, subID, patch)
	}); err != nil {
		return c.fail(op, err, "Failed to update sub-todo")
	}
	c.cache.Invalidate()
	c.succeed("Sub-todo updated")
	return nil
}

func (c *Controller) lookup(ctx context.Context, op, id string) (Todo, error) {
	if strings.TrimSpace(id) == "" {
		return Todo{}, validationError(op, ErrMissingID)
	}
	todos, err := c.cache.Todos(ctx)
	if err != nil {
		return Todo{}, c.fail(op, err, "Failed to load todos")
	}
	todo, ok := Find(todos, id)
	if !ok {
		return Todo{}, NewError(KindNotFound, op, fmt.Errorf("%w: %s", ErrTodoNotFound, id))
	}
	return todo, nil
}

func (c *Controller) lookupSubTodo(ctx context.Context, op, todoID, subID string) (Todo, SubTodo, int, error) {
	if strings.TrimSpace(subID) == "" {
		return Todo{}, SubTodo{}, -1, validationError(op, ErrMissingID)
	}
	parent, err := c.lookup(ctx, op, todoID)
	if err != nil {
		return Todo{}, SubTodo{}, -1, err
	}
	sub, index, ok := parent.SubTodo(subID)
	if !ok {
		return Todo{}, SubTodo{}, -1, NewError(KindNotFound, op, fmt.Errorf("%w: %s", ErrSubTodoNotFound, subID))
	}
	return parent, sub, index, nil
}

func (c *Controller) fail(op string, err error, message string) error {
	if _, ok := err.(*Error); !ok && KindOf(err) == KindInternal {
		err = NewError(KindInternal, op, err)
	}
	c.logger.Error(message, "op", op, "kind", KindOf(err), "err", err)
	c.notifier.Notify(Notice{Level: NoticeError, Message: message, Err: err})
	return err
}

func (c *Controller) succeed(message string) {
	c.notifier.Notify(Notice{Level: NoticeSuccess, Message: message})
}

func draftFields(draft Draft) (TodoFields, error) {
	if err := ValidateTitle(draft.Title); err != nil {
		return TodoFields{}, err
	}
	priority := draft.Priority
	if priority == "" {
		priority = DefaultPriority
	}
	if err := ValidatePriority(priority); err != nil {
		return TodoFields{}, err
	}
	return TodoFields{
		Title:       strings.TrimSpace(draft.Title),
		Description: strings.TrimSpace(draft.Description),
		Priority:    priority,
		Color:       strings.TrimSpace(draft.Color),
		DueDate:     draft.DueDate,
		DueTime:     strings.TrimSpace(draft.DueTime),
		Tags:        NormalizeTags(draft.Tags),
	}, nil
}

func normalizeTodoPatch(patch TodoPatch, now time.Time) (TodoPatch, error) {
	if patch.Title.IsCleared() {
		return patch, fmt.Errorf("%w: title", ErrInvalidPatch)
	}
	if title, ok := patch.Title.Value(); ok {
		if err := ValidateTitle(title); err != nil {
			return patch, err
		}
		patch.Title = Set(strings.TrimSpace(title))
	}

	patch.Description = trimOptional(patch.Description)
	patch.Color = trimOptional(patch.Color)
	patch.DueTime = trimOptional(patch.DueTime)

	if patch.Priority.IsCleared() {
		return patch, fmt.Errorf("%w: priority", ErrInvalidPatch)
	}
	if priority, ok := patch.Priority.Value(); ok {
		if err := ValidatePriority(priority); err != nil {
			return patch, err
		}
	}

	if patch.Tags.IsCleared() {
		patch.Tags = Set([]string{})
	} else if tags, ok := patch.Tags.Value(); ok {
		patch.Tags = Set(NormalizeTags(tags))
	}

	if patch.Completed.IsCleared() {
		return patch, fmt.Errorf("%w: completed", ErrInvalidPatch)
	}
	completed, ok := patch.Completed.Value()
	switch {
	case !ok && patch.CompletedAt.Touched():
		return patch, fmt.Errorf("%w: completed_at requires completed", ErrInvalidPatch)
	case ok && completed && !patch.CompletedAt.IsSet():
		patch.CompletedAt = Set(now)
	case ok && !completed:
		patch.CompletedAt = Cleared[time.Time]()
	}

	return patch, nil
}

func normalizeSubTodoPatch(patch SubTodoPatch) (SubTodoPatch, error) {
	if patch.Title.IsCleared() {
		return patch, fmt.Errorf("%w: title", ErrInvalidPatch)
	}
	if title, ok := patch.Title.Value(); ok {
		if err := ValidateTitle(title); err != nil {
			return patch, err
		}
		patch.Title = Set(strings.TrimSpace(title))
	}
	if patch.Completed.IsCleared() {
		return patch, fmt.Errorf("%w: completed", ErrInvalidPatch)
	}
	patch.DueTime = trimOptional(patch.DueTime)
	return patch, nil
}

// trimOptional trims a set string and turns an empty result into a clear.
func trimOptional(field Field[string]) Field[string] {
	value, ok := field.Value()
	if !ok {
		return field
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return Cleared[string]()
	}
	return Set(value)
}
