package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/Saheb006/focusflow-organize-main/internal/config"
	"github.com/Saheb006/focusflow-organize-main/internal/logging"
	"github.com/Saheb006/focusflow-organize-main/internal/memstore"
	"github.com/Saheb006/focusflow-organize-main/internal/paths"
	"github.com/Saheb006/focusflow-organize-main/internal/pgstore"
	"github.com/Saheb006/focusflow-organize-main/internal/sqlitestore"
	"github.com/Saheb006/focusflow-organize-main/internal/ui"
	"github.com/Saheb006/focusflow-organize-main/todo"
)

// backend is a todo.Port the CLI can provision and release.
type backend interface {
	todo.Port
	Migrate(ctx context.Context) error
	Close() error
}

type pgBackend struct {
	*pgstore.Store
}

func (b pgBackend) Close() error {
	b.Store.Close()
	return nil
}

// memBackend keeps todos for the lifetime of one command.
type memBackend struct {
	*memstore.Store
}

func (memBackend) Migrate(context.Context) error { return nil }
func (memBackend) Close() error { return nil }

func openBackend(ctx context.Context, cfg config.Backend) (backend, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.URL), 0o755); err != nil {
			return nil, todo.NewError(todo.KindConfiguration, "open sqlite", fmt.Errorf("create database directory: %w", err))
		}
		store, err := sqlitestore.Open(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.DriverPostgres:
		store, err := pgstore.Open(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		return pgBackend{store}, nil
	case config.DriverMemory:
		return memBackend{memstore.New()}, nil
	default:
		return nil, todo.Errorf(todo.KindConfiguration, "open backend", "%v: %q", config.ErrUnknownDriver, cfg.Driver)
	}
}

// app is everything a command needs to read and change the user's todos.
type app struct {
	cfg     *config.Config
	logger  *log.Logger
	backend backend
	todos   *todo.Controller
}

func loadConfig() (*config.Config, error) {
	cwd, err := paths.WorkingDir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*log.Logger, error) {
	return logging.New(os.Stderr, logging.Options{
		Level:  cfg.Log.Level,
		Prefix: "focusflow",
	})
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	b, err := openBackend(ctx, cfg.Backend)
	if err != nil {
		return nil, err
	}

	controller := todo.NewController(b, todo.ControllerOptions{
		UserID: cfg.Auth.User,
		Logger: logger,
		Notifier: todo.NotifierFunc(func(n todo.Notice) {
			logger.Debug(n.Message, "level", n.Level)
		}),
	})

	return &app{cfg: cfg, logger: logger, backend: b, todos: controller}, nil
}

func (a *app) Close() {
	if err := a.backend.Close(); err != nil {
		a.logger.Warn("close backend", "err", err)
	}
}

// resolveTodo looks up a todo by ID or unique ID prefix.
func (a *app) resolveTodo(ctx context.Context, prefix string) (todo.Todo, error) {
	todos, err := a.todos.Todos(ctx)
	if err != nil {
		return todo.Todo{}, err
	}
	return todo.ResolveTodo(todos, prefix)
}

// resolveSubTodo looks up a todo and one of its sub-todos by prefix.
func (a *app) resolveSubTodo(ctx context.Context, todoPrefix, subPrefix string) (todo.Todo, todo.SubTodo, error) {
	parent, err := a.resolveTodo(ctx, todoPrefix)
	if err != nil {
		return todo.Todo{}, todo.SubTodo{}, err
	}
	sub, err := todo.ResolveSubTodo(parent, subPrefix)
	if err != nil {
		return todo.Todo{}, todo.SubTodo{}, err
	}
	return parent, sub, nil
}

// highlighter returns a function that highlights each ID's unique prefix
// among the current todos.
func (a *app) highlighter(ctx context.Context) func(string) string {
	var lengths map[string]int
	if todos, err := a.todos.Todos(ctx); err == nil {
		lengths = todo.NewIDIndex(todos).PrefixLengths()
	}
	return func(id string) string {
		return ui.HighlightID(id, ui.PrefixLength(lengths, id))
	}
}

func withApp(ctx context.Context, fn func(*app) error) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
