package testsupport

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/Saheb006/focusflow-organize-main/todo"
)

var (
	buildOnce     sync.Once
	focusflowPath string
	buildErr      error
)

// BuildFocusflow builds the focusflow binary once and returns its path.
func BuildFocusflow(t testing.TB) string {
	t.Helper()

	buildOnce.Do(func() {
		moduleRoot, err := findModuleRoot()
		if err != nil {
			buildErr = err
			return
		}

		binDir, err := os.MkdirTemp("", "focusflow-bin-")
		if err != nil {
			buildErr = err
			return
		}

		focusflowPath = filepath.Join(binDir, "focusflow")
		cmd := exec.Command("go", "build", "-o", focusflowPath, "./cmd/focusflow")
		cmd.Dir = moduleRoot
		output, err := cmd.CombinedOutput()
		if err != nil {
			buildErr = fmt.Errorf("build focusflow: %w: %s", err, strings.TrimSpace(string(output)))
		}
	})

	if buildErr != nil {
		t.Fatalf("%v", buildErr)
	}

	return focusflowPath
}

// SetupScriptEnv exposes the binary as $FOCUSFLOW, points HOME into the
// script's work dir and keeps the database there.
func SetupScriptEnv(t testing.TB, env *testscript.Env) error {
	t.Helper()

	env.Setenv("FOCUSFLOW", BuildFocusflow(t))

	home, err := NewHome(filepath.Join(env.WorkDir, "home"))
	if err != nil {
		return err
	}
	env.Setenv("HOME", home.Dir)
	env.Setenv("NO_COLOR", "1")
	env.Setenv("FOCUSFLOW_DATABASE_URL", filepath.Join(env.WorkDir, "focusflow.db"))
	env.Setenv("FOCUSFLOW_USER", "script-user")
	return nil
}

// CmdEnvSet stores the trimmed contents of a file in an env var.
func CmdEnvSet(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("envset does not support negation")
	}
	if len(args) != 2 {
		ts.Fatalf("usage: envset VAR FILE")
	}

	value := strings.TrimSpace(ts.ReadFile(args[1]))
	ts.Setenv(args[0], value)
}

// CmdTodoID finds a todo by title in a JSON list and stores its ID in an env var.
func CmdTodoID(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("todoid does not support negation")
	}
	if len(args) != 3 {
		ts.Fatalf("usage: todoid FILE TITLE VAR")
	}

	var items []todo.Todo
	data := ts.ReadFile(args[0])
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		ts.Fatalf("parse todo list: %v", err)
	}

	title := args[1]
	for _, item := range items {
		if item.Title == title {
			ts.Setenv(args[2], item.ID)
			return
		}
	}

	ts.Fatalf("todo with title %q not found", title)
}

// CmdSubTodoID finds a sub-todo by title in a JSON list and stores its ID in an env var.
func CmdSubTodoID(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("subtodoid does not support negation")
	}
	if len(args) != 3 {
		ts.Fatalf("usage: subtodoid FILE TITLE VAR")
	}

	var items []todo.Todo
	data := ts.ReadFile(args[0])
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		ts.Fatalf("parse todo list: %v", err)
	}

	for _, item := range items {
		for _, sub := range item.SubTodos {
			if sub.Title == args[1] {
				ts.Setenv(args[2], sub.ID)
				return
			}
		}
	}

	ts.Fatalf("sub-todo with title %q not found", args[1])
}

func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find module root (go.mod)")
		}
		dir = parent
	}
}
