package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// Home is a throwaway home directory laid out the way focusflow expects.
type Home struct {
	Dir       string
	ConfigDir string
	DataDir   string
}

// NewHome creates the focusflow config and data directories under dir.
func NewHome(dir string) (Home, error) {
	home := Home{
		Dir:       dir,
		ConfigDir: filepath.Join(dir, ".config", "focusflow"),
		DataDir:   filepath.Join(dir, ".local", "share", "focusflow"),
	}
	for _, path := range []string{home.ConfigDir, home.DataDir} {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return Home{}, fmt.Errorf("create %s: %w", path, err)
		}
	}
	return home, nil
}

// DatabasePath is the default sqlite file inside the home.
func (h Home) DatabasePath() string {
	return filepath.Join(h.DataDir, "focusflow.db")
}

// WriteGlobalConfig writes the global config.toml.
func (h Home) WriteGlobalConfig(t testing.TB, content string) {
	t.Helper()

	path := filepath.Join(h.ConfigDir, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write global config: %v", err)
	}
}

// SetupTestHome creates a temp home and points HOME at it.
func SetupTestHome(t testing.TB) Home {
	t.Helper()

	home, err := NewHome(t.TempDir())
	if err != nil {
		t.Fatalf("setup home dir: %v", err)
	}
	t.Setenv("HOME", home.Dir)
	return home
}
