package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Saheb006/focusflow-organize-main/internal/config"
	"github.com/Saheb006/focusflow-organize-main/internal/testsupport"
	"github.com/Saheb006/focusflow-organize-main/todo"
)

var envKeys = []string{
	config.EnvDriver,
	config.EnvDatabaseURL,
	config.EnvUser,
	config.EnvJWTSecret,
	config.EnvAddr,
	config.EnvAllowedOrigins,
	config.EnvLogLevel,
}

// clearEnv unsets every override for the test and restores it afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestLoad_NotFound(t *testing.T) {
	home := testsupport.SetupTestHome(t)
	clearEnv(t)
	tmpDir := t.TempDir()

	cfg, err := config.Load(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &config.Config{
		Backend: config.Backend{
			Driver: config.DriverSQLite,
			URL:    home.DatabasePath(),
		},
		Auth:   config.Auth{User: config.DefaultUser},
		Server: config.Server{Addr: config.DefaultAddr},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoad_Full(t *testing.T) {
	testsupport.SetupTestHome(t)
	clearEnv(t)
	tmpDir := t.TempDir()

	writeFile(t, filepath.Join(tmpDir, config.ProjectFile), `
[backend]
driver = "postgres"
url = "postgres://localhost/focusflow"

[auth]
user = "ada"
jwt-secret = "s3cret"

[server]
addr = ":9000"
allowed-origins = ["http://localhost:5173"]

[log]
level = "debug"
`)

	cfg, err := config.Load(tmpDir)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	want := &config.Config{
		Backend: config.Backend{Driver: "postgres", URL: "postgres://localhost/focusflow"},
		Auth:    config.Auth{User: "ada", JWTSecret: "s3cret"},
		Server:  config.Server{Addr: ":9000", AllowedOrigins: []string{"http://localhost:5173"}},
		Log:     config.Log{Level: "debug"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	testsupport.SetupTestHome(t)
	clearEnv(t)
	tmpDir := t.TempDir()

	writeFile(t, filepath.Join(tmpDir, config.ProjectFile), `this is not valid toml [`)

	_, err := config.Load(tmpDir)
	if err == nil {
		t.Fatal("expected error for invalid TOML")
	}
	if !todo.IsKind(err, todo.KindConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestLoad_ProjectOverridesGlobal(t *testing.T) {
	home := testsupport.SetupTestHome(t)
	clearEnv(t)
	tmpDir := t.TempDir()

	home.WriteGlobalConfig(t, `
[auth]
user = "global-user"

[server]
addr = ":7000"
allowed-origins = ["https://global.example"]
`)
	writeFile(t, filepath.Join(tmpDir, config.ProjectFile), `
[auth]
user = "project-user"
`)

	cfg, err := config.Load(tmpDir)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Auth.User != "project-user" {
		t.Errorf("User = %q, expected %q", cfg.Auth.User, "project-user")
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("Addr = %q, expected %q", cfg.Server.Addr, ":7000")
	}
	if diff := cmp.Diff([]string{"https://global.example"}, cfg.Server.AllowedOrigins); diff != "" {
		t.Errorf("AllowedOrigins mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_ProjectCanClearGlobalValue(t *testing.T) {
	home := testsupport.SetupTestHome(t)
	clearEnv(t)
	tmpDir := t.TempDir()

	home.WriteGlobalConfig(t, `
[server]
allowed-origins = ["https://global.example"]
`)
	writeFile(t, filepath.Join(tmpDir, config.ProjectFile), `
[server]
allowed-origins = []
`)

	cfg, err := config.Load(tmpDir)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if len(cfg.Server.AllowedOrigins) != 0 {
		t.Fatalf("expected project to clear origins, got %v", cfg.Server.AllowedOrigins)
	}
}

func TestLoad_EnvOverridesFiles(t *testing.T) {
	testsupport.SetupTestHome(t)
	clearEnv(t)
	tmpDir := t.TempDir()

	writeFile(t, filepath.Join(tmpDir, config.ProjectFile), `
[backend]
driver = "sqlite"
url = "project.db"
`)
	t.Setenv(config.EnvDriver, "postgres")
	t.Setenv(config.EnvDatabaseURL, "postgres://env/focusflow")
	t.Setenv(config.EnvAllowedOrigins, "https://a.example, https://b.example,")

	cfg, err := config.Load(tmpDir)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Backend.Driver != config.DriverPostgres || cfg.Backend.URL != "postgres://env/focusflow" {
		t.Fatalf("backend = %+v, expected env values", cfg.Backend)
	}
	if diff := cmp.Diff([]string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins); diff != "" {
		t.Fatalf("AllowedOrigins mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	testsupport.SetupTestHome(t)
	clearEnv(t)
	tmpDir := t.TempDir()

	writeFile(t, filepath.Join(tmpDir, ".env"), "FOCUSFLOW_USER=dotenv-user\nFOCUSFLOW_LOG_LEVEL=warn\n")

	cfg, err := config.Load(tmpDir)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Auth.User != "dotenv-user" {
		t.Errorf("User = %q, expected %q", cfg.Auth.User, "dotenv-user")
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Level = %q, expected %q", cfg.Log.Level, "warn")
	}
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	testsupport.SetupTestHome(t)
	clearEnv(t)
	tmpDir := t.TempDir()

	writeFile(t, filepath.Join(tmpDir, ".env"), "FOCUSFLOW_USER=dotenv-user\n")
	t.Setenv(config.EnvUser, "shell-user")

	cfg, err := config.Load(tmpDir)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Auth.User != "shell-user" {
		t.Errorf("User = %q, expected %q", cfg.Auth.User, "shell-user")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		backend config.Backend
		wantErr error
	}{
		{name: "sqlite", backend: config.Backend{Driver: "sqlite", URL: "todos.db"}},
		{name: "memory", backend: config.Backend{Driver: "memory"}},
		{name: "postgres", backend: config.Backend{Driver: "postgres", URL: "postgres://localhost/db"}},
		{name: "postgres without url", backend: config.Backend{Driver: "postgres"}, wantErr: config.ErrMissingURL},
		{name: "unknown driver", backend: config.Backend{Driver: "mongo"}, wantErr: config.ErrUnknownDriver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Backend: tt.backend}
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if !todo.IsKind(err, todo.KindConfiguration) {
				t.Fatalf("expected configuration kind, got %q", todo.KindOf(err))
			}
		})
	}
}
