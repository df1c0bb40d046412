// Package config handles loading focusflow.toml configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/Saheb006/focusflow-organize-main/internal/paths"
	"github.com/Saheb006/focusflow-organize-main/todo"
)

// ProjectFile is the name of the per-directory config file.
const ProjectFile = "focusflow.toml"

// Backend drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Defaults applied after merging.
const (
	DefaultDriver = DriverSQLite
	DefaultUser   = "local"
	DefaultAddr   = "127.0.0.1:8080"
)

// Environment variables that override file settings.
const (
	EnvDriver         = "FOCUSFLOW_DRIVER"
	EnvDatabaseURL    = "FOCUSFLOW_DATABASE_URL"
	EnvUser           = "FOCUSFLOW_USER"
	EnvJWTSecret      = "FOCUSFLOW_JWT_SECRET"
	EnvAddr           = "FOCUSFLOW_ADDR"
	EnvAllowedOrigins = "FOCUSFLOW_ALLOWED_ORIGINS"
	EnvLogLevel       = "FOCUSFLOW_LOG_LEVEL"
)

// ErrUnknownDriver is returned when the backend driver is not recognized.
var ErrUnknownDriver = errors.New("unknown backend driver")

// ErrMissingURL is returned when a postgres backend has no connection URL.
var ErrMissingURL = errors.New("backend url is required")

// Config represents the focusflow.toml configuration file.
type Config struct {
	Backend Backend `toml:"backend"`
	Auth    Auth    `toml:"auth"`
	Server  Server  `toml:"server"`
	Log     Log     `toml:"log"`
}

// Backend selects where todos are stored.
type Backend struct {
	// Driver is one of sqlite, postgres or memory.
	Driver string `toml:"driver"`
	// URL is a sqlite file path or a postgres connection string.
	URL string `toml:"url"`
}

// Auth identifies the user.
type Auth struct {
	// User is the user id the CLI acts as.
	User string `toml:"user"`
	// JWTSecret verifies bearer tokens on the HTTP API.
	JWTSecret string `toml:"jwt-secret"`
}

// Server configures `focusflow serve`.
type Server struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed-origins"`
}

// Log configures logging.
type Log struct {
	Level string `toml:"level"`
}

// Load loads configuration from dir and the global config file, then applies
// dir/.env and FOCUSFLOW_* environment overrides and fills in defaults.
func Load(dir string) (*Config, error) {
	configDir, err := paths.DefaultConfigDir()
	if err != nil {
		return nil, err
	}

	globalCfg, globalMeta, err := loadConfigFile(filepath.Join(configDir, "config.toml"))
	if err != nil {
		return nil, err
	}

	projectCfg, projectMeta, err := loadConfigFile(filepath.Join(dir, ProjectFile))
	if err != nil {
		return nil, err
	}

	merged := mergeConfigs(globalCfg, projectCfg, globalMeta, projectMeta)

	if err := loadDotEnv(filepath.Join(dir, ".env")); err != nil {
		return nil, err
	}
	applyEnv(merged, os.Getenv)

	if err := merged.applyDefaults(); err != nil {
		return nil, err
	}
	return merged, nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, todo.NewError(todo.KindConfiguration, "load config", fmt.Errorf("read config file %s: %w", path, err))
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, todo.NewError(todo.KindConfiguration, "load config", fmt.Errorf("parse config file %s: %w", path, err))
	}

	return &cfg, meta, nil
}

// loadDotEnv reads path into the environment without overriding variables
// that are already set.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return todo.NewError(todo.KindConfiguration, "load config", fmt.Errorf("read env file %s: %w", path, err))
	}
	return nil
}

func mergeConfigs(globalCfg, projectCfg *Config, globalMeta, projectMeta toml.MetaData) *Config {
	if globalCfg == nil {
		globalCfg = &Config{}
	}
	if projectCfg == nil {
		projectCfg = &Config{}
	}

	merged := Config{}
	merged.Backend.Driver = mergeString(projectMeta.IsDefined("backend", "driver"), projectCfg.Backend.Driver, globalCfg.Backend.Driver)
	merged.Backend.URL = mergeString(projectMeta.IsDefined("backend", "url"), projectCfg.Backend.URL, globalCfg.Backend.URL)
	merged.Auth.User = mergeString(projectMeta.IsDefined("auth", "user"), projectCfg.Auth.User, globalCfg.Auth.User)
	merged.Auth.JWTSecret = mergeString(projectMeta.IsDefined("auth", "jwt-secret"), projectCfg.Auth.JWTSecret, globalCfg.Auth.JWTSecret)
	merged.Server.Addr = mergeString(projectMeta.IsDefined("server", "addr"), projectCfg.Server.Addr, globalCfg.Server.Addr)
	merged.Log.Level = mergeString(projectMeta.IsDefined("log", "level"), projectCfg.Log.Level, globalCfg.Log.Level)
	if projectMeta.IsDefined("server", "allowed-origins") {
		merged.Server.AllowedOrigins = append([]string(nil), projectCfg.Server.AllowedOrigins...)
	} else if globalMeta.IsDefined("server", "allowed-origins") {
		merged.Server.AllowedOrigins = append([]string(nil), globalCfg.Server.AllowedOrigins...)
	}

	return &merged
}

func mergeString(projectDefined bool, projectValue, globalValue string) string {
	value := globalValue
	if projectDefined {
		value = projectValue
	}
	return strings.TrimSpace(value)
}

func applyEnv(cfg *Config, getenv func(string) string) {
	override := func(target *string, key string) {
		if value := strings.TrimSpace(getenv(key)); value != "" {
			*target = value
		}
	}
	override(&cfg.Backend.Driver, EnvDriver)
	override(&cfg.Backend.URL, EnvDatabaseURL)
	override(&cfg.Auth.User, EnvUser)
	override(&cfg.Auth.JWTSecret, EnvJWTSecret)
	override(&cfg.Server.Addr, EnvAddr)
	override(&cfg.Log.Level, EnvLogLevel)

	if value := strings.TrimSpace(getenv(EnvAllowedOrigins)); value != "" {
		cfg.Server.AllowedOrigins = splitList(value)
	}
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (cfg *Config) applyDefaults() error {
	cfg.Backend.Driver = strings.ToLower(cfg.Backend.Driver)
	if cfg.Backend.Driver == "" {
		cfg.Backend.Driver = DefaultDriver
	}
	if cfg.Backend.Driver == DriverSQLite {
		path, err := paths.ResolveWithDefault(cfg.Backend.URL, paths.DefaultDatabasePath)
		if err != nil {
			return todo.NewError(todo.KindConfiguration, "load config", err)
		}
		cfg.Backend.URL = path
	}
	if cfg.Auth.User == "" {
		cfg.Auth.User = DefaultUser
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultAddr
	}
	return nil
}

// Validate reports settings that keep the backend from being opened.
func (cfg *Config) Validate() error {
	switch cfg.Backend.Driver {
	case DriverSQLite, DriverMemory:
	case DriverPostgres:
		if cfg.Backend.URL == "" {
			return todo.NewError(todo.KindConfiguration, "validate config", fmt.Errorf("%w for driver %s (set %s)", ErrMissingURL, cfg.Backend.Driver, EnvDatabaseURL))
		}
	default:
		return todo.NewError(todo.KindConfiguration, "validate config", fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Backend.Driver))
	}
	return nil
}
