package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Saheb006/focusflow-organize-main/internal/auth"
	"github.com/Saheb006/focusflow-organize-main/internal/config"
	"github.com/Saheb006/focusflow-organize-main/internal/httpapi"
	"github.com/Saheb006/focusflow-organize-main/internal/listflags"
	"github.com/Saheb006/focusflow-organize-main/todo"
)

// health
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the backend is reachable and provisioned",
	Long: `Check that the backend is reachable and provisioned, then load the
todos. Prints setup guidance when the backend is not ready and exits
with status 2.`,
	Args: cobra.NoArgs,
	RunE: runHealth,
}

var healthJSON bool

// migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the todos and sub_todos tables",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

// serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the todo API over HTTP",
	Long: `Serve the todo API over HTTP.

Requests are authenticated with HS256 bearer tokens when [auth] jwt-secret
is configured (see "focusflow token"). Without a secret every request acts
as the configured user.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

// token
var tokenCmd = &cobra.Command{
	Use:   "token [user]",
	Short: "Issue a bearer token for the HTTP API",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runToken,
}

var tokenTTL time.Duration

func init() {
	rootCmd.AddCommand(healthCmd, migrateCmd, serveCmd, tokenCmd)

	listflags.AddJSONFlag(healthCmd, &healthJSON)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, "+config.DefaultAddr+")")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
}

// exitError ends the process with a specific status.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }
func (e *exitError) ExitCode() int { return e.code }

func runHealth(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(a *app) error {
		status := todo.Startup(cmd.Context(), a.backend, a.todos.Cache())
		if healthJSON {
			if err := encodeJSONToStdout(status); err != nil {
				return err
			}
		} else {
			fmt.Print(formatStatus(status))
		}
		if !status.Ready() {
			return &exitError{code: 2, err: fmt.Errorf("backend is not ready (%s)", status.Phase)}
		}
		return nil
	})
}

func formatStatus(status todo.Status) string {
	out := fmt.Sprintf("Status: %s\n", status.Phase)
	if status.Kind != "" {
		out += fmt.Sprintf("Kind:   %s\n", status.Kind)
	}
	if status.Message != "" {
		out += "\n" + status.Message + "\n"
	}
	if len(status.Guidance) > 0 {
		out += "\nTo fix this:\n"
		for i, step := range status.Guidance {
			out += fmt.Sprintf("  %d. %s\n", i+1, step)
		}
		out += "\nThen run `focusflow health` again.\n"
	}
	return out
}

func runMigrate(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(a *app) error {
		if err := a.backend.Migrate(cmd.Context()); err != nil {
			return err
		}
		fmt.Printf("Migrated %s backend\n", a.cfg.Backend.Driver)
		return nil
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return withApp(ctx, func(a *app) error {
		authenticate, err := authenticator(a.cfg.Auth)
		if err != nil {
			return err
		}

		addr := a.cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		if status := todo.Probe(ctx, a.backend); !status.Ready() {
			a.logger.Warn("backend not ready", "phase", status.Phase, "kind", status.Kind, "message", status.Message)
		}

		server := httpapi.New(httpapi.Options{
			Port:           a.backend,
			Authenticate:   authenticate,
			AllowedOrigins: a.cfg.Server.AllowedOrigins,
			Logger:         a.logger,
		})
		return httpapi.ListenAndServe(ctx, addr, server, a.logger)
	})
}

// authenticator verifies bearer tokens when a signing secret is configured
// and otherwise treats every request as the configured user.
func authenticator(cfg config.Auth) (func(http.Handler) http.Handler, error) {
	if cfg.JWTSecret == "" {
		return auth.Static(cfg.User), nil
	}
	tokens, err := auth.NewTokens(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	return auth.Bearer(tokens, httpapi.WriteError), nil
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tokens, err := auth.NewTokens(cfg.Auth.JWTSecret)
	if err != nil {
		return fmt.Errorf("%w (set [auth] jwt-secret or %s)", err, config.EnvJWTSecret)
	}

	user := cfg.Auth.User
	if len(args) > 0 {
		user = args[0]
	}
	token, err := tokens.Issue(user, tokenTTL)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

