// Package httpapi serves the todo controller and views over JSON HTTP.
package httpapi

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Saheb006/focusflow-organize-main/internal/logging"
	"github.com/Saheb006/focusflow-organize-main/todo"
)

// RequestTimeout bounds every request's context.
const RequestTimeout = 60 * time.Second

const maxBodyBytes = 1 << 20

// Options configures a Server.
type Options struct {
	// Port is the backend every request reads and writes through.
	Port todo.Port
	// Sessions holds one cache per user. Defaults to caches over Port with
	// the read retry policy.
	Sessions *todo.Sessions
	// Authenticate puts the user id into the request context, typically
	// auth.Bearer or auth.Static.
	Authenticate func(http.Handler) http.Handler
	// AllowedOrigins enables CORS for browser clients when non-empty.
	AllowedOrigins []string
	Logger         *log.Logger
	Now            func() time.Time
	WriteRetry     todo.RetryPolicy
}

// Server routes HTTP requests to per-user controllers.
type Server struct {
	port     todo.Port
	sessions *todo.Sessions
	logger   *log.Logger
	now      func() time.Time
	write    todo.RetryPolicy
	router   chi.Router
}

// New builds the router.
func New(opts Options) *Server {
	if opts.Sessions == nil {
		opts.Sessions = todo.NewSessions(opts.Port, todo.ReadRetry())
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.WriteRetry.Attempts == 0 {
		opts.WriteRetry = todo.WriteRetry()
	}

	s := &Server{
		port:     opts.Port,
		sessions: opts.Sessions,
		logger:   opts.Logger,
		now:      opts.Now,
		write:    opts.WriteRetry,
	}
	s.router = s.routes(opts)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes(opts Options) chi.Router {
	r := chi.NewRouter()

	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders: []string{"X-Request-Id"},
			MaxAge:         300,
		}))
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(RequestTimeout))

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if opts.Authenticate != nil {
			r.Use(opts.Authenticate)
		}

		r.Get("/status", s.handleStatus)
		r.Post("/signout", s.handleSignOut)

		r.Route("/todos", func(r chi.Router) {
			r.Get("/", s.handleListTodos)
			r.Post("/", s.handleCreateTodo)
			r.Get("/counts", s.handleCounts)
			r.Get("/stats", s.handleStats)

			r.Route("/{todoID}", func(r chi.Router) {
				r.Get("/", s.handleGetTodo)
				r.Patch("/", s.handleUpdateTodo)
				r.Delete("/", s.handleDeleteTodo)
				r.Post("/toggle", s.handleToggleTodo)

				r.Post("/subtodos", s.handleCreateSubTodo)
				r.Patch("/subtodos/{subID}", s.handleUpdateSubTodo)
				r.Delete("/subtodos/{subID}", s.handleDeleteSubTodo)
				r.Post("/subtodos/{subID}/toggle", s.handleToggleSubTodo)
			})
		})

		r.Get("/agenda", s.handleAgenda)
		r.Get("/calendar/{date}", s.handleDay)
		r.Get("/calendar/month/{month}", s.handleMonth)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, todo.Errorf(todo.KindNotFound, "route", "no route for %s %s", r.Method, r.URL.Path))
	})

	return r
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
