package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Saheb006/focusflow-organize-main/todo"
)

type ctxKey string

const ctxKeyUserID ctxKey = "userID"

// ContextWithUserID returns ctx carrying userID.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKeyUserID, userID)
}

// UserIDFromContext returns the user id stored by the middleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKeyUserID).(string)
	return id, ok && id != ""
}

// ErrorWriter reports an authentication failure to the client.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Bearer requires a valid "Authorization: Bearer" token and stores its
// subject in the request context.
func Bearer(tokens *Tokens, fail ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r.Header.Get("Authorization"))
			if err == nil {
				var userID string
				userID, err = tokens.Parse(token)
				if err == nil {
					next.ServeHTTP(w, r.WithContext(ContextWithUserID(r.Context(), userID)))
					return
				}
			}
			fail(w, r, todo.NewError(todo.KindNotAuthenticated, "authenticate", err))
		})
	}
}

// Static treats every request as coming from userID. It serves single-user
// setups that have no signing secret.
func Static(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(ContextWithUserID(r.Context(), userID)))
		})
	}
}

var (
	errMissingHeader = errors.New("missing Authorization header")
	errBadHeader     = errors.New("invalid Authorization header")
)

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingHeader
	}
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", errBadHeader
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", errBadHeader
	}
	return token, nil
}
