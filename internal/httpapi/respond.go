package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Saheb006/focusflow-organize-main/todo"
)

type errorResponse struct {
	Error string         `json:"error"`
	Kind  todo.ErrorKind `json:"kind"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(value)
}

// WriteError writes err as a JSON error body with the status for its kind.
// It fits auth.ErrorWriter.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	kind := todo.KindOf(err)
	writeJSON(w, statusFor(kind), errorResponse{Error: err.Error(), Kind: kind})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	WriteError(w, r, err)
}

// statusFor maps an error kind to an HTTP status.
func statusFor(kind todo.ErrorKind) int {
	switch kind {
	case todo.KindValidation:
		return http.StatusBadRequest
	case todo.KindNotAuthenticated:
		return http.StatusUnauthorized
	case todo.KindPermission:
		return http.StatusForbidden
	case todo.KindNotFound:
		return http.StatusNotFound
	case todo.KindSchemaMissing, todo.KindConfiguration, todo.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody reads a JSON body into dst. Unknown fields are rejected.
func decodeBody(w http.ResponseWriter, r *http.Request, op string, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return todo.Errorf(todo.KindValidation, op, "request body is empty")
		}
		return todo.NewError(todo.KindValidation, op, fmt.Errorf("decode request body: %w", err))
	}
	if dec.More() {
		return todo.Errorf(todo.KindValidation, op, "request body has trailing data")
	}
	return nil
}
