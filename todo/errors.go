package todo

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure so callers can decide whether to retry it
// and how to present it.
type ErrorKind string

const (
	// KindValidation is bad input, rejected before any backend call.
	KindValidation ErrorKind = "validation"

	// KindNotAuthenticated means no valid user identity was provided.
	KindNotAuthenticated ErrorKind = "not_authenticated"

	// KindSchemaMissing means the backend tables have not been provisioned yet.
	KindSchemaMissing ErrorKind = "schema_missing"

	// KindUnavailable is a transient backend or network failure.
	KindUnavailable ErrorKind = "unavailable"

	// KindPermission means the backend refused access to the records.
	KindPermission ErrorKind = "permission"

	// KindConfiguration means the backend connection is misconfigured.
	KindConfiguration ErrorKind = "configuration"

	// KindNotFound means the addressed record does not exist.
	KindNotFound ErrorKind = "not_found"

	// KindInternal is any failure the backend did not classify.
	KindInternal ErrorKind = "internal"
)

// NeedsSetup reports whether failures of this kind are resolved by fixing
// the backend setup rather than by waiting.
func (k ErrorKind) NeedsSetup() bool {
	switch k {
	case KindSchemaMissing, KindPermission, KindConfiguration:
		return true
	default:
		return false
	}
}

// Error is a categorized failure.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

// NewError wraps err with a kind and the operation that failed.
func NewError(kind ErrorKind, op string, err error) *Error {
	if err == nil {
		err = errors.New(string(kind))
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf builds a categorized error from a format string.
func Errorf(kind ErrorKind, op, format string, args ...any) *Error {
	return NewError(kind, op, fmt.Errorf(format, args...))
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err. Errors that were never categorized are
// KindInternal; a nil error has no kind.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var kindErr *Error
	if errors.As(err, &kindErr) {
		return kindErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err has the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

func validationError(op string, err error) error {
	return NewError(KindValidation, op, err)
}
