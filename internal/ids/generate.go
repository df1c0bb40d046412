// Package ids generates record identifiers and resolves them from prefixes.
package ids

import (
	"strings"

	"github.com/google/uuid"
)

// New returns a random lowercase UUID.
func New() string {
	return strings.ToLower(uuid.NewString())
}

// Valid reports whether id parses as a UUID.
func Valid(id string) bool {
	return uuid.Validate(id) == nil
}
