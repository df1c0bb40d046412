package todo

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Saheb006/focusflow-organize-main/internal/validation"
)

var (
	// ErrEmptyTitle is returned when a title is empty after trimming.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrTitleTooLong is returned when a title exceeds MaxTitleLength.
	ErrTitleTooLong = errors.New("title exceeds maximum length")

	// ErrInvalidPriority is returned when an unknown priority is provided.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrInvalidDate is returned when a date is not formatted as YYYY-MM-DD.
	ErrInvalidDate = errors.New("date must be formatted as YYYY-MM-DD")

	// ErrMissingID is returned when an operation is called without an identifier.
	ErrMissingID = errors.New("id cannot be empty")

	// ErrInvalidPatch is returned when a patch clears a required field.
	ErrInvalidPatch = errors.New("patch cannot clear a required field")

	// ErrTodoNotFound is returned when a todo with the given ID doesn't exist.
	ErrTodoNotFound = errors.New("todo not found")

	// ErrSubTodoNotFound is returned when a sub-todo with the given ID doesn't exist.
	ErrSubTodoNotFound = errors.New("sub-todo not found")

	// ErrAmbiguousTodoIDPrefix is returned when an ID prefix matches multiple todos.
	ErrAmbiguousTodoIDPrefix = errors.New("ambiguous todo ID prefix")

	// ErrCompletedMissingCompletedAt is returned when a completed todo has no completed_at timestamp.
	ErrCompletedMissingCompletedAt = errors.New("completed todo must have completed_at timestamp")

	// ErrNotCompletedHasCompletedAt is returned when an incomplete todo has a completed_at timestamp.
	ErrNotCompletedHasCompletedAt = errors.New("incomplete todo cannot have completed_at timestamp")

	// ErrInvalidTags is returned when tags contain empty or duplicate entries.
	ErrInvalidTags = errors.New("tags must be unique and non-empty")
)

// ValidateTitle checks if the title is valid once trimmed. Length is counted
// in characters, not bytes.
func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	if n := utf8.RuneCountInString(title); n > MaxTitleLength {
		return fmt.Errorf("%w: %d > %d", ErrTitleTooLong, n, MaxTitleLength)
	}
	return nil
}

// ValidatePriority checks if the priority is valid.
func ValidatePriority(p Priority) error {
	if !p.IsValid() {
		return validation.FormatInvalidValueError(ErrInvalidPriority, p, ValidPriorities())
	}
	return nil
}

// ValidTag reports whether tag can be added to tags: its trimmed form must be
// non-empty and not already present.
func ValidTag(tags []string, tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return false
	}
	for _, existing := range tags {
		if existing == tag {
			return false
		}
	}
	return true
}

// NormalizeTags trims tags and drops empty and duplicate entries, keeping the
// first occurrence order.
func NormalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		if ValidTag(normalized, tag) {
			normalized = append(normalized, strings.TrimSpace(tag))
		}
	}
	return normalized
}

// ValidateTodo checks if a todo struct is valid.
func ValidateTodo(t *Todo) error {
	if err := ValidateTitle(t.Title); err != nil {
		return err
	}

	if err := ValidatePriority(t.Priority); err != nil {
		return err
	}

	if len(NormalizeTags(t.Tags)) != len(t.Tags) {
		return fmt.Errorf("%w: %q", ErrInvalidTags, t.Tags)
	}

	if t.Completed && t.CompletedAt == nil {
		return ErrCompletedMissingCompletedAt
	}
	if !t.Completed && t.CompletedAt != nil {
		return ErrNotCompletedHasCompletedAt
	}

	for _, sub := range t.SubTodos {
		if err := ValidateTitle(sub.Title); err != nil {
			return fmt.Errorf("sub-todo %s: %w", sub.ID, err)
		}
	}

	return nil
}
