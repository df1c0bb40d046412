package todo

import (
	"bytes"
	"encoding/json"
)

type fieldState uint8

const (
	fieldUnset fieldState = iota
	fieldSet
	fieldCleared
)

// Field is an updatable value in a patch. The zero Field is unset and leaves
// the stored value untouched; Set replaces it; Cleared removes it.
//
// In JSON an absent key is unset and null is cleared. Use the omitzero tag
// option so unset fields are not encoded.
type Field[T any] struct {
	state fieldState
	value T
}

// Set returns a field that replaces the stored value with value.
func Set[T any](value T) Field[T] {
	return Field[T]{state: fieldSet, value: value}
}

// Cleared returns a field that removes the stored value.
func Cleared[T any]() Field[T] {
	return Field[T]{state: fieldCleared}
}

// SetOrClear returns Set(*value), or Cleared when value is nil.
func SetOrClear[T any](value *T) Field[T] {
	if value == nil {
		return Cleared[T]()
	}
	return Set(*value)
}

// IsZero reports whether the field is unset.
func (f Field[T]) IsZero() bool {
	return f.state == fieldUnset
}

// IsSet reports whether the field carries a new value.
func (f Field[T]) IsSet() bool {
	return f.state == fieldSet
}

// IsCleared reports whether the field clears the stored value.
func (f Field[T]) IsCleared() bool {
	return f.state == fieldCleared
}

// Touched reports whether the field is set or cleared.
func (f Field[T]) Touched() bool {
	return f.state != fieldUnset
}

// Value returns the new value and whether the field is set.
func (f Field[T]) Value() (T, bool) {
	return f.value, f.state == fieldSet
}

// Ptr returns a pointer to the new value, or nil when the field is not set.
func (f Field[T]) Ptr() *T {
	if f.state != fieldSet {
		return nil
	}
	value := f.value
	return &value
}

// MarshalJSON encodes a set field as its value and any other field as null.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if f.state != fieldSet {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

// UnmarshalJSON decodes null as cleared and anything else as set.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = Cleared[T]()
		return nil
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*f = Set(value)
	return nil
}
