package services

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidID is returned when a record id is not in the store's id format.
var ErrInvalidID = errors.New("invalid id format")

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when input or the resulting record violates a
// constraint.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// newValidationError returns nil when there are no problems.
func newValidationError(problems []FieldError) error {
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Fields: problems}
}

// DuplicateKeyError is returned when a write violates a unique constraint.
type DuplicateKeyError struct {
	Field string
	Value string
}

func (e *DuplicateKeyError) Error() string {
	if e.Field == "" {
		return "duplicate key"
	}
	if e.Value == "" {
		return fmt.Sprintf("duplicate value for %s", e.Field)
	}
	return fmt.Sprintf("duplicate value for %s: %q", e.Field, e.Value)
}

// IsDuplicateKey reports whether err is a DuplicateKeyError on field. An empty
// field matches any duplicate key error.
func IsDuplicateKey(err error, field string) bool {
	var dup *DuplicateKeyError
	if !errors.As(err, &dup) {
		return false
	}
	return field == "" || dup.Field == field
}
