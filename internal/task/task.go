// Package task holds the todo item record and its ordered in-memory store.
package task

import (
	"errors"
	"fmt"
	"time"
)

// Task is a single todo item.
type Task struct {
	ID        uint64    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsZero returns true if the task is empty (has no ID).
func (t *Task) IsZero() bool {
	return t.ID == 0
}

// ErrNotFound is returned when an operation references an id with no live record.
var ErrNotFound = errors.New("task not found")

// ValidationError reports a rejected field value.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

func errEmptyText() error {
	return &ValidationError{Field: "text", Err: errors.New("empty after trimming whitespace")}
}
