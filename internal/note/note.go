// Package note holds the free-form notes board: titled markdown boxes with a
// position and size, kept next to the todo list in the same data file.
package note

import (
	"errors"
	"fmt"
	"time"
)

// Board geometry, in board units.
const (
	DefaultWidth  = 400
	DefaultHeight = 250
	MinWidth      = 150
	MinHeight     = 80
)

// Note is one text box on the board.
type Note struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	W         float64   `json:"w"`
	H         float64   `json:"h"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ErrNotFound is returned when an operation references an id with no live note.
var ErrNotFound = errors.New("note not found")

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

func errEmptyTitle() error {
	return &ValidationError{Field: "title", Err: errors.New("empty after trimming whitespace")}
}
