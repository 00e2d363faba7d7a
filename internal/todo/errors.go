package todo

import "fmt"

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field string // name, due_date or priority
	Err   error  // Underlying error
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

// IndexError reports a position outside the list.
type IndexError struct {
	Position int
	Len      int
}

func (e *IndexError) Error() string {
	if e.Len == 0 {
		return fmt.Sprintf("position %d out of range: list is empty", e.Position)
	}
	return fmt.Sprintf("position %d out of range [0, %d)", e.Position, e.Len)
}
