package todo

import (
	"fmt"
	"strings"
)

// Priority is the urgency of a task.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Priorities returns the accepted priorities in display order.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// Valid reports whether p is one of the accepted priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Next returns the priority after p in display order, wrapping around.
// Unknown values cycle back to High.
func (p Priority) Next() Priority {
	switch p {
	case PriorityHigh:
		return PriorityMedium
	case PriorityMedium:
		return PriorityLow
	default:
		return PriorityHigh
	}
}

// ParsePriority matches s case-insensitively against the accepted
// priorities and returns the canonical spelling.
func ParsePriority(s string) (Priority, error) {
	trimmed := strings.TrimSpace(s)
	for _, p := range Priorities() {
		if strings.EqualFold(trimmed, string(p)) {
			return p, nil
		}
	}
	return "", invalidPriority(s)
}

func invalidPriority(s string) *ValidationError {
	return &ValidationError{
		Field: "priority",
		Err:   fmt.Errorf("invalid priority %q, must be one of: High, Medium, Low", s),
	}
}

// Status is the textual rendering of a task's completion flag.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
)

// Task is a single to-do item.
type Task struct {
	Name      string
	DueDate   string
	Priority  Priority
	Completed bool
}

// Status returns Completed or Pending.
func (t Task) Status() Status {
	if t.Completed {
		return StatusCompleted
	}
	return StatusPending
}

// StatusFromString maps a persisted status back to the completion flag.
// Only the exact text "Completed" counts as complete.
func StatusFromString(s string) bool {
	return Status(s) == StatusCompleted
}
