package todo

import (
	"errors"
	"strings"
)

var (
	errEmptyName    = errors.New("task name cannot be empty")
	errEmptyDueDate = errors.New("due date cannot be empty")
)

// List is the authoritative ordered task collection.
// It is not safe for concurrent use.
type List struct {
	tasks []Task
}

// NewList returns a list seeded with tasks, which are copied.
func NewList(tasks []Task) *List {
	l := &List{tasks: make([]Task, len(tasks))}
	copy(l.tasks, tasks)
	return l
}

// Len returns the number of tasks.
func (l *List) Len() int {
	return len(l.tasks)
}

// Tasks returns a snapshot of the list in order.
func (l *List) Tasks() []Task {
	out := make([]Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

// Get returns the task at position.
func (l *List) Get(position int) (Task, error) {
	if err := l.checkPosition(position); err != nil {
		return Task{}, err
	}
	return l.tasks[position], nil
}

// Add validates the inputs and appends a new pending task.
func (l *List) Add(name, dueDate string, priority Priority) (Task, error) {
	name = strings.TrimSpace(name)
	dueDate = strings.TrimSpace(dueDate)

	if name == "" {
		return Task{}, &ValidationError{Field: "name", Err: errEmptyName}
	}
	if dueDate == "" {
		return Task{}, &ValidationError{Field: "due_date", Err: errEmptyDueDate}
	}
	if !priority.Valid() {
		return Task{}, invalidPriority(string(priority))
	}

	task := Task{
		Name:     name,
		DueDate:  dueDate,
		Priority: priority,
	}
	l.tasks = append(l.tasks, task)
	return task, nil
}

// Delete removes the task at position.
func (l *List) Delete(position int) (Task, error) {
	if err := l.checkPosition(position); err != nil {
		return Task{}, err
	}
	removed := l.tasks[position]
	l.tasks = append(l.tasks[:position], l.tasks[position+1:]...)
	return removed, nil
}

// MarkCompleted flags the task at position as completed.
func (l *List) MarkCompleted(position int) (Task, error) {
	if err := l.checkPosition(position); err != nil {
		return Task{}, err
	}
	l.tasks[position].Completed = true
	return l.tasks[position], nil
}

func (l *List) checkPosition(position int) error {
	if position < 0 || position >= len(l.tasks) {
		return &IndexError{Position: position, Len: len(l.tasks)}
	}
	return nil
}
