// Package app wires the task list to its storage backend. Every successful
// mutation is followed by a full save.
package app

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todolist-go/internal/storage"
	"github.com/nibzard/todolist-go/internal/todo"
)

// Manager owns the authoritative task list and the backend it is saved to.
// Presentation layers receive a Manager and never touch the list directly.
type Manager struct {
	list    *todo.List
	backend storage.Backend
	logger  *log.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for mutation and persistence events.
func WithLogger(logger *log.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New returns a Manager with an empty list. Call Load to read the backend.
func New(backend storage.Backend, opts ...Option) *Manager {
	m := &Manager{
		list:    todo.NewList(nil),
		backend: backend,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Backend returns the storage backend.
func (m *Manager) Backend() storage.Backend {
	return m.backend
}

// Load replaces the in-memory list with the stored one. A missing file
// gives an empty list. On error the list is left empty and usable.
func (m *Manager) Load() error {
	tasks, err := m.backend.Load()
	if err != nil {
		m.list = todo.NewList(nil)
		m.logger.Debug("load failed", "path", m.backend.Path(), "err", err)
		return err
	}
	m.list = todo.NewList(tasks)
	m.logger.Debug("tasks loaded", "path", m.backend.Path(), "count", len(tasks))
	return nil
}

// Tasks returns a snapshot of the list for rendering.
func (m *Manager) Tasks() []todo.Task {
	return m.list.Tasks()
}

// Len returns the number of tasks.
func (m *Manager) Len() int {
	return m.list.Len()
}

// Add appends a task and saves. A save failure is returned as a
// *storage.PersistenceError; the task stays in the list.
func (m *Manager) Add(name, dueDate string, priority todo.Priority) (todo.Task, error) {
	task, err := m.list.Add(name, dueDate, priority)
	if err != nil {
		return todo.Task{}, err
	}
	m.logger.Info("task added", "name", task.Name, "due", task.DueDate, "priority", task.Priority)
	return task, m.Save()
}

// Delete removes the task at position and saves.
func (m *Manager) Delete(position int) (todo.Task, error) {
	task, err := m.list.Delete(position)
	if err != nil {
		return todo.Task{}, err
	}
	m.logger.Info("task deleted", "position", position, "name", task.Name)
	return task, m.Save()
}

// MarkCompleted completes the task at position and saves.
func (m *Manager) MarkCompleted(position int) (todo.Task, error) {
	task, err := m.list.MarkCompleted(position)
	if err != nil {
		return todo.Task{}, err
	}
	m.logger.Info("task completed", "position", position, "name", task.Name)
	return task, m.Save()
}

// Save writes the whole list to the backend.
func (m *Manager) Save() error {
	if err := m.backend.Save(m.list.Tasks()); err != nil {
		m.logger.Debug("save failed", "path", m.backend.Path(), "err", err)
		return err
	}
	m.logger.Debug("tasks saved", "path", m.backend.Path(), "count", m.list.Len())
	return nil
}

// Migrate writes the current list to dst, leaving the active backend as is.
func (m *Manager) Migrate(dst storage.Backend) error {
	if err := dst.Save(m.list.Tasks()); err != nil {
		return err
	}
	m.logger.Info("tasks migrated", "from", m.backend.Path(), "to", dst.Path(), "count", m.list.Len())
	return nil
}
