package storage

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/nibzard/todolist-go/internal/todo"
)

// JSONFile stores tasks as an indented JSON document.
type JSONFile struct {
	path string
}

// NewJSONFile returns a JSON backend for path.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Path returns the file path.
func (f *JSONFile) Path() string {
	return f.path
}

// Load parses the document. A missing file yields no tasks.
func (f *JSONFile) Load() ([]todo.Task, error) {
	data, ok, err := readFile(f.path)
	if err != nil {
		return nil, loadError(f.path, err)
	}
	if !ok {
		return nil, nil
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, loadError(f.path, fmt.Errorf("parse task file: %w", err))
	}
	tasks, err := doc.tasks()
	if err != nil {
		return nil, loadError(f.path, err)
	}
	return tasks, nil
}

// Save writes the document with 2-space indentation.
func (f *JSONFile) Save(tasks []todo.Task) error {
	data, err := json.MarshalIndent(newDocument(tasks), "", "  ")
	if err != nil {
		return saveError(f.path, fmt.Errorf("marshal task file: %w", err))
	}

	// Add trailing newline
	data = append(data, '\n')

	err = writeFileAtomic(f.path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	if err != nil {
		return saveError(f.path, err)
	}
	return nil
}
