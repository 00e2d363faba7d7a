package storage

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/nibzard/todolist-go/internal/todo"
)

// YAMLFile stores tasks as a YAML document.
type YAMLFile struct {
	path string
}

// NewYAMLFile returns a YAML backend for path.
func NewYAMLFile(path string) *YAMLFile {
	return &YAMLFile{path: path}
}

// Path returns the file path.
func (f *YAMLFile) Path() string {
	return f.path
}

// Load parses the document. A missing or empty file yields no tasks.
func (f *YAMLFile) Load() ([]todo.Task, error) {
	data, ok, err := readFile(f.path)
	if err != nil {
		return nil, loadError(f.path, err)
	}
	if !ok {
		return nil, nil
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, loadError(f.path, fmt.Errorf("parse task file: %w", err))
	}
	tasks, err := doc.tasks()
	if err != nil {
		return nil, loadError(f.path, err)
	}
	return tasks, nil
}

// Save writes the document.
func (f *YAMLFile) Save(tasks []todo.Task) error {
	data, err := yaml.Marshal(newDocument(tasks))
	if err != nil {
		return saveError(f.path, fmt.Errorf("marshal task file: %w", err))
	}
	err = writeFileAtomic(f.path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	if err != nil {
		return saveError(f.path, err)
	}
	return nil
}
