// Package storage persists the task list. Every save rewrites the whole
// file; there is no append or incremental mode.
package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/nibzard/todolist-go/internal/todo"
)

// Kind names a storage backend.
type Kind string

const (
	KindText   Kind = "text"
	KindJSON   Kind = "json"
	KindYAML   Kind = "yaml"
	KindSQLite Kind = "sqlite"
)

// Kinds returns every supported backend kind.
func Kinds() []Kind {
	return []Kind{KindText, KindJSON, KindYAML, KindSQLite}
}

// ParseKind normalizes a backend name. Empty selects the text backend.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case "":
		return KindText, nil
	case "txt", "csv":
		return KindText, nil
	case "yml":
		return KindYAML, nil
	case "sqlite3", "db":
		return KindSQLite, nil
	case KindText, KindJSON, KindYAML, KindSQLite:
		return k, nil
	}
	return "", fmt.Errorf("unknown storage %q (expected text|json|yaml|sqlite)", s)
}

// Backend loads and saves the full task list.
type Backend interface {
	// Load returns the stored tasks. A missing file yields an empty list
	// and no error.
	Load() ([]todo.Task, error)
	// Save overwrites the stored list with tasks.
	Save(tasks []todo.Task) error
	// Path is the file the backend reads and writes.
	Path() string
}

// Open returns the backend of the given kind for path.
func Open(kind Kind, path string) (Backend, error) {
	if path == "" {
		return nil, fmt.Errorf("storage path is empty")
	}
	switch kind {
	case KindText, "":
		return NewTextFile(path), nil
	case KindJSON:
		return NewJSONFile(path), nil
	case KindYAML:
		return NewYAMLFile(path), nil
	case KindSQLite:
		return NewSQLiteFile(path), nil
	default:
		return nil, fmt.Errorf("unknown storage %q", kind)
	}
}

// PersistenceError reports a failed read or write of the task file.
type PersistenceError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s tasks %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func loadError(path string, err error) error {
	return &PersistenceError{Op: "load", Path: path, Err: err}
}

func saveError(path string, err error) error {
	return &PersistenceError{Op: "save", Path: path, Err: err}
}

// readFile reads path, reporting a missing file as (nil, false, nil).
func readFile(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// writeFileAtomic writes a sibling temp file through write and renames it
// over path, so a failed save leaves the previous file in place.
func writeFileAtomic(path string, write func(w io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := write(tmp); err != nil {
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
