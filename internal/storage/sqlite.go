package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	_ "modernc.org/sqlite"

	"github.com/nibzard/todolist-go/internal/todo"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS tasks (
	position  INTEGER PRIMARY KEY,
	name      TEXT NOT NULL,
	due_date  TEXT NOT NULL,
	priority  TEXT NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0
)`

// SQLiteFile stores tasks in a single SQLite table keyed by position.
// The database is opened per call and closed before returning.
type SQLiteFile struct {
	path string
}

// NewSQLiteFile returns a SQLite backend for path.
func NewSQLiteFile(path string) *SQLiteFile {
	return &SQLiteFile{path: path}
}

// Path returns the database file path.
func (f *SQLiteFile) Path() string {
	return f.path
}

// Load reads all rows ordered by position. A missing database file
// yields no tasks and is not created.
func (f *SQLiteFile) Load() ([]todo.Task, error) {
	if _, err := os.Stat(f.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, loadError(f.path, err)
	}

	db, err := f.open()
	if err != nil {
		return nil, loadError(f.path, err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT name, due_date, priority, completed FROM tasks ORDER BY position`)
	if err != nil {
		return nil, loadError(f.path, fmt.Errorf("query tasks: %w", err))
	}
	defer rows.Close()

	var tasks []todo.Task
	for rows.Next() {
		var (
			t        todo.Task
			priority string
		)
		if err := rows.Scan(&t.Name, &t.DueDate, &priority, &t.Completed); err != nil {
			return nil, loadError(f.path, fmt.Errorf("scan task: %w", err))
		}
		t.Priority = todo.Priority(priority)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, loadError(f.path, err)
	}
	return tasks, nil
}

// Save replaces every row in one transaction.
func (f *SQLiteFile) Save(tasks []todo.Task) error {
	db, err := f.open()
	if err != nil {
		return saveError(f.path, err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return saveError(f.path, fmt.Errorf("begin: %w", err))
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tasks`); err != nil {
		return saveError(f.path, fmt.Errorf("clear tasks: %w", err))
	}

	stmt, err := tx.Prepare(`INSERT INTO tasks (position, name, due_date, priority, completed) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return saveError(f.path, fmt.Errorf("prepare insert: %w", err))
	}
	defer stmt.Close()

	for i, t := range tasks {
		if _, err := stmt.Exec(i, t.Name, t.DueDate, string(t.Priority), t.Completed); err != nil {
			return saveError(f.path, fmt.Errorf("insert task %d: %w", i, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return saveError(f.path, fmt.Errorf("commit: %w", err))
	}
	return nil
}

func (f *SQLiteFile) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite", f.path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return db, nil
}
