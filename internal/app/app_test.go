package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/nibzard/todolist-go/internal/storage"
	"github.com/nibzard/todolist-go/internal/todo"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// failingBackend fails every save after saving is switched off.
type failingBackend struct {
	saved   []todo.Task
	failing bool
	saves   int
}

func (b *failingBackend) Load() ([]todo.Task, error) { return b.saved, nil }
func (b *failingBackend) Path() string                { return "memory" }
func (b *failingBackend) Save(tasks []todo.Task) error {
	b.saves++
	if b.failing {
		return &storage.PersistenceError{Op: "save", Path: "memory", Err: os.ErrPermission}
	}
	b.saved = tasks
	return nil
}

func newTextManager(t *testing.T) (*Manager, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.txt")
	return New(storage.NewTextFile(path)), path
}

func TestManagerLoadMissingFile(t *testing.T) {
	m, _ := newTextManager(t)
	if err := m.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
}

func TestManagerLoadFailureLeavesUsableList(t *testing.T) {
	m := New(storage.NewTextFile(t.TempDir()))
	err := m.Load()
	var pe *storage.PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PersistenceError, got %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
}

func TestManagerMutationsSaveEveryTime(t *testing.T) {
	m, path := newTextManager(t)

	if _, err := m.Add("Buy milk", "2024-01-01", todo.PriorityHigh); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Add("Call mom", "Sunday", todo.PriorityLow); err != nil {
		t.Fatal(err)
	}
	assertFile(t, path, "Buy milk,2024-01-01,High,Pending\nCall mom,Sunday,Low,Pending\n")

	if _, err := m.MarkCompleted(1); err != nil {
		t.Fatal(err)
	}
	assertFile(t, path, "Buy milk,2024-01-01,High,Pending\nCall mom,Sunday,Low,Completed\n")

	if _, err := m.Delete(0); err != nil {
		t.Fatal(err)
	}
	assertFile(t, path, "Call mom,Sunday,Low,Completed\n")
}

func TestManagerFailedOperationsDoNotSave(t *testing.T) {
	backend := &failingBackend{}
	m := New(backend)

	if _, err := m.Add("", "2024-01-01", todo.PriorityHigh); err == nil {
		t.Fatal("expected validation error")
	}
	if _, err := m.Delete(0); err == nil {
		t.Fatal("expected index error")
	}
	if _, err := m.MarkCompleted(0); err == nil {
		t.Fatal("expected index error")
	}
	if backend.saves != 0 {
		t.Errorf("saves = %d, want 0", backend.saves)
	}
}

func TestManagerSaveFailureKeepsMutation(t *testing.T) {
	backend := &failingBackend{}
	m := New(backend)
	if _, err := m.Add("first", "today", todo.PriorityMedium); err != nil {
		t.Fatal(err)
	}

	backend.failing = true
	_, err := m.Add("second", "tomorrow", todo.PriorityLow)
	var pe *storage.PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PersistenceError, got %v", err)
	}
	if m.Len() != 2 {
		t.Fatalf("in-memory add was rolled back, Len() = %d", m.Len())
	}
	if len(backend.saved) != 1 {
		t.Errorf("backend should still hold the old list, got %d tasks", len(backend.saved))
	}

	// The next successful save brings disk back in line.
	backend.failing = false
	if _, err := m.MarkCompleted(1); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(m.Tasks(), backend.saved); diff != "" {
		t.Errorf("backend out of sync (-memory +saved):\n%s", diff)
	}
}

func TestManagerReloadInNewInstance(t *testing.T) {
	m, path := newTextManager(t)
	if _, err := m.Add("Buy milk", "2024-01-01", todo.PriorityHigh); err != nil {
		t.Fatal(err)
	}

	fresh := New(storage.NewTextFile(path))
	if err := fresh.Load(); err != nil {
		t.Fatal(err)
	}
	want := []todo.Task{{Name: "Buy milk", DueDate: "2024-01-01", Priority: todo.PriorityHigh}}
	if diff := cmp.Diff(want, fresh.Tasks()); diff != "" {
		t.Errorf("reloaded tasks mismatch (-want +got):\n%s", diff)
	}
}

func TestManagerMigrate(t *testing.T) {
	m, _ := newTextManager(t)
	if _, err := m.Add("Milk, eggs", "today", todo.PriorityHigh); err != nil {
		t.Fatal(err)
	}

	dst := storage.NewJSONFile(filepath.Join(t.TempDir(), "tasks.json"))
	if err := m.Migrate(dst); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	got, err := dst.Load()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(m.Tasks(), got); diff != "" {
		t.Errorf("migrated tasks mismatch (-want +got):\n%s", diff)
	}
}

func assertFile(t *testing.T, path, want string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if string(data) != want {
		t.Errorf("file contents:\n got %q\nwant %q", data, want)
	}
}
