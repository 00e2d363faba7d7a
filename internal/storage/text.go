package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/nibzard/todolist-go/internal/todo"
)

// textFields is the number of comma-separated fields in a task line.
const textFields = 4

// TextFile stores tasks one per line as name,dueDate,priority,status.
// Fields are not escaped: a comma inside a name or due date shifts the
// field count and the line is dropped on the next load.
type TextFile struct {
	path string
}

// NewTextFile returns a text backend for path.
func NewTextFile(path string) *TextFile {
	return &TextFile{path: path}
}

// Path returns the file path.
func (f *TextFile) Path() string {
	return f.path
}

// Load reads every well-formed line. Malformed lines are skipped.
func (f *TextFile) Load() ([]todo.Task, error) {
	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, loadError(f.path, err)
	}
	defer file.Close()

	tasks, _, err := DecodeText(file)
	if err != nil {
		return nil, loadError(f.path, err)
	}
	return tasks, nil
}

// Save replaces the file with every task.
func (f *TextFile) Save(tasks []todo.Task) error {
	err := writeFileAtomic(f.path, func(w io.Writer) error {
		return EncodeText(w, tasks)
	})
	if err != nil {
		return saveError(f.path, err)
	}
	return nil
}

// EncodeText writes tasks in the line format.
func EncodeText(w io.Writer, tasks []todo.Task) error {
	bw := bufio.NewWriter(w)
	for _, t := range tasks {
		line := strings.Join([]string{
			t.Name,
			t.DueDate,
			string(t.Priority),
			string(t.Status()),
		}, ",")
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// DecodeText parses the line format. It returns the accepted tasks and
// the number of lines that were dropped for having the wrong field count.
func DecodeText(r io.Reader) ([]todo.Task, int, error) {
	var (
		tasks   []todo.Task
		skipped int
	)

	// Lines have no length limit.
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, skipped, fmt.Errorf("read task lines: %w", err)
		}
		if line == "" && err != nil {
			break
		}

		fields := splitLine(strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"))
		if len(fields) != textFields {
			skipped++
		} else {
			tasks = append(tasks, todo.Task{
				Name:      fields[0],
				DueDate:   fields[1],
				Priority:  todo.Priority(fields[2]),
				Completed: todo.StatusFromString(fields[3]),
			})
		}
		if err != nil {
			break
		}
	}
	return tasks, skipped, nil
}

// splitLine splits on commas and drops trailing empty fields, so
// "a,b,High," has three fields rather than four.
func splitLine(line string) []string {
	fields := strings.Split(line, ",")
	for len(fields) > 0 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	return fields
}
