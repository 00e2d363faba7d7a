package storage

import (
	"fmt"

	"github.com/nibzard/todolist-go/internal/todo"
)

// documentVersion is written to structured task files.
const documentVersion = 1

// document is the structured file layout shared by the JSON and YAML
// backends.
type document struct {
	Version int            `json:"version" yaml:"version"`
	Tasks   []documentTask `json:"tasks" yaml:"tasks"`
}

type documentTask struct {
	Name     string `json:"name" yaml:"name"`
	DueDate  string `json:"due_date" yaml:"due_date"`
	Priority string `json:"priority" yaml:"priority"`
	Status   string `json:"status" yaml:"status"`
}

func newDocument(tasks []todo.Task) document {
	doc := document{
		Version: documentVersion,
		Tasks:   make([]documentTask, 0, len(tasks)),
	}
	for _, t := range tasks {
		doc.Tasks = append(doc.Tasks, documentTask{
			Name:     t.Name,
			DueDate:  t.DueDate,
			Priority: string(t.Priority),
			Status:   string(t.Status()),
		})
	}
	return doc
}

func (d document) tasks() ([]todo.Task, error) {
	if d.Version != 0 && d.Version != documentVersion {
		return nil, fmt.Errorf("unsupported task file version %d", d.Version)
	}
	out := make([]todo.Task, 0, len(d.Tasks))
	for _, t := range d.Tasks {
		out = append(out, todo.Task{
			Name:      t.Name,
			DueDate:   t.DueDate,
			Priority:  todo.Priority(t.Priority),
			Completed: todo.StatusFromString(t.Status),
		})
	}
	return out, nil
}
