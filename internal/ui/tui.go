// Package ui provides the terminal form for managing tasks.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/todolist-go/internal/app"
	"github.com/nibzard/todolist-go/internal/storage"
	"github.com/nibzard/todolist-go/internal/todo"
)

const (
	noticeEmptyFields    = "Task name and due date cannot be empty!"
	noticeSelectDelete   = "Select a task to delete!"
	noticeSelectComplete = "Select a task to mark as completed!"

	defaultTableHeight = 10
	minTableHeight     = 3
)

type focusArea int

const (
	focusName focusArea = iota
	focusDue
	focusPriority
	focusTable
	focusCount
)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiModel)

// WithDefaultPriority sets the priority the chooser starts on.
func WithDefaultPriority(p todo.Priority) TUIOption {
	return func(m *tuiModel) {
		if p.Valid() {
			m.priority = p
		}
	}
}

// WithLoadError shows err as a notice on the first frame.
func WithLoadError(err error) TUIOption {
	return func(m *tuiModel) {
		if err != nil {
			m.notice = loadNotice(err)
		}
	}
}

// RunTUI starts the terminal form over mgr. It blocks until the user quits
// or ctx is canceled.
func RunTUI(ctx context.Context, mgr *app.Manager, opts ...TUIOption) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	model := newTUIModel(mgr, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type tuiModel struct {
	mgr      *app.Manager
	name     textinput.Model
	due      textinput.Model
	priority todo.Priority
	table    table.Model
	focus    focusArea
	notice   string
	width    int
}

func newTUIModel(mgr *app.Manager, opts ...TUIOption) *tuiModel {
	name := textinput.New()
	name.Placeholder = "Task name"
	name.CharLimit = 200
	name.Width = 40

	due := textinput.New()
	due.Placeholder = "Due date"
	due.CharLimit = 64
	due.Width = 20

	t := table.New(
		table.WithColumns(tableColumns(80)),
		table.WithHeight(defaultTableHeight),
	)

	m := &tuiModel{
		mgr:      mgr,
		name:     name,
		due:      due,
		priority: todo.PriorityHigh,
		table:    t,
		focus:    focusName,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.applyFocus()
	m.refresh()
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	if m.notice != "" {
		m.notice = ""
		return m, nil
	}

	switch key {
	case "esc":
		return m, tea.Quit
	case "enter":
		m.add()
		return m, nil
	case "ctrl+r":
		m.deleteSelected()
		return m, nil
	case "ctrl+x":
		m.completeSelected()
		return m, nil
	case "tab":
		m.focus = (m.focus + 1) % focusCount
		m.applyFocus()
		return m, nil
	case "shift+tab":
		m.focus = (m.focus + focusCount - 1) % focusCount
		m.applyFocus()
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusName:
		m.name, cmd = m.name.Update(msg)
	case focusDue:
		m.due, cmd = m.due.Update(msg)
	case focusPriority:
		switch key {
		case " ", "left", "right", "h", "l":
			m.priority = m.priority.Next()
		}
	case focusTable:
		switch key {
		case "d", "delete":
			m.deleteSelected()
			return m, nil
		case "c":
			m.completeSelected()
			return m, nil
		}
		m.table, cmd = m.table.Update(msg)
	}
	return m, cmd
}

func (m *tuiModel) add() {
	_, err := m.mgr.Add(m.name.Value(), m.due.Value(), m.priority)
	var verr *todo.ValidationError
	if errors.As(err, &verr) {
		m.showError(err)
		return
	}
	// The task is in the list even when the save failed.
	m.name.SetValue("")
	m.due.SetValue("")
	m.refresh()
	m.table.SetCursor(len(m.table.Rows()) - 1)
	if err != nil {
		m.showError(err)
	}
}

func (m *tuiModel) deleteSelected() {
	pos := m.selected()
	if pos < 0 {
		m.notice = noticeSelectDelete
		return
	}
	_, err := m.mgr.Delete(pos)
	m.refresh()
	if err != nil {
		m.showError(err)
	}
}

func (m *tuiModel) completeSelected() {
	pos := m.selected()
	if pos < 0 {
		m.notice = noticeSelectComplete
		return
	}
	_, err := m.mgr.MarkCompleted(pos)
	m.refresh()
	if err != nil {
		m.showError(err)
	}
}

// selected returns the position of the highlighted row, or -1.
func (m *tuiModel) selected() int {
	n := len(m.table.Rows())
	pos := m.table.Cursor()
	if n == 0 || pos < 0 || pos >= n {
		return -1
	}
	return pos
}

func (m *tuiModel) showError(err error) {
	var verr *todo.ValidationError
	var perr *storage.PersistenceError
	switch {
	case errors.As(err, &verr) && (verr.Field == "name" || verr.Field == "due_date"):
		m.notice = noticeEmptyFields
	case errors.As(err, &perr) && perr.Op == "save":
		m.notice = "Error saving tasks: " + perr.Err.Error()
	case errors.As(err, &perr):
		m.notice = loadNotice(err)
	default:
		m.notice = err.Error()
	}
}

func loadNotice(err error) string {
	var perr *storage.PersistenceError
	if errors.As(err, &perr) {
		return "Error loading tasks: " + perr.Err.Error()
	}
	return "Error loading tasks: " + err.Error()
}

// refresh rebuilds the rows from the store so that row index equals position.
func (m *tuiModel) refresh() {
	tasks := m.mgr.Tasks()
	rows := make([]table.Row, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, table.Row{t.Name, t.DueDate, string(t.Priority), string(t.Status())})
	}
	cursor := m.table.Cursor()
	m.table.SetRows(rows)
	if len(rows) == 0 {
		return
	}
	if cursor < 0 {
		cursor = 0
	}
	if cursor >= len(rows) {
		cursor = len(rows) - 1
	}
	m.table.SetCursor(cursor)
}

func (m *tuiModel) applyFocus() {
	m.name.Blur()
	m.due.Blur()
	m.table.Blur()
	switch m.focus {
	case focusName:
		m.name.Focus()
	case focusDue:
		m.due.Focus()
	case focusTable:
		m.table.Focus()
	}
}

func (m *tuiModel) resize(width, height int) {
	m.width = width
	m.table.SetColumns(tableColumns(width))
	// Form, help and borders take roughly twelve lines.
	h := height - 12
	if h < minTableHeight {
		h = minTableHeight
	}
	m.table.SetHeight(h)
}

func tableColumns(width int) []table.Column {
	if width < 60 {
		width = 60
	}
	fixed := 14 + 10 + 11 + 8 // due, priority, status, padding
	nameWidth := width - fixed
	if nameWidth < 16 {
		nameWidth = 16
	}
	return []table.Column{
		{Title: "Task", Width: nameWidth},
		{Title: "Due Date", Width: 14},
		{Title: "Priority", Width: 10},
		{Title: "Status", Width: 11},
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)
	m.writeForm(&b)
	b.WriteString(tableBorderStyle.Render(m.table.View()))
	b.WriteString("\n")
	if m.notice != "" {
		writeNotice(&b, m.notice)
		return b.String()
	}
	writeFooter(&b, m.focus)
	return b.String()
}

func writeTitle(b *strings.Builder) {
	b.WriteString(titleStyle.Render("To-Do List"))
	b.WriteString("\n")
}

func (m *tuiModel) writeForm(b *strings.Builder) {
	writeField(b, "Task", m.name.View(), m.focus == focusName)
	writeField(b, "Due Date", m.due.View(), m.focus == focusDue)
	prio := priorityStyles[string(m.priority)].Render(string(m.priority))
	if m.focus == focusPriority {
		prio = "< " + prio + " >"
	}
	writeField(b, "Priority", prio, m.focus == focusPriority)
	b.WriteString("\n")
}

func writeField(b *strings.Builder, label, value string, focused bool) {
	style := labelStyle
	if focused {
		style = focusedLabelStyle
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, style.Render(label), value))
	b.WriteString("\n")
}

func writeNotice(b *strings.Builder, notice string) {
	b.WriteString(noticeStyle.Render(notice + "\n\nPress any key to continue"))
	b.WriteString("\n")
}

func writeFooter(b *strings.Builder, focus focusArea) {
	help := "enter add | ctrl+r delete | ctrl+x complete | tab next field | esc quit"
	switch focus {
	case focusPriority:
		help = "space/←/→ change priority | " + help
	case focusTable:
		help = "↑/↓ select | d delete | c complete | " + help
	}
	b.WriteString(helpStyle.Render(help))
	b.WriteString("\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
