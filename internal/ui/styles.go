package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Width(10).
			Foreground(lipgloss.Color("8"))

	focusedLabelStyle = labelStyle.
				Foreground(lipgloss.Color("12")).
				Bold(true)

	priorityStyles = map[string]lipgloss.Style{
		"High":   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		"Medium": lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		"Low":    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}

	noticeStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(0, 2).
			MarginTop(1)

	tableBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("8"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			MarginTop(1)
)
