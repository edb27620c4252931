package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activeColumnStyle = columnStyle.
				BorderForeground(lipgloss.Color("63"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252"))

	cardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("248"))

	selectedCardStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	statusLineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

const columnWidth = 24

func (b *Board) View() string {
	var cols []string
	for i, status := range b.columns {
		cols = append(cols, b.renderColumn(i, status))
	}
	board := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	var footer string
	switch b.mode {
	case modeSearch:
		footer = "search: " + b.inputBuffer + "█"
	case modeNew:
		footer = "new task: " + b.inputBuffer + "█"
	default:
		footer = helpStyle.Render("←/→ column · ↑/↓ task · [/] move · n new · / search · x delete · r refresh · q quit")
	}

	out := board + "\n"
	if b.statusLine != "" {
		out += statusLineStyle.Render(b.statusLine) + "\n"
	}
	return out + footer + "\n"
}

func (b *Board) renderColumn(i int, status string) string {
	tasks := b.columnTasks(i)

	var lines []string
	lines = append(lines, headerStyle.Render(fmt.Sprintf("%s (%d)", status, len(tasks))))
	for j, t := range tasks {
		title := truncate(t.Title, columnWidth-2)
		if i == b.col && j == b.cursor {
			lines = append(lines, selectedCardStyle.Render(title))
		} else {
			lines = append(lines, cardStyle.Render(title))
		}
	}

	style := columnStyle
	if i == b.col {
		style = activeColumnStyle
	}
	return style.Width(columnWidth).Render(strings.Join(lines, "\n"))
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}
