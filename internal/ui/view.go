package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/nibzard/workday-go/internal/todo"
	"github.com/nibzard/workday-go/internal/utils"
)

// Catppuccin Mocha.
var (
	colorText     = lipgloss.Color("#cdd6f4")
	colorSubtext  = lipgloss.Color("#bac2de")
	colorSurface2 = lipgloss.Color("#585b70")
	colorSurface0 = lipgloss.Color("#313244")
	colorGreen    = lipgloss.Color("#a6e3a1")
	colorRed      = lipgloss.Color("#f38ba8")
	colorYellow   = lipgloss.Color("#f9e2af")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	timerStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorSurface2)
	subtextStyle = lipgloss.NewStyle().Foreground(colorSubtext)
	doneStyle    = lipgloss.NewStyle().Foreground(colorSurface2).Strikethrough(true)
	okStyle      = lipgloss.NewStyle().Foreground(colorGreen)
	errStyle     = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	paneStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSurface0).Padding(0, 1)
)

const focusTaskLimit = 30

func (m *tuiModel) accent(c todo.Context) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(m.cfg.ContextColor(c)))
}

func (m *tuiModel) View() string {
	var b strings.Builder

	if m.focus {
		m.writeFocus(&b)
		m.writeStatus(&b)
		return b.String()
	}

	m.writeHeader(&b)
	if m.showHelp {
		writeHelp(&b)
		m.writeStatus(&b)
		return b.String()
	}

	m.writeTabs(&b)
	m.writeTasks(&b)
	m.writeEditorOrLog(&b)
	m.writeStatus(&b)
	writeFooter(&b, m.mode)
	return b.String()
}

func (m *tuiModel) writeHeader(b *strings.Builder) {
	b.WriteString(titleStyle.Render("Workday"))
	b.WriteString("  ")
	b.WriteString(timerStyle.Render(m.timer.String()))
	b.WriteString("\n\n")
}

func (m *tuiModel) writeFocus(b *strings.Builder) {
	b.WriteString(timerStyle.Render(m.timer.String()))
	b.WriteString("\n\n")
	if task := m.selected(); task != nil {
		b.WriteString(m.accent(m.current()).Render("📌 " + utils.Truncate(task.Title, focusTaskLimit)))
	} else {
		b.WriteString(subtextStyle.Render("Focus Mode"))
	}
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render("f or esc to leave focus mode"))
	b.WriteString("\n")
}

func (m *tuiModel) writeTabs(b *strings.Builder) {
	tabs := make([]string, 0, len(m.contexts))
	for i, c := range m.contexts {
		open, _ := m.doc.Counts(c)
		label := fmt.Sprintf(" %d %s (%d) ", i+1, m.cfg.ContextLabel(c), open)
		style := m.accent(c)
		if i == m.active {
			style = style.Bold(true).Underline(true)
		} else {
			style = style.Faint(true)
		}
		tabs = append(tabs, style.Render(label))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")
}

func (m *tuiModel) writeTasks(b *strings.Builder) {
	ctx := m.current()
	tasks := m.doc.Tasks(ctx)
	if len(tasks) == 0 {
		b.WriteString(mutedStyle.Render("  No tasks yet. Press a to add one."))
		b.WriteString("\n\n")
		return
	}

	cursor := m.cursor[ctx]
	accent := m.accent(ctx)
	for i, task := range tasks {
		pointer := "  "
		if i == cursor {
			pointer = accent.Render("› ")
		}
		box := "[ ]"
		title := task.Title
		if task.Completed {
			box = okStyle.Render("[x]")
			title = doneStyle.Render(title)
		} else if i == cursor {
			title = accent.Bold(true).Render(title)
		}
		if task.Notes != "" {
			title += mutedStyle.Render(" ✎")
		}
		b.WriteString(pointer + box + " " + title + "\n")
	}

	if task := m.selected(); task != nil {
		b.WriteString(mutedStyle.Render("    " + describeTask(task)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func describeTask(t *todo.Task) string {
	var parts []string
	if !t.CreatedAt.IsZero() {
		parts = append(parts, "added "+humanize.Time(t.CreatedAt))
	}
	if t.Completed && t.CompletedAt != nil {
		parts = append(parts, "done "+humanize.Time(*t.CompletedAt))
	}
	if len(t.ID) >= 8 {
		parts = append(parts, "id "+t.ID[:8])
	}
	return strings.Join(parts, " · ")
}

func (m *tuiModel) writeEditorOrLog(b *strings.Builder) {
	ctx := m.current()
	switch m.mode {
	case modeAddTask:
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		return
	case modeEditLog, modeEditNotes:
		heading := "Work log · " + m.cfg.ContextLabel(ctx)
		if m.mode == modeEditNotes {
			heading = "Task notes"
		}
		b.WriteString(m.accent(ctx).Bold(true).Render(heading))
		b.WriteString("\n")
		b.WriteString(m.editor.View())
		b.WriteString("\n\n")
		return
	}

	if m.logCollapsed {
		b.WriteString(mutedStyle.Render("▶ Work log (c to expand)"))
		b.WriteString("\n\n")
		return
	}

	b.WriteString(m.accent(ctx).Render("▼ Work log"))
	b.WriteString("\n")
	text := m.doc.ActiveLog(ctx)
	if strings.TrimSpace(text) == "" {
		text = mutedStyle.Render("Nothing logged yet. Press e to write.")
	}
	pane := paneStyle
	if m.width > 4 {
		pane = pane.Width(m.width - 4)
	}
	b.WriteString(pane.Render(text))
	b.WriteString("\n\n")
}

func (m *tuiModel) writeStatus(b *strings.Builder) {
	if m.status == "" {
		return
	}
	if m.statusIsErr {
		b.WriteString(errStyle.Render(m.status))
	} else {
		b.WriteString(okStyle.Render(m.status))
	}
	b.WriteString("\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString(titleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")
	rows := [][2]string{
		{"tab, shift+tab", "Next / previous context"},
		{"1 2 3", "Jump to context"},
		{"j k, ↓ ↑", "Move selection"},
		{"a", "Add task"},
		{"x, space", "Toggle complete"},
		{"d", "Delete task"},
		{"e", "Edit work log (esc saves)"},
		{"n", "Edit notes of selected task"},
		{"c", "Collapse / expand work log"},
		{"E", "Export work log to a file"},
		{"s", "Save"},
		{"r", "Reset session timer"},
		{"f", "Focus mode"},
		{"?", "Toggle this help"},
		{"q, ctrl+c", "Save and quit"},
	}
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("  %-16s %s\n", row[0], subtextStyle.Render(row[1])))
	}
	b.WriteString("\n")
}

func writeFooter(b *strings.Builder, mode inputMode) {
	var hint string
	switch mode {
	case modeAddTask:
		hint = "enter add · esc cancel"
	case modeEditLog, modeEditNotes:
		hint = "esc save and close"
	default:
		hint = "a add · x done · d delete · e log · E export · ? help · q quit"
	}
	b.WriteString(lipgloss.NewStyle().Foreground(colorYellow).Faint(true).Render(hint))
	b.WriteString("\n")
}
