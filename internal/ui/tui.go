// Package ui provides the terminal interface for the workday board.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/workday-go/internal/config"
	"github.com/nibzard/workday-go/internal/logging"
	"github.com/nibzard/workday-go/internal/session"
	"github.com/nibzard/workday-go/internal/todo"
)

// Storage persists the document. *todo.Store satisfies it.
type Storage interface {
	Save(d *todo.Document) error
	ExportLog(c todo.Context, text string) (string, error)
}

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiModel)

// WithLogger sets the logger used for storage events and failures.
func WithLogger(logger *log.Logger) TUIOption {
	return func(m *tuiModel) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// RunTUI runs the board until the user quits. The document is saved on the
// way out; a failed final save keeps the program open.
func RunTUI(ctx context.Context, cfg *config.Config, store Storage, doc *todo.Document, opts ...TUIOption) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(cfg, store, doc, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			// Interrupted from outside: keep whatever the user typed.
			if saveErr := model.save("interrupt"); saveErr != nil {
				return fmt.Errorf("saving on interrupt: %w", saveErr)
			}
			return ctx.Err()
		}
		return err
	}
	return nil
}

type inputMode int

const (
	modeBrowse inputMode = iota
	modeAddTask
	modeEditLog
	modeEditNotes
)

type tuiModel struct {
	cfg    *config.Config
	store  Storage
	doc    *todo.Document
	logger *log.Logger
	timer  *session.Timer

	contexts []todo.Context
	active   int
	cursor   map[todo.Context]int

	mode        inputMode
	input       textinput.Model
	editor      textarea.Model
	editingTask string

	logCollapsed bool
	focus        bool
	showHelp     bool

	status      string
	statusIsErr bool
	quitPending bool

	width  int
	height int
}

type tickMsg time.Time

func newTUIModel(cfg *config.Config, store Storage, doc *todo.Document, opts ...TUIOption) *tuiModel {
	input := textinput.New()
	input.Placeholder = "New task"
	input.Prompt = "+ "
	input.CharLimit = 0

	editor := textarea.New()
	editor.ShowLineNumbers = false
	editor.CharLimit = 0
	editor.MaxHeight = 0
	editor.SetWidth(60)
	editor.SetHeight(6)

	m := &tuiModel{
		cfg:          cfg,
		store:        store,
		doc:          doc,
		logger:       logging.Discard(),
		timer:        session.NewTimer(cfg.TickInterval),
		contexts:     todo.Contexts(),
		cursor:       make(map[todo.Context]int),
		input:        input,
		editor:       editor,
		logCollapsed: cfg.NotesCollapsed,
		focus:        cfg.FocusMode,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	return tickCmd(m.timer.Interval())
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.timer.Tick()
		return m, tickCmd(m.timer.Interval())
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if msg.Width > 8 {
			m.editor.SetWidth(msg.Width - 4)
			m.input.Width = msg.Width - 6
		}
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeAddTask:
			return m.updateAddTask(msg)
		case modeEditLog, modeEditNotes:
			return m.updateEditor(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m *tuiModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key != "q" && key != "ctrl+c" {
		m.quitPending = false
	}

	switch key {
	case "ctrl+c", "q":
		return m.quit()
	case "?":
		m.showHelp = !m.showHelp
		return m, nil
	case "esc":
		m.showHelp = false
		m.focus = false
		return m, nil
	case "f":
		m.focus = !m.focus
		return m, nil
	case "r":
		m.timer.Reset()
		m.setStatus("Timer reset")
		return m, nil
	case "s":
		if m.save("manual") == nil {
			m.setStatus("Saved")
		}
		return m, nil
	}

	if m.focus || m.showHelp {
		return m, nil
	}

	ctx := m.current()
	switch key {
	case "tab", "right":
		m.switchContext(m.active + 1)
	case "shift+tab", "left":
		m.switchContext(m.active - 1)
	case "1", "2", "3":
		m.switchContext(int(key[0] - '1'))
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "a":
		m.mode = modeAddTask
		m.input.Reset()
		return m, m.input.Focus()
	case "x", " ":
		if task := m.selected(); task != nil {
			m.doc.CompleteTask(ctx, task.ID)
			m.save("complete")
		}
	case "d":
		if task := m.selected(); task != nil {
			m.doc.DeleteTask(ctx, task.ID)
			m.clampCursor()
			if m.save("delete") == nil {
				m.setStatus("Deleted " + task.Title)
			}
		}
	case "e":
		m.mode = modeEditLog
		m.editor.Placeholder = "What are you working on?"
		m.editor.SetValue(m.doc.ActiveLog(ctx))
		return m, m.editor.Focus()
	case "n":
		task := m.selected()
		if task == nil {
			m.setError("No task selected")
			return m, nil
		}
		m.mode = modeEditNotes
		m.editingTask = task.ID
		m.editor.Placeholder = "Notes for " + task.Title
		m.editor.SetValue(task.Notes)
		return m, m.editor.Focus()
	case "c":
		m.logCollapsed = !m.logCollapsed
	case "E":
		m.export()
	}
	return m, nil
}

func (m *tuiModel) updateAddTask(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeInput()
		return m, nil
	case "ctrl+c":
		m.closeInput()
		return m.quit()
	case "enter":
		title := m.input.Value()
		m.closeInput()
		task, ok := m.doc.AddTask(m.current(), title)
		if !ok {
			return m, nil
		}
		m.cursor[m.current()] = len(m.doc.Tasks(m.current())) - 1
		if m.save("add") == nil {
			m.setStatus("Added " + task.Title)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *tuiModel) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+s":
		m.commitEditor()
		return m, nil
	case "ctrl+c":
		m.commitEditor()
		return m.quit()
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m *tuiModel) commitEditor() {
	text := m.editor.Value()
	ctx := m.current()
	reason := "log"
	if m.mode == modeEditNotes {
		reason = "notes"
		m.doc.SetTaskNotes(ctx, m.editingTask, text)
	} else {
		m.doc.SetActiveLog(ctx, text)
	}
	m.editor.Blur()
	m.editingTask = ""
	m.mode = modeBrowse
	m.save(reason)
}

func (m *tuiModel) closeInput() {
	m.input.Blur()
	m.input.Reset()
	m.mode = modeBrowse
}

// quit saves and exits. When the save fails the program stays open and a
// second quit exits without saving.
func (m *tuiModel) quit() (tea.Model, tea.Cmd) {
	if m.quitPending {
		m.logger.Warn("quitting without a successful save")
		return m, tea.Quit
	}
	if err := m.save("quit"); err != nil {
		m.quitPending = true
		m.setError(fmt.Sprintf("Save failed: %v (q again to quit anyway)", err))
		return m, nil
	}
	return m, tea.Quit
}

func (m *tuiModel) save(reason string) error {
	if err := m.store.Save(m.doc); err != nil {
		m.logger.Error("save failed", "reason", reason, "err", err)
		m.setError("Save failed: " + err.Error())
		return err
	}
	m.logger.Debug("document saved", "reason", reason)
	return nil
}

func (m *tuiModel) export() {
	ctx := m.current()
	path, err := m.store.ExportLog(ctx, m.doc.ActiveLog(ctx))
	if err != nil {
		m.logger.Error("export failed", "context", ctx, "err", err)
		m.setError("Export failed: " + err.Error())
		return
	}
	m.logger.Info("work log exported", "context", ctx, "path", path)
	m.setStatus("Exported " + path)
}

func (m *tuiModel) setStatus(s string) {
	m.status = s
	m.statusIsErr = false
}

func (m *tuiModel) setError(s string) {
	m.status = s
	m.statusIsErr = true
}

func (m *tuiModel) current() todo.Context {
	return m.contexts[m.active]
}

func (m *tuiModel) switchContext(i int) {
	n := len(m.contexts)
	m.active = ((i % n) + n) % n
	m.clampCursor()
}

func (m *tuiModel) moveCursor(delta int) {
	m.cursor[m.current()] += delta
	m.clampCursor()
}

func (m *tuiModel) clampCursor() {
	ctx := m.current()
	n := len(m.doc.Tasks(ctx))
	c := m.cursor[ctx]
	if c >= n {
		c = n - 1
	}
	if c < 0 {
		c = 0
	}
	m.cursor[ctx] = c
}

// selected returns a copy of the task under the cursor, or nil.
func (m *tuiModel) selected() *todo.Task {
	tasks := m.doc.Tasks(m.current())
	c := m.cursor[m.current()]
	if c < 0 || c >= len(tasks) {
		return nil
	}
	return &tasks[c]
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
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
