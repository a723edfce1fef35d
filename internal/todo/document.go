package todo

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Overridable in tests.
var (
	now   = func() time.Time { return time.Now().UTC() }
	newID = uuid.NewString
)

// NewDocument returns a document with an empty board for every context.
func NewDocument() *Document {
	start := now()
	d := &Document{
		SchemaVersion: SchemaVersion,
		SessionStart:  &start,
		Contexts:      make(map[Context]*Board, len(Contexts())),
	}
	d.normalize()
	return d
}

// normalize fills in missing boards and nil slices so that every fixed
// context is addressable after a load.
func (d *Document) normalize() {
	if d.SchemaVersion == 0 {
		d.SchemaVersion = SchemaVersion
	}
	if d.Contexts == nil {
		d.Contexts = make(map[Context]*Board, len(Contexts()))
	}
	for _, c := range Contexts() {
		if d.Contexts[c] == nil {
			d.Contexts[c] = &Board{}
		}
	}
	for _, b := range d.Contexts {
		if b != nil && b.Tasks == nil {
			b.Tasks = []Task{}
		}
	}
}

// board returns the board for a fixed context, or nil for anything else.
func (d *Document) board(c Context) *Board {
	if d == nil || !c.Valid() {
		return nil
	}
	if d.Contexts == nil {
		d.Contexts = make(map[Context]*Board, len(Contexts()))
	}
	b := d.Contexts[c]
	if b == nil {
		b = &Board{Tasks: []Task{}}
		d.Contexts[c] = b
	}
	return b
}

func (b *Board) index(id string) int {
	for i := range b.Tasks {
		if b.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// AddTask appends a new open task to c. Titles are trimmed; an empty title
// is ignored and reported with ok == false.
func (d *Document) AddTask(c Context, title string) (task Task, ok bool) {
	title = strings.TrimSpace(title)
	b := d.board(c)
	if b == nil || title == "" {
		return Task{}, false
	}

	id := newID()
	for b.index(id) >= 0 {
		id = newID()
	}
	task = Task{
		ID:        id,
		Title:     title,
		CreatedAt: now(),
	}
	b.Tasks = append(b.Tasks, task)
	return task, true
}

// CompleteTask toggles the completed flag of a task. Completing stamps
// CompletedAt; reopening clears it. Unknown ids are ignored.
func (d *Document) CompleteTask(c Context, id string) bool {
	b := d.board(c)
	if b == nil {
		return false
	}
	i := b.index(id)
	if i < 0 {
		return false
	}

	t := &b.Tasks[i]
	t.Completed = !t.Completed
	if t.Completed {
		at := now()
		t.CompletedAt = &at
	} else {
		t.CompletedAt = nil
	}
	return true
}

// DeleteTask removes a task, keeping the order of the rest. Unknown ids
// are ignored.
func (d *Document) DeleteTask(c Context, id string) bool {
	b := d.board(c)
	if b == nil {
		return false
	}
	i := b.index(id)
	if i < 0 {
		return false
	}
	b.Tasks = append(b.Tasks[:i], b.Tasks[i+1:]...)
	return true
}

// SetActiveLog replaces the work log of c.
func (d *Document) SetActiveLog(c Context, text string) {
	if b := d.board(c); b != nil {
		b.ActiveLog = text
	}
}

// ActiveLog returns the work log of c.
func (d *Document) ActiveLog(c Context) string {
	if b := d.board(c); b != nil {
		return b.ActiveLog
	}
	return ""
}

// SetTaskNotes replaces the notes of a single task.
func (d *Document) SetTaskNotes(c Context, id, notes string) bool {
	b := d.board(c)
	if b == nil {
		return false
	}
	i := b.index(id)
	if i < 0 {
		return false
	}
	b.Tasks[i].Notes = notes
	return true
}

// Tasks returns a copy of the tasks of c in insertion order.
func (d *Document) Tasks(c Context) []Task {
	b := d.board(c)
	if b == nil {
		return nil
	}
	out := make([]Task, len(b.Tasks))
	copy(out, b.Tasks)
	return out
}

// Task returns a task by ID, or nil if not found.
func (d *Document) Task(c Context, id string) *Task {
	b := d.board(c)
	if b == nil {
		return nil
	}
	if i := b.index(id); i >= 0 {
		return &b.Tasks[i]
	}
	return nil
}

// FindByPrefix resolves an abbreviated task id. It returns nil when no task
// or more than one task matches.
func (d *Document) FindByPrefix(c Context, prefix string) *Task {
	b := d.board(c)
	prefix = strings.TrimSpace(prefix)
	if b == nil || prefix == "" {
		return nil
	}
	var found *Task
	for i := range b.Tasks {
		if b.Tasks[i].ID == prefix {
			return &b.Tasks[i]
		}
		if strings.HasPrefix(b.Tasks[i].ID, prefix) {
			if found != nil {
				return nil
			}
			found = &b.Tasks[i]
		}
	}
	return found
}

// Counts returns the number of open and completed tasks in c.
func (d *Document) Counts(c Context) (open, done int) {
	b := d.board(c)
	if b == nil {
		return 0, 0
	}
	for _, t := range b.Tasks {
		if t.Completed {
			done++
		} else {
			open++
		}
	}
	return open, done
}
