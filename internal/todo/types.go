package todo

import (
	"fmt"
	"strings"
	"time"
)

// SchemaVersion is the only document version this package reads and writes.
const SchemaVersion = 1

// Context identifies one of the fixed work areas.
type Context string

const (
	TeamA   Context = "team_a"
	TeamB   Context = "team_b"
	Project Context = "project"
)

// Contexts returns the fixed contexts in display order.
func Contexts() []Context {
	return []Context{TeamA, TeamB, Project}
}

// Valid reports whether c is one of the fixed contexts.
func (c Context) Valid() bool {
	switch c {
	case TeamA, TeamB, Project:
		return true
	}
	return false
}

// Label returns the default display label for c.
func (c Context) Label() string {
	switch c {
	case TeamA:
		return "Team A"
	case TeamB:
		return "Team B"
	case Project:
		return "Project"
	}
	return string(c)
}

// ParseContext resolves user input to a context. It accepts the key
// ("team_a"), the label ("Team A"), dashed variants ("team-a") and the
// short aliases a, b and p. Matching is case-insensitive.
func ParseContext(s string) (Context, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	switch key {
	case "team_a", "teama", "a":
		return TeamA, nil
	case "team_b", "teamb", "b":
		return TeamB, nil
	case "project", "p":
		return Project, nil
	}
	return "", fmt.Errorf("unknown context %q (expected team_a|team_b|project)", s)
}

// Task is a single entry in a context's task list.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
	Notes       string     `json:"notes,omitempty"`
}

// IsZero returns true if the task is empty (has no ID).
func (t *Task) IsZero() bool {
	return t.ID == ""
}

// Board is everything one context owns: its tasks in insertion order and
// its active work log.
type Board struct {
	Tasks     []Task `json:"tasks"`
	ActiveLog string `json:"active_log"`
}

// Document is the full persisted state.
type Document struct {
	SchemaVersion int                `json:"schema_version"`
	SessionStart  *time.Time         `json:"session_start,omitempty"`
	Contexts      map[Context]*Board `json:"contexts"`
}
