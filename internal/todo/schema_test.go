package todo

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantValid bool
		wantPaths []string
	}{
		{
			name:      "empty object",
			content:   `{}`,
			wantValid: true,
		},
		{
			name: "full document",
			content: `{"schema_version": 1, "session_start": "2026-10-18T09:00:00Z", "contexts": {
				"team_a": {"tasks": [{"id": "a", "title": "t", "completed": true,
					"created_at": "2026-10-18T09:00:00Z", "completed_at": "2026-10-18T10:00:00Z", "notes": "n"}],
					"active_log": "log"}}}`,
			wantValid: true,
		},
		{
			name:      "null tasks and completed_at",
			content:   `{"contexts": {"team_b": {"tasks": null}, "project": {"tasks": [{"id": "x", "title": "y", "completed_at": null}]}}}`,
			wantValid: true,
		},
		{
			name:      "invalid json",
			content:   `{`,
			wantValid: false,
		},
		{
			name:      "several problems reported together",
			content:   `{"contexts": {"team_a": {"tasks": [{"id": "", "title": "t"}, {"id": "b", "title": 3}]}}}`,
			wantValid: false,
			wantPaths: []string{"contexts.team_a.tasks[0].id", "contexts.team_a.tasks[1].title"},
		},
		{
			name:      "empty title",
			content:   `{"contexts": {"team_a": {"tasks": [{"id": "a", "title": ""}]}}}`,
			wantValid: false,
			wantPaths: []string{"contexts.team_a.tasks[0].title"},
		},
		{
			name:      "log not a string",
			content:   `{"contexts": {"project": {"tasks": [], "active_log": ["x"]}}}`,
			wantValid: false,
			wantPaths: []string{"contexts.project.active_log"},
		},
		{
			name:      "duplicate ids in one context",
			content:   `{"contexts": {"team_a": {"tasks": [{"id": "a", "title": "1"}, {"id": "a", "title": "2"}]}}}`,
			wantValid: false,
			wantPaths: []string{"contexts.team_a.tasks[1].id"},
		},
		{
			name:      "same id in different contexts",
			content:   `{"contexts": {"team_a": {"tasks": [{"id": "a", "title": "1"}]}, "team_b": {"tasks": [{"id": "a", "title": "2"}]}}}`,
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := Validate([]byte(tt.content))
			if valid := len(problems) == 0; valid != tt.wantValid {
				t.Fatalf("valid = %v, want %v (problems: %v)", valid, tt.wantValid, problems)
			}
			for _, path := range tt.wantPaths {
				if !hasProblemAt(problems, path) {
					t.Errorf("no problem reported at %s: %v", path, problems)
				}
			}
		})
	}
}

func hasProblemAt(problems []error, path string) bool {
	for _, p := range problems {
		var ve *ValidationError
		if errors.As(p, &ve) && ve.Path == path {
			return true
		}
	}
	return false
}

func TestBundledSchemaCompiles(t *testing.T) {
	if _, err := compiledSchema(); err != nil {
		t.Fatalf("bundled schema does not compile: %v", err)
	}
	if !strings.Contains(string(BundledSchema()), `"contexts"`) {
		t.Error("bundled schema missing contexts property")
	}
}

func TestCorruptErrorMessage(t *testing.T) {
	err := &CorruptError{
		Path: "/data/tasks.json",
		Problems: []error{
			&ValidationError{Path: "contexts.team_a", Err: errors.New("bad")},
			&ValidationError{Err: errors.New("worse")},
		},
	}
	want := "data file is corrupt: /data/tasks.json: contexts.team_a: bad; worse"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrCorrupt) {
		t.Error("CorruptError should match ErrCorrupt")
	}
	if errors.Is(err, ErrStorage) {
		t.Error("CorruptError should not match ErrStorage")
	}
}

func TestStorageError(t *testing.T) {
	base := errors.New("disk full")
	err := &StorageError{Op: "write", Path: "/data/tasks.json", Err: base}

	if !errors.Is(err, ErrStorage) {
		t.Error("StorageError should match ErrStorage")
	}
	if !errors.Is(err, base) {
		t.Error("StorageError should unwrap to its cause")
	}
	if got := err.Error(); got != "write /data/tasks.json: disk full" {
		t.Errorf("Error() = %q", got)
	}
}
