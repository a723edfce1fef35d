// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/nibzard/workday-go/internal/todo"
)

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}
	os.Stdout = w
	defer func() {
		os.Stdout = oldStdout
	}()

	runErr := fn()
	_ = w.Close()

	output, readErr := io.ReadAll(r)
	_ = r.Close()
	if readErr != nil {
		t.Fatalf("ReadAll() error = %v", readErr)
	}

	return string(output), runErr
}

// setupEnv isolates the test from the user's home, config files and
// WORKDAY_* variables. It returns a fresh data directory.
func setupEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, key := range []string{
		"WORKDAY_DATA_DIR", "WORKDAY_TICK", "WORKDAY_ON_CORRUPT",
		"WORKDAY_NOTES_COLLAPSED", "WORKDAY_FOCUS", "WORKDAY_LOG_FORMAT",
		"WORKDAY_LOG_TIMESTAMPS", "WORKDAY_LOG_CALLER", "WORKDAY_LOG_KEEP",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("WORKDAY_LOG_LEVEL", "error")
	chdir(t, t.TempDir())
	return filepath.Join(t.TempDir(), "data")
}

// run invokes Run against dataDir and captures stdout.
func run(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	full := append([]string{"-data-dir", dataDir}, args...)
	return captureStdout(t, func() error {
		return Run(context.Background(), full)
	})
}

func loadDoc(t *testing.T, dataDir string) *todo.Document {
	t.Helper()
	doc, err := todo.NewStore(dataDir).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return doc
}

// TestRun tests the main Run function.
func TestRun(t *testing.T) {
	t.Run("shows help with -help flag", func(t *testing.T) {
		setupEnv(t)
		out, err := captureStdout(t, func() error {
			return Run(context.Background(), []string{"-help"})
		})
		if err != nil {
			t.Errorf("expected no error with -help, got %v", err)
		}
		if !strings.Contains(out, "Commands:") {
			t.Errorf("help output missing commands:\n%s", out)
		}
	})

	t.Run("shows help with -h flag", func(t *testing.T) {
		setupEnv(t)
		_, err := captureStdout(t, func() error {
			return Run(context.Background(), []string{"-h"})
		})
		if err != nil {
			t.Errorf("expected no error with -h, got %v", err)
		}
	})

	t.Run("shows help with help command", func(t *testing.T) {
		setupEnv(t)
		out, err := captureStdout(t, func() error {
			return Run(context.Background(), []string{"help"})
		})
		if err != nil {
			t.Errorf("expected no error with help command, got %v", err)
		}
		if !strings.Contains(out, "export <context>") {
			t.Errorf("help output missing export:\n%s", out)
		}
	})

	t.Run("unknown command returns error", func(t *testing.T) {
		setupEnv(t)
		err := Run(context.Background(), []string{"unknown-command"})
		if err == nil {
			t.Fatal("expected error for unknown command, got nil")
		}
		if !strings.Contains(err.Error(), "unknown command") {
			t.Errorf("expected 'unknown command' error, got %v", err)
		}
	})

	t.Run("invalid flag value fails config load", func(t *testing.T) {
		setupEnv(t)
		err := Run(context.Background(), []string{"-on-corrupt", "ignore", "ls"})
		if err == nil || !strings.Contains(err.Error(), "loading config") {
			t.Errorf("expected config error, got %v", err)
		}
	})

	t.Run("config prints example", func(t *testing.T) {
		setupEnv(t)
		out, err := captureStdout(t, func() error {
			return Run(context.Background(), []string{"config"})
		})
		if err != nil {
			t.Fatalf("config error = %v", err)
		}
		if !strings.Contains(out, "on_corrupt") {
			t.Errorf("example config missing on_corrupt:\n%s", out)
		}
	})
}

func TestVersionCommand(t *testing.T) {
	setupEnv(t)
	old := Version
	Version = "1.2.3"
	t.Cleanup(func() { Version = old })

	for _, args := range [][]string{{"version"}, {"-version"}} {
		out, err := captureStdout(t, func() error {
			return Run(context.Background(), args)
		})
		if err != nil {
			t.Fatalf("Run(%v) error = %v", args, err)
		}
		if strings.TrimSpace(out) != "workday version 1.2.3" {
			t.Errorf("Run(%v) output = %q", args, out)
		}
	}
}

func TestAddAndList(t *testing.T) {
	dataDir := setupEnv(t)

	out, err := run(t, dataDir, "add", "a", "Write", "the", "report")
	if err != nil {
		t.Fatalf("add error = %v", err)
	}
	if !strings.Contains(out, "Write the report to Team A") {
		t.Errorf("add output = %q", out)
	}
	if _, err := run(t, dataDir, "add", "project", "Ship it"); err != nil {
		t.Fatalf("add error = %v", err)
	}

	doc := loadDoc(t, dataDir)
	tasks := doc.Tasks(todo.TeamA)
	if len(tasks) != 1 || tasks[0].Title != "Write the report" {
		t.Fatalf("team_a tasks = %+v", tasks)
	}
	if len(doc.Tasks(todo.Project)) != 1 {
		t.Fatalf("project tasks = %+v", doc.Tasks(todo.Project))
	}

	out, err = run(t, dataDir, "ls")
	if err != nil {
		t.Fatalf("ls error = %v", err)
	}
	for _, want := range []string{
		"Team A (1 open, 0 done)",
		"Team B (0 open, 0 done)",
		"(no tasks)",
		"[ ] " + tasks[0].ID[:8] + " Write the report",
		"Project (1 open, 0 done)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("ls output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, dataDir, "ls", "b")
	if err != nil {
		t.Fatalf("ls b error = %v", err)
	}
	if strings.Contains(out, "Team A") || !strings.Contains(out, "Team B") {
		t.Errorf("ls b output:\n%s", out)
	}
}

func TestAddErrors(t *testing.T) {
	dataDir := setupEnv(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing title", []string{"add", "a"}, "usage"},
		{"blank title", []string{"add", "a", "   "}, "empty"},
		{"unknown context", []string{"add", "team_c", "x"}, "unknown context"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, dataDir, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
		})
	}

	if _, err := os.Stat(filepath.Join(dataDir, "tasks.json")); !os.IsNotExist(err) {
		t.Errorf("failed adds must not write the data file, stat err = %v", err)
	}
}

func TestDoneAndRemove(t *testing.T) {
	dataDir := setupEnv(t)

	if _, err := run(t, dataDir, "add", "b", "Review PR"); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, dataDir, "add", "b", "Plan sprint"); err != nil {
		t.Fatal(err)
	}
	tasks := loadDoc(t, dataDir).Tasks(todo.TeamB)
	first, second := tasks[0], tasks[1]

	out, err := run(t, dataDir, "done", "b", first.ID[:8])
	if err != nil {
		t.Fatalf("done error = %v", err)
	}
	if !strings.Contains(out, "Completed "+first.ID[:8]+" Review PR") {
		t.Errorf("done output = %q", out)
	}
	task := loadDoc(t, dataDir).Task(todo.TeamB, first.ID)
	if !task.Completed || task.CompletedAt == nil {
		t.Errorf("task after done = %+v", task)
	}

	out, err = run(t, dataDir, "done", "b", first.ID)
	if err != nil {
		t.Fatalf("second done error = %v", err)
	}
	if !strings.Contains(out, "Reopened") {
		t.Errorf("second done output = %q", out)
	}
	task = loadDoc(t, dataDir).Task(todo.TeamB, first.ID)
	if task.Completed || task.CompletedAt != nil {
		t.Errorf("task after reopen = %+v", task)
	}

	if _, err := run(t, dataDir, "done", "a", first.ID); err == nil || !strings.Contains(err.Error(), "no unique task") {
		t.Errorf("done in wrong context error = %v", err)
	}

	out, err = run(t, dataDir, "rm", "b", first.ID[:8])
	if err != nil {
		t.Fatalf("rm error = %v", err)
	}
	if !strings.Contains(out, "Deleted "+first.ID[:8]+" Review PR") {
		t.Errorf("rm output = %q", out)
	}
	remaining := loadDoc(t, dataDir).Tasks(todo.TeamB)
	if len(remaining) != 1 || remaining[0].ID != second.ID {
		t.Errorf("remaining tasks = %+v", remaining)
	}

	if _, err := run(t, dataDir, "rm", "b", "zzzz"); err == nil {
		t.Error("rm of unknown id should fail")
	}
}

func TestWorkLog(t *testing.T) {
	dataDir := setupEnv(t)

	if _, err := run(t, dataDir, "log", "a", "Standup", "notes"); err != nil {
		t.Fatalf("log set error = %v", err)
	}
	if got := loadDoc(t, dataDir).ActiveLog(todo.TeamA); got != "Standup notes" {
		t.Errorf("ActiveLog = %q", got)
	}

	out, err := run(t, dataDir, "log", "a")
	if err != nil {
		t.Fatalf("log show error = %v", err)
	}
	if out != "Standup notes\n" {
		t.Errorf("log show output = %q", out)
	}

	old := stdin
	stdin = strings.NewReader("line one\nline two\n")
	t.Cleanup(func() { stdin = old })

	if _, err := run(t, dataDir, "log", "project", "-"); err != nil {
		t.Fatalf("log from stdin error = %v", err)
	}
	doc := loadDoc(t, dataDir)
	if got := doc.ActiveLog(todo.Project); got != "line one\nline two\n" {
		t.Errorf("project log = %q", got)
	}
	if got := doc.ActiveLog(todo.TeamA); got != "Standup notes" {
		t.Errorf("team_a log changed to %q", got)
	}

	out, err = run(t, dataDir, "ls", "-v", "project")
	if err != nil {
		t.Fatalf("ls -v error = %v", err)
	}
	if !strings.Contains(out, "Work log:") || !strings.Contains(out, "    line two") {
		t.Errorf("ls -v output:\n%s", out)
	}
}

func TestExport(t *testing.T) {
	dataDir := setupEnv(t)

	if _, err := run(t, dataDir, "log", "b", "Did the thing"); err != nil {
		t.Fatal(err)
	}

	paths := map[string]bool{}
	for i := 0; i < 2; i++ {
		out, err := run(t, dataDir, "export", "b")
		if err != nil {
			t.Fatalf("export error = %v", err)
		}
		path := strings.TrimSpace(out)
		if !strings.HasPrefix(filepath.Base(path), "Team_B_") || filepath.Ext(path) != ".txt" {
			t.Errorf("export path = %q", path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if string(data) != "Did the thing" {
			t.Errorf("export content = %q", data)
		}
		paths[path] = true
	}
	if len(paths) != 2 {
		t.Errorf("exports should never overwrite each other, got %v", paths)
	}
}

func TestCorruptDataFile(t *testing.T) {
	writeCorrupt := func(t *testing.T, dataDir string) string {
		t.Helper()
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			t.Fatal(err)
		}
		path := filepath.Join(dataDir, "tasks.json")
		if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("fail policy leaves the file alone", func(t *testing.T) {
		dataDir := setupEnv(t)
		path := writeCorrupt(t, dataDir)

		_, err := run(t, dataDir, "add", "a", "x")
		if !errors.Is(err, todo.ErrCorrupt) {
			t.Fatalf("error = %v, want ErrCorrupt", err)
		}
		if !strings.Contains(err.Error(), "workday doctor") {
			t.Errorf("error should point at doctor: %v", err)
		}
		data, _ := os.ReadFile(path)
		if string(data) != "{not json" {
			t.Errorf("corrupt file was modified: %q", data)
		}
	})

	t.Run("backup policy moves the file aside", func(t *testing.T) {
		dataDir := setupEnv(t)
		writeCorrupt(t, dataDir)

		if _, err := run(t, dataDir, "-on-corrupt", "backup", "add", "a", "fresh"); err != nil {
			t.Fatalf("add with backup policy error = %v", err)
		}

		matches, _ := filepath.Glob(filepath.Join(dataDir, "tasks.json.corrupt-*"))
		if len(matches) != 1 {
			t.Fatalf("backups = %v", matches)
		}
		data, _ := os.ReadFile(matches[0])
		if string(data) != "{not json" {
			t.Errorf("backup content = %q", data)
		}
		tasks := loadDoc(t, dataDir).Tasks(todo.TeamA)
		if len(tasks) != 1 || tasks[0].Title != "fresh" {
			t.Errorf("tasks after backup = %+v", tasks)
		}
	})
}

func TestDoctorCommand(t *testing.T) {
	t.Run("fresh data dir passes", func(t *testing.T) {
		dataDir := setupEnv(t)
		out, err := run(t, dataDir, "doctor")
		if err != nil {
			t.Fatalf("doctor error = %v\n%s", err, out)
		}
		for _, want := range []string{"Workday Doctor", "Not found", "No config file", "All checks passed"} {
			if !strings.Contains(out, want) {
				t.Errorf("doctor output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("valid data file", func(t *testing.T) {
		dataDir := setupEnv(t)
		if _, err := run(t, dataDir, "add", "a", "x"); err != nil {
			t.Fatal(err)
		}
		out, err := run(t, dataDir, "doctor", "-v")
		if err != nil {
			t.Fatalf("doctor error = %v\n%s", err, out)
		}
		if !strings.Contains(out, "✅ Valid") || !strings.Contains(out, "Team A: 1 open, 0 done") {
			t.Errorf("doctor -v output:\n%s", out)
		}
	})

	t.Run("reports every schema problem", func(t *testing.T) {
		dataDir := setupEnv(t)
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			t.Fatal(err)
		}
		bad := `{"schema_version": 1, "contexts": {"team_a": {"tasks": [{"id": "", "title": 5}], "active_log": ""}}}`
		if err := os.WriteFile(filepath.Join(dataDir, "tasks.json"), []byte(bad), 0o644); err != nil {
			t.Fatal(err)
		}
		out, err := run(t, dataDir, "doctor")
		if err == nil || !strings.Contains(err.Error(), "doctor checks failed") {
			t.Fatalf("doctor error = %v", err)
		}
		if !strings.Contains(out, "Validation failed") {
			t.Errorf("doctor output:\n%s", out)
		}
		if strings.Count(out, "     - ") < 2 {
			t.Errorf("expected several problems listed:\n%s", out)
		}
	})

	t.Run("unknown config key is a warning", func(t *testing.T) {
		dataDir := setupEnv(t)
		if err := os.WriteFile("workday.toml", []byte("mystery = 1\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		out, err := run(t, dataDir, "doctor")
		if err != nil {
			t.Fatalf("doctor error = %v\n%s", err, out)
		}
		if !strings.Contains(out, "Unknown key: mystery") {
			t.Errorf("doctor output:\n%s", out)
		}
	})
}

func TestTailCommand(t *testing.T) {
	dataDir := setupEnv(t)

	out, err := run(t, dataDir, "tail")
	if err != nil {
		t.Fatalf("tail error = %v", err)
	}
	if !strings.Contains(out, "No log files found.") {
		t.Errorf("tail output = %q", out)
	}

	logs := filepath.Join(dataDir, "logs")
	if err := os.MkdirAll(logs, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(logs, "run.log"), []byte("one\ntwo\nthree\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err = run(t, dataDir, "tail", "-n", "1")
	if err != nil {
		t.Fatalf("tail -n 1 error = %v", err)
	}
	if !strings.Contains(out, "three") || strings.Contains(out, "two") {
		t.Errorf("tail -n 1 output = %q", out)
	}
}

func TestTUIRequiresTTY(t *testing.T) {
	dataDir := setupEnv(t)
	_, err := run(t, dataDir)
	if err == nil || !strings.Contains(err.Error(), "TTY") {
		t.Errorf("tui without a terminal error = %v", err)
	}
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		verbose bool
	}{
		{"none", nil, nil, false},
		{"flag first", []string{"-v", "a"}, []string{"a"}, true},
		{"flag last", []string{"a", "-v"}, []string{"a"}, true},
		{"positionals only", []string{"a", "b"}, []string{"a", "b"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			verbose := fs.Bool("v", false, "")
			got, err := parseArgs(fs, tt.args)
			if err != nil {
				t.Fatalf("parseArgs() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseArgs() = %v, want %v", got, tt.want)
			}
			if *verbose != tt.verbose {
				t.Errorf("verbose = %v, want %v", *verbose, tt.verbose)
			}
		})
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if _, err := parseArgs(fs, []string{"-nope"}); err == nil {
		t.Error("parseArgs() should reject unknown flags")
	}
}

// chdir changes the working directory to dir and restores it on cleanup
// (equivalent to testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
