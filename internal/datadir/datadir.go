// Package datadir provides constants and utilities for the workday data directory.
package datadir

import (
	"os"
	"path/filepath"
)

const (
	// Dir is the name of the data directory under the user's home.
	Dir = ".workday_widget"

	// DefaultTasksFile is the task document file name (inside the data dir).
	DefaultTasksFile = "tasks.json"

	// DefaultConfigFile is the user config file name (inside the data dir).
	DefaultConfigFile = "workday.toml"

	// LogsDir is the run log directory name (inside the data dir).
	LogsDir = "logs"

	// ExportExt is the file extension of exported work logs.
	ExportExt = ".txt"
)

// Default returns ~/.workday_widget, or a relative .workday_widget if the
// home directory cannot be determined.
func Default() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return Dir
	}
	return filepath.Join(home, Dir)
}

// TasksPath returns the full path to the task document within a data directory.
func TasksPath(dataDir string) string {
	return filepath.Join(dataDir, DefaultTasksFile)
}

// ConfigPath returns the full path to the config file within a data directory.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, DefaultConfigFile)
}

// LogsPath returns the full path to the run log directory within a data directory.
func LogsPath(dataDir string) string {
	return filepath.Join(dataDir, LogsDir)
}
