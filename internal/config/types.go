package config

import (
	"time"

	"github.com/nibzard/workday-go/internal/datadir"
	"github.com/nibzard/workday-go/internal/logging"
	"github.com/nibzard/workday-go/internal/todo"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource

	// Files lists the config files that were read, in load order.
	Files []string
	// Unknown lists keys present in config files that no field consumes.
	Unknown []string
}

// Corrupt data file policies.
const (
	OnCorruptFail   = "fail"
	OnCorruptBackup = "backup"
)

// Default values.
const (
	DefaultDataDir      = "~/" + datadir.Dir
	DefaultTickInterval = time.Second
	DefaultOnCorrupt    = OnCorruptFail
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultLogKeep      = 20
)

// Catppuccin Mocha accents used by the default context styles.
const (
	ColorSapphire = "#74c7ec"
	ColorMauve    = "#cba6f7"
	ColorPeach    = "#fab387"
)

// DefaultContexts returns the built-in label and accent colour per context.
func DefaultContexts() ContextsConfig {
	return ContextsConfig{
		string(todo.TeamA):   {Label: todo.TeamA.Label(), Color: ColorSapphire},
		string(todo.TeamB):   {Label: todo.TeamB.Label(), Color: ColorMauve},
		string(todo.Project): {Label: todo.Project.Label(), Color: ColorPeach},
	}
}

// Config holds the full configuration for workday.
type Config struct {
	// Paths
	DataDir string `toml:"data_dir"`

	// Session timer
	TickInterval time.Duration `toml:"tick_interval"`

	// Storage
	OnCorrupt string `toml:"on_corrupt"`

	// Presentation
	NotesCollapsed bool           `toml:"notes_collapsed"`
	FocusMode      bool           `toml:"focus_mode"`
	Contexts       ContextsConfig `toml:"contexts"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
	LogKeep       int    `toml:"log_keep"`
}

// ContextStyle customises how a context is presented.
type ContextStyle struct {
	Label string `toml:"label"`
	Color string `toml:"color"`
}

// ContextsConfig maps context keys (team_a, team_b, project) to their style.
type ContextsConfig map[string]ContextStyle

// Style returns the style for c, falling back to the built-in defaults for
// any field left empty.
func (cc ContextsConfig) Style(c todo.Context) ContextStyle {
	style := DefaultContexts()[string(c)]
	if cc == nil {
		return style
	}
	if custom, ok := cc[string(c)]; ok {
		if custom.Label != "" {
			style.Label = custom.Label
		}
		if custom.Color != "" {
			style.Color = custom.Color
		}
	}
	return style
}

// ContextLabel returns the display label of c.
func (c *Config) ContextLabel(ctx todo.Context) string {
	return c.Contexts.Style(ctx).Label
}

// ContextColor returns the accent colour of c.
func (c *Config) ContextColor(ctx todo.Context) string {
	return c.Contexts.Style(ctx).Color
}

// TasksPath returns the data file location.
func (c *Config) TasksPath() string {
	return datadir.TasksPath(c.DataDir)
}

// LogsPath returns the run log directory.
func (c *Config) LogsPath() string {
	return datadir.LogsPath(c.DataDir)
}

// LogOptions converts the logging settings into logger options.
func (c *Config) LogOptions() logging.Options {
	opts := logging.DefaultOptions()
	opts.Level = c.LogLevel
	opts.Format = c.LogFormat
	opts.ReportTimestamp = c.LogTimestamps
	opts.ReportCaller = c.LogCaller
	return opts
}
