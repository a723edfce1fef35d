package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# Workday configuration file
# Values can be overridden by WORKDAY_* environment variables or CLI flags

# Data directory for tasks.json, exports and run logs
# (supports ~ expansion and %VAR% on Windows)
data_dir = "~/.workday_widget"

# Session timer tick interval
tick_interval = "1s"

# What to do when tasks.json cannot be read: "fail" or "backup"
# backup renames the broken file to tasks.json.corrupt-<timestamp> and starts fresh
on_corrupt = "fail"

# Start with the work log pane collapsed
notes_collapsed = false

# Start in focus mode (timer and current task only)
focus_mode = false

# Logging
log_level = "info"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = true
log_caller = false
log_keep = 20           # run logs kept in <data_dir>/logs, 0 keeps all

# Context labels and accent colours
[contexts.team_a]
label = "Team A"
color = "#74c7ec"

[contexts.team_b]
label = "Team B"
color = "#cba6f7"

[contexts.project]
label = "Project"
color = "#fab387"
`
}
