// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.workday_widget/workday.toml or OS-specific config directory)
// 3. Project config file (workday.toml or .workday.toml in the current directory)
// 4. Environment variables (WORKDAY_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.workday_widget/workday.toml (preferred)
// - Windows: %APPDATA%\workday\workday.toml
// - macOS: ~/Library/Application Support/workday/workday.toml
// - Linux/BSD: $XDG_CONFIG_HOME/workday/workday.toml or ~/.config/workday/workday.toml
//
// Project-level config locations (overrides user config):
// - ./workday.toml (preferred)
// - ./.workday.toml
package config
