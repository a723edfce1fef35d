package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// loadFromEnv overrides config from WORKDAY_* environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	mark := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	if v := os.Getenv("WORKDAY_DATA_DIR"); v != "" {
		cfg.DataDir = v
		mark("data_dir")
	}
	if v := os.Getenv("WORKDAY_TICK"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("WORKDAY_TICK: %w", err)
		}
		cfg.TickInterval = d
		mark("tick_interval")
	}
	if v := os.Getenv("WORKDAY_ON_CORRUPT"); v != "" {
		cfg.OnCorrupt = v
		mark("on_corrupt")
	}
	if v := os.Getenv("WORKDAY_NOTES_COLLAPSED"); v != "" {
		cfg.NotesCollapsed = boolFromString(v)
		mark("notes_collapsed")
	}
	if v := os.Getenv("WORKDAY_FOCUS"); v != "" {
		cfg.FocusMode = boolFromString(v)
		mark("focus_mode")
	}

	// Logging configuration
	if v := os.Getenv("WORKDAY_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		mark("log_level")
	}
	if v := os.Getenv("WORKDAY_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		mark("log_format")
	}
	if v := os.Getenv("WORKDAY_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		mark("log_timestamps")
	}
	if v := os.Getenv("WORKDAY_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		mark("log_caller")
	}
	if v := os.Getenv("WORKDAY_LOG_KEEP"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("WORKDAY_LOG_KEEP: %w", err)
		}
		cfg.LogKeep = n
		mark("log_keep")
	}
	return nil
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
