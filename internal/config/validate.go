package config

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/nibzard/workday-go/internal/logging"
	"github.com/nibzard/workday-go/internal/todo"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidationError reports an invalid configuration value.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks every field and returns all problems joined together.
func (c *Config) Validate() error {
	var errs []error
	add := func(field, format string, args ...any) {
		errs = append(errs, &ValidationError{Field: field, Err: fmt.Errorf(format, args...)})
	}

	if c.DataDir == "" {
		add("data_dir", "must not be empty")
	}
	if c.TickInterval <= 0 {
		add("tick_interval", "must be positive, got %s", c.TickInterval)
	}
	switch c.OnCorrupt {
	case OnCorruptFail, OnCorruptBackup:
	default:
		add("on_corrupt", "must be %q or %q, got %q", OnCorruptFail, OnCorruptBackup, c.OnCorrupt)
	}
	if !logging.ValidLevel(c.LogLevel) {
		add("log_level", "unknown level %q", c.LogLevel)
	}
	if !logging.ValidFormat(c.LogFormat) {
		add("log_format", "unknown format %q (want text, json or logfmt)", c.LogFormat)
	}
	if c.LogKeep < 0 {
		add("log_keep", "must not be negative, got %d", c.LogKeep)
	}

	for _, key := range sortedKeys(c.Contexts) {
		if !todo.Context(key).Valid() {
			add("contexts."+key, "unknown context (want team_a, team_b or project)")
			continue
		}
		if color := c.Contexts[key].Color; color != "" && !hexColor.MatchString(color) {
			add("contexts."+key+".color", "must look like #rrggbb, got %q", color)
		}
	}

	return errors.Join(errs...)
}
