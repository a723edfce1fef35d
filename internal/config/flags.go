package config

import "flag"

// flagToSource maps flag names to source field names.
var flagToSource = map[string]string{
	"data-dir":        "data_dir",
	"tick":            "tick_interval",
	"on-corrupt":      "on_corrupt",
	"notes-collapsed": "notes_collapsed",
	"focus":           "focus_mode",
	"log-level":       "log_level",
	"log-format":      "log_format",
	"log-timestamps":  "log_timestamps",
	"log-caller":      "log_caller",
	"log-keep":        "log_keep",
}

// parseFlags defines the global flags on fs, parses args and applies the
// flags that were set explicitly. If sources is non-nil, it tracks the
// source of each value.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("workday", flag.ContinueOnError)
	}

	var (
		dataDir        = cfg.DataDir
		tick           = cfg.TickInterval
		onCorrupt      = cfg.OnCorrupt
		notesCollapsed = cfg.NotesCollapsed
		focus          = cfg.FocusMode
		logLevel       = cfg.LogLevel
		logFormat      = cfg.LogFormat
		logTimestamps  = cfg.LogTimestamps
		logCaller      = cfg.LogCaller
		logKeep        = cfg.LogKeep
	)

	fs.StringVar(&dataDir, "data-dir", dataDir, "Data directory for tasks, exports and logs")
	fs.DurationVar(&tick, "tick", tick, "Session timer tick interval")
	fs.StringVar(&onCorrupt, "on-corrupt", onCorrupt, "What to do with a corrupt data file (fail, backup)")
	fs.BoolVar(&notesCollapsed, "notes-collapsed", notesCollapsed, "Start with the work log pane collapsed")
	fs.BoolVar(&focus, "focus", focus, "Start in focus mode")
	fs.StringVar(&logLevel, "log-level", logLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&logFormat, "log-format", logFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&logTimestamps, "log-timestamps", logTimestamps, "Show timestamps in logs")
	fs.BoolVar(&logCaller, "log-caller", logCaller, "Show caller location in logs")
	fs.IntVar(&logKeep, "log-keep", logKeep, "Run logs to keep (0 keeps all)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	apply := map[string]func(){
		"data-dir":        func() { cfg.DataDir = dataDir },
		"tick":            func() { cfg.TickInterval = tick },
		"on-corrupt":      func() { cfg.OnCorrupt = onCorrupt },
		"notes-collapsed": func() { cfg.NotesCollapsed = notesCollapsed },
		"focus":           func() { cfg.FocusMode = focus },
		"log-level":       func() { cfg.LogLevel = logLevel },
		"log-format":      func() { cfg.LogFormat = logFormat },
		"log-timestamps":  func() { cfg.LogTimestamps = logTimestamps },
		"log-caller":      func() { cfg.LogCaller = logCaller },
		"log-keep":        func() { cfg.LogKeep = logKeep },
	}

	fs.Visit(func(f *flag.Flag) {
		set, ok := apply[f.Name]
		if !ok {
			return
		}
		set()
		if sources != nil {
			sources[flagToSource[f.Name]] = SourceFlag
		}
	})

	return nil
}
