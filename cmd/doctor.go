package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/nibzard/workday-go/internal/config"
	"github.com/nibzard/workday-go/internal/logging"
	"github.com/nibzard/workday-go/internal/todo"
)

func doctorCommand(cws *config.ConfigWithSources, args []string) error {
	flags := flag.NewFlagSet("workday doctor", flag.ContinueOnError)
	verbose := flags.Bool("v", false, "Verbose output")

	rest, err := parseArgs(flags, args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("unexpected arguments: %v", rest)
	}
	cfg := cws.Config

	fmt.Println("Workday Doctor")
	fmt.Println("==============")
	fmt.Println()

	allOK := true

	fmt.Printf("Data directory: %s\n", cfg.DataDir)
	if info, err := os.Stat(cfg.DataDir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Println("  ⚠️  Not found (created on first save)")
		} else {
			fmt.Printf("  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if !info.IsDir() {
		fmt.Println("  ❌ Error: path is not a directory")
		allOK = false
	} else {
		fmt.Println("  ✅ OK")
	}
	fmt.Println()

	if !checkDataFile(cfg, *verbose) {
		allOK = false
	}
	fmt.Println()

	printConfig(cws, *verbose)
	fmt.Println()

	fmt.Printf("Log directory: %s\n", cfg.LogsPath())
	latest, err := logging.FindLatestLog(cfg.LogsPath())
	switch {
	case err != nil:
		fmt.Printf("  ❌ Error: %v\n", err)
		allOK = false
	case latest == "":
		fmt.Println("  ⚠️  No run logs yet")
	default:
		fmt.Printf("  ✅ Latest: %s\n", filepath.Base(latest))
	}
	fmt.Println()

	if !allOK {
		fmt.Println("❌ Some checks failed")
		return errors.New("doctor checks failed")
	}
	fmt.Println("✅ All checks passed")
	return nil
}

// checkDataFile reports every problem in the task document, not only the
// first one Load would stop at.
func checkDataFile(cfg *config.Config, verbose bool) bool {
	path := cfg.TasksPath()
	fmt.Printf("Data file: %s\n", path)

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Println("  ⚠️  Not found (a new one is written on first save)")
			return true
		}
		fmt.Printf("  ❌ Error: %v\n", err)
		return false
	}
	if info.IsDir() {
		fmt.Println("  ❌ Error: path is a directory")
		return false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("  ❌ Error: %v\n", err)
		return false
	}
	fmt.Printf("  ✅ Readable (%s, modified %s)\n", humanize.Bytes(uint64(info.Size())), humanize.Time(info.ModTime()))

	if problems := todo.Validate(data); len(problems) > 0 {
		fmt.Println("  ❌ Validation failed:")
		for _, p := range problems {
			fmt.Printf("     - %v\n", p)
		}
		if cfg.OnCorrupt == config.OnCorruptBackup {
			fmt.Println("  ⚠️  on_corrupt = backup: the file will be moved aside on next start")
		}
		return false
	}
	fmt.Println("  ✅ Valid")

	if verbose {
		doc, err := todo.NewStore(cfg.DataDir).Load()
		if err != nil {
			fmt.Printf("  ❌ Load error: %v\n", err)
			return false
		}
		for _, c := range todo.Contexts() {
			open, done := doc.Counts(c)
			fmt.Printf("  %s: %d open, %d done, log %s\n",
				cfg.ContextLabel(c), open, done, humanize.Bytes(uint64(len(doc.ActiveLog(c)))))
		}
	}
	return true
}

func printConfig(cws *config.ConfigWithSources, verbose bool) {
	cfg := cws.Config

	fmt.Println("Config:")
	if len(cws.Files) == 0 {
		fmt.Println("  ✅ No config file (defaults)")
	}
	for _, f := range cws.Files {
		fmt.Printf("  ✅ Read %s\n", f)
	}
	for _, key := range cws.Unknown {
		fmt.Printf("  ⚠️  Unknown key: %s\n", key)
	}

	fmt.Printf("  ✅ on_corrupt: %s (%s)\n", cfg.OnCorrupt, cws.Sources["on_corrupt"])
	fmt.Printf("  ✅ tick_interval: %s (%s)\n", cfg.TickInterval, cws.Sources["tick_interval"])
	for _, c := range todo.Contexts() {
		key := "contexts." + string(c)
		fmt.Printf("  ✅ %s: %s %s (%s)\n", key, cfg.ContextLabel(c), cfg.ContextColor(c), cws.Sources[key])
	}

	if verbose {
		fmt.Printf("  data_dir: %s (%s)\n", cfg.DataDir, cws.Sources["data_dir"])
		fmt.Printf("  notes_collapsed: %t (%s)\n", cfg.NotesCollapsed, cws.Sources["notes_collapsed"])
		fmt.Printf("  focus_mode: %t (%s)\n", cfg.FocusMode, cws.Sources["focus_mode"])
		fmt.Printf("  log_level: %s (%s)\n", cfg.LogLevel, cws.Sources["log_level"])
		fmt.Printf("  log_format: %s (%s)\n", cfg.LogFormat, cws.Sources["log_format"])
		fmt.Printf("  log_keep: %d (%s)\n", cfg.LogKeep, cws.Sources["log_keep"])
	}
}
