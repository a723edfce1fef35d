// Package cmd implements the CLI command structure for workday.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/nibzard/workday-go/internal/config"
	"github.com/nibzard/workday-go/internal/logging"
	"github.com/nibzard/workday-go/internal/todo"
	"github.com/nibzard/workday-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// stdin is read by "log <context> -".
var stdin io.Reader = os.Stdin

// Run executes the workday CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("workday", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// No command means the board.
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	logger := logging.New(os.Stderr, cfg.LogOptions())

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "add":
		return addCommand(cfg, logger, remainingArgs)
	case "done":
		return doneCommand(cfg, logger, remainingArgs)
	case "rm":
		return rmCommand(cfg, logger, remainingArgs)
	case "ls":
		return lsCommand(cfg, logger, remainingArgs)
	case "log":
		return logCommand(cfg, logger, remainingArgs)
	case "export":
		return exportCommand(cfg, logger, remainingArgs)
	case "doctor":
		return doctorCommand(cws, remainingArgs)
	case "tail":
		return tailCommand(ctx, cfg, remainingArgs)
	case "config":
		fmt.Print(config.ExampleConfig())
		return nil
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// tuiCommand launches the board. The terminal belongs to the UI, so logs
// go to a per-run file under the data directory.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	if !ui.IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY (use add, ls, log or export for scripting)")
	}

	runLog, err := logging.NewRunLogger(cfg.LogsPath())
	if err != nil {
		return fmt.Errorf("creating run log: %w", err)
	}
	defer runLog.Close()

	logger := runLog.Logger(cfg.LogOptions())
	if removed, err := logging.Prune(cfg.LogsPath(), cfg.LogKeep); err != nil {
		logger.Warn("pruning old run logs", "err", err)
	} else if removed > 0 {
		logger.Debug("pruned old run logs", "removed", removed)
	}

	store := todo.NewStore(cfg.DataDir)
	doc, err := loadDocument(cfg, store, logger)
	if err != nil {
		logger.Error("loading tasks", "err", err)
		return err
	}
	logger.Info("session started", "data_dir", cfg.DataDir, "run", runLog.RunID)

	if err := ui.RunTUI(ctx, cfg, store, doc, ui.WithLogger(logger)); err != nil {
		logger.Error("tui exited", "err", err)
		return err
	}
	logger.Info("session ended")
	return nil
}

// loadDocument loads the task document and applies the corrupt file policy.
func loadDocument(cfg *config.Config, store *todo.Store, logger *log.Logger) (*todo.Document, error) {
	doc, err := store.Load()
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, todo.ErrCorrupt) {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	if cfg.OnCorrupt != config.OnCorruptBackup {
		return nil, fmt.Errorf("loading tasks: %w (run 'workday doctor' for details, or rerun with -on-corrupt backup)", err)
	}

	backup, qerr := store.Quarantine()
	if qerr != nil {
		return nil, fmt.Errorf("moving corrupt data file aside: %w", qerr)
	}
	logger.Warn("data file was corrupt, starting fresh", "backup", backup, "err", err)
	return todo.NewDocument(), nil
}

// tailCommand tails the latest run log.
func tailCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("workday tail", flag.ContinueOnError)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")

	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("unexpected arguments: %v", rest)
	}

	logPath, err := logging.FindLatestLog(cfg.LogsPath())
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Println("No log files found.")
		return nil
	}

	fmt.Printf("Tailing: %s\n", logPath)
	if *follow {
		fmt.Println("(Ctrl+C to stop)")
	}
	fmt.Println()

	return logging.TailLog(ctx, os.Stdout, logPath, *n, *follow)
}

func versionCommand() error {
	fmt.Printf("workday version %s\n", Version)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Workday - tasks, work logs and a session timer for three contexts")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  workday [options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                        Open the board (default command)")
	fmt.Fprintln(w, "  add <context> <title...>   Add a task")
	fmt.Fprintln(w, "  done <context> <id>        Toggle a task complete (id prefix is enough)")
	fmt.Fprintln(w, "  rm <context> <id>          Delete a task")
	fmt.Fprintln(w, "  ls [context] [-v]          List tasks")
	fmt.Fprintln(w, "  log <context> [text|-]     Show or replace the work log (- reads stdin)")
	fmt.Fprintln(w, "  export <context>           Export the work log to a timestamped file")
	fmt.Fprintln(w, "  doctor [-v]                Check data file, config and directories")
	fmt.Fprintln(w, "  tail [-f] [-n N]           Show the latest run log")
	fmt.Fprintln(w, "  config                     Print an example config file")
	fmt.Fprintln(w, "  version                    Show version information")
	fmt.Fprintln(w, "  help                       Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Contexts: team_a (a), team_b (b), project (p)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

// parseArgs parses flags that may appear before or after positional
// arguments and returns the positional ones.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}
