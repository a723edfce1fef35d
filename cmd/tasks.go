package cmd

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/nibzard/workday-go/internal/config"
	"github.com/nibzard/workday-go/internal/todo"
)

const shortIDLen = 8

// openStore loads the document for a scripting command.
func openStore(cfg *config.Config, logger *log.Logger) (*todo.Store, *todo.Document, error) {
	store := todo.NewStore(cfg.DataDir)
	doc, err := loadDocument(cfg, store, logger)
	if err != nil {
		return nil, nil, err
	}
	return store, doc, nil
}

func save(store *todo.Store, doc *todo.Document, logger *log.Logger, reason string) error {
	if err := store.Save(doc); err != nil {
		logger.Error("save failed", "reason", reason, "err", err)
		return fmt.Errorf("saving tasks: %w", err)
	}
	logger.Debug("document saved", "reason", reason, "path", store.Path())
	return nil
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func addCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: workday add <context> <title...>")
	}
	ctx, err := todo.ParseContext(args[0])
	if err != nil {
		return err
	}
	title := strings.TrimSpace(strings.Join(args[1:], " "))
	if title == "" {
		return fmt.Errorf("task title is empty")
	}

	store, doc, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	task, ok := doc.AddTask(ctx, title)
	if !ok {
		return fmt.Errorf("task title is empty")
	}
	if err := save(store, doc, logger, "add"); err != nil {
		return err
	}
	logger.Info("task added", "context", ctx, "id", task.ID)
	fmt.Printf("Added %s %s to %s\n", shortID(task.ID), task.Title, cfg.ContextLabel(ctx))
	return nil
}

// resolveTask returns a copy of the task named by an id prefix in ctx.
func resolveTask(cfg *config.Config, doc *todo.Document, ctx todo.Context, prefix string) (todo.Task, error) {
	task := doc.FindByPrefix(ctx, prefix)
	if task == nil {
		return todo.Task{}, fmt.Errorf("no unique task matching %q in %s", prefix, cfg.ContextLabel(ctx))
	}
	return *task, nil
}

func doneCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: workday done <context> <id>")
	}
	ctx, err := todo.ParseContext(args[0])
	if err != nil {
		return err
	}

	store, doc, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	task, err := resolveTask(cfg, doc, ctx, args[1])
	if err != nil {
		return err
	}
	doc.CompleteTask(ctx, task.ID)
	if err := save(store, doc, logger, "complete"); err != nil {
		return err
	}

	verb := "Reopened"
	if doc.Task(ctx, task.ID).Completed {
		verb = "Completed"
	}
	logger.Info("task toggled", "context", ctx, "id", task.ID, "completed", verb == "Completed")
	fmt.Printf("%s %s %s\n", verb, shortID(task.ID), task.Title)
	return nil
}

func rmCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: workday rm <context> <id>")
	}
	ctx, err := todo.ParseContext(args[0])
	if err != nil {
		return err
	}

	store, doc, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	task, err := resolveTask(cfg, doc, ctx, args[1])
	if err != nil {
		return err
	}
	doc.DeleteTask(ctx, task.ID)
	if err := save(store, doc, logger, "delete"); err != nil {
		return err
	}
	logger.Info("task deleted", "context", ctx, "id", task.ID)
	fmt.Printf("Deleted %s %s\n", shortID(task.ID), task.Title)
	return nil
}

func lsCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("workday ls", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "Show notes, completion times and the work log")

	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(rest) > 1 {
		return fmt.Errorf("unexpected arguments: %v", rest[1:])
	}

	contexts := todo.Contexts()
	if len(rest) == 1 {
		ctx, err := todo.ParseContext(rest[0])
		if err != nil {
			return err
		}
		contexts = []todo.Context{ctx}
	}

	_, doc, err := openStore(cfg, logger)
	if err != nil {
		return err
	}

	for i, ctx := range contexts {
		if i > 0 {
			fmt.Println()
		}
		open, done := doc.Counts(ctx)
		fmt.Printf("%s (%d open, %d done)\n", cfg.ContextLabel(ctx), open, done)

		tasks := doc.Tasks(ctx)
		if len(tasks) == 0 {
			fmt.Println("  (no tasks)")
		}
		for _, t := range tasks {
			box := "[ ]"
			if t.Completed {
				box = "[x]"
			}
			fmt.Printf("  %s %s %s  (%s)\n", box, shortID(t.ID), t.Title, humanize.Time(t.CreatedAt))
			if !*verbose {
				continue
			}
			if t.CompletedAt != nil {
				fmt.Printf("      completed %s\n", t.CompletedAt.Local().Format("2006-01-02 15:04"))
			}
			if t.Notes != "" {
				for _, line := range strings.Split(strings.TrimRight(t.Notes, "\n"), "\n") {
					fmt.Printf("      > %s\n", line)
				}
			}
		}

		if *verbose {
			if text := doc.ActiveLog(ctx); strings.TrimSpace(text) != "" {
				fmt.Println("  Work log:")
				for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
					fmt.Printf("    %s\n", line)
				}
			}
		}
	}
	return nil
}

func logCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: workday log <context> [text|-]")
	}
	ctx, err := todo.ParseContext(args[0])
	if err != nil {
		return err
	}

	store, doc, err := openStore(cfg, logger)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		fmt.Print(doc.ActiveLog(ctx))
		if text := doc.ActiveLog(ctx); text != "" && !strings.HasSuffix(text, "\n") {
			fmt.Println()
		}
		return nil
	}

	var text string
	if len(args) == 2 && args[1] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	} else {
		text = strings.Join(args[1:], " ")
	}

	doc.SetActiveLog(ctx, text)
	if err := save(store, doc, logger, "log"); err != nil {
		return err
	}
	logger.Info("work log updated", "context", ctx, "bytes", len(text))
	fmt.Printf("Updated work log for %s (%s)\n", cfg.ContextLabel(ctx), humanize.Bytes(uint64(len(text))))
	return nil
}

func exportCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: workday export <context>")
	}
	ctx, err := todo.ParseContext(args[0])
	if err != nil {
		return err
	}

	store, doc, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	path, err := store.ExportLog(ctx, doc.ActiveLog(ctx))
	if err != nil {
		logger.Error("export failed", "context", ctx, "err", err)
		return fmt.Errorf("exporting work log: %w", err)
	}
	logger.Info("work log exported", "context", ctx, "path", path)
	fmt.Println(path)
	return nil
}
