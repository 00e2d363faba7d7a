// Package cmd implements the CLI command structure for todolist.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"

	"github.com/nibzard/todolist-go/internal/app"
	"github.com/nibzard/todolist-go/internal/config"
	"github.com/nibzard/todolist-go/internal/export"
	"github.com/nibzard/todolist-go/internal/logging"
	"github.com/nibzard/todolist-go/internal/storage"
	"github.com/nibzard/todolist-go/internal/todo"
	"github.com/nibzard/todolist-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Output streams, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the todolist CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// No command launches the form.
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	case "init":
		return initCommand(cfg, remainingArgs)
	case "doctor":
		return doctorCommand(cfg, remainingArgs)
	}

	// The form owns the terminal, so it only logs to a file.
	var fallback io.Writer = stderr
	if subcommand == "tui" {
		fallback = nil
	}
	logger, closer, err := logging.Setup(cfg, fallback)
	if err != nil {
		return err
	}
	defer closer.Close()

	mgr, err := newManager(cfg, logger)
	if err != nil {
		return err
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, mgr, remainingArgs)
	case "add":
		return addCommand(cfg, mgr, remainingArgs)
	case "rm", "delete":
		return deleteCommand(mgr, remainingArgs)
	case "done", "complete":
		return doneCommand(mgr, remainingArgs)
	case "ls", "list":
		return lsCommand(mgr, remainingArgs)
	case "export":
		return exportCommand(mgr, remainingArgs)
	case "migrate":
		return migrateCommand(cfg, mgr, remainingArgs)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

func newManager(cfg *config.Config, logger *log.Logger) (*app.Manager, error) {
	backend, err := storage.Open(cfg.StorageKind(), cfg.TaskFile)
	if err != nil {
		return nil, err
	}
	logger.Debug("using storage", "kind", cfg.StorageKind(), "path", cfg.TaskFile)
	return app.New(backend, app.WithLogger(logger)), nil
}

// loadTasks loads the list for commands that need it intact.
func loadTasks(mgr *app.Manager) error {
	if err := mgr.Load(); err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}
	return nil
}

// tuiCommand launches the terminal form. A load failure is shown in the
// form and the list starts empty.
func tuiCommand(ctx context.Context, cfg *config.Config, mgr *app.Manager, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	loadErr := mgr.Load()
	return ui.RunTUI(ctx, mgr,
		ui.WithDefaultPriority(cfg.Priority()),
		ui.WithLoadError(loadErr),
	)
}

// addCommand appends a task.
func addCommand(cfg *config.Config, mgr *app.Manager, args []string) error {
	fs := flag.NewFlagSet("todolist add", flag.ContinueOnError)
	fs.SetOutput(stderr)
	priorityArg := fs.String("priority", string(cfg.Priority()), "Priority (High|Medium|Low)")
	fs.StringVar(priorityArg, "p", string(cfg.Priority()), "Priority (shorthand)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) != 2 {
		return fmt.Errorf("usage: todolist add [-priority P] <name> <due date>")
	}
	priority, err := todo.ParsePriority(*priorityArg)
	if err != nil {
		return err
	}

	if err := loadTasks(mgr); err != nil {
		return err
	}
	task, err := mgr.Add(remaining[0], remaining[1], priority)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Added #%d: %s (due %s, %s)\n", mgr.Len(), task.Name, task.DueDate, task.Priority)
	return nil
}

// deleteCommand removes the task with the given number.
func deleteCommand(mgr *app.Manager, args []string) error {
	n, err := parseTaskNumber("rm", args)
	if err != nil {
		return err
	}
	if err := loadTasks(mgr); err != nil {
		return err
	}
	task, err := mgr.Delete(n - 1)
	if err != nil {
		return taskNumberError(n, err)
	}
	fmt.Fprintf(stdout, "Deleted #%d: %s\n", n, task.Name)
	return nil
}

// doneCommand marks the task with the given number completed.
func doneCommand(mgr *app.Manager, args []string) error {
	n, err := parseTaskNumber("done", args)
	if err != nil {
		return err
	}
	if err := loadTasks(mgr); err != nil {
		return err
	}
	task, err := mgr.MarkCompleted(n - 1)
	if err != nil {
		return taskNumberError(n, err)
	}
	fmt.Fprintf(stdout, "Completed #%d: %s\n", n, task.Name)
	return nil
}

// parseTaskNumber reads the single 1-based task number argument.
func parseTaskNumber(command string, args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: todolist %s <number>", command)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(args[0], "#"))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid task number %q (see todolist ls)", args[0])
	}
	return n, nil
}

func taskNumberError(n int, err error) error {
	var ierr *todo.IndexError
	if errors.As(err, &ierr) {
		if ierr.Len == 0 {
			return fmt.Errorf("no task #%d: the list is empty: %w", n, err)
		}
		return fmt.Errorf("no task #%d: there are %d tasks: %w", n, ierr.Len, err)
	}
	return err
}

// lsCommand prints the numbered task list.
func lsCommand(mgr *app.Manager, args []string) error {
	fs := flag.NewFlagSet("todolist ls", flag.ContinueOnError)
	fs.SetOutput(stderr)
	statusFilter := fs.String("status", "", "Filter by status (pending|completed)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	var want todo.Status
	switch strings.ToLower(strings.TrimSpace(*statusFilter)) {
	case "":
	case "pending":
		want = todo.StatusPending
	case "completed", "done":
		want = todo.StatusCompleted
	default:
		return fmt.Errorf("invalid status %q (expected pending|completed)", *statusFilter)
	}

	if err := loadTasks(mgr); err != nil {
		return err
	}
	tasks := mgr.Tasks()
	if len(tasks) == 0 {
		fmt.Fprintln(stdout, "No tasks.")
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Task", "Due Date", "Priority", "Status")
	shown := 0
	for i, task := range tasks {
		if want != "" && task.Status() != want {
			continue
		}
		// Numbers follow list positions even when filtered.
		t.Row(strconv.Itoa(i+1), task.Name, task.DueDate, string(task.Priority), string(task.Status()))
		shown++
	}
	if shown == 0 {
		fmt.Fprintf(stdout, "No %s tasks.\n", strings.ToLower(string(want)))
		return nil
	}
	fmt.Fprintln(stdout, t.Render())
	return nil
}

// exportCommand writes a report of the list.
func exportCommand(mgr *app.Manager, args []string) (err error) {
	fs := flag.NewFlagSet("todolist export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	formatArg := fs.String("format", "csv", "Export format (csv|md|pdf)")
	output := fs.String("o", "", "Output file (default stdout)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	format, err := export.ParseFormat(*formatArg)
	if err != nil {
		return err
	}
	if err := loadTasks(mgr); err != nil {
		return err
	}

	if *output == "" {
		return export.Export(stdout, format, mgr.Tasks())
	}
	f, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := export.Export(f, format, mgr.Tasks()); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Exported %d tasks to %s\n", mgr.Len(), *output)
	return nil
}

// migrateCommand copies the list into another backend.
func migrateCommand(cfg *config.Config, mgr *app.Manager, args []string) error {
	fs := flag.NewFlagSet("todolist migrate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	to := fs.String("to", "", "Target storage (text|json|yaml|sqlite)")
	output := fs.String("o", "", "Target file")
	force := fs.Bool("force", false, "Overwrite an existing target file")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if *to == "" || *output == "" {
		return fmt.Errorf("usage: todolist migrate -to <storage> -o <file>")
	}
	kind, err := storage.ParseKind(*to)
	if err != nil {
		return err
	}
	target, err := filepath.Abs(*output)
	if err != nil {
		return err
	}
	if target == cfg.TaskFile {
		return fmt.Errorf("target %s is the current task file", target)
	}
	if _, err := os.Stat(target); err == nil && !*force {
		return fmt.Errorf("target %s already exists (use -force to overwrite)", target)
	}

	dst, err := storage.Open(kind, target)
	if err != nil {
		return err
	}
	if err := loadTasks(mgr); err != nil {
		return err
	}
	if err := mgr.Migrate(dst); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Migrated %d tasks to %s (%s)\n", mgr.Len(), target, kind)
	fmt.Fprintf(stdout, "Set storage = %q and task_file = %q to use it.\n", string(kind), target)
	return nil
}

// initCommand writes an example config file to the working directory.
func initCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todolist init", flag.ContinueOnError)
	fs.SetOutput(stderr)
	force := fs.Bool("force", false, "Overwrite an existing config file")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	path := filepath.Join(cfg.WorkDir, config.AppName+".toml")
	if _, err := os.Stat(path); err == nil && !*force {
		return fmt.Errorf("%s already exists (use -force to overwrite)", path)
	}
	if err := os.WriteFile(path, []byte(config.ExampleConfig()), 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(stdout, "Wrote %s\n", path)
	return nil
}

// doctorCommand checks config, storage and the task file.
func doctorCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todolist doctor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	fmt.Fprintln(stdout, "Todolist Doctor")
	fmt.Fprintln(stdout, "===============")
	fmt.Fprintln(stdout)

	allOK := true

	fmt.Fprintln(stdout, "Config:")
	if len(cfg.ConfigFiles) == 0 {
		fmt.Fprintln(stdout, "  ⚠️  No config file (using defaults)")
	}
	for _, f := range cfg.ConfigFiles {
		fmt.Fprintf(stdout, "  ✅ Loaded %s\n", f)
	}
	fmt.Fprintf(stdout, "  ✅ Storage: %s\n", cfg.StorageKind())
	fmt.Fprintf(stdout, "  ✅ Default priority: %s\n", cfg.Priority())
	fmt.Fprintf(stdout, "  ✅ Log level: %s\n", cfg.LogLevel)
	fmt.Fprintln(stdout)

	fmt.Fprintf(stdout, "Task file: %s\n", cfg.TaskFile)
	if !checkTaskFile(cfg, *verbose) {
		allOK = false
	}
	fmt.Fprintln(stdout)

	if cfg.LogFile != "" {
		fmt.Fprintf(stdout, "Log file: %s\n", cfg.LogFile)
		if !checkLogFile(cfg.LogFile) {
			allOK = false
		}
		fmt.Fprintln(stdout)
	}

	if allOK {
		fmt.Fprintln(stdout, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(stdout, "⚠️  Some checks failed. Todolist may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}

func checkTaskFile(cfg *config.Config, verbose bool) bool {
	info, err := os.Stat(cfg.TaskFile)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(stdout, "  ⚠️  Not found (will be created on first change)")
			return true
		}
		fmt.Fprintf(stdout, "  ❌ Error: %v\n", err)
		return false
	}
	if info.IsDir() {
		fmt.Fprintln(stdout, "  ❌ Error: path is a directory")
		return false
	}

	backend, err := storage.Open(cfg.StorageKind(), cfg.TaskFile)
	if err != nil {
		fmt.Fprintf(stdout, "  ❌ Error: %v\n", err)
		return false
	}
	tasks, err := backend.Load()
	if err != nil {
		fmt.Fprintf(stdout, "  ❌ Load error: %v\n", err)
		return false
	}
	fmt.Fprintf(stdout, "  ✅ OK (%d tasks)\n", len(tasks))

	if cfg.StorageKind() == storage.KindText {
		skipped, err := countSkippedLines(cfg.TaskFile)
		if err != nil {
			fmt.Fprintf(stdout, "  ❌ Read error: %v\n", err)
			return false
		}
		if skipped > 0 {
			fmt.Fprintf(stdout, "  ⚠️  %d malformed lines are ignored and will be dropped on the next save\n", skipped)
		}
	}
	if verbose {
		for i, t := range tasks {
			fmt.Fprintf(stdout, "    %d. [%s] %s (due %s, %s)\n", i+1, t.Status(), t.Name, t.DueDate, t.Priority)
		}
	}
	return true
}

func countSkippedLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	_, skipped, err := storage.DecodeText(f)
	return skipped, err
}

func checkLogFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(stdout, "  ⚠️  Not found (will be created)")
			return true
		}
		fmt.Fprintf(stdout, "  ❌ Error: %v\n", err)
		return false
	}
	if info.IsDir() {
		fmt.Fprintln(stdout, "  ❌ Error: path is a directory")
		return false
	}
	fmt.Fprintln(stdout, "  ✅ OK")
	return true
}

func versionCommand() error {
	fmt.Fprintf(stdout, "todolist version %s\n", Version)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Todolist - a single-user to-do list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todolist [global options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                          Open the terminal form (default command)")
	fmt.Fprintln(w, "  add [-priority P] NAME DUE   Add a task")
	fmt.Fprintln(w, "  rm N                         Delete task number N")
	fmt.Fprintln(w, "  done N                       Mark task number N completed")
	fmt.Fprintln(w, "  ls [-status S]               List tasks (pending|completed)")
	fmt.Fprintln(w, "  export [-format F] [-o FILE] Export tasks (csv|md|pdf)")
	fmt.Fprintln(w, "  migrate -to KIND -o FILE     Copy tasks to another storage (text|json|yaml|sqlite)")
	fmt.Fprintln(w, "  init                         Write an example todolist.toml")
	fmt.Fprintln(w, "  doctor [-v]                  Check config and task file")
	fmt.Fprintln(w, "  version                      Show version information")
	fmt.Fprintln(w, "  help                         Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Task numbers are the ones shown by 'todolist ls', starting at 1.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}
