package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada-remote/internal/api"
	"github.com/Makepad-fr/tada-remote/internal/config"
	"github.com/Makepad-fr/tada-remote/internal/logging"
	"github.com/Makepad-fr/tada-remote/internal/model"
	"github.com/Makepad-fr/tada-remote/internal/todolist"
	"github.com/Makepad-fr/tada-remote/internal/tui"
	"github.com/Makepad-fr/tada-remote/internal/ui"
)

// Options carries what the root command resolved.
type Options struct {
	Config *config.Config

	// Logger overrides the diagnostic logger built from Config.
	Logger *log.Logger
	// Stderr is where diagnostics go when no log file is configured.
	Stderr io.Writer
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 request
// failure, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0
	case "ls", "add", "edit", "rm", "show", "ping", "tui":
	default:
		ui.Fail("unknown subcommand: " + cmd)
		PrintHelp()
		return 2
	}

	cfg := opt.Config
	if cfg == nil {
		ui.Fail("no configuration")
		return 1
	}
	ui.SetTheme(cfg.Theme)
	ui.SetColorMode(ui.ParseColorMode(cfg.Color))

	logger, closeLog, err := diagnostics(cmd == "tui", opt)
	if err != nil {
		ui.Fail("log: " + err.Error())
		return 1
	}
	defer closeLog()

	client, err := api.New(cfg.Server)
	if err != nil {
		ui.Fail(err.Error())
		return 2
	}
	logger.Debug("using server", "url", client.BaseURL(), "config", cfg.Files)
	s := todolist.New(client, logger)

	switch cmd {
	case "ls":
		return doList(ctx, s, cfg.Group)
	case "add":
		return doAdd(ctx, s, a)
	case "edit":
		return doEdit(ctx, s, a)
	case "rm":
		return doRemove(ctx, s, a)
	case "show":
		return doShow(ctx, client, logger, a)
	case "ping":
		return doPing(ctx, client, logger)
	default:
		if err := tui.Run(ctx, s); err != nil {
			ui.Fail("tui: " + err.Error())
			return 1
		}
		return 0
	}
}

// diagnostics builds the log sink. The TUI owns the terminal, so it always
// logs to a file.
func diagnostics(interactive bool, opt Options) (*log.Logger, func(), error) {
	if opt.Logger != nil {
		return opt.Logger, func() {}, nil
	}
	cfg := opt.Config
	path := cfg.Log.File
	if path == "" && interactive {
		path = logging.DefaultFile()
	}
	if path == "" {
		w := opt.Stderr
		if w == nil {
			w = ui.Stderr()
		}
		return logging.New(w, cfg.LoggingOptions()), func() {}, nil
	}
	logger, c, err := logging.Open(path, cfg.LoggingOptions())
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { c.Close() }, nil
}

func PrintHelp() {
	fmt.Fprint(ui.Stdout(), `todo - a client for a remote todo list

Usage:
  todo [flags] <subcommand> [args]

Subcommands:
  ls                              List todos
  show <id>                       Show one todo
  add [-d description] <title...> Add a todo
  edit [-title T] [-d D] <id>     Edit a todo; unset fields keep their value
  rm <id>                         Delete a todo
  tui                             Interactive list and form
  ping                            Check the server is up

Flags:
  -server URL      todo server (default `+config.DefaultServer+`, env TADA_SERVER)
  -config FILE     TOML config file (default: tada.toml, ~/.config/tada/config.toml)
  -theme NAME      classic, neon, mono
  -color WHEN      auto, always, never
  -group           group ls output by pending/done
  -log-level L     debug, info, warn, error
  -log-format F    text, json, logfmt
  -log-file FILE   write diagnostics to FILE

Examples:
  todo add -d "2 litres" Buy milk
  todo ls
  todo edit -d "semi-skimmed" 2
  todo rm 3
`)
}

// -------------- subcommand impls ----------------

func doList(ctx context.Context, s *todolist.Session, group bool) int {
	if err := s.Load(ctx); err != nil {
		return 1
	}
	entries := s.Entries()

	d, p := stats(entries)
	t := ui.Current()
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(t.Title, "Todos"),
		ui.C(t.Success, t.SymDone), d,
		ui.C(t.Pending, t.SymPending), p,
		ui.C(t.Accent, "Total"), len(entries),
	)

	lines := []string{header, ui.C(t.Muted, ui.ProgressBar(d, d+p, 28)), ""}
	if group {
		lines = append(lines, groupLines(entries)...)
	} else {
		lines = append(lines, flatLines(entries)...)
	}
	lines = append(lines, "", ui.C(t.Muted, "Tip: add with `todo add -d \"2 litres\" Buy milk`"))
	ui.Panel(lines)
	return 0
}

func doAdd(ctx context.Context, s *todolist.Session, args []string) int {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	desc := fs.String("d", "", "description")
	if err := fs.Parse(args); err != nil || fs.NArg() == 0 {
		ui.Fail("usage: todo add [-d description] <title...>")
		return 2
	}

	s.SetForm(strings.Join(fs.Args(), " "), *desc)
	if err := s.Submit(ctx); err != nil {
		return 1
	}
	ui.OK("added")
	return 0
}

func doEdit(ctx context.Context, s *todolist.Session, args []string) int {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	title := fs.String("title", "", "new title")
	desc := fs.String("d", "", "new description")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		ui.Fail("usage: todo edit [-title T] [-d D] <id>")
		return 2
	}
	id, code := parseID("edit", fs.Arg(0))
	if code != 0 {
		return code
	}

	if err := s.Load(ctx); err != nil {
		return 1
	}
	e, ok := s.Entry(id)
	if !ok {
		ui.Fail("edit: no todo with id " + id.String())
		ui.Hint("Hint: run `todo ls` to see valid ids")
		return 2
	}

	s.BeginEdit(e.ID, e.Title, e.Description)
	f := s.Form()
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "title":
			f.Title = *title
		case "d":
			f.Description = *desc
		}
	})
	s.SetForm(f.Title, f.Description)

	if err := s.Submit(ctx); err != nil {
		return 1
	}
	ui.OK("updated")
	return 0
}

func doRemove(ctx context.Context, s *todolist.Session, args []string) int {
	if len(args) != 1 {
		ui.Fail("usage: todo rm <id>")
		return 2
	}
	id, code := parseID("rm", args[0])
	if code != 0 {
		return code
	}
	if err := s.Delete(ctx, id); err != nil {
		return 1
	}
	ui.OK("removed")
	return 0
}

func doShow(ctx context.Context, c *api.Client, logger *log.Logger, args []string) int {
	if len(args) != 1 {
		ui.Fail("usage: todo show <id>")
		return 2
	}
	id, code := parseID("show", args[0])
	if code != 0 {
		return code
	}
	td, err := c.Get(ctx, id)
	if err != nil {
		logger.Error("Error fetching todo", "id", id, "err", err)
		return 1
	}

	t := ui.Current()
	status := ui.C(t.Pending, "pending")
	if td.Completed {
		status = ui.C(t.Success, "done")
	}
	ui.Panel([]string{
		ui.C(t.Title, fmt.Sprintf("#%s %s", td.ID, td.Title)),
		td.Description,
		"",
		ui.C(t.Muted, "status: ") + status,
	})
	return 0
}

func doPing(ctx context.Context, c *api.Client, logger *log.Logger) int {
	if err := c.Health(ctx); err != nil {
		logger.Error("server not healthy", "url", c.BaseURL(), "err", err)
		return 1
	}
	ui.OK(c.BaseURL() + " is up")
	return 0
}

func parseID(cmd, s string) (model.ID, int) {
	id, err := model.ParseID(s)
	if err != nil {
		ui.Fail(cmd + ": not an id: " + s)
		return 0, 2
	}
	return id, 0
}

// -------------- rendering helpers --------------

func stats(entries []todolist.Entry) (done, pending int) {
	for _, e := range entries {
		if e.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}

func flatLines(entries []todolist.Entry) []string {
	t := ui.Current()
	if len(entries) == 0 {
		return []string{ui.C(t.Muted, "no todos")}
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		box, color := t.BoxPending, t.Muted
		if e.Completed {
			box, color = t.BoxDone, t.Success
		}
		label := e.Label()
		if r := []rune(label); len(r) > 80 {
			label = string(r[:77]) + "..."
		}
		out = append(out, fmt.Sprintf("%s %s %s",
			ui.C(t.Muted, fmt.Sprintf("#%-3s", e.ID)), ui.C(color, box), label))
	}
	return out
}

func groupLines(entries []todolist.Entry) []string {
	var pend, done []todolist.Entry
	for _, e := range entries {
		if e.Completed {
			done = append(done, e)
		} else {
			pend = append(pend, e)
		}
	}
	t := ui.Current()
	section := func(name string, es []todolist.Entry) []string {
		lines := []string{ui.C(t.Accent, name)}
		if len(es) == 0 {
			return append(lines, ui.C(t.Muted, "(none)"))
		}
		return append(lines, flatLines(es)...)
	}
	lines := section("Pending", pend)
	lines = append(lines, "")
	return append(lines, section("Done", done)...)
}
