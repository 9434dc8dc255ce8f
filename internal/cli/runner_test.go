package cli

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada-remote/internal/config"
	"github.com/Makepad-fr/tada-remote/internal/model"
	"github.com/Makepad-fr/tada-remote/internal/todotest"
	"github.com/Makepad-fr/tada-remote/internal/ui"
)

type env struct {
	srv    *todotest.Server
	opt    Options
	out    *bytes.Buffer
	errOut *bytes.Buffer
	logs   *bytes.Buffer
}

func setup(t *testing.T, seed ...model.Todo) *env {
	t.Helper()
	e := &env{
		srv:    todotest.New(t, seed...),
		out:    &bytes.Buffer{},
		errOut: &bytes.Buffer{},
		logs:   &bytes.Buffer{},
	}
	prevOut, prevErr := ui.Stdout(), ui.Stderr()
	ui.SetOutput(e.out, e.errOut)
	t.Cleanup(func() { ui.SetOutput(prevOut, prevErr) })

	e.opt = Options{
		Config: &config.Config{
			Server: e.srv.URL,
			Theme:  "mono",
			Color:  "never",
			Log:    config.LogConfig{Level: "info", Format: "text"},
		},
		Logger: log.New(e.logs),
	}
	return e
}

func (e *env) run(args ...string) int {
	return Run(context.Background(), args, e.opt)
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no args", nil},
		{"unknown", []string{"frobnicate"}},
		{"add without title", []string{"add"}},
		{"rm without id", []string{"rm"}},
		{"rm bad id", []string{"rm", "abc"}},
		{"edit bad id", []string{"edit", "x"}},
		{"edit two ids", []string{"edit", "1", "2"}},
		{"show no id", []string{"show"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := setup(t)
			if code := e.run(tt.args...); code != 2 {
				t.Errorf("exit = %d, want 2", code)
			}
			if calls := e.srv.Calls(); len(calls) != 0 {
				t.Errorf("usage error still hit the server: %+v", calls)
			}
		})
	}
}

func TestHelp(t *testing.T) {
	e := setup(t)
	if code := e.run("help"); code != 0 {
		t.Errorf("exit = %d", code)
	}
	if !strings.Contains(e.out.String(), "Subcommands:") {
		t.Errorf("help output = %q", e.out.String())
	}
}

func TestList(t *testing.T) {
	e := setup(t,
		model.Todo{ID: 1, Title: "A", Description: "a"},
		model.Todo{ID: 2, Title: "B", Description: "b", Completed: true},
	)
	if code := e.run("ls"); code != 0 {
		t.Fatalf("exit = %d, logs %q", code, e.logs.String())
	}
	out := e.out.String()
	for _, want := range []string{"A - a", "B - b", "[x]", "[ ]", "Total 2", " 50%"} {
		if !strings.Contains(out, want) {
			t.Errorf("ls output missing %q:\n%s", want, out)
		}
	}
}

func TestListGrouped(t *testing.T) {
	e := setup(t,
		model.Todo{ID: 1, Title: "A", Description: "a"},
		model.Todo{ID: 2, Title: "B", Description: "b", Completed: true},
	)
	e.opt.Config.Group = true
	if code := e.run("ls"); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	out := e.out.String()
	pending, done := strings.Index(out, "Pending"), strings.Index(out, "Done")
	if pending < 0 || done < 0 || pending > strings.Index(out, "A - a") || done > strings.Index(out, "B - b") {
		t.Errorf("grouping wrong:\n%s", out)
	}
}

func TestListFailure(t *testing.T) {
	e := setup(t)
	e.srv.FailNext(http.MethodGet, http.StatusInternalServerError)
	if code := e.run("ls"); code != 1 {
		t.Errorf("exit = %d, want 1", code)
	}
	if !strings.Contains(e.logs.String(), "Error fetching todos") {
		t.Errorf("logs = %q", e.logs.String())
	}
	if e.out.Len() != 0 {
		t.Errorf("printed a list after failure: %q", e.out.String())
	}
}

func TestAdd(t *testing.T) {
	e := setup(t)
	if code := e.run("add", "-d", "2 litres", "Buy", "milk"); code != 0 {
		t.Fatalf("exit = %d, logs %q", code, e.logs.String())
	}
	todos := e.srv.Todos()
	if len(todos) != 1 || todos[0].Title != "Buy milk" || todos[0].Description != "2 litres" || todos[0].Completed {
		t.Errorf("server has %+v", todos)
	}
}

func TestEditKeepsUnsetFields(t *testing.T) {
	e := setup(t, model.Todo{ID: 1, Title: "A", Description: "a"})
	if code := e.run("edit", "-d", "a2", "1"); code != 0 {
		t.Fatalf("exit = %d, logs %q", code, e.logs.String())
	}
	call, _ := e.srv.LastCall()
	if call.Method != http.MethodPut || call.Path != "/todos/1" {
		t.Errorf("request = %s %s", call.Method, call.Path)
	}
	if call.Body != (model.Draft{Title: "A", Description: "a2"}) {
		t.Errorf("body = %+v", call.Body)
	}
}

func TestEditUnknownID(t *testing.T) {
	e := setup(t, model.Todo{ID: 1, Title: "A", Description: "a"})
	if code := e.run("edit", "-title", "Z", "9"); code != 2 {
		t.Errorf("exit = %d, want 2", code)
	}
	if _, ok := e.srv.LastCall(); ok {
		t.Error("sent an update for an id that is not listed")
	}
}

func TestRemove(t *testing.T) {
	e := setup(t, model.Todo{ID: 1, Title: "A", Description: "a"})
	if code := e.run("rm", "1"); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	if len(e.srv.Todos()) != 0 {
		t.Error("record not deleted")
	}

	e.srv.FailNext(http.MethodDelete, http.StatusInternalServerError)
	if code := e.run("rm", "1"); code != 1 {
		t.Errorf("exit = %d, want 1", code)
	}
	if !strings.Contains(e.logs.String(), "Error deleting todo") {
		t.Errorf("logs = %q", e.logs.String())
	}
}

func TestShow(t *testing.T) {
	e := setup(t, model.Todo{ID: 4, Title: "Four", Description: "desc", Completed: true})
	if code := e.run("show", "4"); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	if out := e.out.String(); !strings.Contains(out, "#4 Four") || !strings.Contains(out, "done") {
		t.Errorf("show output = %q", out)
	}
	if code := e.run("show", "5"); code != 1 {
		t.Errorf("missing id: exit = %d, want 1", code)
	}
}

func TestPing(t *testing.T) {
	e := setup(t)
	if code := e.run("ping"); code != 0 {
		t.Errorf("exit = %d", code)
	}
	e.srv.Close()
	if code := e.run("ping"); code != 1 {
		t.Errorf("exit after close = %d, want 1", code)
	}
}
