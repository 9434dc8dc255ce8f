// Package tui is the interactive terminal front end: a list of todos with
// Edit and Delete actions and a two-field form for creating and editing.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tada-remote/internal/model"
	"github.com/Makepad-fr/tada-remote/internal/todolist"
)

// listItem adapts a rendered entry to bubbles/list.Item. Actions read the
// entry's fields directly, nothing is parsed back out of the label.
type listItem struct{ entry todolist.Entry }

func (i listItem) Title() string       { return i.entry.Title }
func (i listItem) Description() string { return i.entry.Description }
func (i listItem) FilterValue() string { return i.entry.Label() }

// single-line rows: "☐ title - description"
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	box := mutedStyle.Render(boxPending)
	text := it.entry.Label()
	if it.entry.Completed {
		box = successStyle.Render(boxDone)
		text = doneStyle.Render(text)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s", prefix, box, text)
}

type pane int

const (
	paneList pane = iota
	paneForm
)

const (
	fieldTitle = iota
	fieldDescription
	fieldCount
)

// formHeight is the rendered height of the form box.
const formHeight = 6

type listLoadedMsg struct {
	todos []model.Todo
	err   error
}

type mutationDoneMsg struct {
	mutation todolist.Mutation
	err      error
}

// Model is the Bubble Tea model. All session access happens inside Update,
// so the session needs no locking even with requests in flight.
type Model struct {
	ctx     context.Context
	session *todolist.Session
	keys    keyMap

	list   list.Model
	inputs [fieldCount]textinput.Model
	field  int
	pane   pane

	inflight      int
	width, height int
}

// New builds the model around an existing session.
func New(ctx context.Context, s *todolist.Session) Model {
	keys := defaultKeys()

	l := list.New(nil, itemDelegate{}, 80, 20)
	l.Title = "Todos"
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("todo", "todos")
	l.AdditionalShortHelpKeys = keys.listHelp
	l.AdditionalFullHelpKeys = keys.listHelp

	// Init always starts with a load
	m := Model{ctx: ctx, session: s, keys: keys, list: l, inflight: 1}

	placeholders := [fieldCount]string{"Title", "Description"}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 200
		m.inputs[i] = ti
	}
	m.syncInputs()
	return m
}

// Run starts the program in the alternate screen and blocks until the user
// quits or ctx is done.
func Run(ctx context.Context, s *todolist.Session, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(New(ctx, s), opts...).Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd { return m.load() }

func (m Model) load() tea.Cmd {
	ctx, store := m.ctx, m.session.Store()
	return func() tea.Msg {
		todos, err := store.List(ctx)
		return listLoadedMsg{todos: todos, err: err}
	}
}

func (m Model) mutate(mut todolist.Mutation) tea.Cmd {
	ctx, store := m.ctx, m.session.Store()
	return func() tea.Msg {
		return mutationDoneMsg{mutation: mut, err: mut.Do(ctx, store)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case listLoadedMsg:
		m.inflight = max(m.inflight-1, 0)
		m.session.ReplaceEntries(msg.todos, msg.err)
		return m, m.list.SetItems(items(m.session.Entries()))

	case mutationDoneMsg:
		m.inflight = max(m.inflight-1, 0)
		if !m.session.Complete(msg.mutation, msg.err) {
			return m, nil
		}
		m.syncInputs()
		m.inflight++
		return m, m.load()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.pane == paneForm {
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)
	m.inputs[m.field], cmd = m.inputs[m.field].Update(msg)
	cmds = append(cmds, cmd)
	if m.pane == paneForm {
		m.storeForm()
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Edit):
		it, ok := m.list.SelectedItem().(listItem)
		if !ok {
			return m, nil
		}
		m.session.BeginEdit(it.entry.ID, it.entry.Title, it.entry.Description)
		m.syncInputs()
		return m, m.focusForm(fieldTitle)

	case key.Matches(msg, m.keys.Delete):
		it, ok := m.list.SelectedItem().(listItem)
		if !ok {
			return m, nil
		}
		m.inflight++
		return m, m.mutate(m.session.PrepareDelete(it.entry.ID))

	case key.Matches(msg, m.keys.Add):
		return m, m.focusForm(m.field)

	case key.Matches(msg, m.keys.Reload):
		m.inflight++
		return m, m.load()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		m.storeForm()
		m.inflight++
		return m, m.mutate(m.session.PrepareSubmit())

	case key.Matches(msg, m.keys.Back):
		m.pane = paneList
		for i := range m.inputs {
			m.inputs[i].Blur()
		}
		return m, nil

	case key.Matches(msg, m.keys.Next):
		return m, m.focusForm((m.field + 1) % fieldCount)

	case key.Matches(msg, m.keys.Prev):
		return m, m.focusForm((m.field + fieldCount - 1) % fieldCount)
	}

	var cmd tea.Cmd
	m.inputs[m.field], cmd = m.inputs[m.field].Update(msg)
	m.storeForm()
	return m, cmd
}

// storeForm copies what the inputs show into the session. Inputs also change
// through non-key messages such as paste results.
func (m *Model) storeForm() {
	m.session.SetForm(m.inputs[fieldTitle].Value(), m.inputs[fieldDescription].Value())
}

func (m *Model) focusForm(field int) tea.Cmd {
	m.pane = paneForm
	m.field = field
	for i := range m.inputs {
		if i != field {
			m.inputs[i].Blur()
		}
	}
	return m.inputs[field].Focus()
}

// syncInputs copies the session's form into the text inputs.
func (m *Model) syncInputs() {
	f := m.session.Form()
	for i, v := range [fieldCount]string{f.Title, f.Description} {
		m.inputs[i].SetValue(v)
		m.inputs[i].CursorEnd()
	}
}

func (m *Model) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	// frame border + padding take 4 columns and 2 rows
	m.list.SetSize(m.width-4, max(m.height-formHeight-2, 3))
	for i := range m.inputs {
		m.inputs[i].Width = max(m.width-12, 10)
	}
}

func items(entries []todolist.Entry) []list.Item {
	out := make([]list.Item, 0, len(entries))
	for _, e := range entries {
		out = append(out, listItem{entry: e})
	}
	return out
}

func (m Model) View() string {
	m.list.Title = m.header()
	return frameStyle.Render(lipgloss.JoinVertical(lipgloss.Left, m.list.View(), m.formView()))
}

func (m Model) header() string {
	var done, pending int
	for _, e := range m.session.Entries() {
		if e.Completed {
			done++
		} else {
			pending++
		}
	}
	h := fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		"Todos",
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), pending,
		accentStyle.Render("Total"), done+pending,
	)
	if m.inflight > 0 {
		h += mutedStyle.Render("  syncing…")
	}
	return h
}

func (m Model) formView() string {
	heading := "New todo"
	if id, ok := m.session.EditingID(); ok {
		heading = fmt.Sprintf("Editing #%s", id)
	}
	var hints []string
	for _, b := range m.keys.formHelp() {
		h := b.Help()
		hints = append(hints, h.Key+" "+h.Desc)
	}
	body := strings.Join([]string{
		titleStyle.Render(heading),
		m.inputs[fieldTitle].View(),
		m.inputs[fieldDescription].View(),
		helpStyle.Render(strings.Join(hints, " • ")),
	}, "\n")

	style := formStyle
	if m.pane == paneForm {
		style = activeFormStyle
	}
	if m.width > 0 {
		style = style.Width(m.width - 6)
	}
	return style.Render(body)
}
