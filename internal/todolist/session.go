// Package todolist holds the client-side state of the todo list: which
// record is being edited, what is typed in the form, and the entries last
// rendered from the server.
//
// A Session is driven from a single event loop and is not safe for
// concurrent use. Requests are split in two halves so the loop can keep
// handling input while they are in flight: Prepare* captures the request from
// the current state, and Complete/ReplaceEntries apply the outcome once it
// arrives. Any number of requests may overlap; whichever load finishes last
// decides what is shown.
package todolist

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada-remote/internal/model"
)

// Store is the remote collection.
type Store interface {
	List(ctx context.Context) ([]model.Todo, error)
	Create(ctx context.Context, d model.Draft) error
	Update(ctx context.Context, id model.ID, d model.Draft) error
	Delete(ctx context.Context, id model.ID) error
}

// Entry is one rendered row.
type Entry struct {
	ID          model.ID
	Title       string
	Description string
	Completed   bool
}

// Label is the text shown for the entry.
func (e Entry) Label() string { return e.Title + " - " + e.Description }

// Form is the content of the title/description inputs.
type Form struct {
	Title       string
	Description string
}

// Session is the single owned client state.
type Session struct {
	store Store
	log   *log.Logger

	editingID model.ID
	editing   bool
	form      Form
	entries   []Entry
}

// New returns a session with nothing loaded and nothing being edited.
func New(store Store, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}
	return &Session{store: store, log: logger}
}

// Store returns the collection the session talks to.
func (s *Session) Store() Store { return s.store }

// Entries returns a copy of what is currently rendered.
func (s *Session) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

// Entry looks up a rendered entry by id.
func (s *Session) Entry(id model.ID) (Entry, bool) {
	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Form returns the current form content.
func (s *Session) Form() Form { return s.form }

// SetForm records what the user has typed.
func (s *Session) SetForm(title, description string) {
	s.form = Form{Title: title, Description: description}
}

// EditingID reports the record loaded into the form, if any.
func (s *Session) EditingID() (model.ID, bool) { return s.editingID, s.editing }

// BeginEdit loads a rendered entry into the form. Whatever was typed before is
// overwritten, and any earlier edit is abandoned.
func (s *Session) BeginEdit(id model.ID, title, description string) {
	s.editingID, s.editing = id, true
	s.form = Form{Title: title, Description: description}
	s.log.Debug("begin edit", "id", id)
}

// Reset leaves edit mode and empties the form.
func (s *Session) Reset() {
	s.editingID, s.editing = 0, false
	s.form = Form{}
}

// ReplaceEntries applies a finished load. On error the previous entries stay
// on screen and the failure only goes to the log.
func (s *Session) ReplaceEntries(todos []model.Todo, err error) {
	if err != nil {
		s.log.Error("Error fetching todos", "err", err)
		return
	}
	entries := make([]Entry, 0, len(todos))
	for _, t := range todos {
		entries = append(entries, Entry{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Completed:   t.Completed,
		})
	}
	s.entries = entries
	s.log.Debug("rendered todos", "count", len(entries))
}

// PrepareSubmit turns the form into a create, or an update of the record
// being edited. The form is sent as typed.
func (s *Session) PrepareSubmit() Mutation {
	d := model.NewDraft(s.form.Title, s.form.Description)
	if s.editing {
		return Mutation{Op: OpUpdate, ID: s.editingID, Draft: d}
	}
	return Mutation{Op: OpCreate, Draft: d}
}

// PrepareDelete builds the delete for id. There is no confirmation step.
func (s *Session) PrepareDelete(id model.ID) Mutation {
	return Mutation{Op: OpDelete, ID: id}
}

// Complete applies the outcome of m and reports whether the list should be
// reloaded. A successful create or update also resets the form; failures
// change nothing and are only logged.
func (s *Session) Complete(m Mutation, err error) bool {
	if err != nil {
		s.log.Error(m.failureMessage(), "id", m.ID, "err", err)
		return false
	}
	s.log.Debug("request acknowledged", "op", m.Op, "id", m.ID)
	if m.Op == OpCreate || m.Op == OpUpdate {
		s.Reset()
	}
	return true
}

// Load fetches the collection and re-renders it.
func (s *Session) Load(ctx context.Context) error {
	todos, err := s.store.List(ctx)
	s.ReplaceEntries(todos, err)
	return err
}

// Submit sends the form and, on success, reloads the list and resets the form.
func (s *Session) Submit(ctx context.Context) error {
	return s.run(ctx, s.PrepareSubmit())
}

// Delete removes id and, on success, reloads the list.
func (s *Session) Delete(ctx context.Context, id model.ID) error {
	return s.run(ctx, s.PrepareDelete(id))
}

func (s *Session) run(ctx context.Context, m Mutation) error {
	err := m.Do(ctx, s.store)
	if !s.Complete(m, err) {
		return err
	}
	// a failed reload is logged by Load; the mutation itself went through
	_ = s.Load(ctx)
	return nil
}

// Op is the kind of change a Mutation makes.
type Op int

const (
	OpCreate Op = iota // POST a new record
	OpUpdate           // PUT the record being edited
	OpDelete           // DELETE a record by id
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Mutation is a prepared request against the collection.
type Mutation struct {
	Op    Op
	ID    model.ID // unused for OpCreate
	Draft model.Draft
}

// Do performs the request exactly once.
func (m Mutation) Do(ctx context.Context, store Store) error {
	switch m.Op {
	case OpCreate:
		return store.Create(ctx, m.Draft)
	case OpUpdate:
		return store.Update(ctx, m.ID, m.Draft)
	case OpDelete:
		return store.Delete(ctx, m.ID)
	}
	return fmt.Errorf("unknown mutation %v", m.Op)
}

func (m Mutation) failureMessage() string {
	switch m.Op {
	case OpCreate:
		return "Error adding todo"
	case OpUpdate:
		return "Error updating todo"
	default:
		return "Error deleting todo"
	}
}
