// Package app drives the task manager core: a single-threaded state machine
// that turns decoded UI events into store mutations, scheduled saves, and
// render snapshots.
package app

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"taskpad/internal/note"
	"taskpad/internal/snapshot"
	"taskpad/internal/task"
)

// State is the controller lifecycle phase.
type State int

const (
	// StateLoading is the initial phase, before the snapshot is read.
	StateLoading State = iota
	// StateReady accepts events.
	StateReady
	// StateShuttingDown is terminal; no further events are accepted.
	StateShuttingDown
)

// Persister loads and saves durable snapshots.
type Persister interface {
	Load() (*snapshot.Snapshot, error)
	Save(*snapshot.Snapshot) error
}

// Notices surfaced to the renderer.
const (
	noticeEmptyText  = "Task text cannot be empty."
	noticeEmptyTitle = "Note title cannot be empty."
	noticeLoadFailed = "Saved data could not be read; starting with an empty list."
	noticeSaveFailed = "Saving failed; recent changes may be lost."
)

// Controller owns the stores for the process lifetime. It is constructed
// around a persistence adapter, so tests can run any number of instances
// against their own backing files.
//
// Events are processed one at a time: the internal mutex marshals callers
// from an asynchronous renderer into a single logical queue, so a render
// snapshot never observes a half-applied mutation.
type Controller struct {
	mu      sync.Mutex
	state   State
	tasks   *task.Store
	notes   *note.Store
	persist Persister
	saver   *saver
	logger  *log.Logger

	debounce    time.Duration
	transient   string // shown in exactly one render model
	loadWarning string // set when startup fell back to an empty store
	shutdownErr error
}

// Option configures a Controller.
type Option func(*Controller)

// WithDebounce batches saves within the given window. Zero (the default)
// saves after every committed mutation.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		c.debounce = d
	}
}

// WithClock overrides the timestamp source of both stores. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.tasks = task.NewStore(task.WithClock(now))
		c.notes = note.NewStore(note.WithClock(now))
	}
}

// New creates a controller in the Loading state.
func New(persist Persister, logger *log.Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	c := &Controller{
		state:   StateLoading,
		tasks:   task.NewStore(),
		notes:   note.NewStore(),
		persist: persist,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current lifecycle phase.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Init loads the persisted snapshot and transitions to Ready. A missing file
// is a first run. A corrupt or unreadable snapshot never blocks startup: the
// controller starts empty and surfaces a warning instead. Calling Init again
// is a no-op that returns the current render model.
func (c *Controller) Init() RenderModel {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateLoading {
		return c.renderLocked()
	}

	snap, err := c.persist.Load()
	if err != nil {
		c.logger.Warn("loading saved data failed, starting empty", "err", err)
		c.loadWarning = noticeLoadFailed
		snap = snapshot.Empty()
	}
	if err := c.restoreLocked(snap); err != nil {
		c.logger.Warn("saved data is inconsistent, starting empty", "err", err)
		c.loadWarning = noticeLoadFailed
		c.restoreLocked(snapshot.Empty())
	}

	c.saver = newSaver(c.persist, c.debounce, c.logger)
	c.state = StateReady
	return c.renderLocked()
}

// HandleEvent processes one UI event and returns the resulting render model.
// Events arriving outside Ready are ignored.
func (c *Controller) HandleEvent(ev Event) RenderModel {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return c.renderLocked()
	}

	mutated := false
	switch ev := ev.(type) {
	case AddItem:
		_, err := c.tasks.Add(ev.Text)
		mutated = c.reportLocked("add item", err, noticeEmptyText)
	case ToggleItem:
		_, err := c.tasks.Toggle(ev.ID)
		mutated = c.reportLocked("toggle item", err, "")
	case EditItem:
		_, err := c.tasks.Edit(ev.ID, ev.Text)
		mutated = c.reportLocked("edit item", err, noticeEmptyText)
	case DeleteItem:
		err := c.tasks.Delete(ev.ID)
		mutated = c.reportLocked("delete item", err, "")
	case AddNote:
		_, err := c.notes.Add(ev.Title, ev.X, ev.Y)
		mutated = c.reportLocked("add note", err, noticeEmptyTitle)
	case RenameNote:
		_, err := c.notes.Rename(ev.ID, ev.Title)
		mutated = c.reportLocked("rename note", err, noticeEmptyTitle)
	case EditNote:
		_, err := c.notes.SetContent(ev.ID, ev.Content)
		mutated = c.reportLocked("edit note", err, "")
	case MoveNote:
		_, err := c.notes.Move(ev.ID, ev.X, ev.Y)
		mutated = c.reportLocked("move note", err, "")
	case ResizeNote:
		_, err := c.notes.Resize(ev.ID, ev.W, ev.H)
		mutated = c.reportLocked("resize note", err, "")
	case DeleteNote:
		err := c.notes.Delete(ev.ID)
		mutated = c.reportLocked("delete note", err, "")
	case Quit:
		c.shutdownLocked()
		return c.renderLocked()
	}

	if mutated {
		c.saver.Request(c.snapshotLocked())
	}
	return c.renderLocked()
}

// Shutdown flushes any pending save synchronously and ends the session. It
// is idempotent and reports the final save outcome.
func (c *Controller) Shutdown() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shutdownLocked()
}

// reportLocked translates a store error into the controller's recovery
// policy: validation failures become a transient notice, references to dead
// ids are logged no-ops. Returns true when the store actually changed.
func (c *Controller) reportLocked(op string, err error, emptyNotice string) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, task.ErrNotFound) || errors.Is(err, note.ErrNotFound) {
		c.logger.Debug("event referenced a missing record, ignoring", "op", op, "err", err)
		return false
	}
	c.logger.Debug("event rejected", "op", op, "err", err)
	if emptyNotice != "" {
		c.transient = emptyNotice
	}
	return false
}

func (c *Controller) shutdownLocked() error {
	if c.state == StateShuttingDown {
		return c.shutdownErr
	}
	c.state = StateShuttingDown
	if c.saver != nil {
		c.shutdownErr = c.saver.Close()
	}
	return c.shutdownErr
}

func (c *Controller) restoreLocked(snap *snapshot.Snapshot) error {
	if err := c.tasks.Restore(snap.Tasks, snap.NextTaskID); err != nil {
		return err
	}
	if err := c.notes.Restore(snap.Notes, snap.NextNoteID); err != nil {
		// Roll tasks back so a half-bad snapshot doesn't restore halfway.
		c.tasks.Restore(nil, 1)
		return err
	}
	return nil
}

func (c *Controller) snapshotLocked() *snapshot.Snapshot {
	return &snapshot.Snapshot{
		SchemaVersion: snapshot.SchemaVersion,
		NextTaskID:    c.tasks.NextID(),
		NextNoteID:    c.notes.NextID(),
		Tasks:         c.tasks.List(),
		Notes:         c.notes.List(),
	}
}

// renderLocked builds a fresh render model and consumes the transient
// notice. Sticky notices outrank nothing but are outranked by a transient
// one, which reflects the immediately preceding input.
func (c *Controller) renderLocked() RenderModel {
	m := RenderModel{}

	tasks := c.tasks.List()
	m.Items = make([]ItemView, len(tasks))
	for i, t := range tasks {
		m.Items[i] = ItemView{ID: t.ID, Text: t.Text, Completed: t.Completed}
	}

	notes := c.notes.List()
	m.Notes = make([]NoteView, len(notes))
	for i, n := range notes {
		m.Notes[i] = NoteView{ID: n.ID, Title: n.Title, Content: n.Content, X: n.X, Y: n.Y, W: n.W, H: n.H}
	}

	switch {
	case c.transient != "":
		m.Notice = c.transient
		c.transient = ""
	case c.saver != nil && c.saver.Err() != nil:
		m.Notice = noticeSaveFailed
		m.Sticky = true
	case c.loadWarning != "":
		m.Notice = c.loadWarning
		m.Sticky = true
	}

	return m
}
