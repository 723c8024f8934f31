package note

import (
	"fmt"
	"strings"
	"time"
)

// Store owns the notes board. Like the task store it is single-owner: the
// controller serializes all access.
type Store struct {
	notes  []Note
	nextID uint64
	now    func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock overrides the timestamp source. Used by tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates an empty store. The first allocated id is 1.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		nextID: 1,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add creates a note at the given board position with the default size and an
// empty body. A title that trims to empty is rejected.
func (s *Store) Add(title string, x, y float64) (Note, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return Note{}, errEmptyTitle()
	}
	now := s.now()
	n := Note{
		ID:        s.nextID,
		Title:     trimmed,
		X:         x,
		Y:         y,
		W:         DefaultWidth,
		H:         DefaultHeight,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.nextID++
	s.notes = append(s.notes, n)
	return n, nil
}

// Rename replaces the title of the note with the given id.
func (s *Store) Rename(id uint64, title string) (Note, error) {
	i := s.index(id)
	if i < 0 {
		return Note{}, ErrNotFound
	}
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return Note{}, errEmptyTitle()
	}
	n := &s.notes[i]
	n.Title = trimmed
	n.UpdatedAt = s.touch(n.CreatedAt)
	return *n, nil
}

// SetContent replaces the markdown body. An empty body is allowed.
func (s *Store) SetContent(id uint64, content string) (Note, error) {
	i := s.index(id)
	if i < 0 {
		return Note{}, ErrNotFound
	}
	n := &s.notes[i]
	n.Content = content
	n.UpdatedAt = s.touch(n.CreatedAt)
	return *n, nil
}

// Move places the note at a new board position.
func (s *Store) Move(id uint64, x, y float64) (Note, error) {
	i := s.index(id)
	if i < 0 {
		return Note{}, ErrNotFound
	}
	n := &s.notes[i]
	n.X = x
	n.Y = y
	n.UpdatedAt = s.touch(n.CreatedAt)
	return *n, nil
}

// Resize sets the note size, clamped to the board minimum.
func (s *Store) Resize(id uint64, w, h float64) (Note, error) {
	i := s.index(id)
	if i < 0 {
		return Note{}, ErrNotFound
	}
	if w < MinWidth {
		w = MinWidth
	}
	if h < MinHeight {
		h = MinHeight
	}
	n := &s.notes[i]
	n.W = w
	n.H = h
	n.UpdatedAt = s.touch(n.CreatedAt)
	return *n, nil
}

// Delete removes the note with the given id. Ids are never reused.
func (s *Store) Delete(id uint64) error {
	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	s.notes = append(s.notes[:i], s.notes[i+1:]...)
	return nil
}

// List returns the notes in creation order. The result is a copy.
func (s *Store) List() []Note {
	out := make([]Note, len(s.notes))
	copy(out, s.notes)
	return out
}

// Len returns the number of live notes.
func (s *Store) Len() int {
	return len(s.notes)
}

// NextID returns the next id the store would allocate.
func (s *Store) NextID() uint64 {
	return s.nextID
}

// Restore replaces the store contents from a persisted snapshot. Duplicate
// ids mean the snapshot is corrupt; the store is left unchanged in that case.
func (s *Store) Restore(notes []Note, nextID uint64) error {
	seen := make(map[uint64]struct{}, len(notes))
	maxID := uint64(0)
	for _, n := range notes {
		if n.ID == 0 {
			return fmt.Errorf("restore notes: record with zero id")
		}
		if _, dup := seen[n.ID]; dup {
			return fmt.Errorf("restore notes: duplicate id %d", n.ID)
		}
		seen[n.ID] = struct{}{}
		if n.ID > maxID {
			maxID = n.ID
		}
	}
	restored := make([]Note, len(notes))
	copy(restored, notes)
	s.notes = restored
	s.nextID = nextID
	if s.nextID <= maxID {
		s.nextID = maxID + 1
	}
	if s.nextID == 0 {
		s.nextID = 1
	}
	return nil
}

func (s *Store) touch(createdAt time.Time) time.Time {
	now := s.now()
	if now.Before(createdAt) {
		return createdAt
	}
	return now
}

func (s *Store) index(id uint64) int {
	for i := range s.notes {
		if s.notes[i].ID == id {
			return i
		}
	}
	return -1
}
