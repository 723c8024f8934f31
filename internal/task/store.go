package task

import (
	"fmt"
	"strings"
	"time"
)

// Store owns the ordered task list for one process. Insertion order is the
// display order. The store is not safe for concurrent use; the controller
// serializes all access to it.
type Store struct {
	tasks  []Task
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

// Add appends a new incomplete task and returns it. The text is trimmed;
// text that trims to empty is rejected and the store is left unchanged.
func (s *Store) Add(text string) (Task, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Task{}, errEmptyText()
	}
	now := s.now()
	t := Task{
		ID:        s.nextID,
		Text:      trimmed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.nextID++
	s.tasks = append(s.tasks, t)
	return t, nil
}

// Toggle flips the completed flag of the task with the given id.
func (s *Store) Toggle(id uint64) (Task, error) {
	i := s.index(id)
	if i < 0 {
		return Task{}, ErrNotFound
	}
	t := &s.tasks[i]
	t.Completed = !t.Completed
	t.UpdatedAt = s.touch(t.CreatedAt)
	return *t, nil
}

// Edit replaces the text of the task with the given id. Position and the
// completed flag are unaffected.
func (s *Store) Edit(id uint64, text string) (Task, error) {
	i := s.index(id)
	if i < 0 {
		return Task{}, ErrNotFound
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Task{}, errEmptyText()
	}
	t := &s.tasks[i]
	t.Text = trimmed
	t.UpdatedAt = s.touch(t.CreatedAt)
	return *t, nil
}

// Delete removes the task with the given id. The id is never reused: the
// allocation counter only moves forward.
func (s *Store) Delete(id uint64) error {
	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return nil
}

// List returns the tasks in display order. The result is a copy and does not
// alias internal storage.
func (s *Store) List() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of live tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// NextID returns the next id the store would allocate.
func (s *Store) NextID() uint64 {
	return s.nextID
}

// Restore replaces the store contents from a persisted snapshot. Duplicate
// ids mean the snapshot is corrupt; the store is left unchanged in that case.
// The allocation counter is raised above every restored id so deleted ids
// stay retired across restarts.
func (s *Store) Restore(tasks []Task, nextID uint64) error {
	seen := make(map[uint64]struct{}, len(tasks))
	maxID := uint64(0)
	for _, t := range tasks {
		if t.ID == 0 {
			return fmt.Errorf("restore tasks: record with zero id")
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("restore tasks: duplicate id %d", t.ID)
		}
		seen[t.ID] = struct{}{}
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	restored := make([]Task, len(tasks))
	copy(restored, tasks)
	s.tasks = restored
	s.nextID = nextID
	if s.nextID <= maxID {
		s.nextID = maxID + 1
	}
	if s.nextID == 0 {
		s.nextID = 1
	}
	return nil
}

// touch produces an updated_at that never precedes created_at, even if the
// wall clock stepped backwards.
func (s *Store) touch(createdAt time.Time) time.Time {
	now := s.now()
	if now.Before(createdAt) {
		return createdAt
	}
	return now
}

func (s *Store) index(id uint64) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
