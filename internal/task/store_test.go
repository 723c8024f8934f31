package task

import (
	"errors"
	"testing"
	"time"
)

// fixedClock returns a clock that advances one second per call.
func fixedClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		now := t
		t = t.Add(time.Second)
		return now
	}
}

var testEpoch = time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

func TestAdd(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantText string
		wantErr  bool
	}{
		{name: "plain text", text: "buy milk", wantText: "buy milk"},
		{name: "surrounding whitespace trimmed", text: "  buy milk\t", wantText: "buy milk"},
		{name: "empty rejected", text: "", wantErr: true},
		{name: "whitespace only rejected", text: "   \t\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(WithClock(fixedClock(testEpoch)))
			got, err := s.Add(tt.text)
			if tt.wantErr {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("Add(%q) error = %v, want ValidationError", tt.text, err)
				}
				if s.Len() != 0 {
					t.Errorf("store changed after rejected add")
				}
				return
			}
			if err != nil {
				t.Fatalf("Add(%q) error = %v", tt.text, err)
			}
			if got.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", got.Text, tt.wantText)
			}
			if got.ID != 1 {
				t.Errorf("ID = %d, want 1", got.ID)
			}
			if got.Completed {
				t.Errorf("new task starts completed")
			}
			if !got.CreatedAt.Equal(got.UpdatedAt) {
				t.Errorf("CreatedAt %v != UpdatedAt %v on a fresh task", got.CreatedAt, got.UpdatedAt)
			}
		})
	}
}

func TestAddAssignsSequentialIDs(t *testing.T) {
	s := NewStore()
	for i := uint64(1); i <= 5; i++ {
		got, err := s.Add("task")
		if err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		if got.ID != i {
			t.Errorf("ID = %d, want %d", got.ID, i)
		}
	}
}

func TestToggle(t *testing.T) {
	s := NewStore(WithClock(fixedClock(testEpoch)))
	added, _ := s.Add("buy milk")

	toggled, err := s.Toggle(added.ID)
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if !toggled.Completed {
		t.Errorf("Completed = false after first toggle")
	}
	if !toggled.UpdatedAt.After(added.UpdatedAt) {
		t.Errorf("UpdatedAt not advanced: %v -> %v", added.UpdatedAt, toggled.UpdatedAt)
	}

	back, err := s.Toggle(added.ID)
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if back.Completed {
		t.Errorf("Completed = true after second toggle")
	}
}

func TestToggleNotFound(t *testing.T) {
	s := NewStore()
	if _, err := s.Toggle(42); !errors.Is(err, ErrNotFound) {
		t.Errorf("Toggle(42) error = %v, want ErrNotFound", err)
	}
}

func TestEdit(t *testing.T) {
	s := NewStore(WithClock(fixedClock(testEpoch)))
	first, _ := s.Add("first")
	s.Add("second")
	s.Toggle(first.ID)

	edited, err := s.Edit(first.ID, "  renamed  ")
	if err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	if edited.Text != "renamed" {
		t.Errorf("Text = %q, want %q", edited.Text, "renamed")
	}
	if !edited.Completed {
		t.Errorf("Edit cleared the completed flag")
	}

	// Position preserved.
	list := s.List()
	if list[0].ID != first.ID {
		t.Errorf("edited task moved: first id = %d, want %d", list[0].ID, first.ID)
	}
}

func TestEditValidation(t *testing.T) {
	s := NewStore()
	added, _ := s.Add("keep me")

	_, err := s.Edit(added.ID, "   ")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Edit() error = %v, want ValidationError", err)
	}
	if got := s.List()[0].Text; got != "keep me" {
		t.Errorf("task text changed after rejected edit: %q", got)
	}
}

func TestEditNotFoundBeatsValidation(t *testing.T) {
	// A dead id with empty text reports not-found, not validation.
	s := NewStore()
	if _, err := s.Edit(99, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("Edit(99, \"\") error = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	s := NewStore()
	a, _ := s.Add("a")
	b, _ := s.Add("b")
	c, _ := s.Add("c")

	if err := s.Delete(b.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	list := s.List()
	if len(list) != 2 {
		t.Fatalf("Len = %d, want 2", len(list))
	}
	if list[0].ID != a.ID || list[1].ID != c.ID {
		t.Errorf("order after delete = [%d %d], want [%d %d]", list[0].ID, list[1].ID, a.ID, c.ID)
	}

	if err := s.Delete(b.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete error = %v, want ErrNotFound", err)
	}
}

func TestDeletedIDNotReused(t *testing.T) {
	s := NewStore()
	a, _ := s.Add("a")
	s.Delete(a.ID)

	b, _ := s.Add("b")
	if b.ID == a.ID {
		t.Errorf("id %d reused after delete", a.ID)
	}
}

func TestListCopies(t *testing.T) {
	s := NewStore()
	s.Add("original")

	list := s.List()
	list[0].Text = "mutated"

	if got := s.List()[0].Text; got != "original" {
		t.Errorf("List() aliases internal storage: %q", got)
	}
}

func TestRestore(t *testing.T) {
	now := testEpoch
	tasks := []Task{
		{ID: 3, Text: "three", CreatedAt: now, UpdatedAt: now},
		{ID: 7, Text: "seven", Completed: true, CreatedAt: now, UpdatedAt: now},
	}

	s := NewStore()
	if err := s.Restore(tasks, 8); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	if s.NextID() != 8 {
		t.Errorf("NextID = %d, want 8", s.NextID())
	}

	added, _ := s.Add("new")
	if added.ID != 8 {
		t.Errorf("first id after restore = %d, want 8", added.ID)
	}
}

func TestRestoreRaisesCounterAboveMaxID(t *testing.T) {
	// A snapshot whose counter lags its ids must not hand out a live id.
	s := NewStore()
	tasks := []Task{{ID: 10, Text: "ten"}}
	if err := s.Restore(tasks, 2); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if s.NextID() != 11 {
		t.Errorf("NextID = %d, want 11", s.NextID())
	}
}

func TestRestoreRejectsCorruptRecords(t *testing.T) {
	tests := []struct {
		name  string
		tasks []Task
	}{
		{name: "zero id", tasks: []Task{{ID: 0, Text: "bad"}}},
		{name: "duplicate id", tasks: []Task{{ID: 1, Text: "a"}, {ID: 1, Text: "b"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			s.Add("existing")
			if err := s.Restore(tt.tasks, 5); err == nil {
				t.Fatal("Restore() succeeded on corrupt input")
			}
			if s.Len() != 1 {
				t.Errorf("store changed after failed restore: Len = %d", s.Len())
			}
		})
	}
}

func TestTouchNeverPrecedesCreatedAt(t *testing.T) {
	// Clock steps backwards between add and toggle.
	times := []time.Time{testEpoch, testEpoch.Add(-time.Hour)}
	i := 0
	s := NewStore(WithClock(func() time.Time {
		now := times[i%len(times)]
		i++
		return now
	}))

	added, _ := s.Add("task")
	toggled, _ := s.Toggle(added.ID)
	if toggled.UpdatedAt.Before(toggled.CreatedAt) {
		t.Errorf("UpdatedAt %v precedes CreatedAt %v", toggled.UpdatedAt, toggled.CreatedAt)
	}
}
