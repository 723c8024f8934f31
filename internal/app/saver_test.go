package app

import (
	"errors"
	"sync"
	"testing"
	"time"

	"taskpad/internal/snapshot"
)

// recordingPersister captures every saved snapshot and can be told to fail.
type recordingPersister struct {
	mu       sync.Mutex
	saves    []*snapshot.Snapshot
	failNext int
	saved    chan struct{}
}

func newRecordingPersister() *recordingPersister {
	return &recordingPersister{saved: make(chan struct{}, 16)}
}

func (p *recordingPersister) Load() (*snapshot.Snapshot, error) {
	return snapshot.Empty(), nil
}

func (p *recordingPersister) Save(s *snapshot.Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failNext > 0 {
		p.failNext--
		return errors.New("simulated save failure")
	}
	p.saves = append(p.saves, s)
	select {
	case p.saved <- struct{}{}:
	default:
	}
	return nil
}

func (p *recordingPersister) saveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.saves)
}

func (p *recordingPersister) lastSave() *snapshot.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.saves) == 0 {
		return nil
	}
	return p.saves[len(p.saves)-1]
}

func (p *recordingPersister) setFailNext(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failNext = n
}

// A long debounce keeps the worker parked so Close performs the only save.
const parkedDebounce = time.Hour

func TestSaverCoalescesRequests(t *testing.T) {
	p := newRecordingPersister()
	s := newSaver(p, parkedDebounce, nil)

	first := snapshot.Empty()
	second := snapshot.Empty()
	second.NextTaskID = 42

	s.Request(first)
	s.Request(second)

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if got := p.saveCount(); got != 1 {
		t.Fatalf("saves = %d, want 1", got)
	}
	if p.lastSave().NextTaskID != 42 {
		t.Errorf("stale snapshot written, NextTaskID = %d", p.lastSave().NextTaskID)
	}
}

func TestSaverCloseWithoutPending(t *testing.T) {
	p := newRecordingPersister()
	s := newSaver(p, 0, nil)

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if got := p.saveCount(); got != 0 {
		t.Errorf("saves = %d, want 0", got)
	}
}

func TestSaverSavesInBackground(t *testing.T) {
	p := newRecordingPersister()
	s := newSaver(p, 0, nil)
	defer s.Close()

	s.Request(snapshot.Empty())

	select {
	case <-p.saved:
	case <-time.After(5 * time.Second):
		t.Fatal("background save never happened")
	}
	if err := s.Err(); err != nil {
		t.Errorf("Err() = %v after successful save", err)
	}
}

func TestSaverRetriesOnce(t *testing.T) {
	p := newRecordingPersister()
	p.setFailNext(1)
	s := newSaver(p, parkedDebounce, nil)

	s.Request(snapshot.Empty())
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v, want nil after successful retry", err)
	}
	if got := p.saveCount(); got != 1 {
		t.Errorf("successful saves = %d, want 1", got)
	}
}

func TestSaverReportsPersistentFailure(t *testing.T) {
	p := newRecordingPersister()
	p.setFailNext(100)
	s := newSaver(p, parkedDebounce, nil)

	s.Request(snapshot.Empty())
	err := s.Close()
	if err == nil {
		t.Fatal("Close() = nil, want the save error")
	}
	if s.Err() == nil {
		t.Error("Err() = nil after failed save")
	}
}

func TestSaverErrClearsAfterSuccess(t *testing.T) {
	p := newRecordingPersister()
	p.setFailNext(2)
	s := newSaver(p, 0, nil)
	defer s.Close()

	s.Request(snapshot.Empty())
	waitFor(t, func() bool { return s.Err() != nil })

	s.Request(snapshot.Empty())
	waitFor(t, func() bool { return s.Err() == nil })
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition never became true")
}
