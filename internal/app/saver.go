package app

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"taskpad/internal/snapshot"
)

// saver writes snapshots on a single background goroutine so the event loop
// never blocks on disk. Requests coalesce: only the latest pending snapshot
// is written, and at most one save is in flight at any time. Close performs
// the final synchronous flush; a pending save is never dropped on exit.
//
// The buffered signal channel mirrors the wakeup scheme of the event queue
// this design is borrowed from: multiple requests between writes collapse
// into one wakeup.
type saver struct {
	persist  Persister
	debounce time.Duration
	logger   *log.Logger

	mu      sync.Mutex
	pending *snapshot.Snapshot
	saveErr error

	signal chan struct{}
	quit   chan struct{}
	done   chan struct{}
}

func newSaver(persist Persister, debounce time.Duration, logger *log.Logger) *saver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &saver{
		persist:  persist,
		debounce: debounce,
		logger:   logger,
		signal:   make(chan struct{}, 1),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go s.run()
	return s
}

// Request schedules snap for writing, replacing any not-yet-written snapshot.
func (s *saver) Request(snap *snapshot.Snapshot) {
	s.mu.Lock()
	s.pending = snap
	s.mu.Unlock()

	select {
	case s.signal <- struct{}{}:
	default:
	}
}

// Err returns the outcome of the most recent completed save attempt.
func (s *saver) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveErr
}

// Close stops the worker and synchronously writes any still-pending snapshot.
// It returns the outcome of the last save attempt.
func (s *saver) Close() error {
	close(s.quit)
	<-s.done
	s.saveLatest()
	return s.Err()
}

func (s *saver) run() {
	defer close(s.done)
	for {
		select {
		case <-s.quit:
			return
		case <-s.signal:
			if s.debounce > 0 {
				timer := time.NewTimer(s.debounce)
				select {
				case <-timer.C:
				case <-s.quit:
					timer.Stop()
					return
				}
			}
			s.saveLatest()
		}
	}
}

// saveLatest writes the pending snapshot, retrying once on failure.
func (s *saver) saveLatest() {
	s.mu.Lock()
	snap := s.pending
	s.pending = nil
	s.mu.Unlock()

	if snap == nil {
		return
	}

	err := s.persist.Save(snap)
	if err != nil {
		s.logger.Warn("save failed, retrying", "err", err)
		err = s.persist.Save(snap)
	}

	s.mu.Lock()
	s.saveErr = err
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("save failed after retry, changes may not be durable", "err", err)
	}
}
