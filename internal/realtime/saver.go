package realtime

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"umlforge/internal/models"
)

const (
	// DefaultQuiet is the debounce window for a diagram edited alone.
	DefaultQuiet = 3 * time.Second
	// DefaultCoeditQuiet is the tighter window used while other sessions are
	// streaming the same diagram, so co-editors see changes sooner.
	DefaultCoeditQuiet = time.Second
)

// SaveFunc persists a diagram snapshot.
type SaveFunc func(ctx context.Context, data models.DiagramData) error

// Saver coalesces bursts of edits into a single save after a quiet period.
// There is deliberately no ordering guarantee between two rapid saves at the
// store; debouncing makes that race rare rather than impossible.
type Saver struct {
	mu       sync.Mutex
	timer    *time.Timer
	pending  *models.DiagramData
	stopped  bool
	quiet    time.Duration
	coQuiet  time.Duration
	coedited func() bool
	save     SaveFunc
	logger   *zap.Logger
}

// NewSaver builds a debounced saver. coedited reports whether other sessions
// currently hold the diagram open; it may be nil.
func NewSaver(save SaveFunc, coedited func() bool, logger *zap.Logger) *Saver {
	return &Saver{
		quiet:    DefaultQuiet,
		coQuiet:  DefaultCoeditQuiet,
		coedited: coedited,
		save:     save,
		logger:   logger,
	}
}

// SetWindows overrides the debounce windows, mainly for tests.
func (s *Saver) SetWindows(quiet, coeditQuiet time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quiet = quiet
	s.coQuiet = coeditQuiet
}

// Schedule records the latest snapshot and (re)starts the quiet timer.
// Each call supersedes the previous pending snapshot.
func (s *Saver) Schedule(data models.DiagramData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.pending = &data

	window := s.quiet
	if s.coedited != nil && s.coedited() {
		window = s.coQuiet
	}

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(window, s.fire)
}

func (s *Saver) fire() {
	s.mu.Lock()
	data := s.pending
	s.pending = nil
	s.mu.Unlock()
	if data == nil {
		return
	}
	if err := s.save(context.Background(), *data); err != nil {
		s.logger.Error("debounced save failed", zap.Error(err))
	}
}

// Flush saves any pending snapshot immediately.
func (s *Saver) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	data := s.pending
	s.pending = nil
	s.mu.Unlock()
	if data == nil {
		return nil
	}
	return s.save(ctx, *data)
}

// Stop cancels the timer and drops the pending snapshot without saving, so
// teardown never leaks a deferred write against a stale target.
func (s *Saver) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.pending = nil
}
