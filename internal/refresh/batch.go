package refresh

import (
	"log/slog"
	"sync"
	"time"

	"github.com/barkeep/barkeep/internal/domain/bar"
)

// BatchScheduler recomputes a whole set of bars on each tick and publishes
// the results as a single map swap, so readers never observe a partially
// updated batch. Visibility gating and hydration semantics match Scheduler.
type BatchScheduler struct {
	mu       sync.Mutex
	clock    Clock
	signal   Signal
	logger   *slog.Logger
	interval time.Duration

	bars     []bar.TimeBasedBar
	keys     []barKey
	calcs    map[string]bar.ProgressCalculation
	callback func(map[string]bar.ProgressCalculation)

	running     bool
	armed       bool
	ticker      Ticker
	stopTick    chan struct{}
	unsubscribe func()
}

// NewBatchScheduler creates a scheduler over a set of bars. A nil clock uses
// the system clock; a nil signal means always visible.
func NewBatchScheduler(bars []bar.TimeBasedBar, clock Clock, signal Signal, logger *slog.Logger) *BatchScheduler {
	if clock == nil {
		clock = SystemClock
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &BatchScheduler{
		clock:    clock,
		signal:   signal,
		logger:   logger,
		interval: DefaultInterval,
	}
	s.setBarsLocked(bars)
	return s
}

// OnUpdate registers the callback invoked with each published batch. The
// latest registration always wins. The callback runs under the scheduler's
// lock and must not call back into the scheduler.
func (s *BatchScheduler) OnUpdate(fn func(map[string]bar.ProgressCalculation)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callback = fn
}

// Start computes the whole batch immediately and arms the timer if visible.
func (s *BatchScheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.recomputeLocked()
	if s.signal == nil {
		s.armLocked()
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	// Subscribing outside the lock: the signal notifies under its own lock
	// and the notification handler re-enters ours.
	unsub := s.signal.Subscribe(s.onVisibility)
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		unsub()
		return
	}
	s.unsubscribe = unsub
	s.mu.Unlock()

	s.onVisibility(s.signal.Visible())
}

// SetBars replaces the tracked set. The batch is recomputed immediately if
// any bar's identity or dates changed.
func (s *BatchScheduler) SetBars(bars []bar.TimeBasedBar) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if keysEqual(s.keys, bars) {
		return
	}
	s.setBarsLocked(bars)
	if s.running {
		s.recomputeLocked()
	}
}

// Refresh recomputes the whole batch immediately, regardless of visibility.
func (s *BatchScheduler) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.recomputeLocked()
}

// Snapshot returns the latest published batch keyed by bar id, or nil before
// hydration. Published maps are built fresh on each refresh and never mutated
// afterwards, so the swap is atomic from the reader's perspective.
func (s *BatchScheduler) Snapshot() map[string]bar.ProgressCalculation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calcs
}

// Hydrated reports whether the first batch has been published.
func (s *BatchScheduler) Hydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calcs != nil
}

// SetInterval changes the refresh period, restarting a running timer from
// zero elapsed.
func (s *BatchScheduler) SetInterval(d time.Duration) {
	if d <= 0 {
		d = DefaultInterval
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interval = d
	if s.armed {
		s.disarmLocked()
		s.armLocked()
	}
}

// Stop cancels the timer and visibility subscription; no callback fires
// after it returns.
func (s *BatchScheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	if s.armed {
		s.disarmLocked()
	}
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (s *BatchScheduler) setBarsLocked(bars []bar.TimeBasedBar) {
	s.bars = make([]bar.TimeBasedBar, len(bars))
	copy(s.bars, bars)
	s.keys = make([]barKey, len(bars))
	for i, b := range bars {
		s.keys[i] = keyOf(b)
	}
}

func keysEqual(keys []barKey, bars []bar.TimeBasedBar) bool {
	if len(keys) != len(bars) {
		return false
	}
	for i, b := range bars {
		if keys[i] != keyOf(b) {
			return false
		}
	}
	return true
}

func (s *BatchScheduler) onVisibility(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	if visible && !s.armed {
		s.armLocked()
	} else if !visible && s.armed {
		s.disarmLocked()
	}
}

func (s *BatchScheduler) armLocked() {
	s.ticker = s.clock.NewTicker(s.interval)
	stop := make(chan struct{})
	s.stopTick = stop
	s.armed = true
	go s.loop(s.ticker, stop)
}

func (s *BatchScheduler) disarmLocked() {
	s.ticker.Stop()
	close(s.stopTick)
	s.ticker = nil
	s.stopTick = nil
	s.armed = false
}

func (s *BatchScheduler) loop(t Ticker, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-t.C():
			s.tick(t)
		}
	}
}

// tick ignores ticks from a ticker that is no longer the armed one.
func (s *BatchScheduler) tick(t Ticker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running || s.ticker != t {
		return
	}
	s.recomputeLocked()
}

func (s *BatchScheduler) recomputeLocked() {
	now := s.clock.Now()
	next := make(map[string]bar.ProgressCalculation, len(s.bars))
	for _, b := range s.bars {
		next[b.ID] = bar.Calculate(b, now)
	}
	s.calcs = next

	if s.callback == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("batch refresh callback panicked", "error", r)
		}
	}()
	s.callback(next)
}
