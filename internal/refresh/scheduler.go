// Package refresh keeps displayed progress calculations current without
// per-second recomputation. Schedulers recompute on a fixed interval, gated
// by a visibility signal, and expose a manual refresh path; the cache and
// coordinator bound the work done per refresh across many bars.
package refresh

import (
	"log/slog"
	"sync"
	"time"

	"github.com/barkeep/barkeep/internal/domain/bar"
)

// barKey identifies the inputs a calculation depends on. It is built from
// stable primitive values (id and unix timestamps) so that recomputation
// triggers only when the configuration actually changed, not on every newly
// constructed time value.
type barKey struct {
	id          string
	startUnix   int64
	targetUnix  int64
	timeBasedAs bar.BarType
}

func keyOf(b bar.TimeBasedBar) barKey {
	return barKey{
		id:          b.ID,
		startUnix:   b.StartDate.Unix(),
		targetUnix:  b.TargetDate.Unix(),
		timeBasedAs: b.Type,
	}
}

// Scheduler recomputes a single bar's progress on an interval. It computes
// once immediately on Start, then on every tick while the visibility signal
// reports foreground. Losing visibility suspends the timer; regaining it
// re-arms a full period with no catch-up computation. The scheduler is
// "hydrated" once the first calculation lands and never goes back.
type Scheduler struct {
	mu       sync.Mutex
	clock    Clock
	signal   Signal
	logger   *slog.Logger
	interval time.Duration

	bar      bar.TimeBasedBar
	key      barKey
	latest   *bar.ProgressCalculation
	callback func(bar.ProgressCalculation)

	running     bool
	armed       bool
	ticker      Ticker
	stopTick    chan struct{}
	unsubscribe func()
}

// NewScheduler creates a scheduler for one bar. A nil clock uses the system
// clock; a nil signal means always visible.
func NewScheduler(b bar.TimeBasedBar, clock Clock, signal Signal, logger *slog.Logger) *Scheduler {
	if clock == nil {
		clock = SystemClock
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		clock:    clock,
		signal:   signal,
		logger:   logger,
		interval: DefaultInterval,
		bar:      b,
		key:      keyOf(b),
	}
}

// OnUpdate registers the callback invoked with each new calculation. The
// latest registration always wins; re-registering never restarts the timer.
// The callback runs under the scheduler's lock, which is what makes "no
// callback after Stop" deterministic, so it must not call back into the
// scheduler.
func (s *Scheduler) OnUpdate(fn func(bar.ProgressCalculation)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callback = fn
}

// Start computes immediately and arms the refresh timer if visible.
func (s *Scheduler) Start() {
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

// Track swaps the tracked bar. If the identity or either configured date
// changed, progress is recomputed immediately.
func (s *Scheduler) Track(b bar.TimeBasedBar) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := keyOf(b)
	if key == s.key {
		return
	}
	s.bar = b
	s.key = key
	if s.running {
		s.recomputeLocked()
	}
}

// Refresh recomputes immediately, regardless of visibility. It has no effect
// after Stop.
func (s *Scheduler) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.recomputeLocked()
}

// Latest returns the most recent calculation and whether one exists yet.
func (s *Scheduler) Latest() (bar.ProgressCalculation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest == nil {
		return bar.ProgressCalculation{}, false
	}
	return s.latest.Clone(), true
}

// Hydrated reports whether the first calculation has landed. Consumers show
// a placeholder until then to avoid a server/client value mismatch.
func (s *Scheduler) Hydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest != nil
}

// SetInterval changes the refresh period. A running timer restarts from zero
// elapsed rather than preserving partial progress toward the old period.
func (s *Scheduler) SetInterval(d time.Duration) {
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

// Stop cancels the timer and the visibility subscription. No callback fires
// after Stop returns. Stop is idempotent.
func (s *Scheduler) Stop() {
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

	// Called outside the lock: the signal notifies under its own lock and
	// re-entering ours from a notification would deadlock.
	if unsubscribe != nil {
		unsubscribe()
	}
}

func (s *Scheduler) onVisibility(visible bool) {
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

func (s *Scheduler) armLocked() {
	s.ticker = s.clock.NewTicker(s.interval)
	stop := make(chan struct{})
	s.stopTick = stop
	s.armed = true
	go s.loop(s.ticker, stop)
}

func (s *Scheduler) disarmLocked() {
	s.ticker.Stop()
	close(s.stopTick)
	s.ticker = nil
	s.stopTick = nil
	s.armed = false
}

func (s *Scheduler) loop(t Ticker, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-t.C():
			s.tick(t)
		}
	}
}

// tick ignores ticks from a ticker that is no longer the armed one, so a
// tick buffered before disarm can never leak a recomputation afterwards.
func (s *Scheduler) tick(t Ticker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running || s.ticker != t {
		return
	}
	s.recomputeLocked()
}

func (s *Scheduler) recomputeLocked() {
	calc := bar.Calculate(s.bar, s.clock.Now())
	s.latest = &calc
	if s.callback == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("refresh callback panicked", "bar", s.bar.ID, "error", r)
		}
	}()
	s.callback(calc.Clone())
}
