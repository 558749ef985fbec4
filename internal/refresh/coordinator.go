package refresh

import (
	"log/slog"
	"sync"
	"time"

	"github.com/barkeep/barkeep/internal/domain/bar"
)

// DefaultFlushDelay approximates one frame: updates enqueued within the same
// window are merged and delivered together.
const DefaultFlushDelay = 16 * time.Millisecond

// Coordinator merges single and multi-bar update requests per bar id (last
// write wins within a flush window) and delivers the merged map to every
// listener in one flush. Close cancels any pending flush and clears all
// state; no listener fires after Close returns.
type Coordinator struct {
	mu         sync.Mutex
	logger     *slog.Logger
	flushDelay time.Duration

	pending   map[string]bar.ProgressCalculation
	timer     *time.Timer
	nextID    int
	listeners map[int]func(map[string]bar.ProgressCalculation)
	closed    bool
}

// NewCoordinator creates a coordinator. delay <= 0 uses the default flush
// window.
func NewCoordinator(delay time.Duration, logger *slog.Logger) *Coordinator {
	if delay <= 0 {
		delay = DefaultFlushDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		logger:     logger,
		flushDelay: delay,
		pending:    make(map[string]bar.ProgressCalculation),
		listeners:  make(map[int]func(map[string]bar.ProgressCalculation)),
	}
}

// Subscribe registers a flush listener and returns a cancel function.
func (c *Coordinator) Subscribe(fn func(map[string]bar.ProgressCalculation)) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// Enqueue schedules a single bar's update for the next flush. A later update
// for the same id within the window replaces the earlier one.
func (c *Coordinator) Enqueue(id string, calc bar.ProgressCalculation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.pending[id] = calc.Clone()
	c.scheduleFlushLocked()
}

// EnqueueAll schedules a batch of updates for the next flush, merged with
// anything already pending.
func (c *Coordinator) EnqueueAll(calcs map[string]bar.ProgressCalculation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	for id, calc := range calcs {
		c.pending[id] = calc.Clone()
	}
	c.scheduleFlushLocked()
}

// Flush delivers the pending updates immediately instead of waiting for the
// window to elapse.
func (c *Coordinator) Flush() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.flushLocked()
	c.mu.Unlock()
}

// Close cancels any pending flush and drops all listeners and pending
// updates. Close is idempotent.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.pending = make(map[string]bar.ProgressCalculation)
	c.listeners = make(map[int]func(map[string]bar.ProgressCalculation))
}

// Pending reports the number of updates waiting for the next flush.
func (c *Coordinator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

func (c *Coordinator) scheduleFlushLocked() {
	if c.timer != nil {
		return
	}
	c.timer = time.AfterFunc(c.flushDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.timer = nil
		c.flushLocked()
	})
}

// flushLocked delivers the merged batch under the lock so a concurrent Close
// can never let a listener fire afterwards. Listener panics are contained:
// one bad listener never aborts its siblings.
func (c *Coordinator) flushLocked() {
	if c.closed || len(c.pending) == 0 {
		return
	}
	batch := c.pending
	c.pending = make(map[string]bar.ProgressCalculation)

	for _, fn := range c.listeners {
		c.invoke(fn, batch)
	}
}

func (c *Coordinator) invoke(fn func(map[string]bar.ProgressCalculation), batch map[string]bar.ProgressCalculation) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("flush listener panicked", "error", r)
		}
	}()
	fn(batch)
}
