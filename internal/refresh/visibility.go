package refresh

import "sync"

// Signal is a boolean "is the host foregrounded" source with change
// notification. Schedulers use it only to gate their refresh timers.
type Signal interface {
	Visible() bool
	// Subscribe registers a change listener and returns a cancel function.
	// Cancelling is deterministic: the listener never fires after cancel
	// returns.
	Subscribe(fn func(visible bool)) (cancel func())
}

// VisibilitySignal is a process-local Signal implementation. The zero state
// is visible, so a scheduler without a real backing signal behaves as if the
// host were always foregrounded.
type VisibilitySignal struct {
	mu        sync.Mutex
	hidden    bool
	nextID    int
	listeners map[int]func(bool)
}

// NewVisibilitySignal creates a signal that starts visible.
func NewVisibilitySignal() *VisibilitySignal {
	return &VisibilitySignal{listeners: make(map[int]func(bool))}
}

// Visible reports the current visibility state.
func (s *VisibilitySignal) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.hidden
}

// Set updates the visibility state, notifying listeners only on change.
// Listeners run under the signal's lock so that a cancelled subscription can
// never fire afterwards; they must not call back into the signal.
func (s *VisibilitySignal) Set(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hidden == !visible {
		return
	}
	s.hidden = !visible
	for _, fn := range s.listeners {
		fn(visible)
	}
}

// Subscribe registers a change listener.
func (s *VisibilitySignal) Subscribe(fn func(visible bool)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}
