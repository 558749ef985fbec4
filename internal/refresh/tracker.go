package refresh

import "sync"

// VisibilityTracker maintains a per-bar visible set fed by an external
// observation source (viewport intersection in the original client). When
// constructed as unsupported — no observation source available — every bar
// is reported visible so refresh work is never wrongly skipped.
type VisibilityTracker struct {
	mu        sync.Mutex
	supported bool
	visible   map[string]struct{}
	nextID    int
	listeners map[int]func(id string, visible bool)
}

// NewVisibilityTracker creates a tracker. supported=false degrades to
// "assume always visible".
func NewVisibilityTracker(supported bool) *VisibilityTracker {
	return &VisibilityTracker{
		supported: supported,
		visible:   make(map[string]struct{}),
		listeners: make(map[int]func(string, bool)),
	}
}

// SetVisible records an observation for one bar and notifies listeners on
// change. Listeners run under the tracker's lock and must not call back in.
func (t *VisibilityTracker) SetVisible(id string, visible bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.supported {
		return
	}
	_, cur := t.visible[id]
	if cur == visible {
		return
	}
	if visible {
		t.visible[id] = struct{}{}
	} else {
		delete(t.visible, id)
	}
	for _, fn := range t.listeners {
		fn(id, visible)
	}
}

// IsVisible reports whether a bar is currently visible. Unsupported trackers
// always report true.
func (t *VisibilityTracker) IsVisible(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.supported {
		return true
	}
	_, ok := t.visible[id]
	return ok
}

// VisibleSet returns the ids currently observed as visible.
func (t *VisibilityTracker) VisibleSet() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]string, 0, len(t.visible))
	for id := range t.visible {
		ids = append(ids, id)
	}
	return ids
}

// OnChange registers a visibility-change listener and returns a cancel
// function.
func (t *VisibilityTracker) OnChange(fn func(id string, visible bool)) (cancel func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.nextID
	t.nextID++
	t.listeners[id] = fn

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.listeners, id)
	}
}
