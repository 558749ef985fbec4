package refresh

import (
	"sync"
	"time"

	"github.com/barkeep/barkeep/internal/domain/bar"
)

// DefaultCacheCapacity bounds the number of cached calculations.
const DefaultCacheCapacity = 256

// CalculationCache memoizes calculations at minute granularity. A lookup
// hits only when the requested instant falls in the same minute bucket the
// entry was computed for; a stale entry is evicted on miss. At capacity an
// arbitrary existing entry is evicted to bound memory.
type CalculationCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]cacheEntry
}

type cacheEntry struct {
	bucket int64
	calc   bar.ProgressCalculation
}

// NewCalculationCache creates a cache. capacity <= 0 uses the default.
func NewCalculationCache(capacity int) *CalculationCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &CalculationCache{
		capacity: capacity,
		entries:  make(map[string]cacheEntry, capacity),
	}
}

// minuteBucket truncates an instant to whole minutes since the epoch.
func minuteBucket(t time.Time) int64 {
	return t.Unix() / 60
}

// Get returns the cached calculation for id if it was computed in the same
// minute bucket as now. A bucket mismatch evicts the stale entry and misses.
func (c *CalculationCache) Get(id string, now time.Time) (bar.ProgressCalculation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[id]
	if !ok {
		return bar.ProgressCalculation{}, false
	}
	if entry.bucket != minuteBucket(now) {
		delete(c.entries, id)
		return bar.ProgressCalculation{}, false
	}
	return entry.calc.Clone(), true
}

// Put stores a calculation for id at now's minute bucket. The cached value
// is a defensive copy: mutating the caller's calculation afterwards cannot
// corrupt the cache.
func (c *CalculationCache) Put(id string, now time.Time, calc bar.ProgressCalculation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[id]; !exists && len(c.entries) >= c.capacity {
		for victim := range c.entries {
			delete(c.entries, victim)
			break
		}
	}

	c.entries[id] = cacheEntry{
		bucket: minuteBucket(now),
		calc:   calc.Clone(),
	}
}

// Len reports the number of cached entries.
func (c *CalculationCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Invalidate drops the entry for id, if any.
func (c *CalculationCache) Invalidate(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}
