package scorefeed

import (
	"sync"
	"time"

	"github.com/XavierBriggs/splashtrack/pkg/models"
)

// SnapshotCache holds the last good feed payload. The TTL only gates
// freshness for the fast path; a stale snapshot is still served when the
// upstream fetch fails. The clock is injected so tests never sleep.
type SnapshotCache struct {
	mu        sync.RWMutex
	now       func() time.Time
	ttl       time.Duration
	snapshot  models.ScoreboardSnapshot
	fetchedAt time.Time
	populated bool
}

// NewSnapshotCache creates a cache. A nil clock uses wall time.
func NewSnapshotCache(ttl time.Duration, now func() time.Time) *SnapshotCache {
	if now == nil {
		now = time.Now
	}
	return &SnapshotCache{now: now, ttl: ttl}
}

// Put replaces the cached snapshot
func (c *SnapshotCache) Put(snapshot models.ScoreboardSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = snapshot
	c.fetchedAt = c.now()
	c.populated = true
}

// Fresh returns the snapshot if it is inside the TTL window
func (c *SnapshotCache) Fresh() (models.ScoreboardSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.populated || c.now().Sub(c.fetchedAt) >= c.ttl {
		return models.ScoreboardSnapshot{}, false
	}
	return c.snapshot, true
}

// Any returns the snapshot regardless of age
func (c *SnapshotCache) Any() (models.ScoreboardSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.populated {
		return models.ScoreboardSnapshot{}, false
	}
	return c.snapshot, true
}
