package stats

import (
	"sync"
	"time"
)

// Tracker collects in-process submission counters for the /infra endpoint.
// Counters reset on restart; durable counts live in redis when configured.
// A nil Tracker is valid and counts nothing, which keeps callers branch-free.
type Tracker struct {
	mu             sync.RWMutex
	accepted       int64
	duplicates     int64
	readDegrades   int64
	notifyFailures int64
	lastID         string
	lastAcceptedAt time.Time
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Accepted       int64
	Duplicates     int64
	ReadDegrades   int64
	NotifyFailures int64
	LastID         string
	LastAcceptedAt time.Time
}

func New() *Tracker {
	return &Tracker{}
}

// Accepted records a durably written submission.
func (t *Tracker) Accepted(id string, at time.Time) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.accepted++
	t.lastID = id
	t.lastAcceptedAt = at
}

// Duplicate records a rejected resubmission.
func (t *Tracker) Duplicate() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.duplicates++
}

// ReadDegrade records a snapshot read that fell back to an empty collection.
func (t *Tracker) ReadDegrade() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.readDegrades++
}

// NotifyFailure records a failed best-effort email.
func (t *Tracker) NotifyFailure() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notifyFailures++
}

// Get returns a copy of the current counters.
func (t *Tracker) Get() Snapshot {
	if t == nil {
		return Snapshot{}
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Snapshot{
		Accepted:       t.accepted,
		Duplicates:     t.duplicates,
		ReadDegrades:   t.readDegrades,
		NotifyFailures: t.notifyFailures,
		LastID:         t.lastID,
		LastAcceptedAt: t.lastAcceptedAt,
	}
}
