package stats

import (
	"sync"
	"testing"
	"time"
)

func TestTracker(t *testing.T) {
	tr := New()
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tr.Accepted("100", at)
	tr.Accepted("101", at.Add(time.Minute))
	tr.Duplicate()
	tr.ReadDegrade()
	tr.NotifyFailure()
	tr.NotifyFailure()

	got := tr.Get()
	if got.Accepted != 2 {
		t.Errorf("Accepted = %d, want 2", got.Accepted)
	}
	if got.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1", got.Duplicates)
	}
	if got.ReadDegrades != 1 {
		t.Errorf("ReadDegrades = %d, want 1", got.ReadDegrades)
	}
	if got.NotifyFailures != 2 {
		t.Errorf("NotifyFailures = %d, want 2", got.NotifyFailures)
	}
	if got.LastID != "101" {
		t.Errorf("LastID = %q, want 101", got.LastID)
	}
	if !got.LastAcceptedAt.Equal(at.Add(time.Minute)) {
		t.Errorf("LastAcceptedAt = %v", got.LastAcceptedAt)
	}
}

func TestNilTracker(t *testing.T) {
	var tr *Tracker
	tr.Accepted("1", time.Now())
	tr.Duplicate()
	tr.ReadDegrade()
	tr.NotifyFailure()
	if got := tr.Get(); got.Accepted != 0 {
		t.Errorf("nil tracker snapshot = %+v", got)
	}
}

func TestTrackerConcurrent(t *testing.T) {
	tr := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Accepted("x", time.Now())
			tr.Duplicate()
			tr.Get()
		}()
	}
	wg.Wait()

	got := tr.Get()
	if got.Accepted != 50 || got.Duplicates != 50 {
		t.Errorf("snapshot = %+v, want 50/50", got)
	}
}
