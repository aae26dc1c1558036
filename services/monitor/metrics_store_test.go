package monitor

import (
	"testing"
	"time"
)

// TestMetricsStore_LatestEmpty returns nil for a connection with no history.
func TestMetricsStore_LatestEmpty(t *testing.T) {
	store := NewMetricsStore(10)

	if got := store.Latest(1); got != nil {
		t.Errorf("Expected nil for unknown connection, got %+v", got)
	}
	if got := store.Recent(1); len(got) != 0 {
		t.Errorf("Expected empty window for unknown connection, got %d entries", len(got))
	}
}

// TestMetricsStore_RecordAndLatest records results and checks Latest tracks
// the newest one.
func TestMetricsStore_RecordAndLatest(t *testing.T) {
	store := NewMetricsStore(10)

	first := &ProbeResult{ResponseTime: 1, Timestamp: time.Now()}
	second := &ProbeResult{ResponseTime: 2, Timestamp: time.Now()}
	store.Record(1, first)
	store.Record(1, second)

	if got := store.Latest(1); got != second {
		t.Errorf("Expected latest result %+v, got %+v", second, got)
	}

	recent := store.Recent(1)
	if len(recent) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(recent))
	}
	if recent[0] != first || recent[1] != second {
		t.Error("Expected window ordered oldest first")
	}
}

// TestMetricsStore_CapacityEviction inserts capacity+1 results and checks
// the oldest was evicted and the newest is present.
func TestMetricsStore_CapacityEviction(t *testing.T) {
	const capacity = 5
	store := NewMetricsStore(capacity)

	results := make([]*ProbeResult, capacity+1)
	for i := range results {
		results[i] = &ProbeResult{ResponseTime: float64(i)}
		store.Record(1, results[i])
	}

	recent := store.Recent(1)
	if len(recent) != capacity {
		t.Fatalf("Window exceeded capacity: %d > %d", len(recent), capacity)
	}
	if recent[0] == results[0] {
		t.Error("Expected oldest result to be evicted")
	}
	if recent[len(recent)-1] != results[capacity] {
		t.Error("Expected newest result to be present")
	}
	if store.Latest(1) != results[capacity] {
		t.Error("Expected Latest to return the newest result")
	}
}

// TestMetricsStore_PerConnectionIsolation checks windows are keyed by
// connection id.
func TestMetricsStore_PerConnectionIsolation(t *testing.T) {
	store := NewMetricsStore(10)

	a := &ProbeResult{ResponseTime: 1}
	b := &ProbeResult{ResponseTime: 2}
	store.Record(1, a)
	store.Record(2, b)

	if store.Latest(1) != a || store.Latest(2) != b {
		t.Error("Expected per-connection windows to be independent")
	}
}

// TestMetricsStore_Purge drops the window for a deleted connection.
func TestMetricsStore_Purge(t *testing.T) {
	store := NewMetricsStore(10)
	store.Record(1, &ProbeResult{ResponseTime: 1})

	store.Purge(1)

	if store.Latest(1) != nil {
		t.Error("Expected no results after purge")
	}
}
