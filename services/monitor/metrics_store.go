package monitor

import "sync"

// MetricsStore keeps a bounded in-memory window of recent probe results per
// connection. It is a live-dashboard cache, not an audit log: a process
// restart loses all history.
type MetricsStore struct {
	mu       sync.RWMutex
	results  map[uint][]*ProbeResult
	capacity int
}

// NewMetricsStore creates a store keeping at most capacity results per
// connection.
func NewMetricsStore(capacity int) *MetricsStore {
	if capacity <= 0 {
		capacity = 100
	}
	return &MetricsStore{
		results:  make(map[uint][]*ProbeResult),
		capacity: capacity,
	}
}

// Record appends a probe result for a connection, evicting the oldest entry
// once the window is full.
func (s *MetricsStore) Record(connID uint, result *ProbeResult) {
	if result == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	window := append(s.results[connID], result)
	if len(window) > s.capacity {
		window = append(window[:0:0], window[1:]...)
	}
	s.results[connID] = window
}

// Latest returns the most recent probe result for a connection, or nil when
// none has been recorded.
func (s *MetricsStore) Latest(connID uint) *ProbeResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	window := s.results[connID]
	if len(window) == 0 {
		return nil
	}
	return window[len(window)-1]
}

// Recent returns the recorded window for a connection, oldest first.
func (s *MetricsStore) Recent(connID uint) []*ProbeResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	window := s.results[connID]
	out := make([]*ProbeResult, len(window))
	copy(out, window)
	return out
}

// Purge drops all recorded results for a connection. Called when the
// connection is deleted from the registry.
func (s *MetricsStore) Purge(connID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.results, connID)
}
