package monitor

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/michaelkaiserz/mongomanager/models"
)

// Alert kinds produced by the evaluator.
const (
	AlertHighResponseTime    = "high_response_time"
	AlertHighMemoryUsage     = "high_memory_usage"
	AlertHighConnectionCount = "high_connection_count"
)

// Fixed alert thresholds, evaluated with strict greater-than.
// There is deliberately no hysteresis: a value hovering at a threshold
// alternates alert/no-alert on consecutive ticks.
const (
	responseTimeThresholdMs = 1000
	residentMemThresholdMB  = 1000
	connectionThreshold     = 100
)

// Alert is one threshold breach observed on a probe result. ID and
// Timestamp are assigned by the AlertStore on insertion; EvaluateAlerts
// stays a pure function of its inputs.
type Alert struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	Message        string    `json:"message"`
	Severity       string    `json:"severity"`
	ConnectionID   uint      `json:"connection_id"`
	ConnectionName string    `json:"connection_name"`
	Timestamp      time.Time `json:"timestamp"`
}

// EvaluateAlerts applies the fixed threshold rules to one probe result.
// Rules fire independently; a missing metric group skips its rule silently.
func EvaluateAlerts(conn *models.Connection, result *ProbeResult) []Alert {
	if result == nil {
		return nil
	}

	var alerts []Alert
	add := func(kind, message string) {
		alerts = append(alerts, Alert{
			Type:           kind,
			Message:        message,
			Severity:       "warning",
			ConnectionID:   conn.ID,
			ConnectionName: conn.Name,
		})
	}

	if result.ResponseTime > responseTimeThresholdMs {
		add(AlertHighResponseTime,
			fmt.Sprintf("Response time %.0fms exceeds %dms", result.ResponseTime, responseTimeThresholdMs))
	}

	if result.Server != nil && result.Server.Mem != nil {
		if result.Server.Mem.Resident > residentMemThresholdMB {
			add(AlertHighMemoryUsage,
				fmt.Sprintf("Resident memory %dMB exceeds %dMB", result.Server.Mem.Resident, residentMemThresholdMB))
		}
	}

	if result.Server != nil && result.Server.Connections != nil {
		if result.Server.Connections.Current > connectionThreshold {
			add(AlertHighConnectionCount,
				fmt.Sprintf("Connection count %d exceeds %d", result.Server.Connections.Current, connectionThreshold))
		}
	}

	return alerts
}

// AlertStore is a bounded append-only buffer of recent alerts. When the
// capacity is reached the oldest alert is evicted first. Repeated breaches
// on consecutive ticks produce repeated entries; there is no deduplication.
type AlertStore struct {
	mu       sync.RWMutex
	alerts   []Alert
	capacity int
}

// NewAlertStore creates an alert buffer holding at most capacity entries.
func NewAlertStore(capacity int) *AlertStore {
	if capacity <= 0 {
		capacity = 100
	}
	return &AlertStore{
		alerts:   make([]Alert, 0, capacity),
		capacity: capacity,
	}
}

// Add appends alerts in order, assigning each an id and insertion
// timestamp, evicting the oldest entries beyond capacity.
func (s *AlertStore) Add(alerts ...Alert) {
	if len(alerts) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, a := range alerts {
		a.ID = uuid.NewString()
		a.Timestamp = now
		s.alerts = append(s.alerts, a)
	}
	if over := len(s.alerts) - s.capacity; over > 0 {
		s.alerts = append(s.alerts[:0:0], s.alerts[over:]...)
	}
}

// Recent returns the buffered alerts, newest first.
func (s *AlertStore) Recent() []Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Alert, len(s.alerts))
	for i, a := range s.alerts {
		out[len(s.alerts)-1-i] = a
	}
	return out
}

// Len returns the number of buffered alerts.
func (s *AlertStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.alerts)
}
