package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/michaelkaiserz/mongomanager/models"
	"github.com/michaelkaiserz/mongomanager/pkg/logger"
)

// ConnectionStore is the registry surface the scheduler consumes: the set
// of connections to probe and the health fields it owns on each record.
type ConnectionStore interface {
	FindActive() ([]models.Connection, error)
	UpdateHealth(id uint, status string, lastConnected *time.Time, uptime int64, errorMessage string) error
}

// Scheduler drives the monitor: on every tick it probes all active
// connections concurrently, mirrors the outcome onto each record's status
// fields, feeds the metrics store and alert buffer, and publishes one event
// per probe to the hub.
//
// Probe failures are data, not control flow: a connection that cannot be
// reached is recorded as status=error and the loop always proceeds. An
// in-flight guard ensures a probe that outlives the tick interval never
// overlaps with a second probe of the same connection.
type Scheduler struct {
	store    ConnectionStore
	prober   Prober
	metrics  *MetricsStore
	alerts   *AlertStore
	hub      *Hub
	interval time.Duration

	mu       sync.Mutex
	inflight map[uint]bool

	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewScheduler wires a scheduler; Start begins ticking.
func NewScheduler(store ConnectionStore, prober Prober, metrics *MetricsStore, alerts *AlertStore, hub *Hub, interval time.Duration) *Scheduler {
	return &Scheduler{
		store:    store,
		prober:   prober,
		metrics:  metrics,
		alerts:   alerts,
		hub:      hub,
		interval: interval,
		inflight: make(map[uint]bool),
		stopCh:   make(chan struct{}),
	}
}

// Start launches the monitor loop in the background. The first tick runs
// immediately so the dashboard has data before the first interval elapses.
func (s *Scheduler) Start() {
	go s.run()
}

func (s *Scheduler) run() {
	logger.Infof("Monitor scheduler started, interval %v", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick()
	for {
		select {
		case <-s.stopCh:
			logger.Infof("Monitor scheduler stopped")
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// Stop halts the loop and waits for in-flight probes to finish.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	s.wg.Wait()
}

// tick probes every active connection, one goroutine each. A connection
// whose previous probe is still running is skipped; the next tick is its
// retry.
func (s *Scheduler) tick() {
	conns, err := s.store.FindActive()
	if err != nil {
		logger.Errorf("Failed to enumerate active connections: %v", err)
		return
	}

	for i := range conns {
		conn := conns[i]

		s.mu.Lock()
		if s.inflight[conn.ID] {
			s.mu.Unlock()
			logger.Warnf("Probe for connection %d still in flight, skipping this tick", conn.ID)
			continue
		}
		s.inflight[conn.ID] = true
		s.mu.Unlock()

		s.wg.Add(1)
		go func(conn models.Connection) {
			defer s.wg.Done()
			defer func() {
				s.mu.Lock()
				delete(s.inflight, conn.ID)
				s.mu.Unlock()
			}()
			s.probeOne(&conn)
		}(conn)
	}
}

// probeOne runs a single connection's probe and applies the outcome:
// registry status, metrics window, alert evaluation and one hub event.
func (s *Scheduler) probeOne(conn *models.Connection) {
	result, err := s.prober.Probe(context.Background(), conn)
	if err != nil {
		msg := err.Error()
		logger.Warnf("Probe failed for connection %d (%s): %s", conn.ID, conn.Name, msg)

		// Keep the last observed uptime; a failed probe learns nothing new.
		if uerr := s.store.UpdateHealth(conn.ID, models.StatusError, nil, conn.Uptime, msg); uerr != nil {
			logger.Errorf("Failed to persist error status for connection %d: %v", conn.ID, uerr)
		}
		s.hub.Publish(conn.ID, &Event{Type: EventError, ConnectionID: conn.ID, Error: msg})
		return
	}

	now := time.Now()
	var uptime int64
	if result.Server != nil {
		uptime = result.Server.Uptime
	}
	if uerr := s.store.UpdateHealth(conn.ID, models.StatusConnected, &now, uptime, ""); uerr != nil {
		logger.Errorf("Failed to persist connected status for connection %d: %v", conn.ID, uerr)
	}

	s.metrics.Record(conn.ID, result)
	if alerts := EvaluateAlerts(conn, result); len(alerts) > 0 {
		s.alerts.Add(alerts...)
	}
	s.hub.Publish(conn.ID, &Event{Type: EventMetrics, ConnectionID: conn.ID, Data: result})

	logger.Debugf("Probe succeeded for connection %d (%s): %.1fms", conn.ID, conn.Name, result.ResponseTime)
}
