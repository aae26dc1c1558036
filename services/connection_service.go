package services

import (
	"context"
	"fmt"
	"time"

	"github.com/michaelkaiserz/mongomanager/models"
	"github.com/michaelkaiserz/mongomanager/pkg/logger"
	"github.com/michaelkaiserz/mongomanager/repository"
	"github.com/michaelkaiserz/mongomanager/services/monitor"
)

// ConnectionService manages the registry of MongoDB connections and the
// one-off connection test.
type ConnectionService interface {
	List(ctx context.Context) ([]models.Connection, error)
	Get(ctx context.Context, id uint) (*models.Connection, error)
	Create(ctx context.Context, conn models.Connection) (*models.Connection, error)
	Update(ctx context.Context, id uint, conn models.Connection) (*models.Connection, error)
	Delete(ctx context.Context, id uint) error
	TestConnection(ctx context.Context, id uint) (*monitor.ProbeResult, error)
}

type connectionService struct {
	repo    repository.ConnectionRepository
	prober  monitor.Prober
	hub     *monitor.Hub
	metrics *monitor.MetricsStore
}

// NewConnectionService creates a connection service sharing the monitor's
// prober, hub and metrics store so deletes and manual tests stay coherent
// with the background scheduler.
func NewConnectionService(prober monitor.Prober, hub *monitor.Hub, metrics *monitor.MetricsStore) ConnectionService {
	return &connectionService{
		repo:    repository.NewConnectionRepository(),
		prober:  prober,
		hub:     hub,
		metrics: metrics,
	}
}

func (s *connectionService) List(ctx context.Context) ([]models.Connection, error) {
	return s.repo.GetAll(nil)
}

func (s *connectionService) Get(ctx context.Context, id uint) (*models.Connection, error) {
	if id == 0 {
		return nil, fmt.Errorf("invalid connection ID: must be greater than 0")
	}
	conn, err := s.repo.GetByID(nil, id)
	if err != nil {
		return nil, fmt.Errorf("connection with id=%d not found: %v", id, err)
	}
	return conn, nil
}

func (s *connectionService) Create(ctx context.Context, conn models.Connection) (*models.Connection, error) {
	conn.ID = 0
	conn.Status = models.StatusDisconnected
	conn.LastConnected = nil
	conn.Uptime = 0
	conn.ErrorMessage = ""

	if err := s.repo.Create(nil, &conn); err != nil {
		return nil, fmt.Errorf("failed to create connection %s: %v", conn.Name, err)
	}
	logger.Infof("Registered connection %d (%s -> %s:%d)", conn.ID, conn.Name, conn.Host, conn.Port)
	return &conn, nil
}

// Update replaces the user-editable fields of a connection. The health
// fields stay untouched; only the scheduler writes those.
func (s *connectionService) Update(ctx context.Context, id uint, conn models.Connection) (*models.Connection, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Name = conn.Name
	existing.Host = conn.Host
	existing.Port = conn.Port
	existing.Username = conn.Username
	existing.Password = conn.Password
	existing.Database = conn.Database
	existing.AuthSource = conn.AuthSource
	existing.TLS = conn.TLS
	existing.ReplicaSet = conn.ReplicaSet
	existing.IsActive = conn.IsActive

	if err := s.repo.Update(nil, existing); err != nil {
		return nil, fmt.Errorf("failed to update connection %d: %v", id, err)
	}
	logger.Infof("Updated connection %d (%s)", id, existing.Name)
	return existing, nil
}

// Delete removes a connection and unregisters it from the fan-out hub and
// metrics store so no stale subscriber or window outlives the record.
func (s *connectionService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteByID(nil, id); err != nil {
		return fmt.Errorf("failed to delete connection %d: %v", id, err)
	}

	s.hub.Drop(id)
	s.metrics.Purge(id)

	logger.Infof("Deleted connection %d", id)
	return nil
}

// TestConnection probes a connection on demand and persists the resulting
// status, mirroring what the next scheduler tick would do.
func (s *connectionService) TestConnection(ctx context.Context, id uint) (*monitor.ProbeResult, error) {
	conn, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	logger.Infof("Testing connection: id=%d, host=%s:%d", id, conn.Host, conn.Port)

	result, probeErr := s.prober.Probe(ctx, conn)
	if probeErr != nil {
		if uerr := s.repo.UpdateHealth(nil, id, models.StatusError, nil, conn.Uptime, probeErr.Error()); uerr != nil {
			logger.Errorf("Failed to update connection status for id=%d: %v", id, uerr)
		}
		logger.Warnf("Connection test failed for id=%d: %v", id, probeErr)
		return nil, fmt.Errorf("connection test failed: %v", probeErr)
	}

	now := time.Now()
	var uptime int64
	if result.Server != nil {
		uptime = result.Server.Uptime
	}
	if uerr := s.repo.UpdateHealth(nil, id, models.StatusConnected, &now, uptime, ""); uerr != nil {
		logger.Errorf("Failed to update connection status for id=%d: %v", id, uerr)
		return nil, fmt.Errorf("failed to update connection status: %v", uerr)
	}

	logger.Infof("Connection test successful for id=%d (%.1fms)", id, result.ResponseTime)
	return result, nil
}
