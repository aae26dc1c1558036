package monitor

import (
	"time"

	"github.com/michaelkaiserz/mongomanager/models"
	"github.com/michaelkaiserz/mongomanager/repository"
)

// registryStore adapts the gorm-backed connection repository to the narrow
// ConnectionStore surface the scheduler needs.
type registryStore struct {
	repo repository.ConnectionRepository
}

// NewRegistryStore wraps a connection repository as a ConnectionStore.
func NewRegistryStore(repo repository.ConnectionRepository) ConnectionStore {
	return &registryStore{repo: repo}
}

func (r *registryStore) FindActive() ([]models.Connection, error) {
	return r.repo.FindActive(nil)
}

func (r *registryStore) UpdateHealth(id uint, status string, lastConnected *time.Time, uptime int64, errorMessage string) error {
	return r.repo.UpdateHealth(nil, id, status, lastConnected, uptime, errorMessage)
}
