package bootstrap

import (
	"fmt"

	"github.com/michaelkaiserz/mongomanager/config"
	"github.com/michaelkaiserz/mongomanager/models"
	"github.com/michaelkaiserz/mongomanager/pkg/logger"
)

// Migrate brings the registry schema up to date and resets transient health
// state left over from a previous run. Every connection starts a fresh
// process in the disconnected state; the first monitor tick re-establishes
// the real status.
func Migrate() error {
	logger.Infof("Running registry schema migration...")

	if err := config.DB.AutoMigrate(&models.Connection{}); err != nil {
		logger.Errorf("Failed to migrate registry schema: %v", err)
		return fmt.Errorf("failed to migrate registry schema: %v", err)
	}

	res := config.DB.Model(&models.Connection{}).
		Where("status <> ?", models.StatusDisconnected).
		Updates(map[string]interface{}{
			"status":        models.StatusDisconnected,
			"error_message": "",
		})
	if res.Error != nil {
		logger.Errorf("Failed to reset connection statuses: %v", res.Error)
		return fmt.Errorf("failed to reset connection statuses: %v", res.Error)
	}
	if res.RowsAffected > 0 {
		logger.Infof("Reset %d connection(s) to disconnected", res.RowsAffected)
	}

	logger.Infof("Registry schema migration completed successfully")
	return nil
}
