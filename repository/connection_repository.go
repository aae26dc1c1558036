package repository

import (
	"time"

	"github.com/michaelkaiserz/mongomanager/config"
	"github.com/michaelkaiserz/mongomanager/models"

	"gorm.io/gorm"
)

// ConnectionRepository provides data access operations for registered
// MongoDB connection records.
type ConnectionRepository interface {
	GetByID(tx *gorm.DB, id uint) (*models.Connection, error)
	GetAll(tx *gorm.DB) ([]models.Connection, error)
	FindActive(tx *gorm.DB) ([]models.Connection, error)
	Create(tx *gorm.DB, conn *models.Connection) error
	Update(tx *gorm.DB, conn *models.Connection) error
	UpdateHealth(tx *gorm.DB, id uint, status string, lastConnected *time.Time, uptime int64, errorMessage string) error
	DeleteByID(tx *gorm.DB, id uint) error
}

type connectionRepository struct {
	db *gorm.DB
}

// NewConnectionRepository creates a new connection repository instance.
func NewConnectionRepository() ConnectionRepository {
	return &connectionRepository{
		db: config.DB,
	}
}

func (r *connectionRepository) GetByID(tx *gorm.DB, id uint) (*models.Connection, error) {
	db := tx
	if db == nil {
		db = r.db
	}

	var conn models.Connection
	if err := db.Where("id = ?", id).First(&conn).Error; err != nil {
		return nil, err
	}
	return &conn, nil
}

func (r *connectionRepository) GetAll(tx *gorm.DB) ([]models.Connection, error) {
	db := tx
	if db == nil {
		db = r.db
	}

	var conns []models.Connection
	if err := db.Order("id").Find(&conns).Error; err != nil {
		return nil, err
	}
	return conns, nil
}

func (r *connectionRepository) FindActive(tx *gorm.DB) ([]models.Connection, error) {
	db := tx
	if db == nil {
		db = r.db
	}

	var conns []models.Connection
	if err := db.Where("is_active = ?", true).Order("id").Find(&conns).Error; err != nil {
		return nil, err
	}
	return conns, nil
}

func (r *connectionRepository) Create(tx *gorm.DB, conn *models.Connection) error {
	db := tx
	if db == nil {
		db = r.db
	}
	return db.Create(conn).Error
}

func (r *connectionRepository) Update(tx *gorm.DB, conn *models.Connection) error {
	db := tx
	if db == nil {
		db = r.db
	}
	return db.Save(conn).Error
}

// UpdateHealth writes only the scheduler-owned health fields so user edits
// to connection settings cannot be clobbered by a concurrent probe result.
func (r *connectionRepository) UpdateHealth(tx *gorm.DB, id uint, status string, lastConnected *time.Time, uptime int64, errorMessage string) error {
	db := tx
	if db == nil {
		db = r.db
	}

	updates := map[string]interface{}{
		"status":        status,
		"uptime":        uptime,
		"error_message": errorMessage,
	}
	if lastConnected != nil {
		updates["last_connected"] = lastConnected
	}
	return db.Model(&models.Connection{}).Where("id = ?", id).Updates(updates).Error
}

func (r *connectionRepository) DeleteByID(tx *gorm.DB, id uint) error {
	db := tx
	if db == nil {
		db = r.db
	}
	return db.Delete(&models.Connection{}, id).Error
}
