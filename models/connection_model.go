package models

import "time"

// Connection status values mirrored by the monitor scheduler.
const (
	StatusDisconnected = "disconnected"
	StatusConnected    = "connected"
	StatusError        = "error"
)

// Connection represents a registered MongoDB instance.
// Stores credentials and connection options for the target server along
// with the last-known health status. The status, last_connected, uptime and
// error_message fields are written exclusively by the monitor scheduler;
// all other fields are edited by the user through the connections API.
type Connection struct {
	ID         uint   `gorm:"primaryKey;column:id" json:"id"`
	Name       string `gorm:"column:name" json:"name" validate:"required"`                  // Connection display name
	Host       string `gorm:"column:host" json:"host" validate:"required"`                  // MongoDB server host
	Port       int    `gorm:"column:port" json:"port" validate:"required,min=1,max=65535"`  // MongoDB server port
	Username   string `gorm:"column:username" json:"username"`                              // Optional authentication username
	Password   string `gorm:"column:password" json:"password"`                              // Optional authentication password
	Database   string `gorm:"column:database;default:admin" json:"database"`                // Admin database used for serverStatus
	AuthSource string `gorm:"column:auth_source" json:"auth_source"`                        // authSource URI option
	TLS        bool   `gorm:"column:tls" json:"tls"`                                        // Enable TLS for the target connection
	ReplicaSet string `gorm:"column:replica_set" json:"replica_set"`                        // replicaSet URI option
	IsActive   bool   `gorm:"column:is_active;default:true" json:"is_active"`               // Inactive connections are never probed

	// Health fields, owned by the monitor scheduler.
	Status        string     `gorm:"column:status;default:disconnected" json:"status"` // disconnected/connected/error
	LastConnected *time.Time `gorm:"column:last_connected" json:"last_connected"`      // Time of the last successful probe
	Uptime        int64      `gorm:"column:uptime" json:"uptime"`                      // Target uptime in seconds, last observed
	ErrorMessage  string     `gorm:"column:error_message" json:"error_message"`        // Non-empty iff status is error

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName specifies the static table name for GORM.
// Required to override GORM's default pluralization behavior.
func (Connection) TableName() string {
	return "connections"
}

// AdminDatabase returns the database serverStatus is issued against,
// defaulting to admin when unset.
func (c *Connection) AdminDatabase() string {
	if c.Database == "" {
		return "admin"
	}
	return c.Database
}
