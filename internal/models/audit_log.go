package models

import "time"

// AuditLog is a local record of a mutation performed through the dashboard.
// The backend owns the entities; only the trail lives here.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`

	Username string   `gorm:"size:100;not null"`
	Role     UserRole `gorm:"type:varchar(20)"`

	Entity   string `gorm:"size:50;not null;index:idx_audit_entity"` // "client", "project", ...
	EntityID int64  `gorm:"index:idx_audit_entity"`
	Action   string `gorm:"size:50;not null"` // "create", "start", "deactivate", ...
	Details  string `gorm:"type:text"`
}
