package database

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"topodash/internal/models"
)

// Trail records successful dashboard mutations. A Trail without a database
// accepts every call and stores nothing.
type Trail struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewTrail(db *gorm.DB, log *slog.Logger) *Trail {
	if log == nil {
		log = slog.Default()
	}
	return &Trail{db: db, log: log}
}

func (t *Trail) Enabled() bool {
	return t != nil && t.db != nil
}

// Record never fails the caller; a write error is only logged.
func (t *Trail) Record(ctx context.Context, username string, role models.UserRole, entity string, entityID int64, action, details string) {
	if !t.Enabled() {
		return
	}
	entry := models.AuditLog{
		Username: username,
		Role:     role,
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Details:  details,
	}
	if err := t.db.WithContext(ctx).Create(&entry).Error; err != nil {
		t.log.Error("[Audit] failed to record", "entity", entity, "id", entityID, "action", action, "error", err)
	}
}

// Recent returns the latest entries, newest first.
func (t *Trail) Recent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	if !t.Enabled() {
		return nil, nil
	}
	if limit <= 0 {
		limit = 200
	}
	var logs []models.AuditLog
	if err := t.db.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to load audit log: %w", err)
	}
	return logs, nil
}
