package gorm

import (
	"civic-commons/townhall/internal/constants"
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

// AuditLogEntry is append-only. One row per transition, written in the transition's transaction.
type AuditLogEntry struct {
	ID           string                `gorm:"column:id;primaryKey;type:uuid"`
	IssueID      string                `gorm:"column:issue_id;type:uuid;index;not null"`
	PerformedBy  string                `gorm:"column:performed_by;type:uuid;not null"`
	Action       constants.AuditAction `gorm:"column:action;type:varchar(48);not null"`
	FromStatus   constants.IssueStatus `gorm:"column:from_status;type:varchar(32);not null"`
	ToStatus     constants.IssueStatus `gorm:"column:to_status;type:varchar(32);not null"`
	PointsChange *int                  `gorm:"column:points_change"`
	CreatedAt    time.Time             `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (AuditLogEntry) TableName() string {
	return "issue_audit_logs"
}

func (a *AuditLogEntry) BeforeCreate(tx *gormlib.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
