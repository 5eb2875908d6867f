package repositories

import (
	"context"
	"fmt"

	gormModels "civic-commons/townhall/internal/models/gorm"

	"gorm.io/gorm"
)

// AuditLogRepository only ever appends.
type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

func (r *AuditLogRepository) Append(ctx context.Context, entry *gormModels.AuditLogEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func (r *AuditLogRepository) ListByIssue(ctx context.Context, issueID string) ([]gormModels.AuditLogEntry, error) {
	var entries []gormModels.AuditLogEntry
	err := r.db.WithContext(ctx).
		Where("issue_id = ?", issueID).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list audit log: %w", err)
	}
	return entries, nil
}
