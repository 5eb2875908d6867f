package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"civic-commons/townhall/internal/constants"
	gormModels "civic-commons/townhall/internal/models/gorm"

	"gorm.io/gorm"
)

type VerificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

// Create inserts the record; the (issue, user, kind) unique index turns a repeat into ErrDuplicate.
func (r *VerificationRepository) Create(ctx context.Context, v *gormModels.Verification) error {
	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create verification: %w", err)
	}
	return nil
}

func (r *VerificationRepository) Exists(ctx context.Context, issueID, userID string, kind constants.VerificationKind) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.Verification{}).
		Where("issue_id = ? AND user_id = ? AND kind = ?", issueID, userID, kind).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check verification: %w", err)
	}
	return count > 0, nil
}

// CountByUserSince counts verifications of either kind made by the user at or after since.
func (r *VerificationRepository) CountByUserSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.Verification{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count verifications: %w", err)
	}
	return count, nil
}

func (r *VerificationRepository) ListByIssue(ctx context.Context, issueID string) ([]gormModels.Verification, error) {
	var out []gormModels.Verification
	err := r.db.WithContext(ctx).
		Where("issue_id = ?", issueID).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list verifications: %w", err)
	}
	return out, nil
}
