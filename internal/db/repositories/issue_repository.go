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

type IssueRepository struct {
	db *gorm.DB
}

func NewIssueRepository(db *gorm.DB) *IssueRepository {
	return &IssueRepository{db: db}
}

func (r *IssueRepository) Create(ctx context.Context, issue *gormModels.Issue) error {
	if err := r.db.WithContext(ctx).Create(issue).Error; err != nil {
		return fmt.Errorf("failed to create issue: %w", err)
	}
	return nil
}

func (r *IssueRepository) GetByID(ctx context.Context, id string) (*gormModels.Issue, error) {
	var issue gormModels.Issue
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&issue).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch issue: %w", err)
	}
	return &issue, nil
}

// ListOpenInCommunity returns every non-closed issue of a community, oldest first.
func (r *IssueRepository) ListOpenInCommunity(ctx context.Context, communityName string) ([]gormModels.Issue, error) {
	var issues []gormModels.Issue
	err := r.db.WithContext(ctx).
		Where("community_name = ? AND status <> ?", communityName, constants.StatusClosed).
		Order("created_at ASC").
		Find(&issues).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list open issues: %w", err)
	}
	return issues, nil
}

// ListByCommunity returns a community's issues newest first, optionally filtered by status.
func (r *IssueRepository) ListByCommunity(ctx context.Context, communityName string, status *constants.IssueStatus) ([]gormModels.Issue, error) {
	var issues []gormModels.Issue
	q := r.db.WithContext(ctx).Where("community_name = ?", communityName)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if err := q.Order("created_at DESC").Find(&issues).Error; err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	return issues, nil
}

// IncrementSupport adds n to support_count in the database, never in application memory.
func (r *IssueRepository) IncrementSupport(ctx context.Context, id string, n int) error {
	res := r.db.WithContext(ctx).
		Model(&gormModels.Issue{}).
		Where("id = ?", id).
		UpdateColumn("support_count", gorm.Expr("support_count + ?", n))
	if res.Error != nil {
		return fmt.Errorf("failed to increment support: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TransitionStatus moves the issue from one status to another only if it is still in
// `from`. It returns false when another request changed the status first.
func (r *IssueRepository) TransitionStatus(ctx context.Context, id string, from, to constants.IssueStatus, fields map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{"status": to}
	for k, v := range fields {
		updates[k] = v
	}
	res := r.db.WithContext(ctx).
		Model(&gormModels.Issue{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update issue status: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// MarkPointsAwarded flips points_awarded false->true. Only the caller that wins the flip gets true.
func (r *IssueRepository) MarkPointsAwarded(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&gormModels.Issue{}).
		Where("id = ? AND points_awarded = ?", id, false).
		Update("points_awarded", true)
	if res.Error != nil {
		return false, fmt.Errorf("failed to mark points awarded: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *IssueRepository) SetAssignedVerifier(ctx context.Context, id string, verifierID *string) error {
	res := r.db.WithContext(ctx).
		Model(&gormModels.Issue{}).
		Where("id = ?", id).
		Update("assigned_verifier_id", verifierID)
	if res.Error != nil {
		return fmt.Errorf("failed to set assigned verifier: %w", res.Error)
	}
	return nil
}

// CountReportedSince counts the issues a user created at or after since.
func (r *IssueRepository) CountReportedSince(ctx context.Context, reporterID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.Issue{}).
		Where("reporter_id = ? AND created_at >= ?", reporterID, since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count reported issues: %w", err)
	}
	return count, nil
}
