package repositories

import (
	"context"
	"fmt"

	"civic-commons/townhall/internal/constants"
	"civic-commons/townhall/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

// CommunityStatsRepository serves the read-only community dashboard over sqlx.
type CommunityStatsRepository struct {
	db *sqlx.DB
}

func NewCommunityStatsRepository(db *sqlx.DB) *CommunityStatsRepository {
	return &CommunityStatsRepository{db}
}

func (r *CommunityStatsRepository) CountByStatus(ctx context.Context, communityName string) ([]entities.StatusCount, error) {
	var rows []entities.StatusCount
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(constants.CountIssuesByStatus), communityName); err != nil {
		return nil, fmt.Errorf("failed to count issues by status: %w", err)
	}
	return rows, nil
}

func (r *CommunityStatsRepository) MemberTotals(ctx context.Context, communityName string) (*entities.MemberTotals, error) {
	var totals entities.MemberTotals
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(constants.MemberPointTotals),
		communityName, string(constants.RoleUser)).StructScan(&totals)
	if err != nil {
		return nil, fmt.Errorf("failed to total member points: %w", err)
	}
	return &totals, nil
}

func (r *CommunityStatsRepository) RecentIssues(ctx context.Context, communityName string, limit int) ([]entities.RecentIssue, error) {
	var rows []entities.RecentIssue
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(constants.RecentIssuesByCommunity), communityName, limit); err != nil {
		return nil, fmt.Errorf("failed to list recent issues: %w", err)
	}
	return rows, nil
}

// Ping is used by the health check.
func (r *CommunityStatsRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
