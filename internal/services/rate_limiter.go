package services

import (
	"context"
	"fmt"
	"time"

	"civic-commons/townhall/internal/apperrors"
	"civic-commons/townhall/internal/config"
	"civic-commons/townhall/internal/constants"
	"civic-commons/townhall/internal/metrics"
)

type reportCounter interface {
	CountReportedSince(ctx context.Context, reporterID string, since time.Time) (int64, error)
}

type verificationCounter interface {
	CountByUserSince(ctx context.Context, userID string, since time.Time) (int64, error)
}

// RateLimiter counts a user's own records over a rolling window ending now.
type RateLimiter struct {
	reports          reportCounter
	verifications    verificationCounter
	maxIssues        int
	maxVerifications int
	window           time.Duration
	now              func() time.Time
	metrics          *metrics.MetricsRegistry
}

func NewRateLimiter(reports reportCounter, verifications verificationCounter, cfg *config.Config, m *metrics.MetricsRegistry) *RateLimiter {
	return &RateLimiter{
		reports:          reports,
		verifications:    verifications,
		maxIssues:        cfg.MaxIssuesPerWindow,
		maxVerifications: cfg.MaxVerificationsPerWindow,
		window:           cfg.RateLimitWindow,
		now:              func() time.Time { return time.Now().UTC() },
		metrics:          m,
	}
}

func (l *RateLimiter) CheckIssueQuota(ctx context.Context, userID string) error {
	count, err := l.reports.CountReportedSince(ctx, userID, l.now().Add(-l.window))
	if err != nil {
		return apperrors.Internal("failed to check issue quota", err)
	}
	if count >= int64(l.maxIssues) {
		l.metrics.RecordRateLimited("issue")
		return apperrors.RateLimited(fmt.Sprintf(constants.MsgIssueRateLimited, l.maxIssues))
	}
	return nil
}

// CheckVerificationQuota counts existence and resolution verifications together.
func (l *RateLimiter) CheckVerificationQuota(ctx context.Context, userID string) error {
	count, err := l.verifications.CountByUserSince(ctx, userID, l.now().Add(-l.window))
	if err != nil {
		return apperrors.Internal("failed to check verification quota", err)
	}
	if count >= int64(l.maxVerifications) {
		l.metrics.RecordRateLimited("verification")
		return apperrors.RateLimited(fmt.Sprintf(constants.MsgVerifyRateLimited, l.maxVerifications))
	}
	return nil
}
