package services

import (
	"context"
	"time"

	"civic-commons/townhall/internal/apperrors"
	"civic-commons/townhall/internal/constants"
	"civic-commons/townhall/internal/db/repositories"
	"civic-commons/townhall/internal/logging"
	"civic-commons/townhall/internal/metrics"
)

// WeeklyResetPeriod is how old the marker must be before weekly points are zeroed again.
const WeeklyResetPeriod = 7 * 24 * time.Hour

type ResetResult struct {
	Reset      bool       `json:"reset"`
	ResetAt    *time.Time `json:"resetAt,omitempty"`
	UsersReset int64      `json:"usersReset"`
}

// WeeklyResetService zeroes weekly points at most once per period, however often it is called.
type WeeklyResetService struct {
	store   *repositories.Store
	now     func() time.Time
	metrics *metrics.MetricsRegistry
}

func NewWeeklyResetService(store *repositories.Store, m *metrics.MetricsRegistry) *WeeklyResetService {
	return &WeeklyResetService{
		store:   store,
		now:     func() time.Time { return time.Now().UTC() },
		metrics: m,
	}
}

// ResetWeeklyPointsIfDue claims the marker and zeroes balances in one transaction.
// A concurrent caller either blocks on the marker row and then sees it fresh, or loses the insert.
func (s *WeeklyResetService) ResetWeeklyPointsIfDue(ctx context.Context) (*ResetResult, error) {
	now := s.now()
	result := &ResetResult{}

	err := s.store.WithinTransaction(ctx, func(tx *repositories.Store) error {
		claimed, err := tx.Settings.ClaimReset(ctx, constants.SettingWeeklyReset, now, now.Add(-WeeklyResetPeriod))
		if err != nil {
			return err
		}
		if !claimed {
			return nil
		}
		n, err := tx.Users.ResetWeeklyPoints(ctx)
		if err != nil {
			return err
		}
		result.Reset = true
		result.ResetAt = &now
		result.UsersReset = n
		return nil
	})
	if err != nil {
		logging.Error("Weekly reset failed", "error", err)
		return nil, apperrors.Internal("weekly reset failed", err)
	}

	if result.Reset {
		s.metrics.RecordWeeklyReset()
		logging.Info("Weekly points reset", "users_reset", result.UsersReset, "reset_at", now)
	}
	return result, nil
}

func (s *WeeklyResetService) LastResetAt(ctx context.Context) (*time.Time, error) {
	at, err := s.store.Settings.LastResetAt(ctx, constants.SettingWeeklyReset)
	if err != nil {
		return nil, apperrors.Internal("failed to read weekly reset marker", err)
	}
	return at, nil
}
