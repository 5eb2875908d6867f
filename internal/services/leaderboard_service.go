package services

import (
	"context"
	"time"

	"civic-commons/townhall/internal/apperrors"
	"civic-commons/townhall/internal/auth"
	"civic-commons/townhall/internal/constants"
	"civic-commons/townhall/internal/db/repositories"
	gormModels "civic-commons/townhall/internal/models/gorm"

	"golang.org/x/sync/errgroup"
)

type LeaderboardEntry struct {
	Rank         int    `json:"rank"`
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	WeeklyPoints int    `json:"weeklyPoints"`
	CivicPoints  int    `json:"civicPoints"`
}

type Leaderboard struct {
	CommunityName string             `json:"communityName"`
	Entries       []LeaderboardEntry `json:"entries"`
	LastResetAt   *time.Time         `json:"lastResetAt"`
}

type LeaderboardService struct {
	store *repositories.Store
}

func NewLeaderboardService(store *repositories.Store) *LeaderboardService {
	return &LeaderboardService{store: store}
}

// GetLeaderboard returns the actor's community top three by weekly points and the last reset time.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, actor auth.UserClaims) (*Leaderboard, error) {
	if actor == nil || actor.UserID() == "" {
		return nil, apperrors.Unauthenticated(constants.MsgUnauthenticated)
	}
	return s.ForCommunity(ctx, actor.CommunityName())
}

func (s *LeaderboardService) ForCommunity(ctx context.Context, communityName string) (*Leaderboard, error) {
	var (
		top       []gormModels.User
		lastReset *time.Time
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		top, err = s.store.Users.TopByWeeklyPoints(gctx, communityName, constants.LeaderboardSize)
		return err
	})
	g.Go(func() error {
		var err error
		lastReset, err = s.store.Settings.LastResetAt(gctx, constants.SettingWeeklyReset)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Internal("failed to load leaderboard", err)
	}

	board := &Leaderboard{CommunityName: communityName, Entries: make([]LeaderboardEntry, 0, len(top)), LastResetAt: lastReset}
	for i, u := range top {
		board.Entries = append(board.Entries, LeaderboardEntry{
			Rank:         i + 1,
			UserID:       u.ID,
			Name:         u.Name,
			WeeklyPoints: u.WeeklyPoints,
			CivicPoints:  u.CivicPoints,
		})
	}
	return board, nil
}
