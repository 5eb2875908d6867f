package services

import (
	"context"
	"math"
	"time"

	"civic-commons/townhall/internal/apperrors"
	"civic-commons/townhall/internal/auth"
	"civic-commons/townhall/internal/common"
	"civic-commons/townhall/internal/constants"
	"civic-commons/townhall/internal/models/entities"

	"golang.org/x/sync/errgroup"
)

type statsReader interface {
	CountByStatus(ctx context.Context, communityName string) ([]entities.StatusCount, error)
	MemberTotals(ctx context.Context, communityName string) (*entities.MemberTotals, error)
	RecentIssues(ctx context.Context, communityName string, limit int) ([]entities.RecentIssue, error)
}

type CommunityStats struct {
	CommunityName    string                 `json:"communityName"`
	IssuesByStatus   map[string]int64       `json:"issuesByStatus"`
	TotalIssues      int64                  `json:"totalIssues"`
	Members          int64                  `json:"members"`
	TotalCivicPoints int64                  `json:"totalCivicPoints"`
	AveragePoints    int64                  `json:"averagePoints"`
	ResolutionRate   int64                  `json:"resolutionRate"`
	RecentIssues     []entities.RecentIssue `json:"recentIssues"`
}

type CommunityStatsService struct {
	stats statsReader
	cache common.CacheInterface
	ttl   time.Duration
}

// NewCommunityStatsService builds the service. cache may be nil; with one, results are
// reused for ttl per community.
func NewCommunityStatsService(stats statsReader, cache common.CacheInterface, ttl time.Duration) *CommunityStatsService {
	return &CommunityStatsService{stats: stats, cache: cache, ttl: ttl}
}

func (s *CommunityStatsService) GetStats(ctx context.Context, actor auth.UserClaims) (*CommunityStats, error) {
	if actor == nil || actor.UserID() == "" {
		return nil, apperrors.Unauthenticated(constants.MsgUnauthenticated)
	}
	community := actor.CommunityName()

	cacheKey := string(constants.CachePrefixCommunityStats) + community
	if s.cache != nil {
		if cached, ok := s.cache.Get(cacheKey); ok {
			if stats, ok := cached.(*CommunityStats); ok {
				return stats, nil
			}
		}
	}

	var (
		counts []entities.StatusCount
		totals *entities.MemberTotals
		recent []entities.RecentIssue
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = s.stats.CountByStatus(gctx, community)
		return err
	})
	g.Go(func() error {
		var err error
		totals, err = s.stats.MemberTotals(gctx, community)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.stats.RecentIssues(gctx, community, constants.RecentIssuesLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Internal("failed to load community stats", err)
	}

	out := &CommunityStats{
		CommunityName:  community,
		IssuesByStatus: make(map[string]int64, len(constants.AllIssueStatuses)),
		RecentIssues:   recent,
	}
	if out.RecentIssues == nil {
		out.RecentIssues = []entities.RecentIssue{}
	}
	for _, st := range constants.AllIssueStatuses {
		out.IssuesByStatus[string(st)] = 0
	}
	for _, c := range counts {
		out.IssuesByStatus[c.Status] = c.Count
		out.TotalIssues += c.Count
	}
	if totals != nil {
		out.Members = totals.Members
		out.TotalCivicPoints = totals.TotalPoints
		if totals.Members > 0 {
			out.AveragePoints = int64(math.Round(float64(totals.TotalPoints) / float64(totals.Members)))
		}
	}
	if out.TotalIssues > 0 {
		closed := out.IssuesByStatus[string(constants.StatusClosed)]
		out.ResolutionRate = int64(math.Round(float64(closed) * 100 / float64(out.TotalIssues)))
	}
	if s.cache != nil {
		s.cache.Set(cacheKey, out, s.ttl)
	}
	return out, nil
}
