package api

import (
	"time"

	"civic-commons/townhall/internal/auth"
	"civic-commons/townhall/internal/common"
	"civic-commons/townhall/internal/config"
	"civic-commons/townhall/internal/constants"
	"civic-commons/townhall/internal/db/repositories"
	"civic-commons/townhall/internal/jobs"
	"civic-commons/townhall/internal/metrics"
	"civic-commons/townhall/internal/services"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const communityStatsTTL = 30 * time.Second

type Repositories struct {
	Store *repositories.Store
	Stats *repositories.CommunityStatsRepository
}

type Services struct {
	Tokens      *auth.TokenService
	Issues      *services.IssueLifecycleService
	Users       *services.UserService
	Leaderboard *services.LeaderboardService
	Stats       *services.CommunityStatsService
	WeeklyReset *services.WeeklyResetService
	ResetJob    *jobs.WeeklyResetJob
	Notifier    services.Notifier

	// PushQueue and Redis are nil when redis is disabled.
	PushQueue  *common.RedisQueueService
	PushDedupe common.CacheInterface
	Redis      *redis.Client
}

type Dependencies struct {
	Config   *config.Config
	Repo     *Repositories
	Services *Services
	Metrics  *metrics.MetricsRegistry
}

// InitDependencies wires repositories and services. redisClient may be nil.
func InitDependencies(cfg *config.Config, orm *gorm.DB, sqlxDB *sqlx.DB, redisClient *redis.Client, m *metrics.MetricsRegistry) (*Dependencies, error) {
	repos := &Repositories{
		Store: repositories.NewStore(orm),
		Stats: repositories.NewCommunityStatsRepository(sqlxDB),
	}

	svcs := &Services{
		Tokens: auth.NewTokenService(cfg.JWTSecret, cfg.JWTTTL),
		Redis:  redisClient,
	}

	var pushQueue services.PushQueue
	if redisClient != nil {
		svcs.PushQueue = common.NewRedisQueueService(redisClient, constants.PushStreamName)
		svcs.PushDedupe = common.NewRedisCacheService(redisClient)
		pushQueue = svcs.PushQueue
	} else {
		svcs.PushDedupe = common.NewCacheService(cfg.PushDedupeTTL, time.Minute)
	}

	svcs.Notifier = services.NewNotificationDispatcher(repos.Store.Notifications, pushQueue, m)
	svcs.Issues = services.NewIssueLifecycleService(repos.Store, cfg, svcs.Notifier, m)
	svcs.Users = services.NewUserService(repos.Store, svcs.Tokens)
	svcs.Leaderboard = services.NewLeaderboardService(repos.Store)
	svcs.Stats = services.NewCommunityStatsService(repos.Stats, common.NewCacheService(communityStatsTTL, time.Minute), communityStatsTTL)
	svcs.WeeklyReset = services.NewWeeklyResetService(repos.Store, m)
	svcs.ResetJob = jobs.NewWeeklyResetJob(svcs.WeeklyReset, m)

	return &Dependencies{
		Config:   cfg,
		Repo:     repos,
		Services: svcs,
		Metrics:  m,
	}, nil
}
