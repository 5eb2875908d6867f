package jobs

import (
	"context"
	"time"
)

type JobsContainer struct {
	WeeklyReset *WeeklyResetJob
}

// InitializeJobs starts all background jobs
func InitializeJobs(ctx context.Context, weekly *WeeklyResetJob, interval time.Duration) *JobsContainer {
	go weekly.RunScheduled(ctx, interval)
	return &JobsContainer{WeeklyReset: weekly}
}
