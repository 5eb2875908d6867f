package jobs

import (
	"context"
	"time"

	"civic-commons/townhall/internal/logging"
	"civic-commons/townhall/internal/metrics"
	"civic-commons/townhall/internal/services"
)

type weeklyResetter interface {
	ResetWeeklyPointsIfDue(ctx context.Context) (*services.ResetResult, error)
}

// WeeklyResetJob polls the weekly reset. The service decides whether a reset is due, so
// polling more often than weekly is harmless.
type WeeklyResetJob struct {
	resetter weeklyResetter
	metrics  *metrics.MetricsRegistry
}

func NewWeeklyResetJob(resetter weeklyResetter, m *metrics.MetricsRegistry) *WeeklyResetJob {
	return &WeeklyResetJob{resetter: resetter, metrics: m}
}

// Run performs one check.
func (j *WeeklyResetJob) Run(ctx context.Context) (*services.ResetResult, error) {
	start := time.Now()
	defer func() {
		if j.metrics != nil {
			j.metrics.JobDuration.WithLabelValues("weekly_reset").Observe(time.Since(start).Seconds())
		}
	}()

	res, err := j.resetter.ResetWeeklyPointsIfDue(ctx)
	if err != nil {
		return nil, err
	}
	if !res.Reset {
		logging.Debug("WeeklyResetJob: not due yet")
	}
	return res, nil
}

// RunScheduled checks once immediately and then every interval until ctx is done.
func (j *WeeklyResetJob) RunScheduled(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if _, err := j.Run(ctx); err != nil {
		logging.Error("WeeklyResetJob: initial run failed", "error", err)
	}

	for {
		select {
		case <-ticker.C:
			if _, err := j.Run(ctx); err != nil {
				logging.Error("WeeklyResetJob: scheduled run failed", "error", err)
			}
		case <-ctx.Done():
			logging.Info("WeeklyResetJob: shutting down scheduled reset")
			return
		}
	}
}
