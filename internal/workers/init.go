package workers

import (
	"context"
	"time"

	"civic-commons/townhall/internal/common"
	"civic-commons/townhall/internal/config"
	"civic-commons/townhall/internal/metrics"
)

const pushStreamMaxLen = 10000

type WorkersContainer struct {
	Push    *PushQueueWorker
	Monitor *PushQueueMonitor
}

// InitWorkers starts the push pipeline in the background. It returns nil when there is no queue.
func InitWorkers(
	ctx context.Context,
	cfg *config.Config,
	queue *common.RedisQueueService,
	dedupe common.CacheInterface,
	m *metrics.MetricsRegistry,
) *WorkersContainer {
	if queue == nil {
		return nil
	}

	push := NewPushQueueWorker("townhall-push", queue, LogPushSender{}, dedupe, cfg.PushDedupeTTL, m)
	monitor := NewPushQueueMonitor(queue, m)

	go push.Start(ctx, cfg.PushWorkers)
	go monitor.Start(ctx, 30*time.Second)
	go monitor.StartAutoTrim(ctx, 10*time.Minute, pushStreamMaxLen)

	return &WorkersContainer{Push: push, Monitor: monitor}
}
