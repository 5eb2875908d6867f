package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"civic-commons/townhall/internal/common"
	"civic-commons/townhall/internal/constants"
	"civic-commons/townhall/internal/logging"
	"civic-commons/townhall/internal/metrics"
)

// PushSender delivers one push to a device channel.
type PushSender interface {
	Send(ctx context.Context, item *common.PushQueueItem) error
}

// LogPushSender writes pushes to the log. Used until a real push provider is configured.
type LogPushSender struct{}

func (LogPushSender) Send(_ context.Context, item *common.PushQueueItem) error {
	logging.Named("push").Infow("Push delivered",
		"user_id", item.UserID, "issue_id", item.IssueID, "type", item.Type, "title", item.Title, "tag", item.Tag)
	return nil
}

type pushQueue interface {
	Dequeue(ctx context.Context, groupName, consumerName string, blockTime time.Duration) (*common.PushQueueItem, string, error)
	Ack(ctx context.Context, groupName, messageID string) error
	CreateConsumerGroup(ctx context.Context, groupName string) error
	ClaimStale(ctx context.Context, groupName, consumerName string, minIdle time.Duration) ([]*common.PushQueueItem, []string, error)
}

// PushQueueWorker drains the outbound push stream
type PushQueueWorker struct {
	workerID  string
	group     string
	queue     pushQueue
	sender    PushSender
	dedupe    common.CacheInterface
	dedupeTTL time.Duration
	metrics   *metrics.MetricsRegistry

	blockTime     time.Duration
	claimInterval time.Duration
	staleAfter    time.Duration
}

func NewPushQueueWorker(
	workerID string,
	queue pushQueue,
	sender PushSender,
	dedupe common.CacheInterface,
	dedupeTTL time.Duration,
	m *metrics.MetricsRegistry,
) *PushQueueWorker {
	return &PushQueueWorker{
		workerID:      workerID,
		group:         constants.PushConsumerGroup,
		queue:         queue,
		sender:        sender,
		dedupe:        dedupe,
		dedupeTTL:     dedupeTTL,
		metrics:       m,
		blockTime:     5 * time.Second,
		claimInterval: 2 * time.Minute,
		staleAfter:    5 * time.Minute,
	}
}

// Start runs numWorkers consumers plus a stale-message claimer until ctx is done.
func (w *PushQueueWorker) Start(ctx context.Context, numWorkers int) error {
	if err := w.queue.CreateConsumerGroup(ctx, w.group); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
	logging.Info("PushQueueWorker: starting", "workers", numWorkers, "id", w.workerID)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		consumer := fmt.Sprintf("%s-%d", w.workerID, i)
		go func() {
			defer wg.Done()
			w.processQueue(ctx, consumer)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		w.claimStaleMessages(ctx)
	}()

	wg.Wait()
	logging.Info("PushQueueWorker: all workers stopped", "id", w.workerID)
	return nil
}

func (w *PushQueueWorker) processQueue(ctx context.Context, consumer string) {
	var processed, failed int
	for {
		select {
		case <-ctx.Done():
			logging.Info("PushQueueWorker: consumer stopping", "consumer", consumer, "processed", processed, "failed", failed)
			return
		default:
		}

		ok, err := w.processOne(ctx, consumer)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			failed++
			logging.Warn("PushQueueWorker: processing failed", "consumer", consumer, "error", err)
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
			continue
		}
		if ok {
			processed++
		}
	}
}

// processOne handles at most one message. It reports false when the block timed out empty.
func (w *PushQueueWorker) processOne(ctx context.Context, consumer string) (bool, error) {
	item, messageID, err := w.queue.Dequeue(ctx, w.group, consumer, w.blockTime)
	if err != nil {
		if messageID != "" {
			// Undecodable; acknowledging drops it for good.
			w.ack(ctx, messageID)
		}
		return false, err
	}
	if item == nil {
		return false, nil
	}

	deliverErr := w.deliver(ctx, item)
	// Acked either way; a failed push is not retried.
	w.ack(ctx, messageID)
	return true, deliverErr
}

// deliver sends the push unless the same tag already went to the same user recently.
func (w *PushQueueWorker) deliver(ctx context.Context, item *common.PushQueueItem) error {
	key := string(constants.CachePrefixPushSent) + item.UserID + ":" + item.Tag
	if w.dedupe != nil && !w.dedupe.SetIfAbsent(key, item.NotificationID, w.dedupeTTL) {
		w.metrics.RecordNotification("push", "duplicate")
		logging.Debug("PushQueueWorker: duplicate push dropped", "key", key)
		return nil
	}

	if err := w.sender.Send(ctx, item); err != nil {
		if w.dedupe != nil {
			w.dedupe.Delete(key)
		}
		w.metrics.RecordNotification("push", "failed")
		return fmt.Errorf("failed to send push %s: %w", item.NotificationID, err)
	}
	w.metrics.RecordNotification("push", "sent")
	return nil
}

func (w *PushQueueWorker) ack(ctx context.Context, messageID string) {
	if err := w.queue.Ack(ctx, w.group, messageID); err != nil {
		logging.Warn("PushQueueWorker: ack failed", "message_id", messageID, "error", err)
	}
}

func (w *PushQueueWorker) claimStaleMessages(ctx context.Context) {
	ticker := time.NewTicker(w.claimInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.claimOnce(ctx)
		}
	}
}

func (w *PushQueueWorker) claimOnce(ctx context.Context) int {
	items, ids, err := w.queue.ClaimStale(ctx, w.group, w.workerID+"-claimer", w.staleAfter)
	if err != nil {
		logging.Warn("PushQueueWorker: claiming stale messages failed", "error", err)
		return 0
	}
	if len(items) > 0 {
		logging.Info("PushQueueWorker: claimed stale messages", "count", len(items))
	}
	for i, item := range items {
		if err := w.deliver(ctx, item); err != nil {
			logging.Warn("PushQueueWorker: claimed push failed", "error", err)
		}
		w.ack(ctx, ids[i])
	}
	return len(items)
}
