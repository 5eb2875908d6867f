package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"civic-commons/townhall/internal/common"
	"civic-commons/townhall/internal/constants"
	"civic-commons/townhall/internal/metrics"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
)

type recordingSender struct {
	mu    sync.Mutex
	sent  []*common.PushQueueItem
	fails int
}

func (s *recordingSender) Send(_ context.Context, item *common.PushQueueItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fails > 0 {
		s.fails--
		return errors.New("provider unavailable")
	}
	s.sent = append(s.sent, item)
	return nil
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func newTestWorker(t *testing.T) (*PushQueueWorker, *common.RedisQueueService, *recordingSender, *metrics.MetricsRegistry) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	queue := common.NewRedisQueueService(client, constants.PushStreamName)
	cache := common.NewCacheService(time.Minute, time.Minute)
	sender := &recordingSender{}
	m := metrics.NewMetricsRegistry()

	w := NewPushQueueWorker("test", queue, sender, cache, time.Minute, m)
	w.blockTime = 10 * time.Millisecond
	if err := queue.CreateConsumerGroup(context.Background(), w.group); err != nil {
		t.Fatalf("CreateConsumerGroup: %v", err)
	}
	return w, queue, sender, m
}

func TestPushQueueWorker_DeliversAndDeduplicates(t *testing.T) {
	ctx := context.Background()
	w, queue, sender, m := newTestWorker(t)

	items := []*common.PushQueueItem{
		{NotificationID: "n1", UserID: "u1", Tag: "i1:APPROVE", Body: "approved"},
		{NotificationID: "n2", UserID: "u1", Tag: "i1:APPROVE", Body: "approved again"},
		{NotificationID: "n3", UserID: "u2", Tag: "i1:APPROVE", Body: "other user"},
	}
	if err := queue.EnqueueBatch(ctx, items); err != nil {
		t.Fatalf("EnqueueBatch: %v", err)
	}

	for i := 0; i < len(items); i++ {
		ok, err := w.processOne(ctx, "c1")
		if err != nil || !ok {
			t.Fatalf("processOne %d: ok=%v err=%v", i, ok, err)
		}
	}
	if ok, err := w.processOne(ctx, "c1"); ok || err != nil {
		t.Fatalf("empty stream: ok=%v err=%v", ok, err)
	}

	if sender.count() != 2 {
		t.Fatalf("expected 2 pushes after dedupe, got %d", sender.count())
	}
	if pending, _ := queue.PendingCount(ctx, w.group); pending != 0 {
		t.Fatalf("expected everything acked, %d pending", pending)
	}
	if got := testutil.ToFloat64(m.NotificationsTotal.WithLabelValues("push", "duplicate")); got != 1 {
		t.Fatalf("expected 1 duplicate recorded, got %v", got)
	}
}

func TestPushQueueWorker_FailedSendCanBeRetried(t *testing.T) {
	ctx := context.Background()
	w, _, sender, _ := newTestWorker(t)
	sender.fails = 1

	item := &common.PushQueueItem{NotificationID: "n1", UserID: "u1", Tag: "t"}
	if err := w.deliver(ctx, item); err == nil {
		t.Fatal("expected send failure")
	}
	// The dedupe key is released on failure.
	if err := w.deliver(ctx, item); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if sender.count() != 1 {
		t.Fatalf("expected 1 push, got %d", sender.count())
	}
}

func TestPushQueueWorker_StartStopsOnCancel(t *testing.T) {
	w, queue, sender, _ := newTestWorker(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- w.Start(ctx, 2) }()

	if err := queue.Enqueue(context.Background(), &common.PushQueueItem{NotificationID: "n1", UserID: "u1", Tag: "t"}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for sender.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
	if sender.count() != 1 {
		t.Fatalf("expected the push delivered, got %d", sender.count())
	}
}

func TestPushQueueMonitor_Stats(t *testing.T) {
	ctx := context.Background()
	_, queue, _, m := newTestWorker(t)
	queue.Enqueue(ctx, &common.PushQueueItem{NotificationID: "n1", UserID: "u1"})
	queue.Enqueue(ctx, &common.PushQueueItem{NotificationID: "n2", UserID: "u1"})

	stats, err := NewPushQueueMonitor(queue, m).Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.QueueLength != 2 || stats.PendingCount != 0 || stats.Status != "OK" {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if got := testutil.ToFloat64(m.PushQueueLength); got != 2 {
		t.Fatalf("expected gauge 2, got %v", got)
	}
}
