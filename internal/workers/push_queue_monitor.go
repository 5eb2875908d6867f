package workers

import (
	"context"
	"time"

	"civic-commons/townhall/internal/constants"
	"civic-commons/townhall/internal/logging"
	"civic-commons/townhall/internal/metrics"
)

const (
	pendingAlertThreshold = 1000
	lengthAlertThreshold  = 5000
)

type queueInspector interface {
	Length(ctx context.Context) (int64, error)
	PendingCount(ctx context.Context, groupName string) (int64, error)
	Trim(ctx context.Context, maxLen int64) error
}

// QueueStats is a snapshot of the push stream
type QueueStats struct {
	QueueLength  int64     `json:"queueLength"`
	PendingCount int64     `json:"pendingCount"`
	Status       string    `json:"status"`
	LastChecked  time.Time `json:"lastChecked"`
}

// PushQueueMonitor reports stream health and keeps the stream bounded.
type PushQueueMonitor struct {
	queue   queueInspector
	metrics *metrics.MetricsRegistry
}

func NewPushQueueMonitor(queue queueInspector, m *metrics.MetricsRegistry) *PushQueueMonitor {
	return &PushQueueMonitor{queue: queue, metrics: m}
}

func (m *PushQueueMonitor) Start(ctx context.Context, interval time.Duration) {
	logging.Info("PushQueueMonitor: starting", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.check(ctx)
	for {
		select {
		case <-ctx.Done():
			logging.Info("PushQueueMonitor: shutting down")
			return
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

func (m *PushQueueMonitor) check(ctx context.Context) {
	stats, err := m.Stats(ctx)
	if err != nil {
		logging.Warn("PushQueueMonitor: failed to read stats", "error", err)
		return
	}
	if stats.Status != "OK" {
		logging.Warn("PushQueueMonitor: push queue needs attention",
			"length", stats.QueueLength, "pending", stats.PendingCount, "status", stats.Status)
		return
	}
	logging.Debug("PushQueueMonitor: push queue healthy", "length", stats.QueueLength, "pending", stats.PendingCount)
}

// Stats reads the stream length and pending count and updates the queue gauge.
func (m *PushQueueMonitor) Stats(ctx context.Context) (*QueueStats, error) {
	length, err := m.queue.Length(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := m.queue.PendingCount(ctx, constants.PushConsumerGroup)
	if err != nil {
		// No consumer group yet.
		pending = 0
	}

	if m.metrics != nil {
		m.metrics.PushQueueLength.Set(float64(length))
	}

	status := "OK"
	switch {
	case pending > pendingAlertThreshold:
		status = "HIGH PENDING"
	case length > lengthAlertThreshold:
		status = "HIGH QUEUE"
	}
	return &QueueStats{QueueLength: length, PendingCount: pending, Status: status, LastChecked: time.Now().UTC()}, nil
}

// StartAutoTrim caps the stream at maxLen entries every interval.
func (m *PushQueueMonitor) StartAutoTrim(ctx context.Context, interval time.Duration, maxLen int64) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.queue.Trim(ctx, maxLen); err != nil {
				logging.Warn("PushQueueMonitor: trim failed", "error", err)
			}
		}
	}
}
