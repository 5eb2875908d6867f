package services

import (
	"context"
	"time"

	"civic-commons/townhall/internal/common"
	"civic-commons/townhall/internal/constants"
	"civic-commons/townhall/internal/logging"
	"civic-commons/townhall/internal/metrics"
	gormModels "civic-commons/townhall/internal/models/gorm"
)

// Notice is one message for one user about one issue.
type Notice struct {
	UserID  string
	IssueID string
	Type    constants.NotificationType
	Message string
	// Tag groups pushes about the same event so the worker can drop repeats.
	Tag string
}

// Notifier delivers notices after a transition has committed. It never fails the caller.
type Notifier interface {
	Dispatch(ctx context.Context, notices ...Notice)
}

type notificationWriter interface {
	CreateBatch(ctx context.Context, notifications []gormModels.Notification) error
}

// PushQueue is the outbound push channel.
type PushQueue interface {
	EnqueueBatch(ctx context.Context, items []*common.PushQueueItem) error
}

// NotificationDispatcher persists notices and hands them to the push queue when there is one.
type NotificationDispatcher struct {
	notifications notificationWriter
	queue         PushQueue
	metrics       *metrics.MetricsRegistry
}

// NewNotificationDispatcher builds a dispatcher. queue may be nil when redis is disabled.
func NewNotificationDispatcher(notifications notificationWriter, queue PushQueue, m *metrics.MetricsRegistry) *NotificationDispatcher {
	return &NotificationDispatcher{notifications: notifications, queue: queue, metrics: m}
}

func (d *NotificationDispatcher) Dispatch(ctx context.Context, notices ...Notice) {
	if len(notices) == 0 {
		return
	}
	// The request may already be finishing; delivery must not be cut short by it.
	ctx = context.WithoutCancel(ctx)

	rows := make([]gormModels.Notification, 0, len(notices))
	tags := make([]string, 0, len(notices))
	for _, n := range notices {
		if n.UserID == "" {
			continue
		}
		row := gormModels.Notification{UserID: n.UserID, Type: n.Type, Message: n.Message}
		if n.IssueID != "" {
			issueID := n.IssueID
			row.IssueID = &issueID
		}
		rows = append(rows, row)
		tags = append(tags, n.Tag)
	}
	if len(rows) == 0 {
		return
	}

	if err := d.notifications.CreateBatch(ctx, rows); err != nil {
		d.metrics.RecordNotification("store", "failed")
		logging.Warn("Failed to store notifications", "count", len(rows), "error", err)
		return
	}
	d.metrics.RecordNotification("store", "ok")

	if d.queue == nil {
		return
	}

	now := time.Now().UTC().Format(time.RFC3339)
	items := make([]*common.PushQueueItem, 0, len(rows))
	for i, row := range rows {
		issueID := ""
		if row.IssueID != nil {
			issueID = *row.IssueID
		}
		tag := tags[i]
		if tag == "" {
			tag = row.ID
		}
		items = append(items, &common.PushQueueItem{
			NotificationID: row.ID,
			UserID:         row.UserID,
			IssueID:        issueID,
			Type:           string(row.Type),
			Title:          pushTitle(row.Type),
			Body:           row.Message,
			Tag:            tag,
			EnqueuedAt:     now,
		})
	}

	if err := d.queue.EnqueueBatch(ctx, items); err != nil {
		d.metrics.RecordNotification("push", "enqueue_failed")
		logging.Warn("Failed to enqueue pushes", "count", len(items), "error", err)
		return
	}
	d.metrics.RecordNotification("push", "enqueued")
}

func pushTitle(t constants.NotificationType) string {
	switch t {
	case constants.NotificationVerifyRequest:
		return "Verification needed nearby"
	case constants.NotificationAdminInfo:
		return "Issue update for admins"
	default:
		return "Your issue was updated"
	}
}
