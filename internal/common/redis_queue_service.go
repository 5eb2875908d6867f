package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"civic-commons/townhall/internal/logging"

	"github.com/redis/go-redis/v9"
)

// RedisQueueService provides queue functionality using Redis Streams
type RedisQueueService struct {
	client *redis.Client
	stream string
}

func NewRedisQueueService(client *redis.Client, stream string) *RedisQueueService {
	return &RedisQueueService{client: client, stream: stream}
}

// PushQueueItem is one outbound push for one notification row.
type PushQueueItem struct {
	NotificationID string `json:"notification_id"`
	UserID         string `json:"user_id"`
	IssueID        string `json:"issue_id,omitempty"`
	Type           string `json:"type"`
	Title          string `json:"title"`
	Body           string `json:"body"`
	// Tag collapses repeated pushes about the same event.
	Tag        string `json:"tag"`
	EnqueuedAt string `json:"enqueued_at"`
}

// Enqueue adds a push to the stream: XADD stream * data <json>
func (s *RedisQueueService) Enqueue(ctx context.Context, item *PushQueueItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal push item: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]interface{}{"data": string(data)},
	}
	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("failed to add to stream: %w", err)
	}
	return nil
}

// EnqueueBatch adds several pushes in one pipeline
func (s *RedisQueueService) EnqueueBatch(ctx context.Context, items []*PushQueueItem) error {
	if len(items) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			logging.Warn("RedisQueue: failed to marshal push item", "notification_id", item.NotificationID, "error", err)
			continue
		}
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: s.stream,
			Values: map[string]interface{}{"data": string(data)},
		})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to execute batch: %w", err)
	}
	return nil
}

// Dequeue reads one new message for the consumer. A nil item with nil error means the block timed out.
func (s *RedisQueueService) Dequeue(ctx context.Context, groupName, consumerName string, blockTime time.Duration) (*PushQueueItem, string, error) {
	streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    groupName,
		Consumer: consumerName,
		Streams:  []string{s.stream, ">"},
		Count:    1,
		Block:    blockTime,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("failed to read from stream: %w", err)
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return nil, "", nil
	}

	msg := streams[0].Messages[0]
	item, err := decodePushItem(msg)
	if err != nil {
		return nil, msg.ID, err
	}
	return item, msg.ID, nil
}

func (s *RedisQueueService) Ack(ctx context.Context, groupName, messageID string) error {
	return s.client.XAck(ctx, s.stream, groupName, messageID).Err()
}

// CreateConsumerGroup creates the group from the start of the stream if it does not exist yet
func (s *RedisQueueService) CreateConsumerGroup(ctx context.Context, groupName string) error {
	err := s.client.XGroupCreateMkStream(ctx, s.stream, groupName, "0").Err()
	if err != nil && strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return nil
	}
	return err
}

func (s *RedisQueueService) Length(ctx context.Context) (int64, error) {
	length, err := s.client.XLen(ctx, s.stream).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue length: %w", err)
	}
	return length, nil
}

func (s *RedisQueueService) PendingCount(ctx context.Context, groupName string) (int64, error) {
	pending, err := s.client.XPending(ctx, s.stream, groupName).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get pending count: %w", err)
	}
	return pending.Count, nil
}

// Trim keeps only the newest maxLen entries
func (s *RedisQueueService) Trim(ctx context.Context, maxLen int64) error {
	return s.client.XTrimMaxLen(ctx, s.stream, maxLen).Err()
}

// ClaimStale takes over messages left pending by a dead consumer for at least minIdle
func (s *RedisQueueService) ClaimStale(ctx context.Context, groupName, consumerName string, minIdle time.Duration) ([]*PushQueueItem, []string, error) {
	pending, err := s.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: s.stream,
		Group:  groupName,
		Start:  "-",
		End:    "+",
		Count:  100,
	}).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get pending messages: %w", err)
	}

	var staleIDs []string
	for _, p := range pending {
		if p.Idle >= minIdle {
			staleIDs = append(staleIDs, p.ID)
		}
	}
	if len(staleIDs) == 0 {
		return nil, nil, nil
	}

	messages, err := s.client.XClaim(ctx, &redis.XClaimArgs{
		Stream:   s.stream,
		Group:    groupName,
		Consumer: consumerName,
		MinIdle:  minIdle,
		Messages: staleIDs,
	}).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to claim stale messages: %w", err)
	}

	var items []*PushQueueItem
	var ids []string
	for _, msg := range messages {
		item, err := decodePushItem(msg)
		if err != nil {
			logging.Warn("RedisQueue: dropping undecodable claimed message", "id", msg.ID, "error", err)
			continue
		}
		items = append(items, item)
		ids = append(ids, msg.ID)
	}
	return items, ids, nil
}

func decodePushItem(msg redis.XMessage) (*PushQueueItem, error) {
	dataStr, ok := msg.Values["data"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid message format: data field missing")
	}
	var item PushQueueItem
	if err := json.Unmarshal([]byte(dataStr), &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal push item: %w", err)
	}
	return &item, nil
}
