package notifications

import (
	"client_portal/internal/domain/entities"
	"client_portal/internal/usecase/interfaces"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const DefaultOutboxKey = "notifications:outbox"

// OutboxMessage is the JSON document queued for the mailer worker.
type OutboxMessage struct {
	ID         string                    `json:"id"`
	Kind       entities.NotificationKind `json:"kind"`
	Recipient  string                    `json:"recipient"`
	Payload    map[string]any            `json:"payload"`
	EnqueuedAt time.Time                 `json:"enqueued_at"`
}

// RedisOutboxSender queues notifications on a Redis list. A separate mailer
// pops them in FIFO order and renders the templates.
type RedisOutboxSender struct {
	rdb redis.Cmdable
	key string
	now func() time.Time
}

var _ interfaces.INotificationSender = (*RedisOutboxSender)(nil)

func NewRedisOutboxSender(rdb redis.Cmdable, key string) *RedisOutboxSender {
	if key == "" {
		key = DefaultOutboxKey
	}
	return &RedisOutboxSender{rdb: rdb, key: key, now: time.Now}
}

func (s *RedisOutboxSender) Send(ctx context.Context, kind entities.NotificationKind, recipient string, payload map[string]any) entities.SendResult {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return entities.SendResult{Error: "recipient is required"}
	}
	msg := OutboxMessage{
		ID:         uuid.NewString(),
		Kind:       kind,
		Recipient:  recipient,
		Payload:    payload,
		EnqueuedAt: s.now().UTC(),
	}
	b, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[notifications][outbox] marshal failed kind=%s err=%v", kind, err)
		return entities.SendResult{Error: fmt.Sprintf("encode notification: %v", err)}
	}
	if err := s.rdb.RPush(ctx, s.key, b).Err(); err != nil {
		log.Printf("[notifications][outbox] enqueue failed kind=%s recipient=%s err=%v", kind, recipient, err)
		return entities.SendResult{Error: fmt.Sprintf("enqueue notification: %v", err)}
	}
	log.Printf("[notifications][outbox] enqueued id=%s kind=%s recipient=%s", msg.ID, kind, recipient)
	return entities.SendResult{Success: true}
}
