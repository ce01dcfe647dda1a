// Package notifications provides cross-instance fan-out of in-app events
// over Redis pub/sub. Connected clients subscribe (through whatever realtime
// edge the deployment runs) to refresh their notification feed when a new
// item lands; delivery here is advisory and independent of the persisted
// notification record.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"

	"revlink/internal/middleware"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Notifier provides helpers to publish notification events into Redis channels
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// Event is the payload published on a user's channel.
type Event struct {
	Type           string    `json:"type"`
	NotificationID uuid.UUID `json:"notification_id"`
	ActorID        uuid.UUID `json:"actor_id"`
	CreatedAt      string    `json:"created_at"`
}

// PublishUser sends a notification event to a user's channel.
// A nil Redis client degrades to a no-op so single-instance deployments
// without Redis still work.
func (n *Notifier) PublishUser(ctx context.Context, userID uuid.UUID, ev Event) error {
	if n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	channel := fmt.Sprintf("notifications:user:%s", userID)
	return n.rdb.Publish(ctx, channel, string(payload)).Err()
}

// StartPatternSubscriber subscribes to pattern `notifications:user:*` and
// calls onMessage for each incoming message. onMessage receives channel and
// payload.
func (n *Notifier) StartPatternSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, "notifications:user:*")
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							middleware.Logger.Error("panic in pattern subscriber",
								slog.Any("panic", r),
								slog.String("stack", string(debug.Stack())))
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}
