package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"revlink/internal/middleware"
	"revlink/internal/models"
	"revlink/internal/notifications"
	"revlink/internal/observability"
	"revlink/internal/push"
	"revlink/internal/repository"

	"github.com/google/uuid"
)

// NotificationService persists derived notifications and triggers best-effort
// push delivery. The in-app record is authoritative: push failures never
// affect it, and the triggering transition has already committed by the time
// Dispatch runs.
type NotificationService struct {
	notifRepo repository.NotificationRepository
	tokenRepo repository.PushTokenRepository
	sender    push.Sender
	notifier  *notifications.Notifier

	// pushAsync controls whether push delivery runs in a goroutine. Tests set
	// it to false for determinism.
	pushAsync bool
}

// NewNotificationService returns a new NotificationService.
func NewNotificationService(
	notifRepo repository.NotificationRepository,
	tokenRepo repository.PushTokenRepository,
	sender push.Sender,
	notifier *notifications.Notifier,
) *NotificationService {
	return &NotificationService{
		notifRepo: notifRepo,
		tokenRepo: tokenRepo,
		sender:    sender,
		notifier:  notifier,
		pushAsync: true,
	}
}

// Dispatch persists the notification, publishes the in-app event, and kicks
// off push delivery. Only the persistence step can fail; everything after it
// is fire-and-forget.
func (s *NotificationService) Dispatch(ctx context.Context, n *models.Notification) error {
	if err := s.notifRepo.Create(ctx, n); err != nil {
		return err
	}
	observability.NotificationsDispatched.WithLabelValues(string(n.Type)).Inc()

	if s.notifier != nil {
		ev := notifications.Event{
			Type:           string(n.Type),
			NotificationID: n.ID,
			ActorID:        n.ActorID,
			CreatedAt:      time.Now().UTC().Format(time.RFC3339Nano),
		}
		if err := s.notifier.PublishUser(ctx, n.RecipientID, ev); err != nil {
			middleware.Logger.WarnContext(ctx, "in-app event publish failed",
				slog.String("notification_id", n.ID.String()),
				slog.String("error", err.Error()),
			)
		}
	}

	if s.pushAsync {
		// Detach from the request context: the push outliving the HTTP request
		// is expected, and cancelling the request must not cancel delivery.
		go func() {
			pushCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			s.deliverPush(pushCtx, n)
		}()
	} else {
		s.deliverPush(ctx, n)
	}

	return nil
}

// deliverPush attempts delivery to every registered device of the recipient.
// A missing token is a normal state, not an error; vendor failures are logged
// as warnings and swallowed.
func (s *NotificationService) deliverPush(ctx context.Context, n *models.Notification) {
	tokens, err := s.tokenRepo.GetByUserID(ctx, n.RecipientID)
	if err != nil {
		observability.PushDeliveries.WithLabelValues("token_lookup_error").Inc()
		middleware.Logger.WarnContext(ctx, "push token lookup failed",
			slog.String("recipient_id", n.RecipientID.String()),
			slog.String("error", err.Error()),
		)
		return
	}
	if len(tokens) == 0 {
		observability.PushDeliveries.WithLabelValues("no_push_token").Inc()
		middleware.Logger.DebugContext(ctx, "push skipped",
			slog.String("recipient_id", n.RecipientID.String()),
			slog.String("reason", "no_push_token"),
		)
		return
	}

	title, body := pushContent(n)
	data := map[string]string{
		"type":            string(n.Type),
		"notification_id": n.ID.String(),
		"actor_id":        n.ActorID.String(),
	}
	if n.FriendshipID != nil {
		data["friendship_id"] = n.FriendshipID.String()
	}

	for _, token := range tokens {
		msg := push.Message{Token: token.Token, Title: title, Body: body, Data: data}
		if err := s.sender.Send(ctx, msg); err != nil {
			observability.PushDeliveries.WithLabelValues("vendor_error").Inc()
			middleware.Logger.WarnContext(ctx, "push delivery failed",
				slog.String("recipient_id", n.RecipientID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		observability.PushDeliveries.WithLabelValues("sent").Inc()
	}
}

// pushContent maps a notification to its push title and body.
func pushContent(n *models.Notification) (string, string) {
	actor := n.Actor.DisplayName
	if actor == "" {
		actor = n.Actor.Username
	}
	if actor == "" {
		actor = "Someone"
	}

	switch n.Type {
	case models.NotificationFriendRequest:
		return "New friend request", fmt.Sprintf("%s sent you a friend request", actor)
	case models.NotificationFriendAccepted:
		return "Friend request accepted", fmt.Sprintf("%s accepted your friend request", actor)
	case models.NotificationLike:
		return "New like", fmt.Sprintf("%s liked your post", actor)
	case models.NotificationComment:
		return "New comment", fmt.Sprintf("%s commented on your post", actor)
	default:
		return "New notification", "You have a new notification"
	}
}

// Feed returns the recipient's notification feed newest-first.
func (s *NotificationService) Feed(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]models.Notification, error) {
	return s.notifRepo.ListByRecipient(ctx, recipientID, limit, offset)
}

// MarkRead marks the given notifications read for the caller. Re-marking is a
// no-op; notifications addressed to someone else are silently skipped.
func (s *NotificationService) MarkRead(ctx context.Context, callerID uuid.UUID, ids []uuid.UUID) error {
	return s.notifRepo.MarkRead(ctx, callerID, ids)
}

// UnreadCount returns the number of unread notifications for the caller.
func (s *NotificationService) UnreadCount(ctx context.Context, callerID uuid.UUID) (int64, error) {
	return s.notifRepo.CountUnread(ctx, callerID)
}
