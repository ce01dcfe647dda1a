package service

import (
	"context"
	"log/slog"

	"revlink/internal/middleware"
	"revlink/internal/models"
	"revlink/internal/observability"
	"revlink/internal/repository"

	"github.com/google/uuid"
)

// Dispatcher fans a derived notification out to its recipient. Implemented by
// NotificationService; declared here so the friendship graph does not depend
// on delivery details.
type Dispatcher interface {
	Dispatch(ctx context.Context, n *models.Notification) error
}

// FriendService implements the friendship state machine. All transitions are
// single-row atomic operations; the canonical-pair unique index serializes
// conflicting writers, so no additional locking happens here.
type FriendService struct {
	friendRepo repository.FriendRepository
	userRepo   repository.UserRepository
	dispatcher Dispatcher
}

// NewFriendService returns a new FriendService.
func NewFriendService(friendRepo repository.FriendRepository, userRepo repository.UserRepository, dispatcher Dispatcher) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
		dispatcher: dispatcher,
	}
}

// SendRequest creates a pending request from the caller to the target and
// fans out a friend_request notification. The pre-checks give friendly
// errors; correctness under a crossed-request race rests entirely on the
// unique pair index, so a lost race also comes back as AlreadyExists.
func (s *FriendService) SendRequest(ctx context.Context, callerID, targetID uuid.UUID) (*models.Friendship, error) {
	if callerID == targetID {
		observability.FriendshipTransitions.WithLabelValues("send", "rejected").Inc()
		return nil, models.NewValidationError("Cannot send friend request to yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return nil, err
	}

	existing, err := s.friendRepo.GetFriendshipBetweenUsers(ctx, callerID, targetID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		observability.FriendshipTransitions.WithLabelValues("send", "already_exists").Inc()
		switch existing.Status {
		case models.FriendshipStatusAccepted:
			return nil, models.NewAlreadyExistsError("You are already friends")
		default:
			if existing.UserID == callerID {
				return nil, models.NewAlreadyExistsError("Friend request already sent")
			}
			return nil, models.NewAlreadyExistsError("You already have a pending friend request from this user")
		}
	}

	friendship := &models.Friendship{
		UserID:   callerID,
		FriendID: targetID,
		Status:   models.FriendshipStatusPending,
	}
	if err := s.friendRepo.Create(ctx, friendship); err != nil {
		return nil, err
	}
	observability.FriendshipTransitions.WithLabelValues("send", "ok").Inc()

	s.fanOut(ctx, &models.Notification{
		Type:         models.NotificationFriendRequest,
		ActorID:      callerID,
		RecipientID:  targetID,
		FriendshipID: &friendship.ID,
	})

	return s.friendRepo.GetByID(ctx, friendship.ID)
}

// AcceptRequest transitions a pending request to accepted. Only the recipient
// may accept; the atomic pending-guarded update catches the row having been
// accepted or deleted concurrently.
func (s *FriendService) AcceptRequest(ctx context.Context, callerID, friendshipID uuid.UUID) (*models.Friendship, error) {
	friendship, err := s.friendRepo.GetByID(ctx, friendshipID)
	if err != nil {
		return nil, err
	}

	if friendship.FriendID != callerID {
		return nil, models.NewForbiddenError("You can only accept friend requests sent to you")
	}
	if friendship.Status != models.FriendshipStatusPending {
		observability.FriendshipTransitions.WithLabelValues("accept", "invalid_state").Inc()
		return nil, models.NewInvalidStateError("Friend request is not pending")
	}

	changed, err := s.friendRepo.Accept(ctx, friendshipID)
	if err != nil {
		return nil, err
	}
	if !changed {
		// Lost a race: the row was accepted or removed between read and write.
		observability.FriendshipTransitions.WithLabelValues("accept", "invalid_state").Inc()
		return nil, models.NewInvalidStateError("Friend request is not pending")
	}
	observability.FriendshipTransitions.WithLabelValues("accept", "ok").Inc()

	s.fanOut(ctx, &models.Notification{
		Type:         models.NotificationFriendAccepted,
		ActorID:      callerID,
		RecipientID:  friendship.UserID,
		FriendshipID: &friendship.ID,
	})

	return s.friendRepo.GetByID(ctx, friendshipID)
}

// RejectRequest deletes a pending request. Only the recipient may reject, and
// rejection is silent by design: no notification is fanned out.
func (s *FriendService) RejectRequest(ctx context.Context, callerID, friendshipID uuid.UUID) error {
	friendship, err := s.friendRepo.GetByID(ctx, friendshipID)
	if err != nil {
		return err
	}

	if friendship.FriendID != callerID {
		return models.NewForbiddenError("You can only reject friend requests sent to you")
	}
	if friendship.Status != models.FriendshipStatusPending {
		return models.NewInvalidStateError("Friend request is not pending")
	}

	deleted, err := s.friendRepo.Delete(ctx, friendshipID)
	if err != nil {
		return err
	}
	if !deleted {
		return models.NewNotFoundError("Friendship", friendshipID)
	}
	observability.FriendshipTransitions.WithLabelValues("reject", "ok").Inc()
	return nil
}

// RemoveFriend deletes the row whatever its status, so the same operation
// cancels a still-pending request or ends an accepted friendship. Either
// participant may call it.
func (s *FriendService) RemoveFriend(ctx context.Context, callerID, friendshipID uuid.UUID) error {
	friendship, err := s.friendRepo.GetByID(ctx, friendshipID)
	if err != nil {
		return err
	}

	if !friendship.Involves(callerID) {
		return models.NewForbiddenError("You are not a participant of this friendship")
	}

	deleted, err := s.friendRepo.Delete(ctx, friendshipID)
	if err != nil {
		return err
	}
	if !deleted {
		return models.NewNotFoundError("Friendship", friendshipID)
	}
	observability.FriendshipTransitions.WithLabelValues("remove", "ok").Inc()
	return nil
}

// Friends returns the list of friends for the user.
func (s *FriendService) Friends(ctx context.Context, userID uuid.UUID) ([]models.User, error) {
	return s.friendRepo.GetFriends(ctx, userID)
}

// PendingRequests returns pending friend requests addressed to the user.
func (s *FriendService) PendingRequests(ctx context.Context, userID uuid.UUID) ([]models.Friendship, error) {
	return s.friendRepo.GetPendingRequests(ctx, userID)
}

// SentRequests returns pending friend requests sent by the user.
func (s *FriendService) SentRequests(ctx context.Context, userID uuid.UUID) ([]models.Friendship, error) {
	return s.friendRepo.GetSentRequests(ctx, userID)
}

// Status describes the relationship between the caller and the target:
// "none", "pending_sent", "pending_received", or "friends".
func (s *FriendService) Status(ctx context.Context, callerID, targetID uuid.UUID) (string, *models.Friendship, error) {
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return "", nil, err
	}

	friendship, err := s.friendRepo.GetFriendshipBetweenUsers(ctx, callerID, targetID)
	if err != nil {
		return "", nil, err
	}

	status := "none"
	if friendship != nil {
		switch friendship.Status {
		case models.FriendshipStatusAccepted:
			status = "friends"
		case models.FriendshipStatusPending:
			if friendship.UserID == callerID {
				status = "pending_sent"
			} else {
				status = "pending_received"
			}
		}
	}

	return status, friendship, nil
}

// fanOut dispatches a derived notification. The graph transition has already
// committed; a dispatch failure is logged and never propagated.
func (s *FriendService) fanOut(ctx context.Context, n *models.Notification) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Dispatch(ctx, n); err != nil {
		middleware.Logger.WarnContext(ctx, "notification dispatch failed",
			slog.String("type", string(n.Type)),
			slog.String("recipient_id", n.RecipientID.String()),
			slog.String("error", err.Error()),
		)
	}
}
