package repository

import (
	"context"
	"errors"

	"revlink/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FriendRepository defines the interface for friendship data operations.
type FriendRepository interface {
	// Create inserts a pending request. A duplicate-key error on the canonical
	// pair index surfaces as AlreadyExists; this is the sole guard against two
	// simultaneous requests from opposite directions.
	Create(ctx context.Context, friendship *models.Friendship) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Friendship, error)
	GetFriendshipBetweenUsers(ctx context.Context, userID1, userID2 uuid.UUID) (*models.Friendship, error)
	GetFriends(ctx context.Context, userID uuid.UUID) ([]models.User, error)
	GetPendingRequests(ctx context.Context, userID uuid.UUID) ([]models.Friendship, error)
	GetSentRequests(ctx context.Context, userID uuid.UUID) ([]models.Friendship, error)
	// Accept atomically flips a still-pending row to accepted. It reports
	// whether a row actually transitioned, so a lost race (row already
	// accepted or deleted) is detected without extra locking.
	Accept(ctx context.Context, friendshipID uuid.UUID) (bool, error)
	Delete(ctx context.Context, friendshipID uuid.UUID) (bool, error)
}

// friendRepository implements FriendRepository
type friendRepository struct {
	db *gorm.DB
}

// NewFriendRepository creates a new friend repository
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

func (r *friendRepository) Create(ctx context.Context, friendship *models.Friendship) error {
	if err := r.db.WithContext(ctx).Create(friendship).Error; err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewAlreadyExistsError("A friend request or friendship already exists between these users")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *friendRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Friendship, error) {
	var friendship models.Friendship
	if err := r.db.WithContext(ctx).Preload("User").Preload("Friend").First(&friendship, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Friendship", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &friendship, nil
}

func (r *friendRepository) GetFriendshipBetweenUsers(ctx context.Context, userID1, userID2 uuid.UUID) (*models.Friendship, error) {
	pairMin, pairMax := models.CanonicalPair(userID1, userID2)

	var friendship models.Friendship
	if err := r.db.WithContext(ctx).
		Where("pair_min = ? AND pair_max = ?", pairMin, pairMax).
		Preload("User").
		Preload("Friend").
		First(&friendship).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // No friendship exists
		}
		return nil, models.NewInternalError(err)
	}
	return &friendship, nil
}

func (r *friendRepository) GetFriends(ctx context.Context, userID uuid.UUID) ([]models.User, error) {
	var users []models.User

	// Find all accepted friendships for the user and get the other user in each friendship
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN friendships f ON (users.id = f.user_id OR users.id = f.friend_id)").
		Where("f.status = ? AND (f.user_id = ? OR f.friend_id = ?) AND users.id != ?",
			models.FriendshipStatusAccepted, userID, userID, userID).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	return users, nil
}

func (r *friendRepository) GetPendingRequests(ctx context.Context, userID uuid.UUID) ([]models.Friendship, error) {
	var friendships []models.Friendship

	// Pending requests where the user is the recipient
	if err := r.db.WithContext(ctx).
		Where("friend_id = ? AND status = ?", userID, models.FriendshipStatusPending).
		Preload("User").
		Preload("Friend").
		Find(&friendships).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	return friendships, nil
}

func (r *friendRepository) GetSentRequests(ctx context.Context, userID uuid.UUID) ([]models.Friendship, error) {
	var friendships []models.Friendship

	// Pending requests where the user is the requester
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.FriendshipStatusPending).
		Preload("User").
		Preload("Friend").
		Find(&friendships).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	return friendships, nil
}

func (r *friendRepository) Accept(ctx context.Context, friendshipID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("id = ? AND status = ?", friendshipID, models.FriendshipStatusPending).
		Update("status", models.FriendshipStatusAccepted)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *friendRepository) Delete(ctx context.Context, friendshipID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Friendship{}, "id = ?", friendshipID)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}
