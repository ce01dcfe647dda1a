package repository

import (
	"context"
	"errors"

	"revlink/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PushTokenRepository defines the interface for push token data operations.
type PushTokenRepository interface {
	// Upsert registers a device token for a user. A token re-registered by a
	// different account moves to that account (device handed to a new owner).
	Upsert(ctx context.Context, token *models.PushToken) error
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.PushToken, error)
	DeleteByToken(ctx context.Context, userID uuid.UUID, token string) error
}

// pushTokenRepository implements PushTokenRepository
type pushTokenRepository struct {
	db *gorm.DB
}

// NewPushTokenRepository creates a new push token repository
func NewPushTokenRepository(db *gorm.DB) PushTokenRepository {
	return &pushTokenRepository{db: db}
}

func (r *pushTokenRepository) Upsert(ctx context.Context, token *models.PushToken) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "device_info", "updated_at"}),
		}).
		Create(token).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *pushTokenRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.PushToken, error) {
	var tokens []models.PushToken
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&tokens).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return tokens, nil
}

func (r *pushTokenRepository) DeleteByToken(ctx context.Context, userID uuid.UUID, token string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND token = ?", userID, token).
		Delete(&models.PushToken{})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("PushToken", token)
		}
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("PushToken", token)
	}
	return nil
}
