package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PushToken is a device push-delivery token registered by a client. A user
// with no tokens is a normal state, not an error; push delivery is simply
// skipped for them.
type PushToken struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Token      string    `gorm:"uniqueIndex;not null" json:"-"`
	DeviceInfo string    `json:"device_info"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (PushToken) TableName() string {
	return "push_tokens"
}

// BeforeCreate assigns a UUID when one is not already set.
func (p *PushToken) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
