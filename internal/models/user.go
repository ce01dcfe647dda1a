// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an account profile. PhoneHash is the one-way digest of the
// owner's verified phone number; it is nil until OTP verification succeeds and
// is only ever written by the verification service, never from a
// client-supplied value.
type User struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email       string         `gorm:"unique;not null" json:"email"`
	Username    string         `gorm:"unique;not null" json:"username"`
	DisplayName string         `json:"display_name"`
	Avatar      string         `json:"avatar"`
	PhoneHash   *string        `gorm:"index" json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID when one is not already set.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// PhoneVerified reports whether the profile has a verified phone hash bound.
func (u *User) PhoneVerified() bool {
	return u.PhoneHash != nil && *u.PhoneHash != ""
}
