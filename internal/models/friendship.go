package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FriendshipStatus represents the status of a friendship request.
type FriendshipStatus string

const (
	// FriendshipStatusPending indicates a pending friendship request.
	FriendshipStatusPending FriendshipStatus = "pending"
	// FriendshipStatusAccepted indicates an accepted friendship request.
	FriendshipStatusAccepted FriendshipStatus = "accepted"
)

// Friendship is a single directed row representing a friend request and, once
// accepted, a symmetric relationship. UserID is the requester and FriendID the
// recipient; direction is required to distinguish sent vs received pending
// requests. PairMin/PairMax hold the participant IDs in canonical
// (lexicographic) order so the composite unique index admits at most one row
// per unordered pair, whichever direction the request was sent in. That index
// is the sole guard against two simultaneous requests from opposite
// directions: the losing insert fails with a duplicate-key error.
type Friendship struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null" json:"user_id"`
	FriendID  uuid.UUID        `gorm:"type:uuid;not null" json:"friend_id"`
	PairMin   string           `gorm:"not null;uniqueIndex:idx_friendship_pair" json:"-"`
	PairMax   string           `gorm:"not null;uniqueIndex:idx_friendship_pair" json:"-"`
	Status    FriendshipStatus `gorm:"type:varchar(20);default:'pending';index:idx_friendships_status" json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`

	// Relationships
	User   User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Friend User `gorm:"foreignKey:FriendID" json:"friend,omitempty"`
}

// TableName specifies the table name for GORM
func (Friendship) TableName() string {
	return "friendships"
}

// CanonicalPair orders two participant IDs deterministically.
func CanonicalPair(a, b uuid.UUID) (string, string) {
	as, bs := a.String(), b.String()
	if as < bs {
		return as, bs
	}
	return bs, as
}

// BeforeCreate rejects self-friendship and fills the canonical pair columns
// backing the uniqueness constraint.
func (f *Friendship) BeforeCreate(_ *gorm.DB) error {
	if f.UserID == f.FriendID {
		return NewValidationError("Cannot send friend request to yourself")
	}
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	f.PairMin, f.PairMax = CanonicalPair(f.UserID, f.FriendID)
	return nil
}

// Involves reports whether the given user is one of the two participants.
func (f *Friendship) Involves(userID uuid.UUID) bool {
	return f.UserID == userID || f.FriendID == userID
}

// OtherParticipant returns the participant that is not the given user.
func (f *Friendship) OtherParticipant(userID uuid.UUID) uuid.UUID {
	if f.UserID == userID {
		return f.FriendID
	}
	return f.UserID
}
