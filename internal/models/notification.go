package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationType categorizes a notification.
type NotificationType string

const (
	// NotificationFriendRequest is fanned out to the recipient of a new friend request.
	NotificationFriendRequest NotificationType = "friend_request"
	// NotificationFriendAccepted is fanned out to the original requester on acceptance.
	NotificationFriendAccepted NotificationType = "friend_accepted"
	// NotificationLike is produced by the social feed when a post is liked.
	NotificationLike NotificationType = "like"
	// NotificationComment is produced by the social feed when a post is commented on.
	NotificationComment NotificationType = "comment"
)

// Notification is a recipient-addressed record derived from a friendship
// transition or a social interaction; users never author these directly.
// Only the recipient may mark it read, and marking read twice is a no-op.
type Notification struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Type           NotificationType `gorm:"type:varchar(30);not null" json:"type"`
	ActorID        uuid.UUID        `gorm:"type:uuid;not null" json:"actor_id"`
	RecipientID    uuid.UUID        `gorm:"type:uuid;not null;index:idx_notifications_feed,priority:1" json:"recipient_id"`
	FriendshipID   *uuid.UUID       `gorm:"type:uuid" json:"friendship_id,omitempty"`
	PostID         *uuid.UUID       `gorm:"type:uuid" json:"post_id,omitempty"`
	CommentContent string           `json:"comment_content,omitempty"`
	ReadAt         *time.Time       `json:"read_at,omitempty"`
	CreatedAt      time.Time        `gorm:"index:idx_notifications_feed,priority:2" json:"created_at"`

	Actor User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}

// TableName specifies the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// BeforeCreate assigns a UUID when one is not already set.
func (n *Notification) BeforeCreate(_ *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// Read reports whether the recipient has marked the notification read.
func (n *Notification) Read() bool {
	return n.ReadAt != nil
}
