package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationType enumerates notification kinds.
type NotificationType string

const (
	// NotificationMatchRequest rows are the pending connection requests.
	NotificationMatchRequest  NotificationType = "match_request"
	NotificationMatchAccepted NotificationType = "match_accepted"
	NotificationNewMatch      NotificationType = "new_match"
)

// Notification is addressed to UserID. Rows of type match_request double as
// pending requests and carry the unordered pair key so at most one can exist
// per pair.
type Notification struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null;index:idx_notifications_user_created,priority:1" json:"user_id"`
	SenderID  *uuid.UUID       `gorm:"type:uuid;index" json:"sender_id"`
	Type      NotificationType `gorm:"size:32;not null;index" json:"type"`
	Message   string           `gorm:"type:text;not null;default:''" json:"message"`
	Read      bool             `gorm:"not null" json:"read"`
	PairKey   *string          `gorm:"size:73;uniqueIndex:idx_notifications_pending_pair" json:"-"`
	CreatedAt time.Time        `gorm:"index:idx_notifications_user_created,priority:2" json:"created_at"`

	Sender    *ProfileSummary `gorm:"-" json:"sender,omitempty"`
	Recipient *ProfileSummary `gorm:"-" json:"recipient,omitempty"`
}

// NewMatchRequest builds the pending request row from sender to recipient.
func NewMatchRequest(senderID, recipientID uuid.UUID, message string) *Notification {
	key := PairKey(senderID, recipientID)
	sender := senderID
	return &Notification{
		UserID:   recipientID,
		SenderID: &sender,
		Type:     NotificationMatchRequest,
		Message:  message,
		PairKey:  &key,
	}
}

// NewNotification builds a plain notification.
func NewNotification(recipientID uuid.UUID, senderID uuid.UUID, kind NotificationType, message string) *Notification {
	sender := senderID
	return &Notification{
		UserID:   recipientID,
		SenderID: &sender,
		Type:     kind,
		Message:  message,
	}
}

// BeforeCreate assigns the ID.
func (n *Notification) BeforeCreate(_ *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.Type == NotificationMatchRequest && n.SenderID != nil && *n.SenderID == n.UserID {
		return NewValidationError("Cannot send a request to yourself")
	}
	return nil
}

// IsPendingRequest reports whether the row is a pending connection request.
func (n *Notification) IsPendingRequest() bool {
	return n.Type == NotificationMatchRequest
}

// SenderUUID returns the sender or uuid.Nil.
func (n *Notification) SenderUUID() uuid.UUID {
	if n.SenderID == nil {
		return uuid.Nil
	}
	return *n.SenderID
}
