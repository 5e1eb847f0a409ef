package service

import (
	"context"

	"informatch/internal/models"
	"informatch/internal/repository"

	"github.com/google/uuid"
)

// Pagination bounds for notification listings.
const (
	DefaultNotificationLimit = 20
	MaxNotificationLimit     = 100
)

// NotificationService reads and updates a user's notifications.
type NotificationService struct {
	notifications repository.NotificationRepository
	profiles      repository.ProfileRepository
}

// NewNotificationService returns a new NotificationService.
func NewNotificationService(notifications repository.NotificationRepository, profiles repository.ProfileRepository) *NotificationService {
	return &NotificationService{notifications: notifications, profiles: profiles}
}

// List returns userID's notifications, newest first, with sender summaries.
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	if limit > MaxNotificationLimit {
		limit = MaxNotificationLimit
	}
	if offset < 0 {
		offset = 0
	}
	items, err := s.notifications.ListForUser(ctx, userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	if err := attachSummaries(ctx, s.profiles, items); err != nil {
		return nil, err
	}
	return items, nil
}

// UnreadCount counts unread notifications.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifications.CountUnread(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return s.notifications.MarkRead(ctx, notificationID, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifications.MarkAllRead(ctx, userID)
}

// Delete removes one of userID's notifications. Someone else's row reads as
// missing so its existence is not revealed. Pending requests must be
// rejected instead so the sender is not left waiting on a vanished row.
func (s *NotificationService) Delete(ctx context.Context, userID, notificationID uuid.UUID) error {
	n, err := s.notifications.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return models.NewNotFoundError("Notification", notificationID)
	}
	if n.IsPendingRequest() {
		return models.NewValidationError("Use reject to decline a match request")
	}
	return s.notifications.Delete(ctx, notificationID)
}
