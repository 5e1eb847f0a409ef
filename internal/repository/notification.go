package repository

import (
	"context"

	"informatch/internal/models"
	"informatch/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationRepository defines persistence operations for notifications,
// including the match_request rows that represent pending requests.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error

	PendingBetween(ctx context.Context, userA, userB uuid.UUID) (*models.Notification, error)
	PendingCounterpartIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ListPendingIncoming(ctx context.Context, userID uuid.UUID) ([]models.Notification, error)
	ListPendingSent(ctx context.Context, userID uuid.UUID) ([]models.Notification, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository returns a new NotificationRepository implementation.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// Create inserts the row. A second match_request for the same unordered pair
// fails on idx_notifications_pending_pair and surfaces as a conflict.
func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	defer observability.TrackQuery("insert", "notifications")()
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		if n.IsPendingRequest() && isUniqueConstraintError(err) {
			return models.NewConflictError("A request is already pending")
		}
		return translate(err, "Notification", n.UserID)
	}
	return nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		return nil, translate(err, "Notification", id)
	}
	return &n, nil
}

func (r *notificationRepository) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]models.Notification, error) {
	defer observability.TrackQuery("select", "notifications")()
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	var out []models.Notification
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&out).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return out, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Notification", id)
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	return res.RowsAffected, nil
}

func (r *notificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	defer observability.TrackQuery("delete", "notifications")()
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Notification{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Notification", id)
	}
	return nil
}

// PendingBetween returns the pending request for the pair in either
// direction, or nil when there is none.
func (r *notificationRepository) PendingBetween(ctx context.Context, userA, userB uuid.UUID) (*models.Notification, error) {
	var out []models.Notification
	if err := r.db.WithContext(ctx).
		Where("type = ? AND pair_key = ?", models.NotificationMatchRequest, models.PairKey(userA, userB)).
		Limit(1).Find(&out).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

func (r *notificationRepository) PendingCounterpartIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	defer observability.TrackQuery("select", "notifications")()
	var rows []models.Notification
	if err := r.db.WithContext(ctx).
		Select("user_id", "sender_id").
		Where("type = ? AND (user_id = ? OR sender_id = ?)", models.NotificationMatchRequest, userID, userID).
		Find(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, n := range rows {
		if n.UserID == userID {
			ids = append(ids, n.SenderUUID())
		} else {
			ids = append(ids, n.UserID)
		}
	}
	return ids, nil
}

func (r *notificationRepository) ListPendingIncoming(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	return r.listPending(ctx, "user_id = ?", userID)
}

func (r *notificationRepository) ListPendingSent(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	return r.listPending(ctx, "sender_id = ?", userID)
}

func (r *notificationRepository) listPending(ctx context.Context, cond string, userID uuid.UUID) ([]models.Notification, error) {
	var out []models.Notification
	if err := r.db.WithContext(ctx).
		Where("type = ?", models.NotificationMatchRequest).
		Where(cond, userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return out, nil
}
