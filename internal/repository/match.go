package repository

import (
	"context"
	"errors"

	"informatch/internal/models"
	"informatch/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MatchRepository defines persistence operations for accepted connections.
type MatchRepository interface {
	Get(ctx context.Context, userA, userB uuid.UUID) (*models.Match, error)
	Exists(ctx context.Context, userA, userB uuid.UUID) (bool, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Match, error)
	CounterpartIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	DeletePair(ctx context.Context, userA, userB uuid.UUID) error
	// AcceptRequest deletes the pending request, creates the match and
	// notifies the requester in one transaction.
	AcceptRequest(ctx context.Context, requestID uuid.UUID, accepted *models.Notification) (*models.Match, error)
	// CreateDirect creates the match and its notification in one transaction.
	CreateDirect(ctx context.Context, userA, userB uuid.UUID, notice *models.Notification) (*models.Match, error)
}

type matchRepository struct {
	db *gorm.DB
}

// NewMatchRepository returns a new MatchRepository implementation.
func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepository{db: db}
}

func pairScope(userA, userB uuid.UUID) func(*gorm.DB) *gorm.DB {
	lo, hi := models.OrderedPair(userA, userB)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_a_id = ? AND user_b_id = ?", lo, hi)
	}
}

func (r *matchRepository) Get(ctx context.Context, userA, userB uuid.UUID) (*models.Match, error) {
	defer observability.TrackQuery("select", "matches")()
	var match models.Match
	if err := r.db.WithContext(ctx).Scopes(pairScope(userA, userB)).First(&match).Error; err != nil {
		return nil, translate(err, "Match", userB)
	}
	return &match, nil
}

func (r *matchRepository) Exists(ctx context.Context, userA, userB uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Match{}).Scopes(pairScope(userA, userB)).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *matchRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Match, error) {
	defer observability.TrackQuery("select", "matches")()
	var matches []models.Match
	if err := r.db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&matches).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return matches, nil
}

func (r *matchRepository) CounterpartIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	matches, err := r.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(matches))
	for i := range matches {
		ids = append(ids, matches[i].Other(userID))
	}
	return ids, nil
}

func (r *matchRepository) DeletePair(ctx context.Context, userA, userB uuid.UUID) error {
	defer observability.TrackQuery("delete", "matches")()
	res := r.db.WithContext(ctx).Scopes(pairScope(userA, userB)).Delete(&models.Match{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Match", userB)
	}
	return nil
}

func (r *matchRepository) AcceptRequest(ctx context.Context, requestID uuid.UUID, accepted *models.Notification) (*models.Match, error) {
	defer observability.TrackQuery("accept", "matches")()
	var match *models.Match
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var request models.Notification
		if err := tx.Where("id = ? AND type = ?", requestID, models.NotificationMatchRequest).
			First(&request).Error; err != nil {
			return err
		}
		// A concurrent reject or cancel wins if it deleted the row first.
		res := tx.Where("id = ?", request.ID).Delete(&models.Notification{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		match = &models.Match{UserAID: request.SenderUUID(), UserBID: request.UserID}
		if err := tx.Create(match).Error; err != nil {
			return err
		}
		if accepted != nil {
			if err := tx.Create(accepted).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Match request", requestID)
		}
		if isUniqueConstraintError(err) {
			return nil, models.NewConflictError("Already connected")
		}
		return nil, translate(err, "Match", requestID)
	}
	return match, nil
}

func (r *matchRepository) CreateDirect(ctx context.Context, userA, userB uuid.UUID, notice *models.Notification) (*models.Match, error) {
	defer observability.TrackQuery("insert", "matches")()
	match := &models.Match{UserAID: userA, UserBID: userB}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(match).Error; err != nil {
			return err
		}
		if notice != nil {
			return tx.Create(notice).Error
		}
		return nil
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, models.NewConflictError("Already connected")
		}
		return nil, translate(err, "Match", userB)
	}
	return match, nil
}
