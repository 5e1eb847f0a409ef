package repository

import (
	"context"

	"informatch/internal/models"
	"informatch/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Severed describes what a new block removed between the pair.
type Severed struct {
	Match   bool
	Request *models.Notification
}

// BlockRepository defines persistence operations for directed blocks.
type BlockRepository interface {
	// CreateAndSever inserts the block and removes any match or pending
	// request between the pair in the same transaction.
	CreateAndSever(ctx context.Context, block *models.Block) (Severed, error)
	Delete(ctx context.Context, blockerID, blockedID uuid.UUID) error
	Exists(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error)
	EitherBlocked(ctx context.Context, userA, userB uuid.UUID) (bool, error)
	BlockedIDs(ctx context.Context, blockerID uuid.UUID) ([]uuid.UUID, error)
	BlockerIDs(ctx context.Context, blockedID uuid.UUID) ([]uuid.UUID, error)
	List(ctx context.Context, blockerID uuid.UUID) ([]models.Block, error)
}

type blockRepository struct {
	db *gorm.DB
}

// NewBlockRepository returns a new BlockRepository implementation.
func NewBlockRepository(db *gorm.DB) BlockRepository {
	return &blockRepository{db: db}
}

func (r *blockRepository) CreateAndSever(ctx context.Context, block *models.Block) (Severed, error) {
	defer observability.TrackQuery("insert", "blocks")()
	var severed Severed
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(block).Error; err != nil {
			return err
		}
		res := tx.Scopes(pairScope(block.BlockerID, block.BlockedID)).Delete(&models.Match{})
		if res.Error != nil {
			return res.Error
		}
		severed.Match = res.RowsAffected > 0

		// The pair key allows at most one pending request.
		var pending []models.Notification
		if err := tx.Where("type = ? AND pair_key = ?", models.NotificationMatchRequest,
			models.PairKey(block.BlockerID, block.BlockedID)).
			Limit(1).Find(&pending).Error; err != nil {
			return err
		}
		if len(pending) == 0 {
			return nil
		}
		if err := tx.Where("id = ?", pending[0].ID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		severed.Request = &pending[0]
		return nil
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return Severed{}, models.NewConflictError("User is already blocked")
		}
		return Severed{}, translate(err, "Block", block.BlockedID)
	}
	return severed, nil
}

func (r *blockRepository) Delete(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	defer observability.TrackQuery("delete", "blocks")()
	res := r.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&models.Block{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Block", blockedID)
	}
	return nil
}

func (r *blockRepository) Exists(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Block{}).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *blockRepository) EitherBlocked(ctx context.Context, userA, userB uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)",
			userA, userB, userB, userA).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *blockRepository) BlockedIDs(ctx context.Context, blockerID uuid.UUID) ([]uuid.UUID, error) {
	return r.pluck(ctx, "blocked_id", "blocker_id = ?", blockerID)
}

func (r *blockRepository) BlockerIDs(ctx context.Context, blockedID uuid.UUID) ([]uuid.UUID, error) {
	return r.pluck(ctx, "blocker_id", "blocked_id = ?", blockedID)
}

func (r *blockRepository) pluck(ctx context.Context, column, cond string, id uuid.UUID) ([]uuid.UUID, error) {
	defer observability.TrackQuery("select", "blocks")()
	var rows []models.Block
	if err := r.db.WithContext(ctx).Select(column).Where(cond, id).Find(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, b := range rows {
		if column == "blocked_id" {
			ids = append(ids, b.BlockedID)
		} else {
			ids = append(ids, b.BlockerID)
		}
	}
	return ids, nil
}

func (r *blockRepository) List(ctx context.Context, blockerID uuid.UUID) ([]models.Block, error) {
	var blocks []models.Block
	if err := r.db.WithContext(ctx).
		Where("blocker_id = ?", blockerID).
		Order("created_at DESC").
		Find(&blocks).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return blocks, nil
}
