package service

import (
	"context"

	"informatch/internal/models"
	"informatch/internal/observability"
	"informatch/internal/repository"

	"github.com/google/uuid"
)

// BlockResult reports a new block and what it removed between the pair.
type BlockResult struct {
	Block          *models.Block        `json:"block"`
	SeveredMatch   bool                 `json:"severed_match"`
	SeveredRequest *models.Notification `json:"-"`
}

// BlockService manages directed blocks.
type BlockService struct {
	blocks   repository.BlockRepository
	users    repository.UserRepository
	profiles repository.ProfileRepository
}

// NewBlockService returns a new BlockService.
func NewBlockService(
	blocks repository.BlockRepository,
	users repository.UserRepository,
	profiles repository.ProfileRepository,
) *BlockService {
	return &BlockService{blocks: blocks, users: users, profiles: profiles}
}

// Block records that blockerID blocks blockedID and removes any match or
// pending request between them.
func (s *BlockService) Block(ctx context.Context, blockerID, blockedID uuid.UUID) (*BlockResult, error) {
	if blockerID == blockedID {
		return nil, models.NewValidationError("Cannot block yourself")
	}
	exists, err := s.users.Exists(ctx, blockedID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("User", blockedID)
	}

	// The unique pair index still rejects a concurrent duplicate.
	already, err := s.blocks.Exists(ctx, blockerID, blockedID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, models.NewConflictError("User is already blocked")
	}

	block := &models.Block{BlockerID: blockerID, BlockedID: blockedID}
	severed, err := s.blocks.CreateAndSever(ctx, block)
	if err != nil {
		return nil, err
	}
	observability.RelationshipEvents.WithLabelValues("blocked").Inc()
	return &BlockResult{Block: block, SeveredMatch: severed.Match, SeveredRequest: severed.Request}, nil
}

// Unblock lifts a block. The user becomes eligible for suggestions again.
func (s *BlockService) Unblock(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	if err := s.blocks.Delete(ctx, blockerID, blockedID); err != nil {
		return err
	}
	observability.RelationshipEvents.WithLabelValues("unblocked").Inc()
	return nil
}

// List returns the users blockerID has blocked, newest first.
func (s *BlockService) List(ctx context.Context, blockerID uuid.UUID) ([]models.BlockView, error) {
	blocks, err := s.blocks.List(ctx, blockerID)
	if err != nil {
		return nil, err
	}
	views := make([]models.BlockView, 0, len(blocks))
	if len(blocks) == 0 {
		return views, nil
	}

	ids := make([]uuid.UUID, 0, len(blocks))
	for i := range blocks {
		ids = append(ids, blocks[i].BlockedID)
	}
	profiles, err := s.profiles.ListByUserIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byUser := make(map[uuid.UUID]*models.Profile, len(profiles))
	for i := range profiles {
		byUser[profiles[i].UserID] = &profiles[i]
	}

	for i := range blocks {
		views = append(views, models.BlockView{
			ID:        blocks[i].ID,
			UserID:    blocks[i].BlockedID,
			Profile:   byUser[blocks[i].BlockedID].Summary(),
			CreatedAt: blocks[i].CreatedAt,
		})
	}
	return views, nil
}
