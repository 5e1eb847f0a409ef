package server

import (
	"informatch/internal/notifications"

	"github.com/gofiber/fiber/v2"
)

// BlockUser handles POST /api/blocks/:userId
// @Summary Block a user
// @Description Blocks the user and removes any match or pending request between the pair.
// @Tags blocks
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User to block"
// @Success 201 {object} service.BlockResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /blocks/{userId} [post]
func (s *Server) BlockUser(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID, err := callerID(c)
	if err != nil {
		return nil
	}
	targetID, err := parseUUID(c, "userId")
	if err != nil {
		return nil
	}

	// The blocks table references users, so the caller must exist.
	if _, err := s.userService.Ensure(ctx, identityFrom(c, userID)); err != nil {
		return respondErr(c, err)
	}

	result, err := s.blockService.Block(ctx, userID, targetID)
	if err != nil {
		return respondErr(c, err)
	}
	if result.SeveredMatch {
		s.publishMatchRemoved(ctx, userID, targetID)
	}
	s.publishRequestClosed(ctx, result.SeveredRequest, targetID, notifications.EventMatchRequestCancelled)
	return c.Status(fiber.StatusCreated).JSON(result)
}

// UnblockUser handles DELETE /api/blocks/:userId
func (s *Server) UnblockUser(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return nil
	}
	targetID, err := parseUUID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.blockService.Unblock(c.UserContext(), userID, targetID); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"message": "User unblocked"})
}

// GetBlocks handles GET /api/blocks
func (s *Server) GetBlocks(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return nil
	}
	blocks, err := s.blockService.List(c.UserContext(), userID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(blocks)
}
