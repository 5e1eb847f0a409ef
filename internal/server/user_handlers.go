package server

import (
	"informatch/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetMe handles GET /api/users/me
// @Summary Current user
// @Description Returns the caller's user record, creating it from the token on first call.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Router /users/me [get]
func (s *Server) GetMe(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return nil
	}
	user, err := s.userService.Me(c.UserContext(), identityFrom(c, userID))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(user)
}

// UpdatePrivacy handles PATCH /api/users/me/privacy
// @Summary Update privacy settings
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.PrivacySettings true "Fields to change"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Router /users/me/privacy [patch]
func (s *Server) UpdatePrivacy(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID, err := callerID(c)
	if err != nil {
		return nil
	}

	var settings models.PrivacySettings
	if err := c.BodyParser(&settings); err != nil {
		return respondErr(c, invalidBody())
	}

	if _, err := s.userService.Ensure(ctx, identityFrom(c, userID)); err != nil {
		return respondErr(c, err)
	}

	user, err := s.userService.UpdatePrivacy(ctx, userID, settings)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(user)
}
