package server

import (
	"informatch/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/profile
// @Summary Own profile
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.ProfileView
// @Failure 404 {object} models.ErrorResponse
// @Router /profile [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return nil
	}
	view, err := s.profileService.GetOwn(c.UserContext(), userID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(view)
}

// SaveMyProfile handles PUT /api/profile
// @Summary Create or update own profile
// @Description Provisions the caller's user record from the token on first save.
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ProfileInput true "Profile fields"
// @Success 200 {object} models.ProfileView
// @Success 201 {object} models.ProfileView
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /profile [put]
func (s *Server) SaveMyProfile(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID, err := callerID(c)
	if err != nil {
		return nil
	}

	var in service.ProfileInput
	if err := c.BodyParser(&in); err != nil {
		return respondErr(c, invalidBody())
	}

	if _, err := s.userService.Ensure(ctx, identityFrom(c, userID)); err != nil {
		return respondErr(c, err)
	}

	view, created, err := s.profileService.Save(ctx, userID, in)
	if err != nil {
		return respondErr(c, err)
	}
	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(view)
}

// GetUserProfile handles GET /api/profiles/:userId
// @Summary Another user's profile
// @Description Bio and birthdate are hidden according to the owner's privacy flags.
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {object} models.ProfileView
// @Failure 404 {object} models.ErrorResponse
// @Router /profiles/{userId} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	viewerID, err := callerID(c)
	if err != nil {
		return nil
	}
	targetID, err := parseUUID(c, "userId")
	if err != nil {
		return nil
	}

	view, err := s.profileService.GetForViewer(c.UserContext(), viewerID, targetID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(view)
}
