package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetSuggestions handles GET /api/suggestions
// @Summary Ranked match suggestions
// @Description Candidates ranked by shared interests. Callers without a profile get an empty list and an advisory message.
// @Tags suggestions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.SuggestionResult
// @Failure 401 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /suggestions [get]
func (s *Server) GetSuggestions(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return nil
	}

	result, err := s.suggestionService.Suggest(c.UserContext(), userID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(result)
}
