package server

import (
	"time"

	"informatch/internal/notifications"
	"informatch/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SendMatchRequest handles POST /api/matches/requests/:userId
// @Summary Connect with a user
// @Description Creates a pending match request, or a match right away for public profiles when instant matching is on.
// @Tags matches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path string true "Target user ID"
// @Param request body object{message=string} false "Optional note"
// @Success 201 {object} service.ConnectResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /matches/requests/{userId} [post]
func (s *Server) SendMatchRequest(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID, err := callerID(c)
	if err != nil {
		return nil
	}
	targetID, err := parseUUID(c, "userId")
	if err != nil {
		return nil
	}

	var req struct {
		Message string `json:"message"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return respondErr(c, invalidBody())
		}
	}

	result, err := s.connectionService.SendRequest(ctx, userID, targetID, req.Message)
	if err != nil {
		return respondErr(c, err)
	}

	switch result.Status {
	case service.ConnectMatched:
		s.publishMatchCreated(ctx, result.Match)
		s.publishNotificationCreated(ctx, result.Notice)
	case service.ConnectPending:
		s.publishUserEvent(ctx, targetID, notifications.EventMatchRequestReceived, map[string]any{
			"request_id": result.Request.ID,
			"from_user":  result.Request.Sender,
			"created_at": result.Request.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
		s.publishNotificationCreated(ctx, result.Request)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// GetIncomingRequests handles GET /api/matches/requests
func (s *Server) GetIncomingRequests(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return nil
	}
	requests, err := s.connectionService.IncomingRequests(c.UserContext(), userID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(requests)
}

// GetSentRequests handles GET /api/matches/requests/sent
func (s *Server) GetSentRequests(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return nil
	}
	requests, err := s.connectionService.SentRequests(c.UserContext(), userID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(requests)
}

// AcceptMatchRequest handles POST /api/matches/requests/:requestId/accept
// @Summary Accept a match request
// @Tags matches
// @Produce json
// @Security BearerAuth
// @Param requestId path string true "Request ID"
// @Success 200 {object} models.Match
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /matches/requests/{requestId}/accept [post]
func (s *Server) AcceptMatchRequest(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID, err := callerID(c)
	if err != nil {
		return nil
	}
	requestID, err := parseUUID(c, "requestId")
	if err != nil {
		return nil
	}

	match, notice, err := s.connectionService.AcceptRequest(ctx, userID, requestID)
	if err != nil {
		return respondErr(c, err)
	}

	requesterID := match.Other(userID)
	s.publishUserEvent(ctx, requesterID, notifications.EventMatchRequestAccepted, map[string]any{
		"request_id": requestID,
		"match_id":   match.ID,
		"user_id":    userID,
	})
	s.publishMatchCreated(ctx, match)
	s.publishNotificationCreated(ctx, notice)

	return c.JSON(match)
}

// RejectMatchRequest handles POST /api/matches/requests/:requestId/reject
func (s *Server) RejectMatchRequest(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return nil
	}
	requestID, err := parseUUID(c, "requestId")
	if err != nil {
		return nil
	}

	request, err := s.connectionService.RejectRequest(c.UserContext(), userID, requestID)
	if err != nil {
		return respondErr(c, err)
	}
	s.publishRequestClosed(c.UserContext(), request, request.SenderUUID(), notifications.EventMatchRequestRejected)
	return c.JSON(fiber.Map{"message": "Request rejected"})
}

// CancelMatchRequest handles DELETE /api/matches/requests/:requestId
func (s *Server) CancelMatchRequest(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return nil
	}
	requestID, err := parseUUID(c, "requestId")
	if err != nil {
		return nil
	}

	request, err := s.connectionService.CancelRequest(c.UserContext(), userID, requestID)
	if err != nil {
		return respondErr(c, err)
	}
	s.publishRequestClosed(c.UserContext(), request, request.UserID, notifications.EventMatchRequestCancelled)
	return c.JSON(fiber.Map{"message": "Request cancelled"})
}

// GetMatches handles GET /api/matches
// @Summary List matches
// @Tags matches
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.MatchView
// @Router /matches [get]
func (s *Server) GetMatches(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return nil
	}
	views, err := s.connectionService.ListMatches(c.UserContext(), userID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(views)
}

// Unmatch handles DELETE /api/matches/:userId
func (s *Server) Unmatch(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID, err := callerID(c)
	if err != nil {
		return nil
	}
	otherID, err := parseUUID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.connectionService.Unmatch(ctx, userID, otherID); err != nil {
		return respondErr(c, err)
	}
	s.publishMatchRemoved(ctx, userID, otherID)
	return c.JSON(fiber.Map{"message": "Match removed"})
}

// GetRelationshipStatus handles GET /api/matches/status/:userId
// @Summary Relationship with another user
// @Tags matches
// @Produce json
// @Security BearerAuth
// @Param userId path string true "Other user ID"
// @Success 200 {object} object{status=string}
// @Router /matches/status/{userId} [get]
func (s *Server) GetRelationshipStatus(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return nil
	}
	otherID, err := parseUUID(c, "userId")
	if err != nil {
		return nil
	}

	status, err := s.connectionService.Status(c.UserContext(), userID, otherID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"status": status})
}
