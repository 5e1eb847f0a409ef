package server

import (
	"context"
	"log/slog"
	"time"

	"informatch/internal/middleware"
	"informatch/internal/models"
	"informatch/internal/notifications"

	"github.com/google/uuid"
)

// publishUserEvent pushes a change-feed event to one user. Failures are
// logged and never surface to the caller.
func (s *Server) publishUserEvent(ctx context.Context, userID uuid.UUID, eventType string, payload map[string]any) {
	if s.notifier == nil {
		return
	}
	// The request context may be cancelled once the response is written.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := s.notifier.PublishEvent(ctx, userID, eventType, payload); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish change event",
			slog.String("event", eventType),
			slog.String("recipient", userID.String()),
			slog.String("error", err.Error()))
	}
}

func (s *Server) publishNotificationCreated(ctx context.Context, n *models.Notification) {
	if n == nil {
		return
	}
	s.publishUserEvent(ctx, n.UserID, notifications.EventNotificationCreated, map[string]any{
		"notification": n,
	})
}

func (s *Server) publishMatchCreated(ctx context.Context, m *models.Match) {
	if m == nil {
		return
	}
	for _, userID := range []uuid.UUID{m.UserAID, m.UserBID} {
		s.publishUserEvent(ctx, userID, notifications.EventMatchCreated, map[string]any{
			"match_id":   m.ID,
			"user_id":    m.Other(userID),
			"created_at": m.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}
}

func (s *Server) publishMatchRemoved(ctx context.Context, a, b uuid.UUID) {
	s.publishUserEvent(ctx, a, notifications.EventMatchRemoved, map[string]any{"user_id": b})
	s.publishUserEvent(ctx, b, notifications.EventMatchRemoved, map[string]any{"user_id": a})
}

// publishRequestClosed tells the other side of a pending request that it no
// longer exists.
func (s *Server) publishRequestClosed(ctx context.Context, request *models.Notification, recipient uuid.UUID, eventType string) {
	if request == nil {
		return
	}
	s.publishUserEvent(ctx, recipient, eventType, map[string]any{
		"request_id": request.ID,
		"from_user":  request.SenderUUID(),
		"to_user":    request.UserID,
	})
}
