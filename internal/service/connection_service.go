package service

import (
	"context"
	"fmt"
	"strings"

	"informatch/internal/featureflags"
	"informatch/internal/models"
	"informatch/internal/observability"
	"informatch/internal/repository"

	"github.com/google/uuid"
)

// Connect outcomes reported in ConnectResult.Status.
const (
	ConnectPending = "pending"
	ConnectMatched = "matched"
)

// MaxRequestMessageLength bounds the optional note sent with a request.
const MaxRequestMessageLength = 280

// ConnectResult is the outcome of SendRequest. Exactly one of Request or
// Match is set. Notice is the new_match row stored for the target when the
// pair matched directly.
type ConnectResult struct {
	Status  string               `json:"status"`
	Request *models.Notification `json:"request,omitempty"`
	Match   *models.Match        `json:"match,omitempty"`
	Notice  *models.Notification `json:"-"`
}

// ConnectionService owns the request / accept / reject / unmatch flow.
type ConnectionService struct {
	profiles      repository.ProfileRepository
	matches       repository.MatchRepository
	notifications repository.NotificationRepository
	blocks        repository.BlockRepository
	flags         *featureflags.Manager
}

// NewConnectionService returns a new ConnectionService. flags may be nil.
func NewConnectionService(
	profiles repository.ProfileRepository,
	matches repository.MatchRepository,
	notifications repository.NotificationRepository,
	blocks repository.BlockRepository,
	flags *featureflags.Manager,
) *ConnectionService {
	return &ConnectionService{
		profiles:      profiles,
		matches:       matches,
		notifications: notifications,
		blocks:        blocks,
		flags:         flags,
	}
}

// SendRequest connects senderID to targetID. Public targets are matched
// immediately when instant matching is enabled for the sender; otherwise a
// pending request is created for the target to answer.
func (s *ConnectionService) SendRequest(ctx context.Context, senderID, targetID uuid.UUID, message string) (*ConnectResult, error) {
	if senderID == targetID {
		return nil, models.NewValidationError("Cannot send a request to yourself")
	}
	message = strings.TrimSpace(message)
	if len([]rune(message)) > MaxRequestMessageLength {
		return nil, models.NewValidationError(fmt.Sprintf("Message must be at most %d characters", MaxRequestMessageLength))
	}

	sender, err := s.profiles.GetByUserID(ctx, senderID)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return nil, models.NewValidationError(models.NoProfileMessage)
		}
		return nil, err
	}
	target, err := s.profiles.GetByUserID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	blocked, err := s.blocks.EitherBlocked(ctx, senderID, targetID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, models.NewForbiddenError("You cannot connect with this user")
	}

	matched, err := s.matches.Exists(ctx, senderID, targetID)
	if err != nil {
		return nil, err
	}
	if matched {
		return nil, models.NewConflictError("Already connected")
	}

	pending, err := s.notifications.PendingBetween(ctx, senderID, targetID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, models.NewConflictError("A request is already pending")
	}

	isPrivate, _, _ := target.Privacy()
	if !isPrivate && s.flags.Enabled(featureflags.InstantMatch, senderID) {
		notice := models.NewNotification(targetID, senderID, models.NotificationNewMatch,
			fmt.Sprintf("You matched with %s", sender.Username))
		match, err := s.matches.CreateDirect(ctx, senderID, targetID, notice)
		if err != nil {
			return nil, err
		}
		observability.RelationshipEvents.WithLabelValues("instant_match").Inc()
		return &ConnectResult{Status: ConnectMatched, Match: match, Notice: notice}, nil
	}

	if message == "" {
		message = fmt.Sprintf("%s wants to connect with you", sender.Username)
	}
	request := models.NewMatchRequest(senderID, targetID, message)
	if err := s.notifications.Create(ctx, request); err != nil {
		return nil, err
	}
	request.Sender = sender.Summary()
	request.Recipient = target.Summary()
	observability.RelationshipEvents.WithLabelValues("request_sent").Inc()
	return &ConnectResult{Status: ConnectPending, Request: request}, nil
}

// IncomingRequests lists the pending requests addressed to userID, newest first.
func (s *ConnectionService) IncomingRequests(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	requests, err := s.notifications.ListPendingIncoming(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := attachSummaries(ctx, s.profiles, requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// SentRequests lists the pending requests userID has sent, newest first.
func (s *ConnectionService) SentRequests(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	requests, err := s.notifications.ListPendingSent(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := attachSummaries(ctx, s.profiles, requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// loadRequest fetches a pending request or reports it missing.
func (s *ConnectionService) loadRequest(ctx context.Context, requestID uuid.UUID) (*models.Notification, error) {
	request, err := s.notifications.GetByID(ctx, requestID)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return nil, models.NewNotFoundError("Match request", requestID)
		}
		return nil, err
	}
	if !request.IsPendingRequest() {
		return nil, models.NewNotFoundError("Match request", requestID)
	}
	return request, nil
}

// AcceptRequest turns a pending request into a match. Only the recipient may
// accept. The requester receives the returned match_accepted notification.
func (s *ConnectionService) AcceptRequest(ctx context.Context, userID, requestID uuid.UUID) (*models.Match, *models.Notification, error) {
	request, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	if request.UserID != userID {
		return nil, nil, models.NewForbiddenError("Only the recipient can accept this request")
	}

	message := "Your match request was accepted"
	if p, err := s.profiles.GetByUserID(ctx, userID); err == nil {
		message = fmt.Sprintf("%s accepted your match request", p.Username)
	} else if !models.HasCode(err, models.CodeNotFound) {
		return nil, nil, err
	}

	accepted := models.NewNotification(request.SenderUUID(), userID, models.NotificationMatchAccepted, message)
	match, err := s.matches.AcceptRequest(ctx, requestID, accepted)
	if err != nil {
		return nil, nil, err
	}
	observability.RelationshipEvents.WithLabelValues("request_accepted").Inc()
	return match, accepted, nil
}

// RejectRequest deletes a pending request addressed to userID. No record of
// the rejection is kept.
func (s *ConnectionService) RejectRequest(ctx context.Context, userID, requestID uuid.UUID) (*models.Notification, error) {
	request, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.UserID != userID {
		return nil, models.NewForbiddenError("Only the recipient can reject this request")
	}
	if err := s.notifications.Delete(ctx, requestID); err != nil {
		return nil, err
	}
	observability.RelationshipEvents.WithLabelValues("request_rejected").Inc()
	return request, nil
}

// CancelRequest withdraws a pending request sent by userID.
func (s *ConnectionService) CancelRequest(ctx context.Context, userID, requestID uuid.UUID) (*models.Notification, error) {
	request, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.SenderUUID() != userID {
		return nil, models.NewForbiddenError("Only the sender can cancel this request")
	}
	if err := s.notifications.Delete(ctx, requestID); err != nil {
		return nil, err
	}
	observability.RelationshipEvents.WithLabelValues("request_cancelled").Inc()
	return request, nil
}

// ListMatches returns userID's connections with the counterpart's profile as
// that counterpart has chosen to show it.
func (s *ConnectionService) ListMatches(ctx context.Context, userID uuid.UUID) ([]models.MatchView, error) {
	matches, err := s.matches.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return []models.MatchView{}, nil
	}

	ids := make([]uuid.UUID, 0, len(matches))
	for i := range matches {
		ids = append(ids, matches[i].Other(userID))
	}
	profiles, err := s.profiles.ListByUserIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byUser := make(map[uuid.UUID]*models.Profile, len(profiles))
	for i := range profiles {
		byUser[profiles[i].UserID] = &profiles[i]
	}

	views := make([]models.MatchView, 0, len(matches))
	for i := range matches {
		other := matches[i].Other(userID)
		view := models.MatchView{ID: matches[i].ID, UserID: other, CreatedAt: matches[i].CreatedAt}
		if p, ok := byUser[other]; ok {
			pv := p.View(false)
			view.Profile = &pv
		}
		views = append(views, view)
	}
	return views, nil
}

// Unmatch removes the connection between userID and otherID.
func (s *ConnectionService) Unmatch(ctx context.Context, userID, otherID uuid.UUID) error {
	if userID == otherID {
		return models.NewValidationError("Cannot unmatch yourself")
	}
	if err := s.matches.DeletePair(ctx, userID, otherID); err != nil {
		return err
	}
	observability.RelationshipEvents.WithLabelValues("unmatched").Inc()
	return nil
}

// Status reports how userID relates to otherID. Blocks take precedence.
func (s *ConnectionService) Status(ctx context.Context, userID, otherID uuid.UUID) (models.RelationshipStatus, error) {
	if userID == otherID {
		return models.StatusNone, nil
	}
	blocked, err := s.blocks.EitherBlocked(ctx, userID, otherID)
	if err != nil {
		return "", err
	}
	if blocked {
		return models.StatusBlocked, nil
	}
	matched, err := s.matches.Exists(ctx, userID, otherID)
	if err != nil {
		return "", err
	}
	if matched {
		return models.StatusMatched, nil
	}
	pending, err := s.notifications.PendingBetween(ctx, userID, otherID)
	if err != nil {
		return "", err
	}
	if pending == nil {
		return models.StatusNone, nil
	}
	if pending.SenderUUID() == userID {
		return models.StatusPendingSent, nil
	}
	return models.StatusPendingReceived, nil
}

// attachSummaries fills Sender and Recipient on each notification from one
// profile lookup.
func attachSummaries(ctx context.Context, profiles repository.ProfileRepository, items []models.Notification) error {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]struct{}, len(items)*2)
	ids := make([]uuid.UUID, 0, len(items)*2)
	add := func(id uuid.UUID) {
		if id == uuid.Nil {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for i := range items {
		add(items[i].SenderUUID())
		add(items[i].UserID)
	}

	found, err := profiles.ListByUserIDs(ctx, ids)
	if err != nil {
		return err
	}
	byUser := make(map[uuid.UUID]*models.Profile, len(found))
	for i := range found {
		byUser[found[i].UserID] = &found[i]
	}
	for i := range items {
		if p, ok := byUser[items[i].SenderUUID()]; ok {
			items[i].Sender = p.Summary()
		}
		if p, ok := byUser[items[i].UserID]; ok {
			items[i].Recipient = p.Summary()
		}
	}
	return nil
}
