package service

import (
	"context"
	"time"

	"informatch/internal/matching"
	"informatch/internal/models"
	"informatch/internal/observability"
	"informatch/internal/repository"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// SuggestionService ranks candidate profiles for a requester by shared
// interests.
type SuggestionService struct {
	profiles      repository.ProfileRepository
	matches       repository.MatchRepository
	notifications repository.NotificationRepository
	blocks        repository.BlockRepository
}

// NewSuggestionService returns a new SuggestionService.
func NewSuggestionService(
	profiles repository.ProfileRepository,
	matches repository.MatchRepository,
	notifications repository.NotificationRepository,
	blocks repository.BlockRepository,
) *SuggestionService {
	return &SuggestionService{
		profiles:      profiles,
		matches:       matches,
		notifications: notifications,
		blocks:        blocks,
	}
}

// Suggest returns every eligible candidate for userID, highest score first.
// A requester without a profile gets an empty list and an advisory message.
// Any read failure aborts the whole computation.
func (s *SuggestionService) Suggest(ctx context.Context, userID uuid.UUID) (result *models.SuggestionResult, err error) {
	start := time.Now()
	span, ctx := observability.NewSpan(ctx, "suggestions.compute",
		attribute.String("enduser.id", userID.String()))
	defer span.End()

	outcome := "ok"
	defer func() {
		if err != nil {
			outcome = "error"
			span.SetError(err)
		}
		n := 0
		if result != nil {
			n = len(result.Suggestions)
		}
		observability.ObserveSuggestions(outcome, n, start)
	}()

	requester, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			outcome = "no_profile"
			return &models.SuggestionResult{
				Suggestions: []models.SuggestionCandidate{},
				Message:     models.NoProfileMessage,
			}, nil
		}
		return nil, err
	}

	excluded, err := s.excludedUserIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.profiles.ListExcluding(ctx, excluded)
	if err != nil {
		return nil, err
	}

	ranked := matching.Rank(
		matching.Parse(requester.AcademicInterests, requester.NonAcademicInterests),
		candidates,
		func(p models.Profile) matching.Interests {
			return matching.Parse(p.AcademicInterests, p.NonAcademicInterests)
		},
	)

	out := make([]models.SuggestionCandidate, 0, len(ranked))
	for i := range ranked {
		out = append(out, models.NewSuggestionCandidate(&ranked[i].Item, ranked[i].Score))
	}

	span.AddAttributes(
		attribute.Int("suggestions.excluded", len(excluded)),
		attribute.Int("suggestions.returned", len(out)),
	)
	return &models.SuggestionResult{Suggestions: out}, nil
}

// excludedUserIDs is the requester plus everyone they are matched with, have
// a pending request with in either direction, have blocked or are blocked by.
func (s *SuggestionService) excludedUserIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	sources := []func(context.Context, uuid.UUID) ([]uuid.UUID, error){
		s.matches.CounterpartIDs,
		s.notifications.PendingCounterpartIDs,
		s.blocks.BlockedIDs,
		s.blocks.BlockerIDs,
	}

	seen := map[uuid.UUID]struct{}{userID: {}}
	out := []uuid.UUID{userID}
	for _, source := range sources {
		ids, err := source(ctx, userID)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out, nil
}
