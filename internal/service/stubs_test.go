package service

import (
	"context"

	"informatch/internal/models"
	"informatch/internal/repository"

	"github.com/google/uuid"
)

// Repository stubs. An unset func behaves as an empty store.

type userRepoStub struct {
	getByIDFn       func(context.Context, uuid.UUID) (*models.User, error)
	existsFn        func(context.Context, uuid.UUID) (bool, error)
	ensureFn        func(context.Context, *models.User) (*models.User, error)
	updatePrivacyFn func(context.Context, uuid.UUID, models.PrivacySettings) (*models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.getByIDFn == nil {
		return nil, models.NewNotFoundError("User", id)
	}
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if s.existsFn == nil {
		return false, nil
	}
	return s.existsFn(ctx, id)
}
func (s *userRepoStub) Ensure(ctx context.Context, user *models.User) (*models.User, error) {
	if s.ensureFn == nil {
		return user, nil
	}
	return s.ensureFn(ctx, user)
}
func (s *userRepoStub) UpdatePrivacy(ctx context.Context, id uuid.UUID, settings models.PrivacySettings) (*models.User, error) {
	if s.updatePrivacyFn == nil {
		return nil, models.NewNotFoundError("User", id)
	}
	return s.updatePrivacyFn(ctx, id, settings)
}

type profileRepoStub struct {
	getByUserIDFn   func(context.Context, uuid.UUID) (*models.Profile, error)
	createFn        func(context.Context, *models.Profile) error
	updateFn        func(context.Context, *models.Profile) error
	listExcludingFn func(context.Context, []uuid.UUID) ([]models.Profile, error)
	listByUserIDsFn func(context.Context, []uuid.UUID) ([]models.Profile, error)
	updateMediaFn   func(context.Context, *models.Profile) error
}

func (s *profileRepoStub) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	if s.getByUserIDFn == nil {
		return nil, models.NewNotFoundError("Profile", userID)
	}
	return s.getByUserIDFn(ctx, userID)
}
func (s *profileRepoStub) Create(ctx context.Context, profile *models.Profile) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, profile)
}
func (s *profileRepoStub) Update(ctx context.Context, profile *models.Profile) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, profile)
}
func (s *profileRepoStub) ListExcluding(ctx context.Context, exclude []uuid.UUID) ([]models.Profile, error) {
	if s.listExcludingFn == nil {
		return nil, nil
	}
	return s.listExcludingFn(ctx, exclude)
}
func (s *profileRepoStub) ListByUserIDs(ctx context.Context, ids []uuid.UUID) ([]models.Profile, error) {
	if s.listByUserIDsFn == nil {
		return nil, nil
	}
	return s.listByUserIDsFn(ctx, ids)
}
func (s *profileRepoStub) UpdateMedia(ctx context.Context, profile *models.Profile) error {
	if s.updateMediaFn == nil {
		return nil
	}
	return s.updateMediaFn(ctx, profile)
}

type matchRepoStub struct {
	getFn            func(context.Context, uuid.UUID, uuid.UUID) (*models.Match, error)
	existsFn         func(context.Context, uuid.UUID, uuid.UUID) (bool, error)
	listForUserFn    func(context.Context, uuid.UUID) ([]models.Match, error)
	counterpartIDsFn func(context.Context, uuid.UUID) ([]uuid.UUID, error)
	deletePairFn     func(context.Context, uuid.UUID, uuid.UUID) error
	acceptRequestFn  func(context.Context, uuid.UUID, *models.Notification) (*models.Match, error)
	createDirectFn   func(context.Context, uuid.UUID, uuid.UUID, *models.Notification) (*models.Match, error)
}

func (s *matchRepoStub) Get(ctx context.Context, a, b uuid.UUID) (*models.Match, error) {
	if s.getFn == nil {
		return nil, models.NewNotFoundError("Match", b)
	}
	return s.getFn(ctx, a, b)
}
func (s *matchRepoStub) Exists(ctx context.Context, a, b uuid.UUID) (bool, error) {
	if s.existsFn == nil {
		return false, nil
	}
	return s.existsFn(ctx, a, b)
}
func (s *matchRepoStub) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Match, error) {
	if s.listForUserFn == nil {
		return nil, nil
	}
	return s.listForUserFn(ctx, userID)
}
func (s *matchRepoStub) CounterpartIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	if s.counterpartIDsFn == nil {
		return nil, nil
	}
	return s.counterpartIDsFn(ctx, userID)
}
func (s *matchRepoStub) DeletePair(ctx context.Context, a, b uuid.UUID) error {
	if s.deletePairFn == nil {
		return models.NewNotFoundError("Match", b)
	}
	return s.deletePairFn(ctx, a, b)
}
func (s *matchRepoStub) AcceptRequest(ctx context.Context, requestID uuid.UUID, accepted *models.Notification) (*models.Match, error) {
	if s.acceptRequestFn == nil {
		return nil, models.NewNotFoundError("Match request", requestID)
	}
	return s.acceptRequestFn(ctx, requestID, accepted)
}
func (s *matchRepoStub) CreateDirect(ctx context.Context, a, b uuid.UUID, notice *models.Notification) (*models.Match, error) {
	if s.createDirectFn == nil {
		return &models.Match{ID: uuid.New(), UserAID: a, UserBID: b}, nil
	}
	return s.createDirectFn(ctx, a, b, notice)
}

type notificationRepoStub struct {
	createFn                func(context.Context, *models.Notification) error
	getByIDFn               func(context.Context, uuid.UUID) (*models.Notification, error)
	listForUserFn           func(context.Context, uuid.UUID, bool, int, int) ([]models.Notification, error)
	countUnreadFn           func(context.Context, uuid.UUID) (int64, error)
	markReadFn              func(context.Context, uuid.UUID, uuid.UUID) error
	markAllReadFn           func(context.Context, uuid.UUID) (int64, error)
	deleteFn                func(context.Context, uuid.UUID) error
	pendingBetweenFn        func(context.Context, uuid.UUID, uuid.UUID) (*models.Notification, error)
	pendingCounterpartIDsFn func(context.Context, uuid.UUID) ([]uuid.UUID, error)
	listPendingIncomingFn   func(context.Context, uuid.UUID) ([]models.Notification, error)
	listPendingSentFn       func(context.Context, uuid.UUID) ([]models.Notification, error)
}

func (s *notificationRepoStub) Create(ctx context.Context, n *models.Notification) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, n)
}
func (s *notificationRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	if s.getByIDFn == nil {
		return nil, models.NewNotFoundError("Notification", id)
	}
	return s.getByIDFn(ctx, id)
}
func (s *notificationRepoStub) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]models.Notification, error) {
	if s.listForUserFn == nil {
		return nil, nil
	}
	return s.listForUserFn(ctx, userID, unreadOnly, limit, offset)
}
func (s *notificationRepoStub) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	if s.countUnreadFn == nil {
		return 0, nil
	}
	return s.countUnreadFn(ctx, userID)
}
func (s *notificationRepoStub) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	if s.markReadFn == nil {
		return nil
	}
	return s.markReadFn(ctx, id, userID)
}
func (s *notificationRepoStub) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	if s.markAllReadFn == nil {
		return 0, nil
	}
	return s.markAllReadFn(ctx, userID)
}
func (s *notificationRepoStub) Delete(ctx context.Context, id uuid.UUID) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, id)
}
func (s *notificationRepoStub) PendingBetween(ctx context.Context, a, b uuid.UUID) (*models.Notification, error) {
	if s.pendingBetweenFn == nil {
		return nil, nil
	}
	return s.pendingBetweenFn(ctx, a, b)
}
func (s *notificationRepoStub) PendingCounterpartIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	if s.pendingCounterpartIDsFn == nil {
		return nil, nil
	}
	return s.pendingCounterpartIDsFn(ctx, userID)
}
func (s *notificationRepoStub) ListPendingIncoming(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	if s.listPendingIncomingFn == nil {
		return nil, nil
	}
	return s.listPendingIncomingFn(ctx, userID)
}
func (s *notificationRepoStub) ListPendingSent(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	if s.listPendingSentFn == nil {
		return nil, nil
	}
	return s.listPendingSentFn(ctx, userID)
}

type blockRepoStub struct {
	createAndSeverFn func(context.Context, *models.Block) (repository.Severed, error)
	deleteFn         func(context.Context, uuid.UUID, uuid.UUID) error
	existsFn         func(context.Context, uuid.UUID, uuid.UUID) (bool, error)
	eitherBlockedFn  func(context.Context, uuid.UUID, uuid.UUID) (bool, error)
	blockedIDsFn     func(context.Context, uuid.UUID) ([]uuid.UUID, error)
	blockerIDsFn     func(context.Context, uuid.UUID) ([]uuid.UUID, error)
	listFn           func(context.Context, uuid.UUID) ([]models.Block, error)
}

func (s *blockRepoStub) CreateAndSever(ctx context.Context, b *models.Block) (repository.Severed, error) {
	if s.createAndSeverFn == nil {
		return repository.Severed{}, nil
	}
	return s.createAndSeverFn(ctx, b)
}
func (s *blockRepoStub) Delete(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	if s.deleteFn == nil {
		return models.NewNotFoundError("Block", blockedID)
	}
	return s.deleteFn(ctx, blockerID, blockedID)
}
func (s *blockRepoStub) Exists(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error) {
	if s.existsFn == nil {
		return false, nil
	}
	return s.existsFn(ctx, blockerID, blockedID)
}
func (s *blockRepoStub) EitherBlocked(ctx context.Context, a, b uuid.UUID) (bool, error) {
	if s.eitherBlockedFn == nil {
		return false, nil
	}
	return s.eitherBlockedFn(ctx, a, b)
}
func (s *blockRepoStub) BlockedIDs(ctx context.Context, blockerID uuid.UUID) ([]uuid.UUID, error) {
	if s.blockedIDsFn == nil {
		return nil, nil
	}
	return s.blockedIDsFn(ctx, blockerID)
}
func (s *blockRepoStub) BlockerIDs(ctx context.Context, blockedID uuid.UUID) ([]uuid.UUID, error) {
	if s.blockerIDsFn == nil {
		return nil, nil
	}
	return s.blockerIDsFn(ctx, blockedID)
}
func (s *blockRepoStub) List(ctx context.Context, blockerID uuid.UUID) ([]models.Block, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, blockerID)
}

// profileFixture builds a profile owned by a public user with default flags.
func profileFixture(userID uuid.UUID, username, academic, nonAcademic string) models.Profile {
	return models.Profile{
		ID:                   uuid.New(),
		UserID:               userID,
		Username:             username,
		AcademicInterests:    academic,
		NonAcademicInterests: nonAcademic,
		Images:               []string{},
		User:                 models.NewUser(userID, username+"@example.edu", nil),
	}
}

// profilesByID answers GetByUserID from a fixed set.
func profilesByID(profiles ...models.Profile) func(context.Context, uuid.UUID) (*models.Profile, error) {
	byID := make(map[uuid.UUID]models.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.UserID] = p
	}
	return func(_ context.Context, id uuid.UUID) (*models.Profile, error) {
		p, ok := byID[id]
		if !ok {
			return nil, models.NewNotFoundError("Profile", id)
		}
		return &p, nil
	}
}

// profilesIn answers ListByUserIDs from a fixed set.
func profilesIn(profiles ...models.Profile) func(context.Context, []uuid.UUID) ([]models.Profile, error) {
	return func(_ context.Context, ids []uuid.UUID) ([]models.Profile, error) {
		want := make(map[uuid.UUID]bool, len(ids))
		for _, id := range ids {
			want[id] = true
		}
		var out []models.Profile
		for _, p := range profiles {
			if want[p.UserID] {
				out = append(out, p)
			}
		}
		return out, nil
	}
}
