package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"informatch/internal/featureflags"
	"informatch/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type connectionFixture struct {
	sender, target models.Profile
	profiles       *profileRepoStub
	matches        *matchRepoStub
	notifications  *notificationRepoStub
	blocks         *blockRepoStub
}

func newConnectionFixture() *connectionFixture {
	sender := profileFixture(uuid.New(), "ada", "", "")
	target := profileFixture(uuid.New(), "grace", "", "")
	return &connectionFixture{
		sender:        sender,
		target:        target,
		profiles:      &profileRepoStub{getByUserIDFn: profilesByID(sender, target), listByUserIDsFn: profilesIn(sender, target)},
		matches:       &matchRepoStub{},
		notifications: &notificationRepoStub{},
		blocks:        &blockRepoStub{},
	}
}

func (f *connectionFixture) service(flags *featureflags.Manager) *ConnectionService {
	return NewConnectionService(f.profiles, f.matches, f.notifications, f.blocks, flags)
}

func TestConnectionService_SendRequest_CreatesPendingRequest(t *testing.T) {
	t.Parallel()
	f := newConnectionFixture()

	var created *models.Notification
	f.notifications.createFn = func(_ context.Context, n *models.Notification) error {
		created = n
		return nil
	}

	res, err := f.service(nil).SendRequest(context.Background(), f.sender.UserID, f.target.UserID, "")
	require.NoError(t, err)
	assert.Equal(t, ConnectPending, res.Status)
	assert.Nil(t, res.Match)
	require.NotNil(t, created)
	assert.Same(t, created, res.Request)
	assert.Equal(t, models.NotificationMatchRequest, created.Type)
	assert.Equal(t, f.target.UserID, created.UserID)
	assert.Equal(t, f.sender.UserID, created.SenderUUID())
	assert.Equal(t, models.PairKey(f.sender.UserID, f.target.UserID), *created.PairKey)
	assert.Equal(t, "ada wants to connect with you", created.Message)
	assert.Equal(t, "ada", res.Request.Sender.Username)
}

func TestConnectionService_SendRequest_InstantMatch(t *testing.T) {
	t.Parallel()

	t.Run("public target matches immediately", func(t *testing.T) {
		t.Parallel()
		f := newConnectionFixture()
		var notice *models.Notification
		f.matches.createDirectFn = func(_ context.Context, a, b uuid.UUID, n *models.Notification) (*models.Match, error) {
			notice = n
			return &models.Match{ID: uuid.New(), UserAID: a, UserBID: b}, nil
		}
		f.notifications.createFn = func(context.Context, *models.Notification) error {
			t.Fatal("no pending request expected")
			return nil
		}

		res, err := f.service(featureflags.NewManager("instant_match=true")).
			SendRequest(context.Background(), f.sender.UserID, f.target.UserID, "")
		require.NoError(t, err)
		assert.Equal(t, ConnectMatched, res.Status)
		require.NotNil(t, res.Match)
		require.NotNil(t, notice)
		assert.Same(t, notice, res.Notice)
		assert.Equal(t, models.NotificationNewMatch, notice.Type)
		assert.Equal(t, f.target.UserID, notice.UserID)
	})

	t.Run("private target still gets a request", func(t *testing.T) {
		t.Parallel()
		f := newConnectionFixture()
		f.target.User.IsPrivate = true
		f.profiles.getByUserIDFn = profilesByID(f.sender, f.target)
		f.matches.createDirectFn = func(context.Context, uuid.UUID, uuid.UUID, *models.Notification) (*models.Match, error) {
			t.Fatal("private targets must not be matched directly")
			return nil, nil
		}

		res, err := f.service(featureflags.NewManager("instant_match=true")).
			SendRequest(context.Background(), f.sender.UserID, f.target.UserID, "hi")
		require.NoError(t, err)
		assert.Equal(t, ConnectPending, res.Status)
		assert.Equal(t, "hi", res.Request.Message)
	})
}

func TestConnectionService_SendRequest_Guards(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		setup    func(f *connectionFixture)
		sender   func(f *connectionFixture) uuid.UUID
		target   func(f *connectionFixture) uuid.UUID
		wantCode string
		wantMsg  string
	}{
		{
			name:     "self",
			target:   func(f *connectionFixture) uuid.UUID { return f.sender.UserID },
			wantCode: models.CodeValidation,
		},
		{
			name:     "sender without profile",
			sender:   func(*connectionFixture) uuid.UUID { return uuid.New() },
			wantCode: models.CodeValidation,
			wantMsg:  models.NoProfileMessage,
		},
		{
			name:     "target without profile",
			target:   func(*connectionFixture) uuid.UUID { return uuid.New() },
			wantCode: models.CodeNotFound,
		},
		{
			name: "blocked",
			setup: func(f *connectionFixture) {
				f.blocks.eitherBlockedFn = func(context.Context, uuid.UUID, uuid.UUID) (bool, error) { return true, nil }
			},
			wantCode: models.CodeForbidden,
		},
		{
			name: "already matched",
			setup: func(f *connectionFixture) {
				f.matches.existsFn = func(context.Context, uuid.UUID, uuid.UUID) (bool, error) { return true, nil }
			},
			wantCode: models.CodeConflict,
			wantMsg:  "Already connected",
		},
		{
			name: "pending in reverse direction",
			setup: func(f *connectionFixture) {
				f.notifications.pendingBetweenFn = func(context.Context, uuid.UUID, uuid.UUID) (*models.Notification, error) {
					return models.NewMatchRequest(f.target.UserID, f.sender.UserID, ""), nil
				}
			},
			wantCode: models.CodeConflict,
			wantMsg:  "A request is already pending",
		},
		{
			name: "lost insert race",
			setup: func(f *connectionFixture) {
				f.notifications.createFn = func(context.Context, *models.Notification) error {
					return models.NewConflictError("A request is already pending")
				}
			},
			wantCode: models.CodeConflict,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newConnectionFixture()
			if tt.setup != nil {
				tt.setup(f)
			}
			sender, target := f.sender.UserID, f.target.UserID
			if tt.sender != nil {
				sender = tt.sender(f)
			}
			if tt.target != nil {
				target = tt.target(f)
			}
			_, err := f.service(nil).SendRequest(context.Background(), sender, target, "")
			require.Error(t, err)
			assert.True(t, models.HasCode(err, tt.wantCode), "got %v", err)
			if tt.wantMsg != "" {
				var appErr *models.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, tt.wantMsg, appErr.Message)
			}
		})
	}
}

func TestConnectionService_AcceptRequest(t *testing.T) {
	t.Parallel()

	f := newConnectionFixture()
	request := models.NewMatchRequest(f.sender.UserID, f.target.UserID, "")
	request.ID = uuid.New()
	f.notifications.getByIDFn = func(_ context.Context, id uuid.UUID) (*models.Notification, error) {
		if id != request.ID {
			return nil, models.NewNotFoundError("Notification", id)
		}
		return request, nil
	}
	var accepted *models.Notification
	f.matches.acceptRequestFn = func(_ context.Context, id uuid.UUID, n *models.Notification) (*models.Match, error) {
		accepted = n
		return &models.Match{ID: uuid.New(), UserAID: f.sender.UserID, UserBID: f.target.UserID}, nil
	}
	svc := f.service(nil)

	_, _, err := svc.AcceptRequest(context.Background(), f.sender.UserID, request.ID)
	assert.True(t, models.HasCode(err, models.CodeForbidden), "only the recipient can accept")

	_, _, err = svc.AcceptRequest(context.Background(), f.target.UserID, uuid.New())
	assert.True(t, models.HasCode(err, models.CodeNotFound))

	match, notice, err := svc.AcceptRequest(context.Background(), f.target.UserID, request.ID)
	require.NoError(t, err)
	assert.Equal(t, f.sender.UserID, match.Other(f.target.UserID))
	require.NotNil(t, accepted)
	assert.Same(t, accepted, notice)
	assert.Equal(t, models.NotificationMatchAccepted, accepted.Type)
	assert.Equal(t, f.sender.UserID, accepted.UserID)
	assert.Equal(t, "grace accepted your match request", accepted.Message)
}

func TestConnectionService_RejectAndCancel(t *testing.T) {
	t.Parallel()

	f := newConnectionFixture()
	request := models.NewMatchRequest(f.sender.UserID, f.target.UserID, "")
	request.ID = uuid.New()
	f.notifications.getByIDFn = func(context.Context, uuid.UUID) (*models.Notification, error) {
		return request, nil
	}
	var deleted []uuid.UUID
	f.notifications.deleteFn = func(_ context.Context, id uuid.UUID) error {
		deleted = append(deleted, id)
		return nil
	}
	svc := f.service(nil)

	_, err := svc.RejectRequest(context.Background(), f.sender.UserID, request.ID)
	assert.True(t, models.HasCode(err, models.CodeForbidden))
	_, err = svc.CancelRequest(context.Background(), f.target.UserID, request.ID)
	assert.True(t, models.HasCode(err, models.CodeForbidden))
	assert.Empty(t, deleted)

	_, err = svc.RejectRequest(context.Background(), f.target.UserID, request.ID)
	require.NoError(t, err)
	_, err = svc.CancelRequest(context.Background(), f.sender.UserID, request.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{request.ID, request.ID}, deleted)
}

func TestConnectionService_NonRequestNotificationIsNotARequest(t *testing.T) {
	t.Parallel()
	f := newConnectionFixture()
	n := models.NewNotification(f.target.UserID, f.sender.UserID, models.NotificationNewMatch, "")
	n.ID = uuid.New()
	f.notifications.getByIDFn = func(context.Context, uuid.UUID) (*models.Notification, error) { return n, nil }

	_, err := f.service(nil).RejectRequest(context.Background(), f.target.UserID, n.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestConnectionService_ListMatches(t *testing.T) {
	t.Parallel()
	f := newConnectionFixture()
	f.target.Bio = "hidden"
	f.target.User.ShowBio = false
	f.profiles.listByUserIDsFn = profilesIn(f.sender, f.target)

	ghost := uuid.New()
	created := time.Now().UTC()
	f.matches.listForUserFn = func(context.Context, uuid.UUID) ([]models.Match, error) {
		return []models.Match{
			{ID: uuid.New(), UserAID: f.sender.UserID, UserBID: f.target.UserID, CreatedAt: created},
			{ID: uuid.New(), UserAID: ghost, UserBID: f.sender.UserID, CreatedAt: created},
		}, nil
	}

	views, err := f.service(nil).ListMatches(context.Background(), f.sender.UserID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, f.target.UserID, views[0].UserID)
	require.NotNil(t, views[0].Profile)
	assert.Equal(t, "grace", views[0].Profile.Username)
	assert.Empty(t, views[0].Profile.Bio)
	assert.Equal(t, ghost, views[1].UserID)
	assert.Nil(t, views[1].Profile)
}

func TestConnectionService_Status(t *testing.T) {
	t.Parallel()

	me, other := uuid.New(), uuid.New()
	tests := []struct {
		name    string
		blocked bool
		matched bool
		pending *models.Notification
		want    models.RelationshipStatus
	}{
		{name: "none", want: models.StatusNone},
		{name: "blocked wins", blocked: true, matched: true, want: models.StatusBlocked},
		{name: "matched", matched: true, want: models.StatusMatched},
		{name: "sent", pending: models.NewMatchRequest(me, other, ""), want: models.StatusPendingSent},
		{name: "received", pending: models.NewMatchRequest(other, me, ""), want: models.StatusPendingReceived},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := NewConnectionService(&profileRepoStub{},
				&matchRepoStub{existsFn: func(context.Context, uuid.UUID, uuid.UUID) (bool, error) { return tt.matched, nil }},
				&notificationRepoStub{pendingBetweenFn: func(context.Context, uuid.UUID, uuid.UUID) (*models.Notification, error) {
					return tt.pending, nil
				}},
				&blockRepoStub{eitherBlockedFn: func(context.Context, uuid.UUID, uuid.UUID) (bool, error) { return tt.blocked, nil }},
				nil)
			got, err := svc.Status(context.Background(), me, other)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConnectionService_Unmatch(t *testing.T) {
	t.Parallel()
	f := newConnectionFixture()
	svc := f.service(nil)

	err := svc.Unmatch(context.Background(), f.sender.UserID, f.target.UserID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))

	storeErr := errors.New("boom")
	f.matches.deletePairFn = func(context.Context, uuid.UUID, uuid.UUID) error { return storeErr }
	assert.ErrorIs(t, svc.Unmatch(context.Background(), f.sender.UserID, f.target.UserID), storeErr)

	assert.True(t, models.HasCode(svc.Unmatch(context.Background(), f.sender.UserID, f.sender.UserID), models.CodeValidation))
}

func TestConnectionService_IncomingRequestsCarrySummaries(t *testing.T) {
	t.Parallel()
	f := newConnectionFixture()
	f.notifications.listPendingIncomingFn = func(context.Context, uuid.UUID) ([]models.Notification, error) {
		return []models.Notification{*models.NewMatchRequest(f.sender.UserID, f.target.UserID, "")}, nil
	}
	got, err := f.service(nil).IncomingRequests(context.Background(), f.target.UserID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Sender)
	assert.Equal(t, "ada", got[0].Sender.Username)
	require.NotNil(t, got[0].Recipient)
	assert.Equal(t, "grace", got[0].Recipient.Username)
}
