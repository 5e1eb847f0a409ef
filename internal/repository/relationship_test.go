package repository

import (
	"context"
	"sync"
	"testing"

	"informatch/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepository_ConcurrentDuplicateRequests(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()
	a := seedUser(t, db)
	b := seedUser(t, db)

	const attempts = 2
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Create(ctx, models.NewMatchRequest(a.ID, b.ID, "hi"))
		}(i)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case models.HasCode(err, models.CodeConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflicts)

	// The reverse direction shares the pair key.
	err := repo.Create(ctx, models.NewMatchRequest(b.ID, a.ID, "hey"))
	assert.True(t, models.HasCode(err, models.CodeConflict))
}

func TestNotificationRepository_PendingQueries(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()
	me := seedUser(t, db)
	in := seedUser(t, db)
	out := seedUser(t, db)

	incoming := models.NewMatchRequest(in.ID, me.ID, "")
	require.NoError(t, repo.Create(ctx, incoming))
	require.NoError(t, repo.Create(ctx, models.NewMatchRequest(me.ID, out.ID, "")))
	require.NoError(t, repo.Create(ctx, models.NewNotification(me.ID, out.ID, models.NotificationNewMatch, "")))

	ids, err := repo.PendingCounterpartIDs(ctx, me.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{in.ID, out.ID}, ids)

	got, err := repo.PendingBetween(ctx, me.ID, in.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, incoming.ID, got.ID)

	none, err := repo.PendingBetween(ctx, in.ID, out.ID)
	require.NoError(t, err)
	assert.Nil(t, none)

	rx, err := repo.ListPendingIncoming(ctx, me.ID)
	require.NoError(t, err)
	require.Len(t, rx, 1)
	assert.Equal(t, in.ID, rx[0].SenderUUID())

	tx, err := repo.ListPendingSent(ctx, me.ID)
	require.NoError(t, err)
	require.Len(t, tx, 1)
	assert.Equal(t, out.ID, tx[0].UserID)
}

func TestNotificationRepository_ReadState(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()
	me := seedUser(t, db)
	other := seedUser(t, db)

	first := models.NewNotification(me.ID, other.ID, models.NotificationNewMatch, "one")
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, models.NewNotification(me.ID, other.ID, models.NotificationMatchAccepted, "two")))

	count, err := repo.CountUnread(ctx, me.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	assert.True(t, models.HasCode(repo.MarkRead(ctx, first.ID, other.ID), models.CodeNotFound))
	require.NoError(t, repo.MarkRead(ctx, first.ID, me.ID))

	unread, err := repo.ListForUser(ctx, me.ID, true, 10, 0)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "two", unread[0].Message)

	n, err := repo.MarkAllRead(ctx, me.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	all, err := repo.ListForUser(ctx, me.ID, false, 1, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.Delete(ctx, first.ID))
	assert.True(t, models.HasCode(repo.Delete(ctx, first.ID), models.CodeNotFound))
}

func TestMatchRepository_AcceptRequest(t *testing.T) {
	db := newTestDB(t)
	notes := NewNotificationRepository(db)
	matches := NewMatchRepository(db)
	ctx := context.Background()
	sender := seedUser(t, db)
	recipient := seedUser(t, db)

	req := models.NewMatchRequest(sender.ID, recipient.ID, "")
	require.NoError(t, notes.Create(ctx, req))

	accepted := models.NewNotification(sender.ID, recipient.ID, models.NotificationMatchAccepted, "accepted")
	match, err := matches.AcceptRequest(ctx, req.ID, accepted)
	require.NoError(t, err)
	assert.Equal(t, recipient.ID, match.Other(sender.ID))
	assert.Equal(t, sender.ID, match.Other(recipient.ID))

	ok, err := matches.Exists(ctx, recipient.ID, sender.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	pending, err := notes.PendingBetween(ctx, sender.ID, recipient.ID)
	require.NoError(t, err)
	assert.Nil(t, pending, "request row must be deleted on accept")

	inbox, err := notes.ListForUser(ctx, sender.ID, false, 10, 0)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, models.NotificationMatchAccepted, inbox[0].Type)

	_, err = matches.AcceptRequest(ctx, req.ID, nil)
	assert.True(t, models.HasCode(err, models.CodeNotFound))

	ids, err := matches.CounterpartIDs(ctx, sender.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{recipient.ID}, ids)

	require.NoError(t, matches.DeletePair(ctx, sender.ID, recipient.ID))
	assert.True(t, models.HasCode(matches.DeletePair(ctx, sender.ID, recipient.ID), models.CodeNotFound))
}

func TestMatchRepository_CreateDirect(t *testing.T) {
	db := newTestDB(t)
	matches := NewMatchRepository(db)
	ctx := context.Background()
	a := seedUser(t, db)
	b := seedUser(t, db)

	m, err := matches.CreateDirect(ctx, b.ID, a.ID, models.NewNotification(b.ID, a.ID, models.NotificationNewMatch, ""))
	require.NoError(t, err)
	lo, hi := models.OrderedPair(a.ID, b.ID)
	assert.Equal(t, lo, m.UserAID)
	assert.Equal(t, hi, m.UserBID)

	_, err = matches.CreateDirect(ctx, a.ID, b.ID, nil)
	assert.True(t, models.HasCode(err, models.CodeConflict))

	_, err = matches.CreateDirect(ctx, a.ID, a.ID, nil)
	assert.True(t, models.HasCode(err, models.CodeValidation))

	got, err := matches.Get(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)
}

func TestBlockRepository_CreateAndSever(t *testing.T) {
	db := newTestDB(t)
	blocks := NewBlockRepository(db)
	matches := NewMatchRepository(db)
	notes := NewNotificationRepository(db)
	ctx := context.Background()
	me := seedUser(t, db)
	friend := seedUser(t, db)
	suitor := seedUser(t, db)

	_, err := matches.CreateDirect(ctx, me.ID, friend.ID, nil)
	require.NoError(t, err)
	require.NoError(t, notes.Create(ctx, models.NewMatchRequest(suitor.ID, me.ID, "")))

	severed, err := blocks.CreateAndSever(ctx, &models.Block{BlockerID: me.ID, BlockedID: friend.ID})
	require.NoError(t, err)
	assert.True(t, severed.Match)
	assert.Nil(t, severed.Request)
	ok, err := matches.Exists(ctx, me.ID, friend.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	severed, err = blocks.CreateAndSever(ctx, &models.Block{BlockerID: me.ID, BlockedID: suitor.ID})
	require.NoError(t, err)
	assert.False(t, severed.Match)
	require.NotNil(t, severed.Request)
	assert.Equal(t, suitor.ID, severed.Request.SenderUUID())
	assert.Equal(t, me.ID, severed.Request.UserID)
	pending, err := notes.PendingBetween(ctx, me.ID, suitor.ID)
	require.NoError(t, err)
	assert.Nil(t, pending)

	_, err = blocks.CreateAndSever(ctx, &models.Block{BlockerID: me.ID, BlockedID: friend.ID})
	assert.True(t, models.HasCode(err, models.CodeConflict))

	_, err = blocks.CreateAndSever(ctx, &models.Block{BlockerID: me.ID, BlockedID: me.ID})
	assert.True(t, models.HasCode(err, models.CodeValidation))

	blocked, err := blocks.BlockedIDs(ctx, me.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{friend.ID, suitor.ID}, blocked)

	blockers, err := blocks.BlockerIDs(ctx, friend.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{me.ID}, blockers)

	either, err := blocks.EitherBlocked(ctx, friend.ID, me.ID)
	require.NoError(t, err)
	assert.True(t, either)

	list, err := blocks.List(ctx, me.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, blocks.Delete(ctx, me.ID, friend.ID))
	assert.True(t, models.HasCode(blocks.Delete(ctx, me.ID, friend.ID), models.CodeNotFound))
	exists, err := blocks.Exists(ctx, me.ID, friend.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}
