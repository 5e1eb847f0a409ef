package notifications

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotifier(t *testing.T) *Notifier {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewNotifier(rdb)
}

func TestNotifier_NilRedisIsNoop(t *testing.T) {
	n := NewNotifier(nil)
	assert.NoError(t, n.PublishUser(context.Background(), uuid.New(), "test payload"))
	assert.NoError(t, n.PublishEvent(context.Background(), uuid.New(), EventMatchCreated, nil))
	assert.NoError(t, n.StartPatternSubscriber(context.Background(), func(string, string) {}))
}

func TestUserChannel(t *testing.T) {
	t.Parallel()
	id := uuid.MustParse("7d7d4b8e-4f5c-4c1b-9b1e-0a7f3c1d2e3f")
	assert.Equal(t, "notifications:user:7d7d4b8e-4f5c-4c1b-9b1e-0a7f3c1d2e3f", UserChannel(id))

	parsed, ok := ParseUserChannel(UserChannel(id))
	require.True(t, ok)
	assert.Equal(t, id, parsed)

	for _, bad := range []string{"", "notifications:user:", "chat:conv:1", "notifications:user:nope"} {
		_, ok := ParseUserChannel(bad)
		assert.False(t, ok, bad)
	}
}

func TestNotifier_PublishEventReachesSubscriber(t *testing.T) {
	n := newTestNotifier(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	recipient := uuid.New()
	type delivery struct {
		channel string
		payload string
	}
	got := make(chan delivery, 1)
	require.NoError(t, n.StartPatternSubscriber(ctx, func(channel, payload string) {
		got <- delivery{channel, payload}
	}))

	require.NoError(t, n.PublishEvent(context.Background(), recipient, EventMatchRequestReceived, map[string]any{
		"request_id": "abc",
	}))

	select {
	case d := <-got:
		assert.Equal(t, UserChannel(recipient), d.channel)
		var ev Event
		require.NoError(t, json.Unmarshal([]byte(d.payload), &ev))
		assert.Equal(t, EventMatchRequestReceived, ev.Type)
		assert.Equal(t, "abc", ev.Payload["request_id"])
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestNotifier_SubscriberStopsOnCancel(t *testing.T) {
	n := newTestNotifier(t)
	ctx, cancel := context.WithCancel(context.Background())

	var received int32
	payloads := make(chan string, 2)
	require.NoError(t, n.StartPatternSubscriber(ctx, func(_ string, payload string) {
		atomic.AddInt32(&received, 1)
		payloads <- payload
	}))

	user := uuid.New()
	require.NoError(t, n.PublishUser(context.Background(), user, "before-cancel"))
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&received) >= 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	time.Sleep(20 * time.Millisecond)

	// Drain the pre-cancel message to avoid false positives.
	select {
	case <-payloads:
	default:
	}

	require.NoError(t, n.PublishUser(context.Background(), user, "after-cancel"))
	assert.Never(t, func() bool {
		select {
		case payload := <-payloads:
			return payload == "after-cancel"
		default:
			return false
		}
	}, 200*time.Millisecond, 10*time.Millisecond)
}

func TestNotifier_SubscriberRecoversFromPanic(t *testing.T) {
	n := newTestNotifier(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls int32
	require.NoError(t, n.StartPatternSubscriber(ctx, func(_ string, payload string) {
		if atomic.AddInt32(&calls, 1) == 1 {
			panic("boom")
		}
	}))

	user := uuid.New()
	require.NoError(t, n.PublishUser(context.Background(), user, "first"))
	require.NoError(t, n.PublishUser(context.Background(), user, "second"))
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 2
	}, time.Second, 10*time.Millisecond)
}
