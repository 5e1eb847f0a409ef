package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedProfile struct {
	Username string `json:"username"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb, "profile"), mr
}

func TestAside_FetchesOnceThenHits(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	key := ProfileKey(uuid.New())

	calls := 0
	fetch := func(dest *cachedProfile) func() error {
		return func() error {
			calls++
			dest.Username = "ada"
			return nil
		}
	}

	var first cachedProfile
	require.NoError(t, c.Aside(ctx, key, &first, ProfileTTL, fetch(&first)))
	assert.Equal(t, "ada", first.Username)
	assert.True(t, mr.Exists(key))

	var second cachedProfile
	require.NoError(t, c.Aside(ctx, key, &second, ProfileTTL, fetch(&second)))
	assert.Equal(t, "ada", second.Username)
	assert.Equal(t, 1, calls)

	c.Invalidate(ctx, key)
	assert.False(t, mr.Exists(key))
}

func TestAside_FetchErrorIsNotCached(t *testing.T) {
	c, mr := newTestCache(t)
	key := ProfileKey(uuid.New())

	var dest cachedProfile
	err := c.Aside(context.Background(), key, &dest, ProfileTTL, func() error {
		return errors.New("db down")
	})
	assert.Error(t, err)
	assert.False(t, mr.Exists(key))
}

func TestNilCache_AlwaysFetches(t *testing.T) {
	c := New(nil, "profile")
	calls := 0
	var dest cachedProfile
	for i := 0; i < 2; i++ {
		require.NoError(t, c.Aside(context.Background(), "k", &dest, ProfileTTL, func() error {
			calls++
			return nil
		}))
	}
	assert.Equal(t, 2, calls)
	c.Invalidate(context.Background(), "k")
}

func TestParseOptions(t *testing.T) {
	opts, err := ParseOptions("redis://:secret@cache:6380/2")
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)

	opts, err = ParseOptions("localhost:6379")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
}

func TestInitRedis_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	assert.Nil(t, InitRedis(addr))
}
