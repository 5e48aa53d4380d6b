package redis_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/askora/askora/internal/database/types"
	"github.com/askora/askora/internal/database/types/enum"
	"github.com/askora/askora/internal/redis"
	"github.com/redis/rueidis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTest(t *testing.T) (*redis.VoteCountCache, *miniredis.Miniredis, func()) {
	t.Helper()
	// Start miniredis server
	mr, err := miniredis.Run()
	require.NoError(t, err)

	// Create Redis client
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)

	// Create test logger
	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	cache := redis.NewVoteCountCache(client, time.Minute, logger)

	cleanup := func() {
		mr.Close()
		client.Close()
		logger.Sync()
	}

	return cache, mr, cleanup
}

func TestGetMiss(t *testing.T) {
	t.Parallel()
	cache, _, cleanup := setupTest(t)
	defer cleanup()

	counts, err := cache.Get(t.Context(), types.ContentRef{Kind: enum.ContentKindQuestion, ID: 1})
	require.NoError(t, err)
	assert.Nil(t, counts, "cache miss should return nil without error")
}

func TestSetGet(t *testing.T) {
	t.Parallel()
	cache, _, cleanup := setupTest(t)
	defer cleanup()

	ctx := t.Context()
	ref := types.ContentRef{Kind: enum.ContentKindAnswer, ID: 42}
	stored := &types.VoteCounts{Upvotes: 7, Downvotes: 2}

	err := cache.Set(ctx, ref, stored)
	require.NoError(t, err)

	counts, err := cache.Get(ctx, ref)
	require.NoError(t, err)
	require.NotNil(t, counts)
	assert.Equal(t, stored, counts)
}

func TestKeysAreDistinctPerContent(t *testing.T) {
	t.Parallel()
	cache, _, cleanup := setupTest(t)
	defer cleanup()

	ctx := t.Context()
	// Same ID, different kind
	questionRef := types.ContentRef{Kind: enum.ContentKindQuestion, ID: 5}
	answerRef := types.ContentRef{Kind: enum.ContentKindAnswer, ID: 5}

	err := cache.Set(ctx, questionRef, &types.VoteCounts{Upvotes: 1})
	require.NoError(t, err)

	counts, err := cache.Get(ctx, answerRef)
	require.NoError(t, err)
	assert.Nil(t, counts)
}

func TestInvalidate(t *testing.T) {
	t.Parallel()
	cache, _, cleanup := setupTest(t)
	defer cleanup()

	ctx := t.Context()
	ref := types.ContentRef{Kind: enum.ContentKindQuestion, ID: 9}

	err := cache.Set(ctx, ref, &types.VoteCounts{Upvotes: 3, Downvotes: 1})
	require.NoError(t, err)

	err = cache.Invalidate(ctx, ref)
	require.NoError(t, err)

	counts, err := cache.Get(ctx, ref)
	require.NoError(t, err)
	assert.Nil(t, counts)
}

func TestEntriesExpire(t *testing.T) {
	t.Parallel()
	cache, mr, cleanup := setupTest(t)
	defer cleanup()

	ctx := t.Context()
	ref := types.ContentRef{Kind: enum.ContentKindAnswer, ID: 13}

	err := cache.Set(ctx, ref, &types.VoteCounts{Upvotes: 1})
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	counts, err := cache.Get(ctx, ref)
	require.NoError(t, err)
	assert.Nil(t, counts)
}
