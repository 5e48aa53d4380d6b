package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/askora/askora/internal/database/types"
	"github.com/bytedance/sonic"
	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

// DefaultVoteCountTTL is used when no TTL is configured.
const DefaultVoteCountTTL = 30 * time.Second

// VoteCountCache caches aggregated vote tallies per content item. Entries
// are deleted on every vote mutation, so the TTL only bounds staleness for
// writes this process never saw.
type VoteCountCache struct {
	client rueidis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewVoteCountCache creates a new vote count cache.
func NewVoteCountCache(client rueidis.Client, ttl time.Duration, logger *zap.Logger) *VoteCountCache {
	if ttl <= 0 {
		ttl = DefaultVoteCountTTL
	}

	return &VoteCountCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("vote_count_cache"),
	}
}

// Get retrieves cached tallies for a content item.
// Returns nil without error on a cache miss.
func (c *VoteCountCache) Get(ctx context.Context, ref types.ContentRef) (*types.VoteCounts, error) {
	resp := c.client.Do(ctx, c.client.B().Get().Key(c.key(ref)).Build())

	data, err := resp.AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get cached vote counts: %w", err)
	}

	counts := new(types.VoteCounts)
	if err := sonic.Unmarshal(data, counts); err != nil {
		return nil, fmt.Errorf("failed to decode cached vote counts: %w", err)
	}

	return counts, nil
}

// Set stores tallies for a content item with the configured TTL.
func (c *VoteCountCache) Set(ctx context.Context, ref types.ContentRef, counts *types.VoteCounts) error {
	data, err := sonic.Marshal(counts)
	if err != nil {
		return fmt.Errorf("failed to encode vote counts: %w", err)
	}

	err = c.client.Do(ctx, c.client.B().Set().
		Key(c.key(ref)).
		Value(rueidis.BinaryString(data)).
		Ex(c.ttl).
		Build()).Error()
	if err != nil {
		return fmt.Errorf("failed to cache vote counts: %w", err)
	}

	return nil
}

// Invalidate drops the cached tallies for a content item.
func (c *VoteCountCache) Invalidate(ctx context.Context, ref types.ContentRef) error {
	err := c.client.Do(ctx, c.client.B().Del().Key(c.key(ref)).Build()).Error()
	if err != nil {
		return fmt.Errorf("failed to invalidate vote counts: %w", err)
	}

	return nil
}

func (c *VoteCountCache) key(ref types.ContentRef) string {
	return fmt.Sprintf("vote_counts:%d:%d", ref.Kind, ref.ID)
}
