package service

import (
	"context"

	"github.com/askora/askora/internal/database/dbretry"
	"github.com/askora/askora/internal/database/models"
	"github.com/askora/askora/internal/database/types"
	"github.com/askora/askora/internal/redis"
	"go.uber.org/zap"
)

// VoteService handles vote-related business logic: the cast/update/retract
// entrypoints and the aggregate tally read, with a cache-aside tally cache.
type VoteService struct {
	model  *models.VoteModel
	counts *redis.VoteCountCache
	logger *zap.Logger
}

// NewVote creates a new vote service. The tally cache may be nil, in which
// case every read hits the database.
func NewVote(model *models.VoteModel, counts *redis.VoteCountCache, logger *zap.Logger) *VoteService {
	return &VoteService{
		model:  model,
		counts: counts,
		logger: logger.Named("vote_service"),
	}
}

// CastVote records or updates a user's vote on a content item and applies
// the reputation adjustment to the content's author. Returns the ledger
// entry for the transition, or nil when the cast changed nothing.
func (s *VoteService) CastVote(
	ctx context.Context, voterID uint64, ref types.ContentRef, isUpvote bool,
) (*types.LedgerEntry, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	entry, err := s.model.CastVote(ctx, voterID, ref, isUpvote)
	if err != nil {
		return nil, err
	}

	if entry == nil {
		s.logger.Debug("Vote cast changed nothing",
			zap.Uint64("voterID", voterID),
			zap.Uint64("contentID", ref.ID))

		return nil, nil
	}

	s.invalidateCounts(ctx, ref)

	s.logger.Info("Vote recorded",
		zap.Uint64("voterID", voterID),
		zap.String("contentKind", ref.Kind.String()),
		zap.Uint64("contentID", ref.ID),
		zap.Bool("isUpvote", isUpvote),
		zap.Int64("delta", entry.Delta))

	return entry, nil
}

// RetractVote removes a user's vote and reverses its reputation effect.
func (s *VoteService) RetractVote(
	ctx context.Context, voterID uint64, ref types.ContentRef,
) (*types.LedgerEntry, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	entry, err := s.model.RetractVote(ctx, voterID, ref)
	if err != nil {
		return nil, err
	}

	s.invalidateCounts(ctx, ref)

	s.logger.Info("Vote retracted",
		zap.Uint64("voterID", voterID),
		zap.String("contentKind", ref.Kind.String()),
		zap.Uint64("contentID", ref.ID))

	return entry, nil
}

// GetVote retrieves a user's current vote on a content item.
func (s *VoteService) GetVote(ctx context.Context, voterID uint64, ref types.ContentRef) (*types.Vote, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	return s.model.GetVote(ctx, voterID, ref)
}

// GetVoteCounts retrieves the vote tallies for a content item, served from
// the cache when possible.
func (s *VoteService) GetVoteCounts(ctx context.Context, ref types.ContentRef) (*types.VoteCounts, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	if s.counts != nil {
		cached, err := s.counts.Get(ctx, ref)
		if err != nil {
			s.logger.Warn("Failed to read cached vote counts", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	counts, err := dbretry.Operation(ctx, func(ctx context.Context) (*types.VoteCounts, error) {
		return s.model.CountVotes(ctx, ref)
	})
	if err != nil {
		return nil, err
	}

	if s.counts != nil {
		if err := s.counts.Set(ctx, ref, counts); err != nil {
			s.logger.Warn("Failed to cache vote counts", zap.Error(err))
		}
	}

	return counts, nil
}

func (s *VoteService) invalidateCounts(ctx context.Context, ref types.ContentRef) {
	if s.counts == nil {
		return
	}

	if err := s.counts.Invalidate(ctx, ref); err != nil {
		s.logger.Warn("Failed to invalidate vote counts", zap.Error(err))
	}
}
