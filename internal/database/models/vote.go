package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/askora/askora/internal/database/dbretry"
	"github.com/askora/askora/internal/database/types"
	"github.com/askora/askora/internal/database/types/enum"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// VoteModel handles database operations for votes and the reputation
// adjustments they cause. Every mutation runs the full path — author
// resolution, self-vote guard, vote row write, score adjustment and ledger
// append — inside one transaction, so a vote write and its ledger entry
// commit or roll back together.
type VoteModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewVote creates a new vote model.
func NewVote(db *bun.DB, logger *zap.Logger) *VoteModel {
	return &VoteModel{
		db:     db,
		logger: logger.Named("db_vote"),
	}
}

// GetVote retrieves a user's current vote on a content item.
func (v *VoteModel) GetVote(ctx context.Context, voterID uint64, ref types.ContentRef) (*types.Vote, error) {
	vote := new(types.Vote)

	err := v.db.NewSelect().
		Model(vote).
		Where("voter_id = ?", voterID).
		Where("content_kind = ?", ref.Kind).
		Where("content_id = ?", ref.ID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrVoteNotFound
		}

		return nil, fmt.Errorf("failed to get vote: %w", err)
	}

	return vote, nil
}

// CastVote saves a vote from a user on a content item. A fresh vote inserts
// a row and credits the author by the point table; a vote in the opposite
// direction updates the row in place and applies the difference between the
// two directions. Casting the same direction twice is a no-op.
//
// Returns the ledger entry appended for the transition, or nil when the cast
// changed nothing.
func (v *VoteModel) CastVote(
	ctx context.Context, voterID uint64, ref types.ContentRef, isUpvote bool,
) (*types.LedgerEntry, error) {
	var entry *types.LedgerEntry

	err := dbretry.Transaction(ctx, v.db, func(ctx context.Context, tx bun.Tx) error {
		entry = nil

		authorID, err := v.resolveAuthor(ctx, tx, ref)
		if err != nil {
			return err
		}

		if authorID == voterID {
			return types.ErrSelfVote
		}

		now := time.Now()

		// Look up the voter's existing vote to decide between the insert
		// and update paths.
		existing := new(types.Vote)
		err = tx.NewSelect().
			Model(existing).
			Where("voter_id = ?", voterID).
			Where("content_kind = ?", ref.Kind).
			Where("content_id = ?", ref.ID).
			Scan(ctx)

		var oldDir *bool

		switch {
		case err == nil:
			if existing.IsUpvote == isUpvote {
				// Same direction again, no transition and no ledger entry
				return nil
			}

			prev := existing.IsUpvote
			oldDir = &prev

			_, err = tx.NewUpdate().
				Model((*types.Vote)(nil)).
				Set("is_upvote = ?", isUpvote).
				Set("updated_at = ?", now).
				Where("voter_id = ?", voterID).
				Where("content_kind = ?", ref.Kind).
				Where("content_id = ?", ref.ID).
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to update vote: %w", err)
			}
		case errors.Is(err, sql.ErrNoRows):
			vote := &types.Vote{
				VoterID:     voterID,
				ContentKind: ref.Kind,
				ContentID:   ref.ID,
				IsUpvote:    isUpvote,
				CreatedAt:   now,
				UpdatedAt:   now,
			}

			if _, err := tx.NewInsert().Model(vote).Exec(ctx); err != nil {
				return fmt.Errorf("failed to insert vote: %w", err)
			}
		default:
			return fmt.Errorf("failed to get existing vote: %w", err)
		}

		if authorID == 0 {
			// Orphaned content, keep the vote but skip the accounting
			v.logger.Warn("Vote saved for content with no resolvable author",
				zap.Uint64("contentID", ref.ID),
				zap.String("contentKind", ref.Kind.String()))

			return nil
		}

		entry, err = v.applyTransition(ctx, tx, authorID, ref, oldDir, &isUpvote, now)

		return err
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// RetractVote removes a user's vote on a content item and reverses the
// points it originally applied, subject to the score floor. Returns the
// ledger entry appended for the removal.
func (v *VoteModel) RetractVote(
	ctx context.Context, voterID uint64, ref types.ContentRef,
) (*types.LedgerEntry, error) {
	var entry *types.LedgerEntry

	err := dbretry.Transaction(ctx, v.db, func(ctx context.Context, tx bun.Tx) error {
		entry = nil

		var wasUpvote bool

		err := tx.NewDelete().
			Model((*types.Vote)(nil)).
			Where("voter_id = ?", voterID).
			Where("content_kind = ?", ref.Kind).
			Where("content_id = ?", ref.ID).
			Returning("is_upvote").
			Scan(ctx, &wasUpvote)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return types.ErrVoteNotFound
			}

			return fmt.Errorf("failed to delete vote: %w", err)
		}

		authorID, err := v.resolveAuthor(ctx, tx, ref)
		if err != nil {
			if errors.Is(err, types.ErrContentNotFound) {
				// Content was removed out from under the vote, nothing to credit
				v.logger.Warn("Retracted vote on deleted content",
					zap.Uint64("contentID", ref.ID),
					zap.String("contentKind", ref.Kind.String()))

				return nil
			}

			return err
		}

		if authorID == 0 {
			v.logger.Warn("Retracted vote on content with no resolvable author",
				zap.Uint64("contentID", ref.ID),
				zap.String("contentKind", ref.Kind.String()))

			return nil
		}

		entry, err = v.applyTransition(ctx, tx, authorID, ref, &wasUpvote, nil, time.Now())

		return err
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// CountVotes aggregates the vote tallies for a single content item.
func (v *VoteModel) CountVotes(ctx context.Context, ref types.ContentRef) (*types.VoteCounts, error) {
	counts := new(types.VoteCounts)

	err := v.db.NewSelect().
		Model((*types.Vote)(nil)).
		ColumnExpr("count(*) FILTER (WHERE is_upvote) AS upvotes").
		ColumnExpr("count(*) FILTER (WHERE NOT is_upvote) AS downvotes").
		Where("content_kind = ?", ref.Kind).
		Where("content_id = ?", ref.ID).
		Scan(ctx, counts)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}

	return counts, nil
}

// resolveAuthor looks up the author of the referenced content item within
// the current transaction.
func (v *VoteModel) resolveAuthor(ctx context.Context, tx bun.Tx, ref types.ContentRef) (uint64, error) {
	var authorID uint64

	query := tx.NewSelect().Column("author_id").Where("id = ?", ref.ID)

	switch ref.Kind {
	case enum.ContentKindQuestion:
		query = query.Model((*types.Question)(nil))
	case enum.ContentKindAnswer:
		query = query.Model((*types.Answer)(nil))
	default:
		return 0, types.ErrInvalidContent
	}

	if err := query.Scan(ctx, &authorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, types.ErrContentNotFound
		}

		return 0, fmt.Errorf("failed to resolve content author: %w", err)
	}

	return authorID, nil
}

// applyTransition adjusts the author's score by the transition delta and
// appends the matching ledger entry. The score update is a relative in-place
// adjustment so concurrent votes on the same author serialize on the account
// row without lost updates.
func (v *VoteModel) applyTransition(
	ctx context.Context, tx bun.Tx, authorID uint64,
	ref types.ContentRef, oldDir, newDir *bool, now time.Time,
) (*types.LedgerEntry, error) {
	delta := types.TransitionDelta(ref.Kind, oldDir, newDir)
	if delta == 0 {
		return nil, nil
	}

	account := &types.ReputationAccount{
		UserID:    authorID,
		Score:     types.MinScore,
		UpdatedAt: now,
	}

	_, err := tx.NewInsert().
		Model(account).
		On("CONFLICT (user_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure reputation account: %w", err)
	}

	_, err = tx.NewUpdate().
		Model((*types.ReputationAccount)(nil)).
		Set("score = GREATEST(?, score + ?)", types.MinScore, delta).
		Set("updated_at = ?", now).
		Where("user_id = ?", authorID).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust reputation score: %w", err)
	}

	entry := &types.LedgerEntry{
		ID:          uuid.New(),
		UserID:      authorID,
		Delta:       delta,
		Reason:      types.TransitionReason(ref.Kind, oldDir, newDir),
		ContentKind: ref.Kind,
		ContentID:   ref.ID,
		CreatedAt:   now,
	}

	if _, err := tx.NewInsert().Model(entry).Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	return entry, nil
}
