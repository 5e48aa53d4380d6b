package types

import (
	"time"

	"github.com/askora/askora/internal/database/types/enum"
	"github.com/google/uuid"
)

// MinScore is the floor for reputation scores. Scores never drop below it
// regardless of delta history.
const MinScore = 1

// Points awarded to a content author per vote, by content kind and direction.
const (
	QuestionUpvotePoints   = 5
	QuestionDownvotePoints = -2
	AnswerUpvotePoints     = 10
	AnswerDownvotePoints   = -2
)

// Reason labels for ledger entries that do not depend on content kind.
const (
	ReasonVoteChanged = "vote changed"
	ReasonVoteRemoved = "vote removed"
)

// ReputationAccount tracks the denormalized reputation score for one user.
// Mutated only through relative adjustments inside vote transactions.
type ReputationAccount struct {
	UserID    uint64    `bun:",pk"                json:"userId"`
	Score     int64     `bun:",notnull,default:1" json:"score"`
	UpdatedAt time.Time `bun:",notnull"           json:"updatedAt"`
}

// LedgerEntry is an immutable audit record of one reputation adjustment.
// The delta recorded is the table delta of the transition, not the
// post-clamp effect on the account score.
type LedgerEntry struct {
	ID          uuid.UUID        `bun:"type:uuid,pk" json:"id"`
	UserID      uint64           `bun:",notnull"     json:"userId"`
	Delta       int64            `bun:",notnull"     json:"delta"`
	Reason      string           `bun:",notnull"     json:"reason"`
	ContentKind enum.ContentKind `bun:",notnull"     json:"contentKind"`
	ContentID   uint64           `bun:",notnull"     json:"contentId"`
	CreatedAt   time.Time        `bun:",notnull"     json:"createdAt"`
}

// ScoreDrift reports a reputation account whose stored score disagrees with
// a clamped replay of its ledger. Drift is expected when downvotes were
// clamped at the floor and later reversed.
type ScoreDrift struct {
	UserID   uint64 `json:"userId"`
	Stored   int64  `json:"stored"`
	Replayed int64  `json:"replayed"`
}

// VotePoints returns the signed score contribution of one active vote.
func VotePoints(kind enum.ContentKind, isUpvote bool) int64 {
	switch kind {
	case enum.ContentKindQuestion:
		if isUpvote {
			return QuestionUpvotePoints
		}
		return QuestionDownvotePoints
	case enum.ContentKindAnswer:
		if isUpvote {
			return AnswerUpvotePoints
		}
		return AnswerDownvotePoints
	default:
		return 0
	}
}

// ApplyDelta applies a signed adjustment to a score with the floor clamp.
func ApplyDelta(score, delta int64) int64 {
	if s := score + delta; s > MinScore {
		return s
	}
	return MinScore
}

// TransitionDelta computes the score adjustment for a single vote state
// transition. A nil direction means the vote is absent and contributes zero,
// so casting, flipping and retracting all reduce to new minus old.
func TransitionDelta(kind enum.ContentKind, oldDir, newDir *bool) int64 {
	var oldPoints, newPoints int64
	if oldDir != nil {
		oldPoints = VotePoints(kind, *oldDir)
	}
	if newDir != nil {
		newPoints = VotePoints(kind, *newDir)
	}
	return newPoints - oldPoints
}

// TransitionReason returns the human-readable ledger label for a vote state
// transition. Returns an empty string when no transition occurred.
func TransitionReason(kind enum.ContentKind, oldDir, newDir *bool) string {
	switch {
	case oldDir == nil && newDir == nil:
		return ""
	case oldDir == nil:
		if *newDir {
			return kind.String() + " upvoted"
		}
		return kind.String() + " downvoted"
	case newDir == nil:
		return ReasonVoteRemoved
	default:
		return ReasonVoteChanged
	}
}
