package types

import (
	"errors"
	"time"

	"github.com/askora/askora/internal/database/types/enum"
)

var (
	ErrSelfVote     = errors.New("users may not vote on their own content")
	ErrVoteNotFound = errors.New("no vote found for this user and content")
)

// Vote records one user's vote on a question or answer. The composite
// primary key keeps each voter to at most one vote per content item;
// flipping direction updates the row in place rather than adding one.
type Vote struct {
	VoterID     uint64           `bun:",pk"      json:"voterId"`
	ContentKind enum.ContentKind `bun:",pk"      json:"contentKind"`
	ContentID   uint64           `bun:",pk"      json:"contentId"`
	IsUpvote    bool             `bun:",notnull" json:"isUpvote"`
	CreatedAt   time.Time        `bun:",notnull" json:"createdAt"`
	UpdatedAt   time.Time        `bun:",notnull" json:"updatedAt"`
}

// Ref returns the content reference this vote targets.
func (v *Vote) Ref() ContentRef {
	return ContentRef{Kind: v.ContentKind, ID: v.ContentID}
}

// VoteCounts aggregates the vote tallies for a single content item.
type VoteCounts struct {
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
}
