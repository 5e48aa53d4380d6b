package types

import (
	"testing"

	"github.com/askora/askora/internal/database/types/enum"
)

func boolPtr(b bool) *bool { return &b }

func TestVotePoints(t *testing.T) {
	tests := []struct {
		name     string
		kind     enum.ContentKind
		isUpvote bool
		want     int64
	}{
		{"question upvote", enum.ContentKindQuestion, true, 5},
		{"question downvote", enum.ContentKindQuestion, false, -2},
		{"answer upvote", enum.ContentKindAnswer, true, 10},
		{"answer downvote", enum.ContentKindAnswer, false, -2},
	}

	for _, tt := range tests {
		if got := VotePoints(tt.kind, tt.isUpvote); got != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.name, tt.want, got)
		}
	}
}

func TestApplyDelta_Floor(t *testing.T) {
	if got := ApplyDelta(1, -10); got != MinScore {
		t.Errorf("expected floor %d, got %d", MinScore, got)
	}

	if got := ApplyDelta(11, -10); got != MinScore {
		t.Errorf("expected floor %d, got %d", MinScore, got)
	}

	if got := ApplyDelta(1, 5); got != 6 {
		t.Errorf("expected 6, got %d", got)
	}

	if got := ApplyDelta(100, -2); got != 98 {
		t.Errorf("expected 98, got %d", got)
	}
}

func TestTransitionDelta(t *testing.T) {
	tests := []struct {
		name   string
		kind   enum.ContentKind
		oldDir *bool
		newDir *bool
		want   int64
	}{
		{"cast question upvote", enum.ContentKindQuestion, nil, boolPtr(true), 5},
		{"cast question downvote", enum.ContentKindQuestion, nil, boolPtr(false), -2},
		{"cast answer upvote", enum.ContentKindAnswer, nil, boolPtr(true), 10},
		{"flip question up to down", enum.ContentKindQuestion, boolPtr(true), boolPtr(false), -7},
		{"flip question down to up", enum.ContentKindQuestion, boolPtr(false), boolPtr(true), 7},
		{"flip answer up to down", enum.ContentKindAnswer, boolPtr(true), boolPtr(false), -12},
		{"retract answer upvote", enum.ContentKindAnswer, boolPtr(true), nil, -10},
		{"retract question downvote", enum.ContentKindQuestion, boolPtr(false), nil, 2},
		{"no vote either side", enum.ContentKindQuestion, nil, nil, 0},
	}

	for _, tt := range tests {
		if got := TransitionDelta(tt.kind, tt.oldDir, tt.newDir); got != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.name, tt.want, got)
		}
	}
}

func TestTransitionReason(t *testing.T) {
	tests := []struct {
		name   string
		kind   enum.ContentKind
		oldDir *bool
		newDir *bool
		want   string
	}{
		{"cast question upvote", enum.ContentKindQuestion, nil, boolPtr(true), "Question upvoted"},
		{"cast question downvote", enum.ContentKindQuestion, nil, boolPtr(false), "Question downvoted"},
		{"cast answer upvote", enum.ContentKindAnswer, nil, boolPtr(true), "Answer upvoted"},
		{"cast answer downvote", enum.ContentKindAnswer, nil, boolPtr(false), "Answer downvoted"},
		{"flip direction", enum.ContentKindAnswer, boolPtr(true), boolPtr(false), ReasonVoteChanged},
		{"retract", enum.ContentKindQuestion, boolPtr(true), nil, ReasonVoteRemoved},
		{"no transition", enum.ContentKindAnswer, nil, nil, ""},
	}

	for _, tt := range tests {
		if got := TransitionReason(tt.kind, tt.oldDir, tt.newDir); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.want, got)
		}
	}
}

// TestAnswerVoteLifecycle walks a new author through an upvote, an
// independent downvote, and the retraction of the original upvote. The
// retraction clamps at the floor instead of reversing exactly.
func TestAnswerVoteLifecycle(t *testing.T) {
	score := int64(MinScore)

	// First voter upvotes the answer
	delta := TransitionDelta(enum.ContentKindAnswer, nil, boolPtr(true))
	score = ApplyDelta(score, delta)

	if score != 11 {
		t.Errorf("expected score 11 after upvote, got %d", score)
	}

	// Second voter downvotes the same answer
	delta = TransitionDelta(enum.ContentKindAnswer, nil, boolPtr(false))
	score = ApplyDelta(score, delta)

	if score != 9 {
		t.Errorf("expected score 9 after downvote, got %d", score)
	}

	// First voter retracts; -10 from 9 clamps to the floor
	delta = TransitionDelta(enum.ContentKindAnswer, boolPtr(true), nil)
	if delta != -10 {
		t.Errorf("expected retraction delta -10, got %d", delta)
	}

	score = ApplyDelta(score, delta)
	if score != MinScore {
		t.Errorf("expected score clamped to %d, got %d", MinScore, score)
	}
}

// TestScoreNeverBelowFloor drives a score through alternating casts,
// flips and retractions and checks the floor holds throughout.
func TestScoreNeverBelowFloor(t *testing.T) {
	score := int64(MinScore)

	transitions := []struct {
		kind   enum.ContentKind
		oldDir *bool
		newDir *bool
	}{
		{enum.ContentKindQuestion, nil, boolPtr(false)},
		{enum.ContentKindQuestion, boolPtr(false), boolPtr(true)},
		{enum.ContentKindQuestion, boolPtr(true), boolPtr(false)},
		{enum.ContentKindQuestion, boolPtr(false), nil},
		{enum.ContentKindAnswer, nil, boolPtr(false)},
		{enum.ContentKindAnswer, boolPtr(false), nil},
		{enum.ContentKindAnswer, nil, boolPtr(true)},
		{enum.ContentKindAnswer, boolPtr(true), nil},
	}

	for i, tr := range transitions {
		score = ApplyDelta(score, TransitionDelta(tr.kind, tr.oldDir, tr.newDir))
		if score < MinScore {
			t.Errorf("transition %d: score %d dropped below floor", i, score)
		}
	}
}
