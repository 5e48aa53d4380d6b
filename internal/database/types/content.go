package types

import (
	"errors"
	"time"

	"github.com/askora/askora/internal/database/types/enum"
)

var (
	ErrInvalidContent  = errors.New("content reference must name exactly one question or answer")
	ErrContentNotFound = errors.New("content item not found")
)

// Question is a top-level post that can be answered and voted on.
type Question struct {
	ID        uint64    `bun:",pk,autoincrement" json:"id"`
	AuthorID  uint64    `bun:",notnull"          json:"authorId"`
	Title     string    `bun:",notnull"          json:"title"`
	Body      string    `bun:",notnull"          json:"body"`
	CreatedAt time.Time `bun:",notnull"          json:"createdAt"`
	UpdatedAt time.Time `bun:",notnull"          json:"updatedAt"`
}

// Answer is a reply to a question; votable on its own.
type Answer struct {
	ID         uint64    `bun:",pk,autoincrement" json:"id"`
	QuestionID uint64    `bun:",notnull"          json:"questionId"`
	AuthorID   uint64    `bun:",notnull"          json:"authorId"`
	Body       string    `bun:",notnull"          json:"body"`
	CreatedAt  time.Time `bun:",notnull"          json:"createdAt"`
	UpdatedAt  time.Time `bun:",notnull"          json:"updatedAt"`
}

// ContentRef identifies a single votable content item by kind and id.
// It replaces the pair of mutually exclusive nullable foreign keys the
// vote table would otherwise carry.
type ContentRef struct {
	Kind enum.ContentKind `json:"kind"`
	ID   uint64           `json:"id"`
}

// Validate checks that the reference names exactly one content item.
func (r ContentRef) Validate() error {
	if !r.Kind.IsAContentKind() || r.ID == 0 {
		return ErrInvalidContent
	}
	return nil
}
