package identity

import (
	"time"

	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Following is a subscription of one user to another author's recipes
type Following struct {
	ID         uuid.UUID
	FollowerID uuid.UUID
	AuthorID   uuid.UUID
	CreatedAt  time.Time
}

// NewFollowing creates a subscription. A user cannot follow themselves.
func NewFollowing(followerID, authorID uuid.UUID) (*Following, error) {
	if followerID == authorID {
		return nil, shared.ErrInvalidSelfReference
	}
	return &Following{
		ID:         uuid.New(),
		FollowerID: followerID,
		AuthorID:   authorID,
		CreatedAt:  time.Now().UTC(),
	}, nil
}
