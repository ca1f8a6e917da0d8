package identity

import (
	"context"

	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByIDs finds users by IDs; missing ids are skipped
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]User, error)

	// FindByEmail finds a user by email (case-insensitive)
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAll returns users ordered by username with pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)

	// Count returns the total number of users
	Count(ctx context.Context) (int64, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// ExistsByEmail checks if an email is already registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// ExistsByUsername checks if a username is already registered
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// FollowingRepository defines the interface for subscription persistence
type FollowingRepository interface {
	// Add inserts the subscription; a duplicate pair returns ErrAlreadyExists
	Add(ctx context.Context, following *Following) error

	// Remove deletes the subscription if present; removing an absent pair is not an error
	Remove(ctx context.Context, followerID, authorID uuid.UUID) error

	// Exists checks whether followerID follows authorID
	Exists(ctx context.Context, followerID, authorID uuid.UUID) (bool, error)

	// FollowedAmong returns the subset of authorIDs followerID follows
	FollowedAmong(ctx context.Context, followerID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error)

	// FindFollowedAuthors lists authors followed by followerID ordered by username
	FindFollowedAuthors(ctx context.Context, followerID uuid.UUID, filter shared.Filter) ([]User, error)

	// CountFollowedAuthors counts the authors followed by followerID
	CountFollowedAuthors(ctx context.Context, followerID uuid.UUID) (int64, error)
}
