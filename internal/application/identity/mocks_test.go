package identity

import (
	"context"

	"github.com/foodgram/backend/internal/domain/identity"
	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]identity.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

// MockFollowingRepository is a mock implementation of identity.FollowingRepository
type MockFollowingRepository struct {
	mock.Mock
}

func (m *MockFollowingRepository) Add(ctx context.Context, following *identity.Following) error {
	args := m.Called(ctx, following)
	return args.Error(0)
}

func (m *MockFollowingRepository) Remove(ctx context.Context, followerID, authorID uuid.UUID) error {
	args := m.Called(ctx, followerID, authorID)
	return args.Error(0)
}

func (m *MockFollowingRepository) Exists(ctx context.Context, followerID, authorID uuid.UUID) (bool, error) {
	args := m.Called(ctx, followerID, authorID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowingRepository) FollowedAmong(ctx context.Context, followerID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	args := m.Called(ctx, followerID, authorIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]bool), args.Error(1)
}

func (m *MockFollowingRepository) FindFollowedAuthors(ctx context.Context, followerID uuid.UUID, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, followerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockFollowingRepository) CountFollowedAuthors(ctx context.Context, followerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, followerID)
	return args.Get(0).(int64), args.Error(1)
}

// Helper function to create a test user
func createTestUser(email, username string) *identity.User {
	user, err := identity.NewUser(identity.Profile{
		Email:     email,
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
	}, "Password123")
	if err != nil {
		panic(err)
	}
	return user
}
