package identity

import (
	"context"
	"time"

	"github.com/foodgram/backend/internal/domain/identity"
	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/foodgram/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService handles registration, profile reads and password changes
type UserService struct {
	userRepo      identity.UserRepository
	followingRepo identity.FollowingRepository
	blacklist     auth.TokenBlacklist
	tokenTTL      time.Duration
	logger        *zap.Logger
}

// NewUserService creates a new user service. tokenTTL is how long a
// password change keeps outstanding tokens rejected; it should cover the
// refresh token lifetime.
func NewUserService(
	userRepo identity.UserRepository,
	followingRepo identity.FollowingRepository,
	blacklist auth.TokenBlacklist,
	tokenTTL time.Duration,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:      userRepo,
		followingRepo: followingRepo,
		blacklist:     blacklist,
		tokenTTL:      tokenTTL,
		logger:        logger,
	}
}

// Register creates a new account
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*RegisteredUserResponse, error) {
	user, err := identity.NewUser(identity.Profile{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}, req.Password)
	if err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewAlreadyExistsError("A user with this email already exists")
	}
	exists, err = s.userRepo.ExistsByUsername(ctx, user.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewAlreadyExistsError("A user with this username already exists")
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return &RegisteredUserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

// List returns a page of users ordered by username
func (s *UserService) List(ctx context.Context, viewer shared.Actor, filter shared.Filter) (shared.Paginated[UserResponse], error) {
	users, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[UserResponse]{}, err
	}
	total, err := s.userRepo.Count(ctx)
	if err != nil {
		return shared.Paginated[UserResponse]{}, err
	}

	ids := make([]uuid.UUID, 0, len(users))
	for i := range users {
		ids = append(ids, users[i].ID)
	}
	followed, err := s.followedAmong(ctx, viewer, ids)
	if err != nil {
		return shared.Paginated[UserResponse]{}, err
	}

	items := make([]UserResponse, 0, len(users))
	for i := range users {
		items = append(items, NewUserResponse(&users[i], followed[users[i].ID]))
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Get returns one user's profile
func (s *UserService) Get(ctx context.Context, viewer shared.Actor, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	followed, err := s.followedAmong(ctx, viewer, []uuid.UUID{user.ID})
	if err != nil {
		return nil, err
	}
	resp := NewUserResponse(user, followed[user.ID])
	return &resp, nil
}

// Me returns the caller's own profile
func (s *UserService) Me(ctx context.Context, actor shared.Actor) (*UserResponse, error) {
	if err := actor.RequireAuthenticated(); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	resp := NewUserResponse(user, false)
	return &resp, nil
}

// SetPassword changes the caller's password and revokes every token issued
// before the change
func (s *UserService) SetPassword(ctx context.Context, actor shared.Actor, req SetPasswordRequest) error {
	if err := actor.RequireAuthenticated(); err != nil {
		return err
	}
	user, err := s.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(req.CurrentPassword, req.NewPassword); err != nil {
		s.logger.Warn("Password change rejected",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	if err := s.blacklist.AddUserTokensToBlacklist(ctx, user.ID.String(), s.tokenTTL); err != nil {
		s.logger.Error("Failed to revoke tokens after password change",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
		return err
	}

	s.logger.Info("Password changed", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *UserService) followedAmong(ctx context.Context, viewer shared.Actor, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	if !viewer.IsAuthenticated() || len(ids) == 0 {
		return map[uuid.UUID]bool{}, nil
	}
	return s.followingRepo.FollowedAmong(ctx, viewer.UserID, ids)
}
