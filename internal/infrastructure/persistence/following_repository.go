package persistence

import (
	"context"

	"github.com/foodgram/backend/internal/domain/identity"
	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/foodgram/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFollowingRepository implements FollowingRepository using GORM
type GormFollowingRepository struct {
	db *gorm.DB
}

// NewGormFollowingRepository creates a new GormFollowingRepository
func NewGormFollowingRepository(db *gorm.DB) *GormFollowingRepository {
	return &GormFollowingRepository{db: db}
}

// Add inserts the subscription; a duplicate pair returns ErrAlreadyExists
func (r *GormFollowingRepository) Add(ctx context.Context, following *identity.Following) error {
	return translateError(r.db.WithContext(ctx).Create(models.FollowingModelFromDomain(following)).Error)
}

// Remove deletes the subscription if present
func (r *GormFollowingRepository) Remove(ctx context.Context, followerID, authorID uuid.UUID) error {
	return translateError(r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", followerID, authorID).
		Delete(&models.FollowingModel{}).Error)
}

// Exists checks whether followerID follows authorID
func (r *GormFollowingRepository) Exists(ctx context.Context, followerID, authorID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.FollowingModel{}).
		Where("user_id = ? AND author_id = ?", followerID, authorID).
		Count(&count).Error; err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

// FollowedAmong returns the subset of authorIDs followerID follows
func (r *GormFollowingRepository) FollowedAmong(ctx context.Context, followerID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	followed := make(map[uuid.UUID]bool)
	if len(authorIDs) == 0 {
		return followed, nil
	}

	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.FollowingModel{}).
		Where("user_id = ? AND author_id IN ?", followerID, authorIDs).
		Pluck("author_id", &ids).Error; err != nil {
		return nil, translateError(err)
	}
	for _, id := range ids {
		followed[id] = true
	}
	return followed, nil
}

// FindFollowedAuthors lists the authors followerID follows, ordered by username
func (r *GormFollowingRepository) FindFollowedAuthors(ctx context.Context, followerID uuid.UUID, filter shared.Filter) ([]identity.User, error) {
	followed := r.db.Model(&models.FollowingModel{}).
		Select("author_id").
		Where("user_id = ?", followerID)

	query := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("id IN (?)", followed).
		Order("username ASC, id ASC")
	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize).Offset(filter.Offset())
	}

	var rows []models.UserModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	return usersToDomain(rows), nil
}

// CountFollowedAuthors counts the authors followed by followerID
func (r *GormFollowingRepository) CountFollowedAuthors(ctx context.Context, followerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.FollowingModel{}).
		Where("user_id = ?", followerID).
		Count(&count).Error; err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

var _ identity.FollowingRepository = (*GormFollowingRepository)(nil)
