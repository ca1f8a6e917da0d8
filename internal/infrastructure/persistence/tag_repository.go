package persistence

import (
	"context"

	"github.com/foodgram/backend/internal/domain/catalog"
	"github.com/foodgram/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTagRepository implements TagRepository using GORM
type GormTagRepository struct {
	db *gorm.DB
}

// NewGormTagRepository creates a new GormTagRepository
func NewGormTagRepository(db *gorm.DB) *GormTagRepository {
	return &GormTagRepository{db: db}
}

// FindByID finds a tag by its ID
func (r *GormTagRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Tag, error) {
	var model models.TagModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs returns the tags that exist among ids, ordered by name
func (r *GormTagRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Tag, error) {
	if len(ids) == 0 {
		return []catalog.Tag{}, nil
	}
	var rows []models.TagModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	return tagsToDomain(rows), nil
}

// FindAll lists every tag ordered by name
func (r *GormTagRepository) FindAll(ctx context.Context) ([]catalog.Tag, error) {
	var rows []models.TagModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	return tagsToDomain(rows), nil
}

// ExistsBySlug checks whether a tag with the slug exists
func (r *GormTagRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.TagModel{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

// Save creates or updates a tag
func (r *GormTagRepository) Save(ctx context.Context, tag *catalog.Tag) error {
	return translateError(r.db.WithContext(ctx).Save(models.TagModelFromDomain(tag)).Error)
}

func tagsToDomain(rows []models.TagModel) []catalog.Tag {
	out := make([]catalog.Tag, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out
}

var _ catalog.TagRepository = (*GormTagRepository)(nil)
