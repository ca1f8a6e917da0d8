package persistence

import (
	"context"
	"strings"

	"github.com/foodgram/backend/internal/domain/catalog"
	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/foodgram/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const ingredientBatchSize = 500

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// GormIngredientRepository implements IngredientRepository using GORM
type GormIngredientRepository struct {
	db *gorm.DB
}

// NewGormIngredientRepository creates a new GormIngredientRepository
func NewGormIngredientRepository(db *gorm.DB) *GormIngredientRepository {
	return &GormIngredientRepository{db: db}
}

// FindByID finds an ingredient by its ID
func (r *GormIngredientRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Ingredient, error) {
	var model models.IngredientModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs returns the ingredients that exist among ids
func (r *GormIngredientRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Ingredient, error) {
	if len(ids) == 0 {
		return []catalog.Ingredient{}, nil
	}
	var rows []models.IngredientModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	return ingredientsToDomain(rows), nil
}

// FindAll lists ingredients ordered by name, optionally narrowed to a
// case-insensitive name prefix
func (r *GormIngredientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Ingredient, error) {
	query := r.db.WithContext(ctx).Model(&models.IngredientModel{})
	if prefix := strings.TrimSpace(filter.Search); prefix != "" {
		query = query.Where(`search_name LIKE ? ESCAPE '\'`, likeEscaper.Replace(models.SearchKey(prefix))+"%")
	}
	query = query.Order("search_name ASC, measurement_unit ASC")
	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize).Offset(filter.Offset())
	}

	var rows []models.IngredientModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	return ingredientsToDomain(rows), nil
}

// Save creates or updates an ingredient
func (r *GormIngredientRepository) Save(ctx context.Context, ingredient *catalog.Ingredient) error {
	return translateError(r.db.WithContext(ctx).Save(models.IngredientModelFromDomain(ingredient)).Error)
}

// SaveBatch inserts ingredients in one transaction. Rows whose (name, unit)
// pair already exists are skipped; the inserted count is returned.
func (r *GormIngredientRepository) SaveBatch(ctx context.Context, ingredients []*catalog.Ingredient) (int64, error) {
	if len(ingredients) == 0 {
		return 0, nil
	}
	rows := make([]*models.IngredientModel, 0, len(ingredients))
	for _, ing := range ingredients {
		rows = append(rows, models.IngredientModelFromDomain(ing))
	}

	var inserted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for start := 0; start < len(rows); start += ingredientBatchSize {
			end := min(start+ingredientBatchSize, len(rows))
			result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(rows[start:end])
			if result.Error != nil {
				return result.Error
			}
			inserted += result.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, translateError(err)
	}
	return inserted, nil
}

func ingredientsToDomain(rows []models.IngredientModel) []catalog.Ingredient {
	out := make([]catalog.Ingredient, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out
}

var _ catalog.IngredientRepository = (*GormIngredientRepository)(nil)
