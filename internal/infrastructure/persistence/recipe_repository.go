package persistence

import (
	"context"

	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/foodgram/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRecipeRepository implements RecipeRepository using GORM
type GormRecipeRepository struct {
	db *gorm.DB
}

// NewGormRecipeRepository creates a new GormRecipeRepository
func NewGormRecipeRepository(db *gorm.DB) *GormRecipeRepository {
	return &GormRecipeRepository{db: db}
}

// FindByID finds a recipe by its ID with tags and ingredient lines attached
func (r *GormRecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	var model models.RecipeModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	recipes, err := r.attach(ctx, []models.RecipeModel{model})
	if err != nil {
		return nil, err
	}
	return &recipes[0], nil
}

// FindAll lists recipes matching filter, newest first unless page names
// another whitelisted order
func (r *GormRecipeRepository) FindAll(ctx context.Context, filter recipe.ListFilter, page shared.Filter) ([]recipe.Recipe, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.RecipeModel{}), filter).
		Order(recipeSort.clause(page.OrderBy, page.OrderDir))
	if page.PageSize > 0 {
		query = query.Limit(page.PageSize).Offset(page.Offset())
	}

	var rows []models.RecipeModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	return r.attach(ctx, rows)
}

// Count counts recipes matching filter
func (r *GormRecipeRepository) Count(ctx context.Context, filter recipe.ListFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.RecipeModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

// applyFilter ANDs the filter categories. Each category is a subquery on
// recipes.id so a recipe matching several tags is still returned once.
func (r *GormRecipeRepository) applyFilter(query *gorm.DB, filter recipe.ListFilter) *gorm.DB {
	if len(filter.Tags) > 0 {
		tagged := r.db.Model(&models.RecipeTagModel{}).
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.Tags)
		query = query.Where("recipes.id IN (?)", tagged)
	}
	if filter.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if filter.FavoritedBy != nil {
		favorited := r.db.Model(&models.FavoriteModel{}).
			Select("recipe_id").
			Where("user_id = ?", *filter.FavoritedBy)
		query = query.Where("recipes.id IN (?)", favorited)
	}
	if filter.InCartOf != nil {
		inCart := r.db.Model(&models.ShoppingCartEntryModel{}).
			Select("recipe_id").
			Where("user_id = ?", *filter.InCartOf)
		query = query.Where("recipes.id IN (?)", inCart)
	}
	return query
}

// FindPreviewsByAuthors ranks each author's recipes newest first with a
// window function and keeps the first limit of them. No tag or line queries
// are issued.
func (r *GormRecipeRepository) FindPreviewsByAuthors(ctx context.Context, authorIDs []uuid.UUID, limit int) (map[uuid.UUID][]recipe.Recipe, error) {
	out := make(map[uuid.UUID][]recipe.Recipe, len(authorIDs))
	if len(authorIDs) == 0 {
		return out, nil
	}

	ranked := r.db.WithContext(ctx).
		Model(&models.RecipeModel{}).
		Select("recipes.*, ROW_NUMBER() OVER (PARTITION BY author_id ORDER BY created_at DESC, id DESC) AS preview_rank").
		Where("author_id IN ?", authorIDs)
	query := r.db.WithContext(ctx).
		Table("(?) AS ranked", ranked).
		Order("author_id, preview_rank")
	if limit > 0 {
		query = query.Where("preview_rank <= ?", limit)
	}

	var rows []models.RecipeModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	for i := range rows {
		rec := rows[i].ToDomain()
		out[rec.AuthorID] = append(out[rec.AuthorID], *rec)
	}
	return out, nil
}

// CountByAuthors returns the number of recipes per author. Authors without
// recipes are absent from the map.
func (r *GormRecipeRepository) CountByAuthors(ctx context.Context, authorIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AuthorID uuid.UUID
		Total    int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.RecipeModel{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

// Create inserts the recipe row with its tag links and ingredient lines in
// one transaction.
func (r *GormRecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(models.RecipeModelFromDomain(rec)).Error; err != nil {
			return err
		}
		return writeLines(tx, rec)
	})
	return translateError(err)
}

// Update rewrites an existing recipe row, then clears and recreates its tag
// links and ingredient lines in the same transaction. A recipe deleted in the
// meantime yields ErrNotFound and is not written back.
func (r *GormRecipeRepository) Update(ctx context.Context, rec *recipe.Recipe) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.RecipeModel{}).
			Where("id = ?", rec.ID).
			Select("name", "text", "image", "cooking_time", "updated_at").
			Updates(models.RecipeModelFromDomain(rec))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		if err := tx.Where("recipe_id = ?", rec.ID).Delete(&models.RecipeTagModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", rec.ID).Delete(&models.RecipeIngredientModel{}).Error; err != nil {
			return err
		}
		return writeLines(tx, rec)
	})
	return translateError(err)
}

func writeLines(tx *gorm.DB, rec *recipe.Recipe) error {
	if len(rec.TagIDs) > 0 {
		links := make([]models.RecipeTagModel, 0, len(rec.TagIDs))
		for _, tagID := range rec.TagIDs {
			links = append(links, models.RecipeTagModel{RecipeID: rec.ID, TagID: tagID})
		}
		if err := tx.Create(&links).Error; err != nil {
			return err
		}
	}

	if len(rec.Ingredients) > 0 {
		lines := make([]models.RecipeIngredientModel, 0, len(rec.Ingredients))
		for _, line := range rec.Ingredients {
			lines = append(lines, models.RecipeIngredientModel{
				RecipeID:     rec.ID,
				IngredientID: line.IngredientID,
				Amount:       line.Amount,
			})
		}
		if err := tx.Create(&lines).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the recipe. Tag links, ingredient lines, favorites and cart
// entries go with it through ON DELETE CASCADE.
func (r *GormRecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.RecipeModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// attach loads tag links and ingredient lines for rows with two queries and
// returns the domain recipes in the order of rows. Tags follow tag name,
// lines follow ingredient name.
func (r *GormRecipeRepository) attach(ctx context.Context, rows []models.RecipeModel) ([]recipe.Recipe, error) {
	out := make([]recipe.Recipe, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].ID)
	}

	var links []models.RecipeTagModel
	if err := r.db.WithContext(ctx).
		Model(&models.RecipeTagModel{}).
		Select("recipe_tags.recipe_id, recipe_tags.tag_id").
		Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
		Where("recipe_tags.recipe_id IN ?", ids).
		Order("tags.name ASC").
		Find(&links).Error; err != nil {
		return nil, translateError(err)
	}

	var lines []models.RecipeIngredientModel
	if err := r.db.WithContext(ctx).
		Model(&models.RecipeIngredientModel{}).
		Select("recipe_ingredients.recipe_id, recipe_ingredients.ingredient_id, recipe_ingredients.amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("recipe_ingredients.recipe_id IN ?", ids).
		Order("ingredients.name ASC, ingredients.measurement_unit ASC").
		Find(&lines).Error; err != nil {
		return nil, translateError(err)
	}

	tagsByRecipe := make(map[uuid.UUID][]uuid.UUID, len(rows))
	for _, link := range links {
		tagsByRecipe[link.RecipeID] = append(tagsByRecipe[link.RecipeID], link.TagID)
	}
	linesByRecipe := make(map[uuid.UUID][]recipe.IngredientLine, len(rows))
	for i := range lines {
		linesByRecipe[lines[i].RecipeID] = append(linesByRecipe[lines[i].RecipeID], lines[i].ToDomain())
	}

	for i := range rows {
		rec := rows[i].ToDomain()
		if tags, ok := tagsByRecipe[rec.ID]; ok {
			rec.TagIDs = tags
		}
		if ingredientLines, ok := linesByRecipe[rec.ID]; ok {
			rec.Ingredients = ingredientLines
		}
		out = append(out, *rec)
	}
	return out, nil
}

var _ recipe.RecipeRepository = (*GormRecipeRepository)(nil)
