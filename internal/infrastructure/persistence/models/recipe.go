package models

import (
	"time"

	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/google/uuid"
)

// RecipeModel is the persistence model for the Recipe domain entity.
// Tag links and ingredient lines live in their own tables.
type RecipeModel struct {
	BaseModel
	AuthorID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(200);not null"`
	Text        string    `gorm:"type:text;not null"`
	Image       string    `gorm:"type:varchar(500);not null;default:''"`
	CookingTime int       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RecipeModel) TableName() string {
	return "recipes"
}

// ToDomain converts the persistence model to a domain Recipe.
// TagIDs and Ingredients must be attached by the repository.
func (m *RecipeModel) ToDomain() *recipe.Recipe {
	return &recipe.Recipe{
		BaseEntity:  m.BaseModel.ToDomain(),
		AuthorID:    m.AuthorID,
		Name:        m.Name,
		Text:        m.Text,
		Image:       m.Image,
		CookingTime: m.CookingTime,
		TagIDs:      make([]uuid.UUID, 0),
		Ingredients: make([]recipe.IngredientLine, 0),
	}
}

// FromDomain populates the persistence model from a domain Recipe.
func (m *RecipeModel) FromDomain(r *recipe.Recipe) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.AuthorID = r.AuthorID
	m.Name = r.Name
	m.Text = r.Text
	m.Image = r.Image
	m.CookingTime = r.CookingTime
}

// RecipeModelFromDomain creates a new persistence model from a domain Recipe.
func RecipeModelFromDomain(r *recipe.Recipe) *RecipeModel {
	m := &RecipeModel{}
	m.FromDomain(r)
	return m
}

// RecipeTagModel links a recipe to a tag.
type RecipeTagModel struct {
	RecipeID uuid.UUID `gorm:"type:uuid;primaryKey"`
	TagID    uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// TableName returns the table name for GORM
func (RecipeTagModel) TableName() string {
	return "recipe_tags"
}

// RecipeIngredientModel is one ingredient line of a recipe.
type RecipeIngredientModel struct {
	RecipeID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	IngredientID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Amount       int       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RecipeIngredientModel) TableName() string {
	return "recipe_ingredients"
}

// ToDomain converts the persistence model to a domain IngredientLine.
func (m *RecipeIngredientModel) ToDomain() recipe.IngredientLine {
	return recipe.IngredientLine{IngredientID: m.IngredientID, Amount: m.Amount}
}

// FavoriteModel is the persistence model for a favorite.
type FavoriteModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_favorites_user_recipe,priority:1"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_favorites_user_recipe,priority:2"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (FavoriteModel) TableName() string {
	return "favorites"
}

// FavoriteModelFromDomain creates a new persistence model from a domain Favorite.
func FavoriteModelFromDomain(f *recipe.Favorite) *FavoriteModel {
	return &FavoriteModel{
		ID:        f.ID,
		UserID:    f.UserID,
		RecipeID:  f.RecipeID,
		CreatedAt: f.CreatedAt,
	}
}

// ShoppingCartEntryModel is the persistence model for a shopping cart entry.
type ShoppingCartEntryModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_shopping_cart_entries_user_recipe,priority:1"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_shopping_cart_entries_user_recipe,priority:2"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ShoppingCartEntryModel) TableName() string {
	return "shopping_cart_entries"
}

// ShoppingCartEntryModelFromDomain creates a new persistence model from a domain ShoppingCartEntry.
func ShoppingCartEntryModelFromDomain(e *recipe.ShoppingCartEntry) *ShoppingCartEntryModel {
	return &ShoppingCartEntryModel{
		ID:        e.ID,
		UserID:    e.UserID,
		RecipeID:  e.RecipeID,
		CreatedAt: e.CreatedAt,
	}
}
