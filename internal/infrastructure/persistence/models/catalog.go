package models

import (
	"github.com/foodgram/backend/internal/domain/catalog"
	"golang.org/x/text/cases"
)

// SearchKey folds s for case-insensitive prefix matching. The same
// folding is applied to stored names and to incoming search terms.
// A Caser is stateful, so each call builds its own.
func SearchKey(s string) string {
	return cases.Fold().String(s)
}

// IngredientModel is the persistence model for the Ingredient domain entity.
// SearchName holds the case-folded name so prefix search works for
// non-ASCII names on every backend.
type IngredientModel struct {
	BaseModel
	Name            string `gorm:"type:varchar(200);not null;uniqueIndex:uq_ingredients_name_unit,priority:1"`
	MeasurementUnit string `gorm:"type:varchar(200);not null;uniqueIndex:uq_ingredients_name_unit,priority:2"`
	SearchName      string `gorm:"type:varchar(200);not null;index"`
}

// TableName returns the table name for GORM
func (IngredientModel) TableName() string {
	return "ingredients"
}

// ToDomain converts the persistence model to a domain Ingredient entity.
func (m *IngredientModel) ToDomain() *catalog.Ingredient {
	return &catalog.Ingredient{
		BaseEntity:      m.BaseModel.ToDomain(),
		Name:            m.Name,
		MeasurementUnit: m.MeasurementUnit,
	}
}

// FromDomain populates the persistence model from a domain Ingredient entity.
func (m *IngredientModel) FromDomain(i *catalog.Ingredient) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.Name = i.Name
	m.MeasurementUnit = i.MeasurementUnit
	m.SearchName = SearchKey(i.Name)
}

// IngredientModelFromDomain creates a new persistence model from a domain Ingredient entity.
func IngredientModelFromDomain(i *catalog.Ingredient) *IngredientModel {
	m := &IngredientModel{}
	m.FromDomain(i)
	return m
}

// TagModel is the persistence model for the Tag domain entity.
type TagModel struct {
	BaseModel
	Name  string `gorm:"type:varchar(200);not null;uniqueIndex:uq_tags_name"`
	Slug  string `gorm:"type:varchar(200);not null;uniqueIndex:uq_tags_slug"`
	Color string `gorm:"type:varchar(7);not null"`
}

// TableName returns the table name for GORM
func (TagModel) TableName() string {
	return "tags"
}

// ToDomain converts the persistence model to a domain Tag entity.
func (m *TagModel) ToDomain() *catalog.Tag {
	return &catalog.Tag{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Slug:       m.Slug,
		Color:      m.Color,
	}
}

// TagModelFromDomain creates a new persistence model from a domain Tag entity.
func TagModelFromDomain(t *catalog.Tag) *TagModel {
	m := &TagModel{
		Name:  t.Name,
		Slug:  t.Slug,
		Color: t.Color,
	}
	m.FromDomainBaseEntity(t.BaseEntity)
	return m
}
