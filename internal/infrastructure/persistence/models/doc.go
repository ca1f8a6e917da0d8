// Package models contains GORM persistence models that map to database tables.
// Domain entities stay free of ORM tags; repositories convert with the
// ToDomain and FromDomain methods defined here.
//
// Files:
// - base.go: BaseModel shared by every table with timestamps
// - identity.go: users and followings
// - catalog.go: ingredients and tags
// - recipe.go: recipes, their tag links and ingredient lines, favorites
// and shopping cart entries
package models
