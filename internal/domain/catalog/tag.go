package catalog

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/foodgram/backend/internal/domain/shared"
)

const maxTagFieldLength = 200

var (
	slugPattern  = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

// Tag labels recipes. Slugs are unique and used by the recipe tag filter.
type Tag struct {
	shared.BaseEntity
	Name  string
	Slug  string
	Color string
}

// NewTag creates a new tag
func NewTag(name, slug, color string) (*Tag, error) {
	name = strings.TrimSpace(name)
	slug = strings.TrimSpace(slug)
	color = strings.ToUpper(strings.TrimSpace(color))

	if name == "" {
		return nil, shared.NewValidationError("Tag name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxTagFieldLength {
		return nil, shared.NewValidationError("Tag name cannot exceed %d characters", maxTagFieldLength)
	}
	if len(slug) > maxTagFieldLength || !slugPattern.MatchString(slug) {
		return nil, shared.NewValidationError("Tag slug may contain only letters, numbers, underscores and hyphens")
	}
	if !colorPattern.MatchString(color) {
		return nil, shared.NewValidationError("Tag color must be a hex value like #E26C2D")
	}

	return &Tag{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Slug:       slug,
		Color:      color,
	}, nil
}
