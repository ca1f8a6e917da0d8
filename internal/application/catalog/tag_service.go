package catalog

import (
	"context"

	"github.com/foodgram/backend/internal/domain/catalog"
	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TagService handles tag reads and admin-only creation
type TagService struct {
	tagRepo catalog.TagRepository
	logger  *zap.Logger
}

// NewTagService creates a new TagService
func NewTagService(tagRepo catalog.TagRepository, logger *zap.Logger) *TagService {
	return &TagService{tagRepo: tagRepo, logger: logger}
}

// List returns every tag ordered by name
func (s *TagService) List(ctx context.Context) ([]TagResponse, error) {
	tags, err := s.tagRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]TagResponse, 0, len(tags))
	for i := range tags {
		out = append(out, NewTagResponse(&tags[i]))
	}
	return out, nil
}

// Get returns one tag
func (s *TagService) Get(ctx context.Context, id uuid.UUID) (*TagResponse, error) {
	tag, err := s.tagRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := NewTagResponse(tag)
	return &resp, nil
}

// Create adds a tag. Only admins may create tags.
func (s *TagService) Create(ctx context.Context, actor shared.Actor, req CreateTagRequest) (*TagResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	tag, err := catalog.NewTag(req.Name, req.Slug, req.Color)
	if err != nil {
		return nil, err
	}
	exists, err := s.tagRepo.ExistsBySlug(ctx, tag.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewAlreadyExistsError("A tag with this slug already exists")
	}
	if err := s.tagRepo.Save(ctx, tag); err != nil {
		return nil, err
	}

	s.logger.Info("Tag created",
		zap.String("tag_id", tag.ID.String()),
		zap.String("slug", tag.Slug))

	resp := NewTagResponse(tag)
	return &resp, nil
}

func requireAdmin(actor shared.Actor) error {
	if err := actor.RequireAuthenticated(); err != nil {
		return err
	}
	if !actor.IsAdmin {
		return shared.ErrForbidden
	}
	return nil
}
