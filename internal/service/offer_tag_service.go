package service

import (
	"context"
	"errors"
	"fmt"

	"marketplace/internal/cache"
	"marketplace/internal/domain"
	"marketplace/internal/repository"
	"marketplace/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// OfferTagInput is the submitted offer tag form
type OfferTagInput struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name" validate:"required,min=2,max=50"`
	URL  string    `json:"url" validate:"required,min=2,max=50,urlslug"`
}

// OfferTagService defines the interface for offer tag business logic
type OfferTagService interface {
	Upsert(ctx context.Context, session *domain.Session, input OfferTagInput) (*domain.OfferTag, error)
	List(ctx context.Context) ([]*domain.OfferTag, error)
	Delete(ctx context.Context, session *domain.Session, id uuid.UUID) error
}

type offerTagService struct {
	offerTagRepo repository.OfferTagRepository
	catalog      cache.Catalog
	validate     *validator.Validate
}

// NewOfferTagService creates a new instance of OfferTagService. A nil catalog disables caching.
func NewOfferTagService(offerTagRepo repository.OfferTagRepository, catalog cache.Catalog) OfferTagService {
	if catalog == nil {
		catalog = cache.Noop{}
	}
	return &offerTagService{
		offerTagRepo: offerTagRepo,
		catalog:      catalog,
		validate:     validation.Validator(),
	}
}

func (s *offerTagService) Upsert(ctx context.Context, session *domain.Session, input OfferTagInput) (*domain.OfferTag, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	if err := validateInput(s.validate, input); err != nil {
		return nil, err
	}

	if input.ID == uuid.Nil {
		input.ID = uuid.New()
	}

	existing, err := s.offerTagRepo.FindFirstByNameOrURL(ctx, input.Name, input.URL, input.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing offer tag: %w", err)
	}
	if existing != nil {
		return nil, offerTagConflict(existing.Name == input.Name)
	}

	tag, err := s.offerTagRepo.Upsert(ctx, &domain.OfferTag{ID: input.ID, Name: input.Name, URL: input.URL})
	if err != nil {
		var dup *repository.DuplicateError
		if errors.As(err, &dup) {
			return nil, offerTagConflict(dup.Field == "name")
		}
		return nil, fmt.Errorf("failed to save offer tag: %w", err)
	}

	s.catalog.Invalidate(ctx, cache.ScopeOfferTags)
	return tag, nil
}

func offerTagConflict(nameTaken bool) *ConflictError {
	if nameTaken {
		return &ConflictError{Field: "name", Message: "An offer tag with the same name already exists"}
	}
	return &ConflictError{Field: "url", Message: "An offer tag with the same URL already exists"}
}

func (s *offerTagService) List(ctx context.Context) ([]*domain.OfferTag, error) {
	var tags []*domain.OfferTag
	slot, hit := s.catalog.Get(ctx, cache.ScopeOfferTags, "list", &tags)
	if hit {
		return tags, nil
	}

	tags, err := s.offerTagRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list offer tags: %w", err)
	}

	s.catalog.Set(ctx, slot, tags)
	return tags, nil
}

func (s *offerTagService) Delete(ctx context.Context, session *domain.Session, id uuid.UUID) error {
	if err := requireAdmin(session); err != nil {
		return err
	}

	if err := s.offerTagRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete offer tag: %w", err)
	}

	s.catalog.Invalidate(ctx, cache.ScopeOfferTags)
	return nil
}
