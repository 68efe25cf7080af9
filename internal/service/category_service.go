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

// CategoryInput is the submitted category form
type CategoryInput struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name" validate:"required,min=2,max=50"`
	URL      string    `json:"url" validate:"required,min=2,max=50,urlslug"`
	Image    string    `json:"image" validate:"required,url"`
	Featured bool      `json:"featured"`
}

// CategoryService defines the interface for category business logic
type CategoryService interface {
	Upsert(ctx context.Context, session *domain.Session, input CategoryInput) (*domain.Category, error)
	List(ctx context.Context, search string) ([]*domain.Category, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	Delete(ctx context.Context, session *domain.Session, id uuid.UUID) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	catalog      cache.Catalog
	validate     *validator.Validate
}

// NewCategoryService creates a new instance of CategoryService. A nil catalog disables caching.
func NewCategoryService(categoryRepo repository.CategoryRepository, catalog cache.Catalog) CategoryService {
	if catalog == nil {
		catalog = cache.Noop{}
	}
	return &categoryService{
		categoryRepo: categoryRepo,
		catalog:      catalog,
		validate:     validation.Validator(),
	}
}

// Upsert creates or updates a category. Only admins may call it.
func (s *categoryService) Upsert(ctx context.Context, session *domain.Session, input CategoryInput) (*domain.Category, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	if err := validateInput(s.validate, input); err != nil {
		return nil, err
	}

	if input.ID == uuid.Nil {
		input.ID = uuid.New()
	}

	existing, err := s.categoryRepo.FindFirstByNameOrURL(ctx, input.Name, input.URL, input.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing category: %w", err)
	}
	if existing != nil {
		return nil, categoryConflict(existing.Name == input.Name)
	}

	category, err := s.categoryRepo.Upsert(ctx, &domain.Category{
		ID:       input.ID,
		Name:     input.Name,
		URL:      input.URL,
		Image:    input.Image,
		Featured: input.Featured,
	})
	if err != nil {
		var dup *repository.DuplicateError
		if errors.As(err, &dup) {
			return nil, categoryConflict(dup.Field == "name")
		}
		return nil, fmt.Errorf("failed to save category: %w", err)
	}

	s.catalog.Invalidate(ctx, cache.ScopeCategories)
	return category, nil
}

func categoryConflict(nameTaken bool) *ConflictError {
	if nameTaken {
		return &ConflictError{Field: "name", Message: "A category with the same name already exists"}
	}
	return &ConflictError{Field: "url", Message: "A category with the same URL already exists"}
}

// List returns categories, most recently updated first
func (s *categoryService) List(ctx context.Context, search string) ([]*domain.Category, error) {
	var categories []*domain.Category
	slot, hit := s.catalog.Get(ctx, cache.ScopeCategories, "list:"+search, &categories)
	if hit {
		return categories, nil
	}

	categories, err := s.categoryRepo.List(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	s.catalog.Set(ctx, slot, categories)
	return categories, nil
}

// Get retrieves a category by ID
func (s *categoryService) Get(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// Delete removes a category together with its subcategories. Only admins may call it.
func (s *categoryService) Delete(ctx context.Context, session *domain.Session, id uuid.UUID) error {
	if err := requireAdmin(session); err != nil {
		return err
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.catalog.Invalidate(ctx, cache.ScopeCategories, cache.ScopeSubCategories)
	return nil
}
