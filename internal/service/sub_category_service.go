package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"marketplace/internal/cache"
	"marketplace/internal/domain"
	"marketplace/internal/repository"
	"marketplace/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// SubCategoryInput is the submitted subcategory form
type SubCategoryInput struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name" validate:"required,min=2,max=50"`
	URL        string    `json:"url" validate:"required,min=2,max=50,urlslug"`
	Image      string    `json:"image" validate:"required,url"`
	Featured   bool      `json:"featured"`
	CategoryID uuid.UUID `json:"categoryId" validate:"required"`
}

// SubCategoryService defines the interface for subcategory business logic
type SubCategoryService interface {
	Upsert(ctx context.Context, session *domain.Session, input SubCategoryInput) (*domain.SubCategory, error)
	List(ctx context.Context, search string) ([]*domain.SubCategory, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.SubCategory, error)
	Sample(ctx context.Context, limit int, random bool) ([]*domain.SubCategory, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.SubCategory, error)
	Delete(ctx context.Context, session *domain.Session, id uuid.UUID) error
}

type subCategoryService struct {
	subCategoryRepo repository.SubCategoryRepository
	categoryRepo    repository.CategoryRepository
	catalog         cache.Catalog
	validate        *validator.Validate
}

// NewSubCategoryService creates a new instance of SubCategoryService. A nil catalog disables caching.
func NewSubCategoryService(
	subCategoryRepo repository.SubCategoryRepository,
	categoryRepo repository.CategoryRepository,
	catalog cache.Catalog,
) SubCategoryService {
	if catalog == nil {
		catalog = cache.Noop{}
	}
	return &subCategoryService{
		subCategoryRepo: subCategoryRepo,
		categoryRepo:    categoryRepo,
		catalog:         catalog,
		validate:        validation.Validator(),
	}
}

// Upsert creates or updates a subcategory. Only admins may call it.
func (s *subCategoryService) Upsert(ctx context.Context, session *domain.Session, input SubCategoryInput) (*domain.SubCategory, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	if err := validateInput(s.validate, input); err != nil {
		return nil, err
	}

	if input.ID == uuid.Nil {
		input.ID = uuid.New()
	}

	if _, err := s.categoryRepo.FindByID(ctx, input.CategoryID); err != nil {
		return nil, fmt.Errorf("failed to find parent category: %w", err)
	}

	existing, err := s.subCategoryRepo.FindFirstByNameOrURL(ctx, input.Name, input.URL, input.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing subCategory: %w", err)
	}
	if existing != nil {
		return nil, subCategoryConflict(existing.Name == input.Name)
	}

	subCategory, err := s.subCategoryRepo.Upsert(ctx, &domain.SubCategory{
		ID:         input.ID,
		Name:       input.Name,
		URL:        input.URL,
		Image:      input.Image,
		Featured:   input.Featured,
		CategoryID: input.CategoryID,
	})
	if err != nil {
		var dup *repository.DuplicateError
		if errors.As(err, &dup) {
			return nil, subCategoryConflict(dup.Field == "name")
		}
		return nil, fmt.Errorf("failed to save subCategory: %w", err)
	}

	s.catalog.Invalidate(ctx, cache.ScopeSubCategories)
	return subCategory, nil
}

func subCategoryConflict(nameTaken bool) *ConflictError {
	if nameTaken {
		return &ConflictError{Field: "name", Message: "A SubCategory with the same name already exists"}
	}
	return &ConflictError{Field: "url", Message: "A SubCategory with the same URL already exists"}
}

// List returns subcategories with their parent category, most recently updated first
func (s *subCategoryService) List(ctx context.Context, search string) ([]*domain.SubCategory, error) {
	subCategories, err := s.subCategoryRepo.List(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list subCategories: %w", err)
	}
	return subCategories, nil
}

// ListByCategory feeds the dependent subcategory select of the product form
func (s *subCategoryService) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.SubCategory, error) {
	key := "category:" + categoryID.String()

	var subCategories []*domain.SubCategory
	slot, hit := s.catalog.Get(ctx, cache.ScopeSubCategories, key, &subCategories)
	if hit {
		return subCategories, nil
	}

	subCategories, err := s.subCategoryRepo.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subCategories for category: %w", err)
	}

	s.catalog.Set(ctx, slot, subCategories)
	return subCategories, nil
}

// Sample returns subcategories for storefront listings. Random samples are never cached.
func (s *subCategoryService) Sample(ctx context.Context, limit int, random bool) ([]*domain.SubCategory, error) {
	if random {
		subCategories, err := s.subCategoryRepo.Sample(ctx, limit, true)
		if err != nil {
			return nil, fmt.Errorf("failed to sample subCategories: %w", err)
		}
		return subCategories, nil
	}

	key := "sample:" + strconv.Itoa(limit)
	var subCategories []*domain.SubCategory
	slot, hit := s.catalog.Get(ctx, cache.ScopeSubCategories, key, &subCategories)
	if hit {
		return subCategories, nil
	}

	subCategories, err := s.subCategoryRepo.Sample(ctx, limit, false)
	if err != nil {
		return nil, fmt.Errorf("failed to sample subCategories: %w", err)
	}

	s.catalog.Set(ctx, slot, subCategories)
	return subCategories, nil
}

// Get retrieves a subcategory by ID
func (s *subCategoryService) Get(ctx context.Context, id uuid.UUID) (*domain.SubCategory, error) {
	subCategory, err := s.subCategoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get subCategory: %w", err)
	}
	return subCategory, nil
}

// Delete removes a subcategory. Only admins may call it.
func (s *subCategoryService) Delete(ctx context.Context, session *domain.Session, id uuid.UUID) error {
	if err := requireAdmin(session); err != nil {
		return err
	}

	if err := s.subCategoryRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete subCategory: %w", err)
	}

	s.catalog.Invalidate(ctx, cache.ScopeSubCategories)
	return nil
}
