package service

import (
	"context"
	"errors"
	"fmt"

	"marketplace/internal/domain"
	"marketplace/internal/form"
	"marketplace/internal/repository"
	"marketplace/internal/slug"
	"marketplace/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ProductFormOptions is everything the product form needs to render
type ProductFormOptions struct {
	StoreURL            string                `json:"storeUrl"`
	Categories          []*domain.Category    `json:"categories"`
	SubCategories       []*domain.SubCategory `json:"subCategories"`
	SubCategoryDisabled bool                  `json:"subCategoryDisabled"`
	OfferTags           []*domain.OfferTag    `json:"offerTags"`
	Colors              []form.Color          `json:"colors"`
	Sizes               []form.Size           `json:"sizes"`
	MaxKeywords         int                   `json:"maxKeywords"`
}

// ProductService defines the interface for product business logic
type ProductService interface {
	Upsert(ctx context.Context, session *domain.Session, storeURL string, payload form.ProductPayload) (*domain.Product, error)
	ListByStore(ctx context.Context, session *domain.Session, storeURL, search string) ([]*domain.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Delete(ctx context.Context, session *domain.Session, productID uuid.UUID) error
	FormOptions(ctx context.Context, session *domain.Session, storeURL string, categoryID uuid.UUID) (*ProductFormOptions, error)
}

type productService struct {
	productRepo     repository.ProductRepository
	storeRepo       repository.StoreRepository
	categoryRepo    repository.CategoryRepository
	subCategoryRepo repository.SubCategoryRepository
	offerTagRepo    repository.OfferTagRepository
	categories      CategoryService
	subCategories   SubCategoryService
	offerTags       OfferTagService
	validate        *validator.Validate
}

// ProductDeps groups the collaborators of the product service
type ProductDeps struct {
	Products      repository.ProductRepository
	Stores        repository.StoreRepository
	Categories    repository.CategoryRepository
	SubCategories repository.SubCategoryRepository
	OfferTags     repository.OfferTagRepository

	CategoryService    CategoryService
	SubCategoryService SubCategoryService
	OfferTagService    OfferTagService
}

// NewProductService creates a new instance of ProductService
func NewProductService(deps ProductDeps) ProductService {
	return &productService{
		productRepo:     deps.Products,
		storeRepo:       deps.Stores,
		categoryRepo:    deps.Categories,
		subCategoryRepo: deps.SubCategories,
		offerTagRepo:    deps.OfferTags,
		categories:      deps.CategoryService,
		subCategories:   deps.SubCategoryService,
		offerTags:       deps.OfferTagService,
		validate:        validation.Validator(),
	}
}

// ownedStore loads a store by url and hides stores of other users as not found
func (s *productService) ownedStore(ctx context.Context, session *domain.Session, storeURL string) (*domain.Store, error) {
	store, err := s.storeRepo.FindByURL(ctx, storeURL)
	if err != nil {
		return nil, fmt.Errorf("failed to find store: %w", err)
	}
	if store.UserID != session.UserID {
		return nil, fmt.Errorf("failed to find store: %w", repository.ErrStoreNotFound)
	}
	return store, nil
}

// Upsert creates a product with its first variant, adds a variant to an
// existing product, or updates an existing variant, depending on which of
// productId and variantId the payload carries.
func (s *productService) Upsert(ctx context.Context, session *domain.Session, storeURL string, payload form.ProductPayload) (*domain.Product, error) {
	if err := requireSeller(session); err != nil {
		return nil, err
	}
	if err := validateInput(s.validate, payload); err != nil {
		return nil, err
	}

	store, err := s.ownedStore(ctx, session, storeURL)
	if err != nil {
		return nil, err
	}

	if err := s.checkClassification(ctx, payload); err != nil {
		return nil, err
	}

	product, variant := payload.ToDomain(store.ID)

	if err := s.resolveProduct(ctx, product); err != nil {
		return nil, err
	}
	variant.ProductID = product.ID
	if err := s.resolveVariant(ctx, product, variant); err != nil {
		return nil, err
	}

	if err := s.productRepo.UpsertWithVariant(ctx, product, variant); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	saved, err := s.productRepo.FindByID(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload product: %w", err)
	}
	return saved, nil
}

// checkClassification verifies the category, that the subcategory belongs to
// it, and the optional offer tag
func (s *productService) checkClassification(ctx context.Context, payload form.ProductPayload) error {
	if _, err := s.categoryRepo.FindByID(ctx, payload.CategoryID); err != nil {
		return fmt.Errorf("failed to find category: %w", err)
	}

	subCategory, err := s.subCategoryRepo.FindByID(ctx, payload.SubCategoryID)
	if err != nil {
		return fmt.Errorf("failed to find subCategory: %w", err)
	}
	if subCategory.CategoryID != payload.CategoryID {
		return invalid("The selected subcategory does not belong to the selected category")
	}

	if payload.OfferTagID != nil {
		if _, err := s.offerTagRepo.FindByID(ctx, *payload.OfferTagID); err != nil {
			return fmt.Errorf("failed to find offer tag: %w", err)
		}
	}

	return nil
}

// resolveProduct assigns an id and slug to a new product, or keeps the slug
// of an existing one after checking it belongs to the same store
func (s *productService) resolveProduct(ctx context.Context, product *domain.Product) error {
	if product.ID != uuid.Nil {
		existing, err := s.productRepo.FindByID(ctx, product.ID)
		switch {
		case err == nil:
			if existing.StoreID != product.StoreID {
				return fmt.Errorf("failed to update product: %w", repository.ErrProductNotFound)
			}
			product.Slug = existing.Slug
			return nil
		case !errors.Is(err, repository.ErrProductNotFound):
			return fmt.Errorf("failed to find product: %w", err)
		}
	} else {
		product.ID = uuid.New()
	}

	productSlug, err := slug.Unique(ctx, product.Name, func(ctx context.Context, candidate string) (bool, error) {
		return s.productRepo.SlugExists(ctx, repository.SlugTableProducts, candidate)
	})
	if err != nil {
		return fmt.Errorf("failed to generate product slug: %w", err)
	}
	product.Slug = productSlug
	return nil
}

func (s *productService) resolveVariant(ctx context.Context, product *domain.Product, variant *domain.ProductVariant) error {
	if variant.ID != uuid.Nil {
		existing, err := s.productRepo.FindVariantByID(ctx, variant.ID)
		switch {
		case err == nil:
			if existing.ProductID != product.ID {
				return fmt.Errorf("failed to update variant: %w", repository.ErrVariantNotFound)
			}
			variant.Slug = existing.Slug
			return nil
		case !errors.Is(err, repository.ErrVariantNotFound):
			return fmt.Errorf("failed to find variant: %w", err)
		}
	} else {
		variant.ID = uuid.New()
	}

	variantSlug, err := slug.Unique(ctx, product.Name+" "+variant.VariantName, func(ctx context.Context, candidate string) (bool, error) {
		return s.productRepo.SlugExists(ctx, repository.SlugTableVariants, candidate)
	})
	if err != nil {
		return fmt.Errorf("failed to generate variant slug: %w", err)
	}
	variant.Slug = variantSlug
	return nil
}

// ListByStore returns the products of a store the calling seller owns
func (s *productService) ListByStore(ctx context.Context, session *domain.Session, storeURL, search string) ([]*domain.Product, error) {
	if err := requireSeller(session); err != nil {
		return nil, err
	}

	store, err := s.ownedStore(ctx, session, storeURL)
	if err != nil {
		return nil, err
	}

	products, err := s.productRepo.ListByStore(ctx, store.ID, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Get retrieves a product with its variants
func (s *productService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// Delete removes a product owned by one of the calling seller's stores
func (s *productService) Delete(ctx context.Context, session *domain.Session, productID uuid.UUID) error {
	if err := requireSeller(session); err != nil {
		return err
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to find product: %w", err)
	}

	store, err := s.storeRepo.FindByID(ctx, product.StoreID)
	if err != nil {
		return fmt.Errorf("failed to find product store: %w", err)
	}
	if store.UserID != session.UserID {
		return fmt.Errorf("failed to delete product: %w", repository.ErrProductNotFound)
	}

	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// FormOptions loads the product form's select options. When categoryID is
// set, the subcategory options are the ones of that category.
func (s *productService) FormOptions(ctx context.Context, session *domain.Session, storeURL string, categoryID uuid.UUID) (*ProductFormOptions, error) {
	if err := requireSeller(session); err != nil {
		return nil, err
	}
	if _, err := s.ownedStore(ctx, session, storeURL); err != nil {
		return nil, err
	}

	var (
		categories    []*domain.Category
		subCategories []*domain.SubCategory
		offerTags     []*domain.OfferTag
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = s.categories.List(gctx, "")
		return err
	})
	g.Go(func() error {
		var err error
		offerTags, err = s.offerTags.List(gctx)
		return err
	})
	if categoryID != uuid.Nil {
		g.Go(func() error {
			var err error
			subCategories, err = s.subCategories.ListByCategory(gctx, categoryID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load product form options: %w", err)
	}

	draft := form.NewProductDraft()
	if categoryID != uuid.Nil {
		draft.SelectCategory(categoryID, subCategories)
	}

	options := draft.SubCategoryOptions()
	if options == nil {
		options = []*domain.SubCategory{}
	}

	return &ProductFormOptions{
		StoreURL:            storeURL,
		Categories:          categories,
		SubCategories:       options,
		SubCategoryDisabled: draft.SubCategoryDisabled(),
		OfferTags:           offerTags,
		Colors:              draft.Colors(),
		Sizes:               draft.Sizes(),
		MaxKeywords:         form.MaxKeywords,
	}, nil
}
