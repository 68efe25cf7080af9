package transport

import (
	"context"
	"io"
	"strings"

	"marketplace/internal/domain"
	"marketplace/internal/form"
	"marketplace/internal/media"
	"marketplace/internal/service"

	"github.com/google/uuid"
)

// Function-field fakes. Unset functions return zero values.

type fakeUserService struct {
	service.UserService
	getUserByID func(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

func (f *fakeUserService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if f.getUserByID == nil {
		return &domain.User{ID: id, Email: "someone@example.com", Role: domain.RoleUser}, nil
	}
	return f.getUserByID(ctx, id)
}

type fakeCategoryService struct {
	list   func(ctx context.Context, search string) ([]*domain.Category, error)
	upsert func(ctx context.Context, session *domain.Session, input service.CategoryInput) (*domain.Category, error)
	delete func(ctx context.Context, session *domain.Session, id uuid.UUID) error
}

func (f *fakeCategoryService) Upsert(ctx context.Context, session *domain.Session, input service.CategoryInput) (*domain.Category, error) {
	return f.upsert(ctx, session, input)
}

func (f *fakeCategoryService) List(ctx context.Context, search string) ([]*domain.Category, error) {
	if f.list == nil {
		return []*domain.Category{}, nil
	}
	return f.list(ctx, search)
}

func (f *fakeCategoryService) Get(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return &domain.Category{ID: id}, nil
}

func (f *fakeCategoryService) Delete(ctx context.Context, session *domain.Session, id uuid.UUID) error {
	return f.delete(ctx, session, id)
}

type fakeSubCategoryService struct {
	list           func(ctx context.Context, search string) ([]*domain.SubCategory, error)
	listByCategory func(ctx context.Context, categoryID uuid.UUID) ([]*domain.SubCategory, error)
	sample         func(ctx context.Context, limit int, random bool) ([]*domain.SubCategory, error)
}

func (f *fakeSubCategoryService) Upsert(ctx context.Context, session *domain.Session, input service.SubCategoryInput) (*domain.SubCategory, error) {
	return nil, service.ErrUnauthenticated
}

func (f *fakeSubCategoryService) List(ctx context.Context, search string) ([]*domain.SubCategory, error) {
	if f.list == nil {
		return []*domain.SubCategory{}, nil
	}
	return f.list(ctx, search)
}

func (f *fakeSubCategoryService) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.SubCategory, error) {
	if f.listByCategory == nil {
		return []*domain.SubCategory{}, nil
	}
	return f.listByCategory(ctx, categoryID)
}

func (f *fakeSubCategoryService) Sample(ctx context.Context, limit int, random bool) ([]*domain.SubCategory, error) {
	return f.sample(ctx, limit, random)
}

func (f *fakeSubCategoryService) Get(ctx context.Context, id uuid.UUID) (*domain.SubCategory, error) {
	return &domain.SubCategory{ID: id}, nil
}

func (f *fakeSubCategoryService) Delete(ctx context.Context, session *domain.Session, id uuid.UUID) error {
	return service.ErrUnauthenticated
}

type fakeOfferTagService struct{}

func (fakeOfferTagService) Upsert(ctx context.Context, session *domain.Session, input service.OfferTagInput) (*domain.OfferTag, error) {
	return nil, service.ErrUnauthenticated
}

func (fakeOfferTagService) List(ctx context.Context) ([]*domain.OfferTag, error) {
	return []*domain.OfferTag{}, nil
}

func (fakeOfferTagService) Delete(ctx context.Context, session *domain.Session, id uuid.UUID) error {
	return service.ErrUnauthenticated
}

type fakeStoreService struct {
	listMine func(ctx context.Context, session *domain.Session) ([]*domain.Store, error)
	getMine  func(ctx context.Context, session *domain.Session, storeURL string) (*domain.Store, error)
}

func (f *fakeStoreService) Upsert(ctx context.Context, session *domain.Session, input service.StoreInput) (*domain.Store, error) {
	return nil, service.ErrUnauthenticated
}

func (f *fakeStoreService) ListMine(ctx context.Context, session *domain.Session) ([]*domain.Store, error) {
	return f.listMine(ctx, session)
}

func (f *fakeStoreService) GetMine(ctx context.Context, session *domain.Session, storeURL string) (*domain.Store, error) {
	return f.getMine(ctx, session, storeURL)
}

func (f *fakeStoreService) UpdateStatus(ctx context.Context, session *domain.Session, storeID uuid.UUID, status domain.StoreStatus) (*domain.Store, error) {
	return nil, service.ErrUnauthenticated
}

type fakeProductService struct {
	upsert      func(ctx context.Context, session *domain.Session, storeURL string, payload form.ProductPayload) (*domain.Product, error)
	get         func(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	formOptions func(ctx context.Context, session *domain.Session, storeURL string, categoryID uuid.UUID) (*service.ProductFormOptions, error)
}

func (f *fakeProductService) Upsert(ctx context.Context, session *domain.Session, storeURL string, payload form.ProductPayload) (*domain.Product, error) {
	return f.upsert(ctx, session, storeURL, payload)
}

func (f *fakeProductService) ListByStore(ctx context.Context, session *domain.Session, storeURL, search string) ([]*domain.Product, error) {
	return []*domain.Product{}, nil
}

func (f *fakeProductService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return f.get(ctx, id)
}

func (f *fakeProductService) Delete(ctx context.Context, session *domain.Session, productID uuid.UUID) error {
	return service.ErrUnauthenticated
}

func (f *fakeProductService) FormOptions(ctx context.Context, session *domain.Session, storeURL string, categoryID uuid.UUID) (*service.ProductFormOptions, error) {
	return f.formOptions(ctx, session, storeURL, categoryID)
}

type fakeUploader struct {
	uploads   []string
	destroyed []string
	err       error
}

func (f *fakeUploader) Upload(ctx context.Context, owner uuid.UUID, file io.Reader, filename string) (*media.Asset, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, err := io.Copy(io.Discard, file); err != nil {
		return nil, err
	}
	f.uploads = append(f.uploads, filename)
	publicID := "marketplace/" + owner.String() + "/" + filename
	return &media.Asset{URL: "https://res.cloudinary.com/demo/image/upload/" + publicID, PublicID: publicID}, nil
}

func (f *fakeUploader) Destroy(ctx context.Context, publicID string) error {
	if f.err != nil {
		return f.err
	}
	f.destroyed = append(f.destroyed, publicID)
	return nil
}

func (f *fakeUploader) Owns(owner uuid.UUID, publicID string) bool {
	return strings.HasPrefix(publicID, "marketplace/"+owner.String()+"/")
}
