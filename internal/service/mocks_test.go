package service

import (
	"context"
	"sort"
	"sync"

	"marketplace/internal/domain"
	"marketplace/internal/repository"

	"github.com/google/uuid"
)

type mockCategoryRepository struct {
	mu         sync.Mutex
	categories map[uuid.UUID]*domain.Category
	upserts    int
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{categories: make(map[uuid.UUID]*domain.Category)}
}

func (m *mockCategoryRepository) Upsert(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts++
	saved := *c
	m.categories[c.ID] = &saved
	return &saved, nil
}

func (m *mockCategoryRepository) FindFirstByNameOrURL(ctx context.Context, name, url string, excludeID uuid.UUID) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var urlHit *domain.Category
	for _, c := range m.categories {
		if c.ID == excludeID {
			continue
		}
		if c.Name == name {
			return c, nil
		}
		if c.URL == url {
			urlHit = c
		}
	}
	return urlHit, nil
}

func (m *mockCategoryRepository) List(ctx context.Context, search string) ([]*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.Category{}
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return c, nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

type mockSubCategoryRepository struct {
	mu            sync.Mutex
	subCategories map[uuid.UUID]*domain.SubCategory
}

func newMockSubCategoryRepository() *mockSubCategoryRepository {
	return &mockSubCategoryRepository{subCategories: make(map[uuid.UUID]*domain.SubCategory)}
}

func (m *mockSubCategoryRepository) Upsert(ctx context.Context, s *domain.SubCategory) (*domain.SubCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := *s
	m.subCategories[s.ID] = &saved
	return &saved, nil
}

func (m *mockSubCategoryRepository) FindFirstByNameOrURL(ctx context.Context, name, url string, excludeID uuid.UUID) (*domain.SubCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var urlHit *domain.SubCategory
	for _, s := range m.subCategories {
		if s.ID == excludeID {
			continue
		}
		if s.Name == name {
			return s, nil
		}
		if s.URL == url {
			urlHit = s
		}
	}
	return urlHit, nil
}

func (m *mockSubCategoryRepository) List(ctx context.Context, search string) ([]*domain.SubCategory, error) {
	return m.Sample(ctx, 0, false)
}

func (m *mockSubCategoryRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.SubCategory, error) {
	all, _ := m.Sample(ctx, 0, false)
	out := []*domain.SubCategory{}
	for _, s := range all {
		if s.CategoryID == categoryID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSubCategoryRepository) Sample(ctx context.Context, limit int, random bool) ([]*domain.SubCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.SubCategory{}
	for _, s := range m.subCategories {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockSubCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.SubCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subCategories[id]
	if !ok {
		return nil, repository.ErrSubCategoryNotFound
	}
	return s, nil
}

func (m *mockSubCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subCategories[id]; !ok {
		return repository.ErrSubCategoryNotFound
	}
	delete(m.subCategories, id)
	return nil
}

type mockOfferTagRepository struct {
	mu   sync.Mutex
	tags map[uuid.UUID]*domain.OfferTag
}

func newMockOfferTagRepository() *mockOfferTagRepository {
	return &mockOfferTagRepository{tags: make(map[uuid.UUID]*domain.OfferTag)}
}

func (m *mockOfferTagRepository) Upsert(ctx context.Context, t *domain.OfferTag) (*domain.OfferTag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := *t
	m.tags[t.ID] = &saved
	return &saved, nil
}

func (m *mockOfferTagRepository) FindFirstByNameOrURL(ctx context.Context, name, url string, excludeID uuid.UUID) (*domain.OfferTag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var urlHit *domain.OfferTag
	for _, t := range m.tags {
		if t.ID == excludeID {
			continue
		}
		if t.Name == name {
			return t, nil
		}
		if t.URL == url {
			urlHit = t
		}
	}
	return urlHit, nil
}

func (m *mockOfferTagRepository) List(ctx context.Context) ([]*domain.OfferTag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.OfferTag{}
	for _, t := range m.tags {
		out = append(out, t)
	}
	return out, nil
}

func (m *mockOfferTagRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.OfferTag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tags[id]
	if !ok {
		return nil, repository.ErrOfferTagNotFound
	}
	return t, nil
}

func (m *mockOfferTagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tags[id]; !ok {
		return repository.ErrOfferTagNotFound
	}
	delete(m.tags, id)
	return nil
}

type mockStoreRepository struct {
	mu     sync.Mutex
	stores map[uuid.UUID]*domain.Store
	order  []uuid.UUID
}

func newMockStoreRepository() *mockStoreRepository {
	return &mockStoreRepository{stores: make(map[uuid.UUID]*domain.Store)}
}

func (m *mockStoreRepository) Upsert(ctx context.Context, s *domain.Store) (*domain.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := *s
	if existing, ok := m.stores[s.ID]; ok {
		if existing.UserID != s.UserID {
			return nil, repository.ErrStoreNotFound
		}
		saved.Status = existing.Status
	} else {
		m.order = append(m.order, s.ID)
	}
	m.stores[s.ID] = &saved
	return &saved, nil
}

func (m *mockStoreRepository) FindConflict(ctx context.Context, s *domain.Store) (*domain.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.order {
		existing := m.stores[id]
		if existing.ID == s.ID {
			continue
		}
		if existing.Name == s.Name || existing.URL == s.URL || existing.Email == s.Email || existing.Phone == s.Phone {
			return existing, nil
		}
	}
	return nil, nil
}

func (m *mockStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stores[id]
	if !ok {
		return nil, repository.ErrStoreNotFound
	}
	return s, nil
}

func (m *mockStoreRepository) FindByURL(ctx context.Context, url string) (*domain.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.stores {
		if s.URL == url {
			return s, nil
		}
	}
	return nil, repository.ErrStoreNotFound
}

func (m *mockStoreRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.Store{}
	for _, id := range m.order {
		if s := m.stores[id]; s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockStoreRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.StoreStatus) (*domain.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stores[id]
	if !ok {
		return nil, repository.ErrStoreNotFound
	}
	s.Status = status
	return s, nil
}

type mockProductRepository struct {
	mu       sync.Mutex
	products map[uuid.UUID]*domain.Product
	variants map[uuid.UUID]*domain.ProductVariant
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{
		products: make(map[uuid.UUID]*domain.Product),
		variants: make(map[uuid.UUID]*domain.ProductVariant),
	}
}

func (m *mockProductRepository) UpsertWithVariant(ctx context.Context, p *domain.Product, v *domain.ProductVariant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.products[p.ID]; ok && existing.StoreID != p.StoreID {
		return repository.ErrProductNotFound
	}
	saved := *p
	saved.Variants = nil
	m.products[p.ID] = &saved
	variant := *v
	variant.ProductID = p.ID
	m.variants[v.ID] = &variant
	return nil
}

func (m *mockProductRepository) withVariants(p *domain.Product) *domain.Product {
	out := *p
	out.Variants = nil
	for _, v := range m.variants {
		if v.ProductID == p.ID {
			out.Variants = append(out.Variants, v)
		}
	}
	return &out
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return m.withVariants(p), nil
}

func (m *mockProductRepository) FindVariantByID(ctx context.Context, id uuid.UUID) (*domain.ProductVariant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.variants[id]
	if !ok {
		return nil, repository.ErrVariantNotFound
	}
	return v, nil
}

func (m *mockProductRepository) ListByStore(ctx context.Context, storeID uuid.UUID, search string) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.Product{}
	for _, p := range m.products {
		if p.StoreID == storeID {
			out = append(out, m.withVariants(p))
		}
	}
	return out, nil
}

func (m *mockProductRepository) SlugExists(ctx context.Context, table repository.SlugTable, slug string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if table == repository.SlugTableProducts {
		for _, p := range m.products {
			if p.Slug == slug {
				return true, nil
			}
		}
		return false, nil
	}
	for _, v := range m.variants {
		if v.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	for vid, v := range m.variants {
		if v.ProductID == id {
			delete(m.variants, vid)
		}
	}
	return nil
}
