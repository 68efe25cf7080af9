package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"marketplace/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrVariantNotFound = errors.New("product variant not found")
)

// SlugTable selects which table a slug lookup checks
type SlugTable string

const (
	SlugTableProducts SlugTable = "products"
	SlugTableVariants SlugTable = "product_variants"
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	UpsertWithVariant(ctx context.Context, product *domain.Product, variant *domain.ProductVariant) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindVariantByID(ctx context.Context, id uuid.UUID) (*domain.ProductVariant, error)
	ListByStore(ctx context.Context, storeID uuid.UUID, search string) ([]*domain.Product, error)
	SlugExists(ctx context.Context, table SlugTable, slug string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productRepository struct {
	db      *sql.DB
	typeMap *pgtype.Map
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db, typeMap: pgtype.NewMap()}
}

const productColumns = `id, name, description, slug, brand, rating, sales, num_reviews, store_id, category_id, sub_category_id, offer_tag_id, created_at, updated_at`

const variantColumns = `id, product_id, variant_name, variant_description, variant_image, slug, is_sale, sku, keywords, sales, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*domain.Product, error) {
	product := &domain.Product{}
	var offerTagID uuid.NullUUID
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Slug,
		&product.Brand,
		&product.Rating,
		&product.Sales,
		&product.NumReviews,
		&product.StoreID,
		&product.CategoryID,
		&product.SubCategoryID,
		&offerTagID,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if offerTagID.Valid {
		product.OfferTagID = &offerTagID.UUID
	}
	return product, err
}

func (r *productRepository) scanVariant(row interface{ Scan(...any) error }) (*domain.ProductVariant, error) {
	variant := &domain.ProductVariant{}
	err := row.Scan(
		&variant.ID,
		&variant.ProductID,
		&variant.VariantName,
		&variant.VariantDescription,
		&variant.VariantImage,
		&variant.Slug,
		&variant.IsSale,
		&variant.SKU,
		r.typeMap.SQLScanner(&variant.Keywords),
		&variant.Sales,
		&variant.CreatedAt,
		&variant.UpdatedAt,
	)
	return variant, err
}

// UpsertWithVariant writes a product and one of its variants in a single
// transaction. The variant's images, colors and sizes replace whatever the
// variant held before. Product rows owned by a different store are never
// touched; that case reports ErrProductNotFound.
func (r *productRepository) UpsertWithVariant(ctx context.Context, product *domain.Product, variant *domain.ProductVariant) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	productQuery := `
		INSERT INTO products (id, name, description, slug, brand, store_id, category_id, sub_category_id, offer_tag_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, description = EXCLUDED.description, brand = EXCLUDED.brand,
		    category_id = EXCLUDED.category_id, sub_category_id = EXCLUDED.sub_category_id,
		    offer_tag_id = EXCLUDED.offer_tag_id, updated_at = NOW()
		WHERE products.store_id = EXCLUDED.store_id
		RETURNING slug, created_at, updated_at
	`
	err = tx.QueryRowContext(
		ctx,
		productQuery,
		product.ID,
		product.Name,
		product.Description,
		product.Slug,
		product.Brand,
		product.StoreID,
		product.CategoryID,
		product.SubCategoryID,
		product.OfferTagID,
	).Scan(&product.Slug, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}
		if _, ok := foreignKeyViolation(err); ok {
			return fmt.Errorf("product references a missing row: %w", err)
		}
		return fmt.Errorf("failed to upsert product: %w", err)
	}

	variantQuery := `
		INSERT INTO product_variants (id, product_id, variant_name, variant_description, variant_image, slug, is_sale, sku, keywords, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE
		SET variant_name = EXCLUDED.variant_name, variant_description = EXCLUDED.variant_description,
		    variant_image = EXCLUDED.variant_image, is_sale = EXCLUDED.is_sale, sku = EXCLUDED.sku,
		    keywords = EXCLUDED.keywords, updated_at = NOW()
		WHERE product_variants.product_id = EXCLUDED.product_id
		RETURNING slug, created_at, updated_at
	`
	err = tx.QueryRowContext(
		ctx,
		variantQuery,
		variant.ID,
		product.ID,
		variant.VariantName,
		variant.VariantDescription,
		variant.VariantImage,
		variant.Slug,
		variant.IsSale,
		variant.SKU,
		variant.Keywords,
	).Scan(&variant.Slug, &variant.CreatedAt, &variant.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrVariantNotFound
		}
		return fmt.Errorf("failed to upsert product variant: %w", err)
	}
	variant.ProductID = product.ID

	for _, table := range []string{"product_variant_images", "colors", "sizes"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE variant_id = $1`, variant.ID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for i, image := range variant.Images {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO product_variant_images (variant_id, position, url, alt) VALUES ($1, $2, $3, $4)`,
			variant.ID, i, image.URL, image.Alt)
		if err != nil {
			return fmt.Errorf("failed to insert variant image: %w", err)
		}
	}

	for i, color := range variant.Colors {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO colors (variant_id, position, name) VALUES ($1, $2, $3)`,
			variant.ID, i, color.Color)
		if err != nil {
			return fmt.Errorf("failed to insert color: %w", err)
		}
	}

	for i, size := range variant.Sizes {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO sizes (variant_id, position, size, quantity, price, discount) VALUES ($1, $2, $3, $4, $5, $6)`,
			variant.ID, i, size.Size, size.Quantity, size.Price, size.Discount)
		if err != nil {
			return fmt.Errorf("failed to insert size: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit product: %w", err)
	}

	return nil
}

// FindByID retrieves a product with all of its variants
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := scanProduct(r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	if err := r.attachVariants(ctx, []*domain.Product{product}); err != nil {
		return nil, err
	}

	return product, nil
}

// FindVariantByID retrieves a single variant with its images, colors and sizes
func (r *productRepository) FindVariantByID(ctx context.Context, id uuid.UUID) (*domain.ProductVariant, error) {
	variant, err := r.scanVariant(r.db.QueryRowContext(ctx, `SELECT `+variantColumns+` FROM product_variants WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVariantNotFound
		}
		return nil, fmt.Errorf("failed to find product variant by ID: %w", err)
	}

	if err := r.attachVariantDetails(ctx, map[uuid.UUID]*domain.ProductVariant{variant.ID: variant}); err != nil {
		return nil, err
	}

	return variant, nil
}

// ListByStore retrieves a store's products, most recently updated first
func (r *productRepository) ListByStore(ctx context.Context, storeID uuid.UUID, search string) ([]*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE store_id = $1 AND ($2 = '' OR name ILIKE '%' || $2 || '%')
		ORDER BY updated_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, storeID, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	if err := r.attachVariants(ctx, products); err != nil {
		return nil, err
	}

	return products, nil
}

// SlugExists reports whether a product or variant already uses slug
func (r *productRepository) SlugExists(ctx context.Context, table SlugTable, slug string) (bool, error) {
	if table != SlugTableProducts && table != SlugTableVariants {
		return false, fmt.Errorf("unknown slug table %q", table)
	}

	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM `+string(table)+` WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}

	return exists, nil
}

// Delete removes a product and, through foreign keys, all of its variants
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func (r *productRepository) attachVariants(ctx context.Context, products []*domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*domain.Product, len(products))
	ids := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+variantColumns+` FROM product_variants WHERE product_id = ANY($1::uuid[]) ORDER BY created_at ASC`,
		idStrings(ids))
	if err != nil {
		return fmt.Errorf("failed to load product variants: %w", err)
	}
	defer rows.Close()

	variants := make(map[uuid.UUID]*domain.ProductVariant)
	for rows.Next() {
		variant, err := r.scanVariant(rows)
		if err != nil {
			return fmt.Errorf("failed to scan product variant: %w", err)
		}
		variants[variant.ID] = variant
		parent := byID[variant.ProductID]
		parent.Variants = append(parent.Variants, variant)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating product variants: %w", err)
	}

	return r.attachVariantDetails(ctx, variants)
}

func (r *productRepository) attachVariantDetails(ctx context.Context, variants map[uuid.UUID]*domain.ProductVariant) error {
	if len(variants) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(variants))
	for id, v := range variants {
		ids = append(ids, id)
		v.Images = []domain.VariantImage{}
		v.Colors = []domain.Color{}
		v.Sizes = []domain.Size{}
	}
	arg := idStrings(ids)

	imageRows, err := r.db.QueryContext(ctx,
		`SELECT variant_id, url, alt FROM product_variant_images WHERE variant_id = ANY($1::uuid[]) ORDER BY position`, arg)
	if err != nil {
		return fmt.Errorf("failed to load variant images: %w", err)
	}
	defer imageRows.Close()
	for imageRows.Next() {
		var variantID uuid.UUID
		var image domain.VariantImage
		if err := imageRows.Scan(&variantID, &image.URL, &image.Alt); err != nil {
			return fmt.Errorf("failed to scan variant image: %w", err)
		}
		variants[variantID].Images = append(variants[variantID].Images, image)
	}
	if err := imageRows.Err(); err != nil {
		return fmt.Errorf("error iterating variant images: %w", err)
	}

	colorRows, err := r.db.QueryContext(ctx,
		`SELECT variant_id, name FROM colors WHERE variant_id = ANY($1::uuid[]) ORDER BY position`, arg)
	if err != nil {
		return fmt.Errorf("failed to load colors: %w", err)
	}
	defer colorRows.Close()
	for colorRows.Next() {
		var variantID uuid.UUID
		var color domain.Color
		if err := colorRows.Scan(&variantID, &color.Color); err != nil {
			return fmt.Errorf("failed to scan color: %w", err)
		}
		variants[variantID].Colors = append(variants[variantID].Colors, color)
	}
	if err := colorRows.Err(); err != nil {
		return fmt.Errorf("error iterating colors: %w", err)
	}

	sizeRows, err := r.db.QueryContext(ctx,
		`SELECT variant_id, size, quantity, price, discount FROM sizes WHERE variant_id = ANY($1::uuid[]) ORDER BY position`, arg)
	if err != nil {
		return fmt.Errorf("failed to load sizes: %w", err)
	}
	defer sizeRows.Close()
	for sizeRows.Next() {
		var variantID uuid.UUID
		var size domain.Size
		if err := sizeRows.Scan(&variantID, &size.Size, &size.Quantity, &size.Price, &size.Discount); err != nil {
			return fmt.Errorf("failed to scan size: %w", err)
		}
		variants[variantID].Sizes = append(variants[variantID].Sizes, size)
	}
	if err := sizeRows.Err(); err != nil {
		return fmt.Errorf("error iterating sizes: %w", err)
	}

	return nil
}
