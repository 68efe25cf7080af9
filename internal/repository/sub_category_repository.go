package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"marketplace/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrSubCategoryNotFound = errors.New("subCategory not found")
)

// SubCategoryRepository defines the interface for subcategory data access
type SubCategoryRepository interface {
	Upsert(ctx context.Context, subCategory *domain.SubCategory) (*domain.SubCategory, error)
	FindFirstByNameOrURL(ctx context.Context, name, url string, excludeID uuid.UUID) (*domain.SubCategory, error)
	List(ctx context.Context, search string) ([]*domain.SubCategory, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.SubCategory, error)
	Sample(ctx context.Context, limit int, random bool) ([]*domain.SubCategory, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.SubCategory, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type subCategoryRepository struct {
	db *sql.DB
}

// NewSubCategoryRepository creates a new instance of SubCategoryRepository
func NewSubCategoryRepository(db *sql.DB) SubCategoryRepository {
	return &subCategoryRepository{db: db}
}

const subCategoryColumns = `id, name, url, image, featured, category_id, created_at, updated_at`

func scanSubCategory(row interface{ Scan(...any) error }) (*domain.SubCategory, error) {
	subCategory := &domain.SubCategory{}
	err := row.Scan(
		&subCategory.ID,
		&subCategory.Name,
		&subCategory.URL,
		&subCategory.Image,
		&subCategory.Featured,
		&subCategory.CategoryID,
		&subCategory.CreatedAt,
		&subCategory.UpdatedAt,
	)
	return subCategory, err
}

func (r *subCategoryRepository) collect(rows *sql.Rows) ([]*domain.SubCategory, error) {
	defer rows.Close()

	subCategories := []*domain.SubCategory{}
	for rows.Next() {
		subCategory, err := scanSubCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subCategory: %w", err)
		}
		subCategories = append(subCategories, subCategory)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subCategories: %w", err)
	}

	return subCategories, nil
}

// Upsert creates the subcategory or updates the row with the same id
func (r *subCategoryRepository) Upsert(ctx context.Context, subCategory *domain.SubCategory) (*domain.SubCategory, error) {
	query := `
		INSERT INTO sub_categories (id, name, url, image, featured, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, url = EXCLUDED.url, image = EXCLUDED.image,
		    featured = EXCLUDED.featured, category_id = EXCLUDED.category_id, updated_at = NOW()
		RETURNING ` + subCategoryColumns

	saved, err := scanSubCategory(r.db.QueryRowContext(
		ctx,
		query,
		subCategory.ID,
		subCategory.Name,
		subCategory.URL,
		subCategory.Image,
		subCategory.Featured,
		subCategory.CategoryID,
	))
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			return nil, duplicateFromConstraint("subCategory", "sub_categories", constraint)
		}
		if _, ok := foreignKeyViolation(err); ok {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to upsert subCategory: %w", err)
	}

	return saved, nil
}

// FindFirstByNameOrURL returns a subcategory other than excludeID whose name or
// url collides with the given values, preferring a name match. It returns nil
// when there is no collision.
func (r *subCategoryRepository) FindFirstByNameOrURL(ctx context.Context, name, url string, excludeID uuid.UUID) (*domain.SubCategory, error) {
	query := `
		SELECT ` + subCategoryColumns + `
		FROM sub_categories
		WHERE (name = $1 OR url = $2) AND id <> $3
		ORDER BY (name = $1) DESC
		LIMIT 1
	`

	subCategory, err := scanSubCategory(r.db.QueryRowContext(ctx, query, name, url, excludeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check subCategory uniqueness: %w", err)
	}

	return subCategory, nil
}

// List retrieves subcategories with their parent category, most recently updated first
func (r *subCategoryRepository) List(ctx context.Context, search string) ([]*domain.SubCategory, error) {
	query := `
		SELECT s.id, s.name, s.url, s.image, s.featured, s.category_id, s.created_at, s.updated_at,
		       c.id, c.name, c.url, c.image, c.featured, c.created_at, c.updated_at
		FROM sub_categories s
		JOIN categories c ON c.id = s.category_id
		WHERE $1 = '' OR s.name ILIKE '%' || $1 || '%'
		ORDER BY s.updated_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list subCategories: %w", err)
	}
	defer rows.Close()

	subCategories := []*domain.SubCategory{}
	for rows.Next() {
		s := &domain.SubCategory{Category: &domain.Category{}}
		err := rows.Scan(
			&s.ID, &s.Name, &s.URL, &s.Image, &s.Featured, &s.CategoryID, &s.CreatedAt, &s.UpdatedAt,
			&s.Category.ID, &s.Category.Name, &s.Category.URL, &s.Category.Image,
			&s.Category.Featured, &s.Category.CreatedAt, &s.Category.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subCategory: %w", err)
		}
		subCategories = append(subCategories, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subCategories: %w", err)
	}

	return subCategories, nil
}

// ListByCategory retrieves the subcategories that belong to one category
func (r *subCategoryRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.SubCategory, error) {
	query := `
		SELECT ` + subCategoryColumns + `
		FROM sub_categories
		WHERE category_id = $1
		ORDER BY updated_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subCategories for category: %w", err)
	}

	return r.collect(rows)
}

// Sample returns up to limit subcategories, either newest first or in random order.
// A non-positive limit means no limit for ordered results and 10 for random ones.
func (r *subCategoryRepository) Sample(ctx context.Context, limit int, random bool) ([]*domain.SubCategory, error) {
	var (
		rows *sql.Rows
		err  error
	)

	switch {
	case random:
		if limit <= 0 {
			limit = 10
		}
		rows, err = r.db.QueryContext(ctx, `SELECT `+subCategoryColumns+` FROM sub_categories ORDER BY random() LIMIT $1`, limit)
	case limit > 0:
		rows, err = r.db.QueryContext(ctx, `SELECT `+subCategoryColumns+` FROM sub_categories ORDER BY created_at DESC LIMIT $1`, limit)
	default:
		rows, err = r.db.QueryContext(ctx, `SELECT `+subCategoryColumns+` FROM sub_categories ORDER BY created_at DESC`)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to sample subCategories: %w", err)
	}

	return r.collect(rows)
}

// FindByID retrieves a subcategory by ID using parameterized queries
func (r *subCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.SubCategory, error) {
	query := `SELECT ` + subCategoryColumns + ` FROM sub_categories WHERE id = $1`

	subCategory, err := scanSubCategory(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find subCategory by ID: %w", err)
	}

	return subCategory, nil
}

// Delete removes a subcategory
func (r *subCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sub_categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete subCategory: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrSubCategoryNotFound
	}

	return nil
}
