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
	ErrCategoryNotFound = errors.New("category not found")
)

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Upsert(ctx context.Context, category *domain.Category) (*domain.Category, error)
	FindFirstByNameOrURL(ctx context.Context, name, url string, excludeID uuid.UUID) (*domain.Category, error)
	List(ctx context.Context, search string) ([]*domain.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

const categoryColumns = `id, name, url, image, featured, created_at, updated_at`

func scanCategory(row interface{ Scan(...any) error }) (*domain.Category, error) {
	category := &domain.Category{}
	err := row.Scan(
		&category.ID,
		&category.Name,
		&category.URL,
		&category.Image,
		&category.Featured,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	return category, err
}

// Upsert creates the category or updates the row with the same id
func (r *categoryRepository) Upsert(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	query := `
		INSERT INTO categories (id, name, url, image, featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, url = EXCLUDED.url, image = EXCLUDED.image,
		    featured = EXCLUDED.featured, updated_at = NOW()
		RETURNING ` + categoryColumns

	saved, err := scanCategory(r.db.QueryRowContext(
		ctx,
		query,
		category.ID,
		category.Name,
		category.URL,
		category.Image,
		category.Featured,
	))
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			return nil, duplicateFromConstraint("category", "categories", constraint)
		}
		return nil, fmt.Errorf("failed to upsert category: %w", err)
	}

	return saved, nil
}

// FindFirstByNameOrURL returns a category other than excludeID whose name or url
// collides with the given values, preferring a name match. It returns nil when
// there is no collision.
func (r *categoryRepository) FindFirstByNameOrURL(ctx context.Context, name, url string, excludeID uuid.UUID) (*domain.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE (name = $1 OR url = $2) AND id <> $3
		ORDER BY (name = $1) DESC
		LIMIT 1
	`

	category, err := scanCategory(r.db.QueryRowContext(ctx, query, name, url, excludeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check category uniqueness: %w", err)
	}

	return category, nil
}

// List retrieves categories, most recently updated first, optionally filtered by name
func (r *categoryRepository) List(ctx context.Context, search string) ([]*domain.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
		ORDER BY updated_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// FindByID retrieves a category by ID using parameterized queries
func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	category, err := scanCategory(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category by ID: %w", err)
	}

	return category, nil
}

// Delete removes a category and, through the foreign key, its subcategories
func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if _, ok := foreignKeyViolation(err); ok {
			return fmt.Errorf("category is still referenced by products: %w", err)
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCategoryNotFound
	}

	return nil
}
