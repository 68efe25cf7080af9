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
	ErrStoreNotFound = errors.New("store not found")
)

// StoreRepository defines the interface for store data access
type StoreRepository interface {
	Upsert(ctx context.Context, store *domain.Store) (*domain.Store, error)
	FindConflict(ctx context.Context, store *domain.Store) (*domain.Store, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Store, error)
	FindByURL(ctx context.Context, url string) (*domain.Store, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Store, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.StoreStatus) (*domain.Store, error)
}

type storeRepository struct {
	db *sql.DB
}

// NewStoreRepository creates a new instance of StoreRepository
func NewStoreRepository(db *sql.DB) StoreRepository {
	return &storeRepository{db: db}
}

const storeColumns = `id, name, url, description, email, phone, logo, cover, featured, status, average_rating, user_id, created_at, updated_at`

func scanStore(row interface{ Scan(...any) error }) (*domain.Store, error) {
	store := &domain.Store{}
	err := row.Scan(
		&store.ID,
		&store.Name,
		&store.URL,
		&store.Description,
		&store.Email,
		&store.Phone,
		&store.Logo,
		&store.Cover,
		&store.Featured,
		&store.Status,
		&store.AverageRating,
		&store.UserID,
		&store.CreatedAt,
		&store.UpdatedAt,
	)
	return store, err
}

// Upsert creates the store or updates the row with the same id. Ownership and
// moderation status are fixed at creation and never changed by an upsert.
func (r *storeRepository) Upsert(ctx context.Context, store *domain.Store) (*domain.Store, error) {
	query := `
		INSERT INTO stores (id, name, url, description, email, phone, logo, cover, featured, status, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, url = EXCLUDED.url, description = EXCLUDED.description,
		    email = EXCLUDED.email, phone = EXCLUDED.phone, logo = EXCLUDED.logo,
		    cover = EXCLUDED.cover, featured = EXCLUDED.featured, updated_at = NOW()
		WHERE stores.user_id = EXCLUDED.user_id
		RETURNING ` + storeColumns

	saved, err := scanStore(r.db.QueryRowContext(
		ctx,
		query,
		store.ID,
		store.Name,
		store.URL,
		store.Description,
		store.Email,
		store.Phone,
		store.Logo,
		store.Cover,
		store.Featured,
		store.Status,
		store.UserID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// conflicting row belongs to another user
			return nil, ErrStoreNotFound
		}
		if constraint, ok := uniqueViolation(err); ok {
			return nil, duplicateFromConstraint("store", "stores", constraint)
		}
		return nil, fmt.Errorf("failed to upsert store: %w", err)
	}

	return saved, nil
}

// FindConflict returns a store other than store.ID that shares its name, url,
// email or phone, ordered so that a name match wins over url, email and phone.
// It returns nil when there is no collision.
func (r *storeRepository) FindConflict(ctx context.Context, store *domain.Store) (*domain.Store, error) {
	query := `
		SELECT ` + storeColumns + `
		FROM stores
		WHERE (name = $1 OR url = $2 OR email = $3 OR phone = $4) AND id <> $5
		ORDER BY (name = $1) DESC, (url = $2) DESC, (email = $3) DESC
		LIMIT 1
	`

	conflict, err := scanStore(r.db.QueryRowContext(ctx, query, store.Name, store.URL, store.Email, store.Phone, store.ID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check store uniqueness: %w", err)
	}

	return conflict, nil
}

func (r *storeRepository) findOne(ctx context.Context, where string, arg any) (*domain.Store, error) {
	store, err := scanStore(r.db.QueryRowContext(ctx, `SELECT `+storeColumns+` FROM stores WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to find store: %w", err)
	}
	return store, nil
}

// FindByID retrieves a store by ID
func (r *storeRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Store, error) {
	return r.findOne(ctx, "id = $1", id)
}

// FindByURL retrieves a store by its unique url
func (r *storeRepository) FindByURL(ctx context.Context, url string) (*domain.Store, error) {
	return r.findOne(ctx, "url = $1", url)
}

// ListByUser retrieves the stores owned by a user in creation order
func (r *storeRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Store, error) {
	query := `
		SELECT ` + storeColumns + `
		FROM stores
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	defer rows.Close()

	stores := []*domain.Store{}
	for rows.Next() {
		store, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan store: %w", err)
		}
		stores = append(stores, store)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stores: %w", err)
	}

	return stores, nil
}

// UpdateStatus changes the moderation status of a store
func (r *storeRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.StoreStatus) (*domain.Store, error) {
	query := `UPDATE stores SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING ` + storeColumns

	store, err := scanStore(r.db.QueryRowContext(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to update store status: %w", err)
	}

	return store, nil
}
