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
	ErrOfferTagNotFound = errors.New("offer tag not found")
)

// OfferTagRepository defines the interface for offer tag data access
type OfferTagRepository interface {
	Upsert(ctx context.Context, tag *domain.OfferTag) (*domain.OfferTag, error)
	FindFirstByNameOrURL(ctx context.Context, name, url string, excludeID uuid.UUID) (*domain.OfferTag, error)
	List(ctx context.Context) ([]*domain.OfferTag, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.OfferTag, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type offerTagRepository struct {
	db *sql.DB
}

// NewOfferTagRepository creates a new instance of OfferTagRepository
func NewOfferTagRepository(db *sql.DB) OfferTagRepository {
	return &offerTagRepository{db: db}
}

const offerTagColumns = `id, name, url, created_at, updated_at`

func scanOfferTag(row interface{ Scan(...any) error }) (*domain.OfferTag, error) {
	tag := &domain.OfferTag{}
	err := row.Scan(&tag.ID, &tag.Name, &tag.URL, &tag.CreatedAt, &tag.UpdatedAt)
	return tag, err
}

func (r *offerTagRepository) Upsert(ctx context.Context, tag *domain.OfferTag) (*domain.OfferTag, error) {
	query := `
		INSERT INTO offer_tags (id, name, url, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, url = EXCLUDED.url, updated_at = NOW()
		RETURNING ` + offerTagColumns

	saved, err := scanOfferTag(r.db.QueryRowContext(ctx, query, tag.ID, tag.Name, tag.URL))
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			return nil, duplicateFromConstraint("offer tag", "offer_tags", constraint)
		}
		return nil, fmt.Errorf("failed to upsert offer tag: %w", err)
	}

	return saved, nil
}

func (r *offerTagRepository) FindFirstByNameOrURL(ctx context.Context, name, url string, excludeID uuid.UUID) (*domain.OfferTag, error) {
	query := `
		SELECT ` + offerTagColumns + `
		FROM offer_tags
		WHERE (name = $1 OR url = $2) AND id <> $3
		ORDER BY (name = $1) DESC
		LIMIT 1
	`

	tag, err := scanOfferTag(r.db.QueryRowContext(ctx, query, name, url, excludeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check offer tag uniqueness: %w", err)
	}

	return tag, nil
}

func (r *offerTagRepository) List(ctx context.Context) ([]*domain.OfferTag, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+offerTagColumns+` FROM offer_tags ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list offer tags: %w", err)
	}
	defer rows.Close()

	tags := []*domain.OfferTag{}
	for rows.Next() {
		tag, err := scanOfferTag(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan offer tag: %w", err)
		}
		tags = append(tags, tag)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating offer tags: %w", err)
	}

	return tags, nil
}

func (r *offerTagRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.OfferTag, error) {
	tag, err := scanOfferTag(r.db.QueryRowContext(ctx, `SELECT `+offerTagColumns+` FROM offer_tags WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOfferTagNotFound
		}
		return nil, fmt.Errorf("failed to find offer tag by ID: %w", err)
	}

	return tag, nil
}

func (r *offerTagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM offer_tags WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete offer tag: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOfferTagNotFound
	}

	return nil
}
