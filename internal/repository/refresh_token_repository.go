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
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenRevoked  = errors.New("refresh token has been revoked")
)

// RefreshTokenRepository stores the long-lived tokens that back dashboard sessions
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type refreshTokenRepository struct {
	db *sql.DB
}

// NewRefreshTokenRepository creates a new instance of RefreshTokenRepository
func NewRefreshTokenRepository(db *sql.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token, expires_at, created_at, revoked)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		token.ID, token.UserID, token.Token, token.ExpiresAt, token.CreatedAt, token.Revoked,
	)
	if err != nil {
		return fmt.Errorf("failed to create refresh token: %w", err)
	}
	return nil
}

// FindByToken returns the token row. Revoked tokens yield ErrRefreshTokenRevoked
// so callers never see them.
func (r *refreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	var rt domain.RefreshToken
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, token, expires_at, created_at, revoked
		FROM refresh_tokens
		WHERE token = $1`, token,
	).Scan(&rt.ID, &rt.UserID, &rt.Token, &rt.ExpiresAt, &rt.CreatedAt, &rt.Revoked)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrRefreshTokenNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to find refresh token: %w", err)
	case rt.Revoked:
		return nil, ErrRefreshTokenRevoked
	}
	return &rt, nil
}

func (r *refreshTokenRepository) Revoke(ctx context.Context, token string) error {
	n, err := r.revoke(ctx, `UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1`, token)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRefreshTokenNotFound
	}
	return nil
}

// RevokeAllForUser ends every open session of a user and reports how many
// tokens were still live.
func (r *refreshTokenRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.revoke(ctx, `UPDATE refresh_tokens SET revoked = TRUE WHERE user_id = $1 AND revoked = FALSE`, userID)
}

func (r *refreshTokenRepository) revoke(ctx context.Context, query string, arg interface{}) (int64, error) {
	result, err := r.db.ExecContext(ctx, query, arg)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
