package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
	"github.com/jhoicas/fieldsales-api/internal/domain/repository"
)

var _ repository.TokenRepository = (*TokenRepo)(nil)

// TokenRepo tokens de un solo uso (user_tokens).
type TokenRepo struct {
	q Querier
}

func NewTokenRepository(q Querier) *TokenRepo {
	return &TokenRepo{q: q}
}

func (r *TokenRepo) Create(ctx context.Context, t *entity.UserToken) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO user_tokens (id, user_id, purpose, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.UserID, t.Purpose, t.TokenHash, t.ExpiresAt, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user token: %w", err)
	}
	return nil
}

// Consume marca el token en una sola sentencia: un segundo intento no encuentra fila.
func (r *TokenRepo) Consume(ctx context.Context, tokenHash, purpose string, now time.Time) (string, error) {
	var userID string
	err := r.q.QueryRow(ctx, `
		UPDATE user_tokens SET consumed_at = $3
		WHERE token_hash = $1 AND purpose = $2 AND consumed_at IS NULL AND expires_at > $3
		RETURNING user_id`, tokenHash, purpose, now).Scan(&userID)
	if err != nil {
		if isNoRows(err) {
			return "", nil
		}
		return "", fmt.Errorf("consume user token: %w", err)
	}
	return userID, nil
}
