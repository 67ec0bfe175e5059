package repository

import (
	"context"
	"time"

	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los getters devuelven (nil, nil) si no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateCredentials(ctx context.Context, id, fullName, passwordHash string) error
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
	UpdateFullName(ctx context.Context, id, fullName string) error
	// UpdateEmail cambia el email y limpia email_verified_at. ErrDuplicate si ya existe.
	UpdateEmail(ctx context.Context, id, email string) error
	MarkEmailVerified(ctx context.Context, id string, at time.Time) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

// TokenRepository tokens de un solo uso asociados a un usuario.
type TokenRepository interface {
	Create(ctx context.Context, token *entity.UserToken) error
	// Consume marca el token como usado si existe, no expiró y no fue consumido; devuelve el user_id o "".
	Consume(ctx context.Context, tokenHash, purpose string, now time.Time) (string, error)
}
