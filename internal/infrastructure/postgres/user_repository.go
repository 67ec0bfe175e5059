package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/fieldsales-api/internal/domain"
	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
	"github.com/jhoicas/fieldsales-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, email, password_hash, full_name, email_verified_at, last_login_at, created_at, updated_at`

// Create persiste un nuevo usuario. El email se guarda en minúsculas.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	query := `
		INSERT INTO users (id, email, password_hash, full_name, email_verified_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FullName, user.EmailVerifiedAt,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail obtiene un usuario por email, sin distinguir mayúsculas.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`,
		strings.TrimSpace(email))
}

func (r *UserRepo) findOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var u entity.User
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.EmailVerifiedAt, &u.LastLoginAt,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (r *UserRepo) UpdateCredentials(ctx context.Context, id, fullName, passwordHash string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE users SET full_name = $2, password_hash = $3, updated_at = NOW() WHERE id = $1`,
		id, fullName, passwordHash)
	if err != nil {
		return fmt.Errorf("update user credentials: %w", err)
	}
	return nil
}

func (r *UserRepo) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update user password: %w", err)
	}
	return nil
}

func (r *UserRepo) UpdateFullName(ctx context.Context, id, fullName string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE users SET full_name = $2, updated_at = NOW() WHERE id = $1`, id, fullName)
	if err != nil {
		return fmt.Errorf("update user name: %w", err)
	}
	return nil
}

// UpdateEmail cambia el email y obliga a verificarlo de nuevo.
func (r *UserRepo) UpdateEmail(ctx context.Context, id, email string) error {
	_, err := r.q.Exec(ctx, `
		UPDATE users SET email = $2, email_verified_at = NULL, updated_at = NOW()
		WHERE id = $1`, id, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update user email: %w", err)
	}
	return nil
}

func (r *UserRepo) MarkEmailVerified(ctx context.Context, id string, at time.Time) error {
	_, err := r.q.Exec(ctx, `
		UPDATE users SET email_verified_at = COALESCE(email_verified_at, $2), updated_at = NOW()
		WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("mark email verified: %w", err)
	}
	return nil
}

func (r *UserRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.q.Exec(ctx, `UPDATE users SET last_login_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}
