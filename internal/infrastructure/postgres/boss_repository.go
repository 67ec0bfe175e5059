package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/fieldsales-api/internal/domain"
	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
	"github.com/jhoicas/fieldsales-api/internal/domain/repository"
)

var _ repository.BossRepository = (*BossRepo)(nil)

// BossRepo operadores de la plataforma.
type BossRepo struct {
	q Querier
}

func NewBossRepository(q Querier) *BossRepo {
	return &BossRepo{q: q}
}

const bossColumns = `id, email, password_hash, full_name, created_at, updated_at`

func (r *BossRepo) Create(ctx context.Context, b *entity.Boss) error {
	b.Email = strings.ToLower(strings.TrimSpace(b.Email))
	_, err := r.q.Exec(ctx, `
		INSERT INTO bosses (id, email, password_hash, full_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		b.ID, b.Email, b.PasswordHash, b.FullName, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert boss: %w", err)
	}
	return nil
}

func (r *BossRepo) GetByID(ctx context.Context, id string) (*entity.Boss, error) {
	return r.get(ctx, `SELECT `+bossColumns+` FROM bosses WHERE id = $1`, id)
}

func (r *BossRepo) GetByEmail(ctx context.Context, email string) (*entity.Boss, error) {
	return r.get(ctx, `SELECT `+bossColumns+` FROM bosses WHERE LOWER(email) = LOWER($1)`, strings.TrimSpace(email))
}

func (r *BossRepo) get(ctx context.Context, query, arg string) (*entity.Boss, error) {
	var b entity.Boss
	err := r.q.QueryRow(ctx, query, arg).Scan(&b.ID, &b.Email, &b.PasswordHash, &b.FullName, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get boss: %w", err)
	}
	return &b, nil
}

func (r *BossRepo) List(ctx context.Context) ([]*entity.Boss, error) {
	rows, err := r.q.Query(ctx, `SELECT `+bossColumns+` FROM bosses ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list bosses: %w", err)
	}
	defer rows.Close()

	var out []*entity.Boss
	for rows.Next() {
		var b entity.Boss
		if err := rows.Scan(&b.ID, &b.Email, &b.PasswordHash, &b.FullName, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan boss: %w", err)
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}

// Update persiste email, nombre y hash de contraseña. ErrDuplicate si el email ya existe.
func (r *BossRepo) Update(ctx context.Context, b *entity.Boss) error {
	b.Email = strings.ToLower(strings.TrimSpace(b.Email))
	_, err := r.q.Exec(ctx, `
		UPDATE bosses SET email = $2, full_name = $3, password_hash = $4, updated_at = NOW()
		WHERE id = $1`, b.ID, b.Email, b.FullName, b.PasswordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update boss: %w", err)
	}
	return nil
}

func (r *BossRepo) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM bosses WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete boss: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
