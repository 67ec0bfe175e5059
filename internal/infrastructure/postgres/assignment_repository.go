package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/fieldsales-api/internal/domain"
	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
	"github.com/jhoicas/fieldsales-api/internal/domain/repository"
)

var _ repository.AssignmentRepository = (*AssignmentRepo)(nil)

// AssignmentRepo adaptador de shop_assignments.
type AssignmentRepo struct {
	q Querier
}

func NewAssignmentRepository(q Querier) *AssignmentRepo {
	return &AssignmentRepo{q: q}
}

func (r *AssignmentRepo) List(ctx context.Context, companyID string) ([]*entity.ShopAssignment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT sa.id, sa.company_id, sa.shop_id, sa.rep_company_user_id, sa.is_primary,
			s.name, u.full_name, sa.created_at
		FROM shop_assignments sa
		JOIN shops s ON s.id = sa.shop_id
		JOIN company_users cu ON cu.id = sa.rep_company_user_id
		JOIN users u ON u.id = cu.user_id
		WHERE sa.company_id = $1
		ORDER BY s.name, sa.is_primary DESC, u.full_name`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list shop assignments: %w", err)
	}
	defer rows.Close()

	var out []*entity.ShopAssignment
	for rows.Next() {
		var a entity.ShopAssignment
		if err := rows.Scan(&a.ID, &a.CompanyID, &a.ShopID, &a.RepCompanyUserID, &a.IsPrimary,
			&a.ShopName, &a.RepName, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan shop assignment: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// Upsert inserta o actualiza is_primary; a.ID y a.CreatedAt quedan con los valores persistidos.
func (r *AssignmentRepo) Upsert(ctx context.Context, a *entity.ShopAssignment) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO shop_assignments (id, company_id, shop_id, rep_company_user_id, is_primary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (company_id, shop_id, rep_company_user_id)
		DO UPDATE SET is_primary = EXCLUDED.is_primary
		RETURNING id, created_at`,
		a.ID, a.CompanyID, a.ShopID, a.RepCompanyUserID, a.IsPrimary, a.CreatedAt,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			// shop_assignments_one_primary_uidx: otro request marcó un primario a la vez.
			return fmt.Errorf("%w: la tienda ya tiene otro rep primario, reintente", domain.ErrConflict)
		}
		return fmt.Errorf("upsert shop assignment: %w", err)
	}
	return nil
}

func (r *AssignmentRepo) ClearPrimary(ctx context.Context, companyID, shopID, keepRepID string) error {
	_, err := r.q.Exec(ctx, `
		UPDATE shop_assignments SET is_primary = FALSE
		WHERE company_id = $1 AND shop_id = $2 AND rep_company_user_id <> $3 AND is_primary`,
		companyID, shopID, keepRepID)
	if err != nil {
		return fmt.Errorf("clear primary assignment: %w", err)
	}
	return nil
}

func (r *AssignmentRepo) CountByRep(ctx context.Context, companyID, repID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*) FROM shop_assignments WHERE company_id = $1 AND rep_company_user_id = $2`,
		companyID, repID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count assignments: %w", err)
	}
	return n, nil
}

// Reassign mueve las asignaciones de fromRep a toRep. Donde toRep ya tenía la tienda se borra la
// fila de fromRep y, si era la primaria, toRep la hereda; el resto cambia de rep.
func (r *AssignmentRepo) Reassign(ctx context.Context, companyID, fromRep, toRep string) (int64, error) {
	rows, err := r.q.Query(ctx, `
		DELETE FROM shop_assignments src
		USING shop_assignments dst
		WHERE src.company_id = $1 AND src.rep_company_user_id = $2
			AND dst.company_id = $1 AND dst.rep_company_user_id = $3
			AND src.shop_id = dst.shop_id
		RETURNING src.shop_id, src.is_primary`, companyID, fromRep, toRep)
	if err != nil {
		return 0, fmt.Errorf("delete duplicate assignments: %w", err)
	}
	var merged int64
	var primaryShops []string
	for rows.Next() {
		var shopID string
		var primary bool
		if err := rows.Scan(&shopID, &primary); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan merged assignment: %w", err)
		}
		merged++
		if primary {
			primaryShops = append(primaryShops, shopID)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("delete duplicate assignments: %w", err)
	}

	if len(primaryShops) > 0 {
		if _, err := r.q.Exec(ctx, `
			UPDATE shop_assignments SET is_primary = TRUE
			WHERE company_id = $1 AND rep_company_user_id = $2 AND shop_id = ANY($3::uuid[])`,
			companyID, toRep, primaryShops); err != nil {
			return 0, fmt.Errorf("inherit primary assignments: %w", err)
		}
	}

	moved, err := r.q.Exec(ctx, `
		UPDATE shop_assignments SET rep_company_user_id = $3
		WHERE company_id = $1 AND rep_company_user_id = $2`, companyID, fromRep, toRep)
	if err != nil {
		return 0, fmt.Errorf("move assignments: %w", err)
	}
	return merged + moved.RowsAffected(), nil
}
