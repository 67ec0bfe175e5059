package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/fieldsales-api/internal/domain"
	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
	"github.com/jhoicas/fieldsales-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `c.id, c.name, c.slug, c.status, c.plan, COALESCE(c.address, ''), c.staff_limit,
	c.subscription_ends_at, c.subscription_suspended, c.created_at, c.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner, extra ...any) (*entity.Company, error) {
	var c entity.Company
	dest := []any{
		&c.ID, &c.Name, &c.Slug, &c.Status, &c.Plan, &c.Address, &c.StaffLimit,
		&c.SubscriptionEndsAt, &c.SubscriptionSuspended, &c.CreatedAt, &c.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste una nueva empresa. ErrDuplicate si el slug ya existe.
func (r *CompanyRepo) Create(ctx context.Context, company *entity.Company) error {
	query := `
		INSERT INTO companies (id, name, slug, status, plan, address, staff_limit,
			subscription_ends_at, subscription_suspended, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		company.ID, company.Name, company.Slug, company.Status, company.Plan,
		nullIfEmpty(company.Address), company.StaffLimit,
		company.SubscriptionEndsAt, company.SubscriptionSuspended,
		company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	return r.get(ctx, `SELECT `+companyColumns+` FROM companies c WHERE c.id = $1`, id)
}

// LockByID igual que GetByID pero bloquea la fila hasta el fin de la transacción.
func (r *CompanyRepo) LockByID(ctx context.Context, id string) (*entity.Company, error) {
	return r.get(ctx, `SELECT `+companyColumns+` FROM companies c WHERE c.id = $1 FOR UPDATE`, id)
}

func (r *CompanyRepo) get(ctx context.Context, query, id string) (*entity.Company, error) {
	c, err := scanCompany(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

func (r *CompanyRepo) UpdateStaffLimit(ctx context.Context, id string, staffLimit int) (bool, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE companies SET staff_limit = $2, updated_at = NOW() WHERE id = $1`, id, staffLimit)
	if err != nil {
		return false, fmt.Errorf("update staff limit: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *CompanyRepo) ExtendSubscription(ctx context.Context, id string, endsAt time.Time) error {
	_, err := r.q.Exec(ctx, `
		UPDATE companies
		SET subscription_ends_at = $2, subscription_suspended = FALSE, updated_at = NOW()
		WHERE id = $1`, id, endsAt)
	if err != nil {
		return fmt.Errorf("extend subscription: %w", err)
	}
	return nil
}

func (r *CompanyRepo) SetSuspended(ctx context.Context, id string, suspended bool) (bool, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE companies SET subscription_suspended = $2, updated_at = NOW() WHERE id = $1`, id, suspended)
	if err != nil {
		return false, fmt.Errorf("set subscription suspended: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListOverview página de empresas con conteo de personal por estado y el contacto principal
// (el manager o boss más antiguo de la empresa).
func (r *CompanyRepo) ListOverview(ctx context.Context, f repository.CompanyFilter) ([]*entity.CompanyOverview, int, error) {
	pattern := likePattern(f.Q)

	var total int
	if err := r.q.QueryRow(ctx, `
		SELECT COUNT(*) FROM companies c
		WHERE $1 = '' OR c.name ILIKE $1 OR c.slug ILIKE $1`, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count companies: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT `+companyColumns+`,
			COUNT(cu.id),
			COUNT(cu.id) FILTER (WHERE cu.status = 'active'),
			COUNT(cu.id) FILTER (WHERE cu.status = 'inactive'),
			COUNT(cu.id) FILTER (WHERE cu.status = 'invited'),
			COALESCE(contact.email, ''), COALESCE(contact.phone, '')
		FROM companies c
		LEFT JOIN company_users cu ON cu.company_id = c.id
		LEFT JOIN LATERAL (
			SELECT u.email, m.phone
			FROM company_users m
			JOIN users u ON u.id = m.user_id
			WHERE m.company_id = c.id AND m.role IN ('boss', 'manager')
			ORDER BY m.created_at
			LIMIT 1
		) contact ON TRUE
		WHERE $1 = '' OR c.name ILIKE $1 OR c.slug ILIKE $1
		GROUP BY c.id, contact.email, contact.phone
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3`, pattern, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var out []*entity.CompanyOverview
	for rows.Next() {
		var o entity.CompanyOverview
		c, err := scanCompany(rows,
			&o.StaffTotal, &o.StaffActive, &o.StaffInactive, &o.StaffInvited,
			&o.ContactEmail, &o.ContactPhone)
		if err != nil {
			return nil, 0, fmt.Errorf("scan company: %w", err)
		}
		o.Company = *c
		out = append(out, &o)
	}
	return out, total, rows.Err()
}

// Totals agregados globales. Activa = no suspendida y con fin futuro.
func (r *CompanyRepo) Totals(ctx context.Context, now time.Time) (entity.CompanyTotals, error) {
	var t entity.CompanyTotals
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE NOT subscription_suspended AND subscription_ends_at >= $1),
			COUNT(*) FILTER (WHERE subscription_suspended OR subscription_ends_at IS NULL OR subscription_ends_at < $1)
		FROM companies`, now).Scan(&t.Companies, &t.ActiveSubscription, &t.ExpiredSubscription)
	if err != nil {
		return t, fmt.Errorf("company totals: %w", err)
	}
	return t, nil
}

// Recent últimas empresas registradas.
func (r *CompanyRepo) Recent(ctx context.Context, limit int) ([]*entity.Company, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+companyColumns+` FROM companies c ORDER BY c.created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent companies: %w", err)
	}
	defer rows.Close()

	var out []*entity.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
