package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
	"github.com/jhoicas/fieldsales-api/internal/domain/repository"
)

var _ repository.LeadRepository = (*LeadRepo)(nil)

// LeadRepo adaptador de leads.
type LeadRepo struct {
	q Querier
}

func NewLeadRepository(q Querier) *LeadRepo {
	return &LeadRepo{q: q}
}

const leadSelect = `
	SELECT id, company_id, shop_id, name, COALESCE(contact_name, ''), COALESCE(phone, ''),
		COALESCE(email, ''), COALESCE(address, ''), COALESCE(notes, ''), status,
		assigned_rep_company_user_id, created_by_company_user_id, converted_at, created_at, updated_at
	FROM leads`

func scanLead(row rowScanner) (*entity.Lead, error) {
	var l entity.Lead
	var status string
	if err := row.Scan(
		&l.ID, &l.CompanyID, &l.ShopID, &l.Name, &l.ContactName, &l.Phone,
		&l.Email, &l.Address, &l.Notes, &status,
		&l.AssignedRepCompanyUserID, &l.CreatedByCompanyUserID, &l.ConvertedAt, &l.CreatedAt, &l.UpdatedAt,
	); err != nil {
		return nil, err
	}
	l.Status = entity.LeadStatus(status)
	return &l, nil
}

func (r *LeadRepo) Create(ctx context.Context, l *entity.Lead) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO leads (id, company_id, shop_id, name, contact_name, phone, email, address, notes, status,
			assigned_rep_company_user_id, created_by_company_user_id, converted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		l.ID, l.CompanyID, l.ShopID, l.Name, nullIfEmpty(l.ContactName), nullIfEmpty(l.Phone),
		nullIfEmpty(l.Email), nullIfEmpty(l.Address), nullIfEmpty(l.Notes), string(l.Status),
		l.AssignedRepCompanyUserID, l.CreatedByCompanyUserID, l.ConvertedAt, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (r *LeadRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Lead, error) {
	return r.get(ctx, leadSelect+` WHERE company_id = $1 AND id = $2`, companyID, id)
}

func (r *LeadRepo) LockByID(ctx context.Context, companyID, id string) (*entity.Lead, error) {
	return r.get(ctx, leadSelect+` WHERE company_id = $1 AND id = $2 FOR UPDATE`, companyID, id)
}

func (r *LeadRepo) get(ctx context.Context, query, companyID, id string) (*entity.Lead, error) {
	l, err := scanLead(r.q.QueryRow(ctx, query, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return l, nil
}

func (r *LeadRepo) List(ctx context.Context, companyID string, f repository.LeadFilter) ([]*entity.Lead, error) {
	rows, err := r.q.Query(ctx, leadSelect+`
		WHERE company_id = $1
			AND ($2 = '' OR name ILIKE $2 OR contact_name ILIKE $2 OR phone ILIKE $2 OR email ILIKE $2)
			AND ($3 = '' OR status = $3)
			AND ($4 = '' OR assigned_rep_company_user_id::text = $4 OR created_by_company_user_id::text = $4)
		ORDER BY created_at DESC`,
		companyID, likePattern(f.Q), string(f.Status), f.OwnedBy)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var out []*entity.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *LeadRepo) Update(ctx context.Context, l *entity.Lead) error {
	_, err := r.q.Exec(ctx, `
		UPDATE leads
		SET name = $3, contact_name = $4, phone = $5, email = $6, address = $7, notes = $8, status = $9,
			assigned_rep_company_user_id = $10, updated_at = NOW()
		WHERE company_id = $1 AND id = $2`,
		l.CompanyID, l.ID, l.Name, nullIfEmpty(l.ContactName), nullIfEmpty(l.Phone), nullIfEmpty(l.Email),
		nullIfEmpty(l.Address), nullIfEmpty(l.Notes), string(l.Status), l.AssignedRepCompanyUserID)
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	return nil
}

func (r *LeadRepo) MarkConverted(ctx context.Context, companyID, id, shopID string) error {
	_, err := r.q.Exec(ctx, `
		UPDATE leads
		SET status = 'converted', shop_id = $3, converted_at = COALESCE(converted_at, NOW()), updated_at = NOW()
		WHERE company_id = $1 AND id = $2`, companyID, id, shopID)
	if err != nil {
		return fmt.Errorf("mark lead converted: %w", err)
	}
	return nil
}

// ConvertIfPending marca el lead como convertido si aún no lo está; no toca shop_id.
func (r *LeadRepo) ConvertIfPending(ctx context.Context, companyID, id string) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE leads
		SET status = 'converted', converted_at = COALESCE(converted_at, NOW()), updated_at = NOW()
		WHERE company_id = $1 AND id = $2 AND status <> 'converted'`, companyID, id)
	if err != nil {
		return false, fmt.Errorf("convert lead: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
