package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
	"github.com/jhoicas/fieldsales-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo auditoría de extensiones de suscripción (company_payments).
type PaymentRepo struct {
	q Querier
}

func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

func (r *PaymentRepo) Create(ctx context.Context, p *entity.CompanyPayment) error {
	var bossID *string
	if p.RecordedByBossID != "" {
		bossID = &p.RecordedByBossID
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO company_payments (id, company_id, months_added, days_added, kind, amount_notes,
			recorded_by_boss_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.CompanyID, p.MonthsAdded, p.DaysAdded, string(p.Kind), p.AmountNotes,
		bossID, p.Notes, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert company payment: %w", err)
	}
	return nil
}

func (r *PaymentRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.CompanyPayment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, company_id, months_added, days_added, kind, amount_notes,
			COALESCE(recorded_by_boss_id::text, ''), notes, created_at
		FROM company_payments WHERE company_id = $1 ORDER BY created_at DESC`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list company payments: %w", err)
	}
	defer rows.Close()

	var out []*entity.CompanyPayment
	for rows.Next() {
		var p entity.CompanyPayment
		var kind string
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.MonthsAdded, &p.DaysAdded, &kind, &p.AmountNotes,
			&p.RecordedByBossID, &p.Notes, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan company payment: %w", err)
		}
		p.Kind = entity.PaymentKind(kind)
		out = append(out, &p)
	}
	return out, rows.Err()
}
