package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/fieldsales-api/internal/domain"
	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
	"github.com/jhoicas/fieldsales-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo adaptador de orders y order_items.
type OrderRepo struct {
	q Querier
}

func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// LockDailySequence toma un advisory lock de transacción por empresa; se libera en commit/rollback.
func (r *OrderRepo) LockDailySequence(ctx context.Context, companyID string) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, companyID); err != nil {
		return fmt.Errorf("lock order sequence: %w", err)
	}
	return nil
}

func (r *OrderRepo) CountPlacedBetween(ctx context.Context, companyID string, from, to time.Time) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*) FROM orders WHERE company_id = $1 AND placed_at >= $2 AND placed_at < $3`,
		companyID, from, to).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count daily orders: %w", err)
	}
	return n, nil
}

// Create inserta cabecera y líneas. ErrDuplicate si el número de pedido ya existe.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO orders (id, company_id, order_number, shop_id, lead_id, placed_by_company_user_id,
			status, notes, total_amount, currency_code, placed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		o.ID, o.CompanyID, o.OrderNumber, o.ShopID, o.LeadID, o.PlacedByCompanyUserID,
		string(o.Status), o.Notes, o.TotalAmount, o.CurrencyCode, o.PlacedAt, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número de pedido %s", domain.ErrDuplicate, o.OrderNumber)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: tienda o lead inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for i, it := range o.Items {
		it.Position = i + 1
		err := r.q.QueryRow(ctx, `
			INSERT INTO order_items (id, company_id, order_id, position, product_id, product_name, product_sku,
				quantity, unit_price, notes, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING line_total`,
			it.ID, o.CompanyID, o.ID, it.Position, it.ProductID, it.ProductName, it.ProductSKU,
			it.Quantity, it.UnitPrice, it.Notes, it.CreatedAt,
		).Scan(&it.LineTotal)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: producto inexistente", domain.ErrInvalidInput)
			}
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

const orderSelect = `
	SELECT o.id, o.company_id, o.order_number, o.shop_id, o.lead_id, o.placed_by_company_user_id,
		o.status, o.notes, o.total_amount, o.currency_code, o.placed_at, o.processed_at, o.shipped_at,
		o.closed_at, o.cancelled_at, o.cancelled_by_company_user_id, o.cancel_reason, o.cancel_note,
		o.created_at, o.updated_at,
		COALESCE(s.name, ''), COALESCE(s.contact_name, ''), COALESCE(s.phone, ''), COALESCE(s.address, ''),
		COALESCE(l.name, ''), COALESCE(pu.full_name, ''), COALESCE(cbu.full_name, ''),
		(SELECT COUNT(*) FROM order_items oi WHERE oi.order_id = o.id)
	FROM orders o
	LEFT JOIN shops s ON s.id = o.shop_id
	LEFT JOIN leads l ON l.id = o.lead_id
	LEFT JOIN company_users pcu ON pcu.id = o.placed_by_company_user_id
	LEFT JOIN users pu ON pu.id = pcu.user_id
	LEFT JOIN company_users cbcu ON cbcu.id = o.cancelled_by_company_user_id
	LEFT JOIN users cbu ON cbu.id = cbcu.user_id`

func scanOrder(row rowScanner) (*entity.Order, error) {
	var o entity.Order
	var status string
	if err := row.Scan(
		&o.ID, &o.CompanyID, &o.OrderNumber, &o.ShopID, &o.LeadID, &o.PlacedByCompanyUserID,
		&status, &o.Notes, &o.TotalAmount, &o.CurrencyCode, &o.PlacedAt, &o.ProcessedAt, &o.ShippedAt,
		&o.ClosedAt, &o.CancelledAt, &o.CancelledByCompanyUserID, &o.CancelReason, &o.CancelNote,
		&o.CreatedAt, &o.UpdatedAt,
		&o.ShopName, &o.ShopContactName, &o.ShopPhone, &o.ShopAddress,
		&o.LeadName, &o.PlacedByName, &o.CancelledByName, &o.ItemsCount,
	); err != nil {
		return nil, err
	}
	o.Status = entity.OrderStatus(status)
	return &o, nil
}

// GetByID pedido con sus líneas. placedBy != "" restringe a pedidos de ese miembro.
func (r *OrderRepo) GetByID(ctx context.Context, companyID, id, placedBy string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, orderSelect+`
		WHERE o.company_id = $1 AND o.id = $2
			AND ($3 = '' OR o.placed_by_company_user_id::text = $3)`, companyID, id, placedBy))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, company_id, order_id, position, product_id, product_name, product_sku, quantity, unit_price,
			line_total, notes, created_at
		FROM order_items WHERE order_id = $1 ORDER BY position`, o.ID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.CompanyID, &it.OrderID, &it.Position, &it.ProductID, &it.ProductName,
			&it.ProductSKU, &it.Quantity, &it.UnitPrice, &it.LineTotal, &it.Notes, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, &it)
	}
	return o, rows.Err()
}

func (r *OrderRepo) GetStatus(ctx context.Context, companyID, id string) (entity.OrderStatus, bool, error) {
	var status string
	err := r.q.QueryRow(ctx,
		`SELECT status FROM orders WHERE company_id = $1 AND id = $2`, companyID, id).Scan(&status)
	if err != nil {
		if isNoRows(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get order status: %w", err)
	}
	return entity.OrderStatus(status), true, nil
}

// List aplica los filtros enumerados; el orden solo admite los dos valores conocidos.
func (r *OrderRepo) List(ctx context.Context, companyID string, f repository.OrderFilter) ([]*entity.Order, error) {
	order := "DESC"
	if f.Sort == repository.SortPlacedAtAsc {
		order = "ASC"
	}
	rows, err := r.q.Query(ctx, orderSelect+`
		WHERE o.company_id = $1
			AND ($2 = '' OR o.placed_by_company_user_id::text = $2)
			AND ($3 = '' OR o.status = $3)
			AND ($4 = '' OR o.order_number ILIKE $4 OR s.name ILIKE $4 OR l.name ILIKE $4 OR o.notes ILIKE $4)
			AND ($5::timestamptz IS NULL OR o.placed_at >= $5)
			AND ($6::timestamptz IS NULL OR o.placed_at < $6)
			AND ($7 = '' OR o.placed_by_company_user_id::text = $7)
			AND ($8 = '' OR o.shop_id::text = $8)
		ORDER BY o.placed_at `+order+`
		LIMIT $9`,
		companyID, f.PlacedBy, string(f.Status), likePattern(f.Q), f.From, f.To, f.Rep, f.Shop,
		repository.OrderListLimit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *OrderRepo) CountByStatus(ctx context.Context, companyID, placedBy string) (map[entity.OrderStatus]int, error) {
	rows, err := r.q.Query(ctx, `
		SELECT status, COUNT(*) FROM orders
		WHERE company_id = $1 AND ($2 = '' OR placed_by_company_user_id::text = $2)
		GROUP BY status`, companyID, placedBy)
	if err != nil {
		return nil, fmt.Errorf("count orders by status: %w", err)
	}
	defer rows.Close()

	out := make(map[entity.OrderStatus]int, len(entity.OrderStatuses))
	for _, s := range entity.OrderStatuses {
		out[s] = 0
	}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan order count: %w", err)
		}
		out[entity.OrderStatus(status)] = n
	}
	return out, rows.Err()
}

// Transition actualiza solo si el estado sigue siendo from; false si otro escritor ganó.
func (r *OrderRepo) Transition(ctx context.Context, companyID, id string, from, to entity.OrderStatus, at time.Time) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE orders SET
			status = $4,
			processed_at = CASE WHEN $4 = 'processing' THEN COALESCE(processed_at, $5) ELSE processed_at END,
			shipped_at = CASE WHEN $4 = 'shipped' THEN COALESCE(shipped_at, $5) ELSE shipped_at END,
			closed_at = CASE WHEN $4 = 'closed' THEN COALESCE(closed_at, $5) ELSE closed_at END,
			updated_at = NOW()
		WHERE company_id = $1 AND id = $2 AND status = $3`,
		companyID, id, string(from), string(to), at)
	if err != nil {
		return false, fmt.Errorf("transition order: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *OrderRepo) UpdateNotes(ctx context.Context, companyID, id string, notes *string) error {
	_, err := r.q.Exec(ctx, `
		UPDATE orders SET notes = $3, updated_at = NOW() WHERE company_id = $1 AND id = $2`,
		companyID, id, notes)
	if err != nil {
		return fmt.Errorf("update order notes: %w", err)
	}
	return nil
}

func (r *OrderRepo) Cancel(ctx context.Context, companyID, id string, from entity.OrderStatus, info repository.CancelInfo) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE orders SET
			status = 'cancelled',
			cancelled_at = COALESCE(cancelled_at, $4),
			cancelled_by_company_user_id = $5,
			cancel_reason = $6,
			cancel_note = $7,
			updated_at = NOW()
		WHERE company_id = $1 AND id = $2 AND status = $3`,
		companyID, id, string(from), info.At, info.ByCompanyUserID, info.Reason, info.Note)
	if err != nil {
		return false, fmt.Errorf("cancel order: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
