package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fieldsales-api/internal/domain"
	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
	"github.com/jhoicas/fieldsales-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create inserta el producto. ErrDuplicate si el SKU ya existe en la empresa.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO products (id, company_id, sku, name, description, unit, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.CompanyID, p.SKU, p.Name, nullIfEmpty(p.Description), p.Unit, p.IsActive,
		p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el SKU %q ya existe", domain.ErrDuplicate, p.SKU)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID dentro de la empresa (sin precio; ver PriceHistory).
func (r *ProductRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, `
		SELECT id, company_id, sku, name, COALESCE(description, ''), unit, is_active,
			(SELECT COUNT(*) FROM order_items oi WHERE oi.product_id = products.id),
			created_at, updated_at
		FROM products WHERE company_id = $1 AND id = $2`, companyID, id).Scan(
		&p.ID, &p.CompanyID, &p.SKU, &p.Name, &p.Description, &p.Unit, &p.IsActive,
		&p.OrderCount, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// List catálogo con el precio vigente en now y la cantidad de líneas de pedido.
func (r *ProductRepo) List(ctx context.Context, companyID string, f repository.ProductFilter, now time.Time) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `
		SELECT p.id, p.company_id, p.sku, p.name, COALESCE(p.description, ''), p.unit, p.is_active,
			(SELECT COUNT(*) FROM order_items oi WHERE oi.product_id = p.id),
			p.created_at, p.updated_at,
			pp.id, pp.price, pp.currency, pp.starts_at, pp.ends_at, pp.created_at
		FROM products p
		LEFT JOIN LATERAL (
			SELECT id, price, currency, starts_at, ends_at, created_at
			FROM product_prices
			WHERE product_id = p.id AND starts_at <= $4 AND (ends_at IS NULL OR ends_at > $4)
			ORDER BY starts_at DESC
			LIMIT 1
		) pp ON TRUE
		WHERE p.company_id = $1
			AND ($2 = '' OR p.name ILIKE $2 OR p.sku ILIKE $2)
			AND ($3::boolean IS NULL OR p.is_active = $3)
		ORDER BY p.name`, companyID, likePattern(f.Q), f.Active, now)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []*entity.Product
	for rows.Next() {
		var p entity.Product
		var priceID, currency *string
		var price decimal.NullDecimal
		var startsAt, endsAt, priceCreated *time.Time
		if err := rows.Scan(
			&p.ID, &p.CompanyID, &p.SKU, &p.Name, &p.Description, &p.Unit, &p.IsActive,
			&p.OrderCount, &p.CreatedAt, &p.UpdatedAt,
			&priceID, &price, &currency, &startsAt, &endsAt, &priceCreated,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if priceID != nil && price.Valid {
			p.CurrentPrice = &entity.ProductPrice{
				ID:        *priceID,
				ProductID: p.ID,
				CompanyID: p.CompanyID,
				Price:     price.Decimal,
				Currency:  *currency,
				StartsAt:  *startsAt,
				EndsAt:    endsAt,
				CreatedAt: *priceCreated,
			}
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// Update persiste sku, nombre, descripción, unidad y estado. ErrDuplicate si el SKU choca.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	_, err := r.q.Exec(ctx, `
		UPDATE products
		SET sku = $3, name = $4, description = $5, unit = $6, is_active = $7, updated_at = NOW()
		WHERE company_id = $1 AND id = $2`,
		p.CompanyID, p.ID, p.SKU, p.Name, nullIfEmpty(p.Description), p.Unit, p.IsActive)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el SKU %q ya existe", domain.ErrDuplicate, p.SKU)
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (r *ProductRepo) Delete(ctx context.Context, companyID, id string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, fmt.Errorf("%w: el producto tiene pedidos", domain.ErrConflict)
		}
		return false, fmt.Errorf("delete product: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ProductRepo) CountOrderItems(ctx context.Context, companyID, id string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM order_items WHERE company_id = $1 AND product_id = $2`, companyID, id).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count order items: %w", err)
	}
	return n, nil
}

func (r *ProductRepo) AddPrice(ctx context.Context, pp *entity.ProductPrice) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO product_prices (id, company_id, product_id, price, currency, starts_at, ends_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		pp.ID, pp.CompanyID, pp.ProductID, pp.Price, pp.Currency, pp.StartsAt, pp.EndsAt, pp.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert product price: %w", err)
	}
	return nil
}

func (r *ProductRepo) CloseOpenPrices(ctx context.Context, productID string, at time.Time) error {
	_, err := r.q.Exec(ctx, `
		UPDATE product_prices SET ends_at = $2
		WHERE product_id = $1 AND starts_at <= $2 AND (ends_at IS NULL OR ends_at > $2)`, productID, at)
	if err != nil {
		return fmt.Errorf("close product prices: %w", err)
	}
	return nil
}

// PriceHistory todas las ventanas de precio, la más reciente primero.
func (r *ProductRepo) PriceHistory(ctx context.Context, productID string) ([]*entity.ProductPrice, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, product_id, company_id, price, currency, starts_at, ends_at, created_at
		FROM product_prices WHERE product_id = $1
		ORDER BY starts_at DESC, created_at DESC`, productID)
	if err != nil {
		return nil, fmt.Errorf("price history: %w", err)
	}
	defer rows.Close()

	var out []*entity.ProductPrice
	for rows.Next() {
		var pp entity.ProductPrice
		if err := rows.Scan(&pp.ID, &pp.ProductID, &pp.CompanyID, &pp.Price, &pp.Currency,
			&pp.StartsAt, &pp.EndsAt, &pp.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product price: %w", err)
		}
		out = append(out, &pp)
	}
	return out, rows.Err()
}
