package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/fieldsales-api/internal/domain"
	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
	"github.com/jhoicas/fieldsales-api/internal/domain/repository"
)

var _ repository.ShopRepository = (*ShopRepo)(nil)

// ShopRepo adaptador de shops.
type ShopRepo struct {
	q Querier
}

func NewShopRepository(q Querier) *ShopRepo {
	return &ShopRepo{q: q}
}

const shopSelect = `
	SELECT s.id, s.company_id, s.external_shop_code, s.name, COALESCE(s.contact_name, ''),
		COALESCE(s.phone, ''), COALESCE(s.address, ''), COALESCE(s.notes, ''),
		s.latitude, s.longitude, s.geofence_radius_m, s.location_source, s.location_verified,
		s.location_accuracy_m, s.arrival_prompt_enabled, s.min_dwell_seconds, s.cooldown_minutes,
		s.timezone, s.is_active,
		(SELECT COUNT(*) FROM shop_assignments sa WHERE sa.shop_id = s.id),
		s.created_at, s.updated_at
	FROM shops s`

func scanShop(row rowScanner) (*entity.Shop, error) {
	var s entity.Shop
	if err := row.Scan(
		&s.ID, &s.CompanyID, &s.ExternalShopCode, &s.Name, &s.ContactName,
		&s.Phone, &s.Address, &s.Notes,
		&s.Latitude, &s.Longitude, &s.GeofenceRadiusM, &s.LocationSource, &s.LocationVerified,
		&s.LocationAccuracyM, &s.ArrivalPromptEnabled, &s.MinDwellSeconds, &s.CooldownMinutes,
		&s.Timezone, &s.IsActive, &s.AssignmentCount,
		&s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserta la tienda. ErrDuplicate si external_shop_code ya existe en la empresa.
func (r *ShopRepo) Create(ctx context.Context, s *entity.Shop) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO shops (id, company_id, external_shop_code, name, contact_name, phone, address, notes,
			latitude, longitude, geofence_radius_m, location_source, location_verified, location_accuracy_m,
			arrival_prompt_enabled, min_dwell_seconds, cooldown_minutes, timezone, is_active,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`,
		s.ID, s.CompanyID, s.ExternalShopCode, s.Name, nullIfEmpty(s.ContactName), nullIfEmpty(s.Phone),
		nullIfEmpty(s.Address), nullIfEmpty(s.Notes),
		s.Latitude, s.Longitude, s.GeofenceRadiusM, s.LocationSource, s.LocationVerified, s.LocationAccuracyM,
		s.ArrivalPromptEnabled, s.MinDwellSeconds, s.CooldownMinutes, s.Timezone, s.IsActive,
		s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: external_shop_code ya existe", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert shop: %w", err)
	}
	return nil
}

func (r *ShopRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Shop, error) {
	s, err := scanShop(r.q.QueryRow(ctx, shopSelect+` WHERE s.company_id = $1 AND s.id = $2`, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shop: %w", err)
	}
	return s, nil
}

func (r *ShopRepo) List(ctx context.Context, companyID, q string) ([]*entity.Shop, error) {
	rows, err := r.q.Query(ctx, shopSelect+`
		WHERE s.company_id = $1
			AND ($2 = '' OR s.name ILIKE $2 OR s.external_shop_code ILIKE $2 OR s.address ILIKE $2)
		ORDER BY s.name`, companyID, likePattern(q))
	if err != nil {
		return nil, fmt.Errorf("list shops: %w", err)
	}
	defer rows.Close()

	var out []*entity.Shop
	for rows.Next() {
		s, err := scanShop(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shop: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
