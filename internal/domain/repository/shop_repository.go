package repository

import (
	"context"

	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
)

// ShopRepository puerto de persistencia para Shop.
type ShopRepository interface {
	// Create inserta la tienda; ErrDuplicate si external_shop_code ya existe en la empresa.
	Create(ctx context.Context, shop *entity.Shop) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Shop, error)
	List(ctx context.Context, companyID, q string) ([]*entity.Shop, error)
}

// AssignmentRepository puerto de persistencia para ShopAssignment.
type AssignmentRepository interface {
	List(ctx context.Context, companyID string) ([]*entity.ShopAssignment, error)
	// Upsert inserta o actualiza is_primary sobre (empresa, tienda, rep).
	Upsert(ctx context.Context, a *entity.ShopAssignment) error
	// ClearPrimary quita el primario a las demás asignaciones de la tienda.
	ClearPrimary(ctx context.Context, companyID, shopID, keepRepID string) error
	CountByRep(ctx context.Context, companyID, repID string) (int, error)
	// Reassign mueve todas las asignaciones de fromRep a toRep fusionando duplicados.
	Reassign(ctx context.Context, companyID, fromRep, toRep string) (int64, error)
}
