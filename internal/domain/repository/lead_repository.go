package repository

import (
	"context"

	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
)

// LeadFilter filtros del listado de leads. OwnedBy restringe a leads asignados o creados por ese miembro.
type LeadFilter struct {
	Q       string
	Status  entity.LeadStatus
	OwnedBy string
}

// LeadRepository puerto de persistencia para Lead.
type LeadRepository interface {
	Create(ctx context.Context, lead *entity.Lead) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Lead, error)
	// LockByID obtiene el lead con FOR UPDATE; solo dentro de una transacción.
	LockByID(ctx context.Context, companyID, id string) (*entity.Lead, error)
	List(ctx context.Context, companyID string, f LeadFilter) ([]*entity.Lead, error)
	Update(ctx context.Context, lead *entity.Lead) error
	// MarkConverted fija status=converted, shop_id y converted_at si era nulo.
	MarkConverted(ctx context.Context, companyID, id, shopID string) error
	// ConvertIfPending convierte el lead solo si aún no lo está (efecto de crear un pedido).
	ConvertIfPending(ctx context.Context, companyID, id string) (bool, error)
}
