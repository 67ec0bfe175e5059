package repository

import (
	"context"
	"time"

	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
)

// CompanyFilter búsqueda paginada de empresas (consola del boss).
type CompanyFilter struct {
	Q      string
	Limit  int
	Offset int
}

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	// LockByID obtiene la empresa con bloqueo de fila (FOR UPDATE); solo dentro de una transacción.
	LockByID(ctx context.Context, id string) (*entity.Company, error)
	UpdateStaffLimit(ctx context.Context, id string, staffLimit int) (bool, error)
	// ExtendSubscription fija el nuevo fin y levanta la suspensión.
	ExtendSubscription(ctx context.Context, id string, endsAt time.Time) error
	SetSuspended(ctx context.Context, id string, suspended bool) (bool, error)
	ListOverview(ctx context.Context, f CompanyFilter) ([]*entity.CompanyOverview, int, error)
	Totals(ctx context.Context, now time.Time) (entity.CompanyTotals, error)
	Recent(ctx context.Context, limit int) ([]*entity.Company, error)
}
