package repository

import (
	"context"

	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
)

// BossRepository puerto de persistencia para Boss.
type BossRepository interface {
	// Create inserta el boss; ErrDuplicate si el email ya existe.
	Create(ctx context.Context, boss *entity.Boss) error
	GetByID(ctx context.Context, id string) (*entity.Boss, error)
	GetByEmail(ctx context.Context, email string) (*entity.Boss, error)
	List(ctx context.Context) ([]*entity.Boss, error)
	Update(ctx context.Context, boss *entity.Boss) error
	Delete(ctx context.Context, id string) (bool, error)
}

// PaymentRepository auditoría de extensiones de suscripción.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.CompanyPayment) error
	ListByCompany(ctx context.Context, companyID string) ([]*entity.CompanyPayment, error)
}
