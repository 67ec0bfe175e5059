package repository

import (
	"context"

	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
)

// StaffFilter filtros del listado de personal; vacío = sin filtro.
type StaffFilter struct {
	Q      string
	Status entity.MembershipStatus
	Role   entity.Role
}

// MembershipRepository puerto de persistencia para CompanyUser.
type MembershipRepository interface {
	// Create inserta la membresía; ErrDuplicate si el usuario ya pertenece a la empresa.
	Create(ctx context.Context, m *entity.CompanyUser) error
	GetByID(ctx context.Context, companyID, id string) (*entity.CompanyUser, error)
	GetSession(ctx context.Context, companyID, companyUserID string) (*entity.SessionMembership, error)
	ListSessionsForUser(ctx context.Context, userID string) ([]*entity.SessionMembership, error)
	CountByCompany(ctx context.Context, companyID string) (int, error)
	CountByStatus(ctx context.Context, companyID string) (map[entity.MembershipStatus]int, error)
	ListStaff(ctx context.Context, companyID string, f StaffFilter) ([]*entity.StaffMember, error)
	GetStaff(ctx context.Context, companyID, id string) (*entity.StaffMember, error)
	// Update persiste rol, estado, teléfono y supervisor.
	Update(ctx context.Context, m *entity.CompanyUser) error
	SetStatus(ctx context.Context, companyID, id string, status entity.MembershipStatus) (bool, error)
	ActivateForUser(ctx context.Context, userID string) error
	// IsSupervisor indica si id es boss o manager de la empresa.
	IsSupervisor(ctx context.Context, companyID, id string) (bool, error)
	IsActiveRep(ctx context.Context, companyID, id string) (bool, error)
}
