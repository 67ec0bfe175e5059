package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/fieldsales-api/internal/application/dto"
	"github.com/jhoicas/fieldsales-api/internal/application/ports"
	"github.com/jhoicas/fieldsales-api/internal/domain"
	"github.com/jhoicas/fieldsales-api/internal/domain/access"
	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
	"github.com/jhoicas/fieldsales-api/internal/domain/repository"
)

// AssignmentUseCase asignación de reps a tiendas.
type AssignmentUseCase struct {
	repos repository.Repositories
	tx    repository.TxRunner
	now   ports.Clock
}

// NewAssignmentUseCase construye el caso de uso.
func NewAssignmentUseCase(repos repository.Repositories, tx repository.TxRunner) *AssignmentUseCase {
	return &AssignmentUseCase{repos: repos, tx: tx, now: ports.SystemClock}
}

// List asignaciones de la empresa.
func (uc *AssignmentUseCase) List(ctx context.Context, actor access.Actor) ([]dto.AssignmentResponse, error) {
	if err := guard(actor, access.AssignmentRead); err != nil {
		return nil, err
	}
	rows, err := uc.repos.Assignments.List(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AssignmentResponse, 0, len(rows))
	for _, a := range rows {
		out = append(out, ToAssignmentResponse(a))
	}
	return out, nil
}

// Assign crea o actualiza la asignación (empresa, tienda, rep). Marcarla primaria quita el primario
// a las demás asignaciones de la tienda en la misma transacción.
func (uc *AssignmentUseCase) Assign(ctx context.Context, actor access.Actor, in dto.AssignShopRequest) (*dto.AssignmentResponse, error) {
	if err := guard(actor, access.AssignmentWrite); err != nil {
		return nil, err
	}
	shopID, repID := strings.TrimSpace(in.ShopID), strings.TrimSpace(in.RepCompanyUserID)
	if shopID == "" || repID == "" {
		return nil, fmt.Errorf("%w: shopId y repCompanyUserId son obligatorios", domain.ErrInvalidInput)
	}
	a := &entity.ShopAssignment{
		ID:               uuid.New().String(),
		CompanyID:        actor.CompanyID,
		ShopID:           shopID,
		RepCompanyUserID: repID,
		IsPrimary:        in.IsPrimary,
		CreatedAt:        uc.now(),
	}
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		shop, err := repos.Shops.GetByID(ctx, actor.CompanyID, shopID)
		if err != nil {
			return err
		}
		if shop == nil {
			return fmt.Errorf("%w: tienda no encontrada", domain.ErrNotFound)
		}
		rep, err := repos.Memberships.GetByID(ctx, actor.CompanyID, repID)
		if err != nil {
			return err
		}
		if rep == nil || rep.Role != entity.RoleRep {
			return fmt.Errorf("%w: repCompanyUserId debe ser un rep de la empresa", domain.ErrInvalidInput)
		}
		if a.IsPrimary {
			if err := repos.Assignments.ClearPrimary(ctx, actor.CompanyID, shopID, repID); err != nil {
				return err
			}
		}
		a.ShopName = shop.Name
		return repos.Assignments.Upsert(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	resp := ToAssignmentResponse(a)
	return &resp, nil
}

// ToAssignmentResponse mapea la entidad ShopAssignment.
func ToAssignmentResponse(a *entity.ShopAssignment) dto.AssignmentResponse {
	return dto.AssignmentResponse{
		ID:               a.ID,
		ShopID:           a.ShopID,
		ShopName:         a.ShopName,
		RepCompanyUserID: a.RepCompanyUserID,
		RepName:          a.RepName,
		IsPrimary:        a.IsPrimary,
		CreatedAt:        a.CreatedAt,
	}
}
