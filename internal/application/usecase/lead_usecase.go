package usecase

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/fieldsales-api/internal/application/dto"
	"github.com/jhoicas/fieldsales-api/internal/application/ports"
	"github.com/jhoicas/fieldsales-api/internal/domain"
	"github.com/jhoicas/fieldsales-api/internal/domain/access"
	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
	"github.com/jhoicas/fieldsales-api/internal/domain/repository"
)

// LeadUseCase prospectos y su conversión en tienda. Un rep solo opera sobre leads asignados
// a él o creados por él.
type LeadUseCase struct {
	repos repository.Repositories
	tx    repository.TxRunner
	now   ports.Clock
}

// NewLeadUseCase construye el caso de uso.
func NewLeadUseCase(repos repository.Repositories, tx repository.TxRunner) *LeadUseCase {
	return &LeadUseCase{repos: repos, tx: tx, now: ports.SystemClock}
}

// List leads de la empresa; para un rep, solo los propios.
func (uc *LeadUseCase) List(ctx context.Context, actor access.Actor, in dto.LeadFilterRequest) ([]dto.LeadResponse, error) {
	if err := guard(actor, access.LeadAccess); err != nil {
		return nil, err
	}
	f := repository.LeadFilter{Q: strings.TrimSpace(in.Q)}
	if s := entity.LeadStatus(strings.ToLower(in.Status)); s.Valid() {
		f.Status = s
	}
	if actor.Role == entity.RoleRep {
		f.OwnedBy = actor.CompanyUserID
	}
	leads, err := uc.repos.Leads.List(ctx, actor.CompanyID, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LeadResponse, 0, len(leads))
	for _, l := range leads {
		out = append(out, ToLeadResponse(l))
	}
	return out, nil
}

// Get lead por id con control de propiedad.
func (uc *LeadUseCase) Get(ctx context.Context, actor access.Actor, id string) (*dto.LeadResponse, error) {
	if err := guard(actor, access.LeadAccess); err != nil {
		return nil, err
	}
	lead, err := uc.load(ctx, uc.repos.Leads.GetByID, actor, id)
	if err != nil {
		return nil, err
	}
	resp := ToLeadResponse(lead)
	return &resp, nil
}

func (uc *LeadUseCase) load(ctx context.Context, get func(context.Context, string, string) (*entity.Lead, error), actor access.Actor, id string) (*entity.Lead, error) {
	lead, err := get(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, fmt.Errorf("%w: lead no encontrado", domain.ErrNotFound)
	}
	if !access.OwnsLead(actor.Role, actor.CompanyUserID, lead) {
		return nil, fmt.Errorf("%w: solo puede operar sobre leads asignados a usted o creados por usted", domain.ErrForbidden)
	}
	return lead, nil
}

// Create alta de lead. Un rep queda como creador y como rep asignado.
func (uc *LeadUseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateLeadRequest) (*dto.LeadResponse, error) {
	if err := guard(actor, access.LeadAccess); err != nil {
		return nil, err
	}
	now := uc.now()
	creator := actor.CompanyUserID
	lead := &entity.Lead{
		ID:                     uuid.New().String(),
		CompanyID:              actor.CompanyID,
		Status:                 entity.LeadNew,
		CreatedByCompanyUserID: &creator,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	patch := dto.UpdateLeadRequest{
		Name:                     &in.Name,
		ContactName:              &in.ContactName,
		Phone:                    &in.Phone,
		Email:                    &in.Email,
		Address:                  &in.Address,
		Notes:                    &in.Notes,
		AssignedRepCompanyUserID: in.AssignedRepCompanyUserID,
	}
	if in.Status != "" {
		patch.Status = &in.Status
	}
	if err := uc.apply(ctx, uc.repos, actor, lead, patch); err != nil {
		return nil, err
	}
	if actor.Role == entity.RoleRep && lead.AssignedRepCompanyUserID == nil {
		lead.AssignedRepCompanyUserID = &creator
	}
	if err := uc.repos.Leads.Create(ctx, lead); err != nil {
		return nil, err
	}
	resp := ToLeadResponse(lead)
	return &resp, nil
}

// Update edita el lead; solo los campos presentes.
func (uc *LeadUseCase) Update(ctx context.Context, actor access.Actor, id string, in dto.UpdateLeadRequest) (*dto.LeadResponse, error) {
	if err := guard(actor, access.LeadAccess); err != nil {
		return nil, err
	}
	var lead *entity.Lead
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		var err error
		if lead, err = uc.load(ctx, repos.Leads.LockByID, actor, id); err != nil {
			return err
		}
		if err := uc.apply(ctx, repos, actor, lead, in); err != nil {
			return err
		}
		lead.UpdatedAt = uc.now()
		return repos.Leads.Update(ctx, lead)
	})
	if err != nil {
		return nil, err
	}
	resp := ToLeadResponse(lead)
	return &resp, nil
}

// apply valida y aplica los campos presentes de in sobre lead.
func (uc *LeadUseCase) apply(ctx context.Context, repos repository.Repositories, actor access.Actor, lead *entity.Lead, in dto.UpdateLeadRequest) error {
	var err error
	if in.Name != nil {
		if lead.Name, err = text("name", *in.Name, 2, 150); err != nil {
			return err
		}
	}
	if in.ContactName != nil {
		if lead.ContactName, err = text("contactName", *in.ContactName, 0, 120); err != nil {
			return err
		}
	}
	if in.Phone != nil {
		if lead.Phone, err = text("phone", *in.Phone, 0, 30); err != nil {
			return err
		}
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != "" {
			if _, err := mail.ParseAddress(email); err != nil || len(email) > 255 {
				return fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
			}
		}
		lead.Email = email
	}
	if in.Address != nil {
		if lead.Address, err = text("address", *in.Address, 0, 500); err != nil {
			return err
		}
	}
	if in.Notes != nil {
		if lead.Notes, err = text("notes", *in.Notes, 0, 2000); err != nil {
			return err
		}
	}
	if in.Status != nil {
		status := entity.LeadStatus(strings.ToLower(*in.Status))
		if !status.Valid() {
			return fmt.Errorf("%w: status inválido", domain.ErrInvalidInput)
		}
		if status == entity.LeadConverted && lead.Status != entity.LeadConverted {
			return fmt.Errorf("%w: un lead se convierte creando su tienda o un pedido", domain.ErrInvalidInput)
		}
		lead.Status = status
	}
	if in.AssignedRepCompanyUserID != nil {
		repID := strings.TrimSpace(*in.AssignedRepCompanyUserID)
		switch {
		case repID == "":
			lead.AssignedRepCompanyUserID = nil
		case actor.Role == entity.RoleRep && repID != actor.CompanyUserID:
			return fmt.Errorf("%w: un rep solo puede asignarse leads a sí mismo", domain.ErrForbidden)
		default:
			rep, err := repos.Memberships.GetByID(ctx, actor.CompanyID, repID)
			if err != nil {
				return err
			}
			if rep == nil || rep.Role != entity.RoleRep {
				return fmt.Errorf("%w: assignedRepCompanyUserId debe ser un rep de la empresa", domain.ErrInvalidInput)
			}
			lead.AssignedRepCompanyUserID = &repID
		}
	}
	if lead.Name == "" {
		return fmt.Errorf("%w: name es obligatorio", domain.ErrInvalidInput)
	}
	return nil
}

// ConvertToShop crea la tienda del lead y lo marca convertido en una sola transacción.
// Sin coordenadas se usan las de la oficina central.
func (uc *LeadUseCase) ConvertToShop(ctx context.Context, actor access.Actor, id string, in dto.ConvertLeadRequest) (*dto.ConvertLeadResponse, error) {
	if err := guard(actor, access.LeadAccess); err != nil {
		return nil, err
	}
	var lead *entity.Lead
	var shop *entity.Shop
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		var err error
		if lead, err = uc.load(ctx, repos.Leads.LockByID, actor, id); err != nil {
			return err
		}
		if lead.AlreadyConverted() {
			return domain.ErrAlreadyConverted
		}
		lat, lng := entity.DefaultLatitude, entity.DefaultLongitude
		if in.Latitude != nil {
			lat = *in.Latitude
		}
		if in.Longitude != nil {
			lng = *in.Longitude
		}
		name := in.Name
		if strings.TrimSpace(name) == "" {
			name = lead.Name
		}
		shop, err = NewShop(actor.CompanyID, dto.CreateShopRequest{
			ExternalShopCode: in.ExternalShopCode,
			Name:             name,
			ContactName:      lead.ContactName,
			Phone:            lead.Phone,
			Address:          lead.Address,
			Notes:            lead.Notes,
			Latitude:         &lat,
			Longitude:        &lng,
			GeofenceRadiusM:  in.GeofenceRadiusM,
		}, uc.now())
		if err != nil {
			return err
		}
		if err := repos.Shops.Create(ctx, shop); err != nil {
			return err
		}
		if err := repos.Leads.MarkConverted(ctx, actor.CompanyID, lead.ID, shop.ID); err != nil {
			return err
		}
		lead, err = repos.Leads.GetByID(ctx, actor.CompanyID, lead.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.ConvertLeadResponse{Lead: ToLeadResponse(lead), Shop: ToShopResponse(shop)}, nil
}

// ToLeadResponse mapea la entidad Lead.
func ToLeadResponse(l *entity.Lead) dto.LeadResponse {
	return dto.LeadResponse{
		ID:                       l.ID,
		ShopID:                   l.ShopID,
		Name:                     l.Name,
		ContactName:              l.ContactName,
		Phone:                    l.Phone,
		Email:                    l.Email,
		Address:                  l.Address,
		Notes:                    l.Notes,
		Status:                   string(l.Status),
		AssignedRepCompanyUserID: l.AssignedRepCompanyUserID,
		CreatedByCompanyUserID:   l.CreatedByCompanyUserID,
		ConvertedAt:              l.ConvertedAt,
		CreatedAt:                l.CreatedAt,
		UpdatedAt:                l.UpdatedAt,
	}
}
