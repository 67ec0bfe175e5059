// Package platform casos de uso de la consola del boss: empresas, plan, suscripciones y
// alta de otros bosses. Todas las operaciones asumen una sesión de boss ya validada.
package platform

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/fieldsales-api/internal/application/auth"
	"github.com/jhoicas/fieldsales-api/internal/application/dto"
	"github.com/jhoicas/fieldsales-api/internal/application/ports"
	"github.com/jhoicas/fieldsales-api/internal/domain"
	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
	"github.com/jhoicas/fieldsales-api/internal/domain/repository"
	"github.com/jhoicas/fieldsales-api/internal/domain/subscription"
	"github.com/jhoicas/fieldsales-api/pkg/logger"
)

// Paginación del listado de empresas y cantidad de altas recientes.
const (
	defaultPageSize = 10
	minPageSize     = 5
	maxPageSize     = 50
	recentSignups   = 10
)

// CompanyUseCase administración de empresas desde la consola.
type CompanyUseCase struct {
	repos repository.Repositories
	tx    repository.TxRunner
	log   *logger.Logger
	now   ports.Clock
}

// NewCompanyUseCase construye el caso de uso.
func NewCompanyUseCase(repos repository.Repositories, tx repository.TxRunner, log *logger.Logger) *CompanyUseCase {
	return &CompanyUseCase{repos: repos, tx: tx, log: log.Named("platform"), now: ports.SystemClock}
}

// WithClock reemplaza la fuente de tiempo (tests).
func (uc *CompanyUseCase) WithClock(c ports.Clock) *CompanyUseCase {
	uc.now = c
	return uc
}

// List página de empresas con conteo de personal, totales globales y altas recientes.
func (uc *CompanyUseCase) List(ctx context.Context, in dto.CompanyListRequest) (*dto.CompanyListResponse, error) {
	page := in.PageRequest
	page.Clamp(defaultPageSize, minPageSize, maxPageSize)
	now := uc.now()

	rows, total, err := uc.repos.Companies.ListOverview(ctx, repository.CompanyFilter{
		Q:      strings.TrimSpace(in.Q),
		Limit:  page.Limit,
		Offset: page.Offset(),
	})
	if err != nil {
		return nil, err
	}
	totals, err := uc.repos.Companies.Totals(ctx, now)
	if err != nil {
		return nil, err
	}
	recent, err := uc.repos.Companies.Recent(ctx, recentSignups)
	if err != nil {
		return nil, err
	}

	out := &dto.CompanyListResponse{
		Items: make([]dto.CompanyOverviewResponse, 0, len(rows)),
		Page:  dto.NewPageResponse(page, total),
		Totals: dto.CompanyTotalsResponse{
			Companies:           totals.Companies,
			ActiveSubscription:  totals.ActiveSubscription,
			ExpiredSubscription: totals.ExpiredSubscription,
		},
		Recent: make([]dto.CompanyResponse, 0, len(recent)),
	}
	for _, r := range rows {
		out.Items = append(out.Items, dto.CompanyOverviewResponse{
			CompanyResponse:     auth.ToCompanyResponse(&r.Company),
			SubscriptionExpired: subscription.IsExpired(r.SubscriptionSuspended, r.SubscriptionEndsAt, now),
			StaffCounts: map[string]int{
				"total":                          r.StaffTotal,
				string(entity.MembershipActive):   r.StaffActive,
				string(entity.MembershipInactive): r.StaffInactive,
				string(entity.MembershipInvited):  r.StaffInvited,
			},
			ContactEmail: r.ContactEmail,
			ContactPhone: r.ContactPhone,
		})
	}
	for _, c := range recent {
		out.Recent = append(out.Recent, auth.ToCompanyResponse(c))
	}
	return out, nil
}

// UpdateStaffLimit fija los asientos contratados (0–500). No expulsa a nadie si queda por debajo
// del personal actual: solo bloquea nuevas invitaciones.
func (uc *CompanyUseCase) UpdateStaffLimit(ctx context.Context, companyID string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	if in.StaffLimit == nil {
		return nil, fmt.Errorf("%w: staffLimit es obligatorio", domain.ErrInvalidInput)
	}
	if err := subscription.ValidateStaffLimit(*in.StaffLimit); err != nil {
		return nil, err
	}
	ok, err := uc.repos.Companies.UpdateStaffLimit(ctx, companyID, *in.StaffLimit)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: empresa no encontrada", domain.ErrNotFound)
	}
	c, err := uc.repos.Companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: empresa no encontrada", domain.ErrNotFound)
	}
	resp := auth.ToCompanyResponse(c)
	return &resp, nil
}

// Subscription aplica una acción sobre la suscripción. Las extensiones se anclan en
// max(fin actual, ahora), levantan la suspensión y dejan un CompanyPayment en la misma transacción.
func (uc *CompanyUseCase) Subscription(ctx context.Context, bossID, companyID string, in dto.SubscriptionActionRequest) (*dto.SubscriptionActionResponse, error) {
	amountNotes, err := optional("amountNotes", in.AmountNotes, 500)
	if err != nil {
		return nil, err
	}
	notes, err := optional("notes", in.Notes, 2000)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	var out *dto.SubscriptionActionResponse

	err = uc.tx.Run(ctx, func(r repository.Repositories) error {
		company, err := r.Companies.LockByID(ctx, companyID)
		if err != nil {
			return err
		}
		if company == nil {
			return fmt.Errorf("%w: empresa no encontrada", domain.ErrNotFound)
		}
		out = &dto.SubscriptionActionResponse{
			CompanyID:             company.ID,
			SubscriptionEndsAt:    company.SubscriptionEndsAt,
			SubscriptionSuspended: company.SubscriptionSuspended,
		}

		payment := &entity.CompanyPayment{
			ID:               uuid.New().String(),
			CompanyID:        company.ID,
			AmountNotes:      amountNotes,
			RecordedByBossID: bossID,
			Notes:            notes,
			CreatedAt:        now,
		}
		endsAt := now
		switch in.Action {
		case dto.SubscriptionAddMonths:
			if payment.Kind, err = subscription.MonthsKind(in.Kind); err != nil {
				return err
			}
			if endsAt, err = subscription.ExtendMonths(company.SubscriptionEndsAt, now, in.Months); err != nil {
				return err
			}
			months := in.Months
			payment.MonthsAdded = &months
		case dto.SubscriptionAddDays:
			if payment.Kind, err = subscription.DaysKind(in.Kind); err != nil {
				return err
			}
			if endsAt, err = subscription.ExtendDays(company.SubscriptionEndsAt, now, in.Days); err != nil {
				return err
			}
			days := in.Days
			payment.DaysAdded = &days
		case dto.SubscriptionSuspend, dto.SubscriptionResume:
			suspended := in.Action == dto.SubscriptionSuspend
			if _, err := r.Companies.SetSuspended(ctx, company.ID, suspended); err != nil {
				return err
			}
			out.SubscriptionSuspended = suspended
			return nil
		default:
			return fmt.Errorf("%w: action debe ser add_months, add_days, suspend o resume", domain.ErrInvalidInput)
		}

		if err := r.Companies.ExtendSubscription(ctx, company.ID, endsAt); err != nil {
			return err
		}
		if err := r.Payments.Create(ctx, payment); err != nil {
			return err
		}
		out.SubscriptionEndsAt = &endsAt
		out.SubscriptionSuspended = false
		out.PaymentID = payment.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", companyID).Str("boss_id", bossID).Str("action", in.Action).
		Msg("suscripción actualizada")
	return out, nil
}

// Payments historial de extensiones de una empresa.
func (uc *CompanyUseCase) Payments(ctx context.Context, companyID string) ([]dto.PaymentResponse, error) {
	c, err := uc.repos.Companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: empresa no encontrada", domain.ErrNotFound)
	}
	list, err := uc.repos.Payments.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.PaymentResponse{
			ID:               p.ID,
			CompanyID:        p.CompanyID,
			MonthsAdded:      p.MonthsAdded,
			DaysAdded:        p.DaysAdded,
			Kind:             string(p.Kind),
			AmountNotes:      p.AmountNotes,
			RecordedByBossID: p.RecordedByBossID,
			Notes:            p.Notes,
			CreatedAt:        p.CreatedAt,
		})
	}
	return out, nil
}

func optional(field string, v *string, max int) (*string, error) {
	if v == nil {
		return nil, nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil, nil
	}
	if len([]rune(s)) > max {
		return nil, fmt.Errorf("%w: %s admite hasta %d caracteres", domain.ErrInvalidInput, field, max)
	}
	return &s, nil
}
