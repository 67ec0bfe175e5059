// Package staff gestiona el personal de una empresa: invitaciones con control de asientos,
// edición, activación, reenvío de credenciales y baja con reasignación de tiendas.
package staff

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/fieldsales-api/internal/application/auth"
	"github.com/jhoicas/fieldsales-api/internal/application/dto"
	"github.com/jhoicas/fieldsales-api/internal/application/ports"
	"github.com/jhoicas/fieldsales-api/internal/domain"
	"github.com/jhoicas/fieldsales-api/internal/domain/access"
	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
	"github.com/jhoicas/fieldsales-api/internal/domain/repository"
	rules "github.com/jhoicas/fieldsales-api/internal/domain/staff"
	"github.com/jhoicas/fieldsales-api/pkg/logger"
)

// StaffUseCase casos de uso de personal.
type StaffUseCase struct {
	repos   repository.Repositories
	tx      repository.TxRunner
	mailer  ports.Mailer
	log     *logger.Logger
	baseURL string
	now     ports.Clock
}

// NewStaffUseCase construye el caso de uso. baseURL arma los enlaces de login y verificación.
func NewStaffUseCase(repos repository.Repositories, tx repository.TxRunner, mailer ports.Mailer, log *logger.Logger, baseURL string) *StaffUseCase {
	return &StaffUseCase{repos: repos, tx: tx, mailer: mailer, log: log.Named("staff"), baseURL: baseURL, now: ports.SystemClock}
}

// WithClock reemplaza la fuente de tiempo (tests).
func (uc *StaffUseCase) WithClock(c ports.Clock) *StaffUseCase {
	uc.now = c
	return uc
}

func guard(actor access.Actor, l access.AllowList) error {
	if !actor.Can(l) {
		return fmt.Errorf("%w: el rol %s no puede realizar esta operación", domain.ErrForbidden, actor.Role)
	}
	return nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" || len(email) > 255 {
		return "", fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	return email, nil
}

func validateFullName(v string) (string, error) {
	v = strings.TrimSpace(v)
	if n := len([]rune(v)); n < 2 || n > 120 {
		return "", fmt.Errorf("%w: fullName debe tener entre 2 y 120 caracteres", domain.ErrInvalidInput)
	}
	return v, nil
}

// List personal de la empresa con conteo por estado y ocupación de asientos.
func (uc *StaffUseCase) List(ctx context.Context, actor access.Actor, in dto.StaffFilterRequest) (*dto.StaffListResponse, error) {
	if err := guard(actor, access.StaffRead); err != nil {
		return nil, err
	}
	f := repository.StaffFilter{Q: strings.TrimSpace(in.Q)}
	if s := entity.MembershipStatus(strings.ToLower(in.Status)); s.Valid() {
		f.Status = s
	}
	if r := entity.Role(strings.ToLower(strings.TrimSpace(in.Role))); r.Valid() {
		f.Role = r
	}
	rows, err := uc.repos.Memberships.ListStaff(ctx, actor.CompanyID, f)
	if err != nil {
		return nil, err
	}
	counts, err := uc.repos.Memberships.CountByStatus(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	used, err := uc.repos.Memberships.CountByCompany(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	company, err := uc.repos.Companies.GetByID(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}

	out := &dto.StaffListResponse{
		Items:      make([]dto.StaffResponse, 0, len(rows)),
		Counts:     make(map[string]int, len(counts)),
		StaffLimit: company.StaffLimit,
		SeatsTotal: rules.TotalSeats(company.StaffLimit),
		SeatsUsed:  used,
	}
	for _, r := range rows {
		out.Items = append(out.Items, ToStaffResponse(r))
	}
	for s, n := range counts {
		out.Counts[string(s)] = n
	}
	return out, nil
}

// Invite da de alta un miembro en estado invited. El bloqueo de la fila de la empresa serializa
// invitaciones concurrentes, así el conteo de asientos no puede quedar obsoleto.
func (uc *StaffUseCase) Invite(ctx context.Context, actor access.Actor, in dto.InviteStaffRequest) (*dto.StaffResponse, error) {
	if err := guard(actor, access.StaffWrite); err != nil {
		return nil, err
	}
	fullName, err := validateFullName(in.FullName)
	if err != nil {
		return nil, err
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	phone, err := rules.NormalizePhone(in.Phone)
	if err != nil {
		return nil, err
	}
	role := entity.RoleRep
	if in.Role != "" {
		role = entity.Role(in.Role)
	}
	if !rules.InvitableRole(role) {
		return nil, fmt.Errorf("%w: role debe ser manager, rep o back_office", domain.ErrInvalidInput)
	}
	password, err := rules.GeneratePassword()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := uc.now()
	member := &entity.CompanyUser{
		ID:        uuid.New().String(),
		CompanyID: actor.CompanyID,
		Role:      role,
		Status:    entity.MembershipInvited,
		Phone:     phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	var companyName, verifyToken string
	err = uc.tx.Run(ctx, func(repos repository.Repositories) error {
		company, err := repos.Companies.LockByID(ctx, actor.CompanyID)
		if err != nil {
			return err
		}
		if company == nil {
			return domain.ErrNotFound
		}
		companyName = company.Name
		current, err := repos.Memberships.CountByCompany(ctx, actor.CompanyID)
		if err != nil {
			return err
		}
		if err := rules.CheckSeat(current, company.StaffLimit); err != nil {
			return err
		}
		if in.ManagerCompanyUserID != nil && *in.ManagerCompanyUserID != "" {
			if err := ensureManager(ctx, repos, actor.CompanyID, *in.ManagerCompanyUserID); err != nil {
				return err
			}
			member.ManagerCompanyUserID = in.ManagerCompanyUserID
		}

		user, err := repos.Users.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if user != nil {
			if err := repos.Users.UpdateCredentials(ctx, user.ID, fullName, string(hash)); err != nil {
				return err
			}
		} else {
			user = &entity.User{
				ID:           uuid.New().String(),
				Email:        email,
				PasswordHash: string(hash),
				FullName:     fullName,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := repos.Users.Create(ctx, user); err != nil {
				return err
			}
		}
		member.UserID = user.ID

		if err := repos.Memberships.Create(ctx, member); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return fmt.Errorf("%w: ya existe un miembro con ese email", domain.ErrDuplicate)
			}
			return err
		}
		verifyToken, err = auth.IssueVerification(ctx, repos.Tokens, user.ID, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.sendInvite(ctx, member.UserID, email, fullName, companyName, password, verifyToken)
	uc.log.Info().Str("company_id", actor.CompanyID).Str("company_user_id", member.ID).Str("role", string(role)).Msg("miembro invitado")

	staff, err := uc.repos.Memberships.GetStaff(ctx, actor.CompanyID, member.ID)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, domain.ErrNotFound
	}
	resp := ToStaffResponse(staff)
	return &resp, nil
}

func ensureManager(ctx context.Context, repos repository.Repositories, companyID, id string) error {
	ok, err := repos.Memberships.IsSupervisor(ctx, companyID, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: managerCompanyUserId no es boss ni manager de la empresa", domain.ErrInvalidInput)
	}
	return nil
}

// sendInvite encola credenciales y verificación. Los fallos solo se registran.
func (uc *StaffUseCase) sendInvite(ctx context.Context, userID, email, fullName, companyName, password, verifyToken string) {
	if err := uc.mailer.SendCredentials(ctx, email, fullName, companyName, password, auth.LoginLink(uc.baseURL)); err != nil {
		uc.log.Error().Err(err).Str("user_id", userID).Str("task", "credentials").Msg("no se pudo encolar el email")
	}
	if verifyToken == "" {
		return
	}
	if err := uc.mailer.SendVerification(ctx, email, fullName, auth.VerificationLink(uc.baseURL, verifyToken)); err != nil {
		uc.log.Error().Err(err).Str("user_id", userID).Str("task", "verification").Msg("no se pudo encolar el email")
	}
}

// Update edita datos del usuario y de la membresía en una transacción.
func (uc *StaffUseCase) Update(ctx context.Context, actor access.Actor, id string, in dto.UpdateStaffRequest) (*dto.StaffResponse, error) {
	if err := guard(actor, access.StaffWrite); err != nil {
		return nil, err
	}
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		m, err := repos.Memberships.GetByID(ctx, actor.CompanyID, id)
		if err != nil {
			return err
		}
		if m == nil {
			return fmt.Errorf("%w: miembro no encontrado", domain.ErrNotFound)
		}
		prevRole, prevStatus := m.Role, m.Status
		if in.FullName != nil {
			name, err := validateFullName(*in.FullName)
			if err != nil {
				return err
			}
			if err := repos.Users.UpdateFullName(ctx, m.UserID, name); err != nil {
				return err
			}
		}
		if in.Email != nil {
			email, err := normalizeEmail(*in.Email)
			if err != nil {
				return err
			}
			if err := repos.Users.UpdateEmail(ctx, m.UserID, email); err != nil {
				if errors.Is(err, domain.ErrDuplicate) {
					return fmt.Errorf("%w: el email ya está en uso", domain.ErrDuplicate)
				}
				return err
			}
		}
		if in.Role != nil {
			role := entity.Role(*in.Role)
			if !rules.InvitableRole(role) {
				return fmt.Errorf("%w: role debe ser manager, rep o back_office", domain.ErrInvalidInput)
			}
			m.Role = role
		}
		if in.Status != nil {
			status := entity.MembershipStatus(*in.Status)
			if !status.Valid() {
				return fmt.Errorf("%w: status inválido", domain.ErrInvalidInput)
			}
			m.Status = status
		}
		if err := ensureNoOrphanedShops(ctx, repos, actor.CompanyID, prevRole, prevStatus, m); err != nil {
			return err
		}
		if in.Phone != nil {
			phone, err := rules.NormalizePhone(*in.Phone)
			if err != nil {
				return err
			}
			m.Phone = phone
		}
		if in.ManagerCompanyUserID != nil {
			if *in.ManagerCompanyUserID == "" {
				m.ManagerCompanyUserID = nil
			} else {
				if err := ensureManager(ctx, repos, actor.CompanyID, *in.ManagerCompanyUserID); err != nil {
					return err
				}
				mgr := *in.ManagerCompanyUserID
				m.ManagerCompanyUserID = &mgr
			}
		}
		m.UpdatedAt = uc.now()
		return repos.Memberships.Update(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	return uc.get(ctx, actor.CompanyID, id)
}

// ensureNoOrphanedShops impide que un PATCH deje tiendas sin rep: dar de baja o quitar el rol rep
// a un miembro con asignaciones pasa por la acción de desactivación con reemplazo.
func ensureNoOrphanedShops(ctx context.Context, repos repository.Repositories, companyID string, prevRole entity.Role, prevStatus entity.MembershipStatus, m *entity.CompanyUser) error {
	leavesStatus := m.Status == entity.MembershipInactive && prevStatus != entity.MembershipInactive
	leavesRole := prevRole == entity.RoleRep && m.Role != entity.RoleRep
	if !leavesStatus && !leavesRole {
		return nil
	}
	assigned, err := repos.Assignments.CountByRep(ctx, companyID, m.ID)
	if err != nil {
		return err
	}
	if assigned > 0 {
		return fmt.Errorf("%w: el miembro tiene %d tiendas asignadas, use la acción deactivate con reassign_to_staff_id", domain.ErrInvalidInput, assigned)
	}
	return nil
}

func (uc *StaffUseCase) get(ctx context.Context, companyID, id string) (*dto.StaffResponse, error) {
	s, err := uc.repos.Memberships.GetStaff(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: miembro no encontrado", domain.ErrNotFound)
	}
	resp := ToStaffResponse(s)
	return &resp, nil
}

// Activate pasa el miembro a active.
func (uc *StaffUseCase) Activate(ctx context.Context, actor access.Actor, id string) (*dto.StaffResponse, error) {
	if err := guard(actor, access.StaffWrite); err != nil {
		return nil, err
	}
	ok, err := uc.repos.Memberships.SetStatus(ctx, actor.CompanyID, id, entity.MembershipActive)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: miembro no encontrado", domain.ErrNotFound)
	}
	return uc.get(ctx, actor.CompanyID, id)
}

// ResendInvite genera una contraseña nueva y reenvía credenciales y verificación.
func (uc *StaffUseCase) ResendInvite(ctx context.Context, actor access.Actor, id string) error {
	if err := guard(actor, access.StaffWrite); err != nil {
		return err
	}
	s, err := uc.repos.Memberships.GetStaff(ctx, actor.CompanyID, id)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("%w: miembro no encontrado", domain.ErrNotFound)
	}
	company, err := uc.repos.Companies.GetByID(ctx, actor.CompanyID)
	if err != nil {
		return err
	}
	if company == nil {
		return domain.ErrNotFound
	}
	password, err := rules.GeneratePassword()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	var verifyToken string
	err = uc.tx.Run(ctx, func(repos repository.Repositories) error {
		if err := repos.Users.UpdatePasswordHash(ctx, s.UserID, string(hash)); err != nil {
			return err
		}
		if s.EmailVerifiedAt != nil {
			return nil
		}
		var err error
		verifyToken, err = auth.IssueVerification(ctx, repos.Tokens, s.UserID, uc.now())
		return err
	})
	if err != nil {
		return err
	}
	uc.sendInvite(ctx, s.UserID, s.Email, s.FullName, company.Name, password, verifyToken)
	return nil
}

// Deactivate da de baja al miembro. Si tiene tiendas asignadas exige un rep activo que las reciba;
// la reasignación y el cambio de estado ocurren en la misma transacción.
func (uc *StaffUseCase) Deactivate(ctx context.Context, actor access.Actor, id string, in dto.DeactivateStaffRequest) (*dto.DeactivateStaffResponse, error) {
	if err := guard(actor, access.StaffWrite); err != nil {
		return nil, err
	}
	replacement := strings.TrimSpace(in.ReassignTo)
	var moved int64
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		m, err := repos.Memberships.GetByID(ctx, actor.CompanyID, id)
		if err != nil {
			return err
		}
		if m == nil {
			return fmt.Errorf("%w: miembro no encontrado", domain.ErrNotFound)
		}
		assigned, err := repos.Assignments.CountByRep(ctx, actor.CompanyID, id)
		if err != nil {
			return err
		}
		if assigned > 0 {
			if replacement == "" {
				return fmt.Errorf("%w: el miembro tiene %d tiendas asignadas, indique reassign_to_staff_id", domain.ErrInvalidInput, assigned)
			}
			if replacement == id {
				return fmt.Errorf("%w: no se puede reasignar al mismo miembro", domain.ErrInvalidInput)
			}
			ok, err := repos.Memberships.IsActiveRep(ctx, actor.CompanyID, replacement)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: reassign_to_staff_id debe ser un rep activo de la empresa", domain.ErrInvalidInput)
			}
			if moved, err = repos.Assignments.Reassign(ctx, actor.CompanyID, id, replacement); err != nil {
				return err
			}
		}
		_, err = repos.Memberships.SetStatus(ctx, actor.CompanyID, id, entity.MembershipInactive)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", actor.CompanyID).Str("company_user_id", id).Int64("reassigned", moved).Msg("miembro desactivado")

	staff, err := uc.get(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	out := &dto.DeactivateStaffResponse{Staff: *staff, ReassignedShops: moved}
	if moved > 0 {
		out.ReassignedToUserID = replacement
	}
	return out, nil
}

// ToStaffResponse mapea una fila del listado.
func ToStaffResponse(s *entity.StaffMember) dto.StaffResponse {
	return dto.StaffResponse{
		ID:                   s.CompanyUserID,
		UserID:               s.UserID,
		FullName:             s.FullName,
		Email:                s.Email,
		Role:                 string(s.Role),
		Status:               string(s.Status),
		Phone:                s.Phone,
		ManagerCompanyUserID: s.ManagerCompanyUserID,
		EmailVerifiedAt:      s.EmailVerifiedAt,
		LastLoginAt:          s.LastLoginAt,
		AssignedShopsCount:   s.AssignedShopsCount,
		CreatedAt:            s.CreatedAt,
	}
}
