package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/fieldsales-api/internal/application/dto"
	"github.com/jhoicas/fieldsales-api/internal/application/ports"
	"github.com/jhoicas/fieldsales-api/internal/domain"
	"github.com/jhoicas/fieldsales-api/internal/domain/access"
	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
	"github.com/jhoicas/fieldsales-api/internal/domain/repository"
	"github.com/jhoicas/fieldsales-api/internal/domain/staff"
	"github.com/jhoicas/fieldsales-api/internal/domain/subscription"
	"github.com/jhoicas/fieldsales-api/pkg/jwt"
	"github.com/jhoicas/fieldsales-api/pkg/logger"
	"github.com/jhoicas/fieldsales-api/pkg/slug"
)

// Config sesión de tenant y datos para armar enlaces.
type Config struct {
	Secret     string
	Issuer     string
	TTLMinutes int
	BaseURL    string
	TrialDays  int
}

// Session identidad resuelta de una petición de tenant.
type Session struct {
	Actor              access.Actor
	FullName           string
	Email              string
	CompanyName        string
	CompanySlug        string
	StaffLimit         int
	SubscriptionEndsAt *time.Time
}

// AuthUseCase casos de uso de autenticación de tenants: alta, login, verificación y sesión.
type AuthUseCase struct {
	repos  repository.Repositories
	tx     repository.TxRunner
	mailer ports.Mailer
	log    *logger.Logger
	cfg    Config
	now    ports.Clock
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(repos repository.Repositories, tx repository.TxRunner, mailer ports.Mailer, log *logger.Logger, cfg Config) *AuthUseCase {
	return &AuthUseCase{repos: repos, tx: tx, mailer: mailer, log: log.Named("auth"), cfg: cfg, now: ports.SystemClock}
}

// WithClock reemplaza la fuente de tiempo (tests).
func (uc *AuthUseCase) WithClock(c ports.Clock) *AuthUseCase {
	uc.now = c
	return uc
}

// MinPasswordLength largo mínimo de contraseña elegida por el usuario.
const MinPasswordLength = 8

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

func validateName(field, v string, min, max int) (string, error) {
	v = strings.TrimSpace(v)
	if n := len([]rune(v)); n < min || n > max {
		return "", fmt.Errorf("%w: %s debe tener entre %d y %d caracteres", domain.ErrInvalidInput, field, min, max)
	}
	return v, nil
}

// SignupCompany crea empresa + usuario (o reutiliza uno existente con la misma contraseña) + membresía
// activa en una sola transacción y encola la verificación de email tras el commit.
func (uc *AuthUseCase) SignupCompany(ctx context.Context, in dto.SignupCompanyRequest) (*dto.SignupCompanyResponse, error) {
	companyName, err := validateName("companyName", in.CompanyName, 2, 120)
	if err != nil {
		return nil, err
	}
	fullName, err := validateName("fullName", in.FullName, 2, 120)
	if err != nil {
		return nil, err
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if len(in.Password) < MinPasswordLength || len(in.Password) > 128 {
		return nil, fmt.Errorf("%w: la contraseña debe tener entre %d y 128 caracteres", domain.ErrInvalidInput, MinPasswordLength)
	}
	role := entity.RoleManager
	if in.Role != "" {
		role = entity.Role(in.Role)
		if role != entity.RoleBoss && role != entity.RoleManager {
			return nil, fmt.Errorf("%w: role debe ser boss o manager", domain.ErrInvalidInput)
		}
	}
	var phone string
	if strings.TrimSpace(in.Phone) != "" {
		if phone, err = staff.NormalizePhone(in.Phone); err != nil {
			return nil, err
		}
	}
	companySlug := slug.Make(in.CompanySlug)
	if companySlug == "" {
		companySlug = slug.Make(companyName)
	}
	now := uc.now()
	if companySlug == "" {
		companySlug = fmt.Sprintf("company-%d", now.UnixMilli())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	company := &entity.Company{
		ID:         uuid.New().String(),
		Name:       companyName,
		Slug:       companySlug,
		Status:     entity.CompanyStatusActive,
		Plan:       "trial",
		Address:    strings.TrimSpace(in.Address),
		StaffLimit: entity.DefaultStaffLimit,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if uc.cfg.TrialDays > 0 {
		ends := now.AddDate(0, 0, uc.cfg.TrialDays)
		company.SubscriptionEndsAt = &ends
	}

	var user *entity.User
	var verifyToken string
	err = uc.tx.Run(ctx, func(repos repository.Repositories) error {
		if err := repos.Companies.Create(ctx, company); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return fmt.Errorf("%w: el slug %q ya está en uso", domain.ErrDuplicate, companySlug)
			}
			return err
		}

		existing, err := repos.Users.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			if bcrypt.CompareHashAndPassword([]byte(existing.PasswordHash), []byte(in.Password)) != nil {
				return domain.ErrEmailPasswordMismatch
			}
			user = existing
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

		if err := repos.Memberships.Create(ctx, &entity.CompanyUser{
			ID:        uuid.New().String(),
			CompanyID: company.ID,
			UserID:    user.ID,
			Role:      role,
			Status:    entity.MembershipActive,
			Phone:     phone,
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return err
		}

		if user.EmailVerifiedAt == nil {
			verifyToken, err = IssueVerification(ctx, repos.Tokens, user.ID, now)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if verifyToken != "" {
		if err := uc.mailer.SendVerification(ctx, user.Email, user.FullName, VerificationLink(uc.cfg.BaseURL, verifyToken)); err != nil {
			uc.log.Error().Err(err).Str("user_id", user.ID).Msg("no se pudo encolar el email de verificación")
		}
	}
	uc.log.Info().Str("company_id", company.ID).Str("slug", company.Slug).Msg("empresa registrada")

	return &dto.SignupCompanyResponse{
		Company: ToCompanyResponse(company),
		User:    ToUserResponse(user),
		Role:    string(role),
	}, nil
}

// Login verifica credenciales, elige la membresía y emite el token de sesión.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email y password son obligatorios", domain.ErrInvalidInput)
	}
	user, err := uc.repos.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	all, err := uc.repos.Memberships.ListSessionsForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	var usable []*entity.SessionMembership
	for _, m := range all {
		if m.Status == entity.MembershipActive && m.CompanyStatus == entity.CompanyStatusActive {
			usable = append(usable, m)
		}
	}

	var chosen *entity.SessionMembership
	switch {
	case len(usable) == 0:
		return nil, fmt.Errorf("%w: el usuario no tiene membresías activas", domain.ErrUnauthorized)
	case in.CompanyID != "":
		for _, m := range usable {
			if m.CompanyID == in.CompanyID {
				chosen = m
				break
			}
		}
		if chosen == nil {
			return nil, fmt.Errorf("%w: sin membresía activa en esa empresa", domain.ErrUnauthorized)
		}
	case len(usable) == 1:
		chosen = usable[0]
	default:
		choices := make([]dto.CompanyChoice, 0, len(usable))
		for _, m := range usable {
			choices = append(choices, dto.CompanyChoice{
				CompanyID: m.CompanyID, CompanyName: m.CompanyName, CompanySlug: m.CompanySlug, Role: string(m.Role),
			})
		}
		return nil, &MembershipSelectionError{Companies: choices}
	}

	now := uc.now()
	if subscription.IsExpired(chosen.SubscriptionSuspended, chosen.SubscriptionEndsAt, now) {
		return nil, &SubscriptionExpiredError{CompanyName: chosen.CompanyName}
	}

	token, err := jwt.GenerateTenant(uc.cfg.Secret, uc.cfg.Issuer, uc.cfg.TTLMinutes, user.ID, chosen.CompanyID, chosen.CompanyUserID)
	if err != nil {
		return nil, fmt.Errorf("generar token: %w", err)
	}
	if err := uc.repos.Users.TouchLastLogin(ctx, user.ID, now); err != nil {
		uc.log.Warn().Err(err).Str("user_id", user.ID).Msg("no se pudo actualizar last_login_at")
	}
	user.LastLoginAt = &now

	company, err := uc.repos.Companies.GetByID(ctx, chosen.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrUnauthorized
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: now.Add(time.Duration(uc.cfg.TTLMinutes) * time.Minute),
		User:      ToUserResponse(user),
		Company:   ToCompanyResponse(company),
		Role:      string(chosen.Role),
	}, nil
}

// VerifyEmail consume el token, marca el email como verificado y activa las membresías invitadas.
func (uc *AuthUseCase) VerifyEmail(ctx context.Context, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("%w: falta el token", domain.ErrInvalidInput)
	}
	now := uc.now()
	return uc.tx.Run(ctx, func(repos repository.Repositories) error {
		userID, err := repos.Tokens.Consume(ctx, HashToken(raw), entity.TokenPurposeEmailVerify, now)
		if err != nil {
			return err
		}
		if userID == "" {
			return fmt.Errorf("%w: token inválido o vencido", domain.ErrNotFound)
		}
		if err := repos.Users.MarkEmailVerified(ctx, userID, now); err != nil {
			return err
		}
		return repos.Memberships.ActivateForUser(ctx, userID)
	})
}

// Resolve valida el token y recarga membresía, empresa y suscripción en cada petición.
func (uc *AuthUseCase) Resolve(ctx context.Context, token string) (*Session, error) {
	claims, err := jwt.ParseTenant(uc.cfg.Secret, token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	m, err := uc.repos.Memberships.GetSession(ctx, claims.CompanyID, claims.CompanyUserID)
	if err != nil {
		return nil, err
	}
	if m == nil || m.UserID != claims.UserID ||
		m.Status != entity.MembershipActive || m.CompanyStatus != entity.CompanyStatusActive {
		return nil, domain.ErrUnauthorized
	}
	if subscription.IsExpired(m.SubscriptionSuspended, m.SubscriptionEndsAt, uc.now()) {
		return nil, &SubscriptionExpiredError{CompanyName: m.CompanyName}
	}
	return &Session{
		Actor: access.Actor{
			UserID:        m.UserID,
			CompanyID:     m.CompanyID,
			CompanyUserID: m.CompanyUserID,
			Role:          m.Role,
		},
		FullName:           m.FullName,
		Email:              m.Email,
		CompanyName:        m.CompanyName,
		CompanySlug:        m.CompanySlug,
		StaffLimit:         m.StaffLimit,
		SubscriptionEndsAt: m.SubscriptionEndsAt,
	}, nil
}

// Me datos de usuario y empresa de la sesión.
func (uc *AuthUseCase) Me(ctx context.Context, s *Session) (*dto.MeResponse, error) {
	user, err := uc.repos.Users.GetByID(ctx, s.Actor.UserID)
	if err != nil {
		return nil, err
	}
	company, err := uc.repos.Companies.GetByID(ctx, s.Actor.CompanyID)
	if err != nil {
		return nil, err
	}
	if user == nil || company == nil {
		return nil, domain.ErrUnauthorized
	}
	return &dto.MeResponse{
		User:          ToUserResponse(user),
		Company:       ToCompanyResponse(company),
		Role:          string(s.Actor.Role),
		CompanyUserID: s.Actor.CompanyUserID,
	}, nil
}

// ToUserResponse mapea la entidad sin exponer el hash.
func ToUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		FullName:        u.FullName,
		EmailVerifiedAt: u.EmailVerifiedAt,
		LastLoginAt:     u.LastLoginAt,
	}
}

// ToCompanyResponse mapea la entidad Company.
func ToCompanyResponse(c *entity.Company) dto.CompanyResponse {
	return dto.CompanyResponse{
		ID:                    c.ID,
		Name:                  c.Name,
		Slug:                  c.Slug,
		Status:                c.Status,
		Plan:                  c.Plan,
		Address:               c.Address,
		StaffLimit:            c.StaffLimit,
		SubscriptionEndsAt:    c.SubscriptionEndsAt,
		SubscriptionSuspended: c.SubscriptionSuspended,
		CreatedAt:             c.CreatedAt,
	}
}
