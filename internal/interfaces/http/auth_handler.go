package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fieldsales-api/internal/application/auth"
	"github.com/jhoicas/fieldsales-api/internal/application/dto"
	"github.com/jhoicas/fieldsales-api/internal/domain"
)

// AuthHandler alta de empresa, login y sesión de tenants.
type AuthHandler struct {
	uc      *auth.AuthUseCase
	cookies CookieConfig
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{uc: uc, cookies: cookies}
}

// SignupCompany godoc
// @Summary      Alta de empresa
// @Description  Crea la empresa, el primer usuario (boss o manager) y su membresía activa. Envía el email de verificación.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SignupCompanyRequest  true  "empresa y usuario"
// @Success      201   {object}  dto.SignupCompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/signup-company [post]
func (h *AuthHandler) SignupCompany(c *fiber.Ctx) error {
	var in dto.SignupCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.SignupCompany(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusCreated, fiber.Map{"company": out.Company, "user": out.User, "role": out.Role})
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  Con varias empresas activas y sin companyId responde 409 con las candidatas.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password, companyId opcional"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.SubscriptionExpiredResponse
// @Failure      409   {object}  dto.CompanySelectionResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	h.cookies.set(c, TenantCookie, out.Token, out.ExpiresAt)
	return ok(c, fiber.StatusOK, fiber.Map{
		"token":     out.Token,
		"expiresAt": out.ExpiresAt,
		"user":      out.User,
		"company":   out.Company,
		"role":      out.Role,
	})
}

// Logout godoc
// @Summary  Cerrar sesión
// @Tags     auth
// @Success  200
// @Router   /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.cookies.clear(c, TenantCookie)
	return ok(c, fiber.StatusOK, nil)
}

// VerifyEmail godoc
// @Summary  Verificar email
// @Tags     auth
// @Param    token  query  string  true  "token del enlace"
// @Success  302
// @Router   /api/auth/verify-email [get]
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return c.Redirect("/auth/login?error=missing_token", fiber.StatusFound)
	}
	if err := h.uc.VerifyEmail(c.UserContext(), token); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidInput) {
			return c.Redirect("/auth/login?error=invalid_or_expired_token", fiber.StatusFound)
		}
		return respondError(c, err)
	}
	return c.Redirect("/auth/login?verified=true", fiber.StatusFound)
}

// Me godoc
// @Summary   Sesión actual
// @Tags      auth
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  dto.MeResponse
// @Failure   401  {object}  dto.ErrorResponse
// @Failure   403  {object}  dto.SubscriptionExpiredResponse
// @Router    /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Me(c.UserContext(), GetSession(c))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{
		"user":          out.User,
		"company":       out.Company,
		"role":          out.Role,
		"companyUserId": out.CompanyUserID,
	})
}

// BossAuthHandler login de la consola de plataforma.
type BossAuthHandler struct {
	uc      *auth.BossAuthUseCase
	cookies CookieConfig
}

// NewBossAuthHandler construye el handler.
func NewBossAuthHandler(uc *auth.BossAuthUseCase, cookies CookieConfig) *BossAuthHandler {
	return &BossAuthHandler{uc: uc, cookies: cookies}
}

// Login godoc
// @Summary  Login de boss
// @Tags     boss
// @Accept   json
// @Produce  json
// @Param    body  body  dto.BossLoginRequest  true  "email, password"
// @Success  200   {object}  dto.BossLoginResponse
// @Failure  401   {object}  dto.ErrorResponse
// @Router   /api/boss/auth/login [post]
func (h *BossAuthHandler) Login(c *fiber.Ctx) error {
	var in dto.BossLoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	h.cookies.set(c, BossCookie, out.Token, out.ExpiresAt)
	return ok(c, fiber.StatusOK, fiber.Map{"token": out.Token, "expiresAt": out.ExpiresAt, "boss": out.Boss})
}

// Logout godoc
// @Summary  Logout de boss
// @Tags     boss
// @Success  200
// @Router   /api/boss/auth/logout [post]
func (h *BossAuthHandler) Logout(c *fiber.Ctx) error {
	h.cookies.clear(c, BossCookie)
	return ok(c, fiber.StatusOK, nil)
}

// Me godoc
// @Summary  Boss actual
// @Tags     boss
// @Produce  json
// @Success  200  {object}  dto.BossResponse
// @Failure  401  {object}  dto.ErrorResponse
// @Router   /api/boss/auth/me [get]
func (h *BossAuthHandler) Me(c *fiber.Ctx) error {
	return ok(c, fiber.StatusOK, fiber.Map{"boss": auth.ToBossResponse(GetBoss(c))})
}
