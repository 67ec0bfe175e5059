package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fieldsales-api/internal/application/dto"
	"github.com/jhoicas/fieldsales-api/internal/application/platform"
)

// BossHandler consola de plataforma: empresas, suscripciones y cuentas de boss.
type BossHandler struct {
	companies *platform.CompanyUseCase
	bosses    *platform.BossUseCase
}

// NewBossHandler construye el handler.
func NewBossHandler(companies *platform.CompanyUseCase, bosses *platform.BossUseCase) *BossHandler {
	return &BossHandler{companies: companies, bosses: bosses}
}

// ListCompanies godoc
// @Summary  Empresas con conteos de staff, totales y altas recientes
// @Tags     boss
// @Produce  json
// @Param    q      query  string  false  "búsqueda por nombre o slug"
// @Param    page   query  int     false  "página (1..)"
// @Param    limit  query  int     false  "5..50, por defecto 10"
// @Success  200    {object}  dto.CompanyListResponse
// @Router   /api/boss/companies [get]
func (h *BossHandler) ListCompanies(c *fiber.Ctx) error {
	var in dto.CompanyListRequest
	if err := c.QueryParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_QUERY", "parámetros inválidos")
	}
	out, err := h.companies.List(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{
		"companies": out.Items,
		"page":      out.Page,
		"totals":    out.Totals,
		"recent":    out.Recent,
	})
}

// UpdateCompany godoc
// @Summary  Cambiar el límite de staff
// @Tags     boss
// @Accept   json
// @Param    id    path  string                    true  "company id"
// @Param    body  body  dto.UpdateCompanyRequest  true  "staffLimit 0..500"
// @Success  200   {object}  dto.CompanyResponse
// @Failure  400   {object}  dto.ErrorResponse
// @Failure  404   {object}  dto.ErrorResponse
// @Router   /api/boss/companies/{id} [patch]
func (h *BossHandler) UpdateCompany(c *fiber.Ctx) error {
	var in dto.UpdateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.companies.UpdateStaffLimit(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"company": out, "staffLimit": out.StaffLimit})
}

// Subscription godoc
// @Summary      Extender, suspender o reanudar una suscripción
// @Description  add_months y add_days anclan en max(fin actual, ahora) y registran el pago en la misma transacción.
// @Tags         boss
// @Accept       json
// @Param        id    path  string                         true  "company id"
// @Param        body  body  dto.SubscriptionActionRequest  true  "acción"
// @Success      200   {object}  dto.SubscriptionActionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/boss/companies/{id}/subscription [post]
func (h *BossHandler) Subscription(c *fiber.Ctx) error {
	var in dto.SubscriptionActionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.companies.Subscription(c.UserContext(), GetBoss(c).ID, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"subscription": out})
}

// Payments godoc
// @Summary  Historial de extensiones de una empresa
// @Tags     boss
// @Param    id  path  string  true  "company id"
// @Success  200  {array}  dto.PaymentResponse
// @Router   /api/boss/companies/{id}/payments [get]
func (h *BossHandler) Payments(c *fiber.Ctx) error {
	out, err := h.companies.Payments(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"payments": out})
}

// ListBosses godoc
// @Summary  Cuentas de boss
// @Tags     boss
// @Success  200  {array}  dto.BossResponse
// @Router   /api/boss/bosses [get]
func (h *BossHandler) ListBosses(c *fiber.Ctx) error {
	out, err := h.bosses.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"bosses": out})
}

// CreateBoss godoc
// @Summary  Alta de boss
// @Tags     boss
// @Accept   json
// @Param    body  body  dto.CreateBossRequest  true  "email, fullName, password"
// @Success  201   {object}  dto.BossResponse
// @Failure  409   {object}  dto.ErrorResponse
// @Router   /api/boss/bosses [post]
func (h *BossHandler) CreateBoss(c *fiber.Ctx) error {
	var in dto.CreateBossRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.bosses.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusCreated, fiber.Map{"boss": out})
}

// UpdateBoss godoc
// @Summary  Editar boss (la contraseña solo la cambia el propio boss)
// @Tags     boss
// @Accept   json
// @Param    id    path  string                 true  "boss id"
// @Param    body  body  dto.UpdateBossRequest  true  "campos"
// @Success  200   {object}  dto.BossResponse
// @Failure  403   {object}  dto.ErrorResponse
// @Failure  409   {object}  dto.ErrorResponse
// @Router   /api/boss/bosses/{id} [patch]
func (h *BossHandler) UpdateBoss(c *fiber.Ctx) error {
	var in dto.UpdateBossRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.bosses.Update(c.UserContext(), GetBoss(c).ID, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"boss": out})
}

// DeleteBoss godoc
// @Summary  Baja de boss (no la propia)
// @Tags     boss
// @Param    id  path  string  true  "boss id"
// @Success  200
// @Failure  400  {object}  dto.ErrorResponse
// @Router   /api/boss/bosses/{id} [delete]
func (h *BossHandler) DeleteBoss(c *fiber.Ctx) error {
	if err := h.bosses.Delete(c.UserContext(), GetBoss(c).ID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"deleted": true})
}
