package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fieldsales-api/internal/application/dto"
	"github.com/jhoicas/fieldsales-api/internal/application/usecase"
)

// LeadHandler prospectos y su conversión en tienda.
type LeadHandler struct {
	uc *usecase.LeadUseCase
}

// NewLeadHandler construye el handler de leads.
func NewLeadHandler(uc *usecase.LeadUseCase) *LeadHandler {
	return &LeadHandler{uc: uc}
}

// List godoc
// @Summary  Listar leads (un rep ve los asignados o creados por él)
// @Tags     leads
// @Param    q       query  string  false  "búsqueda"
// @Param    status  query  string  false  "estado"
// @Success  200     {array}  dto.LeadResponse
// @Router   /api/manager/leads [get]
func (h *LeadHandler) List(c *fiber.Ctx) error {
	var in dto.LeadFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_QUERY", "parámetros inválidos")
	}
	out, err := h.uc.List(c.UserContext(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"leads": out})
}

// Get godoc
// @Summary  Detalle de lead
// @Tags     leads
// @Param    id  path  string  true  "lead id"
// @Success  200  {object}  dto.LeadResponse
// @Failure  404  {object}  dto.ErrorResponse
// @Router   /api/manager/leads/{id} [get]
func (h *LeadHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"lead": out})
}

// Create godoc
// @Summary  Alta de lead
// @Tags     leads
// @Accept   json
// @Param    body  body  dto.CreateLeadRequest  true  "lead"
// @Success  201   {object}  dto.LeadResponse
// @Router   /api/manager/leads [post]
func (h *LeadHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLeadRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusCreated, fiber.Map{"lead": out})
}

// Update godoc
// @Summary  Editar lead
// @Tags     leads
// @Accept   json
// @Param    id    path  string                 true  "lead id"
// @Param    body  body  dto.UpdateLeadRequest  true  "campos"
// @Success  200   {object}  dto.LeadResponse
// @Router   /api/manager/leads/{id} [patch]
func (h *LeadHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateLeadRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"lead": out})
}

// Convert godoc
// @Summary  Convertir lead en tienda
// @Tags     leads
// @Accept   json
// @Param    id    path  string                  true   "lead id"
// @Param    body  body  dto.ConvertLeadRequest  false  "datos de la tienda"
// @Success  201   {object}  dto.ConvertLeadResponse
// @Failure  400   {object}  dto.ErrorResponse
// @Failure  403   {object}  dto.ErrorResponse
// @Router   /api/manager/leads/{id}/convert-to-shop [post]
func (h *LeadHandler) Convert(c *fiber.Ctx) error {
	var in dto.ConvertLeadRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.uc.ConvertToShop(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusCreated, fiber.Map{"lead": out.Lead, "shop": out.Shop})
}
