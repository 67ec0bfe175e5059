package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fieldsales-api/internal/application/dto"
	"github.com/jhoicas/fieldsales-api/internal/application/usecase"
)

// ShopHandler tiendas y asignaciones de reps.
type ShopHandler struct {
	shops       *usecase.ShopUseCase
	assignments *usecase.AssignmentUseCase
}

// NewShopHandler construye el handler.
func NewShopHandler(shops *usecase.ShopUseCase, assignments *usecase.AssignmentUseCase) *ShopHandler {
	return &ShopHandler{shops: shops, assignments: assignments}
}

// List godoc
// @Summary  Listar tiendas
// @Tags     shops
// @Param    q  query  string  false  "nombre o código"
// @Success  200  {array}  dto.ShopResponse
// @Router   /api/manager/shops [get]
func (h *ShopHandler) List(c *fiber.Ctx) error {
	out, err := h.shops.List(c.UserContext(), GetActor(c), c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"shops": out})
}

// Create godoc
// @Summary  Alta de tienda
// @Tags     shops
// @Accept   json
// @Param    body  body  dto.CreateShopRequest  true  "tienda"
// @Success  201   {object}  dto.ShopResponse
// @Failure  409   {object}  dto.ErrorResponse
// @Router   /api/manager/shops [post]
func (h *ShopHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateShopRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.shops.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusCreated, fiber.Map{"shop": out})
}

// ListAssignments godoc
// @Summary  Listar asignaciones tienda-rep
// @Tags     shops
// @Success  200  {array}  dto.AssignmentResponse
// @Router   /api/manager/shop-assignments [get]
func (h *ShopHandler) ListAssignments(c *fiber.Ctx) error {
	out, err := h.assignments.List(c.UserContext(), GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"assignments": out})
}

// Assign godoc
// @Summary      Asignar un rep a una tienda
// @Description  Upsert por (tienda, rep); isPrimary desmarca las demás asignaciones primarias de la tienda.
// @Tags         shops
// @Accept       json
// @Param        body  body  dto.AssignShopRequest  true  "asignación"
// @Success      201   {object}  dto.AssignmentResponse
// @Router       /api/manager/shop-assignments [post]
func (h *ShopHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignShopRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.assignments.Assign(c.UserContext(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusCreated, fiber.Map{"assignment": out})
}
