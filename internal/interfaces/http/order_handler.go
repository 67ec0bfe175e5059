package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fieldsales-api/internal/application/dto"
	"github.com/jhoicas/fieldsales-api/internal/application/orders"
)

// OrderHandler pedidos: alta, consulta, avance de estado, cancelación y PDF.
type OrderHandler struct {
	uc *orders.OrderUseCase
}

// NewOrderHandler construye el handler de pedidos.
func NewOrderHandler(uc *orders.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// List godoc
// @Summary  Listar pedidos (un rep solo ve los suyos)
// @Tags     orders
// @Produce  json
// @Param    status     query  string  false  "received|processing|shipped|closed|cancelled|all"
// @Param    q          query  string  false  "número, tienda o lead"
// @Param    date_from  query  string  false  "RFC3339 o YYYY-MM-DD"
// @Param    date_to    query  string  false  "RFC3339 o YYYY-MM-DD (día completo)"
// @Param    rep        query  string  false  "company user id"
// @Param    shop       query  string  false  "shop id"
// @Param    sort       query  string  false  "placed_at_desc|placed_at_asc"
// @Success  200        {array}  dto.OrderResponse
// @Failure  400        {object}  dto.ErrorResponse
// @Router   /api/manager/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var in dto.OrderFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_QUERY", "parámetros inválidos")
	}
	out, err := h.uc.List(c.UserContext(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"orders": out})
}

// Counts godoc
// @Summary  Cantidad de pedidos por estado
// @Tags     orders
// @Success  200  {object}  map[string]int
// @Router   /api/manager/orders/counts [get]
func (h *OrderHandler) Counts(c *fiber.Ctx) error {
	out, err := h.uc.Counts(c.UserContext(), GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"counts": out})
}

// Create godoc
// @Summary      Tomar un pedido
// @Description  Numera ORD-YYYYMMDD-NNNN por empresa y día; convierte el lead referenciado.
// @Tags         orders
// @Accept       json
// @Param        body  body  dto.CreateOrderRequest  true  "pedido"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/manager/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusCreated, fiber.Map{"order": out})
}

// Get godoc
// @Summary  Detalle de pedido con líneas
// @Tags     orders
// @Param    id  path  string  true  "order id"
// @Success  200  {object}  dto.OrderResponse
// @Failure  404  {object}  dto.ErrorResponse
// @Router   /api/manager/orders/{id} [get]
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"order": out})
}

// Update godoc
// @Summary  Avanzar estado un paso y/o editar notas
// @Tags     orders
// @Accept   json
// @Param    id    path  string                  true  "order id"
// @Param    body  body  dto.UpdateOrderRequest  true  "status, notes"
// @Success  200   {object}  dto.OrderResponse
// @Failure  400   {object}  dto.ErrorResponse
// @Failure  409   {object}  dto.ErrorResponse
// @Router   /api/manager/orders/{id} [patch]
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"order": out})
}

// Cancel godoc
// @Summary  Cancelar un pedido con motivo
// @Tags     orders
// @Accept   json
// @Param    id    path  string                  true  "order id"
// @Param    body  body  dto.CancelOrderRequest  true  "cancel_reason, cancel_note"
// @Success  200   {object}  dto.OrderResponse
// @Failure  400   {object}  dto.ErrorResponse
// @Router   /api/manager/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Cancel(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"order": out})
}

// PDF godoc
// @Summary  Descargar el pedido en PDF
// @Tags     orders
// @Produce  application/pdf
// @Param    id  path  string  true  "order id"
// @Success  200  {file}  file
// @Failure  404  {object}  dto.ErrorResponse
// @Router   /api/manager/orders/{id}/pdf [get]
func (h *OrderHandler) PDF(c *fiber.Ctx) error {
	b, filename, err := h.uc.PDF(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Status(fiber.StatusOK).Send(b)
}
