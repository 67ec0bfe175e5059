package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fieldsales-api/internal/application/dto"
	"github.com/jhoicas/fieldsales-api/internal/application/usecase"
)

// ProductHandler catálogo de productos con precios por ventana de tiempo.
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler de productos.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// List godoc
// @Summary  Listar productos con precio vigente
// @Tags     products
// @Param    q       query  string  false  "sku o nombre"
// @Param    status  query  string  false  "active|inactive"
// @Success  200     {array}  dto.ProductResponse
// @Router   /api/manager/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var in dto.ProductFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_QUERY", "parámetros inválidos")
	}
	out, err := h.uc.List(c.UserContext(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"products": out})
}

// Create godoc
// @Summary  Alta de producto (precio inicial opcional)
// @Tags     products
// @Accept   json
// @Param    body  body  dto.CreateProductRequest  true  "producto"
// @Success  201   {object}  dto.ProductResponse
// @Failure  409   {object}  dto.ErrorResponse
// @Router   /api/manager/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusCreated, fiber.Map{"product": out})
}

// Get godoc
// @Summary  Detalle de producto con historial de precios
// @Tags     products
// @Param    id  path  string  true  "product id"
// @Success  200  {object}  dto.ProductResponse
// @Failure  404  {object}  dto.ErrorResponse
// @Router   /api/manager/products/{id} [get]
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"product": out, "prices": out.PriceHistory})
}

// Update godoc
// @Summary      Editar producto
// @Description  Un cambio de precio cierra la ventana abierta y abre una nueva.
// @Tags         products
// @Accept       json
// @Param        id    path  string                    true  "product id"
// @Param        body  body  dto.UpdateProductRequest  true  "campos"
// @Success      200   {object}  dto.ProductResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/manager/products/{id} [patch]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"product": out})
}

// Delete godoc
// @Summary  Borrar producto (409 si hay pedidos que lo referencian)
// @Tags     products
// @Param    id  path  string  true  "product id"
// @Success  200
// @Failure  409  {object}  dto.ErrorResponse
// @Router   /api/manager/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"deleted": true})
}
