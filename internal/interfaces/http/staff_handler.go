package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fieldsales-api/internal/application/dto"
	"github.com/jhoicas/fieldsales-api/internal/application/staff"
)

// StaffHandler gestión de miembros de la empresa.
type StaffHandler struct {
	uc *staff.StaffUseCase
}

// NewStaffHandler construye el handler de staff.
func NewStaffHandler(uc *staff.StaffUseCase) *StaffHandler {
	return &StaffHandler{uc: uc}
}

// List godoc
// @Summary  Listar staff con conteos por estado
// @Tags     staff
// @Produce  json
// @Param    q       query  string  false  "nombre, email o teléfono"
// @Param    status  query  string  false  "invited|active|inactive"
// @Param    role    query  string  false  "boss|manager|rep|back_office"
// @Success  200     {object}  dto.StaffListResponse
// @Router   /api/manager/staff [get]
func (h *StaffHandler) List(c *fiber.Ctx) error {
	var in dto.StaffFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_QUERY", "parámetros inválidos")
	}
	out, err := h.uc.List(c.UserContext(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{
		"staff":      out.Items,
		"counts":     out.Counts,
		"staffLimit": out.StaffLimit,
		"seatsTotal": out.SeatsTotal,
		"seatsUsed":  out.SeatsUsed,
	})
}

// Invite godoc
// @Summary      Invitar un miembro
// @Description  Respeta el límite de asientos de la empresa; envía credenciales y verificación por email.
// @Tags         staff
// @Accept       json
// @Param        body  body  dto.InviteStaffRequest  true  "datos del miembro"
// @Success      201   {object}  dto.StaffResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/manager/staff [post]
func (h *StaffHandler) Invite(c *fiber.Ctx) error {
	var in dto.InviteStaffRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Invite(c.UserContext(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusCreated, fiber.Map{"staff": out})
}

// Update godoc
// @Summary  Editar un miembro
// @Tags     staff
// @Accept   json
// @Param    id    path  string                  true  "company user id"
// @Param    body  body  dto.UpdateStaffRequest  true  "campos"
// @Success  200   {object}  dto.StaffResponse
// @Router   /api/manager/staff/{id} [patch]
func (h *StaffHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateStaffRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"staff": out})
}

// Activate godoc
// @Summary  Activar un miembro
// @Tags     staff
// @Param    id  path  string  true  "company user id"
// @Success  200  {object}  dto.StaffResponse
// @Router   /api/manager/staff/{id}/activate [post]
func (h *StaffHandler) Activate(c *fiber.Ctx) error {
	out, err := h.uc.Activate(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"staff": out})
}

// ResendInvite godoc
// @Summary  Reenviar invitación con nueva contraseña
// @Tags     staff
// @Param    id  path  string  true  "company user id"
// @Success  200
// @Router   /api/manager/staff/{id}/resend-invite [post]
func (h *StaffHandler) ResendInvite(c *fiber.Ctx) error {
	if err := h.uc.ResendInvite(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"message": "invitación reenviada"})
}

// Deactivate godoc
// @Summary      Dar de baja un miembro
// @Description  Si tiene tiendas asignadas exige un rep activo de reemplazo y las traspasa en la misma transacción.
// @Tags         staff
// @Accept       json
// @Param        id    path  string                      true  "company user id"
// @Param        body  body  dto.DeactivateStaffRequest  false "reassign_to_staff_id"
// @Success      200   {object}  dto.DeactivateStaffResponse
// @Router       /api/manager/staff/{id}/deactivate [post]
func (h *StaffHandler) Deactivate(c *fiber.Ctx) error {
	var in dto.DeactivateStaffRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.uc.Deactivate(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{
		"staff":           out.Staff,
		"reassignedShops": out.ReassignedShops,
		"reassignedTo":    out.ReassignedToUserID,
	})
}
