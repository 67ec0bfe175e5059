package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/fieldsales-api/internal/application/auth"
	"github.com/jhoicas/fieldsales-api/internal/application/dto"
	"github.com/jhoicas/fieldsales-api/internal/domain"
)

// errorMapping código HTTP y código de negocio por error de dominio. El orden importa:
// se usa el primero que coincide con errors.Is.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrInvalidTransition, fiber.StatusBadRequest, "INVALID_TRANSITION"},
	{domain.ErrAlreadyConverted, fiber.StatusBadRequest, "ALREADY_CONVERTED"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrStaffLimitReached, fiber.StatusForbidden, "STAFF_LIMIT_REACHED"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrEmailPasswordMismatch, fiber.StatusConflict, "EMAIL_PASSWORD_MISMATCH"},
}

// respondError traduce un error de caso de uso a {ok:false, error, code}.
// Los errores no mapeados responden 500 sin exponer el detalle.
func respondError(c *fiber.Ctx, err error) error {
	var expired *auth.SubscriptionExpiredError
	if errors.As(err, &expired) {
		return subscriptionExpired(c, expired.CompanyName)
	}
	var selection *auth.MembershipSelectionError
	if errors.As(err, &selection) {
		return c.Status(fiber.StatusConflict).JSON(dto.CompanySelectionResponse{
			Code:      "COMPANY_SELECTION_REQUIRED",
			Message:   "el usuario pertenece a varias empresas: indique companyId",
			Companies: selection.Companies,
		})
	}
	if errors.Is(err, domain.ErrSubscriptionExpired) {
		return subscriptionExpired(c, "")
	}
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			return fail(c, m.status, m.code, message(err, m.err))
		}
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
	return fail(c, fiber.StatusInternalServerError, "INTERNAL", "error interno")
}

// message quita el prefijo del sentinel ("datos inválidos: x" → "x") cuando hay detalle.
func message(err, sentinel error) string {
	msg := err.Error()
	if detail, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok && detail != "" {
		return detail
	}
	return msg
}

func subscriptionExpired(c *fiber.Ctx, companyName string) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.SubscriptionExpiredResponse{
		Code:                "SUBSCRIPTION_EXPIRED",
		Message:             "la suscripción de la empresa no está vigente",
		SubscriptionExpired: true,
		CompanyName:         companyName,
	})
}

func fail(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func badBody(c *fiber.Ctx) error {
	return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
}

// ok responde {ok:true, ...body}.
func ok(c *fiber.Ctx, status int, body fiber.Map) error {
	if body == nil {
		body = fiber.Map{}
	}
	body["ok"] = true
	return c.Status(status).JSON(body)
}
