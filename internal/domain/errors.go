package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrDuplicate             = errors.New("recurso duplicado")
	ErrUnauthorized          = errors.New("no autorizado")
	ErrInvalidCredentials    = errors.New("credenciales inválidas")
	ErrForbidden             = errors.New("acceso denegado")
	ErrConflict              = errors.New("conflicto con el estado actual")
	ErrInvalidTransition     = errors.New("transición de estado inválida")
	ErrAlreadyConverted      = errors.New("el lead ya fue convertido")
	ErrStaffLimitReached     = errors.New("límite de personal alcanzado")
	ErrSubscriptionExpired   = errors.New("suscripción vencida o suspendida")
	ErrEmailPasswordMismatch = errors.New("el email ya está registrado con otra contraseña")
	ErrMembershipSelection   = errors.New("el usuario pertenece a varias empresas")
)
