// Package subscription modela la vigencia de la suscripción de una empresa:
// predicado de vencimiento y extensiones ancladas en max(fin actual, ahora).
package subscription

import (
	"fmt"
	"time"

	"github.com/jhoicas/fieldsales-api/internal/domain"
	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
)

// Límites de las operaciones del boss.
const (
	MinMonths     = 1
	MaxMonths     = 120
	MinDays       = 1
	MaxDays       = 365
	MinStaffLimit = 0
	MaxStaffLimit = 500
)

// IsExpired vencida = suspendida, sin fecha de fin o con fin en el pasado.
func IsExpired(suspended bool, endsAt *time.Time, now time.Time) bool {
	return suspended || endsAt == nil || endsAt.Before(now)
}

// Anchor punto de partida de una extensión: el fin actual si es futuro, si no ahora.
// Así nunca se descarta tiempo ya pagado.
func Anchor(endsAt *time.Time, now time.Time) time.Time {
	if endsAt != nil && endsAt.After(now) {
		return *endsAt
	}
	return now
}

// ExtendMonths nuevo fin tras sumar months meses al ancla.
func ExtendMonths(endsAt *time.Time, now time.Time, months int) (time.Time, error) {
	if months < MinMonths || months > MaxMonths {
		return time.Time{}, fmt.Errorf("%w: months debe estar entre %d y %d", domain.ErrInvalidInput, MinMonths, MaxMonths)
	}
	return Anchor(endsAt, now).AddDate(0, months, 0), nil
}

// ExtendDays nuevo fin tras sumar days días al ancla.
func ExtendDays(endsAt *time.Time, now time.Time, days int) (time.Time, error) {
	if days < MinDays || days > MaxDays {
		return time.Time{}, fmt.Errorf("%w: days debe estar entre %d y %d", domain.ErrInvalidInput, MinDays, MaxDays)
	}
	return Anchor(endsAt, now).AddDate(0, 0, days), nil
}

// MonthsKind valida el tipo de una extensión por meses (por defecto payment).
func MonthsKind(kind string) (entity.PaymentKind, error) {
	switch entity.PaymentKind(kind) {
	case "":
		return entity.PaymentKindPayment, nil
	case entity.PaymentKindPayment, entity.PaymentKindComplimentary:
		return entity.PaymentKind(kind), nil
	}
	return "", fmt.Errorf("%w: kind debe ser payment o complimentary", domain.ErrInvalidInput)
}

// DaysKind valida el tipo de una extensión por días (por defecto grace).
func DaysKind(kind string) (entity.PaymentKind, error) {
	switch entity.PaymentKind(kind) {
	case "":
		return entity.PaymentKindGrace, nil
	case entity.PaymentKindGrace, entity.PaymentKindComplimentary:
		return entity.PaymentKind(kind), nil
	}
	return "", fmt.Errorf("%w: kind debe ser grace o complimentary", domain.ErrInvalidInput)
}

// ValidateStaffLimit acota el tamaño del plan.
func ValidateStaffLimit(limit int) error {
	if limit < MinStaffLimit || limit > MaxStaffLimit {
		return fmt.Errorf("%w: staffLimit debe estar entre %d y %d", domain.ErrInvalidInput, MinStaffLimit, MaxStaffLimit)
	}
	return nil
}
