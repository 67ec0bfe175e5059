// Package order contiene la máquina de estados del pedido, la numeración diaria
// y el cálculo de totales.
package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fieldsales-api/internal/domain"
	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
)

// forward un único paso hacia adelante por estado.
var forward = map[entity.OrderStatus]entity.OrderStatus{
	entity.OrderReceived:   entity.OrderProcessing,
	entity.OrderProcessing: entity.OrderShipped,
	entity.OrderShipped:    entity.OrderClosed,
}

// CancelReasons motivos de cancelación admitidos.
var CancelReasons = []string{
	"Customer requested",
	"Out of stock",
	"Duplicate order",
	"Wrong address",
	"Payment issue",
	"Other",
}

// Next devuelve el siguiente estado permitido; false si el estado es terminal.
func Next(current entity.OrderStatus) (entity.OrderStatus, bool) {
	next, ok := forward[current]
	return next, ok
}

// IsTerminal indica si el pedido ya no admite transiciones.
func IsTerminal(s entity.OrderStatus) bool {
	return s == entity.OrderClosed || s == entity.OrderCancelled
}

// ValidateAdvance acepta solo el paso inmediato hacia adelante.
func ValidateAdvance(current, requested entity.OrderStatus) error {
	next, ok := forward[current]
	if !ok || next != requested {
		return fmt.Errorf("%w: %s → %s, solo se permite avanzar un paso", domain.ErrInvalidTransition, current, requested)
	}
	return nil
}

// CanCancel valida la cancelación desde current. Desde shipped solo si allowAfterShip.
func CanCancel(current entity.OrderStatus, allowAfterShip bool) error {
	switch current {
	case entity.OrderReceived, entity.OrderProcessing:
		return nil
	case entity.OrderShipped:
		if allowAfterShip {
			return nil
		}
	}
	return fmt.Errorf("%w: el pedido no puede cancelarse desde el estado %q", domain.ErrInvalidTransition, current)
}

// ValidCancelReason indica si reason pertenece al conjunto cerrado de motivos.
func ValidCancelReason(reason string) bool {
	for _, r := range CancelReasons {
		if r == reason {
			return true
		}
	}
	return false
}

// CancelReasonsText lista de motivos para mensajes de error.
func CancelReasonsText() string {
	return strings.Join(CancelReasons, ", ")
}

// FormatNumber arma ORD-YYYYMMDD-NNNN con la fecha UTC de placedAt.
func FormatNumber(placedAt time.Time, seq int) string {
	return fmt.Sprintf("ORD-%s-%04d", placedAt.UTC().Format("20060102"), seq)
}

// DayBounds devuelve [inicio, fin) del día UTC que contiene t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// Line cantidad y precio unitario de una línea.
type Line struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// LineTotal cantidad × precio unitario.
func LineTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice)
}

// Total suma de cantidad × precio sobre todas las líneas.
func Total(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(LineTotal(l.Quantity, l.UnitPrice))
	}
	return total
}
