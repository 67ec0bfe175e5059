package repository

import (
	"context"
	"time"

	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
)

// Orden del listado de pedidos.
const (
	SortPlacedAtDesc = "placed_at_desc"
	SortPlacedAtAsc  = "placed_at_asc"
)

// OrderListLimit tope de filas del listado.
const OrderListLimit = 500

// OrderFilter filtros enumerados del listado; vacío/nil = sin filtro.
// PlacedBy lo impone el rol (rep), Rep lo pide el cliente.
type OrderFilter struct {
	PlacedBy string
	Status   entity.OrderStatus
	Q        string
	From     *time.Time
	To       *time.Time
	Rep      string
	Shop     string
	Sort     string
}

// CancelInfo datos de auditoría de una cancelación.
type CancelInfo struct {
	ByCompanyUserID string
	Reason          string
	Note            *string
	At              time.Time
}

// OrderRepository puerto de persistencia para Order y sus líneas.
type OrderRepository interface {
	// LockDailySequence serializa la numeración de pedidos de la empresa hasta el fin de la transacción.
	LockDailySequence(ctx context.Context, companyID string) error
	CountPlacedBetween(ctx context.Context, companyID string, from, to time.Time) (int, error)
	// Create inserta cabecera y líneas. ErrDuplicate si el número ya existe.
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, companyID, id, placedBy string) (*entity.Order, error)
	GetStatus(ctx context.Context, companyID, id string) (entity.OrderStatus, bool, error)
	List(ctx context.Context, companyID string, f OrderFilter) ([]*entity.Order, error)
	CountByStatus(ctx context.Context, companyID, placedBy string) (map[entity.OrderStatus]int, error)
	// Transition cambia de from a to solo si el estado actual sigue siendo from; marca el timestamp si era nulo.
	Transition(ctx context.Context, companyID, id string, from, to entity.OrderStatus, at time.Time) (bool, error)
	UpdateNotes(ctx context.Context, companyID, id string, notes *string) error
	Cancel(ctx context.Context, companyID, id string, from entity.OrderStatus, info CancelInfo) (bool, error)
}
