package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado del ciclo de vida de un pedido.
type OrderStatus string

const (
	OrderReceived   OrderStatus = "received"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderClosed     OrderStatus = "closed"
	OrderCancelled  OrderStatus = "cancelled"
)

// OrderStatuses todos los estados en orden de flujo.
var OrderStatuses = []OrderStatus{OrderReceived, OrderProcessing, OrderShipped, OrderClosed, OrderCancelled}

// Order cabecera de pedido. TotalAmount se calcula una vez al crear y no se recalcula.
type Order struct {
	ID                       string
	CompanyID                string
	OrderNumber              string // ORD-YYYYMMDD-NNNN
	ShopID                   *string
	LeadID                   *string
	PlacedByCompanyUserID    string
	Status                   OrderStatus
	Notes                    *string
	TotalAmount              decimal.Decimal
	CurrencyCode             string
	PlacedAt                 time.Time
	ProcessedAt              *time.Time
	ShippedAt                *time.Time
	ClosedAt                 *time.Time
	CancelledAt              *time.Time
	CancelledByCompanyUserID *string
	CancelReason             *string
	CancelNote               *string
	CreatedAt                time.Time
	UpdatedAt                time.Time
	Items                    []*OrderItem

	// Campos de lectura (joins).
	ShopName        string
	ShopContactName string
	ShopPhone       string
	ShopAddress     string
	LeadName        string
	PlacedByName    string
	CancelledByName string
	ItemsCount      int
}

// OrderItem línea de pedido con snapshot de nombre/SKU al momento de la venta.
type OrderItem struct {
	ID          string
	CompanyID   string
	OrderID     string
	Position    int // 1..n, orden en que se cargaron las líneas
	ProductID   *string
	ProductName string
	ProductSKU  *string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
	Notes       *string
	CreatedAt   time.Time
}
