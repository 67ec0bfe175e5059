package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea de pedido. ProductID opcional: si viene, nombre y SKU se copian del catálogo
// cuando no se envían.
type OrderItemRequest struct {
	ProductID   *string         `json:"productId"`
	ProductName string          `json:"productName"`
	ProductSKU  *string         `json:"productSku"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Notes       *string         `json:"notes"`
}

// CreateOrderRequest alta de pedido.
type CreateOrderRequest struct {
	ShopID       *string            `json:"shopId"`
	LeadID       *string            `json:"leadId"`
	Notes        *string            `json:"notes"`
	CurrencyCode string             `json:"currencyCode"`
	Items        []OrderItemRequest `json:"items"`
}

// UpdateOrderRequest avance de estado y/o notas.
type UpdateOrderRequest struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

// CancelOrderRequest motivo del conjunto fijo + nota libre.
type CancelOrderRequest struct {
	Reason string  `json:"cancel_reason"`
	Note   *string `json:"cancel_note"`
}

// OrderFilterRequest filtros del listado (query string).
type OrderFilterRequest struct {
	Status   string `query:"status"`
	Q        string `query:"q"`
	DateFrom string `query:"date_from"`
	DateTo   string `query:"date_to"`
	Rep      string `query:"rep"`
	Shop     string `query:"shop"`
	Sort     string `query:"sort"`
}

// OrderItemResponse línea de pedido.
type OrderItemResponse struct {
	ID          string          `json:"id"`
	Position    int             `json:"position"`
	ProductID   *string         `json:"productId"`
	ProductName string          `json:"productName"`
	ProductSKU  *string         `json:"productSku"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
	Notes       *string         `json:"notes"`
}

// OrderResponse cabecera + líneas.
type OrderResponse struct {
	ID                       string              `json:"id"`
	OrderNumber              string              `json:"orderNumber"`
	ShopID                   *string             `json:"shopId"`
	ShopName                 string              `json:"shopName,omitempty"`
	LeadID                   *string             `json:"leadId"`
	LeadName                 string              `json:"leadName,omitempty"`
	PlacedByCompanyUserID    string              `json:"placedByCompanyUserId"`
	PlacedByName             string              `json:"placedByName,omitempty"`
	Status                   string              `json:"status"`
	Notes                    *string             `json:"notes"`
	TotalAmount              decimal.Decimal     `json:"totalAmount"`
	CurrencyCode             string              `json:"currencyCode"`
	PlacedAt                 time.Time           `json:"placedAt"`
	ProcessedAt              *time.Time          `json:"processedAt"`
	ShippedAt                *time.Time          `json:"shippedAt"`
	ClosedAt                 *time.Time          `json:"closedAt"`
	CancelledAt              *time.Time          `json:"cancelledAt"`
	CancelledByCompanyUserID *string             `json:"cancelledByCompanyUserId"`
	CancelledByName          string              `json:"cancelledByName,omitempty"`
	CancelReason             *string             `json:"cancelReason"`
	CancelNote               *string             `json:"cancelNote"`
	ItemsCount               int                 `json:"itemsCount"`
	Items                    []OrderItemResponse `json:"items,omitempty"`
	CreatedAt                time.Time           `json:"createdAt"`
	UpdatedAt                time.Time           `json:"updatedAt"`
}
