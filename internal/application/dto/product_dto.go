package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest alta de producto con precio inicial opcional.
type CreateProductRequest struct {
	SKU         string           `json:"sku"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Unit        string           `json:"unit"`
	IsActive    *bool            `json:"isActive"`
	Price       *decimal.Decimal `json:"price"`
	Currency    string           `json:"currency"`
}

// UpdateProductRequest campos editables; un precio distinto abre una nueva ventana de precio.
type UpdateProductRequest struct {
	SKU         *string          `json:"sku"`
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Unit        *string          `json:"unit"`
	IsActive    *bool            `json:"isActive"`
	Price       *decimal.Decimal `json:"price"`
	Currency    string           `json:"currency"`
}

// ProductFilterRequest filtros del catálogo. Status: active | inactive | "" (todos).
type ProductFilterRequest struct {
	Q      string `query:"q"`
	Status string `query:"status"`
}

// PriceResponse ventana de precio.
type PriceResponse struct {
	ID       string          `json:"id"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
	StartsAt time.Time       `json:"startsAt"`
	EndsAt   *time.Time      `json:"endsAt"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Unit         string          `json:"unit"`
	IsActive     bool            `json:"isActive"`
	CurrentPrice *PriceResponse  `json:"currentPrice"`
	OrderCount   int             `json:"orderCount"`
	PriceHistory []PriceResponse `json:"priceHistory,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}
