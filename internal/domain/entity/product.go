package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultProductUnit unidad de venta por defecto.
const DefaultProductUnit = "unit"

// DefaultCurrency moneda por defecto de precios y pedidos.
const DefaultCurrency = "NPR"

// Product ítem del catálogo de la empresa. SKU único por empresa.
type Product struct {
	ID           string
	CompanyID    string
	SKU          string
	Name         string
	Description  string
	Unit         string
	IsActive     bool
	CurrentPrice *ProductPrice // solo lectura
	OrderCount   int           // solo lectura: líneas de pedido que lo referencian
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProductPrice precio versionado en el tiempo. EndsAt nil = vigente sin fin.
type ProductPrice struct {
	ID        string
	ProductID string
	CompanyID string
	Price     decimal.Decimal
	Currency  string
	StartsAt  time.Time
	EndsAt    *time.Time
	CreatedAt time.Time
}

// ActiveAt indica si la ventana [StartsAt, EndsAt) contiene t.
func (p *ProductPrice) ActiveAt(t time.Time) bool {
	if t.Before(p.StartsAt) {
		return false
	}
	return p.EndsAt == nil || t.Before(*p.EndsAt)
}

// CurrentPrice devuelve el precio cuya ventana contiene now; si hay varios, el que empezó más tarde.
func CurrentPrice(prices []*ProductPrice, now time.Time) *ProductPrice {
	var current *ProductPrice
	for _, p := range prices {
		if !p.ActiveAt(now) {
			continue
		}
		if current == nil || p.StartsAt.After(current.StartsAt) {
			current = p
		}
	}
	return current
}
