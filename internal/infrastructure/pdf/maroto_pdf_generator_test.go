package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
)

func sampleOrder() *entity.Order {
	sku := "RICE-25"
	note := "entregar antes de las 10"
	return &entity.Order{
		ID:           "o1",
		OrderNumber:  "ORD-20260301-0001",
		Status:       entity.OrderReceived,
		CurrencyCode: "NPR",
		TotalAmount:  decimal.NewFromInt(350),
		PlacedAt:     time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		ShopName:     "Everest Mart",
		PlacedByName: "Ram Rep",
		Items: []*entity.OrderItem{
			{ProductName: "Rice 25kg", ProductSKU: &sku, Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(100), LineTotal: decimal.NewFromInt(300)},
			{ProductName: "Oil 1L", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(50), LineTotal: decimal.NewFromInt(50), Notes: &note},
		},
	}
}

func TestGenerateOrderPDF_DevuelvePDF(t *testing.T) {
	g := NewMarotoPDFGenerator()
	b, err := g.GenerateOrderPDF(context.Background(), sampleOrder(), &entity.Company{Name: "Himalayan Traders"})
	require.NoError(t, err)
	require.NotEmpty(t, b)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}

func TestGenerateOrderPDF_PedidoCancelado(t *testing.T) {
	o := sampleOrder()
	reason := "Out of stock"
	o.Status = entity.OrderCancelled
	o.CancelReason = &reason
	b, err := NewMarotoPDFGenerator().GenerateOrderPDF(context.Background(), o, &entity.Company{Name: "Himalayan Traders"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}

func TestMoney_SeparadorDeMiles(t *testing.T) {
	assert.Equal(t, "1,234.50", money(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "0.00", money(decimal.Zero))
	assert.Equal(t, "1,000,000.00", money(decimal.NewFromInt(1000000)))
}

func TestQuantity(t *testing.T) {
	assert.Equal(t, "3", quantity(decimal.NewFromInt(3)))
	assert.Equal(t, "0.500", quantity(decimal.RequireFromString("0.5")))
}
