package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentPrice_VentanaMasReciente(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	closed := now.AddDate(0, -1, 0)
	future := now.AddDate(0, 0, 3)

	prices := []*ProductPrice{
		{ID: "old", Price: decimal.NewFromInt(80), StartsAt: now.AddDate(-1, 0, 0), EndsAt: &closed},
		{ID: "open", Price: decimal.NewFromInt(90), StartsAt: now.AddDate(0, -3, 0)},
		{ID: "newer", Price: decimal.NewFromInt(95), StartsAt: now.AddDate(0, -1, 0)},
		{ID: "scheduled", Price: decimal.NewFromInt(99), StartsAt: future},
	}
	got := CurrentPrice(prices, now)
	require.NotNil(t, got)
	assert.Equal(t, "newer", got.ID)

	assert.Nil(t, CurrentPrice(prices[:1], now), "una ventana cerrada no es vigente")
	assert.Nil(t, CurrentPrice(nil, now))
}

func TestLead_AlreadyConverted(t *testing.T) {
	shop := "shop-1"
	assert.True(t, (&Lead{Status: LeadConverted, ShopID: &shop}).AlreadyConverted())
	assert.False(t, (&Lead{Status: LeadConverted}).AlreadyConverted(), "convertido por pedido, sin tienda")
	assert.False(t, (&Lead{Status: LeadQualified, ShopID: &shop}).AlreadyConverted())
}
