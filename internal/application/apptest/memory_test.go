package apptest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
	"github.com/jhoicas/fieldsales-api/internal/domain/repository"
)

func TestRun_ErrorDeshaceLosCambios(t *testing.T) {
	s := NewStore()
	company := &entity.Company{ID: "c1", Name: "Alpha", StaffLimit: 5}
	s.Companies[company.ID] = company
	s.Shops["s1"] = &entity.Shop{ID: "s1", CompanyID: "c1", Name: "Everest Mart"}
	ctx := context.Background()

	boom := errors.New("falla a mitad de camino")
	err := s.Run(ctx, func(r repository.Repositories) error {
		s.Companies["c1"].StaffLimit = 50
		delete(s.Shops, "s1")
		s.Shops["s2"] = &entity.Shop{ID: "s2", CompanyID: "c1"}
		s.Payments = append(s.Payments, &entity.CompanyPayment{ID: "p1"})
		return boom
	})
	require.ErrorIs(t, err, boom)

	assert.Equal(t, 5, company.StaffLimit, "el puntero que guarda el test ve el valor restaurado")
	assert.Same(t, company, s.Companies["c1"])
	assert.Contains(t, s.Shops, "s1")
	assert.NotContains(t, s.Shops, "s2")
	assert.Empty(t, s.Payments)
	assert.Equal(t, 1, s.TxCount)
}

func TestRun_ExitoConservaLosCambios(t *testing.T) {
	s := NewStore()
	s.Companies["c1"] = &entity.Company{ID: "c1", StaffLimit: 5}

	require.NoError(t, s.Run(context.Background(), func(r repository.Repositories) error {
		s.Companies["c1"].StaffLimit = 7
		return nil
	}))
	assert.Equal(t, 7, s.Companies["c1"].StaffLimit)
}

func TestRun_RestauraLineasDePedido(t *testing.T) {
	s := NewStore()
	item := &entity.OrderItem{ID: "i1", ProductName: "Rice 25kg"}
	s.Orders["o1"] = &entity.Order{ID: "o1", Status: entity.OrderReceived, Items: []*entity.OrderItem{item}}

	_ = s.Run(context.Background(), func(r repository.Repositories) error {
		s.Orders["o1"].Status = entity.OrderProcessing
		s.Orders["o1"].Items[0].ProductName = "cambiado"
		return errors.New("rollback")
	})
	assert.Equal(t, entity.OrderReceived, s.Orders["o1"].Status)
	assert.Equal(t, "Rice 25kg", s.Orders["o1"].Items[0].ProductName)
}
