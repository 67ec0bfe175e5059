package orders_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fieldsales-api/internal/application/apptest"
	"github.com/jhoicas/fieldsales-api/internal/application/dto"
	"github.com/jhoicas/fieldsales-api/internal/application/orders"
	"github.com/jhoicas/fieldsales-api/internal/domain"
	"github.com/jhoicas/fieldsales-api/internal/domain/access"
	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
	"github.com/jhoicas/fieldsales-api/internal/domain/repository"
	"github.com/jhoicas/fieldsales-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const companyID = "company-1"

type fixture struct {
	store *apptest.Store
	uc    *orders.OrderUseCase
	now   time.Time
	pdf   *fakePDF
}

type fakePDF struct{ calls int }

func (f *fakePDF) GenerateOrderPDF(_ context.Context, o *entity.Order, c *entity.Company) ([]byte, error) {
	f.calls++
	return []byte("%PDF-" + o.OrderNumber + "-" + c.Name), nil
}

func newFixture(t *testing.T, cfg orders.Config) *fixture {
	t.Helper()
	store := apptest.NewStore()
	store.Companies[companyID] = &entity.Company{ID: companyID, Name: "Himalayan Traders", Status: entity.CompanyStatusActive}
	f := &fixture{store: store, now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), pdf: &fakePDF{}}
	f.uc = orders.NewOrderUseCase(store.Repositories(), store, f.pdf, logger.Nop(), cfg).
		WithClock(func() time.Time { return f.now })
	return f
}

func (f *fixture) member(role entity.Role) access.Actor {
	m := &entity.CompanyUser{ID: uuid.NewString(), CompanyID: companyID, UserID: uuid.NewString(), Role: role, Status: entity.MembershipActive}
	f.store.Memberships[m.ID] = m
	return access.Actor{CompanyID: companyID, CompanyUserID: m.ID, UserID: m.UserID, Role: role}
}

func item(name string, qty, price int64) dto.OrderItemRequest {
	return dto.OrderItemRequest{ProductName: name, Quantity: decimal.NewFromInt(qty), UnitPrice: decimal.NewFromInt(price)}
}

func (f *fixture) place(t *testing.T, actor access.Actor) *dto.OrderResponse {
	t.Helper()
	out, err := f.uc.Create(context.Background(), actor, dto.CreateOrderRequest{Items: []dto.OrderItemRequest{item("Tea", 1, 10)}})
	require.NoError(t, err)
	return out
}

func ptr(s string) *string { return &s }

// ──────────────────────────────────────────────────────────────────────────────
// Alta y numeración
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_NumeracionDiariaPorEmpresa(t *testing.T) {
	f := newFixture(t, orders.Config{})
	rep := f.member(entity.RoleRep)

	first := f.place(t, rep)
	second := f.place(t, rep)
	assert.Equal(t, "ORD-20260301-0001", first.OrderNumber)
	assert.Equal(t, "ORD-20260301-0002", second.OrderNumber)

	f.store.Orders[uuid.NewString()] = &entity.Order{CompanyID: "otra", OrderNumber: "ORD-20260301-0001", PlacedAt: f.now}
	assert.Equal(t, "ORD-20260301-0003", f.place(t, rep).OrderNumber, "los pedidos de otra empresa no cuentan")

	f.now = f.now.Add(24 * time.Hour)
	assert.Equal(t, "ORD-20260302-0001", f.place(t, rep).OrderNumber, "la secuencia reinicia cada día UTC")
}

func TestCreate_TotalYEstadoInicial(t *testing.T) {
	f := newFixture(t, orders.Config{})
	rep := f.member(entity.RoleRep)

	out, err := f.uc.Create(context.Background(), rep, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{item("Rice 25kg", 3, 100), item("Oil 1L", 1, 50)},
	})
	require.NoError(t, err)
	assert.True(t, out.TotalAmount.Equal(decimal.NewFromInt(350)), "total = %s", out.TotalAmount)
	assert.Equal(t, "received", out.Status)
	assert.Equal(t, "NPR", out.CurrencyCode)
	assert.Equal(t, rep.CompanyUserID, out.PlacedByCompanyUserID)
	require.Len(t, out.Items, 2)
	assert.Equal(t, 2, out.ItemsCount)
	assert.Equal(t, 1, f.store.TxCount, "numeración y alta en una sola transacción")
}

func TestCreate_LineasConservanElOrdenDeCarga(t *testing.T) {
	f := newFixture(t, orders.Config{})
	rep := f.member(entity.RoleRep)
	names := []string{"Zanahoria", "Arroz", "Miel"}

	out, err := f.uc.Create(context.Background(), rep, dto.CreateOrderRequest{Items: []dto.OrderItemRequest{
		item(names[0], 1, 5), item(names[1], 2, 5), item(names[2], 3, 5),
	}})
	require.NoError(t, err)
	require.Len(t, out.Items, 3)
	for i, it := range out.Items {
		assert.Equal(t, names[i], it.ProductName)
		assert.Equal(t, i+1, it.Position)
	}
}

func TestCreate_CopiaNombreYSKUDelCatalogo(t *testing.T) {
	f := newFixture(t, orders.Config{})
	rep := f.member(entity.RoleRep)
	p := &entity.Product{ID: uuid.NewString(), CompanyID: companyID, SKU: "TEA-500", Name: "Ilam Tea 500g", IsActive: true}
	f.store.Products[p.ID] = p

	out, err := f.uc.Create(context.Background(), rep, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{{ProductID: &p.ID, Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(450)}},
	})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Ilam Tea 500g", out.Items[0].ProductName)
	require.NotNil(t, out.Items[0].ProductSKU)
	assert.Equal(t, "TEA-500", *out.Items[0].ProductSKU)
	assert.True(t, out.Items[0].LineTotal.Equal(decimal.NewFromInt(900)))

	_, err = f.uc.Create(context.Background(), rep, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{{ProductID: ptr(uuid.NewString()), Quantity: decimal.NewFromInt(1)}},
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "producto inexistente")
}

func TestCreate_Validaciones(t *testing.T) {
	f := newFixture(t, orders.Config{})
	rep := f.member(entity.RoleRep)

	bad := []dto.CreateOrderRequest{
		{},
		{Items: []dto.OrderItemRequest{item("", 1, 10)}},
		{Items: []dto.OrderItemRequest{item("Tea", 0, 10)}},
		{Items: []dto.OrderItemRequest{item("Tea", 1, -1)}},
		{Items: []dto.OrderItemRequest{item("Tea", 1, 10)}, CurrencyCode: "rupees"},
	}
	for i, in := range bad {
		_, err := f.uc.Create(context.Background(), rep, in)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "caso %d: %v", i, err)
	}

	_, err := f.uc.Create(context.Background(), rep, dto.CreateOrderRequest{
		ShopID: ptr(uuid.NewString()), Items: []dto.OrderItemRequest{item("Tea", 1, 10)},
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound), "tienda inexistente")

	backOffice := f.member(entity.RoleBackOffice)
	_, err = f.uc.Create(context.Background(), backOffice, dto.CreateOrderRequest{Items: []dto.OrderItemRequest{item("Tea", 1, 10)}})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	assert.Empty(t, f.store.Orders)
}

func TestCreate_ConvierteLeadPendiente(t *testing.T) {
	f := newFixture(t, orders.Config{})
	rep := f.member(entity.RoleRep)
	other := f.member(entity.RoleRep)
	lead := &entity.Lead{ID: uuid.NewString(), CompanyID: companyID, Name: "Everest Mart", Status: entity.LeadQualified, AssignedRepCompanyUserID: &rep.CompanyUserID}
	f.store.Leads[lead.ID] = lead

	_, err := f.uc.Create(context.Background(), other, dto.CreateOrderRequest{LeadID: &lead.ID, Items: []dto.OrderItemRequest{item("Tea", 1, 10)}})
	assert.True(t, errors.Is(err, domain.ErrForbidden), "lead de otro rep")

	out, err := f.uc.Create(context.Background(), rep, dto.CreateOrderRequest{LeadID: &lead.ID, Items: []dto.OrderItemRequest{item("Tea", 1, 10)}})
	require.NoError(t, err)
	require.NotNil(t, out.LeadID)
	assert.Equal(t, entity.LeadConverted, f.store.Leads[lead.ID].Status)
	assert.NotNil(t, f.store.Leads[lead.ID].ConvertedAt)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_AvanzaUnPasoYMarcaTimestamps(t *testing.T) {
	f := newFixture(t, orders.Config{})
	rep := f.member(entity.RoleRep)
	ops := f.member(entity.RoleBackOffice)
	o := f.place(t, rep)
	ctx := context.Background()

	_, err := f.uc.Update(ctx, ops, o.ID, dto.UpdateOrderRequest{Status: ptr("shipped")})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition), "no se salta processing")

	out, err := f.uc.Update(ctx, ops, o.ID, dto.UpdateOrderRequest{Status: ptr("processing")})
	require.NoError(t, err)
	assert.Equal(t, "processing", out.Status)
	require.NotNil(t, out.ProcessedAt)
	assert.Equal(t, f.now, *out.ProcessedAt)

	_, err = f.uc.Update(ctx, ops, o.ID, dto.UpdateOrderRequest{Status: ptr("received")})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition), "no hay retroceso")

	_, err = f.uc.Update(ctx, ops, o.ID, dto.UpdateOrderRequest{Status: ptr("shipped")})
	require.NoError(t, err)
	out, err = f.uc.Update(ctx, ops, o.ID, dto.UpdateOrderRequest{Status: ptr("closed"), Notes: ptr("entregado")})
	require.NoError(t, err)
	assert.Equal(t, "closed", out.Status)
	assert.NotNil(t, out.ShippedAt)
	assert.NotNil(t, out.ClosedAt)
	require.NotNil(t, out.Notes)
	assert.Equal(t, "entregado", *out.Notes)
}

func TestUpdate_ValidacionesYPermisos(t *testing.T) {
	f := newFixture(t, orders.Config{})
	rep := f.member(entity.RoleRep)
	mgr := f.member(entity.RoleManager)
	o := f.place(t, rep)
	ctx := context.Background()

	_, err := f.uc.Update(ctx, rep, o.ID, dto.UpdateOrderRequest{Status: ptr("processing")})
	assert.True(t, errors.Is(err, domain.ErrForbidden), "un rep no mueve estados")

	_, err = f.uc.Update(ctx, mgr, o.ID, dto.UpdateOrderRequest{})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = f.uc.Update(ctx, mgr, o.ID, dto.UpdateOrderRequest{Status: ptr("cancelled")})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "cancelar tiene su propia acción")

	_, err = f.uc.Update(ctx, mgr, o.ID, dto.UpdateOrderRequest{Status: ptr("lost")})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = f.uc.Update(ctx, mgr, o.ID, dto.UpdateOrderRequest{Status: ptr("received")})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition), "repetir el estado actual no es un avance")
	assert.Contains(t, err.Error(), "received")

	_, err = f.uc.Update(ctx, mgr, o.ID, dto.UpdateOrderRequest{Status: ptr("received"), Notes: ptr("nota")})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
	got, err := f.uc.Get(ctx, mgr, o.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Notes, "las notas no se guardan si el estado es inválido")

	_, err = f.uc.Update(ctx, mgr, uuid.NewString(), dto.UpdateOrderRequest{Status: ptr("processing")})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCancel_MotivoYEstados(t *testing.T) {
	f := newFixture(t, orders.Config{})
	rep := f.member(entity.RoleRep)
	mgr := f.member(entity.RoleManager)
	ctx := context.Background()
	o := f.place(t, rep)

	_, err := f.uc.Cancel(ctx, mgr, o.ID, dto.CancelOrderRequest{Reason: "me arrepentí"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Contains(t, err.Error(), "Out of stock")

	out, err := f.uc.Cancel(ctx, mgr, o.ID, dto.CancelOrderRequest{Reason: "Out of stock", Note: ptr("sin arroz")})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", out.Status)
	require.NotNil(t, out.CancelReason)
	assert.Equal(t, "Out of stock", *out.CancelReason)
	require.NotNil(t, out.CancelledByCompanyUserID)
	assert.Equal(t, mgr.CompanyUserID, *out.CancelledByCompanyUserID)
	assert.NotNil(t, out.CancelledAt)

	_, err = f.uc.Cancel(ctx, mgr, o.ID, dto.CancelOrderRequest{Reason: "Other"})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition), "cancelled es terminal")
	_, err = f.uc.Update(ctx, mgr, o.ID, dto.UpdateOrderRequest{Status: ptr("processing")})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
}

func TestCancel_DespachadoSegunConfiguracion(t *testing.T) {
	ship := func(f *fixture, mgr access.Actor, id string) {
		for _, s := range []string{"processing", "shipped"} {
			_, err := f.uc.Update(context.Background(), mgr, id, dto.UpdateOrderRequest{Status: ptr(s)})
			require.NoError(t, err)
		}
	}

	strict := newFixture(t, orders.Config{})
	mgr := strict.member(entity.RoleManager)
	o := strict.place(t, mgr)
	ship(strict, mgr, o.ID)
	_, err := strict.uc.Cancel(context.Background(), mgr, o.ID, dto.CancelOrderRequest{Reason: "Wrong address"})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))

	lenient := newFixture(t, orders.Config{AllowCancelAfterShip: true})
	mgr = lenient.member(entity.RoleManager)
	o = lenient.place(t, mgr)
	ship(lenient, mgr, o.ID)
	out, err := lenient.uc.Cancel(context.Background(), mgr, o.ID, dto.CancelOrderRequest{Reason: "Wrong address"})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", out.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lectura y alcance
// ──────────────────────────────────────────────────────────────────────────────

func TestListYGet_RepSoloVeSusPedidos(t *testing.T) {
	f := newFixture(t, orders.Config{})
	repA := f.member(entity.RoleRep)
	repB := f.member(entity.RoleRep)
	mgr := f.member(entity.RoleManager)
	ctx := context.Background()

	mine := f.place(t, repA)
	f.place(t, repA)
	theirs := f.place(t, repB)

	list, err := f.uc.List(ctx, repA, dto.OrderFilterRequest{Rep: repB.CompanyUserID})
	require.NoError(t, err)
	for _, o := range list {
		assert.Equal(t, repA.CompanyUserID, o.PlacedByCompanyUserID)
	}

	_, err = f.uc.Get(ctx, repA, theirs.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	got, err := f.uc.Get(ctx, repA, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, mine.OrderNumber, got.OrderNumber)

	all, err := f.uc.List(ctx, mgr, dto.OrderFilterRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	counts, err := f.uc.Counts(ctx, repA)
	require.NoError(t, err)
	assert.Equal(t, 2, counts["all"])
	assert.Equal(t, 2, counts["received"])
	assert.Equal(t, 0, counts["cancelled"])
}

func TestList_FiltrosYOrden(t *testing.T) {
	f := newFixture(t, orders.Config{})
	mgr := f.member(entity.RoleManager)
	ctx := context.Background()

	first := f.place(t, mgr)
	f.now = f.now.Add(48 * time.Hour)
	last := f.place(t, mgr)

	list, err := f.uc.List(ctx, mgr, dto.OrderFilterRequest{Sort: "oldest"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)

	list, err = f.uc.List(ctx, mgr, dto.OrderFilterRequest{DateFrom: "2026-03-01", DateTo: "2026-03-01"})
	require.NoError(t, err)
	require.Len(t, list, 1, "date_to con solo fecha incluye el día completo")
	assert.Equal(t, first.ID, list[0].ID)

	list, err = f.uc.List(ctx, mgr, dto.OrderFilterRequest{Q: last.OrderNumber})
	require.NoError(t, err)
	require.Len(t, list, 1)

	for _, in := range []dto.OrderFilterRequest{{Status: "lost"}, {Sort: "random"}, {DateFrom: "ayer"}, {DateFrom: "2026-03-05", DateTo: "2026-03-01"}} {
		_, err := f.uc.List(ctx, mgr, in)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "%+v", in)
	}
}

func TestParseFilter_FechaHoraExacta(t *testing.T) {
	fl, err := orders.ParseFilter(dto.OrderFilterRequest{DateFrom: "2026-03-01T10:00:00+05:45", DateTo: "2026-03-02T00:00:00Z", Status: "all"})
	require.NoError(t, err)
	require.NotNil(t, fl.From)
	assert.Equal(t, time.Date(2026, 3, 1, 4, 15, 0, 0, time.UTC), *fl.From)
	require.NotNil(t, fl.To)
	assert.True(t, fl.To.After(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)), "el instante indicado queda incluido")
	assert.Empty(t, fl.Status)
	assert.Equal(t, repository.SortPlacedAtDesc, fl.Sort)
}

func TestPDF_UsaPedidoYEmpresa(t *testing.T) {
	f := newFixture(t, orders.Config{})
	rep := f.member(entity.RoleRep)
	o := f.place(t, rep)

	b, name, err := f.uc.PDF(context.Background(), rep, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.OrderNumber+".pdf", name)
	assert.Contains(t, string(b), "Himalayan Traders")
	assert.Equal(t, 1, f.pdf.calls)

	_, _, err = f.uc.PDF(context.Background(), f.member(entity.RoleRep), o.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound), "pedido de otro rep")
}
