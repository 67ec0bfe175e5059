package usecase_test

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
	"github.com/jhoicas/fieldsales-api/internal/application/usecase"
	"github.com/jhoicas/fieldsales-api/internal/domain"
	"github.com/jhoicas/fieldsales-api/internal/domain/access"
	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const companyID = "company-1"

func member(store *apptest.Store, role entity.Role) access.Actor {
	m := &entity.CompanyUser{ID: uuid.NewString(), CompanyID: companyID, UserID: uuid.NewString(), Role: role, Status: entity.MembershipActive}
	store.Memberships[m.ID] = m
	return access.Actor{CompanyID: companyID, CompanyUserID: m.ID, UserID: m.UserID, Role: role}
}

func f64(v float64) *float64 { return &v }
func ptr(s string) *string   { return &s }

// ──────────────────────────────────────────────────────────────────────────────
// Tiendas y asignaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestShopCreate_AplicaValoresPorDefecto(t *testing.T) {
	store := apptest.NewStore()
	uc := usecase.NewShopUseCase(store.Repositories().Shops)
	mgr := member(store, entity.RoleManager)

	out, err := uc.Create(context.Background(), mgr, dto.CreateShopRequest{
		Name: "Bhatbhateni Store", Latitude: f64(27.7), Longitude: f64(85.3), ExternalShopCode: ptr("  "),
	})
	require.NoError(t, err)
	assert.Equal(t, 60, out.GeofenceRadiusM)
	assert.Equal(t, "manual_pin", out.LocationSource)
	assert.True(t, out.ArrivalPromptEnabled)
	assert.Equal(t, 120, out.MinDwellSeconds)
	assert.Equal(t, 30, out.CooldownMinutes)
	assert.Equal(t, "Asia/Kathmandu", out.Timezone)
	assert.Nil(t, out.ExternalShopCode, "un código en blanco no se guarda")
}

func TestShopCreate_ValidacionesYDuplicado(t *testing.T) {
	store := apptest.NewStore()
	uc := usecase.NewShopUseCase(store.Repositories().Shops)
	mgr := member(store, entity.RoleManager)
	radius := 501

	bad := []dto.CreateShopRequest{
		{Name: "Sin coordenadas"},
		{Name: "Lejos", Latitude: f64(91), Longitude: f64(0)},
		{Name: "Geocerca", Latitude: f64(0), Longitude: f64(0), GeofenceRadiusM: &radius},
		{Name: "Origen", Latitude: f64(0), Longitude: f64(0), LocationSource: "satellite"},
	}
	for i, in := range bad {
		_, err := uc.Create(context.Background(), mgr, in)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "caso %d", i)
	}

	in := dto.CreateShopRequest{Name: "Tienda A", Latitude: f64(1), Longitude: f64(1), ExternalShopCode: ptr("EXT-1")}
	_, err := uc.Create(context.Background(), mgr, in)
	require.NoError(t, err)
	_, err = uc.Create(context.Background(), mgr, in)
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	rep := member(store, entity.RoleRep)
	_, err = uc.Create(context.Background(), rep, in)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestAssign_PrimarioExclusivoPorTienda(t *testing.T) {
	store := apptest.NewStore()
	shops := usecase.NewShopUseCase(store.Repositories().Shops)
	uc := usecase.NewAssignmentUseCase(store.Repositories(), store)
	mgr := member(store, entity.RoleManager)
	repA, repB := member(store, entity.RoleRep), member(store, entity.RoleRep)

	shop, err := shops.Create(context.Background(), mgr, dto.CreateShopRequest{Name: "Tienda", Latitude: f64(1), Longitude: f64(1)})
	require.NoError(t, err)

	_, err = uc.Assign(context.Background(), mgr, dto.AssignShopRequest{ShopID: shop.ID, RepCompanyUserID: repA.CompanyUserID, IsPrimary: true})
	require.NoError(t, err)
	_, err = uc.Assign(context.Background(), mgr, dto.AssignShopRequest{ShopID: shop.ID, RepCompanyUserID: repB.CompanyUserID, IsPrimary: true})
	require.NoError(t, err)

	list, err := uc.List(context.Background(), mgr)
	require.NoError(t, err)
	require.Len(t, list, 2)
	primaries := 0
	for _, a := range list {
		if a.IsPrimary {
			primaries++
			assert.Equal(t, repB.CompanyUserID, a.RepCompanyUserID)
		}
	}
	assert.Equal(t, 1, primaries)

	_, err = uc.Assign(context.Background(), mgr, dto.AssignShopRequest{ShopID: shop.ID, RepCompanyUserID: repA.CompanyUserID})
	require.NoError(t, err)
	list, _ = uc.List(context.Background(), mgr)
	assert.Len(t, list, 2, "reasignar la misma terna actualiza, no duplica")
}

func TestAssign_Validaciones(t *testing.T) {
	store := apptest.NewStore()
	shops := usecase.NewShopUseCase(store.Repositories().Shops)
	uc := usecase.NewAssignmentUseCase(store.Repositories(), store)
	mgr := member(store, entity.RoleManager)
	shop, err := shops.Create(context.Background(), mgr, dto.CreateShopRequest{Name: "Tienda", Latitude: f64(1), Longitude: f64(1)})
	require.NoError(t, err)

	_, err = uc.Assign(context.Background(), mgr, dto.AssignShopRequest{ShopID: uuid.NewString(), RepCompanyUserID: mgr.CompanyUserID})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = uc.Assign(context.Background(), mgr, dto.AssignShopRequest{ShopID: shop.ID, RepCompanyUserID: mgr.CompanyUserID})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "solo se asignan reps")

	backOffice := member(store, entity.RoleBackOffice)
	_, err = uc.Assign(context.Background(), backOffice, dto.AssignShopRequest{ShopID: shop.ID, RepCompanyUserID: mgr.CompanyUserID})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

// ──────────────────────────────────────────────────────────────────────────────
// Leads
// ──────────────────────────────────────────────────────────────────────────────

func TestLead_RepSoloVeLosPropios(t *testing.T) {
	store := apptest.NewStore()
	uc := usecase.NewLeadUseCase(store.Repositories(), store)
	mgr := member(store, entity.RoleManager)
	repA, repB := member(store, entity.RoleRep), member(store, entity.RoleRep)

	own, err := uc.Create(context.Background(), repA, dto.CreateLeadRequest{Name: "Kirana A"})
	require.NoError(t, err)
	require.NotNil(t, own.AssignedRepCompanyUserID)
	assert.Equal(t, repA.CompanyUserID, *own.AssignedRepCompanyUserID, "el rep queda asignado a su lead")

	_, err = uc.Create(context.Background(), mgr, dto.CreateLeadRequest{Name: "Kirana B", AssignedRepCompanyUserID: &repB.CompanyUserID})
	require.NoError(t, err)

	list, err := uc.List(context.Background(), repA, dto.LeadFilterRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	all, err := uc.List(context.Background(), mgr, dto.LeadFilterRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = uc.Get(context.Background(), repB, own.ID)
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	_, err = uc.Create(context.Background(), repA, dto.CreateLeadRequest{Name: "Ajeno", AssignedRepCompanyUserID: &repB.CompanyUserID})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestLead_UpdateNoPermiteConvertirAMano(t *testing.T) {
	store := apptest.NewStore()
	uc := usecase.NewLeadUseCase(store.Repositories(), store)
	mgr := member(store, entity.RoleManager)
	lead, err := uc.Create(context.Background(), mgr, dto.CreateLeadRequest{Name: "Kirana"})
	require.NoError(t, err)

	out, err := uc.Update(context.Background(), mgr, lead.ID, dto.UpdateLeadRequest{Status: ptr("qualified"), Phone: ptr("01-4444444")})
	require.NoError(t, err)
	assert.Equal(t, "qualified", out.Status)
	assert.Equal(t, "01-4444444", out.Phone)

	_, err = uc.Update(context.Background(), mgr, lead.ID, dto.UpdateLeadRequest{Status: ptr("converted")})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	_, err = uc.Update(context.Background(), mgr, lead.ID, dto.UpdateLeadRequest{Email: ptr("no-email")})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

// Un rep convierte su lead; un segundo intento falla con AlreadyConverted.
func TestConvertToShop_RepConvierteSuLeadUnaSolaVez(t *testing.T) {
	store := apptest.NewStore()
	uc := usecase.NewLeadUseCase(store.Repositories(), store)
	rep := member(store, entity.RoleRep)
	other := member(store, entity.RoleRep)

	lead, err := uc.Create(context.Background(), rep, dto.CreateLeadRequest{Name: "Kirana Pasal", ContactName: "Hari", Address: "Thamel"})
	require.NoError(t, err)

	_, err = uc.ConvertToShop(context.Background(), other, lead.ID, dto.ConvertLeadRequest{})
	assert.True(t, errors.Is(err, domain.ErrForbidden), "otro rep no puede convertirlo")

	out, err := uc.ConvertToShop(context.Background(), rep, lead.ID, dto.ConvertLeadRequest{})
	require.NoError(t, err)
	assert.Equal(t, "converted", out.Lead.Status)
	require.NotNil(t, out.Lead.ShopID)
	assert.Equal(t, out.Shop.ID, *out.Lead.ShopID)
	assert.NotNil(t, out.Lead.ConvertedAt)
	assert.Equal(t, entity.DefaultLatitude, out.Shop.Latitude)
	assert.Equal(t, entity.DefaultLongitude, out.Shop.Longitude)
	assert.Equal(t, "Kirana Pasal", out.Shop.Name)
	assert.Equal(t, "Thamel", out.Shop.Address)

	_, err = uc.ConvertToShop(context.Background(), rep, lead.ID, dto.ConvertLeadRequest{})
	assert.True(t, errors.Is(err, domain.ErrAlreadyConverted))
	assert.Len(t, store.Shops, 1)

	_, err = uc.ConvertToShop(context.Background(), rep, uuid.NewString(), dto.ConvertLeadRequest{})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProduct_CambioDePrecioAbreNuevaVentana(t *testing.T) {
	store := apptest.NewStore()
	now := time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC)
	clock := now
	uc := usecase.NewProductUseCase(store.Repositories(), store).WithClock(func() time.Time { return clock })
	mgr := member(store, entity.RoleManager)
	price := decimal.RequireFromString("100.50")

	created, err := uc.Create(context.Background(), mgr, dto.CreateProductRequest{SKU: "SKU-1", Name: "Wai Wai", Price: &price})
	require.NoError(t, err)
	require.NotNil(t, created.CurrentPrice)
	assert.True(t, created.CurrentPrice.Price.Equal(price))
	assert.Equal(t, "NPR", created.CurrentPrice.Currency)
	assert.Equal(t, "unit", created.Unit)
	assert.True(t, created.IsActive)

	clock = now.Add(time.Hour)
	newPrice := decimal.RequireFromString("120")
	updated, err := uc.Update(context.Background(), mgr, created.ID, dto.UpdateProductRequest{Price: &newPrice})
	require.NoError(t, err)
	assert.True(t, updated.CurrentPrice.Price.Equal(newPrice))
	require.Len(t, updated.PriceHistory, 2)
	old := updated.PriceHistory[1]
	require.NotNil(t, old.EndsAt, "la ventana anterior queda cerrada")
	assert.Equal(t, clock, *old.EndsAt)

	same := decimal.RequireFromString("120.00")
	updated, err = uc.Update(context.Background(), mgr, created.ID, dto.UpdateProductRequest{Price: &same})
	require.NoError(t, err)
	assert.Len(t, updated.PriceHistory, 2, "el mismo precio no abre otra ventana")
}

func TestProduct_SKUDuplicadoYValidaciones(t *testing.T) {
	store := apptest.NewStore()
	uc := usecase.NewProductUseCase(store.Repositories(), store)
	mgr := member(store, entity.RoleManager)

	a, err := uc.Create(context.Background(), mgr, dto.CreateProductRequest{SKU: "A", Name: "Producto A"})
	require.NoError(t, err)
	_, err = uc.Create(context.Background(), mgr, dto.CreateProductRequest{SKU: "B", Name: "Producto B"})
	require.NoError(t, err)

	_, err = uc.Create(context.Background(), mgr, dto.CreateProductRequest{SKU: "A", Name: "Otro"})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
	_, err = uc.Update(context.Background(), mgr, a.ID, dto.UpdateProductRequest{SKU: ptr("B")})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	_, err = uc.Update(context.Background(), mgr, a.ID, dto.UpdateProductRequest{})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "sin campos")
	neg := decimal.NewFromInt(-1)
	_, err = uc.Create(context.Background(), mgr, dto.CreateProductRequest{SKU: "C", Name: "Producto C", Price: &neg})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	_, err = uc.Create(context.Background(), mgr, dto.CreateProductRequest{SKU: "C", Name: "Producto C", Currency: "RUPEE"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	rep := member(store, entity.RoleRep)
	_, err = uc.Create(context.Background(), rep, dto.CreateProductRequest{SKU: "D", Name: "Producto D"})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	list, err := uc.List(context.Background(), rep, dto.ProductFilterRequest{Q: "producto"})
	require.NoError(t, err)
	assert.Len(t, list, 2, "todos los roles leen el catálogo")
}

func TestProduct_DeleteReferenciadoEsConflicto(t *testing.T) {
	store := apptest.NewStore()
	uc := usecase.NewProductUseCase(store.Repositories(), store)
	mgr := member(store, entity.RoleManager)
	p, err := uc.Create(context.Background(), mgr, dto.CreateProductRequest{SKU: "A", Name: "Producto A"})
	require.NoError(t, err)

	store.Orders["o-1"] = &entity.Order{ID: "o-1", CompanyID: companyID, Items: []*entity.OrderItem{{ProductID: &p.ID}}}
	err = uc.Delete(context.Background(), mgr, p.ID)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	delete(store.Orders, "o-1")
	require.NoError(t, uc.Delete(context.Background(), mgr, p.ID))
	err = uc.Delete(context.Background(), mgr, p.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
