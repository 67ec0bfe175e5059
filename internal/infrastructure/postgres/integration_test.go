//go:build integration

package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/fieldsales-api/internal/domain"
	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
	"github.com/jhoicas/fieldsales-api/internal/domain/order"
	"github.com/jhoicas/fieldsales-api/internal/domain/repository"
	"github.com/jhoicas/fieldsales-api/pkg/config"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("fieldsales_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "start postgres container: %v\n", err)
		os.Exit(1)
	}
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "connection string: %v\n", err)
		os.Exit(1)
	}
	testPool, err = NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 20})
	if err == nil {
		_, err = Migrate(ctx, testPool)
	}
	if err != nil {
		_ = container.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "prepare database: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	testPool.Close()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

// ─── fixtures ────────────────────────────────────────────────────────────────

func seedCompany(t *testing.T, repos repository.Repositories, staffLimit int) *entity.Company {
	t.Helper()
	now := time.Now().UTC()
	ends := now.AddDate(0, 1, 0)
	c := &entity.Company{
		ID: uuid.New().String(), Name: "Acme", Slug: "acme-" + uuid.NewString()[:8],
		Status: entity.CompanyStatusActive, Plan: "trial", StaffLimit: staffLimit,
		SubscriptionEndsAt: &ends, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repos.Companies.Create(context.Background(), c))
	return c
}

func seedMember(t *testing.T, repos repository.Repositories, companyID string, role entity.Role) *entity.CompanyUser {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	u := &entity.User{
		ID: uuid.New().String(), Email: uuid.NewString()[:8] + "@example.com",
		PasswordHash: "x", FullName: string(role) + " " + uuid.NewString()[:4], CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repos.Users.Create(ctx, u))
	m := &entity.CompanyUser{
		ID: uuid.New().String(), CompanyID: companyID, UserID: u.ID, Role: role,
		Status: entity.MembershipActive, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repos.Memberships.Create(ctx, m))
	return m
}

func seedShop(t *testing.T, repos repository.Repositories, companyID, name string) *entity.Shop {
	t.Helper()
	now := time.Now().UTC()
	s := &entity.Shop{
		ID: uuid.New().String(), CompanyID: companyID, Name: name,
		Latitude: entity.DefaultLatitude, Longitude: entity.DefaultLongitude,
		GeofenceRadiusM: entity.DefaultGeofenceRadiusM, LocationSource: entity.LocationManualPin,
		ArrivalPromptEnabled: true, MinDwellSeconds: entity.DefaultMinDwellSeconds,
		CooldownMinutes: entity.DefaultCooldownMinutes, Timezone: entity.DefaultShopTimezone,
		IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repos.Shops.Create(context.Background(), s))
	return s
}

// ─── users & tokens ─────────────────────────────────────────────────────────

func TestUserRepo_EmailUnicoSinDistinguirMayusculas(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(testPool)
	now := time.Now().UTC()
	email := uuid.NewString()[:8] + "@Example.com"

	require.NoError(t, repos.Users.Create(ctx, &entity.User{
		ID: uuid.New().String(), Email: email, PasswordHash: "x", FullName: "A", CreatedAt: now, UpdatedAt: now,
	}))
	err := repos.Users.Create(ctx, &entity.User{
		ID: uuid.New().String(), Email: "  " + email, PasswordHash: "y", FullName: "B", CreatedAt: now, UpdatedAt: now,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	u, err := repos.Users.GetByEmail(ctx, email)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "A", u.FullName)
}

func TestTokenRepo_ConsumeUnaSolaVez(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(testPool)
	c := seedCompany(t, repos, 5)
	m := seedMember(t, repos, c.ID, entity.RoleManager)
	now := time.Now().UTC()

	tok := &entity.UserToken{
		ID: uuid.New().String(), UserID: m.UserID, Purpose: entity.TokenPurposeEmailVerify,
		TokenHash: uuid.NewString(), ExpiresAt: now.Add(time.Hour), CreatedAt: now,
	}
	require.NoError(t, repos.Tokens.Create(ctx, tok))

	userID, err := repos.Tokens.Consume(ctx, tok.TokenHash, entity.TokenPurposeEmailVerify, now)
	require.NoError(t, err)
	assert.Equal(t, m.UserID, userID)

	userID, err = repos.Tokens.Consume(ctx, tok.TokenHash, entity.TokenPurposeEmailVerify, now)
	require.NoError(t, err)
	assert.Empty(t, userID)
}

// ─── staff seats ────────────────────────────────────────────────────────────

func TestMembershipRepo_CuentaYSesion(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(testPool)
	c := seedCompany(t, repos, 1)
	mgr := seedMember(t, repos, c.ID, entity.RoleManager)
	seedMember(t, repos, c.ID, entity.RoleRep)

	n, err := repos.Memberships.CountByCompany(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	s, err := repos.Memberships.GetSession(ctx, c.ID, mgr.ID)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, entity.RoleManager, s.Role)
	assert.Equal(t, c.Name, s.CompanyName)
	assert.Equal(t, 1, s.StaffLimit)

	missing, err := repos.Memberships.GetSession(ctx, c.ID, uuid.New().String())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

// ─── assignments ────────────────────────────────────────────────────────────

func TestAssignmentRepo_ReassignFusionaDuplicadosYConservaPrimario(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(testPool)
	c := seedCompany(t, repos, 10)
	from := seedMember(t, repos, c.ID, entity.RoleRep)
	to := seedMember(t, repos, c.ID, entity.RoleRep)
	shared := seedShop(t, repos, c.ID, "Compartida")
	only := seedShop(t, repos, c.ID, "Solo origen")
	now := time.Now().UTC()

	for _, a := range []*entity.ShopAssignment{
		{ID: uuid.New().String(), CompanyID: c.ID, ShopID: shared.ID, RepCompanyUserID: from.ID, IsPrimary: true, CreatedAt: now},
		{ID: uuid.New().String(), CompanyID: c.ID, ShopID: shared.ID, RepCompanyUserID: to.ID, CreatedAt: now},
		{ID: uuid.New().String(), CompanyID: c.ID, ShopID: only.ID, RepCompanyUserID: from.ID, CreatedAt: now},
	} {
		require.NoError(t, repos.Assignments.Upsert(ctx, a))
	}

	moved, err := repos.Assignments.Reassign(ctx, c.ID, from.ID, to.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), moved)

	n, err := repos.Assignments.CountByRep(ctx, c.ID, from.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	list, err := repos.Assignments.List(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, a := range list {
		assert.Equal(t, to.ID, a.RepCompanyUserID)
		if a.ShopID == shared.ID {
			assert.True(t, a.IsPrimary)
		}
	}
}

// ─── orders ─────────────────────────────────────────────────────────────────

func TestOrderRepo_CrearYTransicionCondicional(t *testing.T) {
	ctx := context.Background()
	c := seedCompany(t, NewRepositories(testPool), 5)
	rep := seedMember(t, NewRepositories(testPool), c.ID, entity.RoleRep)
	placedAt := time.Now().UTC()

	var created *entity.Order
	err := NewTxRunner(testPool).Run(ctx, func(repos repository.Repositories) error {
		if err := repos.Orders.LockDailySequence(ctx, c.ID); err != nil {
			return err
		}
		from, to := order.DayBounds(placedAt)
		n, err := repos.Orders.CountPlacedBetween(ctx, c.ID, from, to)
		if err != nil {
			return err
		}
		created = &entity.Order{
			ID: uuid.New().String(), CompanyID: c.ID, OrderNumber: order.FormatNumber(placedAt, n+1),
			PlacedByCompanyUserID: rep.ID, Status: entity.OrderReceived,
			TotalAmount: decimal.RequireFromString("25.00"), CurrencyCode: entity.DefaultCurrency,
			PlacedAt: placedAt, CreatedAt: placedAt, UpdatedAt: placedAt,
			Items: []*entity.OrderItem{{
				ID: uuid.New().String(), ProductName: "Jabón",
				Quantity: decimal.NewFromInt(2), UnitPrice: decimal.RequireFromString("12.50"), CreatedAt: placedAt,
			}},
		}
		return repos.Orders.Create(ctx, created)
	})
	require.NoError(t, err)
	assert.True(t, created.Items[0].LineTotal.Equal(decimal.RequireFromString("25.00")))

	repos := NewRepositories(testPool)
	ok, err := repos.Orders.Transition(ctx, c.ID, created.ID, entity.OrderReceived, entity.OrderProcessing, placedAt)
	require.NoError(t, err)
	assert.True(t, ok)

	// Un segundo escritor con el estado viejo pierde.
	ok, err = repos.Orders.Transition(ctx, c.ID, created.ID, entity.OrderReceived, entity.OrderProcessing, placedAt)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repos.Orders.GetByID(ctx, c.ID, created.ID, rep.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.OrderProcessing, got.Status)
	assert.NotNil(t, got.ProcessedAt)
	assert.Len(t, got.Items, 1)

	other, err := repos.Orders.GetByID(ctx, c.ID, created.ID, uuid.New().String())
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestOrderRepo_NumeroDuplicadoEsErrDuplicate(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(testPool)
	c := seedCompany(t, repos, 5)
	rep := seedMember(t, repos, c.ID, entity.RoleRep)
	now := time.Now().UTC()

	mk := func() *entity.Order {
		return &entity.Order{
			ID: uuid.New().String(), CompanyID: c.ID, OrderNumber: order.FormatNumber(now, 1),
			PlacedByCompanyUserID: rep.ID, Status: entity.OrderReceived, CurrencyCode: "NPR",
			PlacedAt: now, CreatedAt: now, UpdatedAt: now,
		}
	}
	require.NoError(t, repos.Orders.Create(ctx, mk()))
	assert.ErrorIs(t, repos.Orders.Create(ctx, mk()), domain.ErrDuplicate)
}

// ─── products ───────────────────────────────────────────────────────────────

func TestProductRepo_ListIncluyePrecioVigente(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(testPool)
	c := seedCompany(t, repos, 5)
	now := time.Now().UTC()

	p := &entity.Product{
		ID: uuid.New().String(), CompanyID: c.ID, SKU: "SKU-1", Name: "Arroz",
		Unit: entity.DefaultProductUnit, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repos.Products.Create(ctx, p))
	old := &entity.ProductPrice{
		ID: uuid.New().String(), ProductID: p.ID, CompanyID: c.ID, Price: decimal.NewFromInt(100),
		Currency: "NPR", StartsAt: now.Add(-48 * time.Hour), CreatedAt: now,
	}
	require.NoError(t, repos.Products.AddPrice(ctx, old))
	require.NoError(t, repos.Products.CloseOpenPrices(ctx, p.ID, now.Add(-time.Hour)))
	require.NoError(t, repos.Products.AddPrice(ctx, &entity.ProductPrice{
		ID: uuid.New().String(), ProductID: p.ID, CompanyID: c.ID, Price: decimal.NewFromInt(120),
		Currency: "NPR", StartsAt: now.Add(-time.Hour), CreatedAt: now,
	}))

	list, err := repos.Products.List(ctx, c.ID, repository.ProductFilter{}, now)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].CurrentPrice)
	assert.True(t, list[0].CurrentPrice.Price.Equal(decimal.NewFromInt(120)))

	history, err := repos.Products.PriceHistory(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	dup := *p
	dup.ID = uuid.New().String()
	assert.ErrorIs(t, repos.Products.Create(ctx, &dup), domain.ErrDuplicate)
}
