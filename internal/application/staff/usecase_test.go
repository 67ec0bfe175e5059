package staff_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/fieldsales-api/internal/application/apptest"
	"github.com/jhoicas/fieldsales-api/internal/application/dto"
	"github.com/jhoicas/fieldsales-api/internal/application/staff"
	"github.com/jhoicas/fieldsales-api/internal/domain"
	"github.com/jhoicas/fieldsales-api/internal/domain/access"
	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
	"github.com/jhoicas/fieldsales-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var testNow = time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store   *apptest.Store
	mailer  *apptest.RecordingMailer
	uc      *staff.StaffUseCase
	company *entity.Company
	owner   access.Actor
}

func newFixture(t *testing.T, staffLimit int) *fixture {
	t.Helper()
	store := apptest.NewStore()
	mailer := &apptest.RecordingMailer{}
	company := &entity.Company{ID: uuid.NewString(), Name: "Himalayan Traders", Slug: "himalayan", Status: entity.CompanyStatusActive, StaffLimit: staffLimit}
	store.Companies[company.ID] = company
	f := &fixture{
		store:   store,
		mailer:  mailer,
		company: company,
		uc:      staff.NewStaffUseCase(store.Repositories(), store, mailer, logger.Nop(), "http://app.test").WithClock(func() time.Time { return testNow }),
	}
	ownerID := f.addMember(t, "owner@example.com", entity.RoleManager, entity.MembershipActive)
	f.owner = access.Actor{CompanyID: company.ID, CompanyUserID: ownerID, Role: entity.RoleManager}
	return f
}

func (f *fixture) addMember(t *testing.T, email string, role entity.Role, status entity.MembershipStatus) string {
	t.Helper()
	u := &entity.User{ID: uuid.NewString(), Email: email, FullName: email, PasswordHash: "x"}
	f.store.Users[u.ID] = u
	m := &entity.CompanyUser{ID: uuid.NewString(), CompanyID: f.company.ID, UserID: u.ID, Role: role, Status: status, CreatedAt: testNow}
	f.store.Memberships[m.ID] = m
	return m.ID
}

func (f *fixture) assign(shopID, repID string, primary bool) {
	a := &entity.ShopAssignment{ID: uuid.NewString(), CompanyID: f.company.ID, ShopID: shopID, RepCompanyUserID: repID, IsPrimary: primary}
	f.store.Assignments[a.ID] = a
}

func ptr(s string) *string { return &s }

func invite(email string) dto.InviteStaffRequest {
	return dto.InviteStaffRequest{FullName: "Sita Sharma", Email: email, Phone: "9812345678", Role: "rep"}
}

// ──────────────────────────────────────────────────────────────────────────────
// Invitaciones y asientos
// ──────────────────────────────────────────────────────────────────────────────

func TestInvite_CreaMiembroInvitadoYEnviaCorreos(t *testing.T) {
	f := newFixture(t, 5)

	out, err := f.uc.Invite(context.Background(), f.owner, invite("Sita@Example.com"))
	require.NoError(t, err)
	assert.Equal(t, "invited", out.Status)
	assert.Equal(t, "rep", out.Role)
	assert.Equal(t, "+9779812345678", out.Phone)
	assert.Equal(t, "sita@example.com", out.Email)

	assert.Equal(t, 1, f.mailer.Count("credentials"))
	assert.Equal(t, 1, f.mailer.Count("verification"))
	var password string
	for _, s := range f.mailer.Sent {
		if s.Kind == "credentials" {
			password = s.Password
			assert.Equal(t, "http://app.test/auth/login", s.Link)
		}
	}
	require.Len(t, password, 16)
	user := f.store.Users[out.UserID]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)),
		"la contraseña enviada es la que quedó guardada")
}

// staff_limit=5 admite 6 membresías; la séptima falla.
func TestInvite_LimiteDeAsientos(t *testing.T) {
	f := newFixture(t, 5)
	for i := 0; i < 5; i++ {
		_, err := f.uc.Invite(context.Background(), f.owner, invite(uuid.NewString()+"@example.com"))
		require.NoError(t, err, "invitación %d", i)
	}
	_, err := f.uc.Invite(context.Background(), f.owner, invite("extra@example.com"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStaffLimitReached))
	assert.Len(t, f.store.Memberships, 6)
}

func TestInvite_UsuarioExistenteRecibeNuevaContraseña(t *testing.T) {
	f := newFixture(t, 5)
	u := &entity.User{ID: uuid.NewString(), Email: "known@example.com", FullName: "Viejo", PasswordHash: "old"}
	f.store.Users[u.ID] = u

	out, err := f.uc.Invite(context.Background(), f.owner, invite("known@example.com"))
	require.NoError(t, err)
	assert.Equal(t, u.ID, out.UserID)
	assert.Equal(t, "Sita Sharma", f.store.Users[u.ID].FullName)
	assert.NotEqual(t, "old", f.store.Users[u.ID].PasswordHash)
}

func TestInvite_MiembroDuplicado(t *testing.T) {
	f := newFixture(t, 5)
	_, err := f.uc.Invite(context.Background(), f.owner, invite("dup@example.com"))
	require.NoError(t, err)
	_, err = f.uc.Invite(context.Background(), f.owner, invite("dup@example.com"))
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
}

func TestInvite_Validaciones(t *testing.T) {
	f := newFixture(t, 5)
	repID := f.addMember(t, "rep@example.com", entity.RoleRep, entity.MembershipActive)

	bad := []dto.InviteStaffRequest{
		{FullName: "S", Email: "a@example.com", Phone: "9812345678"},
		{FullName: "Sita", Email: "no-email", Phone: "9812345678"},
		{FullName: "Sita", Email: "a@example.com", Phone: "12345"},
		{FullName: "Sita", Email: "a@example.com", Phone: "9812345678", Role: "boss"},
		{FullName: "Sita", Email: "a@example.com", Phone: "9812345678", ManagerCompanyUserID: &repID},
	}
	for i, in := range bad {
		_, err := f.uc.Invite(context.Background(), f.owner, in)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "caso %d: %v", i, err)
	}
}

func TestInvite_RepNoPuedeInvitar(t *testing.T) {
	f := newFixture(t, 5)
	rep := access.Actor{CompanyID: f.company.ID, Role: entity.RoleRep}
	_, err := f.uc.Invite(context.Background(), rep, invite("x@example.com"))
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

// ──────────────────────────────────────────────────────────────────────────────
// Listado y edición
// ──────────────────────────────────────────────────────────────────────────────

func TestList_ConteosYAsientos(t *testing.T) {
	f := newFixture(t, 3)
	f.addMember(t, "a@example.com", entity.RoleRep, entity.MembershipInvited)
	f.addMember(t, "b@example.com", entity.RoleRep, entity.MembershipInactive)

	out, err := f.uc.List(context.Background(), f.owner, dto.StaffFilterRequest{})
	require.NoError(t, err)
	assert.Len(t, out.Items, 3)
	assert.Equal(t, 1, out.Counts["active"])
	assert.Equal(t, 1, out.Counts["invited"])
	assert.Equal(t, 1, out.Counts["inactive"])
	assert.Equal(t, 4, out.SeatsTotal)
	assert.Equal(t, 3, out.SeatsUsed)

	filtered, err := f.uc.List(context.Background(), f.owner, dto.StaffFilterRequest{Status: "invited"})
	require.NoError(t, err)
	assert.Len(t, filtered.Items, 1)
}

func TestUpdate_CambiaDatosYQuitaSupervisor(t *testing.T) {
	f := newFixture(t, 5)
	repID := f.addMember(t, "rep@example.com", entity.RoleRep, entity.MembershipActive)
	f.store.Memberships[repID].ManagerCompanyUserID = &f.owner.CompanyUserID

	name, phone, role, clear := "Hari Prasad", "+977 981-1111111", "back_office", ""
	out, err := f.uc.Update(context.Background(), f.owner, repID, dto.UpdateStaffRequest{
		FullName: &name, Phone: &phone, Role: &role, ManagerCompanyUserID: &clear,
	})
	require.NoError(t, err)
	assert.Equal(t, "Hari Prasad", out.FullName)
	assert.Equal(t, "+9779811111111", out.Phone)
	assert.Equal(t, "back_office", out.Role)
	assert.Nil(t, out.ManagerCompanyUserID)
}

func TestUpdate_EmailDuplicadoYNoEncontrado(t *testing.T) {
	f := newFixture(t, 5)
	repID := f.addMember(t, "rep@example.com", entity.RoleRep, entity.MembershipActive)

	taken := "owner@example.com"
	_, err := f.uc.Update(context.Background(), f.owner, repID, dto.UpdateStaffRequest{Email: &taken})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	_, err = f.uc.Update(context.Background(), f.owner, uuid.NewString(), dto.UpdateStaffRequest{})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestUpdate_EmailNuevoLimpiaVerificacion(t *testing.T) {
	f := newFixture(t, 5)
	repID := f.addMember(t, "rep@example.com", entity.RoleRep, entity.MembershipActive)
	userID := f.store.Memberships[repID].UserID
	f.store.Users[userID].EmailVerifiedAt = &testNow

	email := "nuevo@example.com"
	out, err := f.uc.Update(context.Background(), f.owner, repID, dto.UpdateStaffRequest{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "nuevo@example.com", out.Email)
	assert.Nil(t, out.EmailVerifiedAt)
}

func TestActivateYResendInvite(t *testing.T) {
	f := newFixture(t, 5)
	repID := f.addMember(t, "rep@example.com", entity.RoleRep, entity.MembershipInactive)

	out, err := f.uc.Activate(context.Background(), f.owner, repID)
	require.NoError(t, err)
	assert.Equal(t, "active", out.Status)

	require.NoError(t, f.uc.ResendInvite(context.Background(), f.owner, repID))
	assert.Equal(t, 1, f.mailer.Count("credentials"))
	assert.Equal(t, 1, f.mailer.Count("verification"))
	assert.NotEqual(t, "x", f.store.Users[f.store.Memberships[repID].UserID].PasswordHash)

	_, err = f.uc.Activate(context.Background(), f.owner, uuid.NewString())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// ──────────────────────────────────────────────────────────────────────────────
// Baja con reasignación
// ──────────────────────────────────────────────────────────────────────────────

func TestDeactivate_SinTiendasNoExigeReemplazo(t *testing.T) {
	f := newFixture(t, 5)
	repID := f.addMember(t, "rep@example.com", entity.RoleRep, entity.MembershipActive)

	out, err := f.uc.Deactivate(context.Background(), f.owner, repID, dto.DeactivateStaffRequest{})
	require.NoError(t, err)
	assert.Equal(t, "inactive", out.Staff.Status)
	assert.Zero(t, out.ReassignedShops)
}

func TestDeactivate_ConTiendasExigeRepActivo(t *testing.T) {
	f := newFixture(t, 5)
	repID := f.addMember(t, "rep@example.com", entity.RoleRep, entity.MembershipActive)
	inactiveRep := f.addMember(t, "off@example.com", entity.RoleRep, entity.MembershipInactive)
	f.assign("shop-1", repID, true)

	_, err := f.uc.Deactivate(context.Background(), f.owner, repID, dto.DeactivateStaffRequest{})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = f.uc.Deactivate(context.Background(), f.owner, repID, dto.DeactivateStaffRequest{ReassignTo: inactiveRep})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = f.uc.Deactivate(context.Background(), f.owner, repID, dto.DeactivateStaffRequest{ReassignTo: f.owner.CompanyUserID})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "un manager no recibe tiendas")

	assert.Equal(t, entity.MembershipActive, f.store.Memberships[repID].Status, "nada cambia si la baja falla")
}

func TestDeactivate_ReasignaFusionandoDuplicados(t *testing.T) {
	f := newFixture(t, 5)
	from := f.addMember(t, "from@example.com", entity.RoleRep, entity.MembershipActive)
	to := f.addMember(t, "to@example.com", entity.RoleRep, entity.MembershipActive)
	f.assign("shop-1", from, true)
	f.assign("shop-2", from, false)
	f.assign("shop-1", to, false)

	out, err := f.uc.Deactivate(context.Background(), f.owner, from, dto.DeactivateStaffRequest{ReassignTo: to})
	require.NoError(t, err)
	assert.EqualValues(t, 2, out.ReassignedShops)
	assert.Equal(t, to, out.ReassignedToUserID)
	assert.Equal(t, entity.MembershipInactive, f.store.Memberships[from].Status)

	shops := map[string]bool{}
	for _, a := range f.store.Assignments {
		assert.Equal(t, to, a.RepCompanyUserID)
		shops[a.ShopID] = a.IsPrimary
	}
	assert.Len(t, f.store.Assignments, 2, "la fila duplicada se fusiona")
	assert.True(t, shops["shop-1"], "el primario se conserva en la fusión")
	assert.False(t, shops["shop-2"])
}

func TestUpdate_NoDejaTiendasSinRep(t *testing.T) {
	f := newFixture(t, 5)
	repID := f.addMember(t, "rep@example.com", entity.RoleRep, entity.MembershipActive)
	f.assign("shop-1", repID, true)
	ctx := context.Background()
	userID := f.store.Memberships[repID].UserID

	_, err := f.uc.Update(ctx, f.owner, repID, dto.UpdateStaffRequest{FullName: ptr("Ram Nuevo"), Status: ptr("inactive")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Contains(t, err.Error(), "deactivate")
	assert.Equal(t, entity.MembershipActive, f.store.Memberships[repID].Status)
	assert.Equal(t, "rep@example.com", f.store.Users[userID].FullName, "el nombre se revierte con la transacción")

	_, err = f.uc.Update(ctx, f.owner, repID, dto.UpdateStaffRequest{Role: ptr("back_office")})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "quitar el rol rep también deja tiendas huérfanas")
	assert.Equal(t, entity.RoleRep, f.store.Memberships[repID].Role)

	out, err := f.uc.Update(ctx, f.owner, repID, dto.UpdateStaffRequest{Status: ptr("invited")})
	require.NoError(t, err, "otros cambios de estado no afectan la cobertura")
	assert.Equal(t, "invited", out.Status)
}

func TestUpdate_BajaSinTiendasPorPatch(t *testing.T) {
	f := newFixture(t, 5)
	repID := f.addMember(t, "rep@example.com", entity.RoleRep, entity.MembershipActive)

	out, err := f.uc.Update(context.Background(), f.owner, repID, dto.UpdateStaffRequest{Status: ptr("inactive")})
	require.NoError(t, err)
	assert.Equal(t, "inactive", out.Status)
}
