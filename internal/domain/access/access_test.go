package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
)

func strPtr(s string) *string { return &s }

func TestAllowList_SinJerarquiaImplicita(t *testing.T) {
	assert.True(t, OrderTransition.Allows(entity.RoleBackOffice))
	assert.False(t, OrderTransition.Allows(entity.RoleRep), "un rep nunca transiciona pedidos")
	assert.False(t, ShopWrite.Allows(entity.RoleBackOffice), "back_office no crea tiendas")
	assert.False(t, LeadAccess.Allows(entity.RoleBackOffice))
	assert.True(t, ProductRead.Allows(entity.RoleRep))
	assert.False(t, ProductWrite.Allows(entity.RoleRep))
	assert.False(t, StaffWrite.Allows(entity.RoleBackOffice))
	assert.False(t, AllowList{entity.RoleManager}.Allows(entity.RoleBoss), "boss no es superconjunto")
}

func TestOwnsLead(t *testing.T) {
	lead := &entity.Lead{
		AssignedRepCompanyUserID: strPtr("rep-1"),
		CreatedByCompanyUserID:   strPtr("rep-2"),
	}
	assert.True(t, OwnsLead(entity.RoleRep, "rep-1", lead), "asignado")
	assert.True(t, OwnsLead(entity.RoleRep, "rep-2", lead), "creador")
	assert.False(t, OwnsLead(entity.RoleRep, "rep-3", lead))
	assert.True(t, OwnsLead(entity.RoleManager, "mgr-1", lead))
	assert.False(t, OwnsLead(entity.RoleRep, "rep-1", &entity.Lead{}))
}

func TestOrderScope(t *testing.T) {
	assert.Equal(t, "cu-1", OrderScope(entity.RoleRep, "cu-1"))
	assert.Equal(t, "", OrderScope(entity.RoleBackOffice, "cu-1"))
}
