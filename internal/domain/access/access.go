// Package access concentra las listas de roles permitidos por clase de operación.
// Es un predicado puro: no hay jerarquía implícita entre roles.
package access

import "github.com/jhoicas/fieldsales-api/internal/domain/entity"

// AllowList roles autorizados para una operación.
type AllowList []entity.Role

// Allows indica si role está en la lista.
func (l AllowList) Allows(role entity.Role) bool {
	for _, r := range l {
		if r == role {
			return true
		}
	}
	return false
}

// Allowed predicado puro: role pertenece a l.
func Allowed(role entity.Role, l AllowList) bool {
	return l.Allows(role)
}

// Strings devuelve la lista como []string (útil para mensajes y middlewares).
func (l AllowList) Strings() []string {
	out := make([]string, len(l))
	for i, r := range l {
		out[i] = string(r)
	}
	return out
}

var (
	StaffWrite      = AllowList{entity.RoleBoss, entity.RoleManager}
	StaffRead       = AllowList{entity.RoleBoss, entity.RoleManager, entity.RoleBackOffice}
	ShopWrite       = AllowList{entity.RoleBoss, entity.RoleManager}
	ShopRead        = AllowList{entity.RoleBoss, entity.RoleManager, entity.RoleBackOffice}
	AssignmentWrite = AllowList{entity.RoleBoss, entity.RoleManager}
	AssignmentRead  = AllowList{entity.RoleBoss, entity.RoleManager, entity.RoleBackOffice}
	LeadAccess      = AllowList{entity.RoleBoss, entity.RoleManager, entity.RoleRep}
	OrderCreate     = AllowList{entity.RoleBoss, entity.RoleManager, entity.RoleRep}
	OrderTransition = AllowList{entity.RoleBoss, entity.RoleManager, entity.RoleBackOffice}
	OrderRead       = AllowList{entity.RoleBoss, entity.RoleManager, entity.RoleRep, entity.RoleBackOffice}
	ProductWrite    = AllowList{entity.RoleBoss, entity.RoleManager, entity.RoleBackOffice}
	ProductRead     = AllowList{entity.RoleBoss, entity.RoleManager, entity.RoleRep, entity.RoleBackOffice}
)

// OwnsLead indica si un rep puede operar sobre el lead: asignado a él o creado por él.
// Los demás roles con acceso a leads no tienen restricción de propiedad.
func OwnsLead(role entity.Role, companyUserID string, lead *entity.Lead) bool {
	if role != entity.RoleRep {
		return true
	}
	if lead.AssignedRepCompanyUserID != nil && *lead.AssignedRepCompanyUserID == companyUserID {
		return true
	}
	return lead.CreatedByCompanyUserID != nil && *lead.CreatedByCompanyUserID == companyUserID
}

// OrderScope devuelve el filtro de "colocado por" que aplica al rol: un rep solo ve sus pedidos.
func OrderScope(role entity.Role, companyUserID string) string {
	if role == entity.RoleRep {
		return companyUserID
	}
	return ""
}

// Actor miembro autenticado que ejecuta una operación dentro de su empresa.
type Actor struct {
	UserID        string
	CompanyID     string
	CompanyUserID string
	Role          entity.Role
}

// Can indica si el actor tiene uno de los roles de la lista.
func (a Actor) Can(l AllowList) bool {
	return l.Allows(a.Role)
}
