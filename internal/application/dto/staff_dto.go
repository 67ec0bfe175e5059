package dto

import "time"

// InviteStaffRequest alta de un miembro del personal.
type InviteStaffRequest struct {
	FullName             string  `json:"fullName"`
	Email                string  `json:"email"`
	Phone                string  `json:"phone"`
	Role                 string  `json:"role"`
	ManagerCompanyUserID *string `json:"managerCompanyUserId"`
}

// UpdateStaffRequest campos editables; nil = sin cambio. ManagerCompanyUserID con "" lo quita.
type UpdateStaffRequest struct {
	FullName             *string `json:"fullName"`
	Email                *string `json:"email"`
	Role                 *string `json:"role"`
	Status               *string `json:"status"`
	Phone                *string `json:"phone"`
	ManagerCompanyUserID *string `json:"managerCompanyUserId"`
}

// DeactivateStaffRequest ReassignTo obligatorio si el miembro tiene tiendas asignadas.
type DeactivateStaffRequest struct {
	ReassignTo string `json:"reassign_to_staff_id"`
}

// StaffFilterRequest filtros del listado.
type StaffFilterRequest struct {
	Q      string `query:"q"`
	Status string `query:"status"`
	Role   string `query:"role"`
}

// StaffResponse fila del listado de personal.
type StaffResponse struct {
	ID                   string     `json:"id"`
	UserID               string     `json:"userId"`
	FullName             string     `json:"fullName"`
	Email                string     `json:"email"`
	Role                 string     `json:"role"`
	Status               string     `json:"status"`
	Phone                string     `json:"phone"`
	ManagerCompanyUserID *string    `json:"managerCompanyUserId"`
	EmailVerifiedAt      *time.Time `json:"emailVerifiedAt"`
	LastLoginAt          *time.Time `json:"lastLoginAt"`
	AssignedShopsCount   int        `json:"assignedShopsCount"`
	CreatedAt            time.Time  `json:"createdAt"`
}

// StaffListResponse listado + conteo por estado + asientos.
type StaffListResponse struct {
	Items      []StaffResponse `json:"items"`
	Counts     map[string]int  `json:"counts"`
	StaffLimit int             `json:"staffLimit"`
	SeatsTotal int             `json:"seatsTotal"`
	SeatsUsed  int             `json:"seatsUsed"`
}

// DeactivateStaffResponse resultado de la baja.
type DeactivateStaffResponse struct {
	Staff              StaffResponse `json:"staff"`
	ReassignedShops    int64         `json:"reassignedShops"`
	ReassignedToUserID string        `json:"reassignedTo,omitempty"`
}
