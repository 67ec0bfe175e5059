package entity

import "time"

// Role rol de una membresía dentro de una empresa.
type Role string

// Roles válidos para CompanyUser.
const (
	RoleBoss       Role = "boss"
	RoleManager    Role = "manager"
	RoleRep        Role = "rep"
	RoleBackOffice Role = "back_office"
)

// Valid indica si el rol es uno de los conocidos.
func (r Role) Valid() bool {
	switch r {
	case RoleBoss, RoleManager, RoleRep, RoleBackOffice:
		return true
	}
	return false
}

// MembershipStatus estado de una membresía.
type MembershipStatus string

const (
	MembershipInvited  MembershipStatus = "invited"
	MembershipActive   MembershipStatus = "active"
	MembershipInactive MembershipStatus = "inactive"
)

// Valid indica si el estado es uno de los conocidos.
func (s MembershipStatus) Valid() bool {
	return s == MembershipInvited || s == MembershipActive || s == MembershipInactive
}

// CompanyUser vincula exactamente un User con exactamente una Company.
type CompanyUser struct {
	ID                   string
	CompanyID            string
	UserID               string
	Role                 Role
	Status               MembershipStatus
	Phone                string // formato +977XXXXXXXXXX
	ManagerCompanyUserID *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// SessionMembership proyección usada para resolver una sesión de tenant:
// membresía + usuario + estado de la empresa y su suscripción.
type SessionMembership struct {
	CompanyUserID         string
	CompanyID             string
	UserID                string
	Role                  Role
	Status                MembershipStatus
	FullName              string
	Email                 string
	CompanyName           string
	CompanySlug           string
	CompanyStatus         string
	StaffLimit            int
	SubscriptionEndsAt    *time.Time
	SubscriptionSuspended bool
}

// StaffMember fila del listado de personal.
type StaffMember struct {
	CompanyUserID        string
	UserID               string
	FullName             string
	Email                string
	Role                 Role
	Status               MembershipStatus
	Phone                string
	ManagerCompanyUserID *string
	EmailVerifiedAt      *time.Time
	LastLoginAt          *time.Time
	AssignedShopsCount   int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
