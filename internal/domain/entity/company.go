package entity

import "time"

// Estados de Company.
const (
	CompanyStatusActive   = "active"
	CompanyStatusDisabled = "disabled"
)

// DefaultStaffLimit asientos de personal contratados por defecto (además del manager).
const DefaultStaffLimit = 5

// Company representa un tenant: todos los datos de negocio cuelgan de ella.
type Company struct {
	ID                    string
	Name                  string
	Slug                  string
	Status                string
	Plan                  string
	Address               string
	StaffLimit            int
	SubscriptionEndsAt    *time.Time
	SubscriptionSuspended bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// CompanyOverview fila del listado de empresas para la consola del boss.
type CompanyOverview struct {
	Company
	StaffTotal    int
	StaffActive   int
	StaffInactive int
	StaffInvited  int
	ContactEmail  string
	ContactPhone  string
}

// CompanyTotals agregados globales de suscripciones.
type CompanyTotals struct {
	Companies           int
	ActiveSubscription  int
	ExpiredSubscription int
}
