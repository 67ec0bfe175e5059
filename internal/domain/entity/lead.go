package entity

import "time"

// LeadStatus estado de un prospecto.
type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadQualified LeadStatus = "qualified"
	LeadConverted LeadStatus = "converted"
	LeadLost      LeadStatus = "lost"
)

// Valid indica si el estado es uno de los conocidos.
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadNew, LeadContacted, LeadQualified, LeadConverted, LeadLost:
		return true
	}
	return false
}

// Lead prospecto previo a la venta.
type Lead struct {
	ID                       string
	CompanyID                string
	ShopID                   *string
	Name                     string
	ContactName              string
	Phone                    string
	Email                    string
	Address                  string
	Notes                    string
	Status                   LeadStatus
	AssignedRepCompanyUserID *string
	CreatedByCompanyUserID   *string
	ConvertedAt              *time.Time
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// AlreadyConverted indica que el lead ya generó su tienda y no admite otra conversión.
func (l *Lead) AlreadyConverted() bool {
	return l.Status == LeadConverted && l.ShopID != nil
}
