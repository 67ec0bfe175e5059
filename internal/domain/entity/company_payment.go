package entity

import "time"

// PaymentKind naturaleza de una extensión de suscripción.
type PaymentKind string

const (
	PaymentKindPayment       PaymentKind = "payment"
	PaymentKindComplimentary PaymentKind = "complimentary"
	PaymentKindGrace         PaymentKind = "grace"
)

// CompanyPayment registro de auditoría de una extensión de suscripción.
// MonthsAdded y DaysAdded son excluyentes.
type CompanyPayment struct {
	ID               string
	CompanyID        string
	MonthsAdded      *int
	DaysAdded        *int
	Kind             PaymentKind
	AmountNotes      *string
	RecordedByBossID string
	Notes            *string
	CreatedAt        time.Time
}
