package dto

import "time"

// BossLoginRequest credenciales de la consola de plataforma.
type BossLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// BossResponse salida de un boss (sin hash).
type BossResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	CreatedAt time.Time `json:"createdAt"`
}

// BossLoginResponse token + boss.
type BossLoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	Boss      BossResponse `json:"boss"`
}

// CreateBossRequest alta de boss.
type CreateBossRequest struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
}

// UpdateBossRequest campos editables; Password solo lo puede cambiar el propio boss.
type UpdateBossRequest struct {
	Email    *string `json:"email"`
	FullName *string `json:"fullName"`
	Password *string `json:"password"`
}

// CompanyListRequest filtros de la consola.
type CompanyListRequest struct {
	Q string `query:"q"`
	PageRequest
}

// CompanyOverviewResponse fila del listado de empresas.
type CompanyOverviewResponse struct {
	CompanyResponse
	SubscriptionExpired bool           `json:"subscriptionExpired"`
	StaffCounts         map[string]int `json:"staffCounts"`
	ContactEmail        string         `json:"contactEmail"`
	ContactPhone        string         `json:"contactPhone"`
}

// CompanyTotalsResponse agregados globales.
type CompanyTotalsResponse struct {
	Companies           int `json:"companies"`
	ActiveSubscription  int `json:"activeSubscription"`
	ExpiredSubscription int `json:"expiredSubscription"`
}

// CompanyListResponse listado paginado + agregados + altas recientes.
type CompanyListResponse struct {
	Items  []CompanyOverviewResponse `json:"items"`
	Page   PageResponse              `json:"page"`
	Totals CompanyTotalsResponse     `json:"totals"`
	Recent []CompanyResponse         `json:"recent"`
}

// UpdateCompanyRequest cambios de plan desde la consola.
type UpdateCompanyRequest struct {
	StaffLimit *int `json:"staffLimit"`
}

// Acciones de suscripción.
const (
	SubscriptionAddMonths = "add_months"
	SubscriptionAddDays   = "add_days"
	SubscriptionSuspend   = "suspend"
	SubscriptionResume    = "resume"
)

// SubscriptionActionRequest acción sobre la suscripción de una empresa.
type SubscriptionActionRequest struct {
	Action      string  `json:"action"`
	Months      int     `json:"months"`
	Days        int     `json:"days"`
	Kind        string  `json:"kind"`
	AmountNotes *string `json:"amountNotes"`
	Notes       *string `json:"notes"`
}

// SubscriptionActionResponse estado resultante.
type SubscriptionActionResponse struct {
	CompanyID             string     `json:"companyId"`
	SubscriptionEndsAt    *time.Time `json:"subscriptionEndsAt"`
	SubscriptionSuspended bool       `json:"subscriptionSuspended"`
	PaymentID             string     `json:"paymentId,omitempty"`
}

// PaymentResponse registro de auditoría de una extensión.
type PaymentResponse struct {
	ID               string    `json:"id"`
	CompanyID        string    `json:"companyId"`
	MonthsAdded      *int      `json:"monthsAdded"`
	DaysAdded        *int      `json:"daysAdded"`
	Kind             string    `json:"kind"`
	AmountNotes      *string   `json:"amountNotes"`
	RecordedByBossID string    `json:"recordedByBossId"`
	Notes            *string   `json:"notes"`
	CreatedAt        time.Time `json:"createdAt"`
}
