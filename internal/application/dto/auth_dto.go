package dto

import "time"

// SignupCompanyRequest alta de una empresa con su primer usuario.
type SignupCompanyRequest struct {
	CompanyName string `json:"companyName"`
	CompanySlug string `json:"companySlug"`
	Address     string `json:"address"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Phone       string `json:"phone"`
	Role        string `json:"role"` // boss | manager (por defecto manager)
}

// SignupCompanyResponse resultado del alta.
type SignupCompanyResponse struct {
	Company CompanyResponse `json:"company"`
	User    UserResponse    `json:"user"`
	Role    string          `json:"role"`
}

// LoginRequest email/password; CompanyID elige la empresa cuando el usuario tiene varias.
type LoginRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	CompanyID string `json:"companyId"`
}

// LoginResponse token de sesión + usuario.
type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	User      UserResponse    `json:"user"`
	Company   CompanyResponse `json:"company"`
	Role      string          `json:"role"`
}

// CompanyChoice candidata cuando el login es ambiguo.
type CompanyChoice struct {
	CompanyID   string `json:"companyId"`
	CompanyName string `json:"companyName"`
	CompanySlug string `json:"companySlug"`
	Role        string `json:"role"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	FullName        string     `json:"fullName"`
	EmailVerifiedAt *time.Time `json:"emailVerifiedAt"`
	LastLoginAt     *time.Time `json:"lastLoginAt,omitempty"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID                    string     `json:"id"`
	Name                  string     `json:"name"`
	Slug                  string     `json:"slug"`
	Status                string     `json:"status"`
	Plan                  string     `json:"plan"`
	Address               string     `json:"address,omitempty"`
	StaffLimit            int        `json:"staffLimit"`
	SubscriptionEndsAt    *time.Time `json:"subscriptionEndsAt"`
	SubscriptionSuspended bool       `json:"subscriptionSuspended"`
	CreatedAt             time.Time  `json:"createdAt"`
}

// MeResponse datos de la sesión de tenant actual.
type MeResponse struct {
	User          UserResponse    `json:"user"`
	Company       CompanyResponse `json:"company"`
	Role          string          `json:"role"`
	CompanyUserID string          `json:"companyUserId"`
}

// CompanySelectionResponse 409 cuando el login es ambiguo: el cliente debe reintentar con companyId.
type CompanySelectionResponse struct {
	OK        bool            `json:"ok"`
	Code      string          `json:"code"`
	Message   string          `json:"error"`
	Companies []CompanyChoice `json:"companies"`
}
