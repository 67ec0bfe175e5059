package entity

import "time"

// User identidad global; puede pertenecer a varias empresas vía CompanyUser.
type User struct {
	ID              string
	Email           string // siempre en minúsculas
	PasswordHash    string // bcrypt hash, nunca plano en dominio después de persistir
	FullName        string
	EmailVerifiedAt *time.Time
	LastLoginAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Propósitos de UserToken.
const (
	TokenPurposeEmailVerify = "email_verify"
)

// UserToken token de un solo uso (verificación de email). Solo se persiste el hash.
type UserToken struct {
	ID         string
	UserID     string
	Purpose    string
	TokenHash  string
	ExpiresAt  time.Time
	ConsumedAt *time.Time
	CreatedAt  time.Time
}
