package entity

import "time"

// Boss operador de la plataforma; no pertenece a ningún tenant.
type Boss struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
