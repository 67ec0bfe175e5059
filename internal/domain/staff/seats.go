// Package staff reglas de alta de personal: asientos del plan, teléfono y contraseña inicial.
package staff

import (
	"crypto/rand"
	"fmt"

	"github.com/jhoicas/fieldsales-api/internal/domain"
	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
)

// TotalSeats 1 asiento de manager siempre reservado + staffLimit asientos contratados.
func TotalSeats(staffLimit int) int {
	return staffLimit + 1
}

// CheckSeat falla si current ya ocupa todos los asientos del plan.
func CheckSeat(current, staffLimit int) error {
	total := TotalSeats(staffLimit)
	if current >= total {
		return fmt.Errorf("%w: el plan permite 1 manager + %d miembros (%d usuarios en total)",
			domain.ErrStaffLimitReached, staffLimit, total)
	}
	return nil
}

// InvitableRole roles que se pueden asignar al invitar personal.
func InvitableRole(r entity.Role) bool {
	return r == entity.RoleManager || r == entity.RoleRep || r == entity.RoleBackOffice
}

const passwordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghjkmnpqrstuvwxyz23456789"

// PasswordLength longitud de la contraseña inicial generada.
const PasswordLength = 16

// GeneratePassword contraseña aleatoria sin caracteres ambiguos (0/O, 1/l/I).
func GeneratePassword() (string, error) {
	buf := make([]byte, PasswordLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generar contraseña: %w", err)
	}
	out := make([]byte, PasswordLength)
	for i, b := range buf {
		out[i] = passwordAlphabet[int(b)%len(passwordAlphabet)]
	}
	return string(out), nil
}
