package staff

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jhoicas/fieldsales-api/internal/domain"
)

var phonePattern = regexp.MustCompile(`^\+977\d{10}$`)

// NormalizePhone lleva un teléfono al formato +977XXXXXXXXXX.
// Acepta 10 dígitos locales o el prefijo 977 con o sin "+"; con más dígitos conserva los últimos 10.
func NormalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	var phone string
	switch {
	case len(digits) < 10:
		return "", fmt.Errorf("%w: el teléfono debe tener 10 dígitos o +977 seguido de 10 dígitos", domain.ErrInvalidInput)
	case len(digits) == 10 && !strings.HasPrefix(raw, "+"):
		phone = "+977" + digits
	case len(digits) == 13 && strings.HasPrefix(digits, "977"):
		phone = "+" + digits
	default:
		phone = "+977" + digits[len(digits)-10:]
	}
	if !phonePattern.MatchString(phone) {
		return "", fmt.Errorf("%w: el teléfono debe tener 10 dígitos o +977 seguido de 10 dígitos", domain.ErrInvalidInput)
	}
	return phone, nil
}

// ValidPhone indica si phone ya está normalizado.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}
