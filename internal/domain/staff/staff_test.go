package staff

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fieldsales-api/internal/domain"
	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
)

// staff_limit=5 → 6 usuarios en total; el 7º falla.
func TestCheckSeat_LimiteMasUnoIncluyeAlDueño(t *testing.T) {
	for current := 0; current < 6; current++ {
		assert.NoError(t, CheckSeat(current, 5), "con %d miembros aún hay asiento", current)
	}
	err := CheckSeat(6, 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStaffLimitReached))
	assert.Contains(t, err.Error(), "5", "el mensaje nombra el límite")
}

func TestCheckSeat_LimiteCero(t *testing.T) {
	assert.NoError(t, CheckSeat(0, 0))
	assert.Error(t, CheckSeat(1, 0), "solo el asiento del manager")
}

func TestInvitableRole(t *testing.T) {
	assert.True(t, InvitableRole(entity.RoleRep))
	assert.True(t, InvitableRole(entity.RoleBackOffice))
	assert.False(t, InvitableRole(entity.RoleBoss))
}

func TestGeneratePassword(t *testing.T) {
	a, err := GeneratePassword()
	require.NoError(t, err)
	b, err := GeneratePassword()
	require.NoError(t, err)
	assert.Len(t, a, PasswordLength)
	assert.NotEqual(t, a, b)
	for _, c := range a {
		assert.True(t, strings.ContainsRune(passwordAlphabet, c), "carácter fuera del alfabeto: %q", c)
	}
	assert.False(t, strings.ContainsAny(a, "0O1lI"))
}

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"9812345678":        "+9779812345678",
		"+977 981-234-5678": "+9779812345678",
		"9779812345678":     "+9779812345678",
		"00977 9812345678":  "+9779812345678",
		"+1 9812345678":     "+9779812345678",
	}
	for in, want := range cases {
		got, err := NormalizePhone(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := NormalizePhone("12345")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.True(t, ValidPhone("+9779812345678"))
	assert.False(t, ValidPhone("9812345678"))
}
