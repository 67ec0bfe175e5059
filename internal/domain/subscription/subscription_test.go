package subscription

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fieldsales-api/internal/domain"
	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
)

var now = time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC)

func at(t time.Time) *time.Time { return &t }

func TestIsExpired(t *testing.T) {
	assert.True(t, IsExpired(false, nil, now), "sin fecha de fin")
	assert.True(t, IsExpired(false, at(now.Add(-time.Second)), now), "fin en el pasado")
	assert.True(t, IsExpired(true, at(now.AddDate(1, 0, 0)), now), "suspendida")
	assert.False(t, IsExpired(false, at(now.Add(time.Hour)), now))
	assert.False(t, IsExpired(false, at(now), now), "el instante exacto aún es vigente")
}

func TestExtendMonths_ConservaTiempoRestante(t *testing.T) {
	end := now.AddDate(0, 0, 10)
	got, err := ExtendMonths(&end, now, 3)
	require.NoError(t, err)
	assert.Equal(t, end.AddDate(0, 3, 0), got, "se ancla en el fin actual, no en ahora")
}

func TestExtendMonths_VencidaSeAnclaEnAhora(t *testing.T) {
	got, err := ExtendMonths(at(now.AddDate(0, -2, 0)), now, 1)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 1, 0), got)

	got, err = ExtendMonths(nil, now, 12)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(1, 0, 0), got)
}

// fin = ayer, add_days(7) → ahora + 7 días.
func TestExtendDays_VencidaAnclaEnAhora(t *testing.T) {
	yesterday := now.AddDate(0, 0, -1)
	got, err := ExtendDays(&yesterday, now, 7)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, 7), got)
}

func TestExtend_Limites(t *testing.T) {
	_, err := ExtendMonths(nil, now, 0)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	_, err = ExtendMonths(nil, now, 121)
	assert.Error(t, err)
	_, err = ExtendDays(nil, now, 366)
	assert.Error(t, err)
	_, err = ExtendDays(nil, now, 365)
	assert.NoError(t, err)
}

func TestKinds(t *testing.T) {
	k, err := MonthsKind("")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentKindPayment, k)
	_, err = MonthsKind("grace")
	assert.Error(t, err, "grace solo aplica a días")

	k, err = DaysKind("")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentKindGrace, k)
	k, err = DaysKind("complimentary")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentKindComplimentary, k)
	_, err = DaysKind("payment")
	assert.Error(t, err)
}

func TestValidateStaffLimit(t *testing.T) {
	assert.NoError(t, ValidateStaffLimit(0))
	assert.NoError(t, ValidateStaffLimit(500))
	assert.Error(t, ValidateStaffLimit(-1))
	assert.Error(t, ValidateStaffLimit(501))
}
