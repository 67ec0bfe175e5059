package jwt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tenantSecret = "tenant-secret-for-tests"
	bossSecret   = "boss-secret-for-tests"
	issuer       = "fieldsales-test"
)

func TestTenant_GenerateAndParse(t *testing.T) {
	tok, err := GenerateTenant(tenantSecret, issuer, 60, "u1", "c1", "cu1")
	require.NoError(t, err)

	claims, err := ParseTenant(tenantSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "c1", claims.CompanyID)
	assert.Equal(t, "cu1", claims.CompanyUserID)
}

func TestTenant_Expirado(t *testing.T) {
	tok, err := GenerateTenant(tenantSecret, issuer, -1, "u1", "c1", "cu1")
	require.NoError(t, err)
	_, err = ParseTenant(tenantSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestTenant_SecretIncorrecto(t *testing.T) {
	tok, err := GenerateTenant(tenantSecret, issuer, 60, "u1", "c1", "cu1")
	require.NoError(t, err)
	_, err = ParseTenant(bossSecret, tok)
	assert.Error(t, err)
}

func TestBoss_GenerateAndParse(t *testing.T) {
	tok, err := GenerateBoss(bossSecret, issuer, 60, "b1")
	require.NoError(t, err)
	id, err := ParseBoss(bossSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "b1", id)
}

// Aun con el mismo secreto, un tipo de sesión no sirve como el otro.
func TestSesionesNoIntercambiables(t *testing.T) {
	const shared = "mismo-secreto"
	bossTok, err := GenerateBoss(shared, issuer, 60, "b1")
	require.NoError(t, err)
	_, err = ParseTenant(shared, bossTok)
	assert.Error(t, err)

	tenantTok, err := GenerateTenant(shared, issuer, 60, "u1", "c1", "cu1")
	require.NoError(t, err)
	_, err = ParseBoss(shared, tenantTok)
	assert.True(t, errors.Is(err, ErrWrongSubject))
}

func TestSecretVacio(t *testing.T) {
	_, err := GenerateBoss("", issuer, 60, "b1")
	assert.Error(t, err)
}
