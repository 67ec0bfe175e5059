package ratelimit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMemory_CortaAlSuperarLaTasa(t *testing.T) {
	l, err := NewMemory("2-M", "login")
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := l.Get(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.False(t, res.Reached, "intento %d", i+1)
	}
	res, err := l.Get(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Reached)

	other, err := l.Get(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.False(t, other.Reached, "cada IP tiene su propio contador")
}

func TestNewMemory_TasaInvalida(t *testing.T) {
	_, err := NewMemory("diez por minuto", "login")
	assert.Error(t, err)
}
