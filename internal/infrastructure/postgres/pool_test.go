package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fieldsales-api/pkg/config"
)

func TestPoolConfig_TomaTamañosDeLaConfiguracion(t *testing.T) {
	cfg := config.DBConfig{
		Host: "db", Port: 5432, User: "app", Password: "secret", DBName: "fieldsales", SSLMode: "disable",
		MaxConns: 12, MinConns: 3, MaxConnLifetimeMins: 30, MaxConnIdleMins: 5,
	}
	pc, err := PoolConfig(cfg)
	require.NoError(t, err)
	assert.EqualValues(t, 12, pc.MaxConns)
	assert.EqualValues(t, 3, pc.MinConns)
	assert.Equal(t, 30*time.Minute, pc.MaxConnLifetime)
	assert.Equal(t, 5*time.Minute, pc.MaxConnIdleTime)
	assert.Equal(t, "db", pc.ConnConfig.Host)
	assert.Equal(t, "fieldsales", pc.ConnConfig.Database)
	assert.NotNil(t, pc.AfterConnect)
}

func TestPoolConfig_DatabaseURLTienePrioridad(t *testing.T) {
	pc, err := PoolConfig(config.DBConfig{DatabaseURL: "postgres://u:p@other:6543/alt?sslmode=disable", Host: "db", MaxConns: 2})
	require.NoError(t, err)
	assert.Equal(t, "other", pc.ConnConfig.Host)
	assert.EqualValues(t, 6543, pc.ConnConfig.Port)
	assert.EqualValues(t, 2, pc.MaxConns)
}

func TestPoolConfig_DSNInvalido(t *testing.T) {
	_, err := PoolConfig(config.DBConfig{DatabaseURL: "postgres://%zz", MaxConns: 1})
	assert.Error(t, err)
}
