package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ExigeSecretosDistintos(t *testing.T) {
	t.Setenv("SESSION_SECRET", "mismo")
	t.Setenv("BOSS_SESSION_SECRET", "mismo")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_DefaultsYOverrides(t *testing.T) {
	t.Setenv("SESSION_SECRET", "tenant-secret")
	t.Setenv("BOSS_SESSION_SECRET", "boss-secret")
	t.Setenv("ALLOW_CANCEL_AFTER_SHIP", "true")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("APP_BASE_URL", "https://app.example.com/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.App.AllowCancelAfterShip)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.Equal(t, "https://app.example.com", cfg.App.BaseURL)
	assert.Equal(t, 7*24*60, cfg.Session.BossTTLMinutes)
	assert.Equal(t, "10-M", cfg.RateLimit.Login)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, 14, cfg.App.SignupTrialDays)
	assert.False(t, cfg.Mail.Enabled)
	assert.Equal(t, 10, cfg.DB.MaxConns)
	assert.Equal(t, 1, cfg.DB.MinConns)
}

func TestLoad_PoolDeConexiones(t *testing.T) {
	t.Setenv("SESSION_SECRET", "tenant-secret")
	t.Setenv("BOSS_SESSION_SECRET", "boss-secret")
	t.Setenv("DB_MAX_CONNS", "40")
	t.Setenv("DB_MIN_CONNS", "4")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.DB.MaxConns)
	assert.Equal(t, 4, cfg.DB.MinConns)

	t.Setenv("DB_MIN_CONNS", "41")
	_, err = Load()
	assert.Error(t, err, "el mínimo no puede superar al máximo")

	t.Setenv("DB_MAX_CONNS", "0")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoad_TrialNegativoQuedaEnCero(t *testing.T) {
	t.Setenv("SESSION_SECRET", "tenant-secret")
	t.Setenv("BOSS_SESSION_SECRET", "boss-secret")
	t.Setenv("SIGNUP_TRIAL_DAYS", "-3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.App.SignupTrialDays)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "fs", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/fs?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
