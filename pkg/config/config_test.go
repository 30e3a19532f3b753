package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/testimonios-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 20, cfg.HTTP.PublicRateLimit)
	assert.Equal(t, "*", cfg.HTTP.CORSOrigins)
	assert.Equal(t, "/media", cfg.Storage.BaseURL)
	assert.Equal(t, int64(5<<20), cfg.Storage.MaxFileBytes)
	assert.Equal(t, 10*time.Minute, cfg.Redis.TTL)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Docs.Enabled)
}

func TestLoad_EnvTienePrioridad(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "staging")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("ORG_CACHE_TTL_SECONDS", "30")
	t.Setenv("MIGRATE_ON_START", "true")
	t.Setenv("STORAGE_BASE_URL", "https://cdn.example.com/media/")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	assert.True(t, cfg.App.MigrateOnStart)
	assert.Equal(t, "https://cdn.example.com/media", cfg.Storage.BaseURL)
}

func TestLoad_ProductionExigeSecreto(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "t", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/t?sslmode=disable", c.ConnectionString())
	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
