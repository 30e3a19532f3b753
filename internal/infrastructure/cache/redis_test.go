package cache

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientNil_SeComportaComoCacheVacia(t *testing.T) {
	var c *Client
	ctx := context.Background()

	id, ok, err := c.Get(ctx, "clave")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, id)

	assert.NoError(t, c.Set(ctx, "clave", "org"))
	allowed, err := c.Allow(ctx, "ip", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.Close())
}

func TestOrgKey_NoExponeLaClave(t *testing.T) {
	k := orgKey("mi-clave-secreta")
	assert.True(t, strings.HasPrefix(k, orgKeyPrefix))
	assert.NotContains(t, k, "mi-clave-secreta")
	assert.Equal(t, k, orgKey("mi-clave-secreta"))
	assert.NotEqual(t, k, orgKey("otra"))
}

func TestClient_ErrorDeConexionSeReporta(t *testing.T) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := New(rdb, time.Minute, zerolog.Nop())
	defer c.Close()

	_, ok, err := c.Get(context.Background(), "clave")
	assert.Error(t, err)
	assert.False(t, ok)

	allowed, err := c.Allow(context.Background(), "ip", 5, time.Minute)
	assert.Error(t, err)
	assert.True(t, allowed, "ante un error de Redis se deja pasar")
}

// Requiere un Redis desechable: TEST_REDIS_ADDR=localhost:6379 go test ./...
func TestClient_Redis(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR no definido")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	c := New(rdb, time.Minute, zerolog.Nop())
	defer c.Close()
	ctx := context.Background()

	key := "clave-" + time.Now().Format(time.RFC3339Nano)
	require.NoError(t, c.Set(ctx, key, "org-1"))
	id, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "org-1", id)

	for i := 0; i < 2; i++ {
		allowed, err := c.Allow(ctx, key, 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	allowed, err := c.Allow(ctx, key, 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
}
