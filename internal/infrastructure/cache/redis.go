// Package cache guarda en Redis datos de lectura frecuente e inmutables: la resolución api_key → organización
// y los contadores de límite de peticiones. Un *Client nil es válido y se comporta como caché vacía.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/testimonios-api/internal/application/ports"
	"github.com/jhoicas/testimonios-api/pkg/config"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var _ ports.OrganizationKeyCache = (*Client)(nil)

const (
	orgKeyPrefix    = "testimonios:org_key:"
	rateLimitPrefix = "testimonios:rate:"
)

// Client envuelve go-redis con las operaciones que usa la API.
type Client struct {
	rdb *goredis.Client
	ttl time.Duration
	log zerolog.Logger
}

// NewClient crea la conexión y verifica con Ping.
func NewClient(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("conectar a Redis: %w", err)
	}
	log.Info().Str("addr", cfg.Addr).Msg("Redis conectado")
	return New(rdb, cfg.TTL, log), nil
}

// New construye el cliente sobre una conexión ya creada.
func New(rdb *goredis.Client, ttl time.Duration, log zerolog.Logger) *Client {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Client{rdb: rdb, ttl: ttl, log: log}
}

// Get devuelve el id de organización cacheado para la clave de acceso.
func (c *Client) Get(ctx context.Context, accessKey string) (string, bool, error) {
	if c == nil {
		return "", false, nil
	}
	orgID, err := c.rdb.Get(ctx, orgKey(accessKey)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return orgID, true, nil
}

// Set guarda la resolución con el TTL configurado. Las claves son inmutables, así que no hace falta invalidar.
func (c *Client) Set(ctx context.Context, accessKey, orgID string) error {
	if c == nil {
		return nil
	}
	if err := c.rdb.Set(ctx, orgKey(accessKey), orgID, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Allow cuenta una petición en la ventana fija de key y dice si sigue dentro del límite.
func (c *Client) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if c == nil || limit <= 0 {
		return true, nil
	}
	k := rateLimitPrefix + key
	n, err := c.rdb.Incr(ctx, k).Result()
	if err != nil {
		return true, fmt.Errorf("redis incr: %w", err)
	}
	if n == 1 {
		if err := c.rdb.Expire(ctx, k, window).Err(); err != nil {
			c.log.Warn().Err(err).Str("key", k).Msg("no se pudo fijar la expiración del contador")
		}
	}
	return n <= int64(limit), nil
}

// Ping verifica la conexión (health check).
func (c *Client) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

// Close cierra la conexión.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

// orgKey no guarda la clave de acceso en claro.
func orgKey(accessKey string) string {
	sum := sha256.Sum256([]byte(accessKey))
	return orgKeyPrefix + hex.EncodeToString(sum[:])
}
