package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/testimonios-api/internal/application/dto"
	"github.com/rs/zerolog/log"
)

// RateLimiter es el contrato mínimo que necesita el middleware. Lo implementa *cache.Client.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit limita las peticiones por IP y ruta en una ventana fija.
//
// Comportamiento:
//   - limiter nil o limit <= 0 → sin límite.
//   - Error del almacén de contadores → se deja pasar y se registra.
//   - Límite superado → 429.
func RateLimit(limiter RateLimiter, limit int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limiter == nil || limit <= 0 {
			return c.Next()
		}
		key := c.IP() + ":" + c.Route().Path
		allowed, err := limiter.Allow(c.UserContext(), key, limit, window)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("límite de peticiones no disponible")
			return c.Next()
		}
		if !allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:      "RATE_LIMITED",
				Message:   "demasiadas peticiones, intente más tarde",
				Retryable: true,
			})
		}
		return c.Next()
	}
}
