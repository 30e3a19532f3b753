package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/testimonios-api/internal/application/dto"
	"github.com/jhoicas/testimonios-api/internal/domain/entity"
	"github.com/jhoicas/testimonios-api/internal/domain/visibility"
	"github.com/jhoicas/testimonios-api/pkg/jwt"
)

// Locals keys para UserID y Role en Fiber.
const (
	LocalUserID = "user_id"
	LocalRole   = "role"
)

// AuthMiddleware valida el Bearer Token JWT y extrae UserID y Role a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get("Authorization") == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		return authenticate(c, jwtSecret)
	}
}

// OptionalAuth carga el usuario si hay token; sin header el llamador es anónimo.
// Un token presente pero inválido sí es 401: no se degrada a anónimo en silencio.
func OptionalAuth(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get("Authorization") == "" {
			return c.Next()
		}
		return authenticate(c, jwtSecret)
	}
}

func authenticate(c *fiber.Ctx, jwtSecret string) error {
	parts := strings.SplitN(c.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
	}
	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
	}
	userID, role, err := jwt.Parse(jwtSecret, tokenString)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
	}
	if _, ok := entity.ParseRole(role); !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye un rol válido"})
	}
	c.Locals(LocalUserID, userID)
	c.Locals(LocalRole, role)
	return c.Next()
}

// RequireRole permite el paso solo a los roles indicados. Debe ir después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[entity.Role]bool, len(roles))
	for _, r := range roles {
		if role, ok := entity.ParseRole(r); ok {
			allowed[role] = true
		}
	}
	return func(c *fiber.Ctx) error {
		role, ok := entity.ParseRole(GetRole(c))
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "rol no encontrado en el token"})
		}
		if !allowed[role] {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "su rol no tiene acceso a este recurso"})
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRole devuelve el rol del token.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

// CallerFrom construye el llamador para la capa de aplicación. Sin usuario es anónimo.
func CallerFrom(c *fiber.Ctx) visibility.Caller {
	userID := GetUserID(c)
	if userID == "" {
		return visibility.Anonymous()
	}
	role, _ := entity.ParseRole(GetRole(c))
	return visibility.Caller{UserID: userID, Role: role}
}
