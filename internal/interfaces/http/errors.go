package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/testimonios-api/internal/application/dto"
	"github.com/jhoicas/testimonios-api/internal/domain"
	"github.com/rs/zerolog/log"
)

// errorKind relaciona un tipo de error de dominio con su respuesta HTTP.
type errorKind struct {
	kind      error
	status    int
	code      string
	message   string
	retryable bool
}

var errorKinds = []errorKind{
	{domain.ErrAuthenticationRequired, fiber.StatusUnauthorized, "AUTHENTICATION_REQUIRED", "autenticación requerida", false},
	{domain.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "credenciales inválidas", false},
	{domain.ErrPermissionDenied, fiber.StatusForbidden, "FORBIDDEN", "permiso denegado", false},
	{domain.ErrInvalidTransition, fiber.StatusUnprocessableEntity, "INVALID_TRANSITION", "transición de estado no permitida", true},
	{domain.ErrMissingFeedback, fiber.StatusUnprocessableEntity, "MISSING_FEEDBACK", "el rechazo requiere feedback", true},
	{domain.ErrImmutableFeedback, fiber.StatusConflict, "IMMUTABLE_FEEDBACK", "el feedback de un testimonio rechazado no se puede cambiar", false},
	{domain.ErrUniquenessConflict, fiber.StatusConflict, "CONFLICT", "el recurso ya existe", false},
	{domain.ErrValidation, fiber.StatusBadRequest, "VALIDATION", "datos inválidos", true},
	{domain.ErrUpstreamStorage, fiber.StatusBadGateway, "STORAGE_ERROR", "error del almacén de archivos", true},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado", false},
}

// writeError traduce un error de la capa de aplicación a la respuesta HTTP. Lo no reconocido es 500 y se registra.
func writeError(c *fiber.Ctx, err error) error {
	for _, k := range errorKinds {
		if !errors.Is(err, k.kind) {
			continue
		}
		msg := k.message
		var de *domain.Error
		if errors.As(err, &de) && de.Message != "" {
			msg = de.Message
		}
		return c.Status(k.status).JSON(dto.ErrorResponse{
			Code:      k.code,
			Message:   msg,
			Field:     domain.FieldOf(err),
			Retryable: k.retryable,
		})
	}
	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Interface("request_id", c.Locals("requestid")).
		Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

// badRequest respuesta 400 para cuerpos o parámetros que no se pudieron leer.
func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg, Retryable: true})
}
