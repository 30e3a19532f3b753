package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Cada uno identifica una clase de fallo; la capa HTTP decide el código de estado a partir de ellos.
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrAuthenticationRequired = errors.New("autenticación requerida")
	ErrInvalidCredentials     = errors.New("credenciales inválidas")
	ErrPermissionDenied       = errors.New("permiso denegado")
	ErrInvalidTransition      = errors.New("transición de estado no permitida")
	ErrMissingFeedback        = errors.New("el feedback es obligatorio para rechazar")
	ErrImmutableFeedback      = errors.New("el feedback de un testimonio rechazado no puede modificarse")
	ErrUniquenessConflict     = errors.New("conflicto de unicidad")
	ErrValidation             = errors.New("entrada inválida")
	ErrUpstreamStorage        = errors.New("error en el almacenamiento de archivos")
)

// Error es un error de dominio con contexto: el tipo (uno de los sentinelas), el campo afectado y un mensaje legible.
// errors.Is(err, ErrX) funciona a través de Unwrap.
type Error struct {
	Kind    error
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Kind != nil {
		return e.Kind.Error()
	}
	return "error de dominio"
}

func (e *Error) Unwrap() error { return e.Kind }

// NewError construye un *Error.
func NewError(kind error, field, message string) *Error {
	return &Error{Kind: kind, Field: field, Message: message}
}

// Invalid es un atajo para ErrValidation sobre un campo.
func Invalid(field, message string) *Error {
	return NewError(ErrValidation, field, message)
}

// Denied es un atajo para ErrPermissionDenied.
func Denied(message string) *Error {
	return NewError(ErrPermissionDenied, "", message)
}

// Conflict es un atajo para ErrUniquenessConflict sobre un campo.
func Conflict(field, message string) *Error {
	return NewError(ErrUniquenessConflict, field, message)
}

// FieldOf devuelve el campo asociado a err si es un *Error.
func FieldOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Field
	}
	return ""
}
