package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/testimonios-api/internal/domain"
)

// Querier es lo común a *pgxpool.Pool y pgx.Tx. Los repos lo reciben para funcionar dentro y fuera de transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// uniqueFields traduce el nombre de la constraint única al campo que se reporta al cliente.
var uniqueFields = map[string]string{
	"users_email_key":                "email",
	"users_username_key":             "username",
	"organizations_name_key":         "organizacion_nombre",
	"organizations_domain_key":       "dominio",
	"organizations_access_key_key":   "api_key",
	"categories_name_key":            "nombre_categoria",
	"testimonials_org_author_key":    "usuario_registrado",
	"testimonials_org_anonymous_key": "usuario_anonimo_email",
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// mapWriteError convierte errores de Postgres en errores de dominio. op se usa para envolver el resto.
func mapWriteError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			field := uniqueFields[pgErr.ConstraintName]
			return domain.Conflict(field, fmt.Sprintf("valor duplicado (%s)", pgErr.ConstraintName))
		case "23503": // foreign_key_violation
			return domain.ErrNotFound
		case "23514": // check_violation
			if pgErr.ConstraintName == "testimonials_feedback_check" {
				return domain.NewError(domain.ErrMissingFeedback, "feedback", "el estado rechazado exige feedback")
			}
			return domain.Invalid("", pgErr.Message)
		}
	}
	if isUniqueViolation(err) {
		return domain.Conflict("", "valor duplicado")
	}
	return fmt.Errorf("%s: %w", op, err)
}

// whereBuilder acumula condiciones con placeholders numerados.
type whereBuilder struct {
	conds []string
	args  []any
}

// arg agrega un argumento y devuelve su placeholder.
func (w *whereBuilder) arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *whereBuilder) add(cond string) {
	w.conds = append(w.conds, cond)
}

func (w *whereBuilder) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// page agrega LIMIT/OFFSET si limit > 0.
func (w *whereBuilder) page(limit, offset int) string {
	if limit <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %s OFFSET %s", w.arg(limit), w.arg(offset))
}

// isUUID evita consultas con ids mal formados: Postgres respondería 22P02 en lugar de "no encontrado".
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func onlyUUIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if isUUID(id) {
			out = append(out, id)
		}
	}
	return out
}
