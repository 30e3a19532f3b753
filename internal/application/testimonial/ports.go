// Package testimonial orquesta los casos de uso de testimonios: alta pública, moderación, edición,
// consultas y estadísticas. Las reglas viven en domain/moderation y domain/visibility; aquí se aplican
// dentro de transacciones con la fila bloqueada.
package testimonial

import (
	"context"

	"github.com/jhoicas/testimonios-api/internal/application/ports"
	"github.com/jhoicas/testimonios-api/internal/domain/entity"
	"github.com/jhoicas/testimonios-api/internal/domain/moderation"
	"github.com/jhoicas/testimonios-api/internal/domain/repository"
	"github.com/jhoicas/testimonios-api/internal/domain/visibility"
	"github.com/rs/zerolog"
)

// TxRunner ejecuta fn dentro de una transacción con un repositorio de testimonios atado a ella.
// Si fn devuelve error no queda ningún efecto persistido.
type TxRunner interface {
	RunTestimonial(ctx context.Context, fn func(repo repository.TestimonialRepository) error) error
}

// Deps agrupa los puertos que usan los casos de uso de testimonios.
// KeyCache, Reports y Feed son opcionales.
type Deps struct {
	Testimonials  repository.TestimonialRepository
	Organizations repository.OrganizationRepository
	Categories    repository.CategoryRepository
	Tx            TxRunner
	Storage       ports.FileStorage
	KeyCache      ports.OrganizationKeyCache
	Reports       ports.StatsReportRenderer
	Feed          ports.FeedRenderer
	MaxFileBytes  int64
	Log           zerolog.Logger
}

// relationship calcula la relación del llamador con t. La membresía se lee fuera del bloqueo de la fila.
func (d Deps) relationship(ctx context.Context, caller visibility.Caller, t *entity.Testimonial) (moderation.Relationship, error) {
	rel := moderation.Relationship{Role: caller.Role, IsAuthor: t.IsAuthoredBy(caller.UserID)}
	if caller.Role == entity.RoleEditor && !caller.IsAnonymous() {
		ok, err := d.Organizations.IsEditor(ctx, t.OrganizationID, caller.UserID)
		if err != nil {
			return rel, err
		}
		rel.IsOrgEditor = ok
	}
	return rel, nil
}

// discardFiles borra archivos sin propagar errores; solo se registran.
func (d Deps) discardFiles(ctx context.Context, urls []string, reason string) {
	if d.Storage == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for _, u := range urls {
		if err := d.Storage.Delete(ctx, u); err != nil {
			d.Log.Warn().Err(err).Str("url", u).Str("reason", reason).Msg("no se pudo eliminar el archivo")
		}
	}
}

func fullProjection(rel moderation.Relationship) bool {
	return rel.Role == entity.RoleAdmin || rel.IsOrgEditor
}
