package testimonial

import (
	"context"

	"github.com/jhoicas/testimonios-api/internal/domain"
)

// accessKeyResolver traduce una clave de acceso al id de su organización, pasando por la caché si existe.
type accessKeyResolver struct {
	d Deps
}

func newAccessKeyResolver(d Deps) *accessKeyResolver {
	return &accessKeyResolver{d: d}
}

// Resolve devuelve el id de la organización o PermissionDenied si la clave no existe.
// Los fallos de la caché se registran y se consulta la base de datos.
func (r *accessKeyResolver) Resolve(ctx context.Context, key string) (string, error) {
	if r.d.KeyCache != nil {
		id, ok, err := r.d.KeyCache.Get(ctx, key)
		if err != nil {
			r.d.Log.Warn().Err(err).Msg("caché de api_key no disponible")
		} else if ok {
			return id, nil
		}
	}
	org, err := r.d.Organizations.GetByAccessKey(ctx, key)
	if err != nil {
		return "", err
	}
	if org == nil {
		return "", domain.Denied("api_key inválida")
	}
	if r.d.KeyCache != nil {
		if err := r.d.KeyCache.Set(ctx, key, org.ID); err != nil {
			r.d.Log.Warn().Err(err).Msg("no se pudo cachear la api_key")
		}
	}
	return org.ID, nil
}
