package testimonial

import (
	"context"

	"github.com/jhoicas/testimonios-api/internal/application/dto"
	"github.com/jhoicas/testimonios-api/internal/application/ports"
	"github.com/jhoicas/testimonios-api/internal/domain"
	"github.com/jhoicas/testimonios-api/internal/domain/entity"
	"github.com/jhoicas/testimonios-api/internal/domain/visibility"
)

// QueryUseCase lecturas de testimonios según la visibilidad del llamador.
type QueryUseCase struct {
	d Deps
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(d Deps) *QueryUseCase {
	return &QueryUseCase{d: d}
}

// ListPublic lista testimonios APROBADOS. Un anónimo consulta una organización a la vez;
// con sesión la organización es opcional.
func (uc *QueryUseCase) ListPublic(ctx context.Context, caller visibility.Caller, orgID string, page dto.PageRequest) (*dto.TestimonialListResponse, error) {
	return uc.list(ctx, caller, visibility.ViewPublic, orgID, page)
}

// ListOwn lista "mis testimonios": todos salvo borradores para admin, los de sus organizaciones para editores,
// los propios para visitantes.
func (uc *QueryUseCase) ListOwn(ctx context.Context, caller visibility.Caller, page dto.PageRequest) (*dto.TestimonialListResponse, error) {
	return uc.list(ctx, caller, visibility.ViewOwn, "", page)
}

// ListApprovedForOrganization lista los APROBADOS de una organización existente.
func (uc *QueryUseCase) ListApprovedForOrganization(ctx context.Context, orgID string, page dto.PageRequest) (*dto.TestimonialListResponse, error) {
	if _, err := uc.organization(ctx, orgID); err != nil {
		return nil, err
	}
	return uc.list(ctx, visibility.Anonymous(), visibility.ViewPublic, orgID, page)
}

func (uc *QueryUseCase) list(ctx context.Context, caller visibility.Caller, view visibility.View, orgID string, page dto.PageRequest) (*dto.TestimonialListResponse, error) {
	page.DefaultPage()
	filter, err := visibility.TestimonialScope(caller, view, orgID)
	if err != nil {
		return nil, err
	}
	filter.Limit, filter.Offset = page.Limit, page.Offset
	list, err := uc.d.Testimonials.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	full := view == visibility.ViewOwn && (caller.Role == entity.RoleAdmin || caller.Role == entity.RoleEditor)
	return toTestimonialList(list, full, filter), nil
}

// GetByID devuelve un testimonio si el llamador puede verlo. Un registro fuera de su alcance es PermissionDenied.
func (uc *QueryUseCase) GetByID(ctx context.Context, caller visibility.Caller, id string) (*dto.TestimonialResponse, error) {
	t, err := uc.d.Testimonials.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	rel, err := uc.d.relationship(ctx, caller, t)
	if err != nil {
		return nil, err
	}
	if err := visibility.CanReadTestimonial(caller, t, rel.IsOrgEditor); err != nil {
		return nil, err
	}
	return toTestimonialResponse(t, fullProjection(rel)), nil
}

// maxFeedItems tope de entradas en el feed público.
const maxFeedItems = 50

// Feed genera el feed XML de los testimonios aprobados de una organización.
func (uc *QueryUseCase) Feed(ctx context.Context, orgID string) ([]byte, error) {
	if uc.d.Feed == nil {
		return nil, domain.ErrNotFound
	}
	org, err := uc.organization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	list, err := uc.list(ctx, visibility.Anonymous(), visibility.ViewPublic, orgID, dto.PageRequest{Limit: maxFeedItems})
	if err != nil {
		return nil, err
	}
	return uc.d.Feed.RenderFeed(ctx, ports.FeedOrganization{ID: org.ID, Name: org.Name, Domain: org.Domain}, list.Items)
}

func (uc *QueryUseCase) organization(ctx context.Context, id string) (*entity.Organization, error) {
	org, err := uc.d.Organizations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	return org, nil
}
