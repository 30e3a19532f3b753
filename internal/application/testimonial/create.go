package testimonial

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/testimonios-api/internal/application/dto"
	"github.com/jhoicas/testimonios-api/internal/application/ports"
	"github.com/jhoicas/testimonios-api/internal/domain"
	"github.com/jhoicas/testimonios-api/internal/domain/entity"
	"github.com/jhoicas/testimonios-api/internal/domain/visibility"
)

// CreateUseCase alta pública de testimonios mediante la clave de acceso de la organización.
type CreateUseCase struct {
	d    Deps
	keys *accessKeyResolver
}

// NewCreateUseCase construye el caso de uso.
func NewCreateUseCase(d Deps) *CreateUseCase {
	return &CreateUseCase{d: d, keys: newAccessKeyResolver(d)}
}

// Create valida, sube los archivos y persiste el testimonio en ESPERA.
// Con sesión iniciada el autor es el usuario y se ignoran los datos anónimos.
// Si falla después de subir archivos, se borran (best-effort) y no se persiste nada.
func (uc *CreateUseCase) Create(ctx context.Context, caller visibility.Caller, in dto.CreateTestimonialRequest, files []ports.UploadFile) (*dto.TestimonialResponse, error) {
	comment, err := cleanComment(in.Comment)
	if err != nil {
		return nil, err
	}
	if err := checkRating(in.Rating); err != nil {
		return nil, err
	}
	link, err := cleanLink(in.Link)
	if err != nil {
		return nil, err
	}
	if err := checkFiles(files, 0, uc.d.MaxFileBytes); err != nil {
		return nil, err
	}

	key := strings.TrimSpace(in.AccessKey)
	if key == "" {
		return nil, domain.Invalid("api_key", "la api_key es obligatoria")
	}
	orgID, err := uc.keys.Resolve(ctx, key)
	if err != nil {
		return nil, err
	}
	if in.OrganizationID != "" && in.OrganizationID != orgID {
		return nil, domain.Denied("la api_key no corresponde a la organización indicada")
	}

	categoryID, err := checkCategory(ctx, uc.d, in.CategoryID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	t := &entity.Testimonial{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		CategoryID:     categoryID,
		AccessKey:      key,
		Comment:        comment,
		Link:           link,
		Rating:         in.Rating,
		State:          entity.StatePending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.assignAuthor(ctx, caller, t, in); err != nil {
		return nil, err
	}

	if len(files) > 0 {
		urls, err := uc.d.Storage.Upload(ctx, files)
		if err != nil {
			uc.d.Log.Error().Err(err).Str("organization_id", orgID).Msg("fallo al subir archivos")
			return nil, domain.NewError(domain.ErrUpstreamStorage, "archivos", "no se pudieron subir los archivos, intente de nuevo")
		}
		t.Files = urls
	}

	if err := uc.d.Testimonials.Create(ctx, t); err != nil {
		uc.d.discardFiles(ctx, t.Files, "alta fallida")
		return nil, err
	}
	uc.d.Log.Info().Str("testimonial_id", t.ID).Str("organization_id", orgID).
		Bool("anonymous", t.IsAnonymous()).Msg("testimonio creado")
	return toTestimonialResponse(t, false), nil
}

func (uc *CreateUseCase) assignAuthor(ctx context.Context, caller visibility.Caller, t *entity.Testimonial, in dto.CreateTestimonialRequest) error {
	if !caller.IsAnonymous() {
		t.SetAuthor(caller.UserID)
		exists, err := uc.d.Testimonials.ExistsForAuthor(ctx, t.OrganizationID, caller.UserID)
		if err != nil {
			return err
		}
		if exists {
			return domain.Conflict("usuario_registrado", "ya existe un testimonio suyo para esta organización")
		}
		return nil
	}
	name, email, err := cleanAnonymous(in.AnonymousName, in.AnonymousEmail)
	if err != nil {
		return err
	}
	exists, err := uc.d.Testimonials.ExistsForAnonymous(ctx, t.OrganizationID, name, email)
	if err != nil {
		return err
	}
	if exists {
		return domain.Conflict("usuario_anonimo_email", "ya existe un testimonio con ese nombre y email para esta organización")
	}
	t.AnonymousName, t.AnonymousEmail = name, email
	return nil
}

func checkCategory(ctx context.Context, d Deps, id *string) (*string, error) {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil, nil
	}
	cid := strings.TrimSpace(*id)
	c, err := d.Categories.GetByID(ctx, cid)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.Invalid("categoria", "la categoría no existe")
	}
	return &cid, nil
}
