package testimonial

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/testimonios-api/internal/application/dto"
	"github.com/jhoicas/testimonios-api/internal/application/ports"
	"github.com/jhoicas/testimonios-api/internal/domain"
	"github.com/jhoicas/testimonios-api/internal/domain/entity"
	"github.com/jhoicas/testimonios-api/internal/domain/moderation"
	"github.com/jhoicas/testimonios-api/internal/domain/repository"
	"github.com/jhoicas/testimonios-api/internal/domain/visibility"
)

// EditUseCase edición de contenido y borrado de testimonios.
type EditUseCase struct {
	d Deps
}

// NewEditUseCase construye el caso de uso.
func NewEditUseCase(d Deps) *EditUseCase {
	return &EditUseCase{d: d}
}

// Update aplica un parche. El contenido solo lo edita el autor y solo en ESPERA, BORRADOR o RECHAZADO;
// estado y feedback pasan por la máquina de estados. Los archivos que dejan de usarse se borran tras el commit.
func (uc *EditUseCase) Update(ctx context.Context, caller visibility.Caller, id string, in dto.UpdateTestimonialRequest, newFiles []ports.UploadFile) (*dto.TestimonialResponse, error) {
	if caller.IsAnonymous() {
		return nil, domain.ErrAuthenticationRequired
	}
	hasContent := in.HasContent() || len(newFiles) > 0
	hasState := in.State != nil || in.Feedback != nil
	if !hasContent && !hasState {
		return nil, domain.Invalid("", "no hay campos para actualizar")
	}

	var (
		comment, link *string
		target        *entity.State
	)
	if in.Comment != nil {
		c, err := cleanComment(*in.Comment)
		if err != nil {
			return nil, err
		}
		comment = &c
	}
	if in.Link != nil {
		l, err := cleanLink(*in.Link)
		if err != nil {
			return nil, err
		}
		link = &l
	}
	if in.Rating != nil {
		if err := checkRating(*in.Rating); err != nil {
			return nil, err
		}
	}
	if in.State != nil {
		s, ok := entity.ParseState(*in.State)
		if !ok {
			return nil, domain.Invalid("estado", "estado desconocido")
		}
		target = &s
	}
	if err := checkFiles(newFiles, 0, uc.d.MaxFileBytes); err != nil {
		return nil, err
	}
	var categoryID *string
	if in.CategoryID != nil {
		var err error
		if categoryID, err = checkCategory(ctx, uc.d, in.CategoryID); err != nil {
			return nil, err
		}
	}

	var uploaded []string
	if len(newFiles) > 0 {
		urls, err := uc.d.Storage.Upload(ctx, newFiles)
		if err != nil {
			uc.d.Log.Error().Err(err).Str("testimonial_id", id).Msg("fallo al subir archivos")
			return nil, domain.NewError(domain.ErrUpstreamStorage, "archivos", "no se pudieron subir los archivos, intente de nuevo")
		}
		uploaded = urls
	}

	var (
		t       *entity.Testimonial
		rel     moderation.Relationship
		removed []string
	)
	err := uc.d.Tx.RunTestimonial(ctx, func(repo repository.TestimonialRepository) error {
		var err error
		t, err = repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrNotFound
		}
		if rel, err = uc.d.relationship(ctx, caller, t); err != nil {
			return err
		}
		caps := moderation.ResolvePermissions(rel)
		if !caps.Any() {
			return domain.Denied("no tiene permisos sobre este testimonio")
		}
		snapshot := moderation.SnapshotOf(t)

		if hasContent {
			if !caps.EditContent {
				return domain.Denied("solo el autor puede editar el contenido")
			}
			if !moderation.ContentEditable(t.State) {
				return domain.Invalid("estado", fmt.Sprintf("el contenido solo se edita en ESPERA, BORRADOR o RECHAZADO (estado actual %s)", t.State.Name()))
			}
			if comment != nil {
				t.Comment = *comment
			}
			if link != nil {
				t.Link = *link
			}
			if in.Rating != nil {
				t.Rating = *in.Rating
			}
			if in.CategoryID != nil {
				t.CategoryID = categoryID
			}
			keep := t.Files
			if in.KeepFiles != nil {
				if keep, removed, err = splitFiles(t.Files, *in.KeepFiles); err != nil {
					return err
				}
			}
			if len(keep)+len(uploaded) > entity.MaxFiles {
				return domain.Invalid("archivos", "se permiten como máximo 4 archivos")
			}
			t.Files = append(append([]string{}, keep...), uploaded...)
		}

		if hasState {
			to := t.State
			if target != nil {
				to = *target
			}
			out, err := moderation.ValidateTransition(snapshot, moderation.TransitionRequest{Target: to, Feedback: in.Feedback}, rel)
			if err != nil {
				return err
			}
			if out.Changed {
				uc.d.Log.Info().Str("testimonial_id", t.ID).Str("from", string(t.State)).Str("to", string(out.State)).
					Str("caller", caller.UserID).Msg("transición de testimonio")
			}
			t.State, t.Feedback = out.State, out.Feedback
		}

		t.UpdatedAt = time.Now()
		return repo.Update(ctx, t)
	})
	if err != nil {
		uc.d.discardFiles(ctx, uploaded, "edición fallida")
		return nil, err
	}
	uc.d.discardFiles(ctx, removed, "archivo reemplazado")
	return toTestimonialResponse(t, fullProjection(rel)), nil
}

// Delete borra el testimonio (autor, editor de la organización o admin) y después sus archivos.
func (uc *EditUseCase) Delete(ctx context.Context, caller visibility.Caller, id string) error {
	if caller.IsAnonymous() {
		return domain.ErrAuthenticationRequired
	}
	var files []string
	err := uc.d.Tx.RunTestimonial(ctx, func(repo repository.TestimonialRepository) error {
		t, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrNotFound
		}
		rel, err := uc.d.relationship(ctx, caller, t)
		if err != nil {
			return err
		}
		if !moderation.ResolvePermissions(rel).Delete {
			return domain.Denied("no tiene permisos para borrar este testimonio")
		}
		files = t.Files
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.d.Log.Info().Str("testimonial_id", id).Str("caller", caller.UserID).Msg("testimonio borrado")
	uc.d.discardFiles(ctx, files, "testimonio borrado")
	return nil
}

// splitFiles separa los archivos actuales en conservados y eliminados. keep debe ser un subconjunto de current.
func splitFiles(current, keep []string) (kept, removed []string, err error) {
	want := make(map[string]bool, len(keep))
	for _, k := range keep {
		want[k] = true
	}
	have := make(map[string]bool, len(current))
	for _, c := range current {
		have[c] = true
		if want[c] {
			kept = append(kept, c)
		} else {
			removed = append(removed, c)
		}
	}
	for _, k := range keep {
		if !have[k] {
			return nil, nil, domain.Invalid("archivos", "solo se pueden conservar archivos ya adjuntos al testimonio")
		}
	}
	return kept, removed, nil
}
