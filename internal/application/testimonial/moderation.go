package testimonial

import (
	"context"
	"time"

	"github.com/jhoicas/testimonios-api/internal/application/dto"
	"github.com/jhoicas/testimonios-api/internal/domain"
	"github.com/jhoicas/testimonios-api/internal/domain/entity"
	"github.com/jhoicas/testimonios-api/internal/domain/moderation"
	"github.com/jhoicas/testimonios-api/internal/domain/repository"
	"github.com/jhoicas/testimonios-api/internal/domain/visibility"
)

// ModerationUseCase aplica transiciones de estado y feedback con la fila bloqueada.
type ModerationUseCase struct {
	d Deps
}

// NewModerationUseCase construye el caso de uso.
func NewModerationUseCase(d Deps) *ModerationUseCase {
	return &ModerationUseCase{d: d}
}

type decision func(cur moderation.Snapshot, rel moderation.Relationship) (moderation.Outcome, error)

// ChangeState mueve el testimonio al estado pedido. El feedback solo se usa al entrar o quedarse en RECHAZADO.
func (uc *ModerationUseCase) ChangeState(ctx context.Context, caller visibility.Caller, id string, in dto.ChangeStateRequest) (*dto.TestimonialResponse, error) {
	target, ok := entity.ParseState(in.State)
	if !ok {
		return nil, domain.Invalid("estado", "estado desconocido")
	}
	return uc.apply(ctx, caller, id, func(cur moderation.Snapshot, rel moderation.Relationship) (moderation.Outcome, error) {
		return moderation.ValidateTransition(cur, moderation.TransitionRequest{Target: target, Feedback: in.Feedback}, rel)
	})
}

// AttachFeedback adjunta feedback a un testimonio en ESPERA, que pasa a RECHAZADO.
func (uc *ModerationUseCase) AttachFeedback(ctx context.Context, caller visibility.Caller, id string, in dto.FeedbackRequest) (*dto.TestimonialResponse, error) {
	return uc.apply(ctx, caller, id, func(cur moderation.Snapshot, rel moderation.Relationship) (moderation.Outcome, error) {
		return moderation.AttachFeedback(cur, in.Feedback, rel)
	})
}

// Approve atajo de ChangeState a APROBADO.
func (uc *ModerationUseCase) Approve(ctx context.Context, caller visibility.Caller, id string) (*dto.TestimonialResponse, error) {
	return uc.ChangeState(ctx, caller, id, dto.ChangeStateRequest{State: string(entity.StateApproved)})
}

// Reject atajo de ChangeState a RECHAZADO con feedback.
func (uc *ModerationUseCase) Reject(ctx context.Context, caller visibility.Caller, id string, in dto.FeedbackRequest) (*dto.TestimonialResponse, error) {
	fb := in.Feedback
	return uc.ChangeState(ctx, caller, id, dto.ChangeStateRequest{State: string(entity.StateRejected), Feedback: &fb})
}

func (uc *ModerationUseCase) apply(ctx context.Context, caller visibility.Caller, id string, decide decision) (*dto.TestimonialResponse, error) {
	if caller.IsAnonymous() {
		return nil, domain.ErrAuthenticationRequired
	}
	var (
		t       *entity.Testimonial
		rel     moderation.Relationship
		from    entity.State
		changed bool
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
		out, err := decide(moderation.SnapshotOf(t), rel)
		if err != nil {
			return err
		}
		from = t.State
		if !out.Changed {
			return nil
		}
		t.State, t.Feedback, t.UpdatedAt = out.State, out.Feedback, time.Now()
		changed = true
		return repo.Update(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	if changed {
		uc.d.Log.Info().Str("testimonial_id", t.ID).Str("from", string(from)).Str("to", string(t.State)).
			Str("caller", caller.UserID).Msg("transición de testimonio")
	}
	return toTestimonialResponse(t, fullProjection(rel)), nil
}
