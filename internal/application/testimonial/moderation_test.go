package testimonial_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/testimonios-api/internal/application/dto"
	"github.com/jhoicas/testimonios-api/internal/application/testimonial"
	"github.com/jhoicas/testimonios-api/internal/domain"
	"github.com/jhoicas/testimonios-api/internal/domain/entity"
	"github.com/jhoicas/testimonios-api/internal/domain/moderation"
	"github.com/jhoicas/testimonios-api/internal/domain/visibility"
)

func TestModeracion_EscenarioEditorRechazaYAprueba(t *testing.T) {
	e := newEnv(t)
	editor := e.store.AddUser("edu", entity.RoleEditor)
	org := e.store.AddOrganization("Acme", editor)
	tm := e.store.AddTestimonial(org, visibility.Anonymous(), entity.StatePending, nil)
	uc := testimonial.NewModerationUseCase(e.deps)
	ctx := context.Background()

	_, err := uc.ChangeState(ctx, editor, tm.ID, dto.ChangeStateRequest{State: "R"})
	require.ErrorIs(t, err, domain.ErrMissingFeedback)
	assert.Equal(t, entity.StatePending, e.store.Testimonial(tm.ID).State, "un fallo no deja efectos")

	resp, err := uc.ChangeState(ctx, editor, tm.ID, dto.ChangeStateRequest{State: "R", Feedback: strPtr("Please clarify")})
	require.NoError(t, err)
	assert.Equal(t, "R", resp.State)
	assert.Equal(t, "Please clarify", *resp.Feedback)
	assert.NotEmpty(t, resp.AccessKey, "el editor de la organización ve la proyección completa")

	_, err = uc.ChangeState(ctx, editor, tm.ID, dto.ChangeStateRequest{State: "R", Feedback: strPtr("Other")})
	require.ErrorIs(t, err, domain.ErrImmutableFeedback)
	assert.Equal(t, "Please clarify", *e.store.Testimonial(tm.ID).Feedback)

	resp, err = uc.ChangeState(ctx, editor, tm.ID, dto.ChangeStateRequest{State: "A"})
	require.NoError(t, err)
	assert.Equal(t, "A", resp.State)
	stored := e.store.Testimonial(tm.ID)
	assert.Equal(t, entity.StateApproved, stored.State)
	assert.Nil(t, stored.Feedback)
}

func TestModeracion_EditorDeOtraOrganizacion(t *testing.T) {
	e := newEnv(t)
	editor := e.store.AddUser("edu", entity.RoleEditor)
	e.store.AddOrganization("Propia", editor)
	ajena := e.store.AddOrganization("Ajena")
	tm := e.store.AddTestimonial(ajena, visibility.Anonymous(), entity.StatePending, nil)
	uc := testimonial.NewModerationUseCase(e.deps)

	_, err := uc.ChangeState(context.Background(), editor, tm.ID, dto.ChangeStateRequest{State: "A"})
	require.ErrorIs(t, err, domain.ErrPermissionDenied)
	assert.Equal(t, entity.StatePending, e.store.Testimonial(tm.ID).State)
}

func TestModeracion_TestimonioAnonimoSinAutor(t *testing.T) {
	e := newEnv(t)
	visitor := e.store.AddUser("vera", entity.RoleVisitor)
	org := e.store.AddOrganization("Acme")
	tm := e.store.AddTestimonial(org, visibility.Anonymous(), entity.StatePending, nil)
	uc := testimonial.NewModerationUseCase(e.deps)

	_, err := uc.ChangeState(context.Background(), visitor, tm.ID, dto.ChangeStateRequest{State: "B"})
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestModeracion_AutorRetiraRechazadoABorrador(t *testing.T) {
	e := newEnv(t)
	visitor := e.store.AddUser("vera", entity.RoleVisitor)
	org := e.store.AddOrganization("Acme")
	tm := e.store.AddTestimonial(org, visitor, entity.StateRejected, strPtr("needs more detail"))
	uc := testimonial.NewModerationUseCase(e.deps)

	resp, err := uc.ChangeState(context.Background(), visitor, tm.ID, dto.ChangeStateRequest{State: "BORRADOR"})
	require.NoError(t, err)
	assert.Equal(t, "B", resp.State)
	assert.Nil(t, resp.Feedback)
	assert.Empty(t, resp.AccessKey)
	assert.Nil(t, e.store.Testimonial(tm.ID).Feedback)
}

func TestModeracion_AdjuntarFeedback(t *testing.T) {
	e := newEnv(t)
	admin := e.store.AddUser("root", entity.RoleAdmin)
	org := e.store.AddOrganization("Acme")
	tm := e.store.AddTestimonial(org, visibility.Anonymous(), entity.StatePending, nil)
	uc := testimonial.NewModerationUseCase(e.deps)
	ctx := context.Background()

	resp, err := uc.AttachFeedback(ctx, admin, tm.ID, dto.FeedbackRequest{Feedback: "falta detalle"})
	require.NoError(t, err)
	assert.Equal(t, "R", resp.State)

	_, err = uc.AttachFeedback(ctx, admin, tm.ID, dto.FeedbackRequest{Feedback: "otra vez"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestModeracion_AtajosAprobarYRechazar(t *testing.T) {
	e := newEnv(t)
	admin := e.store.AddUser("root", entity.RoleAdmin)
	org := e.store.AddOrganization("Acme")
	tm := e.store.AddTestimonial(org, visibility.Anonymous(), entity.StatePending, nil)
	uc := testimonial.NewModerationUseCase(e.deps)
	ctx := context.Background()

	_, err := uc.Reject(ctx, admin, tm.ID, dto.FeedbackRequest{Feedback: ""})
	require.ErrorIs(t, err, domain.ErrMissingFeedback)

	resp, err := uc.Reject(ctx, admin, tm.ID, dto.FeedbackRequest{Feedback: "spam"})
	require.NoError(t, err)
	assert.Equal(t, "R", resp.State)

	resp, err = uc.Approve(ctx, admin, tm.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", resp.State)
	assert.Nil(t, resp.Feedback)
}

func TestModeracion_ErroresBasicos(t *testing.T) {
	e := newEnv(t)
	admin := e.store.AddUser("root", entity.RoleAdmin)
	org := e.store.AddOrganization("Acme")
	tm := e.store.AddTestimonial(org, visibility.Anonymous(), entity.StatePending, nil)
	uc := testimonial.NewModerationUseCase(e.deps)
	ctx := context.Background()

	_, err := uc.ChangeState(ctx, visibility.Anonymous(), tm.ID, dto.ChangeStateRequest{State: "A"})
	assert.ErrorIs(t, err, domain.ErrAuthenticationRequired)

	_, err = uc.ChangeState(ctx, admin, "no-existe", dto.ChangeStateRequest{State: "A"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.ChangeState(ctx, admin, tm.ID, dto.ChangeStateRequest{State: "Z"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.ChangeState(ctx, admin, tm.ID, dto.ChangeStateRequest{State: "B"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestModeracion_FalloAlGuardarHaceRollback(t *testing.T) {
	e := newEnv(t)
	admin := e.store.AddUser("root", entity.RoleAdmin)
	org := e.store.AddOrganization("Acme")
	tm := e.store.AddTestimonial(org, visibility.Anonymous(), entity.StateRejected, strPtr("motivo"))
	e.store.FailUpdate = errors.New("conexión perdida")
	uc := testimonial.NewModerationUseCase(e.deps)

	_, err := uc.ChangeState(context.Background(), admin, tm.ID, dto.ChangeStateRequest{State: "A"})
	require.Error(t, err)

	stored := e.store.Testimonial(tm.ID)
	assert.Equal(t, entity.StateRejected, stored.State)
	require.NotNil(t, stored.Feedback)
	assert.Equal(t, "motivo", *stored.Feedback)
}

func TestModeracion_ConcurrenciaRespetaInvariante(t *testing.T) {
	e := newEnv(t)
	editor := e.store.AddUser("edu", entity.RoleEditor)
	admin := e.store.AddUser("root", entity.RoleAdmin)
	org := e.store.AddOrganization("Acme", editor)
	tm := e.store.AddTestimonial(org, visibility.Anonymous(), entity.StatePending, nil)
	uc := testimonial.NewModerationUseCase(e.deps)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = uc.ChangeState(ctx, editor, tm.ID, dto.ChangeStateRequest{State: "A"})
		}()
		go func() {
			defer wg.Done()
			_, _ = uc.Reject(ctx, admin, tm.ID, dto.FeedbackRequest{Feedback: "motivo"})
		}()
	}
	wg.Wait()

	stored := e.store.Testimonial(tm.ID)
	assert.NoError(t, moderation.CheckInvariant(stored.State, stored.Feedback))
}
