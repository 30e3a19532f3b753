package testimonial_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/testimonios-api/internal/application/dto"
	"github.com/jhoicas/testimonios-api/internal/application/testimonial"
	"github.com/jhoicas/testimonios-api/internal/domain"
	"github.com/jhoicas/testimonios-api/internal/domain/entity"
	"github.com/jhoicas/testimonios-api/internal/domain/visibility"
)

func ids(list *dto.TestimonialListResponse) []string {
	out := make([]string, 0, len(list.Items))
	for _, it := range list.Items {
		out = append(out, it.ID)
	}
	return out
}

type queryFixture struct {
	e                         *env
	admin, editor, visitor    visibility.Caller
	acme, globex              *entity.Organization
	approved, pending, draft  *entity.Testimonial
	rejected, foreignApproved *entity.Testimonial
}

func newQueryFixture(t *testing.T) queryFixture {
	e := newEnv(t)
	f := queryFixture{e: e}
	f.admin = e.store.AddUser("root", entity.RoleAdmin)
	f.editor = e.store.AddUser("edu", entity.RoleEditor)
	f.visitor = e.store.AddUser("vera", entity.RoleVisitor)
	f.acme = e.store.AddOrganization("Acme", f.editor)
	f.globex = e.store.AddOrganization("Globex")

	f.approved = e.store.AddTestimonial(f.acme, visibility.Anonymous(), entity.StateApproved, nil)
	f.pending = e.store.AddTestimonial(f.acme, visibility.Anonymous(), entity.StatePending, nil)
	f.draft = e.store.AddTestimonial(f.acme, f.visitor, entity.StateDraft, nil)
	f.rejected = e.store.AddTestimonial(f.globex, f.visitor, entity.StateRejected, strPtr("motivo"))
	f.foreignApproved = e.store.AddTestimonial(f.globex, visibility.Anonymous(), entity.StateApproved, nil)
	return f
}

func TestListPublic_SoloAprobados(t *testing.T) {
	f := newQueryFixture(t)
	uc := testimonial.NewQueryUseCase(f.e.deps)

	_, err := uc.ListPublic(context.Background(), visibility.Anonymous(), "", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation, "un anónimo consulta una organización a la vez")

	list, err := uc.ListPublic(context.Background(), visibility.Anonymous(), f.acme.ID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{f.approved.ID}, ids(list))

	list, err = uc.ListPublic(context.Background(), f.visitor, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{f.approved.ID, f.foreignApproved.ID}, ids(list))
	for _, it := range list.Items {
		assert.Empty(t, it.AccessKey)
		assert.Empty(t, it.AnonymousEmail)
	}

	list, err = uc.ListApprovedForOrganization(context.Background(), f.acme.ID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{f.approved.ID}, ids(list))

	_, err = uc.ListApprovedForOrganization(context.Background(), "no-existe", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListOwn_PorRol(t *testing.T) {
	f := newQueryFixture(t)
	uc := testimonial.NewQueryUseCase(f.e.deps)
	ctx := context.Background()

	list, err := uc.ListOwn(ctx, f.admin, dto.PageRequest{})
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]string{f.approved.ID, f.pending.ID, f.rejected.ID, f.foreignApproved.ID}, ids(list),
		"admin ve todo menos borradores")

	list, err = uc.ListOwn(ctx, f.editor, dto.PageRequest{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{f.approved.ID, f.pending.ID}, ids(list),
		"editor ve su organización sin borradores")
	assert.NotEmpty(t, list.Items[0].AccessKey)

	list, err = uc.ListOwn(ctx, f.visitor, dto.PageRequest{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{f.draft.ID, f.rejected.ID}, ids(list), "visitante ve los suyos en cualquier estado")

	_, err = uc.ListOwn(ctx, visibility.Anonymous(), dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrAuthenticationRequired)
}

func TestListOwn_Paginacion(t *testing.T) {
	f := newQueryFixture(t)
	uc := testimonial.NewQueryUseCase(f.e.deps)

	list, err := uc.ListOwn(context.Background(), f.admin, dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
	assert.Equal(t, 2, list.Page.Limit)

	list, err = uc.ListOwn(context.Background(), f.admin, dto.PageRequest{Limit: 500, Offset: 3})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 100, list.Page.Limit)
}

func TestGetByID_Visibilidad(t *testing.T) {
	f := newQueryFixture(t)
	uc := testimonial.NewQueryUseCase(f.e.deps)
	ctx := context.Background()

	_, err := uc.GetByID(ctx, visibility.Anonymous(), f.approved.ID)
	assert.NoError(t, err)

	_, err = uc.GetByID(ctx, visibility.Anonymous(), f.pending.ID)
	assert.ErrorIs(t, err, domain.ErrAuthenticationRequired)

	_, err = uc.GetByID(ctx, f.admin, f.draft.ID)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied, "un borrador ajeno es denegado, no oculto")

	resp, err := uc.GetByID(ctx, f.visitor, f.draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", resp.State)

	_, err = uc.GetByID(ctx, f.editor, f.rejected.ID)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	resp, err = uc.GetByID(ctx, f.editor, f.pending.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AnonymousEmail)

	_, err = uc.GetByID(ctx, f.admin, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
