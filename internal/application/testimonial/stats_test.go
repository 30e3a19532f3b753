package testimonial_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/testimonios-api/internal/application/dto"
	"github.com/jhoicas/testimonios-api/internal/application/ports"
	"github.com/jhoicas/testimonios-api/internal/application/testimonial"
	"github.com/jhoicas/testimonios-api/internal/domain"
	"github.com/jhoicas/testimonios-api/internal/domain/entity"
	"github.com/jhoicas/testimonios-api/internal/domain/visibility"
)

type fakeRenderer struct {
	title string
	stats []dto.OrganizationStatsResponse
	org   ports.FeedOrganization
	items []dto.TestimonialResponse
}

func (r *fakeRenderer) RenderStats(_ context.Context, title string, stats []dto.OrganizationStatsResponse) ([]byte, error) {
	r.title, r.stats = title, stats
	return []byte("%PDF-"), nil
}

func (r *fakeRenderer) RenderFeed(_ context.Context, org ports.FeedOrganization, items []dto.TestimonialResponse) ([]byte, error) {
	r.org, r.items = org, items
	return []byte("<feed/>"), nil
}

func TestStats_AlcancePorRol(t *testing.T) {
	f := newQueryFixture(t)
	uc := testimonial.NewStatsUseCase(f.e.deps)
	ctx := context.Background()

	out, err := uc.Stats(ctx, f.admin)
	require.NoError(t, err)
	require.Len(t, out.Organizations, 2)
	acme := out.Organizations[0]
	assert.Equal(t, "Acme", acme.OrganizationName)
	assert.Equal(t, 2, acme.Total, "el borrador no cuenta")
	assert.Equal(t, 1, acme.Approved)
	assert.Equal(t, 1, acme.Pending)
	assert.Equal(t, "4.5", acme.AverageRating)

	out, err = uc.Stats(ctx, f.editor)
	require.NoError(t, err)
	require.Len(t, out.Organizations, 1)
	assert.Equal(t, f.acme.ID, out.Organizations[0].OrganizationID)
	assert.Equal(t, 2, out.Organizations[0].Total, "el editor no ve borradores tampoco en estadísticas")

	_, err = uc.Stats(ctx, f.visitor)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestStats_PromedioRedondeado(t *testing.T) {
	e := newEnv(t)
	admin := e.store.AddUser("root", entity.RoleAdmin)
	org := e.store.AddOrganization("Acme")
	create := testimonial.NewCreateUseCase(e.deps)
	for i, r := range []string{"5", "4", "4"} {
		in := anonymousRequest(org, "Cliente", "c"+string(rune('a'+i))+"@x.co")
		in.Rating = decimal.RequireFromString(r)
		_, err := create.Create(context.Background(), visibility.Anonymous(), in, nil)
		require.NoError(t, err)
	}

	out, err := testimonial.NewStatsUseCase(e.deps).Stats(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, "4.3", out.Organizations[0].AverageRating)
	assert.Equal(t, 3, out.Organizations[0].Pending)
}

func TestStatsPDF_UsaElRenderizador(t *testing.T) {
	f := newQueryFixture(t)
	r := &fakeRenderer{}
	f.e.deps.Reports = r

	pdf, err := testimonial.NewStatsUseCase(f.e.deps).StatsPDF(context.Background(), f.editor)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-"), pdf)
	assert.Len(t, r.stats, 1)
	assert.Contains(t, r.title, "Estadísticas")
}

func TestFeed_SoloAprobadosDeLaOrganizacion(t *testing.T) {
	f := newQueryFixture(t)
	r := &fakeRenderer{}
	f.e.deps.Feed = r

	_, err := testimonial.NewQueryUseCase(f.e.deps).Feed(context.Background(), f.acme.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", r.org.Name)
	require.Len(t, r.items, 1)
	assert.Equal(t, f.approved.ID, r.items[0].ID)
}
