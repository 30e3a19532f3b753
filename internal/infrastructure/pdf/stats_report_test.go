package pdf

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/testimonios-api/internal/application/dto"
)

func TestRenderStats_GeneraPDF(t *testing.T) {
	g := NewStatsReport("testimonios-api")
	stats := []dto.OrganizationStatsResponse{
		{OrganizationName: "Acme", Total: 3, Approved: 2, Pending: 1, AverageRating: "4.3"},
		{OrganizationName: "Globex", AverageRating: "0.0"},
	}

	out, err := g.RenderStats(context.Background(), "Estadísticas de testimonios", stats)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderStats_SinOrganizaciones(t *testing.T) {
	out, err := NewStatsReport("x").RenderStats(context.Background(), "Vacío", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestRenderStats_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewStatsReport("x").RenderStats(ctx, "x", nil)
	assert.ErrorIs(t, err, context.Canceled)
}
