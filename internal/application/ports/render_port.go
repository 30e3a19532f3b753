package ports

import (
	"context"

	"github.com/jhoicas/testimonios-api/internal/application/dto"
)

// StatsReportRenderer genera el informe de estadísticas (PDF).
type StatsReportRenderer interface {
	RenderStats(ctx context.Context, title string, stats []dto.OrganizationStatsResponse) ([]byte, error)
}

// FeedOrganization datos de cabecera del feed.
type FeedOrganization struct {
	ID     string
	Name   string
	Domain string
}

// FeedRenderer genera el feed XML público de testimonios aprobados.
type FeedRenderer interface {
	RenderFeed(ctx context.Context, org FeedOrganization, items []dto.TestimonialResponse) ([]byte, error)
}
