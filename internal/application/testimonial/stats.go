package testimonial

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/testimonios-api/internal/application/dto"
	"github.com/jhoicas/testimonios-api/internal/domain"
	"github.com/jhoicas/testimonios-api/internal/domain/visibility"
)

// StatsUseCase estadísticas por organización: admin todas, editor las suyas.
type StatsUseCase struct {
	d Deps
}

// NewStatsUseCase construye el caso de uso.
func NewStatsUseCase(d Deps) *StatsUseCase {
	return &StatsUseCase{d: d}
}

// Stats devuelve los contadores por estado y el ranking medio de cada organización visible.
func (uc *StatsUseCase) Stats(ctx context.Context, caller visibility.Caller) (*dto.StatsResponse, error) {
	filter, err := visibility.StatsScope(caller)
	if err != nil {
		return nil, err
	}
	rows, err := uc.d.Testimonials.Stats(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.StatsResponse{Organizations: make([]dto.OrganizationStatsResponse, 0, len(rows))}
	for _, r := range rows {
		out.Organizations = append(out.Organizations, toStatsResponse(r))
	}
	return out, nil
}

// StatsPDF renderiza las mismas estadísticas como informe PDF.
func (uc *StatsUseCase) StatsPDF(ctx context.Context, caller visibility.Caller) ([]byte, error) {
	if uc.d.Reports == nil {
		return nil, domain.ErrNotFound
	}
	stats, err := uc.Stats(ctx, caller)
	if err != nil {
		return nil, err
	}
	title := fmt.Sprintf("Estadísticas de testimonios - %s", time.Now().Format("2006-01-02"))
	return uc.d.Reports.RenderStats(ctx, title, stats.Organizations)
}
