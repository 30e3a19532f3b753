package repository

import (
	"context"

	"github.com/jhoicas/testimonios-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// TestimonialFilter describe el conjunto de testimonios visible para un llamador.
// Todas las condiciones no vacías se combinan con AND.
type TestimonialFilter struct {
	OrganizationID string         // un solo tenant
	EditorID       string         // organizaciones donde el usuario es editor
	AuthorID       string         // testimonios del autor registrado
	States         []entity.State // solo estos estados
	ExcludeStates  []entity.State // nunca estos estados
	Limit          int
	Offset         int
}

// StatsFilter restringe el cálculo de estadísticas. Vacío = todas las organizaciones.
type StatsFilter struct {
	EditorID string
}

// OrganizationStats resume los testimonios moderables de una organización. Los borradores no cuentan.
type OrganizationStats struct {
	OrganizationID   string
	OrganizationName string
	Total            int
	Pending          int
	Approved         int
	Rejected         int
	Published        int
	Hidden           int
	AverageRating    decimal.Decimal
}

// TestimonialRepository define el puerto de persistencia para Testimonial (DIP).
// GetForUpdate bloquea la fila y solo tiene sentido dentro de una transacción.
type TestimonialRepository interface {
	Create(ctx context.Context, t *entity.Testimonial) error
	GetByID(ctx context.Context, id string) (*entity.Testimonial, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Testimonial, error)
	Update(ctx context.Context, t *entity.Testimonial) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter TestimonialFilter) ([]*entity.Testimonial, error)
	ExistsForAuthor(ctx context.Context, orgID, authorID string) (bool, error)
	ExistsForAnonymous(ctx context.Context, orgID, name, email string) (bool, error)
	Stats(ctx context.Context, filter StatsFilter) ([]OrganizationStats, error)
}
