package repository

import (
	"context"

	"github.com/jhoicas/testimonios-api/internal/domain/entity"
)

// OrganizationFilter restringe un listado de organizaciones.
// Campos vacíos no filtran; EditorID y VisitorID se resuelven contra las tablas de membresía.
type OrganizationFilter struct {
	EditorID  string
	VisitorID string
	Limit     int
	Offset    int
}

// OrganizationRepository define el puerto de persistencia para Organization (DIP).
// GetByID y List devuelven las organizaciones con sus listas de membresía cargadas.
type OrganizationRepository interface {
	Create(ctx context.Context, org *entity.Organization) error
	GetByID(ctx context.Context, id string) (*entity.Organization, error)
	GetByAccessKey(ctx context.Context, key string) (*entity.Organization, error)
	Update(ctx context.Context, org *entity.Organization) error
	List(ctx context.Context, filter OrganizationFilter) ([]*entity.Organization, error)
	IsEditor(ctx context.Context, orgID, userID string) (bool, error)
	AddEditors(ctx context.Context, orgID string, userIDs []string) error
	AddVisitors(ctx context.Context, orgID string, userIDs []string) error
}
