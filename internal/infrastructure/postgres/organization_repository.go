package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/testimonios-api/internal/domain"
	"github.com/jhoicas/testimonios-api/internal/domain/entity"
	"github.com/jhoicas/testimonios-api/internal/domain/repository"
	"github.com/jhoicas/testimonios-api/pkg/textnorm"
)

var _ repository.OrganizationRepository = (*OrganizationRepo)(nil)

const organizationColumns = `
	o.id, o.name, o.domain, o.access_key, o.created_at, o.updated_at,
	ARRAY(SELECT e.user_id::text FROM organization_editors e WHERE e.organization_id = o.id ORDER BY e.created_at, e.user_id),
	ARRAY(SELECT v.user_id::text FROM organization_visitors v WHERE v.organization_id = o.id ORDER BY v.created_at, v.user_id)`

// OrganizationRepo implementación de OrganizationRepository sobre PostgreSQL.
// name_key guarda el nombre plegado para que la unicidad no distinga mayúsculas ni espacios.
type OrganizationRepo struct {
	q Querier
}

// NewOrganizationRepository construye el adaptador de organizaciones. Pasar pool o tx.
func NewOrganizationRepository(q Querier) *OrganizationRepo {
	return &OrganizationRepo{q: q}
}

// Create persiste una organización nueva (sin miembros).
func (r *OrganizationRepo) Create(ctx context.Context, org *entity.Organization) error {
	query := `
		INSERT INTO organizations (id, name, name_key, domain, access_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		org.ID, org.Name, textnorm.FoldKey(org.Name), org.Domain, org.AccessKey, org.CreatedAt, org.UpdatedAt,
	)
	return mapWriteError("insert organization", err)
}

// GetByID obtiene una organización con sus editores y visitantes.
func (r *OrganizationRepo) GetByID(ctx context.Context, id string) (*entity.Organization, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.findOne(ctx, `SELECT `+organizationColumns+` FROM organizations o WHERE o.id = $1`, id)
}

// GetByAccessKey resuelve la organización dueña de una clave de acceso.
func (r *OrganizationRepo) GetByAccessKey(ctx context.Context, key string) (*entity.Organization, error) {
	if key == "" {
		return nil, nil
	}
	return r.findOne(ctx, `SELECT `+organizationColumns+` FROM organizations o WHERE o.access_key = $1`, key)
}

// Update modifica nombre y dominio. access_key y created_at no se tocan.
func (r *OrganizationRepo) Update(ctx context.Context, org *entity.Organization) error {
	query := `
		UPDATE organizations SET name = $2, name_key = $3, domain = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, org.ID, org.Name, textnorm.FoldKey(org.Name), org.Domain, org.UpdatedAt)
	if err != nil {
		return mapWriteError("update organization", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista organizaciones ordenadas por nombre.
func (r *OrganizationRepo) List(ctx context.Context, f repository.OrganizationFilter) ([]*entity.Organization, error) {
	var w whereBuilder
	if f.EditorID != "" {
		if !isUUID(f.EditorID) {
			return nil, nil
		}
		w.add(`EXISTS (SELECT 1 FROM organization_editors e WHERE e.organization_id = o.id AND e.user_id = ` + w.arg(f.EditorID) + `)`)
	}
	if f.VisitorID != "" {
		if !isUUID(f.VisitorID) {
			return nil, nil
		}
		w.add(`EXISTS (SELECT 1 FROM organization_visitors v WHERE v.organization_id = o.id AND v.user_id = ` + w.arg(f.VisitorID) + `)`)
	}
	query := `SELECT ` + organizationColumns + ` FROM organizations o` + w.sql() + ` ORDER BY o.name, o.id` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Organization
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// IsEditor indica si userID es editor de orgID.
func (r *OrganizationRepo) IsEditor(ctx context.Context, orgID, userID string) (bool, error) {
	if !isUUID(orgID) || !isUUID(userID) {
		return false, nil
	}
	var ok bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM organization_editors WHERE organization_id = $1 AND user_id = $2)`,
		orgID, userID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("is editor: %w", err)
	}
	return ok, nil
}

// AddEditors agrega editores. Los que ya lo eran se ignoran.
func (r *OrganizationRepo) AddEditors(ctx context.Context, orgID string, userIDs []string) error {
	return r.addMembers(ctx, "organization_editors", orgID, userIDs)
}

// AddVisitors agrega visitantes. Los que ya lo eran se ignoran.
func (r *OrganizationRepo) AddVisitors(ctx context.Context, orgID string, userIDs []string) error {
	return r.addMembers(ctx, "organization_visitors", orgID, userIDs)
}

func (r *OrganizationRepo) addMembers(ctx context.Context, table, orgID string, userIDs []string) error {
	if !isUUID(orgID) {
		return domain.ErrNotFound
	}
	ids := onlyUUIDs(userIDs)
	if len(ids) == 0 {
		return nil
	}
	query := `
		INSERT INTO ` + table + ` (organization_id, user_id)
		SELECT $1::uuid, unnest($2::uuid[])
		ON CONFLICT DO NOTHING`
	_, err := r.q.Exec(ctx, query, orgID, ids)
	return mapWriteError("insert "+table, err)
}

func (r *OrganizationRepo) findOne(ctx context.Context, query string, args ...any) (*entity.Organization, error) {
	o, err := scanOrganization(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return o, nil
}

func scanOrganization(row pgx.Row) (*entity.Organization, error) {
	var o entity.Organization
	if err := row.Scan(
		&o.ID, &o.Name, &o.Domain, &o.AccessKey, &o.CreatedAt, &o.UpdatedAt, &o.EditorIDs, &o.VisitorIDs,
	); err != nil {
		return nil, err
	}
	return &o, nil
}
