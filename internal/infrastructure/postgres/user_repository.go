package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/testimonios-api/internal/domain/entity"
	"github.com/jhoicas/testimonios-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `
	u.id, u.email, u.username, u.password_hash, u.is_staff, u.is_superuser, u.is_active, u.date_joined, u.updated_at,
	ARRAY(SELECT g.group_name FROM user_groups g WHERE g.user_id = u.id ORDER BY g.group_name)`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios. Pasar pool o tx.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario junto con su grupo en una sola sentencia.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	user.NormalizeGroups()
	query := `
		WITH u AS (
			INSERT INTO users (id, email, username, password_hash, is_staff, is_superuser, is_active, date_joined, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id
		)
		INSERT INTO user_groups (user_id, group_name)
		SELECT u.id, g FROM u, unnest($10::text[]) AS g`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.Email, user.Username, user.PasswordHash, user.IsStaff, user.IsSuperuser, user.IsActive,
		user.DateJoined, user.UpdatedAt, groupNames(user.Groups),
	)
	return mapWriteError("insert user", err)
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id)
}

// GetByEmail obtiene un usuario por email, sin distinguir mayúsculas.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users u WHERE lower(u.email) = lower($1) LIMIT 1`, email)
}

// GetByIDs obtiene los usuarios existentes entre ids. Los que no existen se omiten.
func (r *UserRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.User, error) {
	ids = onlyUUIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, fmt.Errorf("get users by ids: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// Update actualiza datos y flags del usuario y reemplaza sus grupos. Si deja de ser editor o visitante
// sale también de las listas de membresía correspondientes, en la misma sentencia.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	user.NormalizeGroups()
	query := `
		WITH u AS (
			UPDATE users SET email = $2, username = $3, password_hash = $4, is_staff = $5, is_superuser = $6,
				is_active = $7, updated_at = $8
			WHERE id = $1
			RETURNING id
		), removed AS (
			DELETE FROM user_groups WHERE user_id IN (SELECT id FROM u) AND group_name <> ALL($9::text[])
		), left_editors AS (
			DELETE FROM organization_editors
			WHERE user_id IN (SELECT id FROM u) AND NOT ('editor' = ANY($9::text[]))
		), left_visitors AS (
			DELETE FROM organization_visitors
			WHERE user_id IN (SELECT id FROM u) AND NOT ('visitante' = ANY($9::text[]))
		)
		INSERT INTO user_groups (user_id, group_name)
		SELECT u.id, g FROM u, unnest($9::text[]) AS g
		ON CONFLICT DO NOTHING`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.Email, user.Username, user.PasswordHash, user.IsStaff, user.IsSuperuser, user.IsActive,
		user.UpdatedAt, groupNames(user.Groups),
	)
	return mapWriteError("update user", err)
}

func (r *UserRepo) findOne(ctx context.Context, query string, args ...any) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	var groups []string
	if err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.IsStaff, &u.IsSuperuser, &u.IsActive,
		&u.DateJoined, &u.UpdatedAt, &groups,
	); err != nil {
		return nil, err
	}
	for _, g := range groups {
		if role, ok := entity.ParseRole(g); ok && role.IsGroup() {
			u.Groups = append(u.Groups, role)
		}
	}
	return &u, nil
}

func groupNames(groups []entity.Role) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, string(g))
	}
	return out
}
