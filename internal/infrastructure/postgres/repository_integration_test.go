package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/testimonios-api/internal/domain"
	"github.com/jhoicas/testimonios-api/internal/domain/entity"
	"github.com/jhoicas/testimonios-api/internal/domain/repository"
	"github.com/jhoicas/testimonios-api/internal/infrastructure/postgres"
	"github.com/jhoicas/testimonios-api/pkg/config"
)

// Estos tests necesitan una base PostgreSQL desechable: TEST_DATABASE_URL=postgres://... go test ./...
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	mg, err := postgres.NewMigrator(pool, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, mg.Up())
	require.NoError(t, mg.Close())

	_, err = pool.Exec(ctx, `TRUNCATE testimonials, categories, organization_visitors, organization_editors,
		organizations, user_groups, users`)
	require.NoError(t, err)
	return pool
}

func newUser(t *testing.T, repo *postgres.UserRepo, username string, role entity.Role) *entity.User {
	t.Helper()
	u := &entity.User{
		ID:           uuid.New().String(),
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "hash",
		IsActive:     true,
		DateJoined:   time.Now(),
		UpdatedAt:    time.Now(),
	}
	u.AssignRole(role)
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func newOrganization(t *testing.T, repo *postgres.OrganizationRepo, name, dom string) *entity.Organization {
	t.Helper()
	o := &entity.Organization{
		ID:        uuid.New().String(),
		Name:      name,
		Domain:    dom,
		AccessKey: uuid.New().String(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), o))
	return o
}

func newTestimonial(org *entity.Organization, state entity.State, feedback *string) *entity.Testimonial {
	now := time.Now()
	return &entity.Testimonial{
		ID:             uuid.New().String(),
		OrganizationID: org.ID,
		AnonymousName:  "Ana " + uuid.New().String()[:6],
		AnonymousEmail: uuid.New().String()[:6] + "@example.com",
		AccessKey:      org.AccessKey,
		Comment:        "Excelente atención",
		Files:          []string{"/media/a.png"},
		Rating:         decimal.RequireFromString("4.5"),
		State:          state,
		Feedback:       feedback,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Usuarios
// ──────────────────────────────────────────────────────────────────────────────

func TestUserRepo_GruposYUnicidad(t *testing.T) {
	pool := newTestPool(t)
	repo := postgres.NewUserRepository(pool)
	ctx := context.Background()

	u := newUser(t, repo, "vera", entity.RoleVisitor)
	got, err := repo.GetByEmail(ctx, "VERA@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.RoleVisitor, got.Role())

	got.AssignRole(entity.RoleEditor)
	require.NoError(t, repo.Update(ctx, got))
	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []entity.Role{entity.RoleEditor}, got.Groups)

	got.AssignRole(entity.RoleAdmin)
	require.NoError(t, repo.Update(ctx, got))
	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Groups)
	assert.Equal(t, entity.RoleAdmin, got.Role())

	dup := &entity.User{ID: uuid.New().String(), Email: "Vera@Example.com", Username: "otra", PasswordHash: "x"}
	err = repo.Create(ctx, dup)
	assert.ErrorIs(t, err, domain.ErrUniquenessConflict)
	assert.Equal(t, "email", domain.FieldOf(err))

	missing, err := repo.GetByID(ctx, "no-es-uuid")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

// ──────────────────────────────────────────────────────────────────────────────
// Organizaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestOrganizationRepo_UnicidadYMembresia(t *testing.T) {
	pool := newTestPool(t)
	users := postgres.NewUserRepository(pool)
	repo := postgres.NewOrganizationRepository(pool)
	ctx := context.Background()

	org := newOrganization(t, repo, "Acme", "acme.com")
	editor := newUser(t, users, "edu", entity.RoleEditor)

	dup := &entity.Organization{ID: uuid.New().String(), Name: "  ACME ", Domain: "otro.com", AccessKey: uuid.New().String()}
	err := repo.Create(ctx, dup)
	assert.ErrorIs(t, err, domain.ErrUniquenessConflict)
	assert.Equal(t, "organizacion_nombre", domain.FieldOf(err))

	require.NoError(t, repo.AddEditors(ctx, org.ID, []string{editor.ID}))
	require.NoError(t, repo.AddEditors(ctx, org.ID, []string{editor.ID}))

	got, err := repo.GetByAccessKey(ctx, org.AccessKey)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{editor.ID}, got.EditorIDs)

	ok, err := repo.IsEditor(ctx, org.ID, editor.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	list, err := repo.List(ctx, repository.OrganizationFilter{EditorID: editor.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)

	err = repo.AddVisitors(ctx, uuid.New().String(), []string{editor.ID})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	editor.AssignRole(entity.RoleVisitor)
	require.NoError(t, users.Update(ctx, editor))
	ok, err = repo.IsEditor(ctx, org.ID, editor.ID)
	require.NoError(t, err)
	assert.False(t, ok, "al dejar de ser editor sale de la lista de editores")
}

// ──────────────────────────────────────────────────────────────────────────────
// Testimonios
// ──────────────────────────────────────────────────────────────────────────────

func TestTestimonialRepo_FeedbackCheckYTransaccion(t *testing.T) {
	pool := newTestPool(t)
	orgs := postgres.NewOrganizationRepository(pool)
	repo := postgres.NewTestimonialRepository(pool)
	runner := postgres.NewTxRunner(pool)
	ctx := context.Background()

	org := newOrganization(t, orgs, "Acme", "acme.com")
	tm := newTestimonial(org, entity.StatePending, nil)
	require.NoError(t, repo.Create(ctx, tm))

	// R sin feedback viola la constraint de la tabla.
	tm.State = entity.StateRejected
	err := repo.Update(ctx, tm)
	assert.ErrorIs(t, err, domain.ErrMissingFeedback)

	fb := "falta detalle"
	err = runner.RunTestimonial(ctx, func(r repository.TestimonialRepository) error {
		cur, err := r.GetForUpdate(ctx, tm.ID)
		if err != nil {
			return err
		}
		cur.State, cur.Feedback = entity.StateRejected, &fb
		return r.Update(ctx, cur)
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, tm.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StateRejected, got.State)
	require.NotNil(t, got.Feedback)
	assert.Equal(t, fb, *got.Feedback)
	assert.Equal(t, []string{"/media/a.png"}, got.Files)
	assert.True(t, got.Rating.Equal(decimal.RequireFromString("4.5")))
}

func TestTestimonialRepo_AnonimoUnicoYFiltros(t *testing.T) {
	pool := newTestPool(t)
	orgs := postgres.NewOrganizationRepository(pool)
	repo := postgres.NewTestimonialRepository(pool)
	ctx := context.Background()

	org := newOrganization(t, orgs, "Acme", "acme.com")
	approved := newTestimonial(org, entity.StateApproved, nil)
	require.NoError(t, repo.Create(ctx, approved))
	require.NoError(t, repo.Create(ctx, newTestimonial(org, entity.StateDraft, nil)))

	again := newTestimonial(org, entity.StatePending, nil)
	again.AnonymousName, again.AnonymousEmail = approved.AnonymousName, approved.AnonymousEmail
	err := repo.Create(ctx, again)
	assert.ErrorIs(t, err, domain.ErrUniquenessConflict)
	assert.Equal(t, "usuario_anonimo_email", domain.FieldOf(err))

	exists, err := repo.ExistsForAnonymous(ctx, org.ID, approved.AnonymousName, approved.AnonymousEmail)
	require.NoError(t, err)
	assert.True(t, exists)

	public, err := repo.List(ctx, repository.TestimonialFilter{OrganizationID: org.ID, States: []entity.State{entity.StateApproved}})
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, approved.ID, public[0].ID)

	visible, err := repo.List(ctx, repository.TestimonialFilter{ExcludeStates: []entity.State{entity.StateDraft}})
	require.NoError(t, err)
	assert.Len(t, visible, 1)

	stats, err := repo.Stats(ctx, repository.StatsFilter{})
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 1, stats[0].Total, "los borradores no cuentan")
	assert.Equal(t, 1, stats[0].Approved)
	assert.True(t, stats[0].AverageRating.Equal(decimal.RequireFromString("4.5")))
}
