package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/testimonios-api/internal/domain"
	"github.com/jhoicas/testimonios-api/internal/domain/entity"
	"github.com/jhoicas/testimonios-api/internal/domain/repository"
)

var _ repository.TestimonialRepository = (*TestimonialRepo)(nil)

const testimonialColumns = `
	t.id, t.organization_id, t.category_id::text, t.author_id::text, t.anonymous_name, t.anonymous_email,
	t.access_key, t.comment, t.link, t.files, t.rating, t.state, t.feedback, t.created_at, t.updated_at`

// TestimonialRepo implementación de TestimonialRepository sobre PostgreSQL (usable con pool o tx).
type TestimonialRepo struct {
	q Querier
}

// NewTestimonialRepository construye el adaptador de testimonios. Pasar pool o tx (Querier).
func NewTestimonialRepository(q Querier) *TestimonialRepo {
	return &TestimonialRepo{q: q}
}

// Create persiste un testimonio. Las constraints de unicidad por organización se reportan como conflicto.
func (r *TestimonialRepo) Create(ctx context.Context, t *entity.Testimonial) error {
	query := `
		INSERT INTO testimonials (id, organization_id, category_id, author_id, anonymous_name, anonymous_email,
			access_key, comment, link, files, rating, state, feedback, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.OrganizationID, t.CategoryID, t.AuthorID, nullIfEmpty(t.AnonymousName), nullIfEmpty(t.AnonymousEmail),
		t.AccessKey, t.Comment, t.Link, filesOf(t), t.Rating, string(t.State), t.Feedback, t.CreatedAt, t.UpdatedAt,
	)
	return mapWriteError("insert testimonial", err)
}

// GetByID obtiene un testimonio por ID.
func (r *TestimonialRepo) GetByID(ctx context.Context, id string) (*entity.Testimonial, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.findOne(ctx, `SELECT `+testimonialColumns+` FROM testimonials t WHERE t.id = $1`, id)
}

// GetForUpdate obtiene el testimonio bloqueando la fila (SELECT ... FOR UPDATE).
func (r *TestimonialRepo) GetForUpdate(ctx context.Context, id string) (*entity.Testimonial, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.findOne(ctx, `SELECT `+testimonialColumns+` FROM testimonials t WHERE t.id = $1 FOR UPDATE`, id)
}

// Update guarda contenido, estado y feedback. Autor, organización y fecha de creación no cambian.
func (r *TestimonialRepo) Update(ctx context.Context, t *entity.Testimonial) error {
	query := `
		UPDATE testimonials SET category_id = $2, comment = $3, link = $4, files = $5, rating = $6,
			state = $7, feedback = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		t.ID, t.CategoryID, t.Comment, t.Link, filesOf(t), t.Rating, string(t.State), t.Feedback, t.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update testimonial", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un testimonio por ID.
func (r *TestimonialRepo) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM testimonials WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete testimonial: %w", err)
	}
	return nil
}

// List devuelve los testimonios que cumplen el filtro, del más reciente al más antiguo.
func (r *TestimonialRepo) List(ctx context.Context, f repository.TestimonialFilter) ([]*entity.Testimonial, error) {
	var w whereBuilder
	for _, id := range []string{f.OrganizationID, f.EditorID, f.AuthorID} {
		if id != "" && !isUUID(id) {
			return nil, nil
		}
	}
	if f.OrganizationID != "" {
		w.add(`t.organization_id = ` + w.arg(f.OrganizationID))
	}
	if f.EditorID != "" {
		w.add(`EXISTS (SELECT 1 FROM organization_editors e WHERE e.organization_id = t.organization_id AND e.user_id = ` + w.arg(f.EditorID) + `)`)
	}
	if f.AuthorID != "" {
		w.add(`t.author_id = ` + w.arg(f.AuthorID))
	}
	if len(f.States) > 0 {
		w.add(`t.state = ANY(` + w.arg(stateNames(f.States)) + `::text[])`)
	}
	if len(f.ExcludeStates) > 0 {
		w.add(`t.state <> ALL(` + w.arg(stateNames(f.ExcludeStates)) + `::text[])`)
	}
	query := `SELECT ` + testimonialColumns + ` FROM testimonials t` + w.sql() +
		` ORDER BY t.created_at DESC, t.id` + w.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	defer rows.Close()
	var list []*entity.Testimonial
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan testimonial: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// ExistsForAuthor indica si el autor ya tiene un testimonio en la organización.
func (r *TestimonialRepo) ExistsForAuthor(ctx context.Context, orgID, authorID string) (bool, error) {
	if !isUUID(orgID) || !isUUID(authorID) {
		return false, nil
	}
	return r.exists(ctx,
		`SELECT EXISTS (SELECT 1 FROM testimonials WHERE organization_id = $1 AND author_id = $2)`,
		orgID, authorID)
}

// ExistsForAnonymous indica si el par (nombre, email) ya escribió en la organización.
func (r *TestimonialRepo) ExistsForAnonymous(ctx context.Context, orgID, name, email string) (bool, error) {
	if !isUUID(orgID) {
		return false, nil
	}
	return r.exists(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM testimonials
			WHERE organization_id = $1 AND author_id IS NULL
			  AND lower(anonymous_name) = lower($2) AND lower(anonymous_email) = lower($3)
		)`, orgID, name, email)
}

// Stats agrega conteos por estado y ranking promedio sin contar borradores.
// Las organizaciones sin testimonios aparecen con ceros.
func (r *TestimonialRepo) Stats(ctx context.Context, f repository.StatsFilter) ([]repository.OrganizationStats, error) {
	var w whereBuilder
	if f.EditorID != "" {
		if !isUUID(f.EditorID) {
			return nil, nil
		}
		w.add(`EXISTS (SELECT 1 FROM organization_editors e WHERE e.organization_id = o.id AND e.user_id = ` + w.arg(f.EditorID) + `)`)
	}
	query := `
	SELECT
	    o.id,
	    o.name,
	    COUNT(t.id)                                  AS total,
	    COUNT(t.id) FILTER (WHERE t.state = 'E')     AS pending,
	    COUNT(t.id) FILTER (WHERE t.state = 'A')     AS approved,
	    COUNT(t.id) FILTER (WHERE t.state = 'R')     AS rejected,
	    COUNT(t.id) FILTER (WHERE t.state = 'P')     AS published,
		    COUNT(t.id) FILTER (WHERE t.state = 'O')     AS hidden,
	    COALESCE(ROUND(AVG(t.rating), 1), 0)         AS average_rating
	FROM organizations o
	LEFT JOIN testimonials t ON t.organization_id = o.id AND t.state <> 'B'` + w.sql() + `
	GROUP BY o.id, o.name
	ORDER BY o.name`

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("testimonial stats: %w", err)
	}
	defer rows.Close()
	var out []repository.OrganizationStats
	for rows.Next() {
		var s repository.OrganizationStats
		if err := rows.Scan(
			&s.OrganizationID, &s.OrganizationName, &s.Total,
			&s.Pending, &s.Approved, &s.Rejected, &s.Published, &s.Hidden,
			&s.AverageRating,
		); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *TestimonialRepo) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var ok bool
	if err := r.q.QueryRow(ctx, query, args...).Scan(&ok); err != nil {
		return false, fmt.Errorf("testimonial exists: %w", err)
	}
	return ok, nil
}

func (r *TestimonialRepo) findOne(ctx context.Context, query string, args ...any) (*entity.Testimonial, error) {
	t, err := scanTestimonial(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get testimonial: %w", err)
	}
	return t, nil
}

func scanTestimonial(row pgx.Row) (*entity.Testimonial, error) {
	var t entity.Testimonial
	var anonName, anonEmail *string
	var state string
	if err := row.Scan(
		&t.ID, &t.OrganizationID, &t.CategoryID, &t.AuthorID, &anonName, &anonEmail,
		&t.AccessKey, &t.Comment, &t.Link, &t.Files, &t.Rating, &state, &t.Feedback, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if anonName != nil {
		t.AnonymousName = *anonName
	}
	if anonEmail != nil {
		t.AnonymousEmail = *anonEmail
	}
	t.State = entity.State(state)
	return &t, nil
}

func filesOf(t *entity.Testimonial) []string {
	if t.Files == nil {
		return []string{}
	}
	return t.Files
}

func stateNames(states []entity.State) []string {
	out := make([]string, 0, len(states))
	for _, s := range states {
		out = append(out, string(s))
	}
	return out
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
