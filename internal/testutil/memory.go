// Package testutil contiene implementaciones en memoria de los puertos de persistencia y almacenamiento
// para los tests de aplicación y HTTP. No se usa en producción.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/testimonios-api/internal/domain"
	"github.com/jhoicas/testimonios-api/internal/domain/entity"
	"github.com/jhoicas/testimonios-api/internal/domain/repository"
	"github.com/jhoicas/testimonios-api/pkg/textnorm"
	"github.com/shopspring/decimal"
)

var (
	_ repository.UserRepository         = (*UserRepo)(nil)
	_ repository.OrganizationRepository = (*OrganizationRepo)(nil)
	_ repository.CategoryRepository     = (*CategoryRepo)(nil)
	_ repository.TestimonialRepository  = (*TestimonialRepo)(nil)
)

// Store guarda todas las entidades. Las transacciones de testimonios se serializan y trabajan sobre una copia
// que solo se publica si la función termina sin error.
type Store struct {
	mu           sync.Mutex
	txMu         sync.Mutex
	users        map[string]*entity.User
	orgs         map[string]*entity.Organization
	categories   map[string]*entity.Category
	testimonials map[string]*entity.Testimonial

	// FailUpdate, si no es nil, lo devuelve el próximo TestimonialRepo.Update.
	FailUpdate error
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		users:        map[string]*entity.User{},
		orgs:         map[string]*entity.Organization{},
		categories:   map[string]*entity.Category{},
		testimonials: map[string]*entity.Testimonial{},
	}
}

// Users, Organizations, Categories y Testimonials devuelven repos sobre el almacén.
func (s *Store) Users() *UserRepo                 { return &UserRepo{s: s} }
func (s *Store) Organizations() *OrganizationRepo { return &OrganizationRepo{s: s} }
func (s *Store) Categories() *CategoryRepo        { return &CategoryRepo{s: s} }
func (s *Store) Testimonials() *TestimonialRepo   { return &TestimonialRepo{s: s, data: nil} }

// RunTestimonial implementa testimonial.TxRunner.
func (s *Store) RunTestimonial(ctx context.Context, fn func(repo repository.TestimonialRepository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	work := make(map[string]*entity.Testimonial, len(s.testimonials))
	for id, t := range s.testimonials {
		work[id] = cloneTestimonial(t)
	}
	s.mu.Unlock()

	if err := fn(&TestimonialRepo{s: s, data: work}); err != nil {
		return err
	}
	s.mu.Lock()
	s.testimonials = work
	s.mu.Unlock()
	return nil
}

// Testimonial devuelve una copia del testimonio persistido (nil si no existe).
func (s *Store) Testimonial(id string) *entity.Testimonial {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.testimonials[id]; ok {
		return cloneTestimonial(t)
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Usuarios
// ──────────────────────────────────────────────────────────────────────────────

// UserRepo repositorio de usuarios en memoria.
type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.users {
		if strings.EqualFold(o.Email, u.Email) {
			return domain.Conflict("email", "el email ya está registrado")
		}
		if strings.EqualFold(o.Username, u.Username) {
			return domain.Conflict("username", "el username ya está registrado")
		}
	}
	u.NormalizeGroups()
	c := *u
	c.Groups = append([]entity.Role{}, u.Groups...)
	r.s.users[u.ID] = &c
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) GetByIDs(_ context.Context, ids []string) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.User
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			c := *u
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	u.NormalizeGroups()
	c := *u
	c.Groups = append([]entity.Role{}, u.Groups...)
	r.s.users[u.ID] = &c
	role := c.Role()
	for _, o := range r.s.orgs {
		if role != entity.RoleEditor {
			o.EditorIDs = without(o.EditorIDs, u.ID)
		}
		if role != entity.RoleVisitor {
			o.VisitorIDs = without(o.VisitorIDs, u.ID)
		}
	}
	return nil
}

func without(ids []string, id string) []string {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Organizaciones
// ──────────────────────────────────────────────────────────────────────────────

// OrganizationRepo repositorio de organizaciones en memoria.
type OrganizationRepo struct{ s *Store }

func cloneOrg(o *entity.Organization) *entity.Organization {
	c := *o
	c.EditorIDs = append([]string{}, o.EditorIDs...)
	c.VisitorIDs = append([]string{}, o.VisitorIDs...)
	return &c
}

func (r *OrganizationRepo) checkUnique(o *entity.Organization) error {
	for _, other := range r.s.orgs {
		if other.ID == o.ID {
			continue
		}
		if textnorm.FoldKey(other.Name) == textnorm.FoldKey(o.Name) {
			return domain.Conflict("organizacion_nombre", "ya existe una organización con ese nombre")
		}
		if other.Domain == o.Domain {
			return domain.Conflict("dominio", "ya existe una organización con ese dominio")
		}
		if other.AccessKey == o.AccessKey {
			return domain.Conflict("api_key", "api_key duplicada")
		}
	}
	return nil
}

func (r *OrganizationRepo) Create(_ context.Context, o *entity.Organization) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkUnique(o); err != nil {
		return err
	}
	r.s.orgs[o.ID] = cloneOrg(o)
	return nil
}

func (r *OrganizationRepo) GetByID(_ context.Context, id string) (*entity.Organization, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if o, ok := r.s.orgs[id]; ok {
		return cloneOrg(o), nil
	}
	return nil, nil
}

func (r *OrganizationRepo) GetByAccessKey(_ context.Context, key string) (*entity.Organization, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.orgs {
		if o.AccessKey == key {
			return cloneOrg(o), nil
		}
	}
	return nil, nil
}

func (r *OrganizationRepo) Update(_ context.Context, o *entity.Organization) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.orgs[o.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if err := r.checkUnique(o); err != nil {
		return err
	}
	cur.Name, cur.Domain, cur.UpdatedAt = o.Name, o.Domain, o.UpdatedAt
	return nil
}

func (r *OrganizationRepo) List(_ context.Context, f repository.OrganizationFilter) ([]*entity.Organization, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Organization
	for _, o := range r.s.orgs {
		if f.EditorID != "" && !o.HasEditor(f.EditorID) {
			continue
		}
		if f.VisitorID != "" && !o.HasVisitor(f.VisitorID) {
			continue
		}
		out = append(out, cloneOrg(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, f.Limit, f.Offset), nil
}

func (r *OrganizationRepo) IsEditor(_ context.Context, orgID, userID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orgs[orgID]
	return ok && o.HasEditor(userID), nil
}

func (r *OrganizationRepo) AddEditors(_ context.Context, orgID string, userIDs []string) error {
	return r.add(orgID, userIDs, func(o *entity.Organization) *[]string { return &o.EditorIDs })
}

func (r *OrganizationRepo) AddVisitors(_ context.Context, orgID string, userIDs []string) error {
	return r.add(orgID, userIDs, func(o *entity.Organization) *[]string { return &o.VisitorIDs })
}

func (r *OrganizationRepo) add(orgID string, userIDs []string, set func(*entity.Organization) *[]string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orgs[orgID]
	if !ok {
		return domain.ErrNotFound
	}
	ids := set(o)
	for _, id := range userIDs {
		dup := false
		for _, cur := range *ids {
			dup = dup || cur == id
		}
		if !dup {
			*ids = append(*ids, id)
		}
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Categorías
// ──────────────────────────────────────────────────────────────────────────────

// CategoryRepo repositorio de categorías en memoria.
type CategoryRepo struct{ s *Store }

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.categories {
		if strings.EqualFold(o.Name, c.Name) {
			return domain.Conflict("nombre_categoria", "ya existe una categoría con ese nombre")
		}
	}
	cp := *c
	r.s.categories[c.ID] = &cp
	return nil
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.categories[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Testimonios
// ──────────────────────────────────────────────────────────────────────────────

// TestimonialRepo repositorio de testimonios en memoria. Con data != nil opera sobre la copia de una transacción.
type TestimonialRepo struct {
	s    *Store
	data map[string]*entity.Testimonial
}

func cloneTestimonial(t *entity.Testimonial) *entity.Testimonial {
	c := *t
	c.Files = append([]string(nil), t.Files...)
	if t.Feedback != nil {
		fb := *t.Feedback
		c.Feedback = &fb
	}
	if t.AuthorID != nil {
		a := *t.AuthorID
		c.AuthorID = &a
	}
	if t.CategoryID != nil {
		cat := *t.CategoryID
		c.CategoryID = &cat
	}
	return &c
}

// with ejecuta fn con el mapa adecuado. Fuera de transacción toma el mutex del almacén.
func (r *TestimonialRepo) with(fn func(m map[string]*entity.Testimonial) error) error {
	if r.data != nil {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
		return fn(r.data)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return fn(r.s.testimonials)
}

func (r *TestimonialRepo) Create(_ context.Context, t *entity.Testimonial) error {
	return r.with(func(m map[string]*entity.Testimonial) error {
		for _, o := range m {
			if o.OrganizationID != t.OrganizationID {
				continue
			}
			if !t.IsAnonymous() && !o.IsAnonymous() && *o.AuthorID == *t.AuthorID {
				return domain.Conflict("usuario_registrado", "ya existe un testimonio suyo para esta organización")
			}
			if t.IsAnonymous() && o.IsAnonymous() &&
				strings.EqualFold(o.AnonymousName, t.AnonymousName) && strings.EqualFold(o.AnonymousEmail, t.AnonymousEmail) {
				return domain.Conflict("usuario_anonimo_email", "ya existe un testimonio con ese nombre y email")
			}
		}
		if _, ok := r.s.orgs[t.OrganizationID]; !ok {
			return domain.ErrNotFound
		}
		m[t.ID] = cloneTestimonial(t)
		return nil
	})
}

func (r *TestimonialRepo) GetByID(_ context.Context, id string) (*entity.Testimonial, error) {
	var out *entity.Testimonial
	err := r.with(func(m map[string]*entity.Testimonial) error {
		if t, ok := m[id]; ok {
			out = cloneTestimonial(t)
		}
		return nil
	})
	return out, err
}

func (r *TestimonialRepo) GetForUpdate(ctx context.Context, id string) (*entity.Testimonial, error) {
	return r.GetByID(ctx, id)
}

func (r *TestimonialRepo) Update(_ context.Context, t *entity.Testimonial) error {
	return r.with(func(m map[string]*entity.Testimonial) error {
		if err := r.s.FailUpdate; err != nil {
			r.s.FailUpdate = nil
			return err
		}
		if _, ok := m[t.ID]; !ok {
			return domain.ErrNotFound
		}
		m[t.ID] = cloneTestimonial(t)
		return nil
	})
}

func (r *TestimonialRepo) Delete(_ context.Context, id string) error {
	return r.with(func(m map[string]*entity.Testimonial) error {
		delete(m, id)
		return nil
	})
}

func (r *TestimonialRepo) List(_ context.Context, f repository.TestimonialFilter) ([]*entity.Testimonial, error) {
	var out []*entity.Testimonial
	err := r.with(func(m map[string]*entity.Testimonial) error {
		for _, t := range m {
			if matches(r.s.orgs, t, f) {
				out = append(out, cloneTestimonial(t))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return paginate(out, f.Limit, f.Offset), err
}

func matches(orgs map[string]*entity.Organization, t *entity.Testimonial, f repository.TestimonialFilter) bool {
	if f.OrganizationID != "" && t.OrganizationID != f.OrganizationID {
		return false
	}
	if f.AuthorID != "" && !t.IsAuthoredBy(f.AuthorID) {
		return false
	}
	if f.EditorID != "" {
		o, ok := orgs[t.OrganizationID]
		if !ok || !o.HasEditor(f.EditorID) {
			return false
		}
	}
	if len(f.States) > 0 && !hasState(f.States, t.State) {
		return false
	}
	if hasState(f.ExcludeStates, t.State) {
		return false
	}
	return true
}

func hasState(list []entity.State, s entity.State) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (r *TestimonialRepo) ExistsForAuthor(_ context.Context, orgID, authorID string) (bool, error) {
	found := false
	err := r.with(func(m map[string]*entity.Testimonial) error {
		for _, t := range m {
			found = found || (t.OrganizationID == orgID && t.IsAuthoredBy(authorID))
		}
		return nil
	})
	return found, err
}

func (r *TestimonialRepo) ExistsForAnonymous(_ context.Context, orgID, name, email string) (bool, error) {
	found := false
	err := r.with(func(m map[string]*entity.Testimonial) error {
		for _, t := range m {
			found = found || (t.OrganizationID == orgID && t.IsAnonymous() &&
				strings.EqualFold(t.AnonymousName, name) && strings.EqualFold(t.AnonymousEmail, email))
		}
		return nil
	})
	return found, err
}

func (r *TestimonialRepo) Stats(_ context.Context, f repository.StatsFilter) ([]repository.OrganizationStats, error) {
	var out []repository.OrganizationStats
	err := r.with(func(m map[string]*entity.Testimonial) error {
		for _, o := range r.s.orgs {
			if f.EditorID != "" && !o.HasEditor(f.EditorID) {
				continue
			}
			st := repository.OrganizationStats{OrganizationID: o.ID, OrganizationName: o.Name, AverageRating: decimal.Zero}
			sum := decimal.Zero
			for _, t := range m {
				if t.OrganizationID != o.ID || t.State == entity.StateDraft {
					continue
				}
				st.Total++
				sum = sum.Add(t.Rating)
				switch t.State {
				case entity.StatePending:
					st.Pending++
				case entity.StateApproved:
					st.Approved++
				case entity.StateRejected:
					st.Rejected++
				case entity.StatePublished:
					st.Published++
				case entity.StateHidden:
					st.Hidden++
				}
			}
			if st.Total > 0 {
				st.AverageRating = sum.Div(decimal.NewFromInt(int64(st.Total))).Round(1)
			}
			out = append(out, st)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].OrganizationName < out[j].OrganizationName })
	return out, err
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
