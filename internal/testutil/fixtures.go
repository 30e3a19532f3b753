package testutil

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/testimonios-api/internal/domain/entity"
	"github.com/jhoicas/testimonios-api/internal/domain/visibility"
	"github.com/shopspring/decimal"
)

// AddUser crea un usuario con el rol dado y devuelve su Caller.
func (s *Store) AddUser(username string, role entity.Role) visibility.Caller {
	u := &entity.User{
		ID:         uuid.New().String(),
		Email:      fmt.Sprintf("%s@example.com", username),
		Username:   username,
		IsActive:   true,
		DateJoined: time.Now(),
	}
	u.AssignRole(role)
	s.mu.Lock()
	s.users[u.ID] = u
	s.mu.Unlock()
	return visibility.Caller{UserID: u.ID, Role: role}
}

// AddOrganization crea una organización con los editores y visitantes indicados.
func (s *Store) AddOrganization(name string, editors ...visibility.Caller) *entity.Organization {
	o := &entity.Organization{
		ID:        uuid.New().String(),
		Name:      name,
		Domain:    fmt.Sprintf("%s.example.com", uuid.New().String()[:8]),
		AccessKey: uuid.New().String(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	for _, e := range editors {
		o.EditorIDs = append(o.EditorIDs, e.UserID)
	}
	s.mu.Lock()
	s.orgs[o.ID] = cloneOrg(o)
	s.mu.Unlock()
	return o
}

// AddCategory crea una categoría.
func (s *Store) AddCategory(name string) *entity.Category {
	c := &entity.Category{ID: uuid.New().String(), Name: name, CreatedAt: time.Now()}
	s.mu.Lock()
	s.categories[c.ID] = c
	s.mu.Unlock()
	cp := *c
	return &cp
}

// AddTestimonial inserta un testimonio en el estado dado. author vacío = anónimo.
func (s *Store) AddTestimonial(org *entity.Organization, author visibility.Caller, state entity.State, feedback *string) *entity.Testimonial {
	now := time.Now()
	t := &entity.Testimonial{
		ID:             uuid.New().String(),
		OrganizationID: org.ID,
		AccessKey:      org.AccessKey,
		Comment:        "Muy buen servicio",
		Rating:         decimal.RequireFromString("4.5"),
		State:          state,
		Feedback:       feedback,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if author.IsAnonymous() {
		t.AnonymousName = "Ana " + t.ID[:6]
		t.AnonymousEmail = "ana-" + t.ID[:6] + "@example.com"
	} else {
		t.SetAuthor(author.UserID)
	}
	s.mu.Lock()
	s.testimonials[t.ID] = cloneTestimonial(t)
	s.mu.Unlock()
	return t
}
