// Package visibility decide qué testimonios y organizaciones puede ver cada llamador.
// Las reglas producen filtros de repositorio; la traducción a SQL vive en la infraestructura.
package visibility

import (
	"github.com/jhoicas/testimonios-api/internal/domain"
	"github.com/jhoicas/testimonios-api/internal/domain/entity"
	"github.com/jhoicas/testimonios-api/internal/domain/repository"
)

// Caller es la identidad del que hace la petición. UserID vacío = anónimo.
type Caller struct {
	UserID string
	Role   entity.Role
}

// Anonymous devuelve un llamador sin identidad.
func Anonymous() Caller { return Caller{} }

// System es el llamador usado por tareas administrativas fuera de HTTP (CLI).
func System() Caller { return Caller{UserID: "system", Role: entity.RoleAdmin} }

// IsAnonymous indica si el llamador no está autenticado.
func (c Caller) IsAnonymous() bool { return c.UserID == "" }

// IsAdmin indica si el llamador es admin autenticado.
func (c Caller) IsAdmin() bool { return !c.IsAnonymous() && c.Role == entity.RoleAdmin }

// View selecciona qué listado se pide.
type View int

const (
	// ViewPublic es el listado público: solo APROBADO.
	ViewPublic View = iota
	// ViewOwn es "mis testimonios" según el rol del llamador.
	ViewOwn
)

// Projection es el nivel de detalle con el que se expone una organización.
type Projection int

const (
	// ProjectionPublic expone id, nombre y dominio.
	ProjectionPublic Projection = iota
	// ProjectionFull añade la clave de acceso y las listas de membresía.
	ProjectionFull
)

// TestimonialScope devuelve el filtro del conjunto visible para caller en la vista dada.
// orgID restringe a una organización; en ViewPublic es obligatorio para anónimos.
func TestimonialScope(caller Caller, view View, orgID string) (repository.TestimonialFilter, error) {
	f := repository.TestimonialFilter{OrganizationID: orgID}
	if view == ViewPublic {
		if caller.IsAnonymous() && orgID == "" {
			return f, domain.Invalid("organizacion", "indique la organización a consultar")
		}
		f.States = []entity.State{entity.StateApproved}
		return f, nil
	}
	if caller.IsAnonymous() {
		return f, domain.NewError(domain.ErrAuthenticationRequired, "", "inicie sesión para ver sus testimonios")
	}
	switch caller.Role {
	case entity.RoleAdmin:
		f.ExcludeStates = []entity.State{entity.StateDraft}
	case entity.RoleEditor:
		f.EditorID = caller.UserID
		f.ExcludeStates = []entity.State{entity.StateDraft}
	case entity.RoleVisitor:
		f.AuthorID = caller.UserID
	default:
		return f, domain.Denied("rol desconocido")
	}
	return f, nil
}

// OrganizationScope devuelve el filtro de organizaciones visibles y la proyección con que se exponen.
func OrganizationScope(caller Caller) (repository.OrganizationFilter, Projection) {
	switch {
	case caller.IsAnonymous():
		return repository.OrganizationFilter{}, ProjectionPublic
	case caller.Role == entity.RoleAdmin:
		return repository.OrganizationFilter{}, ProjectionFull
	case caller.Role == entity.RoleEditor:
		return repository.OrganizationFilter{EditorID: caller.UserID}, ProjectionFull
	default:
		return repository.OrganizationFilter{VisitorID: caller.UserID}, ProjectionPublic
	}
}

// OrganizationProjection decide la proyección de una organización concreta.
func OrganizationProjection(caller Caller, org *entity.Organization) Projection {
	if caller.IsAdmin() || (caller.Role == entity.RoleEditor && org.HasEditor(caller.UserID)) {
		return ProjectionFull
	}
	return ProjectionPublic
}

// CanReadOrganization limita la lectura de una organización concreta al mismo conjunto que el listado:
// admin todas, editor donde es editor, visitante donde es visitante.
func CanReadOrganization(caller Caller, org *entity.Organization) error {
	if caller.IsAnonymous() {
		return domain.NewError(domain.ErrAuthenticationRequired, "", "autenticación requerida")
	}
	switch caller.Role {
	case entity.RoleAdmin:
		return nil
	case entity.RoleEditor:
		if org.HasEditor(caller.UserID) {
			return nil
		}
	case entity.RoleVisitor:
		if org.HasVisitor(caller.UserID) {
			return nil
		}
	}
	return domain.Denied("la organización está fuera de su alcance")
}

// CanManageOrganization permite editar datos y membresías: admin o editor de la organización.
func CanManageOrganization(caller Caller, org *entity.Organization) error {
	if caller.IsAnonymous() {
		return domain.NewError(domain.ErrAuthenticationRequired, "", "autenticación requerida")
	}
	if OrganizationProjection(caller, org) == ProjectionFull {
		return nil
	}
	return domain.Denied("solo un admin o un editor de la organización puede modificarla")
}

// CanReadTestimonial aplica a un registro concreto las mismas reglas que los listados.
// Un APROBADO es público; el resto requiere pertenecer al conjunto de ViewOwn.
func CanReadTestimonial(caller Caller, t *entity.Testimonial, isOrgEditor bool) error {
	if t.State == entity.StateApproved {
		return nil
	}
	if caller.IsAnonymous() {
		return domain.NewError(domain.ErrAuthenticationRequired, "", "autenticación requerida")
	}
	if t.IsAuthoredBy(caller.UserID) {
		return nil
	}
	if t.State == entity.StateDraft {
		return domain.Denied("los borradores solo son visibles para su autor")
	}
	switch caller.Role {
	case entity.RoleAdmin:
		return nil
	case entity.RoleEditor:
		if isOrgEditor {
			return nil
		}
	}
	return domain.Denied("no tiene acceso a este testimonio")
}

// StatsScope decide el alcance de las estadísticas: admin todas, editor las suyas, el resto nada.
func StatsScope(caller Caller) (repository.StatsFilter, error) {
	if caller.IsAnonymous() {
		return repository.StatsFilter{}, domain.NewError(domain.ErrAuthenticationRequired, "", "autenticación requerida")
	}
	switch caller.Role {
	case entity.RoleAdmin:
		return repository.StatsFilter{}, nil
	case entity.RoleEditor:
		return repository.StatsFilter{EditorID: caller.UserID}, nil
	}
	return repository.StatsFilter{}, domain.Denied("las estadísticas son solo para editores y admins")
}
