// Package moderation contiene la máquina de estados de testimonios y las reglas de permisos por rol.
// Todo en este paquete es puro: sin I/O, sin mutar entradas.
package moderation

import "github.com/jhoicas/testimonios-api/internal/domain/entity"

// Relationship describe cómo se relaciona el llamador con un testimonio concreto.
type Relationship struct {
	Role        entity.Role
	IsAuthor    bool // autor registrado del testimonio
	IsOrgEditor bool // editor de la organización del testimonio
}

// Capabilities es lo que el llamador puede hacer sobre el testimonio.
type Capabilities struct {
	AuthorTransitions bool // B→E, E→B, R→B
	Moderate          bool // transiciones entre E, A, R, O, P
	AttachFeedback    bool
	EditContent       bool
	Delete            bool
}

// Any indica si el llamador tiene alguna relación útil con el testimonio.
func (c Capabilities) Any() bool {
	return c.AuthorTransitions || c.Moderate || c.AttachFeedback || c.EditContent || c.Delete
}

// ResolvePermissions deriva las capacidades del rol y la relación. Es el único lugar donde se decide.
func ResolvePermissions(rel Relationship) Capabilities {
	var c Capabilities
	switch rel.Role {
	case entity.RoleAdmin:
		c.Moderate = true
		c.AttachFeedback = true
		c.Delete = true
	case entity.RoleEditor:
		c.Moderate = rel.IsOrgEditor
		c.AttachFeedback = rel.IsOrgEditor
		c.Delete = rel.IsOrgEditor
	case entity.RoleVisitor:
	default:
		return c
	}
	if rel.IsAuthor {
		c.AuthorTransitions = true
		c.EditContent = true
		c.Delete = true
	}
	return c
}
