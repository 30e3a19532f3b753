package entity

import (
	"strings"
	"time"
)

// Role es el rol efectivo de un usuario. Es una variante cerrada: visitante, editor o admin.
type Role string

// Roles válidos. Visitante y editor son grupos persistidos; admin se deriva de los flags staff+superuser.
const (
	RoleVisitor Role = "visitante"
	RoleEditor  Role = "editor"
	RoleAdmin   Role = "admin"
)

// ParseRole acepta el nombre del rol en español o en inglés, sin distinguir mayúsculas.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "visitante", "visitor":
		return RoleVisitor, true
	case "editor":
		return RoleEditor, true
	case "admin", "administrador", "administrator":
		return RoleAdmin, true
	}
	return "", false
}

// IsGroup indica si el rol se persiste como grupo (admin no lo es).
func (r Role) IsGroup() bool {
	return r == RoleVisitor || r == RoleEditor
}

// User representa una cuenta registrada.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Groups       []Role // como máximo uno tras NormalizeGroups; vacío para admin
	IsStaff      bool
	IsSuperuser  bool
	IsActive     bool
	DateJoined   time.Time
	UpdatedAt    time.Time
}

// IsAdmin indica si el usuario tiene ambos flags de administración.
func (u *User) IsAdmin() bool {
	return u.IsStaff && u.IsSuperuser
}

// Role devuelve el rol efectivo. Un usuario sin grupos es visitante.
func (u *User) Role() Role {
	if u.IsAdmin() {
		return RoleAdmin
	}
	for _, g := range u.Groups {
		if g.IsGroup() {
			return g
		}
	}
	return RoleVisitor
}

// NormalizeGroups aplica la regla de un solo rol: admin sin grupos, sin grupos pasa a visitante,
// varios grupos conserva el primero válido. Debe llamarse antes de cada guardado.
func (u *User) NormalizeGroups() {
	if u.IsAdmin() {
		u.Groups = nil
		return
	}
	for _, g := range u.Groups {
		if g.IsGroup() {
			u.Groups = []Role{g}
			return
		}
	}
	u.Groups = []Role{RoleVisitor}
}

// AssignRole reemplaza el rol del usuario. Promover a admin activa staff y superuser y limpia los grupos;
// degradar desactiva ambos flags.
func (u *User) AssignRole(r Role) {
	if r == RoleAdmin {
		u.IsStaff = true
		u.IsSuperuser = true
		u.Groups = nil
		return
	}
	u.IsStaff = false
	u.IsSuperuser = false
	u.Groups = []Role{r}
	u.NormalizeGroups()
}
