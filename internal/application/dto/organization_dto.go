package dto

import "time"

// CreateOrganizationRequest alta de organización (admin).
type CreateOrganizationRequest struct {
	Name   string `json:"organizacion_nombre"`
	Domain string `json:"dominio"`
}

// UpdateOrganizationRequest parche de organización: solo nombre y dominio.
type UpdateOrganizationRequest struct {
	Name   *string `json:"organizacion_nombre,omitempty"`
	Domain *string `json:"dominio,omitempty"`
}

// MembershipRequest usuarios a añadir como editores o visitantes.
type MembershipRequest struct {
	UserIDs []string `json:"user_ids"`
}

// OrganizationResponse proyección de una organización.
// AccessKey, EditorIDs y VisitorIDs solo se rellenan en la proyección completa.
type OrganizationResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"organizacion_nombre"`
	Domain     string     `json:"dominio"`
	AccessKey  string     `json:"api_key,omitempty"`
	EditorIDs  []string   `json:"editores,omitempty"`
	VisitorIDs []string   `json:"visitantes,omitempty"`
	CreatedAt  *time.Time `json:"fecha_registro,omitempty"`
}

// OrganizationListResponse listado paginado.
type OrganizationListResponse struct {
	Items []OrganizationResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}
