package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTestimonialRequest alta pública de un testimonio. La clave de acceso puede venir aquí o en X-API-Key.
type CreateTestimonialRequest struct {
	OrganizationID string          `json:"organizacion"`
	AccessKey      string          `json:"api_key"`
	CategoryID     *string         `json:"categoria"`
	Comment        string          `json:"comentario"`
	Link           string          `json:"enlace"`
	Rating         decimal.Decimal `json:"ranking"`
	AnonymousName  string          `json:"usuario_anonimo_username"`
	AnonymousEmail string          `json:"usuario_anonimo_email"`
}

// UpdateTestimonialRequest parche de un testimonio.
// Campos de contenido solo para el autor; Estado y Feedback pasan por la máquina de estados.
// KeepFiles, si se envía, es la lista de URLs actuales que se conservan.
type UpdateTestimonialRequest struct {
	CategoryID *string          `json:"categoria,omitempty"`
	Comment    *string          `json:"comentario,omitempty"`
	Link       *string          `json:"enlace,omitempty"`
	Rating     *decimal.Decimal `json:"ranking,omitempty"`
	KeepFiles  *[]string        `json:"archivos,omitempty"`
	State      *string          `json:"estado,omitempty"`
	Feedback   *string          `json:"feedback,omitempty"`
}

// HasContent indica si el parche toca algún campo de contenido.
func (r UpdateTestimonialRequest) HasContent() bool {
	return r.CategoryID != nil || r.Comment != nil || r.Link != nil || r.Rating != nil || r.KeepFiles != nil
}

// ChangeStateRequest transición explícita.
type ChangeStateRequest struct {
	State    string  `json:"estado"`
	Feedback *string `json:"feedback,omitempty"`
}

// FeedbackRequest adjuntar feedback (E → R) o rechazar.
type FeedbackRequest struct {
	Feedback string `json:"feedback"`
}

// TestimonialResponse salida de un testimonio.
// AccessKey y AnonymousEmail solo aparecen para admins y editores de la organización.
type TestimonialResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organizacion"`
	CategoryID     *string   `json:"categoria"`
	AuthorID       *string   `json:"usuario_registrado"`
	AnonymousName  string    `json:"usuario_anonimo_username,omitempty"`
	AnonymousEmail string    `json:"usuario_anonimo_email,omitempty"`
	AccessKey      string    `json:"api_key,omitempty"`
	Comment        string    `json:"comentario"`
	Link           string    `json:"enlace,omitempty"`
	Files          []string  `json:"archivos"`
	Rating         string    `json:"ranking"`
	State          string    `json:"estado"`
	StateName      string    `json:"estado_nombre"`
	Feedback       *string   `json:"feedback"`
	CreatedAt      time.Time `json:"fecha_comentario"`
	UpdatedAt      time.Time `json:"fecha_actualizacion"`
}

// TestimonialListResponse listado paginado.
type TestimonialListResponse struct {
	Items []TestimonialResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// OrganizationStatsResponse estadísticas de una organización.
type OrganizationStatsResponse struct {
	OrganizationID   string `json:"organizacion"`
	OrganizationName string `json:"organizacion_nombre"`
	Total            int    `json:"total_testimonios"`
	Approved         int    `json:"testimonios_aprobados"`
	Pending          int    `json:"testimonios_en_espera"`
	Rejected         int    `json:"testimonios_rechazados"`
	Published        int    `json:"testimonios_publicados"`
	Hidden           int    `json:"testimonios_ocultos"`
	AverageRating    string `json:"promedio_ranking"`
}

// StatsResponse estadísticas por organización visibles para el llamador.
type StatsResponse struct {
	Organizations []OrganizationStatsResponse `json:"organizaciones"`
}
