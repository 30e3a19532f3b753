package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/testimonios-api/internal/application/dto"
	"github.com/jhoicas/testimonios-api/internal/application/testimonial"
	"github.com/jhoicas/testimonios-api/internal/application/usecase"
)

// OrganizationHandler directorio de organizaciones y sus vistas públicas.
type OrganizationHandler struct {
	uc    *usecase.OrganizationUseCase
	query *testimonial.QueryUseCase
}

func NewOrganizationHandler(uc *usecase.OrganizationUseCase, query *testimonial.QueryUseCase) *OrganizationHandler {
	return &OrganizationHandler{uc: uc, query: query}
}

// Create godoc
// @Summary      Crear organización (admin)
// @Description  Normaliza el dominio y genera la clave de acceso.
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body  dto.CreateOrganizationRequest  true  "organizacion_nombre, dominio"
// @Success      201   {object}  dto.OrganizationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/organizations [post]
func (h *OrganizationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrganizationRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), CallerFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar organizaciones
// @Description  Admin ve todas; editores y visitantes solo aquellas de las que son miembros.
// @Description  Sin token devuelve id, nombre y dominio de todas.
// @Tags         organizations
// @Produce      json
// @Security     Bearer
// @Param        limit   query  int  false  "Límite (default 20)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.OrganizationListResponse
// @Router       /api/organizations [get]
func (h *OrganizationHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), CallerFrom(c), pageFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener organización
// @Tags         organizations
// @Produce      json
// @Security     Bearer
// @Param        id   path  string  true  "ID de la organización"
// @Success      200  {object}  dto.OrganizationResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/organizations/{id} [get]
func (h *OrganizationHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), CallerFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar organización (admin)
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path  string                         true  "ID de la organización"
// @Param        body  body  dto.UpdateOrganizationRequest  true  "organizacion_nombre, dominio"
// @Success      200   {object}  dto.OrganizationResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/organizations/{id} [patch]
func (h *OrganizationHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateOrganizationRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), CallerFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AddEditors godoc
// @Summary      Añadir editores (admin)
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path  string                 true  "ID de la organización"
// @Param        body  body  dto.MembershipRequest  true  "user_ids"
// @Success      200   {object}  dto.OrganizationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/organizations/{id}/editors [post]
func (h *OrganizationHandler) AddEditors(c *fiber.Ctx) error {
	var in dto.MembershipRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.AddEditors(c.UserContext(), CallerFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AddVisitors godoc
// @Summary      Añadir visitantes
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path  string                 true  "ID de la organización"
// @Param        body  body  dto.MembershipRequest  true  "user_ids"
// @Success      200   {object}  dto.OrganizationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/organizations/{id}/visitors [post]
func (h *OrganizationHandler) AddVisitors(c *fiber.Ctx) error {
	var in dto.MembershipRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.AddVisitors(c.UserContext(), CallerFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Approved godoc
// @Summary      Testimonios aprobados de una organización (público)
// @Tags         organizations
// @Produce      json
// @Param        id      path   string  true   "ID de la organización"
// @Param        limit   query  int     false  "Límite (default 20)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.TestimonialListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/organizations/{id}/testimonials/approved [get]
func (h *OrganizationHandler) Approved(c *fiber.Ctx) error {
	out, err := h.query.ListApprovedForOrganization(c.UserContext(), c.Params("id"), pageFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Feed godoc
// @Summary      Feed Atom de testimonios aprobados (público)
// @Tags         organizations
// @Produce      xml
// @Param        id   path  string  true  "ID de la organización"
// @Success      200  {string}  string  "application/atom+xml"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/organizations/{id}/feed.xml [get]
func (h *OrganizationHandler) Feed(c *fiber.Ctx) error {
	out, err := h.query.Feed(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/atom+xml; charset=utf-8")
	return c.Send(out)
}
