package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/testimonios-api/internal/application/dto"
	"github.com/jhoicas/testimonios-api/internal/application/ports"
	"github.com/jhoicas/testimonios-api/internal/application/testimonial"
)

// HeaderAPIKey cabecera alternativa para la clave de acceso de la organización.
const HeaderAPIKey = "X-API-Key"

// TestimonialHandler alta, consulta, edición y borrado de testimonios.
type TestimonialHandler struct {
	create *testimonial.CreateUseCase
	edit   *testimonial.EditUseCase
	query  *testimonial.QueryUseCase
}

func NewTestimonialHandler(create *testimonial.CreateUseCase, edit *testimonial.EditUseCase, query *testimonial.QueryUseCase) *TestimonialHandler {
	return &TestimonialHandler{create: create, edit: edit, query: query}
}

// Create godoc
// @Summary      Enviar testimonio (público)
// @Description  multipart/form-data (con archivos en "archivos") o JSON. La clave de acceso va en X-API-Key o en api_key.
// @Description  Con token Bearer el autor es el usuario; sin token se exigen usuario_anonimo_username y usuario_anonimo_email.
// @Tags         testimonials
// @Accept       json,mpfd
// @Produce      json
// @Param        X-API-Key  header  string                        false  "Clave de acceso de la organización"
// @Param        body       body    dto.CreateTestimonialRequest  false  "Testimonio (JSON)"
// @Success      201  {object}  dto.TestimonialResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/public/testimonials [post]
func (h *TestimonialHandler) Create(c *fiber.Ctx) error {
	var (
		in    dto.CreateTestimonialRequest
		files []ports.UploadFile
	)
	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return badRequest(c, "INVALID_BODY", "formulario inválido")
		}
		rating, err := formRating(form)
		if err != nil {
			return badRequest(c, "VALIDATION", err.Error())
		}
		if rating != nil {
			in.Rating = *rating
		}
		in.OrganizationID = formValue(form, "organizacion")
		in.AccessKey = formValue(form, "api_key")
		in.CategoryID = formOptional(form, "categoria")
		in.Comment = formValue(form, "comentario")
		in.Link = formValue(form, "enlace")
		in.AnonymousName = formValue(form, "usuario_anonimo_username")
		in.AnonymousEmail = formValue(form, "usuario_anonimo_email")
		if files, err = formFiles(form); err != nil {
			return badRequest(c, "INVALID_BODY", err.Error())
		}
	} else if ok, err := parseBody(c, &in); !ok {
		return err
	}
	if in.AccessKey == "" {
		in.AccessKey = c.Get(HeaderAPIKey)
	}

	out, err := h.create.Create(c.UserContext(), CallerFrom(c), in, files)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListPublic godoc
// @Summary      Listar testimonios aprobados (público)
// @Tags         testimonials
// @Produce      json
// @Param        organizacion  query  string  false  "Organización (obligatoria sin token)"
// @Param        limit         query  int     false  "Límite (default 20)"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.TestimonialListResponse
// @Router       /api/testimonials [get]
func (h *TestimonialHandler) ListPublic(c *fiber.Ctx) error {
	out, err := h.query.ListPublic(c.UserContext(), CallerFrom(c), c.Query("organizacion"), pageFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListOwn godoc
// @Summary      Mis testimonios
// @Tags         testimonials
// @Produce      json
// @Security     Bearer
// @Param        limit   query  int  false  "Límite (default 20)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.TestimonialListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/testimonials/mine [get]
func (h *TestimonialHandler) ListOwn(c *fiber.Ctx) error {
	out, err := h.query.ListOwn(c.UserContext(), CallerFrom(c), pageFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener testimonio
// @Tags         testimonials
// @Produce      json
// @Param        id   path  string  true  "ID del testimonio"
// @Success      200  {object}  dto.TestimonialResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/testimonials/{id} [get]
func (h *TestimonialHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.query.GetByID(c.UserContext(), CallerFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar testimonio
// @Description  Campos de contenido solo para el autor. estado y feedback pasan por la máquina de estados.
// @Description  En multipart, los valores de "archivos" son las URLs que se conservan y los archivos de "archivos" se añaden.
// @Tags         testimonials
// @Accept       json,mpfd
// @Produce      json
// @Security     Bearer
// @Param        id    path  string                        true   "ID del testimonio"
// @Param        body  body  dto.UpdateTestimonialRequest  false  "Parche (JSON)"
// @Success      200  {object}  dto.TestimonialResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/testimonials/{id} [patch]
func (h *TestimonialHandler) Update(c *fiber.Ctx) error {
	var (
		in    dto.UpdateTestimonialRequest
		files []ports.UploadFile
	)
	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return badRequest(c, "INVALID_BODY", "formulario inválido")
		}
		if in.Rating, err = formRating(form); err != nil {
			return badRequest(c, "VALIDATION", err.Error())
		}
		in.CategoryID = formOptional(form, "categoria")
		in.Comment = formOptional(form, "comentario")
		in.Link = formOptional(form, "enlace")
		in.State = formOptional(form, "estado")
		in.Feedback = formOptional(form, "feedback")
		in.KeepFiles = formKeepFiles(form)
		if files, err = formFiles(form); err != nil {
			return badRequest(c, "INVALID_BODY", err.Error())
		}
	} else if ok, err := parseBody(c, &in); !ok {
		return err
	}

	out, err := h.edit.Update(c.UserContext(), CallerFrom(c), c.Params("id"), in, files)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar testimonio
// @Description  El autor o un admin. Los archivos se eliminan después, sin afectar la respuesta.
// @Tags         testimonials
// @Security     Bearer
// @Param        id   path  string  true  "ID del testimonio"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/testimonials/{id} [delete]
func (h *TestimonialHandler) Delete(c *fiber.Ctx) error {
	if err := h.edit.Delete(c.UserContext(), CallerFrom(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
