package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/testimonios-api/internal/application/dto"
	"github.com/jhoicas/testimonios-api/internal/application/testimonial"
)

// ModerationHandler transiciones de estado y estadísticas.
type ModerationHandler struct {
	moderation *testimonial.ModerationUseCase
	stats      *testimonial.StatsUseCase
}

func NewModerationHandler(moderation *testimonial.ModerationUseCase, stats *testimonial.StatsUseCase) *ModerationHandler {
	return &ModerationHandler{moderation: moderation, stats: stats}
}

// ChangeState godoc
// @Summary      Cambiar estado
// @Description  Pasar a R exige feedback no vacío; salir de R lo borra.
// @Tags         moderation
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path  string                  true  "ID del testimonio"
// @Param        body  body  dto.ChangeStateRequest  true  "estado, feedback"
// @Success      200  {object}  dto.TestimonialResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/testimonials/{id}/state [patch]
func (h *ModerationHandler) ChangeState(c *fiber.Ctx) error {
	var in dto.ChangeStateRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.moderation.ChangeState(c.UserContext(), CallerFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AttachFeedback godoc
// @Summary      Adjuntar feedback
// @Description  Sobre un testimonio en espera lo rechaza con el feedback dado.
// @Tags         moderation
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path  string               true  "ID del testimonio"
// @Param        body  body  dto.FeedbackRequest  true  "feedback"
// @Success      200  {object}  dto.TestimonialResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/testimonials/{id}/feedback [patch]
func (h *ModerationHandler) AttachFeedback(c *fiber.Ctx) error {
	var in dto.FeedbackRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.moderation.AttachFeedback(c.UserContext(), CallerFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar
// @Tags         moderation
// @Produce      json
// @Security     Bearer
// @Param        id   path  string  true  "ID del testimonio"
// @Success      200  {object}  dto.TestimonialResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/testimonials/{id}/approve [post]
func (h *ModerationHandler) Approve(c *fiber.Ctx) error {
	out, err := h.moderation.Approve(c.UserContext(), CallerFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar
// @Tags         moderation
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path  string               true  "ID del testimonio"
// @Param        body  body  dto.FeedbackRequest  true  "feedback"
// @Success      200  {object}  dto.TestimonialResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/testimonials/{id}/reject [post]
func (h *ModerationHandler) Reject(c *fiber.Ctx) error {
	var in dto.FeedbackRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.moderation.Reject(c.UserContext(), CallerFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Estadísticas por organización
// @Description  Admin ve todas las organizaciones; un editor las suyas.
// @Tags         moderation
// @Produce      json
// @Security     Bearer
// @Success      200  {object}  dto.StatsResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/testimonials/stats [get]
func (h *ModerationHandler) Stats(c *fiber.Ctx) error {
	out, err := h.stats.Stats(c.UserContext(), CallerFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// StatsPDF godoc
// @Summary      Estadísticas en PDF
// @Tags         moderation
// @Produce      application/pdf
// @Security     Bearer
// @Success      200  {file}  binary
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/testimonials/stats.pdf [get]
func (h *ModerationHandler) StatsPDF(c *fiber.Ctx) error {
	out, err := h.stats.StatsPDF(c.UserContext(), CallerFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="estadisticas-testimonios.pdf"`)
	return c.Send(out)
}
