package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/testimonios-api/internal/application/auth"
	"github.com/jhoicas/testimonios-api/internal/application/testimonial"
	"github.com/jhoicas/testimonios-api/internal/application/usecase"
	"github.com/jhoicas/testimonios-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	UserUC         *usecase.UserUseCase
	CategoryUC     *usecase.CategoryUseCase
	OrganizationUC *usecase.OrganizationUseCase
	CreateUC       *testimonial.CreateUseCase
	EditUC         *testimonial.EditUseCase
	QueryUC        *testimonial.QueryUseCase
	ModerationUC   *testimonial.ModerationUseCase
	StatsUC        *testimonial.StatsUseCase
	// Limiter puede ser nil: sin Redis no hay límite de peticiones.
	Limiter         RateLimiter
	PublicRateLimit int
	JWTSecret       string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.JWTSecret)
	optionalAuth := OptionalAuth(deps.JWTSecret)
	publicLimit := RateLimit(deps.Limiter, deps.PublicRateLimit, time.Minute)
	adminOnly := RequireRole(string(entity.RoleAdmin))

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", publicLimit, authHandler.Register)
	authGroup.Post("/login", publicLimit, authHandler.Login)

	// Categorías (público, solo lectura)
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	api.Get("/categories", categoryHandler.List)

	// Usuarios
	users := api.Group("/users", requireAuth)
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", adminOnly, userHandler.Create)
	users.Get("/me", userHandler.Me)
	users.Get("/:id", userHandler.GetByID)
	users.Patch("/:id/role", adminOnly, userHandler.SetRole)

	// Organizaciones: vistas públicas primero, el resto con token
	orgs := api.Group("/organizations")
	orgHandler := NewOrganizationHandler(deps.OrganizationUC, deps.QueryUC)
	orgs.Get("/:id/testimonials/approved", orgHandler.Approved)
	orgs.Get("/:id/feed.xml", orgHandler.Feed)
	orgs.Get("/", optionalAuth, orgHandler.List)
	orgs.Post("/", requireAuth, adminOnly, orgHandler.Create)
	orgs.Get("/:id", requireAuth, orgHandler.GetByID)
	orgs.Patch("/:id", requireAuth, orgHandler.Update)
	orgs.Post("/:id/editors", requireAuth, orgHandler.AddEditors)
	orgs.Post("/:id/visitors", requireAuth, orgHandler.AddVisitors)

	// Alta pública de testimonios (token opcional)
	testimonialHandler := NewTestimonialHandler(deps.CreateUC, deps.EditUC, deps.QueryUC)
	api.Post("/public/testimonials", publicLimit, optionalAuth, testimonialHandler.Create)

	// Testimonios. Las rutas fijas van antes de /:id.
	moderationHandler := NewModerationHandler(deps.ModerationUC, deps.StatsUC)
	testimonials := api.Group("/testimonials")
	testimonials.Get("/", optionalAuth, testimonialHandler.ListPublic)
	testimonials.Get("/mine", requireAuth, testimonialHandler.ListOwn)
	testimonials.Get("/stats", requireAuth, moderationHandler.Stats)
	testimonials.Get("/stats.pdf", requireAuth, moderationHandler.StatsPDF)
	testimonials.Get("/:id", optionalAuth, testimonialHandler.GetByID)
	testimonials.Patch("/:id", requireAuth, testimonialHandler.Update)
	testimonials.Delete("/:id", requireAuth, testimonialHandler.Delete)
	testimonials.Patch("/:id/state", requireAuth, moderationHandler.ChangeState)
	testimonials.Patch("/:id/feedback", requireAuth, moderationHandler.AttachFeedback)
	testimonials.Post("/:id/approve", requireAuth, moderationHandler.Approve)
	testimonials.Post("/:id/reject", requireAuth, moderationHandler.Reject)
}
