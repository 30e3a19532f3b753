package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jhoicas/testimonios-api/internal/application/auth"
	"github.com/jhoicas/testimonios-api/internal/application/ports"
	"github.com/jhoicas/testimonios-api/internal/application/testimonial"
	"github.com/jhoicas/testimonios-api/internal/application/usecase"
	"github.com/jhoicas/testimonios-api/internal/infrastructure/cache"
	"github.com/jhoicas/testimonios-api/internal/infrastructure/feed"
	infrapdf "github.com/jhoicas/testimonios-api/internal/infrastructure/pdf"
	"github.com/jhoicas/testimonios-api/internal/infrastructure/postgres"
	"github.com/jhoicas/testimonios-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/testimonios-api/internal/interfaces/http"
	"github.com/jhoicas/testimonios-api/pkg/config"
	"github.com/jhoicas/testimonios-api/pkg/logger"
)

// bodyLimit cubre cuatro archivos de 5 MB más los campos del formulario.
const bodyLimit = 25 << 20

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		AppName: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.App.MigrateOnStart {
		migrator, err := postgres.NewMigrator(pool, log.Component("migrate"))
		if err != nil {
			log.Fatal().Err(err).Msg("preparar migraciones")
		}
		if err := migrator.Up(); err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
		_ = migrator.Close()
	}

	// Redis es opcional: sin él no hay caché de api_key ni límite de envíos públicos.
	var (
		keyCache ports.OrganizationKeyCache
		limiter  httpRouter.RateLimiter
	)
	if cfg.Redis.Enabled() {
		redisClient, err := cache.NewClient(ctx, cfg.Redis, log.Component("redis"))
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis no disponible, se continúa sin caché")
		} else {
			defer redisClient.Close()
			keyCache = redisClient
			limiter = redisClient
		}
	}

	files, err := storage.NewLocalStorage(cfg.Storage.Dir, cfg.Storage.BaseURL, log.Component("storage"))
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Storage.Dir).Msg("almacenamiento de archivos")
	}

	userRepo := postgres.NewUserRepository(pool)
	orgRepo := postgres.NewOrganizationRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)

	deps := testimonial.Deps{
		Testimonials:  postgres.NewTestimonialRepository(pool),
		Organizations: orgRepo,
		Categories:    categoryRepo,
		Tx:            postgres.NewTxRunner(pool),
		Storage:       files,
		KeyCache:      keyCache,
		Reports:       infrapdf.NewStatsReport(cfg.App.Name),
		Feed:          feed.NewAtomFeed(),
		MaxFileBytes:  cfg.Storage.MaxFileBytes,
		Log:           log.Component("testimonial"),
	}

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    bodyLimit,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))
	app.Use(helmet.New(helmet.Config{CrossOriginResourcePolicy: "cross-origin"}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + httpRouter.HeaderAPIKey,
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.Docs.Enabled {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.Docs.FilePath,
			Path:     "docs",
			Title:    "Testimonios API",
		}))
	}

	app.Static(cfg.Storage.BaseURL, cfg.Storage.Dir, fiber.Static{ByteRange: true})

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		UserUC:          usecase.NewUserUseCase(userRepo, log.Component("user")),
		CategoryUC:      usecase.NewCategoryUseCase(categoryRepo),
		OrganizationUC:  usecase.NewOrganizationUseCase(orgRepo, userRepo, log.Component("organization")),
		CreateUC:        testimonial.NewCreateUseCase(deps),
		EditUC:          testimonial.NewEditUseCase(deps),
		QueryUC:         testimonial.NewQueryUseCase(deps),
		ModerationUC:    testimonial.NewModerationUseCase(deps),
		StatsUC:         testimonial.NewStatsUseCase(deps),
		Limiter:         limiter,
		PublicRateLimit: cfg.HTTP.PublicRateLimit,
		JWTSecret:       cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
