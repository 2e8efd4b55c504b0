package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arthive/illustration-platform/internal/api/http/handlers"
	"github.com/arthive/illustration-platform/internal/authgate"
)

// AuthRouteConfig bundles dependencies for the auth service routes.
type AuthRouteConfig struct {
	Health *handlers.HealthHandler
	Auth   *handlers.AuthHandler
}

// RegisterAuthRoutes wires the auth service HTTP surface.
func RegisterAuthRoutes(app *fiber.App, cfg AuthRouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	group := app.Group("/api/auth")
	group.Post("/register", cfg.Auth.Register)
	group.Post("/login", cfg.Auth.Login)
	group.Post("/validate", cfg.Auth.Validate)
	group.Get("/health", cfg.Auth.Health)
}

// IllustratorRouteConfig bundles dependencies for the illustrator service routes.
type IllustratorRouteConfig struct {
	Health       *handlers.HealthHandler
	Illustrators *handlers.IllustratorsHandler
	Gate         *authgate.Gate
}

// RegisterIllustratorRoutes wires the illustrator service HTTP surface.
// Reads are public; mutations pass through the gate and an identity guard.
func RegisterIllustratorRoutes(app *fiber.App, cfg IllustratorRouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	group := app.Group("/api/illustrators")
	group.Get("/health", cfg.Health.Status)
	group.Get("/user/:userId", cfg.Illustrators.GetByUserID)
	group.Get("/:id", cfg.Illustrators.GetByID)
	group.Get("/", cfg.Illustrators.List)

	protected := group.Group("", cfg.Gate.Authenticate, authgate.RequireIdentity())
	protected.Post("/", cfg.Illustrators.Create)
	protected.Put("/:id", cfg.Illustrators.Update)
	protected.Delete("/:id", cfg.Illustrators.Delete)
}

// ImageRouteConfig bundles dependencies for the image service routes.
type ImageRouteConfig struct {
	Health *handlers.HealthHandler
	Images *handlers.ImagesHandler
	Gate   *authgate.Gate
	// StaticDir, when set, serves locally stored uploads.
	StaticDir string
}

// RegisterImageRoutes wires the image service HTTP surface.
func RegisterImageRoutes(app *fiber.App, cfg ImageRouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	if cfg.StaticDir != "" {
		app.Static("/uploads", cfg.StaticDir)
	}

	group := app.Group("/api/images")
	group.Get("/health", cfg.Health.Status)
	group.Get("/illustrator/:illustratorId", cfg.Images.ListByIllustrator)
	group.Get("/:id", cfg.Images.GetByID)
	group.Get("/", cfg.Images.List)

	protected := group.Group("", cfg.Gate.Authenticate, authgate.RequireIdentity())
	protected.Post("/direct-upload", cfg.Images.DirectUpload)
	protected.Post("/upload-url", cfg.Images.UploadURL)
	protected.Post("/", cfg.Images.Create)
	protected.Put("/:id", cfg.Images.Update)
	protected.Delete("/:id", cfg.Images.Delete)
}
