package app

import (
	"context"
	"errors"

	"github.com/arzan03/ShopFront/internal/cache"
	"github.com/arzan03/ShopFront/internal/config"
	"github.com/arzan03/ShopFront/internal/handlers"
	"github.com/arzan03/ShopFront/internal/metrics"
	"github.com/arzan03/ShopFront/internal/middleware"
	"github.com/arzan03/ShopFront/internal/routes"
	"github.com/arzan03/ShopFront/internal/services"
	"github.com/arzan03/ShopFront/internal/storage"
	"github.com/arzan03/ShopFront/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

// Deps are the backends the HTTP server is built on.
type Deps struct {
	Users      store.UserStore
	Categories store.CategoryStore
	Products   store.ProductStore
	Photos     storage.PhotoStore
	Cache      cache.Cache
	// Ping checks the database for /healthz.
	Ping func(context.Context) error
}

// NewServer wires services, middleware and routes into a fiber app.
func NewServer(cfg *config.Config, log *logrus.Logger, deps Deps) *fiber.App {
	if deps.Cache == nil {
		deps.Cache = cache.Noop{}
	}

	auth := services.NewAuthService(deps.Users, services.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL), cfg.AdminEmails)
	users := services.NewUserService(deps.Users)
	categories := services.NewCategoryService(deps.Categories, deps.Products, deps.Cache, log)
	products := services.NewProductService(deps.Products, deps.Categories, deps.Photos, deps.Cache, log)

	h := handlers.New(auth, users, categories, products, log)
	mw := middleware.New(auth, users, categories, products, log)
	m := metrics.New()

	server := fiber.New(fiber.Config{
		AppName:      "ShopFront",
		ErrorHandler: errorHandler(log),
	})

	server.Use(recover.New())
	server.Use(logger.New(logger.Config{Output: log.Out}))
	server.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))
	server.Use(m.Middleware())

	server.Get("/healthz", handlers.Health(deps.Ping, log))
	server.Get("/metrics", m.Handler())
	routes.Register(server.Group("/api"), h, mw)

	return server
}

// errorHandler turns errors escaping the handlers into JSON responses.
func errorHandler(log logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}
		return middleware.RespondError(c, log, err)
	}
}
