package handlers

import (
	"github.com/arzan03/ShopFront/internal/middleware"
	"github.com/arzan03/ShopFront/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Handlers serves the API endpoints on top of the services.
type Handlers struct {
	auth       *services.AuthService
	users      *services.UserService
	categories *services.CategoryService
	products   *services.ProductService
	log        logrus.FieldLogger
}

// New creates the handler set.
func New(auth *services.AuthService, users *services.UserService, categories *services.CategoryService, products *services.ProductService, log logrus.FieldLogger) *Handlers {
	return &Handlers{auth: auth, users: users, categories: categories, products: products, log: log}
}

func (h *Handlers) fail(c *fiber.Ctx, err error) error {
	return middleware.RespondError(c, h.log, err)
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
}
