package handlers

import (
	"github.com/arzan03/ShopFront/internal/middleware"
	"github.com/arzan03/ShopFront/internal/services"
	"github.com/gofiber/fiber/v2"
)

// ListCategories returns all categories ordered by name.
func (h *Handlers) ListCategories(c *fiber.Ctx) error {
	ctx, cancel := middleware.RequestContext(c)
	defer cancel()

	categories, err := h.categories.List(ctx)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(categories)
}

// ReadCategory returns the category resolved from the path.
func (h *Handlers) ReadCategory(c *fiber.Ctx) error {
	return c.JSON(middleware.ScopeOf(c).Category)
}

// CreateCategory adds a category.
func (h *Handlers) CreateCategory(c *fiber.Ctx) error {
	var request services.CategoryInput
	if err := c.BodyParser(&request); err != nil {
		return badBody(c)
	}

	ctx, cancel := middleware.RequestContext(c)
	defer cancel()

	category, err := h.categories.Create(ctx, request)
	if err != nil {
		return h.fail(c, err)
	}

	h.log.WithField("category", category.Name).WithField("by", middleware.ScopeOf(c).Actor.Email).Info("category created")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Category created successfully",
		"category": category,
	})
}

// UpdateCategory replaces the name and description of a category.
func (h *Handlers) UpdateCategory(c *fiber.Ctx) error {
	var request services.CategoryInput
	if err := c.BodyParser(&request); err != nil {
		return badBody(c)
	}

	ctx, cancel := middleware.RequestContext(c)
	defer cancel()

	category, err := h.categories.Update(ctx, middleware.ScopeOf(c).Category, request)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(category)
}

// DeleteCategory removes a category no product uses.
func (h *Handlers) DeleteCategory(c *fiber.Ctx) error {
	ctx, cancel := middleware.RequestContext(c)
	defer cancel()

	if err := h.categories.Delete(ctx, middleware.ScopeOf(c).Category); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category deleted successfully"})
}
