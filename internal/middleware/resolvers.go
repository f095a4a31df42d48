package middleware

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func objectIDParam(c *fiber.Ctx, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Params(name))
	return id, err == nil
}

// UserByID loads the :userId path parameter into Scope.Profile.
func (m *Middleware) UserByID(c *fiber.Ctx) error {
	id, ok := objectIDParam(c, "userId")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID format"})
	}

	ctx, cancel := RequestContext(c)
	defer cancel()

	user, err := m.users.Get(ctx, id)
	if err != nil {
		return RespondError(c, m.log, err)
	}
	ScopeOf(c).Profile = user
	return c.Next()
}

// ProductByID loads the :productId path parameter into Scope.Product.
func (m *Middleware) ProductByID(c *fiber.Ctx) error {
	id, ok := objectIDParam(c, "productId")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID format"})
	}

	ctx, cancel := RequestContext(c)
	defer cancel()

	product, err := m.products.Get(ctx, id)
	if err != nil {
		return RespondError(c, m.log, err)
	}
	ScopeOf(c).Product = product
	return c.Next()
}

// CategoryByID loads the :categoryId path parameter into Scope.Category.
func (m *Middleware) CategoryByID(c *fiber.Ctx) error {
	id, ok := objectIDParam(c, "categoryId")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid category ID format"})
	}

	ctx, cancel := RequestContext(c)
	defer cancel()

	category, err := m.categories.Get(ctx, id)
	if err != nil {
		return RespondError(c, m.log, err)
	}
	ScopeOf(c).Category = category
	return c.Next()
}
