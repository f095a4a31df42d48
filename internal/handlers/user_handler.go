package handlers

import (
	"github.com/arzan03/ShopFront/internal/middleware"
	"github.com/arzan03/ShopFront/internal/services"
	"github.com/gofiber/fiber/v2"
)

// ReadProfile returns the profile named in the path without credentials.
func (h *Handlers) ReadProfile(c *fiber.Ctx) error {
	return c.JSON(middleware.ScopeOf(c).Profile.Public())
}

// UpdateProfile applies a profile update for the signed-in user.
func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	var request services.ProfileUpdate
	if err := c.BodyParser(&request); err != nil {
		return badBody(c)
	}

	ctx, cancel := middleware.RequestContext(c)
	defer cancel()

	user, err := h.users.Update(ctx, middleware.ScopeOf(c).Profile, request)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(user)
}
