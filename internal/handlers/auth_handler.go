package handlers

import (
	"github.com/arzan03/ShopFront/internal/middleware"
	"github.com/arzan03/ShopFront/internal/services"
	"github.com/gofiber/fiber/v2"
)

// Signup registers a new account.
func (h *Handlers) Signup(c *fiber.Ctx) error {
	var request services.SignupInput
	if err := c.BodyParser(&request); err != nil {
		return badBody(c)
	}

	ctx, cancel := middleware.RequestContext(c)
	defer cancel()

	user, err := h.auth.Signup(ctx, request)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// Signin issues a token and stores it in the token cookie.
func (h *Handlers) Signin(c *fiber.Ctx) error {
	var request services.SigninInput
	if err := c.BodyParser(&request); err != nil {
		return badBody(c)
	}

	ctx, cancel := middleware.RequestContext(c)
	defer cancel()

	res, err := h.auth.Signin(ctx, request)
	if err != nil {
		return h.fail(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    res.Token,
		Expires:  res.Expires,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{
		"token": res.Token,
		"user":  res.User.Summary(),
	})
}

// Signout only clears the cookie; issued tokens stay valid until they expire.
func (h *Handlers) Signout(c *fiber.Ctx) error {
	c.ClearCookie(middleware.TokenCookie)
	return c.JSON(fiber.Map{"message": "Signout successful"})
}
