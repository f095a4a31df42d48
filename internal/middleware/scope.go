package middleware

import (
	"context"
	"time"

	"github.com/arzan03/ShopFront/internal/models"
	"github.com/arzan03/ShopFront/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const requestTimeout = 10 * time.Second

type scopeKey struct{}

// Scope holds what the middleware chain resolved for the current request.
type Scope struct {
	// Auth is the verified token payload, set by RequireSignin.
	Auth *services.Claims
	// Actor is the user the token belongs to, set by IsAdminToken.
	Actor *models.User
	// Profile is the user named by the :userId path parameter.
	Profile  *models.User
	Category *models.Category
	Product  *models.Product
}

// ScopeOf returns the request scope, creating it on first use.
func ScopeOf(c *fiber.Ctx) *Scope {
	if s, ok := c.Locals(scopeKey{}).(*Scope); ok {
		return s
	}
	s := &Scope{}
	c.Locals(scopeKey{}, s)
	return s
}

// RequestContext bounds store calls made while serving c.
func RequestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), requestTimeout)
}

// RespondError writes err as a JSON error body. Internal errors are logged
// and replaced by a generic message.
func RespondError(c *fiber.Ctx, log logrus.FieldLogger, err error) error {
	status, msg, internal := services.Describe(err)
	if internal {
		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
		}).Error("request failed")
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
