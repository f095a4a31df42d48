package middleware

import (
	"errors"
	"strings"

	"github.com/arzan03/ShopFront/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TokenCookie is the cookie the signin handler stores the token in.
const TokenCookie = "t"

type Middleware struct {
	auth       *services.AuthService
	users      *services.UserService
	categories *services.CategoryService
	products   *services.ProductService
	log        logrus.FieldLogger
}

// New creates the middleware set.
func New(auth *services.AuthService, users *services.UserService, categories *services.CategoryService, products *services.ProductService, log logrus.FieldLogger) *Middleware {
	return &Middleware{auth: auth, users: users, categories: categories, products: products, log: log}
}

func bearerToken(c *fiber.Ctx) string {
	if header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); header != "" {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return c.Cookies(TokenCookie)
}

// RequireSignin verifies the bearer token from the Authorization header or
// the token cookie.
func (m *Middleware) RequireSignin(c *fiber.Ctx) error {
	token := bearerToken(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token"})
	}

	claims, err := m.auth.VerifyToken(token)
	if err != nil {
		return RespondError(c, m.log, err)
	}

	ScopeOf(c).Auth = claims
	return c.Next()
}

// IsAuth passes only when the token belongs to the user named in the path.
// It must run after RequireSignin and UserByID.
func (m *Middleware) IsAuth(c *fiber.Ctx) error {
	s := ScopeOf(c)
	if s.Auth == nil || s.Profile == nil || s.Profile.ID.Hex() != s.Auth.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied"})
	}
	return c.Next()
}

// IsAdmin passes only when the user named in the path is an administrator.
func (m *Middleware) IsAdmin(c *fiber.Ctx) error {
	s := ScopeOf(c)
	if s.Profile == nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "User profile not found"})
	}
	if !s.Profile.Role.IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Admin resource! Access denied"})
	}
	return c.Next()
}

// IsAdminToken loads the token's user and requires the admin role. It is
// used on routes without a :userId parameter.
func (m *Middleware) IsAdminToken(c *fiber.Ctx) error {
	s := ScopeOf(c)
	if s.Auth == nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied"})
	}

	id, err := primitive.ObjectIDFromHex(s.Auth.UserID)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied"})
	}

	ctx, cancel := RequestContext(c)
	defer cancel()

	user, err := m.users.Get(ctx, id)
	if err != nil {
		var e *services.Error
		if errors.As(err, &e) && e.Kind == services.KindNotFound {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied"})
		}
		return RespondError(c, m.log, err)
	}
	if !user.Role.IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Admin resource! Access denied"})
	}

	s.Actor = user
	return c.Next()
}
