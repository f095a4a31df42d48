// Package routes binds the API paths to their middleware chains and handlers.
package routes

import (
	"github.com/arzan03/ShopFront/internal/handlers"
	"github.com/arzan03/ShopFront/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

// Register mounts the API on router. Path resolvers run first, then
// RequireSignin, then the IsAuth/IsAdmin checks that depend on both.
func Register(router fiber.Router, h *handlers.Handlers, mw *middleware.Middleware) {
	// Auth
	router.Post("/signup", h.Signup)
	router.Post("/signin", h.Signin)
	router.Get("/signout", h.Signout)

	// User
	router.Get("/user/:userId", mw.UserByID, mw.RequireSignin, mw.IsAuth, h.ReadProfile)
	router.Put("/user/:userId", mw.UserByID, mw.RequireSignin, mw.IsAuth, h.UpdateProfile)

	// Category
	router.Get("/categories", h.ListCategories)
	router.Get("/category/:categoryId", mw.CategoryByID, h.ReadCategory)
	router.Post("/category", mw.RequireSignin, mw.IsAdminToken, h.CreateCategory)
	router.Put("/category/:categoryId", mw.CategoryByID, mw.RequireSignin, mw.IsAdminToken, h.UpdateCategory)
	router.Delete("/category/:categoryId", mw.CategoryByID, mw.RequireSignin, mw.IsAdminToken, h.DeleteCategory)

	// Product
	router.Get("/product/:productId", mw.ProductByID, h.ReadProduct)
	router.Post("/product/create/:userId", mw.UserByID, mw.RequireSignin, mw.IsAuth, mw.IsAdmin, h.CreateProduct)
	router.Put("/product/:productId/:userId", mw.ProductByID, mw.UserByID, mw.RequireSignin, mw.IsAuth, mw.IsAdmin, h.UpdateProduct)
	router.Delete("/product/:productId/:userId", mw.ProductByID, mw.UserByID, mw.RequireSignin, mw.IsAuth, mw.IsAdmin, h.DeleteProduct)
	router.Get("/product/photo/:productId", mw.ProductByID, h.ProductPhoto)

	router.Get("/products", h.ListProducts)
	router.Get("/products/search", h.TextSearchProducts)
	router.Post("/products/by/search", h.SearchProducts)
	router.Get("/products/related/:productId", mw.ProductByID, h.RelatedProducts)
	router.Get("/products/categories", h.ProductCategories)
}
