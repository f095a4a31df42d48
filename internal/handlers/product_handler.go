package handlers

import (
	"io"

	"github.com/arzan03/ShopFront/internal/middleware"
	"github.com/arzan03/ShopFront/internal/services"
	"github.com/gofiber/fiber/v2"
)

// productForm reads the multipart fields and the optional "photo" file.
func productForm(c *fiber.Ctx) (services.ProductForm, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return services.ProductForm{}, err
	}

	out := services.ProductForm{Fields: make(map[string]string, len(form.Value))}
	for key, values := range form.Value {
		if len(values) > 0 {
			out.Fields[key] = values[0]
		}
	}

	if files := form.File["photo"]; len(files) > 0 {
		fh := files[0]
		out.Photo = &services.PhotoUpload{
			Size:        fh.Size,
			ContentType: fh.Header.Get(fiber.HeaderContentType),
			Open:        func() (io.ReadCloser, error) { return fh.Open() },
		}
	}
	return out, nil
}

// ReadProduct returns the product resolved from the path, without its photo.
func (h *Handlers) ReadProduct(c *fiber.Ctx) error {
	return c.JSON(middleware.ScopeOf(c).Product)
}

// CreateProduct adds a product from a multipart form.
func (h *Handlers) CreateProduct(c *fiber.Ctx) error {
	form, err := productForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Image could not be uploaded"})
	}

	ctx, cancel := middleware.RequestContext(c)
	defer cancel()

	product, err := h.products.Create(ctx, form)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(product)
}

// UpdateProduct replaces a product from a multipart form.
func (h *Handlers) UpdateProduct(c *fiber.Ctx) error {
	form, err := productForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Image could not be uploaded"})
	}

	ctx, cancel := middleware.RequestContext(c)
	defer cancel()

	product, err := h.products.Update(ctx, middleware.ScopeOf(c).Product, form)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(product)
}

// DeleteProduct removes a product and its photo.
func (h *Handlers) DeleteProduct(c *fiber.Ctx) error {
	ctx, cancel := middleware.RequestContext(c)
	defer cancel()

	if err := h.products.Delete(ctx, middleware.ScopeOf(c).Product); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

// ListProducts returns a sorted, limited product listing.
func (h *Handlers) ListProducts(c *fiber.Ctx) error {
	ctx, cancel := middleware.RequestContext(c)
	defer cancel()

	products, err := h.products.List(ctx, services.ListParams{
		SortBy: c.Query("sortBy"),
		Order:  c.Query("order"),
		Limit:  int64(c.QueryInt("limit", 0)),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(products)
}

// SearchProducts filters products by category and price range.
func (h *Handlers) SearchProducts(c *fiber.Ctx) error {
	var request services.SearchParams
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&request); err != nil {
			return badBody(c)
		}
	}

	ctx, cancel := middleware.RequestContext(c)
	defer cancel()

	res, err := h.products.Search(ctx, request)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(res)
}

// TextSearchProducts matches product names, optionally within a category.
func (h *Handlers) TextSearchProducts(c *fiber.Ctx) error {
	ctx, cancel := middleware.RequestContext(c)
	defer cancel()

	products, err := h.products.TextSearch(ctx, c.Query("search"), c.Query("category"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(products)
}

// RelatedProducts returns other products of the same category.
func (h *Handlers) RelatedProducts(c *fiber.Ctx) error {
	ctx, cancel := middleware.RequestContext(c)
	defer cancel()

	products, err := h.products.Related(ctx, middleware.ScopeOf(c).Product, int64(c.QueryInt("limit", 0)))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(products)
}

// ProductCategories returns the ids of categories that have products.
func (h *Handlers) ProductCategories(c *fiber.Ctx) error {
	ctx, cancel := middleware.RequestContext(c)
	defer cancel()

	ids, err := h.products.Categories(ctx)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(ids)
}

// ProductPhoto streams the raw photo bytes with their stored content type.
func (h *Handlers) ProductPhoto(c *fiber.Ctx) error {
	ctx, cancel := middleware.RequestContext(c)
	defer cancel()

	photo, err := h.products.Photo(ctx, middleware.ScopeOf(c).Product)
	if err != nil {
		return h.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, photo.ContentType)
	return c.Send(photo.Data)
}
