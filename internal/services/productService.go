package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/arzan03/ShopFront/internal/cache"
	"github.com/arzan03/ShopFront/internal/models"
	"github.com/arzan03/ShopFront/internal/storage"
	"github.com/arzan03/ShopFront/internal/store"
	"github.com/arzan03/ShopFront/internal/utils"
	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	productCategoriesKey = "products:categories"
	maxListLimit         = 1000
	relatedLimit         = 6

	msgFieldsRequired = "All fields are required"
	msgPhotoTooLarge  = "Image should be less than 1mb in size"
)

// ListingDefaults are applied when a listing request omits a value.
type ListingDefaults struct {
	SortBy     string
	Descending bool
	Limit      int64
}

var (
	// ListDefaults apply to GET /products.
	ListDefaults = ListingDefaults{SortBy: "created_at", Limit: 6}
	// SearchDefaults apply to POST /products/by/search.
	SearchDefaults = ListingDefaults{SortBy: "_id", Descending: true, Limit: 100}
)

// ProductForm is the multipart submission for creating or updating a product.
type ProductForm struct {
	Fields map[string]string
	Photo  *PhotoUpload
}

type PhotoUpload struct {
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

type ListParams struct {
	SortBy string
	Order  string
	Limit  int64
}

type SearchParams struct {
	SortBy  string        `json:"sortBy"`
	Order   string        `json:"order"`
	Limit   int64         `json:"limit"`
	Skip    int64         `json:"skip"`
	Filters SearchFilters `json:"filters"`
}

type SearchFilters struct {
	Category []string  `json:"category"`
	Price    []float64 `json:"price"`
}

type SearchResult struct {
	Size  int              `json:"size"`
	Total int64            `json:"total"`
	Data  []models.Product `json:"data"`
}

type ProductService struct {
	products   store.ProductStore
	categories store.CategoryStore
	photos     storage.PhotoStore
	cache      cache.Cache
	log        logrus.FieldLogger
	now        func() time.Time
}

// NewProductService creates the service.
func NewProductService(products store.ProductStore, categories store.CategoryStore, photos storage.PhotoStore, c cache.Cache, log logrus.FieldLogger) *ProductService {
	return &ProductService{products: products, categories: categories, photos: photos, cache: c, log: log, now: time.Now}
}

// Get loads a product by id without its photo.
func (s *ProductService) Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound("Product not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	return product, nil
}

type productFields struct {
	name, description string
	price             float64
	category          primitive.ObjectID
	quantity          int
	shipping          bool
}

func parseProductFields(fields map[string]string) (*productFields, error) {
	get := func(key string) string { return strings.TrimSpace(fields[key]) }
	for _, key := range []string{"name", "description", "price", "category", "quantity", "shipping"} {
		if get(key) == "" {
			return nil, invalid(msgFieldsRequired)
		}
	}

	out := &productFields{name: get("name"), description: get("description")}

	var err error
	if out.price, err = strconv.ParseFloat(get("price"), 64); err != nil || !finite(out.price) || out.price < 0 {
		return nil, invalid("Price must be a non-negative number")
	}
	if out.quantity, err = strconv.Atoi(get("quantity")); err != nil || out.quantity < 0 {
		return nil, invalid("Quantity must be a non-negative integer")
	}
	if out.shipping, err = strconv.ParseBool(get("shipping")); err != nil {
		return nil, invalid("Shipping must be true or false")
	}
	if out.category, err = primitive.ObjectIDFromHex(get("category")); err != nil {
		return nil, invalid("Invalid category")
	}
	if len(out.name) > 32 {
		return nil, invalid("Name must be at most 32 characters")
	}
	if len(out.description) > 2000 {
		return nil, invalid("Description must be at most 2000 characters")
	}
	return out, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// readPhoto loads the uploaded photo, enforcing the size limit.
func readPhoto(upload *PhotoUpload) (*models.Photo, error) {
	if upload == nil {
		return nil, nil
	}
	if upload.Size > models.MaxPhotoSize {
		return nil, invalid(msgPhotoTooLarge)
	}

	f, err := upload.Open()
	if err != nil {
		return nil, invalid("Image could not be uploaded")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, models.MaxPhotoSize+1))
	if err != nil {
		return nil, invalid("Image could not be uploaded")
	}
	if len(data) > models.MaxPhotoSize {
		return nil, invalid(msgPhotoTooLarge)
	}
	if len(data) == 0 {
		return nil, nil
	}

	detected := mimetype.Detect(data)
	if !strings.HasPrefix(detected.String(), "image/") {
		return nil, invalid("Photo must be an image")
	}
	contentType := upload.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = detected.String()
	}
	return &models.Photo{Data: data, ContentType: contentType}, nil
}

func (s *ProductService) ensureCategory(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.categories.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return invalid("Category not found")
	}
	if err != nil {
		return fmt.Errorf("load category: %w", err)
	}
	return nil
}

// Create validates the form completely before persisting anything. If the
// photo cannot be stored the product is removed again.
func (s *ProductService) Create(ctx context.Context, form ProductForm) (*models.Product, error) {
	fields, err := parseProductFields(form.Fields)
	if err != nil {
		return nil, err
	}
	photo, err := readPhoto(form.Photo)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, fields.category); err != nil {
		return nil, err
	}

	now := s.now()
	product := &models.Product{
		Name:        fields.name,
		Description: fields.description,
		Price:       fields.price,
		Category:    fields.category,
		Quantity:    fields.quantity,
		Shipping:    fields.shipping,
		HasPhoto:    photo != nil,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if photo != nil {
		if err := s.photos.Put(ctx, product.ID, *photo); err != nil {
			if derr := s.products.Delete(ctx, product.ID); derr != nil {
				s.log.WithError(derr).WithField("product_id", product.ID.Hex()).Error("rollback of product without photo failed")
			}
			return nil, fmt.Errorf("store photo: %w", err)
		}
	}

	s.invalidate(ctx)
	return product, nil
}

// Update replaces all product fields and, if a photo was sent, the photo.
// A failed photo write restores the previous fields.
func (s *ProductService) Update(ctx context.Context, product *models.Product, form ProductForm) (*models.Product, error) {
	fields, err := parseProductFields(form.Fields)
	if err != nil {
		return nil, err
	}
	photo, err := readPhoto(form.Photo)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, fields.category); err != nil {
		return nil, err
	}

	updated := *product
	updated.Name = fields.name
	updated.Description = fields.description
	updated.Price = fields.price
	updated.Category = fields.category
	updated.Quantity = fields.quantity
	updated.Shipping = fields.shipping
	updated.UpdatedAt = s.now()

	if photo != nil {
		updated.HasPhoto = true
	}

	// The document goes first so a photo is never stored for a product
	// that no longer exists.
	if err := s.products.Update(ctx, &updated); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("Product not found")
		}
		return nil, fmt.Errorf("update product: %w", err)
	}

	if photo != nil {
		if err := s.photos.Put(ctx, product.ID, *photo); err != nil {
			if rerr := s.products.Update(ctx, product); rerr != nil {
				s.log.WithError(rerr).WithField("product_id", product.ID.Hex()).Error("restoring product after photo failure failed")
			}
			return nil, fmt.Errorf("store photo: %w", err)
		}
	}

	s.invalidate(ctx)
	return &updated, nil
}

// Delete removes the product document and its photo concurrently.
func (s *ProductService) Delete(ctx context.Context, product *models.Product) error {
	err := utils.Parallel(
		func() error { return s.photos.Delete(ctx, product.ID) },
		func() error { return s.products.Delete(ctx, product.ID) },
	)
	if errors.Is(err, store.ErrNotFound) {
		return notFound("Product not found")
	}
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.invalidate(ctx)
	return nil
}

// Photo returns the stored photo of product.
func (s *ProductService) Photo(ctx context.Context, product *models.Product) (*models.Photo, error) {
	photo, err := s.photos.Get(ctx, product.ID)
	if errors.Is(err, storage.ErrNoPhoto) {
		return nil, notFound("Photo not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load photo: %w", err)
	}
	return photo, nil
}

func parseOrder(order string, fallback bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "":
		return fallback, nil
	case "asc", "ascending", "1":
		return false, nil
	case "desc", "descending", "-1":
		return true, nil
	}
	return false, invalid("Order must be asc or desc")
}

// query builds a store query from caller values, falling back to defaults.
func (d ListingDefaults) query(sortBy, order string, limit, skip int64) (store.ProductQuery, error) {
	q := store.ProductQuery{SortBy: d.SortBy, Limit: d.Limit, Skip: skip}
	if sortBy = strings.TrimSpace(sortBy); sortBy != "" {
		if !store.SortFields[sortBy] {
			return q, invalid("Invalid sort field " + sortBy)
		}
		q.SortBy = sortBy
	}

	var err error
	if q.Descending, err = parseOrder(order, d.Descending); err != nil {
		return q, err
	}

	if limit < 0 || skip < 0 {
		return q, invalid("Limit and skip must not be negative")
	}
	if limit > 0 {
		q.Limit = min(limit, maxListLimit)
	}
	return q, nil
}

// List returns products sorted and limited as requested.
func (s *ProductService) List(ctx context.Context, p ListParams) ([]models.Product, error) {
	q, err := ListDefaults.query(p.SortBy, p.Order, p.Limit, 0)
	if err != nil {
		return nil, err
	}
	products, err := s.products.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Search filters by category and an inclusive price range and pages the
// result. The total match count is fetched alongside the page.
func (s *ProductService) Search(ctx context.Context, p SearchParams) (*SearchResult, error) {
	q, err := SearchDefaults.query(p.SortBy, p.Order, p.Limit, p.Skip)
	if err != nil {
		return nil, err
	}

	for _, hex := range p.Filters.Category {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return nil, invalid("Invalid category " + hex)
		}
		q.Filter.Categories = append(q.Filter.Categories, id)
	}

	switch len(p.Filters.Price) {
	case 0:
	case 2:
		lo, hi := p.Filters.Price[0], p.Filters.Price[1]
		if lo > hi {
			return nil, invalid("Price range minimum exceeds maximum")
		}
		q.Filter.MinPrice, q.Filter.MaxPrice = &lo, &hi
	default:
		return nil, invalid("Price filter must be [min, max]")
	}

	var (
		products []models.Product
		total    int64
	)
	err = utils.Parallel(
		func() (err error) { products, err = s.products.Find(ctx, q); return err },
		func() (err error) { total, err = s.products.Count(ctx, q.Filter); return err },
	)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return &SearchResult{Size: len(products), Total: total, Data: products}, nil
}

// Related lists other products of the same category.
func (s *ProductService) Related(ctx context.Context, product *models.Product, limit int64) ([]models.Product, error) {
	if limit <= 0 {
		limit = relatedLimit
	}
	products, err := s.products.Find(ctx, store.ProductQuery{
		Filter: store.ProductFilter{
			Categories: []primitive.ObjectID{product.Category},
			ExcludeID:  product.ID,
		},
		Limit: min(limit, maxListLimit),
	})
	if err != nil {
		return nil, fmt.Errorf("related products: %w", err)
	}
	return products, nil
}

// TextSearch matches product names, optionally within one category.
func (s *ProductService) TextSearch(ctx context.Context, search, category string) ([]models.Product, error) {
	q := store.ProductQuery{Filter: store.ProductFilter{Search: strings.TrimSpace(search)}, Limit: maxListLimit}
	if category = strings.TrimSpace(category); category != "" && !strings.EqualFold(category, "all") {
		id, err := primitive.ObjectIDFromHex(category)
		if err != nil {
			return nil, invalid("Invalid category " + category)
		}
		q.Filter.Categories = []primitive.ObjectID{id}
	}

	products, err := s.products.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return products, nil
}

// Categories lists the ids of categories that have products.
func (s *ProductService) Categories(ctx context.Context) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	if ok, err := s.cache.Get(ctx, productCategoriesKey, &ids); err != nil {
		s.log.WithError(err).Warn("product category cache read failed")
	} else if ok {
		return ids, nil
	}

	ids, err := s.products.DistinctCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("product categories: %w", err)
	}
	if err := s.cache.Set(ctx, productCategoriesKey, ids); err != nil {
		s.log.WithError(err).Warn("product category cache write failed")
	}
	return ids, nil
}

func (s *ProductService) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, productCategoriesKey); err != nil {
		s.log.WithError(err).Warn("product category cache invalidation failed")
	}
}
