package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arzan03/ShopFront/internal/cache"
	"github.com/arzan03/ShopFront/internal/models"
	"github.com/arzan03/ShopFront/internal/store"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const categoriesKey = "categories"

type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=32"`
	Description string `json:"description" validate:"max=2000"`
}

type CategoryService struct {
	categories store.CategoryStore
	products   store.ProductStore
	cache      cache.Cache
	log        logrus.FieldLogger
	now        func() time.Time
}

// NewCategoryService creates the service. products is used to refuse deleting categories in use.
func NewCategoryService(categories store.CategoryStore, products store.ProductStore, c cache.Cache, log logrus.FieldLogger) *CategoryService {
	return &CategoryService{categories: categories, products: products, cache: c, log: log, now: time.Now}
}

// Get loads a category by id.
func (s *CategoryService) Get(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound("Category not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load category: %w", err)
	}
	return category, nil
}

// Create validates and stores a new category.
func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	now := s.now()
	category := &models.Category{Name: in.Name, Description: in.Description, CreatedAt: now, UpdatedAt: now}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, conflict(err)
	}
	s.invalidate(ctx)
	return category, nil
}

// Update replaces the name and description of category.
func (s *CategoryService) Update(ctx context.Context, category *models.Category, in CategoryInput) (*models.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	updated := *category
	updated.Name = in.Name
	updated.Description = in.Description
	updated.UpdatedAt = s.now()
	if err := s.categories.Update(ctx, &updated); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("Category not found")
		}
		return nil, conflict(err)
	}
	s.invalidate(ctx)
	return &updated, nil
}

// Delete removes a category that no product references.
func (s *CategoryService) Delete(ctx context.Context, category *models.Category) error {
	n, err := s.products.Count(ctx, store.ProductFilter{Categories: []primitive.ObjectID{category.ID}})
	if err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if n > 0 {
		return invalid(fmt.Sprintf("Category %s is used by %d product(s) and cannot be deleted", category.Name, n))
	}

	if err := s.categories.Delete(ctx, category.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound("Category not found")
		}
		return fmt.Errorf("delete category: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

// List returns all categories, served from the cache when possible.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if ok, err := s.cache.Get(ctx, categoriesKey, &categories); err != nil {
		s.log.WithError(err).Warn("category cache read failed")
	} else if ok {
		return categories, nil
	}

	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if err := s.cache.Set(ctx, categoriesKey, categories); err != nil {
		s.log.WithError(err).Warn("category cache write failed")
	}
	return categories, nil
}

func (s *CategoryService) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, categoriesKey); err != nil {
		s.log.WithError(err).Warn("category cache invalidation failed")
	}
}
