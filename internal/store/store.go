// Package store persists users, categories and products. Every store has a
// MongoDB implementation and an in-memory one with the same semantics.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/arzan03/ShopFront/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when no record matches the lookup.
var ErrNotFound = errors.New("record not found")

// DuplicateError reports a unique index violation on Fields.
type DuplicateError struct {
	Fields []string
	Err    error
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate key on %s", strings.Join(e.Fields, ", "))
}

func (e *DuplicateError) Unwrap() error { return e.Err }

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

type CategoryStore interface {
	Create(ctx context.Context, category *models.Category) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context) ([]models.Category, error)
}

type ProductStore interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Find(ctx context.Context, q ProductQuery) ([]models.Product, error)
	Count(ctx context.Context, f ProductFilter) (int64, error)
	DistinctCategories(ctx context.Context) ([]primitive.ObjectID, error)
}

// ProductFilter narrows a product listing. Zero values mean "no constraint".
type ProductFilter struct {
	Categories []primitive.ObjectID
	// MinPrice and MaxPrice bound the price inclusively.
	MinPrice *float64
	MaxPrice *float64
	// Search matches product names case-insensitively.
	Search    string
	ExcludeID primitive.ObjectID
}

type ProductQuery struct {
	Filter     ProductFilter
	SortBy     string
	Descending bool
	Skip       int64
	Limit      int64
}

// SortFields lists the product fields a listing may be sorted by.
var SortFields = map[string]bool{
	"_id":        true,
	"name":       true,
	"price":      true,
	"sold":       true,
	"quantity":   true,
	"created_at": true,
	"updated_at": true,
}
