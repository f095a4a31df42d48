package store

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/arzan03/ShopFront/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryUserStore is a UserStore kept in process memory.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[primitive.ObjectID]models.User)}
}

func (s *MemoryUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return &DuplicateError{Fields: []string{"email"}}
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) Update(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.ID]
	if !ok {
		return ErrNotFound
	}
	for id, u := range s.users {
		if id != user.ID && u.Email == user.Email {
			return &DuplicateError{Fields: []string{"email"}}
		}
	}
	updated := *user
	updated.CreatedAt = existing.CreatedAt
	updated.History = existing.History
	s.users[user.ID] = updated
	return nil
}

// MemoryCategoryStore is a CategoryStore kept in process memory.
type MemoryCategoryStore struct {
	mu         sync.RWMutex
	categories map[primitive.ObjectID]models.Category
}

func NewMemoryCategoryStore() *MemoryCategoryStore {
	return &MemoryCategoryStore{categories: make(map[primitive.ObjectID]models.Category)}
}

func (s *MemoryCategoryStore) Create(_ context.Context, category *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nameTaken(category.ID, category.Name) {
		return &DuplicateError{Fields: []string{"name"}}
	}
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	s.categories[category.ID] = *category
	return nil
}

func (s *MemoryCategoryStore) nameTaken(self primitive.ObjectID, name string) bool {
	for id, c := range s.categories {
		if id != self && c.Name == name {
			return true
		}
	}
	return false
}

func (s *MemoryCategoryStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *MemoryCategoryStore) Update(_ context.Context, category *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.categories[category.ID]
	if !ok {
		return ErrNotFound
	}
	if s.nameTaken(category.ID, category.Name) {
		return &DuplicateError{Fields: []string{"name"}}
	}
	updated := *category
	updated.CreatedAt = existing.CreatedAt
	s.categories[category.ID] = updated
	return nil
}

func (s *MemoryCategoryStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return ErrNotFound
	}
	delete(s.categories, id)
	return nil
}

func (s *MemoryCategoryStore) List(_ context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

// MemoryProductStore is a ProductStore kept in process memory.
type MemoryProductStore struct {
	mu       sync.RWMutex
	products map[primitive.ObjectID]models.Product
}

func NewMemoryProductStore() *MemoryProductStore {
	return &MemoryProductStore{products: make(map[primitive.ObjectID]models.Product)}
}

func (s *MemoryProductStore) Create(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	s.products[product.ID] = *product
	return nil
}

func (s *MemoryProductStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryProductStore) Update(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.products[product.ID]
	if !ok {
		return ErrNotFound
	}
	updated := *product
	updated.CreatedAt = existing.CreatedAt
	s.products[product.ID] = updated
	return nil
}

func (s *MemoryProductStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *MemoryProductStore) Find(_ context.Context, q ProductQuery) ([]models.Product, error) {
	s.mu.RLock()
	matched := s.match(q.Filter)
	s.mu.RUnlock()

	less := productLess(q.SortBy)
	sort.SliceStable(matched, func(i, j int) bool {
		if q.Descending {
			return less(matched[j], matched[i])
		}
		return less(matched[i], matched[j])
	})

	if q.Skip > 0 {
		if q.Skip >= int64(len(matched)) {
			return []models.Product{}, nil
		}
		matched = matched[q.Skip:]
	}
	if q.Limit > 0 && q.Limit < int64(len(matched)) {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

func (s *MemoryProductStore) Count(_ context.Context, f ProductFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.match(f))), nil
}

func (s *MemoryProductStore) DistinctCategories(_ context.Context) ([]primitive.ObjectID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[primitive.ObjectID]bool)
	ids := []primitive.ObjectID{}
	for _, p := range s.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			ids = append(ids, p.Category)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Hex() < ids[j].Hex() })
	return ids, nil
}

// match must be called with s.mu held.
func (s *MemoryProductStore) match(f ProductFilter) []models.Product {
	out := []models.Product{}
	for _, p := range s.products {
		if len(f.Categories) > 0 && !containsID(f.Categories, p.Category) {
			continue
		}
		// A range never matches NaN, as with $gte/$lte.
		if (f.MinPrice != nil || f.MaxPrice != nil) && math.IsNaN(p.Price) {
			continue
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
			continue
		}
		if !f.ExcludeID.IsZero() && p.ID == f.ExcludeID {
			continue
		}
		out = append(out, p)
	}
	return out
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// productLess orders by field and then by id, as the mongo store does.
func productLess(field string) func(a, b models.Product) bool {
	byID := func(a, b models.Product) bool { return a.ID.Hex() < b.ID.Hex() }
	then := func(cmp func(a, b models.Product) int) func(a, b models.Product) bool {
		return func(a, b models.Product) bool {
			if c := cmp(a, b); c != 0 {
				return c < 0
			}
			return byID(a, b)
		}
	}

	switch field {
	case "name":
		return then(func(a, b models.Product) int { return strings.Compare(a.Name, b.Name) })
	case "price":
		return then(func(a, b models.Product) int { return compareFloat(a.Price, b.Price) })
	case "sold":
		return then(func(a, b models.Product) int { return a.Sold - b.Sold })
	case "quantity":
		return then(func(a, b models.Product) int { return a.Quantity - b.Quantity })
	case "created_at":
		return then(func(a, b models.Product) int { return a.CreatedAt.Compare(b.CreatedAt) })
	case "updated_at":
		return then(func(a, b models.Product) int { return a.UpdatedAt.Compare(b.UpdatedAt) })
	default:
		return byID
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
