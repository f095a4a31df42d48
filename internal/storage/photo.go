// Package storage keeps product photos, either inline in the product
// document or in an S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/arzan03/ShopFront/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNoPhoto is returned when a product has no stored photo.
var ErrNoPhoto = errors.New("photo not found")

type PhotoStore interface {
	Put(ctx context.Context, productID primitive.ObjectID, photo models.Photo) error
	Get(ctx context.Context, productID primitive.ObjectID) (*models.Photo, error)
	Delete(ctx context.Context, productID primitive.ObjectID) error
}

// MemoryPhotoStore keeps photos in process memory.
type MemoryPhotoStore struct {
	mu     sync.RWMutex
	photos map[primitive.ObjectID]models.Photo
}

// NewMemoryPhotoStore creates an empty in-process photo store.
func NewMemoryPhotoStore() *MemoryPhotoStore {
	return &MemoryPhotoStore{photos: make(map[primitive.ObjectID]models.Photo)}
}

func (s *MemoryPhotoStore) Put(_ context.Context, id primitive.ObjectID, photo models.Photo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.photos[id] = photo
	return nil
}

func (s *MemoryPhotoStore) Get(_ context.Context, id primitive.ObjectID) (*models.Photo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.photos[id]
	if !ok || len(p.Data) == 0 {
		return nil, ErrNoPhoto
	}
	return &p, nil
}

func (s *MemoryPhotoStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.photos, id)
	return nil
}
