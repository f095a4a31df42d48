package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/arzan03/ShopFront/internal/db"
	"github.com/arzan03/ShopFront/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPhotoStore stores the photo as a sub-document of the product.
type MongoPhotoStore struct {
	coll *mongo.Collection
}

// NewMongoPhotoStore keeps photos inside the product documents of database.
func NewMongoPhotoStore(database *mongo.Database) *MongoPhotoStore {
	return &MongoPhotoStore{coll: database.Collection(db.Products)}
}

func (s *MongoPhotoStore) Put(ctx context.Context, id primitive.ObjectID, photo models.Photo) error {
	res, err := s.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{"photo": photo}})
	if err != nil {
		return fmt.Errorf("save photo: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("save photo: product %s not found", id.Hex())
	}
	return nil
}

func (s *MongoPhotoStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Photo, error) {
	var doc struct {
		Photo *models.Photo `bson:"photo"`
	}
	err := s.coll.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(bson.M{"photo": 1})).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoPhoto
	}
	if err != nil {
		return nil, fmt.Errorf("load photo: %w", err)
	}
	if doc.Photo == nil || len(doc.Photo.Data) == 0 {
		return nil, ErrNoPhoto
	}
	return doc.Photo, nil
}

func (s *MongoPhotoStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.coll.UpdateByID(ctx, id, bson.M{"$unset": bson.M{"photo": ""}}); err != nil {
		return fmt.Errorf("remove photo: %w", err)
	}
	return nil
}
