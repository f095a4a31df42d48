package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxPhotoSize is the largest accepted product photo in bytes.
const MaxPhotoSize = 1000000

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Category    primitive.ObjectID `bson:"category" json:"category"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	Sold        int                `bson:"sold" json:"sold"`
	Shipping    bool               `bson:"shipping" json:"shipping"`
	HasPhoto    bool               `bson:"has_photo" json:"has_photo"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// Photo is the binary image attached to a product.
type Photo struct {
	Data        []byte `bson:"data"`
	ContentType string `bson:"content_type"`
}
