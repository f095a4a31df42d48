package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func ptr(f float64) *float64 { return &f }

func TestProductFilter(t *testing.T) {
	cat := primitive.NewObjectID()
	self := primitive.NewObjectID()

	filter := productFilter(ProductFilter{
		Categories: []primitive.ObjectID{cat},
		MinPrice:   ptr(10),
		MaxPrice:   ptr(20),
		Search:     "shoe.",
		ExcludeID:  self,
	})

	assert.Equal(t, bson.M{"$in": []primitive.ObjectID{cat}}, filter["category"])
	assert.Equal(t, bson.M{"$gte": 10.0, "$lte": 20.0}, filter["price"])
	assert.Equal(t, primitive.Regex{Pattern: `shoe\.`, Options: "i"}, filter["name"])
	assert.Equal(t, bson.M{"$ne": self}, filter["_id"])
}

func TestProductFilter_Empty(t *testing.T) {
	assert.Empty(t, productFilter(ProductFilter{}))
}

func TestProductFilter_OpenRange(t *testing.T) {
	filter := productFilter(ProductFilter{MinPrice: ptr(5)})
	assert.Equal(t, bson.M{"$gte": 5.0}, filter["price"])
}

func TestFindOptions(t *testing.T) {
	opts := findOptions(ProductQuery{SortBy: "price", Descending: true, Skip: 4, Limit: 2})

	assert.Equal(t, bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: -1}}, opts.Sort)
	require.NotNil(t, opts.Skip)
	require.NotNil(t, opts.Limit)
	assert.EqualValues(t, 4, *opts.Skip)
	assert.EqualValues(t, 2, *opts.Limit)
	assert.Equal(t, withoutPhoto, opts.Projection)
}

func TestFindOptions_DefaultsToID(t *testing.T) {
	opts := findOptions(ProductQuery{})
	assert.Equal(t, bson.D{{Key: "_id", Value: 1}}, opts.Sort)
	assert.Nil(t, opts.Skip)
	assert.Nil(t, opts.Limit)
}

func TestTranslate(t *testing.T) {
	assert.Nil(t, translate(nil))
	assert.ErrorIs(t, translate(mongo.ErrNoDocuments), ErrNotFound)

	other := errors.New("boom")
	assert.Equal(t, other, translate(other))
}

func TestTranslate_DuplicateKeyPattern(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"code": 11000, "keyPattern": bson.M{"email": 1}})
	require.NoError(t, err)

	werr := mongo.WriteException{WriteErrors: mongo.WriteErrors{{
		Code:    11000,
		Message: "E11000 duplicate key error",
		Raw:     raw,
	}}}

	var dup *DuplicateError
	require.ErrorAs(t, translate(werr), &dup)
	assert.Equal(t, []string{"email"}, dup.Fields)
}

func TestTranslate_DuplicateFromMessage(t *testing.T) {
	werr := mongo.WriteException{WriteErrors: mongo.WriteErrors{{
		Code:    11000,
		Message: `E11000 duplicate key error collection: shop.categories index: name_1 dup key: { name: "Books" }`,
	}}}

	var dup *DuplicateError
	require.ErrorAs(t, translate(werr), &dup)
	assert.Equal(t, []string{"name"}, dup.Fields)
}
