package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/arzan03/ShopFront/internal/db"
	"github.com/arzan03/ShopFront/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var dupKeyField = regexp.MustCompile(`dup key: \{ ?"?([^:"\s]+)"?\s*:`)

// translate maps driver errors onto the store's error values.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}

	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 || e.Code == 11001 {
				return &DuplicateError{Fields: duplicateFields(e), Err: err}
			}
		}
	}
	return err
}

func duplicateFields(e mongo.WriteError) []string {
	var fields []string
	if e.Raw != nil {
		if kp, err := e.Raw.LookupErr("keyPattern"); err == nil {
			if doc, ok := kp.DocumentOK(); ok {
				elems, _ := doc.Elements()
				for _, el := range elems {
					fields = append(fields, el.Key())
				}
			}
		}
	}
	if len(fields) == 0 {
		if m := dupKeyField.FindStringSubmatch(e.Message); m != nil {
			fields = append(fields, m[1])
		}
	}
	return fields
}

type MongoUserStore struct {
	coll *mongo.Collection
}

// NewMongoUserStore uses the users collection of database.
func NewMongoUserStore(database *mongo.Database) *MongoUserStore {
	return &MongoUserStore{coll: database.Collection(db.Users)}
}

func (s *MongoUserStore) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, user)
	return translate(err)
}

func (s *MongoUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoUserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := s.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *MongoUserStore) Update(ctx context.Context, user *models.User) error {
	res, err := s.coll.UpdateByID(ctx, user.ID, bson.M{"$set": bson.M{
		"name":            user.Name,
		"email":           user.Email,
		"salt":            user.Salt,
		"hashed_password": user.HashedPassword,
		"role":            user.Role,
		"about":           user.About,
		"updated_at":      user.UpdatedAt,
	}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type MongoCategoryStore struct {
	coll *mongo.Collection
}

// NewMongoCategoryStore uses the categories collection of database.
func NewMongoCategoryStore(database *mongo.Database) *MongoCategoryStore {
	return &MongoCategoryStore{coll: database.Collection(db.Categories)}
}

func (s *MongoCategoryStore) Create(ctx context.Context, category *models.Category) error {
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, category)
	return translate(err)
}

func (s *MongoCategoryStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	var category models.Category
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&category); err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (s *MongoCategoryStore) Update(ctx context.Context, category *models.Category) error {
	res, err := s.coll.UpdateByID(ctx, category.ID, bson.M{"$set": bson.M{
		"name":        category.Name,
		"description": category.Description,
		"updated_at":  category.UpdatedAt,
	}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoCategoryStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoCategoryStore) List(ctx context.Context) ([]models.Category, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return categories, nil
}

// MongoProductStore keeps products in a collection whose documents may also
// carry a "photo" sub-document; every read here projects it away.
type MongoProductStore struct {
	coll *mongo.Collection
}

// NewMongoProductStore uses the products collection of database.
func NewMongoProductStore(database *mongo.Database) *MongoProductStore {
	return &MongoProductStore{coll: database.Collection(db.Products)}
}

var withoutPhoto = bson.M{"photo": 0}

func (s *MongoProductStore) Create(ctx context.Context, product *models.Product) error {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, product)
	return translate(err)
}

func (s *MongoProductStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := s.coll.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(withoutPhoto)).Decode(&product)
	if err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (s *MongoProductStore) Update(ctx context.Context, product *models.Product) error {
	res, err := s.coll.UpdateByID(ctx, product.ID, bson.M{"$set": bson.M{
		"name":        product.Name,
		"description": product.Description,
		"price":       product.Price,
		"category":    product.Category,
		"quantity":    product.Quantity,
		"sold":        product.Sold,
		"shipping":    product.Shipping,
		"has_photo":   product.HasPhoto,
		"updated_at":  product.UpdatedAt,
	}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoProductStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoProductStore) Find(ctx context.Context, q ProductQuery) ([]models.Product, error) {
	cursor, err := s.coll.Find(ctx, productFilter(q.Filter), findOptions(q))
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

func (s *MongoProductStore) Count(ctx context.Context, f ProductFilter) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, productFilter(f))
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

func (s *MongoProductStore) DistinctCategories(ctx context.Context) ([]primitive.ObjectID, error) {
	values, err := s.coll.Distinct(ctx, "category", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("distinct categories: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		if id, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// productFilter translates a ProductFilter into a query document.
func productFilter(f ProductFilter) bson.M {
	filter := bson.M{}
	if len(f.Categories) > 0 {
		filter["category"] = bson.M{"$in": f.Categories}
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		filter["price"] = price
	}
	if f.Search != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
	}
	if !f.ExcludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": f.ExcludeID}
	}
	return filter
}

func findOptions(q ProductQuery) *options.FindOptions {
	dir := 1
	if q.Descending {
		dir = -1
	}
	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = "_id"
	}
	sort := bson.D{{Key: sortBy, Value: dir}}
	if sortBy != "_id" {
		sort = append(sort, bson.E{Key: "_id", Value: dir})
	}

	opts := options.Find().SetSort(sort).SetProjection(withoutPhoto)
	if q.Skip > 0 {
		opts.SetSkip(q.Skip)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	return opts
}
