package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/arzan03/ShopFront/internal/cache"
	"github.com/arzan03/ShopFront/internal/models"
	"github.com/arzan03/ShopFront/internal/storage"
	"github.com/arzan03/ShopFront/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type productFixture struct {
	svc        *ProductService
	products   *store.MemoryProductStore
	categories *store.MemoryCategoryStore
	photos     storage.PhotoStore
	category   *models.Category
}

func newProductFixture(t *testing.T, photos storage.PhotoStore) *productFixture {
	t.Helper()
	if photos == nil {
		photos = storage.NewMemoryPhotoStore()
	}
	f := &productFixture{
		products:   store.NewMemoryProductStore(),
		categories: store.NewMemoryCategoryStore(),
		photos:     photos,
		category:   &models.Category{Name: "Books"},
	}
	require.NoError(t, f.categories.Create(context.Background(), f.category))
	f.svc = NewProductService(f.products, f.categories, photos, cache.Noop{}, quietLogger())
	return f
}

func (f *productFixture) fields() map[string]string {
	return map[string]string{
		"name":        "Dune",
		"description": "Spice",
		"price":       "9.5",
		"category":    f.category.ID.Hex(),
		"quantity":    "3",
		"shipping":    "true",
	}
}

func upload(data []byte, contentType string) *PhotoUpload {
	return &PhotoUpload{
		Size:        int64(len(data)),
		ContentType: contentType,
		Open:        func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

func (f *productFixture) count(t *testing.T) int64 {
	t.Helper()
	n, err := f.products.Count(context.Background(), store.ProductFilter{})
	require.NoError(t, err)
	return n
}

func TestProductService_CreateWithPhoto(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture(t, nil)

	p, err := f.svc.Create(ctx, ProductForm{Fields: f.fields(), Photo: upload(pngHeader, "image/png")})
	require.NoError(t, err)
	assert.Equal(t, "Dune", p.Name)
	assert.Equal(t, 9.5, p.Price)
	assert.Equal(t, 3, p.Quantity)
	assert.True(t, p.Shipping)
	assert.True(t, p.HasPhoto)

	photo, err := f.svc.Photo(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "image/png", photo.ContentType)
	assert.Equal(t, pngHeader, photo.Data)
}

func TestProductService_CreateMissingField(t *testing.T) {
	f := newProductFixture(t, nil)

	for _, key := range []string{"name", "description", "price", "category", "quantity", "shipping"} {
		fields := f.fields()
		delete(fields, key)
		_, err := f.svc.Create(context.Background(), ProductForm{Fields: fields})
		requireClientError(t, err, KindValidation, "All fields are required")
	}
	assert.Zero(t, f.count(t))
}

func TestProductService_CreatePhotoTooLarge(t *testing.T) {
	f := newProductFixture(t, nil)

	big := append(append([]byte{}, pngHeader...), make([]byte, models.MaxPhotoSize)...)
	_, err := f.svc.Create(context.Background(), ProductForm{Fields: f.fields(), Photo: upload(big, "image/png")})
	requireClientError(t, err, KindValidation, "Image should be less than 1mb in size")

	// A client lying about the size is caught while reading.
	lying := upload(big, "image/png")
	lying.Size = 10
	_, err = f.svc.Create(context.Background(), ProductForm{Fields: f.fields(), Photo: lying})
	requireClientError(t, err, KindValidation, "Image should be less than 1mb in size")

	assert.Zero(t, f.count(t))
}

func TestProductService_CreateRejectsBadValues(t *testing.T) {
	f := newProductFixture(t, nil)
	cases := map[string]string{
		"price":    "Price must be a non-negative number",
		"quantity": "Quantity must be a non-negative integer",
		"shipping": "Shipping must be true or false",
		"category": "Invalid category",
	}
	for key, msg := range cases {
		fields := f.fields()
		fields[key] = "nope"
		_, err := f.svc.Create(context.Background(), ProductForm{Fields: fields})
		requireClientError(t, err, KindValidation, msg)
	}

	for _, price := range []string{"NaN", "Inf", "-Infinity", "-1"} {
		fields := f.fields()
		fields["price"] = price
		_, err := f.svc.Create(context.Background(), ProductForm{Fields: fields})
		requireClientError(t, err, KindValidation, "Price must be a non-negative number")
	}

	fields := f.fields()
	fields["category"] = primitive.NewObjectID().Hex()
	_, err := f.svc.Create(context.Background(), ProductForm{Fields: fields})
	requireClientError(t, err, KindValidation, "Category not found")

	_, err = f.svc.Create(context.Background(), ProductForm{Fields: f.fields(), Photo: upload([]byte("plain text"), "image/png")})
	requireClientError(t, err, KindValidation, "Photo must be an image")

	assert.Zero(t, f.count(t))
}

type failingPhotoStore struct{ storage.MemoryPhotoStore }

func (*failingPhotoStore) Put(context.Context, primitive.ObjectID, models.Photo) error {
	return errors.New("bucket unavailable")
}

func TestProductService_CreateRollsBackWhenPhotoFails(t *testing.T) {
	f := newProductFixture(t, &failingPhotoStore{})

	_, err := f.svc.Create(context.Background(), ProductForm{Fields: f.fields(), Photo: upload(pngHeader, "")})
	require.Error(t, err)
	assert.Zero(t, f.count(t))
}

func TestProductService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture(t, nil)

	p, err := f.svc.Create(ctx, ProductForm{Fields: f.fields()})
	require.NoError(t, err)
	assert.False(t, p.HasPhoto)

	_, err = f.svc.Photo(ctx, p)
	requireClientError(t, err, KindNotFound, "Photo not found")

	fields := f.fields()
	fields["price"] = "12"
	fields["shipping"] = "0"
	updated, err := f.svc.Update(ctx, p, ProductForm{Fields: fields, Photo: upload(pngHeader, "")})
	require.NoError(t, err)
	assert.Equal(t, 12.0, updated.Price)
	assert.False(t, updated.Shipping)
	assert.True(t, updated.HasPhoto)

	photo, err := f.svc.Photo(ctx, updated)
	require.NoError(t, err)
	assert.Equal(t, "image/png", photo.ContentType)

	delete(fields, "price")
	_, err = f.svc.Update(ctx, updated, ProductForm{Fields: fields})
	requireClientError(t, err, KindValidation, "All fields are required")

	require.NoError(t, f.svc.Delete(ctx, updated))
	_, err = f.svc.Get(ctx, updated.ID)
	requireClientError(t, err, KindNotFound, "Product not found")
	_, err = f.photos.Get(ctx, updated.ID)
	assert.ErrorIs(t, err, storage.ErrNoPhoto)
}

func TestProductService_UpdateOfDeletedProductStoresNoPhoto(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture(t, nil)

	p, err := f.svc.Create(ctx, ProductForm{Fields: f.fields()})
	require.NoError(t, err)
	require.NoError(t, f.products.Delete(ctx, p.ID))

	_, err = f.svc.Update(ctx, p, ProductForm{Fields: f.fields(), Photo: upload(pngHeader, "")})
	requireClientError(t, err, KindNotFound, "Product not found")

	_, err = f.photos.Get(ctx, p.ID)
	assert.ErrorIs(t, err, storage.ErrNoPhoto)
}

func TestProductService_UpdateRestoresFieldsWhenPhotoFails(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture(t, &failingPhotoStore{})

	p, err := f.svc.Create(ctx, ProductForm{Fields: f.fields()})
	require.NoError(t, err)

	fields := f.fields()
	fields["name"] = "Renamed"
	_, err = f.svc.Update(ctx, p, ProductForm{Fields: fields, Photo: upload(pngHeader, "")})
	require.Error(t, err)

	stored, err := f.svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, stored.Name)
	assert.False(t, stored.HasPhoto)
}

func seed(t *testing.T, f *productFixture, category primitive.ObjectID, name string, price float64, at time.Time) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Price: price, Category: category, CreatedAt: at}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

func TestProductService_ListDefaults(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture(t, nil)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		seed(t, f, f.category.ID, string(rune('a'+i)), float64(i), base.Add(time.Duration(i)*time.Minute))
	}

	list, err := f.svc.List(ctx, ListParams{})
	require.NoError(t, err)
	require.Len(t, list, 6)
	assert.Equal(t, "a", list[0].Name)
	assert.Equal(t, "f", list[5].Name)

	list, err = f.svc.List(ctx, ListParams{SortBy: "price", Order: "desc", Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "h", list[0].Name)

	_, err = f.svc.List(ctx, ListParams{SortBy: "password"})
	requireClientError(t, err, KindValidation, "Invalid sort field password")

	_, err = f.svc.List(ctx, ListParams{Order: "sideways"})
	requireClientError(t, err, KindValidation, "Order must be asc or desc")
}

func TestProductService_Search(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture(t, nil)
	other := primitive.NewObjectID()
	now := time.Now()
	seed(t, f, f.category.ID, "cheap", 5, now)
	seed(t, f, f.category.ID, "mid", 10, now)
	seed(t, f, f.category.ID, "high", 20, now)
	seed(t, f, other, "elsewhere", 10, now)

	res, err := f.svc.Search(ctx, SearchParams{
		SortBy:  "price",
		Order:   "asc",
		Limit:   1,
		Filters: SearchFilters{Category: []string{f.category.ID.Hex()}, Price: []float64{10, 20}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Size)
	assert.EqualValues(t, 2, res.Total)
	assert.Equal(t, "mid", res.Data[0].Name)

	res, err = f.svc.Search(ctx, SearchParams{Skip: 1, SortBy: "price", Order: "asc", Filters: SearchFilters{Price: []float64{10, 10}}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Total)
	assert.Equal(t, 1, res.Size)

	_, err = f.svc.Search(ctx, SearchParams{Filters: SearchFilters{Price: []float64{30, 10}}})
	requireClientError(t, err, KindValidation, "Price range minimum exceeds maximum")

	_, err = f.svc.Search(ctx, SearchParams{Filters: SearchFilters{Price: []float64{1}}})
	requireClientError(t, err, KindValidation, "Price filter must be [min, max]")

	_, err = f.svc.Search(ctx, SearchParams{Filters: SearchFilters{Category: []string{"zz"}}})
	requireClientError(t, err, KindValidation, "Invalid category zz")
}

func TestProductService_RelatedTextSearchCategories(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture(t, nil)
	other := primitive.NewObjectID()
	now := time.Now()
	dune := seed(t, f, f.category.ID, "Dune", 5, now)
	seed(t, f, f.category.ID, "Dune Messiah", 6, now)
	seed(t, f, f.category.ID, "Emma", 7, now)
	seed(t, f, other, "Dune poster", 8, now)

	related, err := f.svc.Related(ctx, dune, 0)
	require.NoError(t, err)
	assert.Len(t, related, 2)
	for _, p := range related {
		assert.NotEqual(t, dune.ID, p.ID)
		assert.Equal(t, f.category.ID, p.Category)
	}

	found, err := f.svc.TextSearch(ctx, "dune", "All")
	require.NoError(t, err)
	assert.Len(t, found, 3)

	found, err = f.svc.TextSearch(ctx, "dune", other.Hex())
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Dune poster", found[0].Name)

	ids, err := f.svc.Categories(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []primitive.ObjectID{f.category.ID, other}, ids)
}
